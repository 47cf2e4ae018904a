package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sklep/internal/app"
	"sklep/internal/config"
	"sklep/internal/logging"
	"sklep/internal/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "sklep",
		Short:        "Feather jewellery shop backend",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newSyncCmd(), newTokenCmd())
	return root
}

// bootstrap loads the configuration, installs the logger and opens a migrated database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()
	if _, err := logging.Init(logging.Options{
		Production: !cfg.IsDevelopment(),
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFile,
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := app.OpenDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := app.Migrate(db); err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with its background workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer zap.L().Sync() //nolint:errcheck

			a, err := app.New(cfg, db, app.Options{})
			if err != nil {
				return err
			}
			return a.Run()
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := bootstrap(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database migrated")
			return nil
		},
	}
}

func newSyncCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "sync-products",
		Short: "Push products to Stripe",
		Long:  "Creates or updates the Stripe product and price of every active product, or of every product with --force.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			a, err := app.New(cfg, db, app.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runSync(ctx, cmd.OutOrStdout(), a.Sync(), force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "sync inactive and sold products too")
	return cmd
}

// runSync syncs the catalog and prints one line per product followed by a summary.
func runSync(ctx context.Context, out io.Writer, sync *services.SyncService, force bool) error {
	if !sync.Enabled() {
		return fmt.Errorf("STRIPE_SECRET_KEY is not configured")
	}

	report, err := sync.SyncAll(ctx, force, func(item services.SyncReportItem) {
		if item.Result.Success {
			fmt.Fprintf(out, "Processing: %s (#%d)... OK\n", item.Name, item.ProductID)
			return
		}
		fmt.Fprintf(out, "Processing: %s (#%d)... FAILED: %s\n", item.Name, item.ProductID, item.Result.Error)
	})
	if report != nil {
		fmt.Fprintf(out, "\nSynced %d/%d products successfully\n", report.Succeeded, len(report.Items))
		if report.Failed > 0 {
			fmt.Fprintf(out, "%d products failed to sync\n", report.Failed)
		}
	}
	return err
}

func newTokenCmd() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "admin-token <subject>",
		Short: "Issue a bearer token for the admin API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			token, err := services.NewTokenVerifier(cfg.AdminJWTSecret).IssueToken(args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
