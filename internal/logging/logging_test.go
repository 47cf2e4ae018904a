package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"sklep/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInit_WritesRotatingFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sklep.log")

	logger, err := logging.Init(logging.Options{Production: true, Level: "debug", Filename: file})
	require.NoError(t, err)
	defer zap.ReplaceGlobals(zap.NewNop())

	zap.S().Infow("synced product", "product_id", 7)
	_ = logger.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "synced product")
	assert.Contains(t, string(data), `"product_id":7`)
}

func TestInit_RejectsUnknownLevel(t *testing.T) {
	_, err := logging.Init(logging.Options{Level: "loud"})
	assert.Error(t, err)
}
