package middleware_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sklep/internal/middleware"
	"sklep/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(debug bool) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(debug)})
	app.Use(middleware.RequestLogger())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("database is on fire")
	})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	return app
}

func get(t *testing.T, app *fiber.App, req *http.Request) (int, string, http.Header) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), resp.Header
}

func TestErrorHandler_HidesDetailsInProduction(t *testing.T) {
	status, body, _ := get(t, newApp(false), httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":{"code":"INTERNAL_ERROR","message":"An internal error occurred"}}`, body)
}

func TestErrorHandler_ShowsDetailsInDebug(t *testing.T) {
	status, body, _ := get(t, newApp(true), httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":{"code":"INTERNAL_ERROR","message":"database is on fire"}}`, body)
}

func TestErrorHandler_ClientErrors(t *testing.T) {
	app := newApp(false)

	status, body, _ := get(t, app, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	assert.Equal(t, http.StatusTeapot, status)
	assert.JSONEq(t, `{"error":"short and stout"}`, body)

	status, _, _ = get(t, app, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRequestLogger_RequestID(t *testing.T) {
	app := newApp(false)

	_, _, header := get(t, app, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	assert.Len(t, header.Get(fiber.HeaderXRequestID), 36)

	req := httptest.NewRequest(http.MethodGet, "/teapot", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-123")
	_, _, header = get(t, app, req)
	assert.Equal(t, "req-123", header.Get(fiber.HeaderXRequestID))
}

func TestAdminRequired(t *testing.T) {
	verifier := services.NewTokenVerifier("admin_secret")
	app := fiber.New()
	app.Get("/admin", middleware.AdminRequired(verifier), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("admin_subject").(string))
	})

	token, err := verifier.IssueToken("ola", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			status, body, _ := get(t, app, req)
			assert.Equal(t, tt.status, status)
			if tt.status == http.StatusOK {
				assert.Equal(t, "ola", body)
			}
		})
	}
}
