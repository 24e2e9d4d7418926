package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func portalServer() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zerolog.Nop())
	e.Use(SecurityHeaders())
	e.GET("/bookings/:id", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"patient": "Pat",
			"phone":   "555-0101",
			"email":   "pat@x.com",
		})
	})
	e.POST("/payments", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "booking not found")
	})
	return e
}

func TestSecurityHeaders_PatientDataNeverCached(t *testing.T) {
	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/bookings/b-1", http.StatusOK},
		{http.MethodPost, "/payments", http.StatusNotFound},
		{http.MethodGet, "/no-such-route", http.StatusNotFound},
	}
	e := portalServer()
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if got := rec.Header().Get("Cache-Control"); got != "no-store" {
				t.Errorf("Cache-Control = %q, want no-store", got)
			}
		})
	}
}

func TestSecurityHeaders_JSONAPIPolicy(t *testing.T) {
	rec := httptest.NewRecorder()
	portalServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/b-1", nil))

	expected := map[string]string{
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"X-XSS-Protection":          "0",
		"Content-Security-Policy":   "default-src 'none'; frame-ancestors 'none'",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
		"Referrer-Policy":           "no-referrer",
	}
	for header, want := range expected {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("header %s: got %q, want %q", header, got, want)
		}
	}
	if got := rec.Header().Get("Permissions-Policy"); got != "" {
		t.Errorf("unexpected Permissions-Policy %q", got)
	}
}
