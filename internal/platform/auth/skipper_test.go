package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestAuthSkipper(t *testing.T) {
	tests := []struct {
		method string
		path   string
		public bool
	}{
		{http.MethodGet, "/health", true},
		{http.MethodGet, "/appointmentOptions", true},
		{http.MethodPost, "/appointmentOptions", false},
		{http.MethodGet, "/bookings/:id", true},
		{http.MethodGet, "/bookings", false},
		{http.MethodPost, "/bookings", false},
		{http.MethodPost, "/create-payment-intent", true},
		{http.MethodPost, "/payments", true},
		{http.MethodPost, "/users", true},
		{http.MethodGet, "/users", false},
		{http.MethodPost, "/doctors", false},
		{http.MethodGet, "/appointmentSpecialty", false},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetPath(tt.path)

			if got := AuthSkipper(c); got != tt.public {
				t.Errorf("AuthSkipper(%s %s) = %v, want %v", tt.method, tt.path, got, tt.public)
			}
		})
	}
}
