package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// publicRoutes lists method+route pairs that run without a verified identity.
// Keys use the registered route pattern (c.Path()), not the raw URL.
var publicRoutes = map[string]bool{
	http.MethodGet + " /health":                 true,
	http.MethodGet + " /health/db":              true,
	http.MethodGet + " /":                       true,
	http.MethodGet + " /appointmentOptions":     true,
	http.MethodGet + " /bookings/:id":           true,
	http.MethodPost + " /create-payment-intent": true,
	http.MethodPost + " /payments":              true,
	http.MethodPost + " /users":                 true,
}

// AuthSkipper returns true for requests whose route should skip authentication.
func AuthSkipper(c echo.Context) bool {
	return IsPublicRoute(c.Request().Method, c.Path())
}

// IsPublicRoute reports whether method and route pattern are public.
func IsPublicRoute(method, path string) bool {
	return publicRoutes[method+" "+path]
}
