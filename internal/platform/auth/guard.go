package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const RoleAdmin = "admin"

// RoleSource resolves the stored role for an email. An unknown email is not
// an error: it yields an empty role.
type RoleSource interface {
	RoleOf(ctx context.Context, email string) (string, error)
}

// DenyReason classifies why a Decision refused access.
type DenyReason string

const (
	ReasonUnauthenticated DenyReason = "unauthenticated"
	ReasonForbidden       DenyReason = "forbidden"
	ReasonUnavailable     DenyReason = "unavailable"
)

// Decision is either Allow(identity) or Deny(reason); callers must stop on Deny.
type Decision struct {
	allowed  bool
	identity Identity
	reason   DenyReason
}

func Allow(id Identity) Decision { return Decision{allowed: true, identity: id} }
func Deny(reason DenyReason) Decision { return Decision{reason: reason} }
func (d Decision) Allowed() bool { return d.allowed }
func (d Decision) Identity() Identity { return d.identity }
func (d Decision) Reason() DenyReason { return d.reason }

// HTTPError renders a Deny as a generic echo error. It must only be called
// on a denied decision.
func (d Decision) HTTPError() *echo.HTTPError {
	switch d.reason {
	case ReasonUnauthenticated:
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized access")
	case ReasonUnavailable:
		return echo.NewHTTPError(http.StatusServiceUnavailable, "authorization temporarily unavailable")
	default:
		return echo.NewHTTPError(http.StatusForbidden, "forbidden access")
	}
}

// Guard checks the role stored for the verified caller, ignoring any role
// the token itself claims.
type Guard struct {
	roles RoleSource
}

func NewGuard(roles RoleSource) *Guard {
	return &Guard{roles: roles}
}

func (g *Guard) Authorize(ctx context.Context, required string) Decision {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return Deny(ReasonUnauthenticated)
	}
	role, err := g.roles.RoleOf(ctx, id.Email)
	if err != nil {
		return Deny(ReasonUnavailable)
	}
	if role != required {
		return Deny(ReasonForbidden)
	}
	id.Role = role
	return Allow(id)
}

// RequireRole returns middleware that runs next only when the stored role of
// the caller equals role.
func (g *Guard) RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := g.Authorize(c.Request().Context(), role)
			if !d.Allowed() {
				return d.HTTPError()
			}
			SetIdentity(c, d.Identity())
			return next(c)
		}
	}
}

// RequireAdmin is RequireRole(RoleAdmin).
func (g *Guard) RequireAdmin() echo.MiddlewareFunc {
	return g.RequireRole(RoleAdmin)
}

// RequireIdentity rejects requests that reached a protected route without a
// verified caller.
func RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := IdentityFromContext(c.Request().Context()); !ok {
				return Deny(ReasonUnauthenticated).HTTPError()
			}
			return next(c)
		}
	}
}

// IsSelf reports whether email names the verified caller.
func IsSelf(ctx context.Context, email string) bool {
	id, ok := IdentityFromContext(ctx)
	return ok && strings.EqualFold(id.Email, strings.TrimSpace(email))
}
