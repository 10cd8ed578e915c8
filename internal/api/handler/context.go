package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/social-api/internal/api/identity"
	"github.com/sirpyerre/social-api/internal/core/domain"
)

// currentUser returns the identity placed in the request context by the Auth
// middleware. A missing identity means the route was mounted without the
// guard, which is treated as an unauthenticated request.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := identity.FromContext(c.Request().Context())
	if !ok {
		return nil, domain.ErrNoToken
	}
	return user, nil
}
