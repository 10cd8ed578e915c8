package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/social-api/internal/api/identity"
	"github.com/sirpyerre/social-api/internal/api/metrics"
	"github.com/sirpyerre/social-api/internal/api/session"
	"github.com/sirpyerre/social-api/internal/core/domain"
	"github.com/sirpyerre/social-api/internal/core/ports"
)

// Auth resolves the session cookie into a stored user and places it in the
// request context. Requests without a valid session never reach next.
func Auth(auth ports.AuthService, transport *session.Transport) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			user, err := auth.Authenticate(req.Context(), transport.Extract(c))
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
				return err
			}

			c.SetRequest(req.WithContext(identity.WithUser(req.Context(), user)))
			return next(c)
		}
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoToken):
		return "no_token"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrSessionUser):
		return "user_missing"
	default:
		return "error"
	}
}
