// Package identity carries the authenticated user through a request context.
package identity

import (
	"context"

	"github.com/sirpyerre/social-api/internal/core/domain"
)

type ctxKey struct{}

// WithUser returns a copy of ctx that carries user.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// FromContext returns the user stored by WithUser, if any.
func FromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(*domain.User)
	return user, ok && user != nil
}
