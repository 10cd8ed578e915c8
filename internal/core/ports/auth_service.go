package ports

import (
	"context"
	"time"

	"github.com/sirpyerre/social-api/internal/core/domain"
)

// SignupInput carries the fields of a signup request.
type SignupInput struct {
	Username string
	FullName string
	Email    string
	Password string
}

// Session is the result of a successful signup or login: the identity plus
// the token the transport must hand to the client.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService orchestrates the credential store and the token service.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*Session, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	// Logout revokes token when a revocation list is configured. It never
	// fails because of an unparsable token.
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a transport token into a stored identity.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}
