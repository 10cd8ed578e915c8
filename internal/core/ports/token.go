package ports

import (
	"context"
	"time"
)

// TokenClaims is what a verified session token asserts.
type TokenClaims struct {
	Subject   string
	ID        string
	ExpiresAt time.Time
}

// IssuedToken is a freshly signed session token.
type IssuedToken struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

// TokenService signs and verifies stateless session tokens.
type TokenService interface {
	Issue(subjectID string) (*IssuedToken, error)
	// Verify fails with domain.ErrInvalidToken for malformed, tampered or
	// expired tokens.
	Verify(token string) (*TokenClaims, error)
	TTL() time.Duration
}

// TokenRevoker is an optional denylist of token ids, consulted by the
// authorization guard. Entries only need to outlive the token itself.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
