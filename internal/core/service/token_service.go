package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sirpyerre/social-api/internal/core/domain"
	"github.com/sirpyerre/social-api/internal/core/ports"
)

// DefaultTokenTTL is how long a session token stays valid.
const DefaultTokenTTL = 15 * 24 * time.Hour

// TokenService issues and verifies HS256 session tokens. Verification only
// depends on the token, the secret and the clock.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token asserting subjectID until now+TTL.
func (s *TokenService) Issue(subjectID string) (*ports.IssuedToken, error) {
	if subjectID == "" {
		return nil, errors.New("issue token: empty subject")
	}

	now := s.now()
	exp := now.Add(s.ttl)
	id := uuid.NewString()

	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		ID:        id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &ports.IssuedToken{Value: signed, ID: id, ExpiresAt: exp.Truncate(time.Second)}, nil
}

// Verify returns the claims of a valid token. Malformed, tampered, expired and
// wrongly signed tokens all fail with domain.ErrInvalidToken.
func (s *TokenService) Verify(token string) (*ports.TokenClaims, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	return &ports.TokenClaims{
		Subject:   claims.Subject,
		ID:        claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
