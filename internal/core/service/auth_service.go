package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sirpyerre/social-api/internal/core/domain"
	"github.com/sirpyerre/social-api/internal/core/ports"
)

// DefaultBcryptCost is the work factor used for password digests.
const DefaultBcryptCost = 10

// AuthService implements signup, login, logout and the authorization guard.
type AuthService struct {
	users    ports.UserRepository
	tokens   ports.TokenService
	revoker  ports.TokenRevoker
	validate *validator.Validate
	cost     int
	// dummyHash is compared against when the username does not exist, so the
	// unknown-user path costs the same as a wrong password.
	dummyHash []byte
	log       zerolog.Logger
}

// NewAuthService wires the credential store and the token service. revoker may
// be nil, in which case logout only clears the client cookie.
func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenService,
	revoker ports.TokenRevoker,
	cost int,
	log zerolog.Logger,
) *AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		panic(fmt.Sprintf("auth: dummy digest: %v", err))
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		revoker:   revoker,
		validate:  validator.New(),
		cost:      cost,
		dummyHash: dummy,
		log:       log,
	}
}

// Signup validates the input, checks username then email uniqueness, stores a
// bcrypt digest and issues a session token for the new user. No token is
// issued unless the user was saved.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.Session, error) {
	// Usernames are stored and matched exactly as given.
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)

	if strings.TrimSpace(in.Username) == "" || in.FullName == "" || in.Email == "" || in.Password == "" {
		return nil, domain.ErrMissingFields
	}
	if err := s.validate.Var(in.Email, "email"); err != nil {
		return nil, domain.ErrInvalidEmail
	}
	if err := domain.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	if err := s.ensureFree(ctx, in.Username, in.Email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     in.Username,
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: string(hash),
		Followers:    []string{},
		Following:    []string{},
		LikedPosts:   []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	session, err := s.newSession(created)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user signed up")
	return session, nil
}

// Login checks the password of the named user. An unknown username and a wrong
// password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.Session, error) {
	user, err := s.users.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.VerifyPassword(user, password) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.newSession(user)
}

// VerifyPassword reports whether password matches the user's stored digest.
func (s *AuthService) VerifyPassword(user *domain.User, password string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// Logout puts the token id on the revocation list until the token would have
// expired anyway. Without a revocation list, or for a token that does not
// verify, there is nothing to do.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if s.revoker == nil || token == "" {
		return nil
	}
	claims, err := s.tokens.Verify(token)
	if err != nil || claims.ID == "" {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("logout: revoke token: %w", err)
	}
	return nil
}

// Authenticate is the authorization guard: it turns a transport token into the
// stored identity, with the password digest stripped.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrNoToken
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	if s.revoker != nil && claims.ID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("authenticate: revocation check: %w", err)
		}
		if revoked {
			return nil, domain.ErrInvalidToken
		}
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrSessionUser
		}
		return nil, fmt.Errorf("authenticate: load user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *AuthService) ensureFree(ctx context.Context, username, email string) error {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("signup: check username: %w", err)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("signup: check email: %w", err)
	}
	return nil
}

func (s *AuthService) newSession(user *domain.User) (*ports.Session, error) {
	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &ports.Session{User: user, Token: tok.Value, ExpiresAt: tok.ExpiresAt}, nil
}
