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

const suggestedUsersLimit = 4

type UserService struct {
	users    ports.UserRepository
	notify   ports.NotificationDispatcher
	validate *validator.Validate
	cost     int
	log      zerolog.Logger
}

func NewUserService(users ports.UserRepository, notify ports.NotificationDispatcher, cost int, log zerolog.Logger) *UserService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &UserService{users: users, notify: notify, validate: validator.New(), cost: cost, log: log}
}

func (s *UserService) Profile(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return publicUser(user), nil
}

// Suggested returns a few users that actor neither is nor follows.
func (s *UserService) Suggested(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	exclude := append([]string{actor.ID}, actor.Following...)
	users, err := s.users.Sample(ctx, exclude, suggestedUsersLimit)
	if err != nil {
		return nil, fmt.Errorf("suggested users: %w", err)
	}

	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, publicUser(u))
	}
	return out, nil
}

// ToggleFollow follows or unfollows target on behalf of actor. Following
// yourself is rejected; the repository keeps both sets duplicate-free.
func (s *UserService) ToggleFollow(ctx context.Context, actor *domain.User, targetID string) (bool, error) {
	if targetID == actor.ID {
		return false, domain.ErrSelfFollow
	}
	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		return false, err
	}

	if actor.IsFollowing(targetID) {
		if err := s.users.Unfollow(ctx, actor.ID, targetID); err != nil {
			return false, fmt.Errorf("unfollow: %w", err)
		}
		s.log.Info().Str("user_id", actor.ID).Str("target_id", targetID).Msg("user unfollowed")
		return false, nil
	}

	if err := s.users.Follow(ctx, actor.ID, targetID); err != nil {
		return false, fmt.Errorf("follow: %w", err)
	}
	s.notify.Enqueue(ports.NotificationInput{From: actor.ID, To: targetID, Type: domain.NotificationFollow})
	s.log.Info().Str("user_id", actor.ID).Str("target_id", targetID).Msg("user followed")
	return true, nil
}

// UpdateProfile applies a partial profile edit. Changing the password
// requires the current one.
func (s *UserService) UpdateProfile(ctx context.Context, actor *domain.User, upd domain.ProfileUpdate) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrSessionUser
		}
		return nil, err
	}

	if err := s.applyPassword(user, upd.CurrentPassword, upd.NewPassword); err != nil {
		return nil, err
	}
	if err := s.applyUsername(ctx, user, upd.Username); err != nil {
		return nil, err
	}
	if err := s.applyEmail(ctx, user, upd.Email); err != nil {
		return nil, err
	}

	setIf(&user.FullName, upd.FullName)
	setIf(&user.Bio, upd.Bio)
	setIf(&user.Link, upd.Link)
	setIf(&user.ProfileImg, upd.ProfileImg)
	setIf(&user.CoverImg, upd.CoverImg)
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("profile updated")
	return publicUser(user), nil
}

func (s *UserService) applyPassword(user *domain.User, current, next string) error {
	if current == "" && next == "" {
		return nil
	}
	if current == "" || next == "" {
		return domain.ErrPasswordPairNeeded
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.ErrWrongPassword
	}
	if err := domain.ValidatePassword(next); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return fmt.Errorf("update profile: hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	return nil
}

func (s *UserService) applyUsername(ctx context.Context, user *domain.User, username *string) error {
	if username == nil {
		return nil
	}
	name := *username
	if strings.TrimSpace(name) == "" {
		return domain.ErrEmptyUsername
	}
	if name == user.Username {
		return nil
	}

	if _, err := s.users.FindByUsername(ctx, name); err == nil {
		return domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("update profile: check username: %w", err)
	}
	user.Username = name
	return nil
}

func (s *UserService) applyEmail(ctx context.Context, user *domain.User, email *string) error {
	if email == nil {
		return nil
	}
	addr := strings.TrimSpace(*email)
	if err := s.validate.Var(addr, "required,email"); err != nil {
		return domain.ErrInvalidEmail
	}
	if addr == user.Email {
		return nil
	}

	if _, err := s.users.FindByEmail(ctx, addr); err == nil {
		return domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("update profile: check email: %w", err)
	}
	user.Email = addr
	return nil
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
