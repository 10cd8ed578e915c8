package ports

import (
	"context"

	"github.com/sirpyerre/social-api/internal/core/domain"
)

// UserService covers profile reads, follows and profile edits.
type UserService interface {
	Profile(ctx context.Context, username string) (*domain.User, error)
	Suggested(ctx context.Context, actor *domain.User) ([]*domain.User, error)
	// ToggleFollow follows target when actor does not follow it yet and
	// unfollows otherwise. It reports whether actor now follows target.
	ToggleFollow(ctx context.Context, actor *domain.User, targetID string) (bool, error)
	UpdateProfile(ctx context.Context, actor *domain.User, upd domain.ProfileUpdate) (*domain.User, error)
}
