package ports

import (
	"context"

	"github.com/sirpyerre/social-api/internal/core/domain"
)

// UserRepository is the durable credential store.
//
// Create and Update map unique-index violations to domain.ErrUsernameTaken or
// domain.ErrEmailTaken so concurrent signups race safely at the storage layer.
// Lookups return domain.ErrUserNotFound when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	// Sample returns up to limit random users whose id is not in exclude.
	Sample(ctx context.Context, exclude []string, limit int) ([]*domain.User, error)

	// Follow adds targetID to follower's following set and followerID to the
	// target's followers set. Both are set operations.
	Follow(ctx context.Context, followerID, targetID string) error
	Unfollow(ctx context.Context, followerID, targetID string) error

	AddLikedPost(ctx context.Context, userID, postID string) error
	RemoveLikedPost(ctx context.Context, userID, postID string) error
}
