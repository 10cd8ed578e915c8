package ports

import (
	"context"

	"github.com/sirpyerre/social-api/internal/core/domain"
)

// ListPostsFilter narrows a post listing. Nil slices mean "no filter"; the
// service never passes an empty non-nil slice.
type ListPostsFilter struct {
	AuthorIDs []string
	PostIDs   []string
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
	// List returns matching posts, newest first.
	List(ctx context.Context, filter ListPostsFilter) ([]*domain.Post, error)
	AddComment(ctx context.Context, postID string, comment domain.Comment) (*domain.Post, error)
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
}
