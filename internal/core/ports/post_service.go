package ports

import (
	"context"

	"github.com/sirpyerre/social-api/internal/core/domain"
)

// CreatePostInput carries the body of a new post.
type CreatePostInput struct {
	Text string
	Img  string
}

// CommentDetail is a comment with its author resolved.
type CommentDetail struct {
	Comment domain.Comment
	Author  *domain.User // nil when the author no longer exists
}

// PostDetail is a post with its author and comment authors resolved.
type PostDetail struct {
	Post     *domain.Post
	Author   *domain.User
	Comments []CommentDetail
}

// LikeResult reports the outcome of a like toggle.
type LikeResult struct {
	Liked bool
	Likes []string
}

// PostService defines use-case operations for posts. The acting user is
// always the identity resolved by the authorization guard.
type PostService interface {
	Create(ctx context.Context, actor *domain.User, in CreatePostInput) (*PostDetail, error)
	Delete(ctx context.Context, actor *domain.User, postID string) error
	Comment(ctx context.Context, actor *domain.User, postID, text string) (*PostDetail, error)
	ToggleLike(ctx context.Context, actor *domain.User, postID string) (*LikeResult, error)

	All(ctx context.Context) ([]PostDetail, error)
	Following(ctx context.Context, actor *domain.User) ([]PostDetail, error)
	LikedBy(ctx context.Context, userID string) ([]PostDetail, error)
	ByUsername(ctx context.Context, username string) ([]PostDetail, error)
}
