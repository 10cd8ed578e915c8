package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/social-api/internal/core/domain"
	"github.com/sirpyerre/social-api/internal/core/ports"
)

type PostService struct {
	posts  ports.PostRepository
	users  ports.UserRepository
	notify ports.NotificationDispatcher
	log    zerolog.Logger
}

func NewPostService(
	posts ports.PostRepository,
	users ports.UserRepository,
	notify ports.NotificationDispatcher,
	log zerolog.Logger,
) *PostService {
	return &PostService{posts: posts, users: users, notify: notify, log: log}
}

// Create stores a new post authored by actor. A post needs text, an image
// reference, or both.
func (s *PostService) Create(ctx context.Context, actor *domain.User, in ports.CreatePostInput) (*ports.PostDetail, error) {
	text := strings.TrimSpace(in.Text)
	img := strings.TrimSpace(in.Img)
	if text == "" && img == "" {
		return nil, domain.ErrEmptyPost
	}

	now := time.Now().UTC()
	created, err := s.posts.Create(ctx, &domain.Post{
		User:      actor.ID,
		Text:      text,
		Img:       img,
		Likes:     []string{},
		Comments:  []domain.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.Info().Str("post_id", created.ID).Str("user_id", actor.ID).Msg("post created")
	return &ports.PostDetail{Post: created, Author: publicUser(actor), Comments: []ports.CommentDetail{}}, nil
}

// Delete removes a post. Only its author may do so.
func (s *PostService) Delete(ctx context.Context, actor *domain.User, postID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.User != actor.ID {
		return domain.ErrNotPostOwner
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	s.log.Info().Str("post_id", postID).Str("user_id", actor.ID).Msg("post deleted")
	return nil
}

// Comment appends a comment by actor and returns the updated post.
func (s *PostService) Comment(ctx context.Context, actor *domain.User, postID, text string) (*ports.PostDetail, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyComment
	}

	post, err := s.posts.AddComment(ctx, postID, domain.Comment{
		User:      actor.ID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	details, err := s.details(ctx, []*domain.Post{post})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// ToggleLike likes the post when actor has not liked it yet and unlikes it
// otherwise. Liking someone else's post notifies its author.
func (s *PostService) ToggleLike(ctx context.Context, actor *domain.User, postID string) (*ports.LikeResult, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.LikedBy(actor.ID) {
		if err := s.posts.RemoveLike(ctx, postID, actor.ID); err != nil {
			return nil, fmt.Errorf("unlike post: %w", err)
		}
		if err := s.users.RemoveLikedPost(ctx, actor.ID, postID); err != nil {
			s.revertLike(ctx, postID, actor.ID, s.posts.AddLike)
			return nil, fmt.Errorf("unlike post: %w", err)
		}
		return &ports.LikeResult{Liked: false, Likes: without(post.Likes, actor.ID)}, nil
	}

	if err := s.posts.AddLike(ctx, postID, actor.ID); err != nil {
		return nil, fmt.Errorf("like post: %w", err)
	}
	if err := s.users.AddLikedPost(ctx, actor.ID, postID); err != nil {
		s.revertLike(ctx, postID, actor.ID, s.posts.RemoveLike)
		return nil, fmt.Errorf("like post: %w", err)
	}

	if post.User != actor.ID {
		s.notify.Enqueue(ports.NotificationInput{From: actor.ID, To: post.User, Type: domain.NotificationLike})
	}
	return &ports.LikeResult{Liked: true, Likes: append(without(post.Likes, actor.ID), actor.ID)}, nil
}

// revertLike undoes the post side of a like toggle whose user side failed,
// keeping post.likes and user.likedPosts in step.
func (s *PostService) revertLike(ctx context.Context, postID, userID string, undo func(context.Context, string, string) error) {
	if err := undo(ctx, postID, userID); err != nil {
		s.log.Error().Err(err).Str("post_id", postID).Str("user_id", userID).Msg("revert like toggle")
	}
}

// All lists every post, newest first.
func (s *PostService) All(ctx context.Context) ([]ports.PostDetail, error) {
	return s.list(ctx, ports.ListPostsFilter{})
}

// Following lists posts written by the users actor follows.
func (s *PostService) Following(ctx context.Context, actor *domain.User) ([]ports.PostDetail, error) {
	if len(actor.Following) == 0 {
		return []ports.PostDetail{}, nil
	}
	return s.list(ctx, ports.ListPostsFilter{AuthorIDs: actor.Following})
}

// LikedBy lists the posts the given user has liked.
func (s *PostService) LikedBy(ctx context.Context, userID string) ([]ports.PostDetail, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.LikedPosts) == 0 {
		return []ports.PostDetail{}, nil
	}
	return s.list(ctx, ports.ListPostsFilter{PostIDs: user.LikedPosts})
}

// ByUsername lists the posts written by the named user.
func (s *PostService) ByUsername(ctx context.Context, username string) ([]ports.PostDetail, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, ports.ListPostsFilter{AuthorIDs: []string{user.ID}})
}

func (s *PostService) list(ctx context.Context, filter ports.ListPostsFilter) ([]ports.PostDetail, error) {
	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return s.details(ctx, posts)
}

// details resolves post and comment authors with a single user lookup.
func (s *PostService) details(ctx context.Context, posts []*domain.Post) ([]ports.PostDetail, error) {
	var ids []string
	for _, p := range posts {
		ids = append(ids, p.User)
		for _, c := range p.Comments {
			ids = append(ids, c.User)
		}
	}

	users, err := loadUsers(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ports.PostDetail, 0, len(posts))
	for _, p := range posts {
		comments := make([]ports.CommentDetail, 0, len(p.Comments))
		for _, c := range p.Comments {
			comments = append(comments, ports.CommentDetail{Comment: c, Author: users[c.User]})
		}
		out = append(out, ports.PostDetail{Post: p, Author: users[p.User], Comments: comments})
	}
	return out, nil
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
