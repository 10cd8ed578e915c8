package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/social-api/internal/core/domain"
	"github.com/sirpyerre/social-api/internal/core/ports"
)

type postFixture struct {
	users  *stubUserRepo
	posts  *stubPostRepo
	notify *stubDispatcher
	svc    *PostService
	ana    *domain.User
	bob    *domain.User
}

func newPostFixture() *postFixture {
	f := &postFixture{
		users:  newStubUserRepo(),
		posts:  newStubPostRepo(),
		notify: &stubDispatcher{},
	}
	f.svc = NewPostService(f.posts, f.users, f.notify, zerolog.Nop())
	f.ana = f.users.mustAdd(&domain.User{Username: "ana", Email: "ana@x.com", PasswordHash: "h"})
	f.bob = f.users.mustAdd(&domain.User{Username: "bob", Email: "bob@x.com", PasswordHash: "h"})
	return f
}

// reload returns the current stored state of u, as the guard would.
func (f *postFixture) reload(u *domain.User) *domain.User {
	fresh, err := f.users.FindByID(context.Background(), u.ID)
	if err != nil {
		panic(err)
	}
	return fresh
}

func TestPostService_Create_RequiresContent(t *testing.T) {
	f := newPostFixture()
	_, err := f.svc.Create(context.Background(), f.ana, ports.CreatePostInput{Text: "   "})
	if err != domain.ErrEmptyPost {
		t.Fatalf("expected ErrEmptyPost, got %v", err)
	}
	if len(f.posts.byID) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestPostService_Create_Success(t *testing.T) {
	f := newPostFixture()

	detail, err := f.svc.Create(context.Background(), f.ana, ports.CreatePostInput{Img: "https://img.example/cat.png"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if detail.Post.User != f.ana.ID || detail.Post.Img != "https://img.example/cat.png" {
		t.Fatalf("unexpected post %+v", detail.Post)
	}
	if detail.Author == nil || detail.Author.PasswordHash != "" {
		t.Fatalf("author must be present and without digest: %+v", detail.Author)
	}
}

func TestPostService_Delete(t *testing.T) {
	f := newPostFixture()
	detail, _ := f.svc.Create(context.Background(), f.ana, ports.CreatePostInput{Text: "hello"})

	if err := f.svc.Delete(context.Background(), f.bob, detail.Post.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), f.ana, detail.Post.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if err := f.svc.Delete(context.Background(), f.ana, detail.Post.ID); err != domain.ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_Comment(t *testing.T) {
	f := newPostFixture()
	detail, _ := f.svc.Create(context.Background(), f.ana, ports.CreatePostInput{Text: "hello"})

	if _, err := f.svc.Comment(context.Background(), f.bob, detail.Post.ID, ""); err != domain.ErrEmptyComment {
		t.Fatalf("expected ErrEmptyComment, got %v", err)
	}
	if _, err := f.svc.Comment(context.Background(), f.bob, "missing", "hi"); err != domain.ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}

	updated, err := f.svc.Comment(context.Background(), f.bob, detail.Post.ID, "nice")
	if err != nil {
		t.Fatalf("Comment error: %v", err)
	}
	if len(updated.Comments) != 1 {
		t.Fatalf("expected one comment, got %d", len(updated.Comments))
	}
	c := updated.Comments[0]
	if c.Comment.Text != "nice" || c.Author == nil || c.Author.Username != "bob" {
		t.Fatalf("unexpected comment %+v", c)
	}
	if c.Author.PasswordHash != "" {
		t.Fatalf("comment author must not carry a digest")
	}
}

func TestPostService_ToggleLike(t *testing.T) {
	f := newPostFixture()
	detail, _ := f.svc.Create(context.Background(), f.ana, ports.CreatePostInput{Text: "hello"})

	res, err := f.svc.ToggleLike(context.Background(), f.bob, detail.Post.ID)
	if err != nil {
		t.Fatalf("like error: %v", err)
	}
	if !res.Liked || len(res.Likes) != 1 || res.Likes[0] != f.bob.ID {
		t.Fatalf("unexpected like result %+v", res)
	}
	if got := f.reload(f.bob).LikedPosts; len(got) != 1 || got[0] != detail.Post.ID {
		t.Fatalf("liked posts not updated: %v", got)
	}
	if len(f.notify.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(f.notify.sent))
	}
	if n := f.notify.sent[0]; n.From != f.bob.ID || n.To != f.ana.ID || n.Type != domain.NotificationLike {
		t.Fatalf("unexpected notification %+v", n)
	}

	res, err = f.svc.ToggleLike(context.Background(), f.bob, detail.Post.ID)
	if err != nil {
		t.Fatalf("unlike error: %v", err)
	}
	if res.Liked || len(res.Likes) != 0 {
		t.Fatalf("unexpected unlike result %+v", res)
	}
	if got := f.reload(f.bob).LikedPosts; len(got) != 0 {
		t.Fatalf("liked posts not cleared: %v", got)
	}
	if len(f.notify.sent) != 1 {
		t.Fatalf("unlike must not notify")
	}
}

func TestPostService_ToggleLike_RevertsPostWhenUserWriteFails(t *testing.T) {
	f := newPostFixture()
	detail, _ := f.svc.Create(context.Background(), f.ana, ports.CreatePostInput{Text: "hello"})
	postID := detail.Post.ID
	boom := errors.New("users unavailable")

	f.users.setErr = boom
	if _, err := f.svc.ToggleLike(context.Background(), f.bob, postID); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if likes := f.posts.byID[postID].Likes; len(likes) != 0 {
		t.Fatalf("post like not reverted: %v", likes)
	}
	if len(f.notify.sent) != 0 {
		t.Fatalf("failed like must not notify")
	}

	f.users.setErr = nil
	if _, err := f.svc.ToggleLike(context.Background(), f.bob, postID); err != nil {
		t.Fatalf("like error: %v", err)
	}

	f.users.setErr = boom
	if _, err := f.svc.ToggleLike(context.Background(), f.bob, postID); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if likes := f.posts.byID[postID].Likes; len(likes) != 1 || likes[0] != f.bob.ID {
		t.Fatalf("post unlike not reverted: %v", likes)
	}
	if got := f.reload(f.bob).LikedPosts; len(got) != 1 || got[0] != postID {
		t.Fatalf("user liked posts changed: %v", got)
	}
}

func TestPostService_ToggleLike_OwnPostDoesNotNotify(t *testing.T) {
	f := newPostFixture()
	detail, _ := f.svc.Create(context.Background(), f.ana, ports.CreatePostInput{Text: "hello"})

	if _, err := f.svc.ToggleLike(context.Background(), f.ana, detail.Post.ID); err != nil {
		t.Fatalf("like error: %v", err)
	}
	if len(f.notify.sent) != 0 {
		t.Fatalf("self-like must not notify, got %+v", f.notify.sent)
	}
}

func TestPostService_Listings(t *testing.T) {
	f := newPostFixture()
	ctx := context.Background()

	first, _ := f.svc.Create(ctx, f.ana, ports.CreatePostInput{Text: "first"})
	f.posts.byID[first.Post.ID].CreatedAt = time.Now().Add(-time.Hour)
	second, _ := f.svc.Create(ctx, f.bob, ports.CreatePostInput{Text: "second"})

	all, err := f.svc.All(ctx)
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	if len(all) != 2 || all[0].Post.ID != second.Post.ID {
		t.Fatalf("expected newest first, got %+v", all)
	}
	if all[1].Author == nil || all[1].Author.Username != "ana" {
		t.Fatalf("author not resolved: %+v", all[1].Author)
	}

	feed, err := f.svc.Following(ctx, f.reload(f.ana))
	if err != nil || len(feed) != 0 {
		t.Fatalf("expected empty feed, got %v, %v", feed, err)
	}
	_ = f.users.Follow(ctx, f.ana.ID, f.bob.ID)
	feed, err = f.svc.Following(ctx, f.reload(f.ana))
	if err != nil || len(feed) != 1 || feed[0].Post.ID != second.Post.ID {
		t.Fatalf("unexpected feed %+v, %v", feed, err)
	}

	byName, err := f.svc.ByUsername(ctx, "ana")
	if err != nil || len(byName) != 1 || byName[0].Post.ID != first.Post.ID {
		t.Fatalf("unexpected user posts %+v, %v", byName, err)
	}
	if _, err := f.svc.ByUsername(ctx, "ghost"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	liked, err := f.svc.LikedBy(ctx, f.bob.ID)
	if err != nil || len(liked) != 0 {
		t.Fatalf("expected no liked posts, got %v, %v", liked, err)
	}
	_, _ = f.svc.ToggleLike(ctx, f.bob, first.Post.ID)
	liked, err = f.svc.LikedBy(ctx, f.bob.ID)
	if err != nil || len(liked) != 1 || liked[0].Post.ID != first.Post.ID {
		t.Fatalf("unexpected liked posts %+v, %v", liked, err)
	}
	if _, err := f.svc.LikedBy(ctx, "missing"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
