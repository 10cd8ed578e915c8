package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirpyerre/social-api/internal/core/domain"
	"github.com/sirpyerre/social-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.User
	nextID int
	calls  int   // number of repository calls, any method
	err    error // if set, every lookup returns this error
	setErr error // if set, AddLikedPost and RemoveLikedPost return this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Followers = append([]string{}, u.Followers...)
	clone.Following = append([]string{}, u.Following...)
	clone.LikedPosts = append([]string{}, u.LikedPosts...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, u := range r.byID {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("u%d", r.nextID)
	r.byID[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if _, ok := r.byID[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.byID[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.byID {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) Sample(_ context.Context, exclude []string, limit int) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		if !skip[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	var out []*domain.User
	for _, id := range ids {
		if len(out) == limit {
			break
		}
		out = append(out, cloneUser(r.byID[id]))
	}
	return out, nil
}

func addToSet(set []string, id string) []string {
	for _, v := range set {
		if v == id {
			return set
		}
	}
	return append(set, id)
}

func (r *stubUserRepo) Follow(_ context.Context, followerID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.byID[followerID].Following = addToSet(r.byID[followerID].Following, targetID)
	r.byID[targetID].Followers = addToSet(r.byID[targetID].Followers, followerID)
	return nil
}

func (r *stubUserRepo) Unfollow(_ context.Context, followerID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.byID[followerID].Following = without(r.byID[followerID].Following, targetID)
	r.byID[targetID].Followers = without(r.byID[targetID].Followers, followerID)
	return nil
}

func (r *stubUserRepo) AddLikedPost(_ context.Context, userID, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.setErr != nil {
		return r.setErr
	}
	r.byID[userID].LikedPosts = addToSet(r.byID[userID].LikedPosts, postID)
	return nil
}

func (r *stubUserRepo) RemoveLikedPost(_ context.Context, userID, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.setErr != nil {
		return r.setErr
	}
	r.byID[userID].LikedPosts = without(r.byID[userID].LikedPosts, postID)
	return nil
}

// mustAdd inserts a user directly, bypassing the service.
func (r *stubUserRepo) mustAdd(u *domain.User) *domain.User {
	created, err := r.Create(context.Background(), u)
	if err != nil {
		panic(err)
	}
	return created
}

// ---------------------------------------------------------------------------
// In-memory post repository
// ---------------------------------------------------------------------------

type stubPostRepo struct {
	byID   map[string]*domain.Post
	nextID int
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{byID: make(map[string]*domain.Post)}
}

func clonePost(p *domain.Post) *domain.Post {
	clone := *p
	clone.Likes = append([]string{}, p.Likes...)
	clone.Comments = append([]domain.Comment{}, p.Comments...)
	return &clone
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) (*domain.Post, error) {
	r.nextID++
	c := clonePost(p)
	c.ID = fmt.Sprintf("p%d", r.nextID)
	r.byID[c.ID] = c
	return clonePost(c), nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubPostRepo) List(_ context.Context, f ports.ListPostsFilter) ([]*domain.Post, error) {
	in := func(set []string, v string) bool {
		for _, s := range set {
			if s == v {
				return true
			}
		}
		return false
	}
	var out []*domain.Post
	for _, p := range r.byID {
		if f.AuthorIDs != nil && !in(f.AuthorIDs, p.User) {
			continue
		}
		if f.PostIDs != nil && !in(f.PostIDs, p.ID) {
			continue
		}
		out = append(out, clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubPostRepo) AddComment(_ context.Context, postID string, c domain.Comment) (*domain.Post, error) {
	p, ok := r.byID[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	c.ID = fmt.Sprintf("c%d", len(p.Comments)+1)
	p.Comments = append(p.Comments, c)
	return clonePost(p), nil
}

func (r *stubPostRepo) AddLike(_ context.Context, postID, userID string) error {
	p, ok := r.byID[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	p.Likes = addToSet(p.Likes, userID)
	return nil
}

func (r *stubPostRepo) RemoveLike(_ context.Context, postID, userID string) error {
	p, ok := r.byID[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	p.Likes = without(p.Likes, userID)
	return nil
}

// ---------------------------------------------------------------------------
// Dispatcher, revoker and notification repository stubs
// ---------------------------------------------------------------------------

type stubDispatcher struct {
	sent []ports.NotificationInput
}

func (d *stubDispatcher) Enqueue(in ports.NotificationInput) {
	d.sent = append(d.sent, in)
}

type stubRevoker struct {
	revoked map[string]time.Time
	err     error
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Time)}
}

func (r *stubRevoker) Revoke(_ context.Context, id string, until time.Time) error {
	if r.err != nil {
		return r.err
	}
	r.revoked[id] = until
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[id]
	return ok, nil
}

type stubNotificationRepo struct {
	items     []*domain.Notification
	markedFor []string
}

func (r *stubNotificationRepo) Insert(_ context.Context, n *domain.Notification) error {
	clone := *n
	clone.ID = fmt.Sprintf("n%d", len(r.items)+1)
	r.items = append(r.items, &clone)
	return nil
}

func (r *stubNotificationRepo) ListFor(_ context.Context, userID string) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].To == userID {
			clone := *r.items[i]
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	r.markedFor = append(r.markedFor, userID)
	for _, n := range r.items {
		if n.To == userID {
			n.Read = true
		}
	}
	return nil
}

func (r *stubNotificationRepo) DeleteAllFor(_ context.Context, userID string) (int64, error) {
	var kept []*domain.Notification
	var n int64
	for _, item := range r.items {
		if item.To == userID {
			n++
			continue
		}
		kept = append(kept, item)
	}
	r.items = kept
	return n, nil
}
