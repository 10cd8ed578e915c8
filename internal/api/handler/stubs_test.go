package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/social-api/internal/api/identity"
	"github.com/sirpyerre/social-api/internal/core/domain"
	"github.com/sirpyerre/social-api/internal/core/ports"
)

type stubAuthService struct {
	signupFn       func(ctx context.Context, in ports.SignupInput) (*ports.Session, error)
	loginFn        func(ctx context.Context, username, password string) (*ports.Session, error)
	logoutFn       func(ctx context.Context, token string) error
	authenticateFn func(ctx context.Context, token string) (*domain.User, error)
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.Session, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.Session, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	return s.authenticateFn(ctx, token)
}

type stubPostService struct {
	createFn     func(ctx context.Context, actor *domain.User, in ports.CreatePostInput) (*ports.PostDetail, error)
	deleteFn     func(ctx context.Context, actor *domain.User, postID string) error
	commentFn    func(ctx context.Context, actor *domain.User, postID, text string) (*ports.PostDetail, error)
	toggleLikeFn func(ctx context.Context, actor *domain.User, postID string) (*ports.LikeResult, error)
	listFn       func(ctx context.Context, kind, arg string) ([]ports.PostDetail, error)
}

func (s *stubPostService) Create(ctx context.Context, actor *domain.User, in ports.CreatePostInput) (*ports.PostDetail, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubPostService) Delete(ctx context.Context, actor *domain.User, postID string) error {
	return s.deleteFn(ctx, actor, postID)
}

func (s *stubPostService) Comment(ctx context.Context, actor *domain.User, postID, text string) (*ports.PostDetail, error) {
	return s.commentFn(ctx, actor, postID, text)
}

func (s *stubPostService) ToggleLike(ctx context.Context, actor *domain.User, postID string) (*ports.LikeResult, error) {
	return s.toggleLikeFn(ctx, actor, postID)
}

func (s *stubPostService) All(ctx context.Context) ([]ports.PostDetail, error) {
	return s.listFn(ctx, "all", "")
}

func (s *stubPostService) Following(ctx context.Context, actor *domain.User) ([]ports.PostDetail, error) {
	return s.listFn(ctx, "following", actor.ID)
}

func (s *stubPostService) LikedBy(ctx context.Context, userID string) ([]ports.PostDetail, error) {
	return s.listFn(ctx, "likes", userID)
}

func (s *stubPostService) ByUsername(ctx context.Context, username string) ([]ports.PostDetail, error) {
	return s.listFn(ctx, "user", username)
}

type stubUserService struct {
	profileFn   func(ctx context.Context, username string) (*domain.User, error)
	suggestedFn func(ctx context.Context, actor *domain.User) ([]*domain.User, error)
	followFn    func(ctx context.Context, actor *domain.User, targetID string) (bool, error)
	updateFn    func(ctx context.Context, actor *domain.User, upd domain.ProfileUpdate) (*domain.User, error)
}

func (s *stubUserService) Profile(ctx context.Context, username string) (*domain.User, error) {
	return s.profileFn(ctx, username)
}

func (s *stubUserService) Suggested(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	return s.suggestedFn(ctx, actor)
}

func (s *stubUserService) ToggleFollow(ctx context.Context, actor *domain.User, targetID string) (bool, error) {
	return s.followFn(ctx, actor, targetID)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, actor *domain.User, upd domain.ProfileUpdate) (*domain.User, error) {
	return s.updateFn(ctx, actor, upd)
}

type stubNotificationService struct {
	listFn      func(ctx context.Context, actor *domain.User) ([]ports.NotificationDetail, error)
	deleteAllFn func(ctx context.Context, actor *domain.User) (int64, error)
}

func (s *stubNotificationService) Create(context.Context, ports.NotificationInput) error { return nil }

func (s *stubNotificationService) List(ctx context.Context, actor *domain.User) ([]ports.NotificationDetail, error) {
	return s.listFn(ctx, actor)
}

func (s *stubNotificationService) DeleteAll(ctx context.Context, actor *domain.User) (int64, error) {
	return s.deleteAllFn(ctx, actor)
}

// newContext builds an echo context for a JSON request. A non-nil actor is
// placed in the request context the way the Auth middleware does.
func newContext(method, path, body string, actor *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if actor != nil {
		req = req.WithContext(identity.WithUser(req.Context(), actor))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}
