package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/sirpyerre/social-api/internal/core/domain"
)

func TestUserHandler_Profile(t *testing.T) {
	stub := &stubUserService{
		profileFn: func(_ context.Context, username string) (*domain.User, error) {
			if username != "ana" {
				return nil, domain.ErrUserNotFound
			}
			return anaUser(), nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/users/profile/ana", "", anaUser())
	c.SetParamNames("username")
	c.SetParamValues("ana")
	if err := h.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.Contains(rec.Body.String(), "secretdigest") {
		t.Fatalf("digest leaked: %s", rec.Body.String())
	}

	c, _ = newContext(http.MethodGet, "/api/users/profile/nobody", "", anaUser())
	c.SetParamNames("username")
	c.SetParamValues("nobody")
	if err := h.Profile(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestUserHandler_Suggested(t *testing.T) {
	stub := &stubUserService{
		suggestedFn: func(_ context.Context, actor *domain.User) ([]*domain.User, error) {
			return []*domain.User{{ID: "u3", Username: "cy"}}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/api/users/suggested", "", anaUser())

	if err := NewUserHandler(stub).Suggested(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0].Username != "cy" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestUserHandler_Follow(t *testing.T) {
	stub := &stubUserService{
		followFn: func(_ context.Context, actor *domain.User, targetID string) (bool, error) {
			if targetID == actor.ID {
				return false, domain.ErrSelfFollow
			}
			return true, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/users/follow/u2", "", anaUser())
	c.SetParamNames("id")
	c.SetParamValues("u2")
	if err := h.Follow(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "user followed successfully") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	c, _ = newContext(http.MethodPost, "/api/users/follow/u1", "", anaUser())
	c.SetParamNames("id")
	c.SetParamValues("u1")
	if err := h.Follow(c); !errors.Is(err, domain.ErrSelfFollow) {
		t.Fatalf("err = %v, want ErrSelfFollow", err)
	}
}

func TestUserHandler_Update(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(_ context.Context, actor *domain.User, upd domain.ProfileUpdate) (*domain.User, error) {
			if upd.Bio == nil || *upd.Bio != "hi" {
				t.Fatalf("bio not passed: %+v", upd)
			}
			if upd.Username != nil || upd.Email != nil {
				t.Fatalf("absent fields must stay nil: %+v", upd)
			}
			if upd.CurrentPassword != "old123" || upd.NewPassword != "new456" {
				t.Fatalf("passwords not passed: %+v", upd)
			}
			u := anaUser()
			u.Bio = *upd.Bio
			return u, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/users/update",
		`{"bio":"hi","currentPassword":"old123","newPassword":"new456"}`, anaUser())

	if err := NewUserHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"bio":"hi"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
