package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/social-api/internal/core/domain"
	"github.com/sirpyerre/social-api/internal/core/ports"
)

func TestNotificationService_CreateListDelete(t *testing.T) {
	users := newStubUserRepo()
	repo := &stubNotificationRepo{}
	svc := NewNotificationService(repo, users, zerolog.Nop())
	ctx := context.Background()

	ana := users.mustAdd(&domain.User{Username: "ana", Email: "ana@x.com", PasswordHash: "h"})
	bob := users.mustAdd(&domain.User{Username: "bob", Email: "bob@x.com", PasswordHash: "h"})

	if err := svc.Create(ctx, ports.NotificationInput{From: bob.ID, To: ana.ID, Type: domain.NotificationFollow}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := svc.Create(ctx, ports.NotificationInput{From: bob.ID, To: ana.ID, Type: domain.NotificationLike}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := svc.Create(ctx, ports.NotificationInput{To: ana.ID}); err == nil {
		t.Fatalf("expected error for missing sender")
	}

	list, err := svc.List(ctx, ana)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(list))
	}
	if list[0].Notification.Type != domain.NotificationLike {
		t.Fatalf("expected newest first, got %s", list[0].Notification.Type)
	}
	if list[0].From == nil || list[0].From.Username != "bob" || list[0].From.PasswordHash != "" {
		t.Fatalf("sender not resolved safely: %+v", list[0].From)
	}
	if list[0].Notification.Read {
		t.Fatalf("returned notifications should reflect the unread state")
	}
	if len(repo.markedFor) != 1 || repo.markedFor[0] != ana.ID {
		t.Fatalf("expected notifications marked read for ana, got %v", repo.markedFor)
	}

	empty, err := svc.List(ctx, bob)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected no notifications for bob, got %v, %v", empty, err)
	}

	n, err := svc.DeleteAll(ctx, ana)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 deleted, got %d, %v", n, err)
	}
}
