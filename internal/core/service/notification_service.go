package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/social-api/internal/core/domain"
	"github.com/sirpyerre/social-api/internal/core/ports"
)

type NotificationService struct {
	repo  ports.NotificationRepository
	users ports.UserRepository
	log   zerolog.Logger
}

func NewNotificationService(repo ports.NotificationRepository, users ports.UserRepository, log zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, users: users, log: log}
}

// Create persists a single notification. It is called from dispatcher workers,
// never from a request goroutine.
func (s *NotificationService) Create(ctx context.Context, in ports.NotificationInput) error {
	if in.From == "" || in.To == "" {
		return fmt.Errorf("create notification: missing sender or recipient")
	}
	n := &domain.Notification{
		From:      in.From,
		To:        in.To,
		Type:      in.Type,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	s.log.Debug().Str("from", in.From).Str("to", in.To).Str("type", string(in.Type)).Msg("notification stored")
	return nil
}

// List returns actor's notifications with their senders and marks them read.
// The returned read flags are the ones from before this call.
func (s *NotificationService) List(ctx context.Context, actor *domain.User) ([]ports.NotificationDetail, error) {
	items, err := s.repo.ListFor(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	ids := make([]string, 0, len(items))
	for _, n := range items {
		ids = append(ids, n.From)
	}
	senders, err := loadUsers(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	if len(items) > 0 {
		if err := s.repo.MarkAllRead(ctx, actor.ID); err != nil {
			return nil, fmt.Errorf("mark notifications read: %w", err)
		}
	}

	out := make([]ports.NotificationDetail, 0, len(items))
	for _, n := range items {
		out = append(out, ports.NotificationDetail{Notification: n, From: senders[n.From]})
	}
	return out, nil
}

// DeleteAll removes every notification addressed to actor.
func (s *NotificationService) DeleteAll(ctx context.Context, actor *domain.User) (int64, error) {
	n, err := s.repo.DeleteAllFor(ctx, actor.ID)
	if err != nil {
		return 0, fmt.Errorf("delete notifications: %w", err)
	}
	return n, nil
}
