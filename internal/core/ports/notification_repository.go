package ports

import (
	"context"

	"github.com/sirpyerre/social-api/internal/core/domain"
)

// NotificationRepository persists notifications.
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	// ListFor returns the recipient's notifications, newest first.
	ListFor(ctx context.Context, userID string) ([]*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	DeleteAllFor(ctx context.Context, userID string) (int64, error)
}
