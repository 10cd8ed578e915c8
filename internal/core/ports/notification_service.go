package ports

import (
	"context"

	"github.com/sirpyerre/social-api/internal/core/domain"
)

// NotificationInput is the DTO handed to the dispatcher by the services that
// generate activity.
type NotificationInput struct {
	From string
	To   string
	Type domain.NotificationType
}

// NotificationDetail is a notification with its sender resolved.
type NotificationDetail struct {
	Notification *domain.Notification
	From         *domain.User
}

// NotificationService stores and serves notifications.
type NotificationService interface {
	Create(ctx context.Context, in NotificationInput) error
	List(ctx context.Context, actor *domain.User) ([]NotificationDetail, error)
	DeleteAll(ctx context.Context, actor *domain.User) (int64, error)
}

// NotificationDispatcher accepts notifications for asynchronous delivery.
type NotificationDispatcher interface {
	Enqueue(in NotificationInput)
}
