package domain

import "time"

// NotificationType is the kind of activity a notification reports.
type NotificationType string

const (
	NotificationLike   NotificationType = "like"
	NotificationFollow NotificationType = "follow"
)

// Notification tells user To that user From did something.
type Notification struct {
	ID        string           `json:"id"`
	From      string           `json:"from"`
	To        string           `json:"to"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
