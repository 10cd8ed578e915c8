package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sirpyerre/social-api/internal/core/domain"
)

const notificationsCollection = "notifications"

type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{col: db.Collection(notificationsCollection)}
}

type mongoNotification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	From      primitive.ObjectID `bson:"from"`
	To        primitive.ObjectID `bson:"to"`
	Type      string             `bson:"type"`
	Read      bool               `bson:"read"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// Insert persists a single notification.
func (r *NotificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	from, err := primitive.ObjectIDFromHex(n.From)
	if err != nil {
		return fmt.Errorf("insert notification: bad sender id %q", n.From)
	}
	to, err := primitive.ObjectIDFromHex(n.To)
	if err != nil {
		return fmt.Errorf("insert notification: bad recipient id %q", n.To)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, mongoNotification{
		From:      from,
		To:        to,
		Type:      string(n.Type),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid.Hex()
	}
	return nil
}

// ListFor returns the recipient's notifications, newest first.
func (r *NotificationRepository) ListFor(ctx context.Context, userID string) ([]*domain.Notification, error) {
	to, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"to": to}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	var docs []mongoNotification
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	out := make([]*domain.Notification, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.Notification{
			ID:        d.ID.Hex(),
			From:      d.From.Hex(),
			To:        d.To.Hex(),
			Type:      domain.NotificationType(d.Type),
			Read:      d.Read,
			CreatedAt: d.CreatedAt.UTC(),
		})
	}
	return out, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	to, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.UpdateMany(ctx, bson.M{"to": to, "read": false}, bson.M{"$set": bson.M{"read": true}}); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

func (r *NotificationRepository) DeleteAllFor(ctx context.Context, userID string) (int64, error) {
	to, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"to": to})
	if err != nil {
		return 0, fmt.Errorf("delete notifications: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the recipient index on the notifications collection.
func (r *NotificationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "to", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("notifications indexes: %w", err)
	}
	return nil
}
