package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sirpyerre/social-api/internal/core/domain"
)

const (
	usersCollection = "users"

	usernameIndex = "uniq_username"
	emailIndex    = "uniq_email"

	duplicateKeyCode = 11000
)

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	Username   string               `bson:"username"`
	FullName   string               `bson:"fullName"`
	Email      string               `bson:"email"`
	Password   string               `bson:"password"`
	Bio        string               `bson:"bio"`
	Link       string               `bson:"link"`
	ProfileImg string               `bson:"profileImg"`
	CoverImg   string               `bson:"coverImg"`
	Followers  []primitive.ObjectID `bson:"followers"`
	Following  []primitive.ObjectID `bson:"following"`
	LikedPosts []primitive.ObjectID `bson:"likedPosts"`
	CreatedAt  time.Time            `bson:"createdAt"`
	UpdatedAt  time.Time            `bson:"updatedAt"`
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		FullName:     mu.FullName,
		Email:        mu.Email,
		PasswordHash: mu.Password,
		Bio:          mu.Bio,
		Link:         mu.Link,
		ProfileImg:   mu.ProfileImg,
		CoverImg:     mu.CoverImg,
		Followers:    hexIDs(mu.Followers),
		Following:    hexIDs(mu.Following),
		LikedPosts:   hexIDs(mu.LikedPosts),
		CreatedAt:    mu.CreatedAt.UTC(),
		UpdatedAt:    mu.UpdatedAt.UTC(),
	}
}

// Create inserts a new user. The unique indexes decide races between
// concurrent signups; the loser gets ErrUsernameTaken or ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Username:   user.Username,
		FullName:   user.FullName,
		Email:      user.Email,
		Password:   user.PasswordHash,
		Bio:        user.Bio,
		Link:       user.Link,
		ProfileImg: user.ProfileImg,
		CoverImg:   user.CoverImg,
		Followers:  objectIDs(user.Followers),
		Following:  objectIDs(user.Following),
		LikedPosts: objectIDs(user.LikedPosts),
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if dup := duplicateUserError(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

// Update saves the editable profile fields. Follow and like sets are left to
// their own set operations so concurrent follows are never overwritten.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"username":   user.Username,
		"fullName":   user.FullName,
		"email":      user.Email,
		"password":   user.PasswordHash,
		"bio":        user.Bio,
		"link":       user.Link,
		"profileImg": user.ProfileImg,
		"coverImg":   user.CoverImg,
		"updatedAt":  user.UpdatedAt,
	}})
	if err != nil {
		if dup := duplicateUserError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return nil, nil
	}
	return r.findMany(ctx, bson.M{"_id": bson.M{"$in": oids}}, nil)
}

// Sample picks up to limit random users outside exclude.
func (r *UserRepository) Sample(ctx context.Context, exclude []string, limit int) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$nin": objectIDs(exclude)}}}},
		{{Key: "$sample", Value: bson.M{"size": limit}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("sample users: %w", err)
	}
	return decodeUsers(ctx, cur)
}

func (r *UserRepository) Follow(ctx context.Context, followerID, targetID string) error {
	return r.link(ctx, followerID, targetID, "$addToSet")
}

func (r *UserRepository) Unfollow(ctx context.Context, followerID, targetID string) error {
	return r.link(ctx, followerID, targetID, "$pull")
}

func (r *UserRepository) AddLikedPost(ctx context.Context, userID, postID string) error {
	return r.updateSet(ctx, userID, "$addToSet", "likedPosts", postID)
}

func (r *UserRepository) RemoveLikedPost(ctx context.Context, userID, postID string) error {
	return r.updateSet(ctx, userID, "$pull", "likedPosts", postID)
}

// EnsureIndexes creates the unique username and email indexes.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName(usernameIndex)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(emailIndex)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	return nil
}

// link updates both sides of a follow edge. When the second write fails the
// first one is reverted so the edge never exists on one side only.
func (r *UserRepository) link(ctx context.Context, followerID, targetID, op string) error {
	if err := r.updateSet(ctx, followerID, op, "following", targetID); err != nil {
		return err
	}
	if err := r.updateSet(ctx, targetID, op, "followers", followerID); err != nil {
		if undoErr := r.updateSet(ctx, followerID, inverseSetOp(op), "following", targetID); undoErr != nil {
			return errors.Join(err, fmt.Errorf("revert following: %w", undoErr))
		}
		return err
	}
	return nil
}

func inverseSetOp(op string) string {
	if op == "$addToSet" {
		return "$pull"
	}
	return "$addToSet"
}

func (r *UserRepository) updateSet(ctx context.Context, userID, op, field, member string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	moid, err := primitive.ObjectIDFromHex(member)
	if err != nil {
		return domain.ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{op: bson.M{field: moid}})
	if err != nil {
		return fmt.Errorf("update user %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return decodeUsers(ctx, cur)
}

func decodeUsers(ctx context.Context, cur *mongo.Cursor) ([]*domain.User, error) {
	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	out := make([]*domain.User, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// duplicateUserError maps a unique-index violation to the matching conflict.
// The server message names the index as "index: <name> dup key: {...}"; the
// duplicated value follows it, so only the index marker is inspected.
func duplicateUserError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	for _, msg := range duplicateKeyMessages(err) {
		if violatedIndex(msg) == emailIndex {
			return domain.ErrEmailTaken
		}
	}
	return domain.ErrUsernameTaken
}

func duplicateKeyMessages(err error) []string {
	var msgs []string
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == duplicateKeyCode {
				msgs = append(msgs, e.Message)
			}
		}
		if we.WriteConcernError != nil && we.WriteConcernError.Code == duplicateKeyCode {
			msgs = append(msgs, we.WriteConcernError.Message)
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == duplicateKeyCode {
		msgs = append(msgs, ce.Message)
	}
	if len(msgs) == 0 {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

// violatedIndex extracts the index name from a duplicate key message.
func violatedIndex(msg string) string {
	_, rest, ok := strings.Cut(msg, "index: ")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(rest, " ")
	return name
}
