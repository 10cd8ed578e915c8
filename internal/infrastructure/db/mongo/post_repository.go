package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sirpyerre/social-api/internal/core/domain"
	"github.com/sirpyerre/social-api/internal/core/ports"
)

const postsCollection = "posts"

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(postsCollection)}
}

type mongoComment struct {
	ID        primitive.ObjectID `bson:"_id"`
	User      primitive.ObjectID `bson:"user"`
	Text      string             `bson:"text"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type mongoPost struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	User      primitive.ObjectID   `bson:"user"`
	Text      string               `bson:"text"`
	Img       string               `bson:"img"`
	Likes     []primitive.ObjectID `bson:"likes"`
	Comments  []mongoComment       `bson:"comments"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

func (mp *mongoPost) toDomain() *domain.Post {
	comments := make([]domain.Comment, 0, len(mp.Comments))
	for _, c := range mp.Comments {
		comments = append(comments, domain.Comment{
			ID:        c.ID.Hex(),
			User:      c.User.Hex(),
			Text:      c.Text,
			CreatedAt: c.CreatedAt.UTC(),
		})
	}
	return &domain.Post{
		ID:        mp.ID.Hex(),
		User:      mp.User.Hex(),
		Text:      mp.Text,
		Img:       mp.Img,
		Likes:     hexIDs(mp.Likes),
		Comments:  comments,
		CreatedAt: mp.CreatedAt.UTC(),
		UpdatedAt: mp.UpdatedAt.UTC(),
	}
}

// Create inserts a new post document owned by p.User.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	owner, err := primitive.ObjectIDFromHex(p.User)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoPost{
		User:      owner,
		Text:      p.Text,
		Img:       p.Img,
		Likes:     []primitive.ObjectID{},
		Comments:  []mongoComment{},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert post: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPost
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// List returns posts matching the filter, newest first.
func (r *PostRepository) List(ctx context.Context, f ports.ListPostsFilter) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.AuthorIDs != nil {
		filter["user"] = bson.M{"$in": objectIDs(f.AuthorIDs)}
	}
	if f.PostIDs != nil {
		filter["_id"] = bson.M{"$in": objectIDs(f.PostIDs)}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	var docs []mongoPost
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	out := make([]*domain.Post, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// AddComment appends c to the post and returns the updated document.
func (r *PostRepository) AddComment(ctx context.Context, postID string, c domain.Comment) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}
	author, err := primitive.ObjectIDFromHex(c.User)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"comments": mongoComment{
			ID:        primitive.NewObjectID(),
			User:      author,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		}},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mp mongoPost
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("comment post: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PostRepository) AddLike(ctx context.Context, postID, userID string) error {
	return r.updateLikes(ctx, postID, userID, "$addToSet")
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	return r.updateLikes(ctx, postID, userID, "$pull")
}

func (r *PostRepository) updateLikes(ctx context.Context, postID, userID, op string) error {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return domain.ErrPostNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, oid, bson.M{op: bson.M{"likes": uid}})
	if err != nil {
		return fmt.Errorf("update post likes: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// EnsureIndexes creates the feed indexes on the posts collection.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("posts indexes: %w", err)
	}
	return nil
}
