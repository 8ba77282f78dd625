package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ProfilesCollection = "profiles"
	PostsCollection    = "posts"
	UsersCollection    = "users"
)

// MongoStore implements Store on a MongoDB database.
type MongoStore struct {
	profiles *mongo.Collection
	posts    *mongo.Collection
	users    *mongo.Collection
	timeout  time.Duration
	now      func() time.Time
}

// NewMongoStore wraps db. Every call is bounded by timeout when it is positive.
func NewMongoStore(db *mongo.Database, timeout time.Duration) *MongoStore {
	return &MongoStore{
		profiles: db.Collection(ProfilesCollection),
		posts:    db.Collection(PostsCollection),
		users:    db.Collection(UsersCollection),
		timeout:  timeout,
		now:      time.Now,
	}
}

// EnsureIndexes creates the unique and lookup indexes the adapter relies on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	_, err := s.profiles.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "bookmarks.post", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create profile indexes: %w", err)
	}

	_, err = s.posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create post indexes: %w", err)
	}

	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// versionFilter matches a document only while it is still at version.
func versionFilter(id any, version int64) bson.M {
	return bson.M{"_id": id, "version": version}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

var _ Store = (*MongoStore)(nil)
