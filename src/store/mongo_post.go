package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/theleywin/feed-backend/src/models"
)

func (s *MongoStore) PostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var post models.Post
	if err := s.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (s *MongoStore) SavePost(ctx context.Context, p *models.Post) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	now := s.now()
	if p.Version == 0 {
		doc := p.Clone()
		if doc.Id.IsZero() {
			doc.Id = primitive.NewObjectID()
		}
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = now
		}
		doc.UpdatedAt = now
		doc.Version = 1
		if _, err := s.posts.InsertOne(ctx, doc); err != nil {
			return translate(err)
		}
		*p = *doc
		return nil
	}

	doc := p.Clone()
	doc.Version = p.Version + 1
	doc.UpdatedAt = now
	res, err := s.posts.ReplaceOne(ctx, versionFilter(p.Id, p.Version), doc)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	*p = *doc
	return nil
}

func (s *MongoStore) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.findPosts(ctx, bson.M{})
}

func (s *MongoStore) ListPostsByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Post, error) {
	return s.findPosts(ctx, bson.M{"user": userID})
}

func (s *MongoStore) findPosts(ctx context.Context, filter bson.M) ([]*models.Post, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.posts.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []*models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}
