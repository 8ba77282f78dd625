package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/theleywin/feed-backend/src/models"
)

func (s *MongoStore) ProfileByUser(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	return s.findProfile(ctx, bson.M{"user": userID})
}

func (s *MongoStore) ProfileByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	return s.findProfile(ctx, bson.M{"_id": id})
}

func (s *MongoStore) findProfile(ctx context.Context, filter bson.M) (*models.Profile, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var profile models.Profile
	if err := s.profiles.FindOne(ctx, filter).Decode(&profile); err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (s *MongoStore) SaveProfile(ctx context.Context, p *models.Profile) error {
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
		if _, err := s.profiles.InsertOne(ctx, doc); err != nil {
			return translate(err)
		}
		*p = *doc
		return nil
	}

	doc := p.Clone()
	doc.Version = p.Version + 1
	doc.UpdatedAt = now
	res, err := s.profiles.ReplaceOne(ctx, versionFilter(p.Id, p.Version), doc)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	*p = *doc
	return nil
}

func (s *MongoStore) DeleteProfile(ctx context.Context, userID primitive.ObjectID) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := s.profiles.DeleteOne(ctx, bson.M{"user": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	cursor, err := s.profiles.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []*models.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	return profiles, nil
}

func (s *MongoStore) CountBookmarkers(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	return s.profiles.CountDocuments(ctx, bson.M{"bookmarks.post": postID})
}
