// Package store is the document store adapter. Each Save call is atomic for
// the one document it writes; nothing spans two documents.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/feed-backend/src/models"
)

var (
	ErrNotFound = errors.New("document not found")
	// ErrVersionConflict is returned by Save when the stored version no longer
	// matches the one the caller loaded.
	ErrVersionConflict = errors.New("document version conflict")
	// ErrDuplicate is returned on insert when a unique key is already taken.
	ErrDuplicate = errors.New("duplicate document")
)

type ProfileStore interface {
	ProfileByUser(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error)
	ProfileByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error)
	// SaveProfile inserts when Version is 0 and otherwise replaces the stored
	// document only if its version still equals p.Version. On success p
	// carries the new version.
	SaveProfile(ctx context.Context, p *models.Profile) error
	DeleteProfile(ctx context.Context, userID primitive.ObjectID) error
	ListProfiles(ctx context.Context) ([]*models.Profile, error)
	// CountBookmarkers counts profiles whose bookmarks reference postID.
	CountBookmarkers(ctx context.Context, postID primitive.ObjectID) (int64, error)
}

type PostStore interface {
	PostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	SavePost(ctx context.Context, p *models.Post) error
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	// ListPosts returns every post, newest first.
	ListPosts(ctx context.Context) ([]*models.Post, error)
	ListPostsByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Post, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

type Store interface {
	ProfileStore
	PostStore
	UserStore
}

// IsRetryable reports whether err means the caller raced another writer and
// should reload and try again.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrVersionConflict) || errors.Is(err, ErrDuplicate)
}
