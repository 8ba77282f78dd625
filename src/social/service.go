// Package social implements the relationship operations of the feed: follow
// edges between profiles, bookmark edges between a profile and a post, and
// the single-document likes and comments on posts.
//
// Each edge is stored on both of its documents and no write spans two
// documents. Every operation therefore checks membership before it writes,
// writes its documents in a fixed order, and runs inside a bounded retry on
// version conflicts so that a retried call converges instead of duplicating.
package social

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/feed-backend/src/cache"
	"github.com/theleywin/feed-backend/src/lib"
	"github.com/theleywin/feed-backend/src/models"
	"github.com/theleywin/feed-backend/src/store"
)

// Principal is the authenticated actor an operation runs for.
type Principal struct {
	ID       primitive.ObjectID
	Name     string
	Username string
}

func PrincipalFromUser(u models.User) Principal {
	return Principal{ID: u.Id, Name: u.Name, Username: u.Username}
}

type Config struct {
	// MaxAttempts is the total number of tries per operation, including the first.
	MaxAttempts int
	RetryDelay  time.Duration
}

type Service struct {
	profiles store.ProfileStore
	posts    store.PostStore
	users    store.UserStore
	stats    cache.StatsCache
	cfg      Config
	now      func() time.Time
}

func NewService(st store.Store, stats cache.StatsCache, cfg Config) *Service {
	if stats == nil {
		stats = cache.NoopCache{}
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Service{
		profiles: st,
		posts:    st,
		users:    st,
		stats:    stats,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *Service) loadProfile(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	p, err := s.profiles.ProfileByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, storeErr("load profile", err)
	}
	return p, nil
}

func (s *Service) loadPost(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	p, err := s.posts.PostByID(ctx, postID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, storeErr("load post", err)
	}
	return p, nil
}

func (s *Service) invalidateStats(ctx context.Context, userIDs ...primitive.ObjectID) {
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = id.Hex()
	}
	if err := s.stats.Invalidate(ctx, keys...); err != nil {
		l := lib.Ctx(ctx)
		l.Warn().Err(err).Strs("user_ids", keys).Msg("failed to invalidate cached stats")
	}
}
