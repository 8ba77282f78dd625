// Package cache holds derived relationship counts so profile stats do not
// need a full profile read on every request.
package cache

import (
	"context"

	"github.com/theleywin/feed-backend/src/models"
)

// StatsCache caches follower/following counts per principal.
type StatsCache interface {
	// GetStats returns (stats, true, nil) on hit and (zero, false, nil) on miss.
	GetStats(ctx context.Context, userID string) (models.ProfileStats, bool, error)
	SetStats(ctx context.Context, userID string, stats models.ProfileStats) error
	Invalidate(ctx context.Context, userIDs ...string) error
	Close() error
}

// NoopCache always misses. Used when no Redis address is configured.
type NoopCache struct{}

func (NoopCache) GetStats(context.Context, string) (models.ProfileStats, bool, error) {
	return models.ProfileStats{}, false, nil
}

func (NoopCache) SetStats(context.Context, string, models.ProfileStats) error { return nil }

func (NoopCache) Invalidate(context.Context, ...string) error { return nil }

func (NoopCache) Close() error { return nil }

var _ StatsCache = NoopCache{}
