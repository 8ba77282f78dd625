package social

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/feed-backend/src/models"
	"github.com/theleywin/feed-backend/src/store"
)

func newTestService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return NewService(st, nil, Config{MaxAttempts: 3}), st
}

// newPrincipal registers a user with an empty profile.
func newPrincipal(t *testing.T, svc *Service, st *store.MemoryStore, username string) Principal {
	t.Helper()
	ctx := context.Background()
	u := &models.User{Name: username, Username: username, Email: username + "@example.com"}
	require.NoError(t, st.CreateUser(ctx, u))
	p := PrincipalFromUser(*u)
	_, err := svc.EnsureProfile(ctx, p)
	require.NoError(t, err)
	return p
}

func profileOf(t *testing.T, st *store.MemoryStore, p Principal) *models.Profile {
	t.Helper()
	profile, err := st.ProfileByUser(context.Background(), p.ID)
	require.NoError(t, err)
	return profile
}

func postOf(t *testing.T, st *store.MemoryStore, post *models.Post) *models.Post {
	t.Helper()
	stored, err := st.PostByID(context.Background(), post.Id)
	require.NoError(t, err)
	return stored
}

type recordingCache struct {
	mu          sync.Mutex
	entries     map[string]models.ProfileStats
	invalidated []string
	sets        int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: make(map[string]models.ProfileStats)}
}

func (c *recordingCache) GetStats(_ context.Context, userID string) (models.ProfileStats, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[userID]
	return s, ok, nil
}

func (c *recordingCache) SetStats(_ context.Context, userID string, stats models.ProfileStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = stats
	c.sets++
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, userIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range userIDs {
		delete(c.entries, id)
	}
	c.invalidated = append(c.invalidated, userIDs...)
	return nil
}

func (c *recordingCache) Close() error { return nil }

// interleavingStore runs each hook once from inside a store read so a test
// can land a second operation between the read and the caller's next write.
type interleavingStore struct {
	*store.MemoryStore

	mu                 sync.Mutex
	afterCount         func()
	beforeListPosts    func()
	afterProfileByUser func()
}

func newInterleavingStore() *interleavingStore {
	return &interleavingStore{MemoryStore: store.NewMemoryStore()}
}

func (s *interleavingStore) take(hook *func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := *hook
	*hook = nil
	return h
}

func (s *interleavingStore) CountBookmarkers(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	n, err := s.MemoryStore.CountBookmarkers(ctx, postID)
	if h := s.take(&s.afterCount); h != nil {
		h()
	}
	return n, err
}

func (s *interleavingStore) ListPosts(ctx context.Context) ([]*models.Post, error) {
	if h := s.take(&s.beforeListPosts); h != nil {
		h()
	}
	return s.MemoryStore.ListPosts(ctx)
}

func (s *interleavingStore) ProfileByUser(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	p, err := s.MemoryStore.ProfileByUser(ctx, userID)
	if h := s.take(&s.afterProfileByUser); h != nil {
		h()
	}
	return p, err
}
