package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/feed-backend/src/models"
)

// Operation names accepted by MemoryStore.FailOn.
const (
	OpSaveProfile = "SaveProfile"
	OpSavePost    = "SavePost"
)

// MemoryStore is an in-process Store with the same per-document semantics as
// MongoStore: documents are copied on the way in and out and saves are
// version checked. It is used by tests and by local runs without MONGO_URI.
type MemoryStore struct {
	mu       sync.Mutex
	profiles map[primitive.ObjectID]*models.Profile
	posts    map[primitive.ObjectID]*models.Post
	users    map[primitive.ObjectID]*models.User
	failures map[string][]error
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[primitive.ObjectID]*models.Profile),
		posts:    make(map[primitive.ObjectID]*models.Post),
		users:    make(map[primitive.ObjectID]*models.User),
		failures: make(map[string][]error),
		now:      time.Now,
	}
}

// FailOn queues errs to be returned, one per call, by the next calls to op
// before any state is touched.
func (s *MemoryStore) FailOn(op string, errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = append(s.failures[op], errs...)
}

func (s *MemoryStore) injected(op string) error {
	queue := s.failures[op]
	if len(queue) == 0 {
		return nil
	}
	s.failures[op] = queue[1:]
	return queue[0]
}

func (s *MemoryStore) ProfileByUser(_ context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.profiles {
		if p.User == userID {
			return p.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ProfileByID(_ context.Context, id primitive.ObjectID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryStore) SaveProfile(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.injected(OpSaveProfile); err != nil {
		return err
	}

	now := s.now()
	doc := p.Clone()
	doc.UpdatedAt = now
	if p.Version == 0 {
		for _, existing := range s.profiles {
			if existing.User == p.User {
				return ErrDuplicate
			}
		}
		if doc.Id.IsZero() {
			doc.Id = primitive.NewObjectID()
		}
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = now
		}
		doc.Version = 1
	} else {
		current, ok := s.profiles[p.Id]
		if !ok || current.Version != p.Version {
			return ErrVersionConflict
		}
		doc.Version = p.Version + 1
	}

	s.profiles[doc.Id] = doc
	*p = *doc.Clone()
	return nil
}

func (s *MemoryStore) DeleteProfile(_ context.Context, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.profiles {
		if p.User == userID {
			delete(s.profiles, id)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) ListProfiles(_ context.Context) ([]*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p.Clone())
	}
	slices.SortFunc(out, func(a, b *models.Profile) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (s *MemoryStore) CountBookmarkers(_ context.Context, postID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, p := range s.profiles {
		if p.HasBookmark(postID) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) PostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryStore) SavePost(_ context.Context, p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.injected(OpSavePost); err != nil {
		return err
	}

	now := s.now()
	doc := p.Clone()
	doc.UpdatedAt = now
	if p.Version == 0 {
		if doc.Id.IsZero() {
			doc.Id = primitive.NewObjectID()
		}
		if _, taken := s.posts[doc.Id]; taken {
			return ErrDuplicate
		}
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = now
		}
		doc.Version = 1
	} else {
		current, ok := s.posts[p.Id]
		if !ok || current.Version != p.Version {
			return ErrVersionConflict
		}
		doc.Version = p.Version + 1
	}

	s.posts[doc.Id] = doc
	*p = *doc.Clone()
	return nil
}

func (s *MemoryStore) DeletePost(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *MemoryStore) ListPosts(_ context.Context) ([]*models.Post, error) {
	return s.filterPosts(func(*models.Post) bool { return true }), nil
}

func (s *MemoryStore) ListPostsByUser(_ context.Context, userID primitive.ObjectID) ([]*models.Post, error) {
	return s.filterPosts(func(p *models.Post) bool { return p.User == userID }), nil
}

func (s *MemoryStore) filterPosts(keep func(*models.Post) bool) []*models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*models.Post{}
	for _, p := range s.posts {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *models.Post) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.Email = strings.ToLower(u.Email)
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	if u.Id.IsZero() {
		u.Id = primitive.NewObjectID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	cp := *u
	s.users[u.Id] = &cp
	return nil
}

func (s *MemoryStore) UserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

var _ Store = (*MemoryStore)(nil)
