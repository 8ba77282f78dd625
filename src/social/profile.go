package social

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/feed-backend/src/lib"
	"github.com/theleywin/feed-backend/src/models"
	"github.com/theleywin/feed-backend/src/store"
)

// ProfileFields are the metadata fields a principal may set on their profile.
// Relationship lists are never written through this path.
type ProfileFields struct {
	Status   string   `json:"status"`
	Bio      string   `json:"bio"`
	Website  string   `json:"website"`
	Location string   `json:"location"`
	Company  string   `json:"company"`
	Skills   []string `json:"skills"`
}

func (f ProfileFields) apply(p *models.Profile) {
	p.Status = f.Status
	p.Bio = f.Bio
	p.Website = f.Website
	p.Location = f.Location
	p.Company = f.Company
	if f.Skills != nil {
		p.Skills = append([]string(nil), f.Skills...)
	}
}

// UpsertProfile creates the actor's profile or updates its metadata. There is
// at most one profile per principal; a concurrent insert surfaces as a
// duplicate and the retry turns it into an update.
func (s *Service) UpsertProfile(ctx context.Context, actor Principal, fields ProfileFields) (*models.Profile, error) {
	var out *models.Profile
	err := s.withRetry(ctx, "upsert profile", func(ctx context.Context) error {
		profile, err := s.profiles.ProfileByUser(ctx, actor.ID)
		if errors.Is(err, store.ErrNotFound) {
			profile = newProfile(actor.ID)
		} else if err != nil {
			return storeErr("load profile", err)
		}

		fields.apply(profile)
		if err := s.profiles.SaveProfile(ctx, profile); err != nil {
			return storeErr("save profile", err)
		}
		out = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureProfile returns the principal's profile, creating an empty one if none
// exists yet.
func (s *Service) EnsureProfile(ctx context.Context, actor Principal) (*models.Profile, error) {
	var out *models.Profile
	err := s.withRetry(ctx, "ensure profile", func(ctx context.Context) error {
		profile, err := s.profiles.ProfileByUser(ctx, actor.ID)
		if err == nil {
			out = profile
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return storeErr("load profile", err)
		}

		profile = newProfile(actor.ID)
		if err := s.profiles.SaveProfile(ctx, profile); err != nil {
			return storeErr("create profile", err)
		}
		out = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func newProfile(userID primitive.ObjectID) *models.Profile {
	return &models.Profile{
		User:      userID,
		Skills:    []string{},
		Following: []models.UserRef{},
		Followers: []models.UserRef{},
		Bookmarks: []models.PostRef{},
	}
}

func (s *Service) MyProfile(ctx context.Context, actor Principal) (*models.Profile, error) {
	return s.loadProfile(ctx, actor.ID)
}

func (s *Service) ProfileByUser(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	return s.loadProfile(ctx, userID)
}

func (s *Service) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	profiles, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, storeErr("list profiles", err)
	}
	return profiles, nil
}

// DeleteAccount removes the actor's posts, profile and user record. Edges held
// by other profiles that point at the actor are left for Reconcile.
func (s *Service) DeleteAccount(ctx context.Context, actor Principal) error {
	posts, err := s.posts.ListPostsByUser(ctx, actor.ID)
	if err != nil {
		return storeErr("list posts", err)
	}
	for _, post := range posts {
		if err := s.posts.DeletePost(ctx, post.Id); err != nil && !errors.Is(err, store.ErrNotFound) {
			return storeErr("delete post", err)
		}
	}

	if err := s.profiles.DeleteProfile(ctx, actor.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return storeErr("delete profile", err)
	}

	err = s.users.DeleteUser(ctx, actor.ID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return storeErr("delete user", err)
	}

	s.invalidateStats(ctx, actor.ID)
	l := lib.Ctx(ctx)
	l.Info().Str(lib.FieldUserID, actor.ID.Hex()).Int("posts", len(posts)).Msg("account deleted")
	return nil
}

// Stats returns the follower and following counts for userID. Cache errors
// are logged and fall through to the profile document. On a miss the counts
// are cached and the profile version is checked again afterwards, since every
// follow invalidates after its own write.
func (s *Service) Stats(ctx context.Context, userID primitive.ObjectID) (models.ProfileStats, error) {
	key := userID.Hex()
	l := lib.Ctx(ctx)

	stats, hit, err := s.stats.GetStats(ctx, key)
	if err != nil {
		l.Warn().Err(err).Str(lib.FieldUserID, key).Msg("stats cache read failed")
	} else if hit {
		return stats, nil
	}

	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return models.ProfileStats{}, err
	}
	stats = profile.Stats()
	if err := s.stats.SetStats(ctx, key, stats); err != nil {
		l.Warn().Err(err).Str(lib.FieldUserID, key).Msg("stats cache write failed")
		return stats, nil
	}

	// A follow that landed between the load and SetStats has already run its
	// invalidation, so the entry just written may be stale. Drop it when the
	// profile moved on.
	current, err := s.profiles.ProfileByUser(ctx, userID)
	if err != nil || current.Version != profile.Version {
		s.invalidateStats(ctx, userID)
	}
	return stats, nil
}
