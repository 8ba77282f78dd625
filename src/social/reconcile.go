package social

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/feed-backend/src/lib"
	"github.com/theleywin/feed-backend/src/models"
	"github.com/theleywin/feed-backend/src/store"
)

// ReconcileReport counts what one Reconcile pass changed.
type ReconcileReport struct {
	FollowersAdded   int `json:"followersAdded"`
	FollowersRemoved int `json:"followersRemoved"`
	FollowingRemoved int `json:"followingRemoved"`
	BookmarksRemoved int `json:"bookmarksRemoved"`
	FlagsCorrected   int `json:"flagsCorrected"`
	ProfilesSaved    int `json:"profilesSaved"`
	PostsSaved       int `json:"postsSaved"`
	// Conflicts counts documents skipped because a live write raced the pass.
	// They are picked up by the next run.
	Conflicts int `json:"conflicts"`
}

// Reconcile repairs edges left half-written by interrupted operations.
//
// Following is treated as authoritative because it is always written first:
// a following entry whose target exists gets its follower entry added, and a
// follower entry with no matching following entry is dropped. Edges and
// bookmarks that point at deleted documents are removed, and every post's
// bookmarked flag is recomputed from the profiles and confirmed against the
// store before it is changed.
func (s *Service) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport

	profiles, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return report, storeErr("list profiles", err)
	}
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return report, storeErr("list posts", err)
	}

	byUser := make(map[primitive.ObjectID]*models.Profile, len(profiles))
	for _, p := range profiles {
		byUser[p.User] = p
	}
	postExists := make(map[primitive.ObjectID]bool, len(posts))
	for _, p := range posts {
		postExists[p.Id] = true
	}
	dirty := make(map[primitive.ObjectID]bool)

	for _, p := range profiles {
		for _, ref := range append([]models.UserRef(nil), p.Following...) {
			target, ok := byUser[ref.User]
			if !ok {
				p.RemoveFollowing(ref.User)
				report.FollowingRemoved++
				dirty[p.User] = true
				continue
			}
			if target.AddFollower(p.User) {
				report.FollowersAdded++
				dirty[target.User] = true
			}
		}
		for _, ref := range append([]models.PostRef(nil), p.Bookmarks...) {
			if !postExists[ref.Post] {
				p.RemoveBookmark(ref.Post)
				report.BookmarksRemoved++
				dirty[p.User] = true
			}
		}
	}

	for _, p := range profiles {
		for _, ref := range append([]models.UserRef(nil), p.Followers...) {
			follower, ok := byUser[ref.User]
			if ok && follower.IsFollowing(p.User) {
				continue
			}
			p.RemoveFollower(ref.User)
			report.FollowersRemoved++
			dirty[p.User] = true
		}
	}

	l := lib.Ctx(ctx)
	var touched []primitive.ObjectID
	for _, p := range profiles {
		if !dirty[p.User] {
			continue
		}
		if err := s.profiles.SaveProfile(ctx, p); err != nil {
			if store.IsRetryable(err) {
				report.Conflicts++
				l.Debug().Str(lib.FieldUserID, p.User.Hex()).Msg("reconcile skipped profile after conflict")
				continue
			}
			return report, storeErr("save profile", err)
		}
		report.ProfilesSaved++
		touched = append(touched, p.User)
	}
	if len(touched) > 0 {
		s.invalidateStats(ctx, touched...)
	}

	bookmarked := make(map[primitive.ObjectID]bool)
	for _, p := range profiles {
		for _, ref := range p.Bookmarks {
			bookmarked[ref.Post] = true
		}
	}
	for _, post := range posts {
		if post.Bookmarked == bookmarked[post.Id] {
			continue
		}
		// The profile snapshot predates the post list. Count again so a
		// bookmark added or removed in between is not overwritten; the save
		// below is version checked against the listed post.
		n, err := s.profiles.CountBookmarkers(ctx, post.Id)
		if err != nil {
			return report, storeErr("count bookmarkers", err)
		}
		if post.Bookmarked == (n > 0) {
			continue
		}
		post.Bookmarked = n > 0
		report.FlagsCorrected++
		if err := s.posts.SavePost(ctx, post); err != nil {
			if store.IsRetryable(err) {
				report.Conflicts++
				continue
			}
			return report, storeErr("save post", err)
		}
		report.PostsSaved++
	}

	l.Info().
		Int("followers_added", report.FollowersAdded).
		Int("followers_removed", report.FollowersRemoved).
		Int("following_removed", report.FollowingRemoved).
		Int("bookmarks_removed", report.BookmarksRemoved).
		Int("flags_corrected", report.FlagsCorrected).
		Int("conflicts", report.Conflicts).
		Msg("reconcile pass finished")
	return report, nil
}
