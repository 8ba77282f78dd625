package social

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/feed-backend/src/lib"
	"github.com/theleywin/feed-backend/src/models"
)

// BookmarkAdd puts postID at the front of the actor's bookmarks and marks the
// post as bookmarked. The profile is written first, then the post. The result
// is the actor's bookmarks after the call.
//
// Once the edge has been added the post is written even when its flag is
// already set. The version bump makes a concurrent BookmarkRemove that counted
// bookmarkers before this edge existed fail its save and count again.
func (s *Service) BookmarkAdd(ctx context.Context, actor Principal, postID primitive.ObjectID) ([]models.PostRef, error) {
	var bookmarks []models.PostRef
	// added survives retries so a retry still writes the post after the
	// profile write of an earlier attempt landed.
	added := false
	err := s.withRetry(ctx, "bookmark add", func(ctx context.Context) error {
		profile, err := s.loadProfile(ctx, actor.ID)
		if err != nil {
			return err
		}
		post, err := s.loadPost(ctx, postID)
		if err != nil {
			return err
		}

		if profile.AddBookmark(postID) {
			if err := s.profiles.SaveProfile(ctx, profile); err != nil {
				return storeErr("save profile", err)
			}
			added = true
		}
		if added || !post.Bookmarked {
			post.Bookmarked = true
			if err := s.posts.SavePost(ctx, post); err != nil {
				if added {
					logPartialBookmark(ctx, "bookmark add", actor.ID, postID, err)
				}
				return storeErr("save post", err)
			}
		}

		bookmarks = profile.Bookmarks
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// BookmarkRemove drops postID from the actor's bookmarks. The post's flag is
// cleared only when no profile references the post any more. It fails with
// ErrNotBookmarked when the actor never held the bookmark.
func (s *Service) BookmarkRemove(ctx context.Context, actor Principal, postID primitive.ObjectID) ([]models.PostRef, error) {
	var bookmarks []models.PostRef
	// removed survives retries: once the profile write has landed, a retry
	// must not report ErrNotBookmarked for the edge it just removed.
	removed := false
	err := s.withRetry(ctx, "bookmark remove", func(ctx context.Context) error {
		profile, err := s.loadProfile(ctx, actor.ID)
		if err != nil {
			return err
		}
		post, err := s.loadPost(ctx, postID)
		if err != nil {
			return err
		}

		if profile.RemoveBookmark(postID) {
			if err := s.profiles.SaveProfile(ctx, profile); err != nil {
				return storeErr("save profile", err)
			}
			removed = true
		} else if !removed {
			return ErrNotBookmarked
		}

		remaining, err := s.profiles.CountBookmarkers(ctx, postID)
		if err != nil {
			logPartialBookmark(ctx, "bookmark remove", actor.ID, postID, err)
			return storeErr("count bookmarkers", err)
		}
		if remaining == 0 && post.Bookmarked {
			post.Bookmarked = false
			if err := s.posts.SavePost(ctx, post); err != nil {
				logPartialBookmark(ctx, "bookmark remove", actor.ID, postID, err)
				return storeErr("save post", err)
			}
		}

		bookmarks = profile.Bookmarks
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// Bookmarks returns the actor's bookmarked post refs, newest first.
func (s *Service) Bookmarks(ctx context.Context, actor Principal) ([]models.PostRef, error) {
	profile, err := s.loadProfile(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return profile.Bookmarks, nil
}

func logPartialBookmark(ctx context.Context, op string, actorID, postID primitive.ObjectID, err error) {
	l := lib.Ctx(ctx)
	l.Warn().Err(err).
		Str("op", op).
		Str(lib.FieldActorID, actorID.Hex()).
		Str(lib.FieldPostID, postID.Hex()).
		Msg("profile written, post flag not updated")
}
