package social

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/feed-backend/src/lib"
	"github.com/theleywin/feed-backend/src/models"
)

// Follow records that actor follows targetID and returns the target profile.
//
// The actor profile is written before the target profile, so an interrupted
// call can leave the edge in actor.Following without the matching entry in
// target.Followers, never the reverse. Each side is added only if absent:
// calling Follow again completes a half-written edge and is otherwise a no-op.
func (s *Service) Follow(ctx context.Context, actor Principal, targetID primitive.ObjectID) (*models.Profile, error) {
	if actor.ID == targetID {
		return nil, ErrSelfFollow
	}

	var target *models.Profile
	err := s.withRetry(ctx, "follow", func(ctx context.Context) error {
		actorProfile, err := s.loadProfile(ctx, actor.ID)
		if err != nil {
			return err
		}
		targetProfile, err := s.loadProfile(ctx, targetID)
		if err != nil {
			return err
		}

		wroteActor := false
		if actorProfile.AddFollowing(targetID) {
			if err := s.profiles.SaveProfile(ctx, actorProfile); err != nil {
				return storeErr("save actor profile", err)
			}
			wroteActor = true
		}
		if targetProfile.AddFollower(actor.ID) {
			if err := s.profiles.SaveProfile(ctx, targetProfile); err != nil {
				if wroteActor {
					logPartial(ctx, "follow", actor.ID, targetID, err)
				}
				return storeErr("save target profile", err)
			}
		}

		target = targetProfile
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, actor.ID, targetID)
	return target, nil
}

// Unfollow removes the edge actor -> targetID and returns the target profile.
// Removing an edge that does not exist is not an error. The actor side is
// removed first, mirroring Follow.
func (s *Service) Unfollow(ctx context.Context, actor Principal, targetID primitive.ObjectID) (*models.Profile, error) {
	var target *models.Profile
	err := s.withRetry(ctx, "unfollow", func(ctx context.Context) error {
		actorProfile, err := s.loadProfile(ctx, actor.ID)
		if err != nil {
			return err
		}
		targetProfile, err := s.loadProfile(ctx, targetID)
		if err != nil {
			return err
		}

		wroteActor := false
		if actorProfile.RemoveFollowing(targetID) {
			if err := s.profiles.SaveProfile(ctx, actorProfile); err != nil {
				return storeErr("save actor profile", err)
			}
			wroteActor = true
		}
		if targetProfile.RemoveFollower(actor.ID) {
			if err := s.profiles.SaveProfile(ctx, targetProfile); err != nil {
				if wroteActor {
					logPartial(ctx, "unfollow", actor.ID, targetID, err)
				}
				return storeErr("save target profile", err)
			}
		}

		target = targetProfile
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, actor.ID, targetID)
	return target, nil
}

func logPartial(ctx context.Context, op string, actorID, targetID primitive.ObjectID, err error) {
	l := lib.Ctx(ctx)
	l.Warn().Err(err).
		Str("op", op).
		Str(lib.FieldActorID, actorID.Hex()).
		Str(lib.FieldTargetID, targetID.Hex()).
		Msg("first document written, second write failed")
}
