package social

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/feed-backend/src/models"
	"github.com/theleywin/feed-backend/src/store"
)

func TestLikeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	alice := newPrincipal(t, svc, st, "alice")
	bob := newPrincipal(t, svc, st, "bob")
	post, err := svc.CreatePost(ctx, alice, "hello")
	require.NoError(t, err)

	likes, err := svc.Like(ctx, bob, post.Id)
	require.NoError(t, err)
	assert.Equal(t, []models.UserRef{{User: bob.ID}}, likes)

	likes, err = svc.Like(ctx, bob, post.Id)
	require.NoError(t, err)
	assert.Len(t, likes, 1)

	likes, err = svc.Like(ctx, alice, post.Id)
	require.NoError(t, err)
	assert.Equal(t, []models.UserRef{{User: alice.ID}, {User: bob.ID}}, likes)
}

func TestUnlike(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	alice := newPrincipal(t, svc, st, "alice")
	post, err := svc.CreatePost(ctx, alice, "hello")
	require.NoError(t, err)

	likes, err := svc.Unlike(ctx, alice, post.Id)
	require.NoError(t, err)
	assert.Empty(t, likes)

	_, err = svc.Like(ctx, alice, post.Id)
	require.NoError(t, err)
	likes, err = svc.Unlike(ctx, alice, post.Id)
	require.NoError(t, err)
	assert.Empty(t, likes)
	assert.Empty(t, postOf(t, st, post).Likes)
}

func TestLikeMissingPost(t *testing.T) {
	svc, st := newTestService(t)
	alice := newPrincipal(t, svc, st, "alice")

	_, err := svc.Like(context.Background(), alice, primitive.NewObjectID())
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestAddCommentAppends(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	alice := newPrincipal(t, svc, st, "alice")
	bob := newPrincipal(t, svc, st, "bob")
	post, err := svc.CreatePost(ctx, alice, "hello")
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, bob, post.Id, "first")
	require.NoError(t, err)
	comments, err := svc.AddComment(ctx, alice, post.Id, "second")
	require.NoError(t, err)

	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, bob.ID, comments[0].User)
	assert.Equal(t, "bob", comments[0].Username)
	assert.Equal(t, "second", comments[1].Text)
	assert.NotEqual(t, comments[0].Id, comments[1].Id)
	assert.False(t, comments[1].CreatedAt.IsZero())
}

func TestAddCommentRetryDoesNotDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	alice := newPrincipal(t, svc, st, "alice")
	post, err := svc.CreatePost(ctx, alice, "hello")
	require.NoError(t, err)

	st.FailOn(store.OpSavePost, store.ErrVersionConflict)

	comments, err := svc.AddComment(ctx, alice, post.Id, "once")
	require.NoError(t, err)
	assert.Len(t, comments, 1)
	assert.Len(t, postOf(t, st, post).Comments, 1)
}

func TestFeedNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	alice := newPrincipal(t, svc, st, "alice")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	older, err := svc.CreatePost(ctx, alice, "older")
	require.NoError(t, err)
	newer, err := svc.CreatePost(ctx, alice, "newer")
	require.NoError(t, err)

	feed, err := svc.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, newer.Id, feed[0].Id)
	assert.Equal(t, older.Id, feed[1].Id)
}

func TestDeletePostAuthorOnly(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	alice := newPrincipal(t, svc, st, "alice")
	bob := newPrincipal(t, svc, st, "bob")
	post, err := svc.CreatePost(ctx, alice, "mine")
	require.NoError(t, err)

	err = svc.DeletePost(ctx, bob, post.Id)
	require.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.DeletePost(ctx, alice, post.Id))
	_, err = svc.GetPost(ctx, post.Id)
	require.ErrorIs(t, err, ErrPostNotFound)

	err = svc.DeletePost(ctx, alice, post.Id)
	require.ErrorIs(t, err, ErrNotFound)
}
