package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProfileFollowEdges(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	p := &Profile{User: a}

	require.True(t, p.AddFollowing(b))
	require.True(t, p.AddFollowing(c))
	require.False(t, p.AddFollowing(b), "duplicate following entry")
	assert.Equal(t, []UserRef{{User: c}, {User: b}}, p.Following)

	assert.True(t, p.IsFollowing(b))
	require.True(t, p.RemoveFollowing(b))
	require.False(t, p.RemoveFollowing(b))
	assert.Equal(t, []UserRef{{User: c}}, p.Following)

	require.True(t, p.AddFollower(b))
	require.False(t, p.AddFollower(b))
	assert.True(t, p.HasFollower(b))
	require.True(t, p.RemoveFollower(b))
	assert.Empty(t, p.Followers)

	assert.Equal(t, ProfileStats{Followers: 0, Following: 1}, p.Stats())
}

func TestProfileBookmarks(t *testing.T) {
	p := &Profile{}
	first, second := primitive.NewObjectID(), primitive.NewObjectID()

	require.True(t, p.AddBookmark(first))
	require.True(t, p.AddBookmark(second))
	require.False(t, p.AddBookmark(first))
	assert.Equal(t, []PostRef{{Post: second}, {Post: first}}, p.Bookmarks)

	require.True(t, p.RemoveBookmark(second))
	require.False(t, p.RemoveBookmark(second))
	assert.Equal(t, []PostRef{{Post: first}}, p.Bookmarks)
}

func TestProfileCloneIsDeep(t *testing.T) {
	p := &Profile{User: primitive.NewObjectID()}
	p.AddFollowing(primitive.NewObjectID())
	p.AddBookmark(primitive.NewObjectID())

	cp := p.Clone()
	cp.AddFollowing(primitive.NewObjectID())
	cp.Bookmarks[0].Post = primitive.NewObjectID()

	assert.Len(t, p.Following, 1)
	assert.NotEqual(t, p.Bookmarks[0], cp.Bookmarks[0])
	assert.Nil(t, cp.Followers)
}

func TestDocumentsKeepSequenceOrderThroughBSON(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}

	p := &Profile{Id: primitive.NewObjectID(), User: primitive.NewObjectID(), Status: "dev", Version: 3}
	post := &Post{Id: primitive.NewObjectID(), User: p.User, Text: "hello"}
	for i, id := range ids {
		p.AddFollowing(id)
		p.AddFollower(id)
		p.AddBookmark(id)
		post.AddComment(Comment{
			Id:        primitive.NewObjectID(),
			User:      id,
			Text:      string(rune('a' + i)),
			CreatedAt: time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC),
		})
	}

	raw, err := bson.Marshal(p)
	require.NoError(t, err)
	var gotProfile Profile
	require.NoError(t, bson.Unmarshal(raw, &gotProfile))
	assert.Equal(t, p.Following, gotProfile.Following)
	assert.Equal(t, p.Followers, gotProfile.Followers)
	assert.Equal(t, p.Bookmarks, gotProfile.Bookmarks)
	assert.Equal(t, int64(3), gotProfile.Version)

	raw, err = bson.Marshal(post)
	require.NoError(t, err)
	var gotPost Post
	require.NoError(t, bson.Unmarshal(raw, &gotPost))
	require.Len(t, gotPost.Comments, 3)
	for i := range ids {
		assert.Equal(t, post.Comments[i].Id, gotPost.Comments[i].Id)
		assert.Equal(t, post.Comments[i].Text, gotPost.Comments[i].Text)
	}
}
