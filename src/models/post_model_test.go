package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPostLikesAreUniquePerUser(t *testing.T) {
	post := &Post{}
	u := primitive.NewObjectID()

	assert.True(t, post.AddLike(u))
	assert.False(t, post.AddLike(u))
	assert.True(t, post.HasLike(u))
	assert.Len(t, post.Likes, 1)

	assert.True(t, post.RemoveLike(u))
	assert.False(t, post.RemoveLike(u))
	assert.Empty(t, post.Likes)
}

func TestPostCloneIsDeep(t *testing.T) {
	post := &Post{}
	post.AddComment(Comment{Text: "first"})

	cp := post.Clone()
	cp.Comments[0].Text = "edited"
	cp.AddLike(primitive.NewObjectID())

	assert.Equal(t, "first", post.Comments[0].Text)
	assert.Empty(t, post.Likes)
}
