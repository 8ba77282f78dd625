package models

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	Id       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User     primitive.ObjectID `json:"user" bson:"user"`
	Text     string             `json:"text" bson:"text"`
	Name     string             `json:"name" bson:"name"`
	Username string             `json:"username" bson:"username"`
	Likes    []UserRef          `json:"likes" bson:"likes"`
	Comments []Comment          `json:"comments" bson:"comments"`
	// Bookmarked is true while at least one profile holds this post in its bookmarks.
	Bookmarked bool      `json:"bookmarked" bson:"bookmarked"`
	Version    int64     `json:"version" bson:"version"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Comment is append-only; Id is assigned on creation and never reused.
type Comment struct {
	Id        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Text      string             `json:"text" bson:"text"`
	Name      string             `json:"name" bson:"name"`
	Username  string             `json:"username" bson:"username"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

func (p *Post) HasLike(userID primitive.ObjectID) bool {
	return indexOfUser(p.Likes, userID) >= 0
}

// AddLike records a like from userID at the front of Likes, at most once per user.
func (p *Post) AddLike(userID primitive.ObjectID) bool {
	var ok bool
	p.Likes, ok = prependUser(p.Likes, userID)
	return ok
}

func (p *Post) RemoveLike(userID primitive.ObjectID) bool {
	var ok bool
	p.Likes, ok = removeUser(p.Likes, userID)
	return ok
}

func (p *Post) AddComment(c Comment) {
	p.Comments = append(p.Comments, c)
}

func (p *Post) Clone() *Post {
	cp := *p
	cp.Likes = slices.Clone(p.Likes)
	cp.Comments = slices.Clone(p.Comments)
	return &cp
}
