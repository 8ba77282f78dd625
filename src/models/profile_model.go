package models

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRef is one endpoint of a follow edge.
type UserRef struct {
	User primitive.ObjectID `json:"user" bson:"user"`
}

// PostRef is the profile side of a bookmark edge.
type PostRef struct {
	Post primitive.ObjectID `json:"post" bson:"post"`
}

// Profile is the per-principal document. Following, Followers and Bookmarks are
// kept newest first and never hold the same reference twice.
type Profile struct {
	Id        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Status    string             `json:"status" bson:"status"`
	Bio       string             `json:"bio,omitempty" bson:"bio,omitempty"`
	Website   string             `json:"website,omitempty" bson:"website,omitempty"`
	Location  string             `json:"location,omitempty" bson:"location,omitempty"`
	Company   string             `json:"company,omitempty" bson:"company,omitempty"`
	Skills    []string           `json:"skills" bson:"skills"`
	Following []UserRef          `json:"following" bson:"following"`
	Followers []UserRef          `json:"followers" bson:"followers"`
	Bookmarks []PostRef          `json:"bookmarks" bson:"bookmarks"`
	Version   int64              `json:"version" bson:"version"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type ProfileStats struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

func (p *Profile) IsFollowing(userID primitive.ObjectID) bool {
	return indexOfUser(p.Following, userID) >= 0
}

func (p *Profile) HasFollower(userID primitive.ObjectID) bool {
	return indexOfUser(p.Followers, userID) >= 0
}

func (p *Profile) HasBookmark(postID primitive.ObjectID) bool {
	return p.bookmarkIndex(postID) >= 0
}

// AddFollowing front-inserts userID unless it is already present.
// It reports whether the profile changed.
func (p *Profile) AddFollowing(userID primitive.ObjectID) bool {
	var ok bool
	p.Following, ok = prependUser(p.Following, userID)
	return ok
}

func (p *Profile) RemoveFollowing(userID primitive.ObjectID) bool {
	var ok bool
	p.Following, ok = removeUser(p.Following, userID)
	return ok
}

func (p *Profile) AddFollower(userID primitive.ObjectID) bool {
	var ok bool
	p.Followers, ok = prependUser(p.Followers, userID)
	return ok
}

func (p *Profile) RemoveFollower(userID primitive.ObjectID) bool {
	var ok bool
	p.Followers, ok = removeUser(p.Followers, userID)
	return ok
}

// AddBookmark front-inserts postID unless it is already bookmarked.
func (p *Profile) AddBookmark(postID primitive.ObjectID) bool {
	if p.HasBookmark(postID) {
		return false
	}
	p.Bookmarks = append([]PostRef{{Post: postID}}, p.Bookmarks...)
	return true
}

// RemoveBookmark drops the single entry for postID.
func (p *Profile) RemoveBookmark(postID primitive.ObjectID) bool {
	i := p.bookmarkIndex(postID)
	if i < 0 {
		return false
	}
	p.Bookmarks = slices.Delete(p.Bookmarks, i, i+1)
	return true
}

func (p *Profile) Stats() ProfileStats {
	return ProfileStats{
		Followers: int64(len(p.Followers)),
		Following: int64(len(p.Following)),
	}
}

// Clone returns a deep copy. Nil slices stay nil.
func (p *Profile) Clone() *Profile {
	cp := *p
	cp.Skills = slices.Clone(p.Skills)
	cp.Following = slices.Clone(p.Following)
	cp.Followers = slices.Clone(p.Followers)
	cp.Bookmarks = slices.Clone(p.Bookmarks)
	return &cp
}

func (p *Profile) bookmarkIndex(postID primitive.ObjectID) int {
	return slices.IndexFunc(p.Bookmarks, func(r PostRef) bool { return r.Post == postID })
}

func indexOfUser(refs []UserRef, userID primitive.ObjectID) int {
	return slices.IndexFunc(refs, func(r UserRef) bool { return r.User == userID })
}

func prependUser(refs []UserRef, userID primitive.ObjectID) ([]UserRef, bool) {
	if indexOfUser(refs, userID) >= 0 {
		return refs, false
	}
	return append([]UserRef{{User: userID}}, refs...), true
}

func removeUser(refs []UserRef, userID primitive.ObjectID) ([]UserRef, bool) {
	i := indexOfUser(refs, userID)
	if i < 0 {
		return refs, false
	}
	return slices.Delete(refs, i, i+1), true
}
