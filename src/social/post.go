package social

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/feed-backend/src/models"
	"github.com/theleywin/feed-backend/src/store"
)

// CreatePost stores a new post authored by actor.
func (s *Service) CreatePost(ctx context.Context, actor Principal, text string) (*models.Post, error) {
	post := &models.Post{
		User:      actor.ID,
		Text:      text,
		Name:      actor.Name,
		Username:  actor.Username,
		Likes:     []models.UserRef{},
		Comments:  []models.Comment{},
		CreatedAt: s.now(),
	}
	if err := s.posts.SavePost(ctx, post); err != nil {
		return nil, storeErr("create post", err)
	}
	return post, nil
}

// Feed returns all posts, newest first.
func (s *Service) Feed(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return nil, storeErr("list posts", err)
	}
	return posts, nil
}

func (s *Service) GetPost(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	return s.loadPost(ctx, postID)
}

// DeletePost removes a post owned by actor. Bookmarks other profiles hold on
// it are left in place until the next Reconcile.
func (s *Service) DeletePost(ctx context.Context, actor Principal, postID primitive.ObjectID) error {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.User != actor.ID {
		return ErrForbidden
	}

	err = s.posts.DeletePost(ctx, postID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrPostNotFound
	}
	return storeErr("delete post", err)
}

// Like adds actor to the post's likes. Liking twice is a no-op.
func (s *Service) Like(ctx context.Context, actor Principal, postID primitive.ObjectID) ([]models.UserRef, error) {
	return updatePost(ctx, s, "like", postID, func(post *models.Post) bool {
		return post.AddLike(actor.ID)
	}, func(post *models.Post) []models.UserRef { return post.Likes })
}

// Unlike removes actor from the post's likes. Unliking a post that was not
// liked is a no-op.
func (s *Service) Unlike(ctx context.Context, actor Principal, postID primitive.ObjectID) ([]models.UserRef, error) {
	return updatePost(ctx, s, "unlike", postID, func(post *models.Post) bool {
		return post.RemoveLike(actor.ID)
	}, func(post *models.Post) []models.UserRef { return post.Likes })
}

// AddComment appends a comment by actor and returns the post's comments.
func (s *Service) AddComment(ctx context.Context, actor Principal, postID primitive.ObjectID, text string) ([]models.Comment, error) {
	comment := models.Comment{
		Id:        primitive.NewObjectID(),
		User:      actor.ID,
		Text:      text,
		Name:      actor.Name,
		Username:  actor.Username,
		CreatedAt: s.now(),
	}
	// The comment id is fixed before the loop so a retry cannot append it twice.
	return updatePost(ctx, s, "comment", postID, func(post *models.Post) bool {
		for _, c := range post.Comments {
			if c.Id == comment.Id {
				return false
			}
		}
		post.AddComment(comment)
		return true
	}, func(post *models.Post) []models.Comment { return post.Comments })
}

// updatePost is the single-document read-modify-write used by likes and
// comments. mutate reports whether the post changed.
func updatePost[T any](ctx context.Context, s *Service, op string, postID primitive.ObjectID, mutate func(*models.Post) bool, view func(*models.Post) []T) ([]T, error) {
	var out []T
	err := s.withRetry(ctx, op, func(ctx context.Context) error {
		post, err := s.loadPost(ctx, postID)
		if err != nil {
			return err
		}
		if mutate(post) {
			if err := s.posts.SavePost(ctx, post); err != nil {
				return storeErr("save post", err)
			}
		}
		out = view(post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
