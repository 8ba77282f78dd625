package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/feed-backend/src/lib"
)

type textBody struct {
	Text string `json:"text"`
}

func parseText(c *fiber.Ctx) (string, error) {
	var body textBody
	if err := c.BodyParser(&body); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "Invalid data")
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "Text is required")
	}
	return text, nil
}

// GetFeedPosts returns every post, newest first.
func (h *Handler) GetFeedPosts(c *fiber.Ctx) error {
	posts, err := h.svc.Feed(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// CreatePost creates a post authored by the authenticated user.
func (h *Handler) CreatePost(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	text, err := parseText(c)
	if err != nil {
		return err
	}

	post, err := h.svc.CreatePost(c.UserContext(), actor, text)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *Handler) GetPostByID(c *fiber.Ctx) error {
	postID, err := paramID(c, "id", "post")
	if err != nil {
		return err
	}
	post, err := h.svc.GetPost(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost removes a post. Only its author may delete it.
func (h *Handler) DeletePost(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	postID, err := paramID(c, "id", "post")
	if err != nil {
		return err
	}

	if err := h.svc.DeletePost(c.UserContext(), actor, postID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(lib.MessageResponse("Post deleted successfully"))
}

// CreateComment appends a comment and returns the post's comments.
func (h *Handler) CreateComment(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	postID, err := paramID(c, "id", "post")
	if err != nil {
		return err
	}
	text, err := parseText(c)
	if err != nil {
		return err
	}

	comments, err := h.svc.AddComment(c.UserContext(), actor, postID, text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// LikePost likes a post and returns its likes.
func (h *Handler) LikePost(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	postID, err := paramID(c, "id", "post")
	if err != nil {
		return err
	}

	likes, err := h.svc.Like(c.UserContext(), actor, postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(likes)
}

func (h *Handler) UnlikePost(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	postID, err := paramID(c, "id", "post")
	if err != nil {
		return err
	}

	likes, err := h.svc.Unlike(c.UserContext(), actor, postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(likes)
}
