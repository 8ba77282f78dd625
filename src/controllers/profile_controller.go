package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/feed-backend/src/lib"
	"github.com/theleywin/feed-backend/src/social"
)

// GetMyProfile returns the authenticated user's profile.
func (h *Handler) GetMyProfile(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	profile, err := h.svc.MyProfile(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// UpsertProfile creates or updates the authenticated user's profile metadata.
func (h *Handler) UpsertProfile(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	var fields social.ProfileFields
	if err := c.BodyParser(&fields); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid data")
	}
	if fields.Status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Status is required")
	}

	profile, err := h.svc.UpsertProfile(c.UserContext(), actor, fields)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

func (h *Handler) GetProfiles(c *fiber.Ctx) error {
	profiles, err := h.svc.ListProfiles(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profiles)
}

// GetProfileByUser returns the profile of the user in :userId.
func (h *Handler) GetProfileByUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId", "user")
	if err != nil {
		return err
	}
	profile, err := h.svc.ProfileByUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// GetProfileStats returns follower and following counts for :userId.
func (h *Handler) GetProfileStats(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId", "user")
	if err != nil {
		return err
	}
	stats, err := h.svc.Stats(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// DeleteAccount removes the authenticated user with their profile and posts.
func (h *Handler) DeleteAccount(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteAccount(c.UserContext(), actor); err != nil {
		return respondError(c, err)
	}
	return c.JSON(lib.MessageResponse("User deleted"))
}

// FollowUser makes the authenticated user follow :userId and returns the
// followed profile.
func (h *Handler) FollowUser(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	targetID, err := paramID(c, "userId", "user")
	if err != nil {
		return err
	}

	target, err := h.svc.Follow(c.UserContext(), actor, targetID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(target)
}

func (h *Handler) UnfollowUser(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	targetID, err := paramID(c, "userId", "user")
	if err != nil {
		return err
	}

	target, err := h.svc.Unfollow(c.UserContext(), actor, targetID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(target)
}

func (h *Handler) GetBookmarks(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	bookmarks, err := h.svc.Bookmarks(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bookmarks)
}

// AddBookmark bookmarks :postId and returns the user's bookmarks.
func (h *Handler) AddBookmark(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	postID, err := paramID(c, "postId", "post")
	if err != nil {
		return err
	}

	bookmarks, err := h.svc.BookmarkAdd(c.UserContext(), actor, postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bookmarks)
}

// RemoveBookmark removes :postId from the user's bookmarks.
func (h *Handler) RemoveBookmark(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	postID, err := paramID(c, "postId", "post")
	if err != nil {
		return err
	}

	bookmarks, err := h.svc.BookmarkRemove(c.UserContext(), actor, postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bookmarks)
}
