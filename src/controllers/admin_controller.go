package controllers

import "github.com/gofiber/fiber/v2"

// Reconcile runs one repair pass and returns what it changed.
func (h *Handler) Reconcile(c *fiber.Ctx) error {
	report, err := h.svc.Reconcile(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
