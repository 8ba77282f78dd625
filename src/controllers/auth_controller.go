package controllers

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/theleywin/feed-backend/src/lib"
	"github.com/theleywin/feed-backend/src/middleware"
	"github.com/theleywin/feed-backend/src/models"
	"github.com/theleywin/feed-backend/src/social"
	"github.com/theleywin/feed-backend/src/store"
)

const bcryptCost = 11

// Signup validates input, hashes the password, creates the user with an empty
// profile and returns a token.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var userData struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&userData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid data"))
	}

	userData.Email = strings.TrimSpace(userData.Email)
	if userData.Name == "" || userData.Username == "" || userData.Email == "" || userData.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("All fields are required"))
	}
	if _, err := mail.ParseAddress(userData.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid email"))
	}
	if len(userData.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Password must be at least 6 characters"))
	}

	ctx := c.UserContext()
	l := lib.Ctx(ctx)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(userData.Password), bcryptCost)
	if err != nil {
		l.Error().Err(err).Msg("failed to hash password")
		return c.Status(fiber.StatusInternalServerError).JSON(lib.MessageResponse("Server error"))
	}

	newUser := models.User{
		Name:     userData.Name,
		Username: userData.Username,
		Email:    userData.Email,
		Password: string(hashedPassword),
	}
	if err := h.users.CreateUser(ctx, &newUser); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Email already exists"))
		}
		l.Error().Err(err).Msg("failed to create user")
		return c.Status(fiber.StatusInternalServerError).JSON(lib.MessageResponse("Failed to create user"))
	}

	if _, err := h.svc.EnsureProfile(ctx, social.PrincipalFromUser(newUser)); err != nil {
		return respondError(c, err)
	}

	token, err := h.tokens.Generate(newUser.Id.Hex())
	if err != nil {
		l.Error().Err(err).Msg("failed to sign token")
		return c.Status(fiber.StatusInternalServerError).JSON(lib.MessageResponse("Server error"))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"token":   token,
		"user":    newUser.Dto(),
	})
}

// Login checks email and password and returns a token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var loginData struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&loginData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid data"))
	}
	if loginData.Email == "" || loginData.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Email and password are required"))
	}

	ctx := c.UserContext()
	user, err := h.users.UserByEmail(ctx, strings.TrimSpace(loginData.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid credentials"))
		}
		l := lib.Ctx(ctx)
		l.Error().Err(err).Msg("failed to load user")
		return c.Status(fiber.StatusInternalServerError).JSON(lib.MessageResponse("Server error"))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginData.Password)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid credentials"))
	}

	token, err := h.tokens.Generate(user.Id.Hex())
	if err != nil {
		l := lib.Ctx(ctx)
		l.Error().Err(err).Msg("failed to sign token")
		return c.Status(fiber.StatusInternalServerError).JSON(lib.MessageResponse("Server error"))
	}

	return c.JSON(fiber.Map{
		"message": "Logged in successfully",
		"token":   token,
		"user":    user.Dto(),
	})
}

// GetCurrentUser returns the authenticated user.
func (h *Handler) GetCurrentUser(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return c.JSON(user)
}
