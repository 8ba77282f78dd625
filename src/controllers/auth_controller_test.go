package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theleywin/feed-backend/src/models"
)

func TestSignupAndMe(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"name":     "Alice",
		"username": "alice",
		"email":    "Alice@Example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	resp := decode[struct {
		Token string         `json:"token"`
		User  models.UserDto `json:"user"`
	}](t, body)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)

	status, body = env.do(t, http.MethodGet, "/api/v1/auth/me", resp.Token, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	me := decode[map[string]any](t, body)
	assert.Equal(t, "alice@example.com", me["email"])
	assert.NotContains(t, me, "password")

	status, body = env.do(t, http.MethodGet, "/api/v1/profile/me", resp.Token, nil)
	require.Equal(t, http.StatusOK, status, string(body))
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "taken")

	cases := []struct {
		name    string
		body    map[string]string
		message string
	}{
		{"missing fields", map[string]string{"email": "a@example.com"}, "All fields are required"},
		{"bad email", map[string]string{"name": "A", "username": "a", "email": "nope", "password": "secret123"}, "Invalid email"},
		{"short password", map[string]string{"name": "A", "username": "a", "email": "a@example.com", "password": "123"}, "Password must be at least 6 characters"},
		{"duplicate email", map[string]string{"name": "T", "username": "t", "email": "taken@example.com", "password": "secret123"}, "Email already exists"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tc.message, message(t, body))
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	status, body := env.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"name": "Bob", "username": "bob", "email": "bob@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "bob@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid credentials", message(t, body))

	status, body = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "bob@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.NotEmpty(t, decode[map[string]any](t, body)["token"])
}

func TestProtectRoute(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodGet, "/api/v1/profile/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized - No token provided", message(t, body))

	status, body = env.do(t, http.MethodGet, "/api/v1/profile/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized - Invalid token", message(t, body))

	ghost, err := env.tokens.Generate("64b7f0c2a1b2c3d4e5f60718")
	require.NoError(t, err)
	status, body = env.do(t, http.MethodGet, "/api/v1/profile/me", ghost, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "User not found", message(t, body))
}
