package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/feed-backend/src/controllers"
	"github.com/theleywin/feed-backend/src/lib"
	"github.com/theleywin/feed-backend/src/middleware"
	"github.com/theleywin/feed-backend/src/models"
	"github.com/theleywin/feed-backend/src/routes"
	"github.com/theleywin/feed-backend/src/social"
	"github.com/theleywin/feed-backend/src/store"
)

type testEnv struct {
	app     *fiber.App
	st      *store.MemoryStore
	svc     *social.Service
	tokens  *lib.TokenManager
	adminID primitive.ObjectID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := store.NewMemoryStore()
	svc := social.NewService(st, nil, social.Config{MaxAttempts: 3})
	tokens := lib.NewTokenManager("test-secret", time.Hour)
	h := controllers.NewHandler(svc, st, tokens)
	adminID := primitive.NewObjectID()

	app := fiber.New(fiber.Config{ErrorHandler: lib.ErrorHandler})
	app.Use(middleware.RequestLogger())
	routes.Register(app, h, middleware.ProtectRoute(tokens, st), middleware.AdminOnly([]string{adminID.Hex()}))

	return &testEnv{app: app, st: st, svc: svc, tokens: tokens, adminID: adminID}
}

// user registers a user with an empty profile and returns it with a token.
func (e *testEnv) user(t *testing.T, username string) (models.User, string) {
	t.Helper()
	return e.register(t, models.User{Name: username, Username: username, Email: username + "@example.com"})
}

// admin registers the user whose id the admin routes accept.
func (e *testEnv) admin(t *testing.T) (models.User, string) {
	t.Helper()
	return e.register(t, models.User{Id: e.adminID, Name: "admin", Username: "admin", Email: "admin@example.com"})
}

func (e *testEnv) register(t *testing.T, u models.User) (models.User, string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.st.CreateUser(ctx, &u))
	_, err := e.svc.EnsureProfile(ctx, social.PrincipalFromUser(u))
	require.NoError(t, err)

	token, err := e.tokens.Generate(u.Id.Hex())
	require.NoError(t, err)
	return u, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func message(t *testing.T, raw []byte) string {
	return decode[map[string]any](t, raw)["message"].(string)
}

