package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"devconnect/internal/config"
	"devconnect/internal/models"
	"devconnect/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &config.Config{
		Env:          "test",
		JWTSecret:    "test-secret",
		JWTTTLHours:  1,
		FeatureFlags: "github_repos=off,beta=on",
	}
	srv, err := NewServerWithDeps(cfg, testutil.NewSQLiteDB(t), nil)
	require.NoError(t, err)

	app := fiber.New(AppConfig())
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)
	return app
}

// call sends a JSON request and decodes the response into out when non-nil.
func call(t *testing.T, app *fiber.App, method, path, token string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func register(t *testing.T, app *fiber.App, name string) string {
	t.Helper()
	var out struct {
		Token string `json:"token"`
	}
	status := call(t, app, http.MethodPost, "/api/users", "", fiber.Map{
		"name":     name,
		"email":    uuid.NewString()[:8] + "@example.com",
		"password": "secret123",
	}, &out)
	require.Equal(t, fiber.StatusCreated, status)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestHealthAndUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, fiber.StatusOK, call(t, app, http.MethodGet, "/health/live", "", nil, nil))

	var ready map[string]any
	assert.Equal(t, fiber.StatusOK, call(t, app, http.MethodGet, "/health/ready", "", nil, &ready))
	assert.Equal(t, "healthy", ready["status"])

	var errResp models.ErrorResponse
	assert.Equal(t, fiber.StatusNotFound, call(t, app, http.MethodGet, "/api/nope", "", nil, &errResp))
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	var errResp models.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/users", "", fiber.Map{"name": "", "email": "bad", "password": "1"}, &errResp)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, models.CodeValidation, errResp.Code)
	assert.Contains(t, errResp.Fields, "email")

	email := uuid.NewString()[:8] + "@example.com"
	status = call(t, app, http.MethodPost, "/api/users", "", fiber.Map{"name": "Ada", "email": email, "password": "secret123"}, nil)
	require.Equal(t, fiber.StatusCreated, status)

	status = call(t, app, http.MethodPost, "/api/users", "", fiber.Map{"name": "Ada", "email": email, "password": "secret123"}, nil)
	assert.Equal(t, fiber.StatusConflict, status)

	var login struct {
		Token string `json:"token"`
	}
	status = call(t, app, http.MethodPost, "/api/auth", "", fiber.Map{"email": email, "password": "secret123"}, &login)
	require.Equal(t, fiber.StatusOK, status)

	var me models.User
	status = call(t, app, http.MethodGet, "/api/auth", login.Token, nil, &me)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Ada", me.Name)

	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, http.MethodGet, "/api/auth", "", nil, nil))
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, http.MethodGet, "/api/auth", "forged", nil, nil))
	assert.Equal(t, fiber.StatusUnauthorized,
		call(t, app, http.MethodPost, "/api/auth", "", fiber.Map{"email": email, "password": "wrong-pass"}, nil))
}

func TestPostRoutes(t *testing.T) {
	app := newTestApp(t)
	ada := register(t, app, "Ada")
	grace := register(t, app, "Grace")

	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, http.MethodGet, "/api/posts", "", nil, nil))

	var post models.Post
	require.Equal(t, fiber.StatusCreated,
		call(t, app, http.MethodPost, "/api/posts", ada, fiber.Map{"text": "hello"}, &post))
	assert.Equal(t, "Ada", post.Name)

	assert.Equal(t, fiber.StatusBadRequest,
		call(t, app, http.MethodPost, "/api/posts", ada, fiber.Map{"text": "  "}, nil))

	var posts []models.Post
	require.Equal(t, fiber.StatusOK, call(t, app, http.MethodGet, "/api/posts", grace, nil, &posts))
	require.Len(t, posts, 1)

	base := "/api/posts/" + post.ID.String()

	var likes []models.Like
	require.Equal(t, fiber.StatusOK, call(t, app, http.MethodPut, base+"/like", grace, nil, &likes))
	assert.Len(t, likes, 1)
	require.Equal(t, fiber.StatusOK, call(t, app, http.MethodPut, base+"/like", grace, nil, &likes))
	assert.Empty(t, likes)

	var comments []models.Comment
	require.Equal(t, fiber.StatusOK, call(t, app, http.MethodPost, base+"/comment", grace, fiber.Map{"text": "nice"}, &comments))
	require.Len(t, comments, 1)

	commentPath := base + "/comment/" + comments[0].ID.String()
	assert.Equal(t, fiber.StatusForbidden, call(t, app, http.MethodDelete, commentPath, ada, nil, nil))
	require.Equal(t, fiber.StatusOK, call(t, app, http.MethodDelete, commentPath, grace, nil, &comments))
	assert.Empty(t, comments)

	var errResp models.ErrorResponse
	assert.Equal(t, fiber.StatusBadRequest, call(t, app, http.MethodGet, "/api/posts/not-a-uuid", ada, nil, &errResp))
	assert.Equal(t, models.CodeInvalidIdentifier, errResp.Code)
	assert.Equal(t, fiber.StatusNotFound, call(t, app, http.MethodGet, "/api/posts/"+uuid.NewString(), ada, nil, nil))

	assert.Equal(t, fiber.StatusForbidden, call(t, app, http.MethodDelete, base, grace, nil, nil))
	assert.Equal(t, fiber.StatusOK, call(t, app, http.MethodDelete, base, ada, nil, nil))
	assert.Equal(t, fiber.StatusNotFound, call(t, app, http.MethodGet, base, ada, nil, nil))
}

func TestProfileRoutes(t *testing.T) {
	app := newTestApp(t)
	ada := register(t, app, "Ada")

	assert.Equal(t, fiber.StatusNotFound, call(t, app, http.MethodGet, "/api/profile/me", ada, nil, nil))
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, http.MethodPost, "/api/profile", "", fiber.Map{"status": "Dev"}, nil))

	var profile models.Profile
	require.Equal(t, fiber.StatusOK, call(t, app, http.MethodPost, "/api/profile", ada, fiber.Map{
		"status":  "Developer",
		"skills":  "go, sql , go",
		"twitter": "https://twitter.com/ada",
	}, &profile))
	assert.Equal(t, []string{"go", "sql"}, profile.Skills)

	require.Equal(t, fiber.StatusOK, call(t, app, http.MethodPost, "/api/profile", ada, fiber.Map{"bio": "x"}, &profile))
	assert.Equal(t, "Developer", profile.Status)
	assert.Equal(t, "https://twitter.com/ada", profile.Social.Twitter)

	var errResp models.ErrorResponse
	assert.Equal(t, fiber.StatusBadRequest, call(t, app, http.MethodPut, "/api/profile/experience", ada,
		fiber.Map{"title": "Eng", "company": "Acme", "from": "01/02/2020"}, &errResp))
	assert.Contains(t, errResp.Fields, "date")

	require.Equal(t, fiber.StatusOK, call(t, app, http.MethodPut, "/api/profile/experience", ada,
		fiber.Map{"title": "Eng", "company": "Acme", "from": "2020-01-01"}, &profile))
	require.Len(t, profile.Experience, 1)
	assert.Equal(t, "Eng", profile.Experience[0].Title)

	require.Equal(t, fiber.StatusOK, call(t, app, http.MethodDelete,
		"/api/profile/experience/"+profile.Experience[0].ID.String(), ada, nil, &profile))
	assert.Empty(t, profile.Experience)

	require.Equal(t, fiber.StatusOK, call(t, app, http.MethodPut, "/api/profile/education", ada,
		fiber.Map{"school": "MIT", "degree": "BSc", "fieldofstudy": "CS", "from": "2010-09-01T00:00:00Z"}, &profile))
	require.Len(t, profile.Education, 1)

	var profiles []models.Profile
	require.Equal(t, fiber.StatusOK, call(t, app, http.MethodGet, "/api/profile", "", nil, &profiles))
	require.Len(t, profiles, 1)

	userPath := "/api/profile/user/" + profile.UserID.String()
	assert.Equal(t, fiber.StatusOK, call(t, app, http.MethodGet, userPath, "", nil, nil))
	assert.Equal(t, fiber.StatusBadRequest, call(t, app, http.MethodGet, "/api/profile/user/123", "", nil, nil))

	assert.Equal(t, fiber.StatusNotFound, call(t, app, http.MethodGet, "/api/profile/github/octocat", "", nil, nil))

	require.Equal(t, fiber.StatusOK, call(t, app, http.MethodDelete, "/api/profile", ada, nil, nil))
	assert.Equal(t, fiber.StatusNotFound, call(t, app, http.MethodGet, userPath, "", nil, nil))
	assert.Equal(t, fiber.StatusUnauthorized, call(t, app, http.MethodGet, "/api/auth", ada, nil, nil))
}

func TestFeatureFlags(t *testing.T) {
	app := newTestApp(t)

	var flags map[string]bool
	require.Equal(t, fiber.StatusOK, call(t, app, http.MethodGet, "/api/flags", "", nil, &flags))
	assert.Equal(t, map[string]bool{"github_repos": false, "beta": true}, flags)
}
