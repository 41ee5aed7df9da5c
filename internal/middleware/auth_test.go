package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"devconnect/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer", "", false},
		{"Basic abc", "", false},
		{"Bearer a b", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		token, ok := BearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestCredentialRequired(t *testing.T) {
	app := fiber.New()
	app.Get("/me", CredentialRequired, func(c *fiber.Ctx) error {
		return c.SendString(Credential(c))
	})

	tests := []struct {
		name   string
		header string
		value  string
		status int
	}{
		{"authorization header", fiber.HeaderAuthorization, "Bearer tok-1", fiber.StatusOK},
		{"legacy header", "X-Auth-Token", "tok-2", fiber.StatusOK},
		{"missing", "", "", fiber.StatusUnauthorized},
		{"malformed", fiber.HeaderAuthorization, "tok-3", fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestOptionalCredential(t *testing.T) {
	app := fiber.New()
	app.Get("/", OptionalCredential, func(c *fiber.Ctx) error {
		return c.SendString("cred=" + Credential(c))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

type stubIdentity map[string]uuid.UUID

func (s stubIdentity) Resolve(_ context.Context, credential string) (uuid.UUID, error) {
	if id, ok := s[credential]; ok {
		return id, nil
	}
	return uuid.Nil, models.NewUnauthenticatedError("Token is not valid")
}

func TestIdentify(t *testing.T) {
	userID := uuid.New()
	app := fiber.New()
	app.Use(Identify(stubIdentity{"good": userID}))
	app.Get("/", func(c *fiber.Ctx) error {
		id, _ := c.UserContext().Value(UserIDKey).(uuid.UUID)
		return c.SendString(id.String())
	})

	for _, tt := range []struct {
		header, value string
		want          uuid.UUID
	}{
		{fiber.HeaderAuthorization, "Bearer good", userID},
		{"X-Auth-Token", "good", userID},
		{fiber.HeaderAuthorization, "Bearer bad", uuid.Nil},
		{"", "", uuid.Nil},
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set(tt.header, tt.value)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, tt.want.String(), string(body), tt.value)
	}
}
