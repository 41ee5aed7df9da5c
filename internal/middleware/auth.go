// Package middleware provides the Fiber middleware stack: credentials, logging,
// throttling, metrics and tracing.
package middleware

import (
	"strings"

	"devconnect/internal/auth"
	"devconnect/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CredentialKey is the Fiber locals key holding the caller's bearer credential.
const CredentialKey = "credential"

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The second return is false when the header is absent or malformed.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// CredentialRequired rejects requests without a well-formed bearer header and
// stores the raw token for the service layer, which resolves it to a user.
func CredentialRequired(c *fiber.Ctx) error {
	token, ok := requestToken(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthenticatedError("No token, authorization denied"))
	}

	c.Locals(CredentialKey, token)
	return c.Next()
}

// OptionalCredential stores the bearer token when one is sent and never
// rejects the request.
func OptionalCredential(c *fiber.Ctx) error {
	if token, ok := requestToken(c); ok {
		c.Locals(CredentialKey, token)
	}
	return c.Next()
}

// Identify tags the request context with the caller's user id when a valid
// token is sent, so log records carry it. It never rejects a request;
// authorization stays with the service layer.
func Identify(identity auth.IdentityProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := requestToken(c); ok {
			if userID, err := identity.Resolve(c.UserContext(), token); err == nil {
				c.SetUserContext(WithUserID(c.UserContext(), userID))
			}
		}
		return c.Next()
	}
}

func requestToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		// the legacy client sends the token in x-auth-token
		authHeader = "Bearer " + c.Get("X-Auth-Token")
	}
	return BearerToken(authHeader)
}

// Credential returns the token stored by CredentialRequired, or "".
func Credential(c *fiber.Ctx) string {
	token, _ := c.Locals(CredentialKey).(string)
	return token
}
