// Package auth issues and resolves the bearer tokens that identify a caller.
package auth

import (
	"context"
	"fmt"
	"time"

	"devconnect/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuer   = "devconnect-api"
	audience = "devconnect-client"
)

// IdentityProvider resolves an opaque credential to the user it was issued to.
type IdentityProvider interface {
	Resolve(ctx context.Context, credential string) (uuid.UUID, error)
}

// TokenIssuer signs and verifies HS256 JWTs whose subject is the user ID.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns an issuer for secret. A non-positive ttl falls back to one hour.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a signed token for userID.
func (t *TokenIssuer) Issue(userID uuid.UUID) (string, error) {
	if len(t.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    issuer,
		Audience:  jwt.ClaimStrings{audience},
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Resolve verifies credential and returns its subject. Any failure is
// reported as UNAUTHENTICATED.
func (t *TokenIssuer) Resolve(_ context.Context, credential string) (uuid.UUID, error) {
	if credential == "" {
		return uuid.Nil, models.NewUnauthenticatedError("No token, authorization denied")
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(credential, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return uuid.Nil, &models.AppError{
			Code:    models.CodeUnauthenticated,
			Message: "Token is not valid",
			Err:     err,
		}
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, models.NewUnauthenticatedError("Token is not valid")
	}
	return userID, nil
}
