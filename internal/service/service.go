// Package service composes identity, storage and the domain engines into the
// operations the HTTP layer exposes. Every operation resolves the caller,
// validates identifiers, loads the aggregate, applies the engine and saves.
package service

import (
	"context"
	"strings"
	"time"

	"devconnect/internal/auth"
	"devconnect/internal/models"
	"devconnect/internal/observability"
	"devconnect/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Clock returns the current time.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// begin opens a span for service.method. The returned func must be deferred
// with the address of the named error result; it closes the span, counts the
// outcome and logs the call.
func begin(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	start := time.Now()
	ctx, end := observability.StartSpan(ctx, service+"."+method, attrs...)
	return ctx, func(errp *error) {
		var err error
		if errp != nil {
			err = *errp
		}
		elapsed := time.Since(start)
		end(err)
		observability.RecordOperation(toSnake(method), strings.ToLower(models.ErrorCode(err)), elapsed)
		observability.LogServiceCall(ctx, service, method, elapsed, err)
	}
}

// principal resolves credential through the identity provider.
func principal(ctx context.Context, identity auth.IdentityProvider, credential string) (uuid.UUID, error) {
	if identity == nil {
		return uuid.Nil, models.NewUnauthenticatedError("No identity provider configured")
	}
	return identity.Resolve(ctx, credential)
}

// author snapshots the principal's display fields. A token whose user has
// since been deleted no longer authenticates anyone.
func author(ctx context.Context, users repository.UserRepository, userID uuid.UUID) (models.Author, error) {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return models.Author{}, models.NewUnauthenticatedError("User no longer exists")
		}
		return models.Author{}, err
	}
	return models.AuthorOf(user), nil
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
