// Package repository provides the GORM-backed entity stores.
package repository

import (
	"context"
	"errors"

	"devconnect/internal/models"
	"devconnect/internal/observability"

	"gorm.io/gorm"
)

// translate maps driver errors onto the application taxonomy: a missing row
// becomes NOT_FOUND, everything else STORAGE_ERROR.
func translate(ctx context.Context, log *observability.RepoLogger, op, resource string, id any, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	log.LogError(ctx, err, op)
	return models.NewStorageError(err)
}
