// Package engine holds the pure domain rules for post interactions and
// profile timelines. Nothing here touches storage; callers load an entity,
// hand it to an engine function and persist the result.
package engine

import (
	"strings"

	"devconnect/internal/models"

	"github.com/google/uuid"
)

// IDSource hands out fresh identifiers for embedded records.
type IDSource func() uuid.UUID

// NewIDs is the default IDSource.
var NewIDs IDSource = uuid.New

// ParseID checks that raw is a well-formed identifier. It never consults the
// store, so malformed input is rejected before any round trip.
func ParseID(resource, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, models.NewInvalidIdentifierError(resource, raw)
	}
	return id, nil
}
