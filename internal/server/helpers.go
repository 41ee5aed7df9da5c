package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"devconnect/internal/engine"
	"devconnect/internal/models"
	"devconnect/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes the JSON body into req and runs struct validation.
func parseBody(c *fiber.Ctx, req any) error {
	if err := decodeBody(c, req); err != nil {
		return err
	}
	return validation.Struct(req)
}

// decodeBody decodes without validating, for payloads the service checks itself.
func decodeBody(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		var de *dateError
		if errors.As(err, &de) {
			return models.NewFieldValidationError(map[string]string{"date": de.Error()})
		}
		return models.NewFieldValidationError(validation.ToDetails(err))
	}
	return nil
}

// respond writes err using the status its code maps to.
func respond(c *fiber.Ctx, err error) error {
	return models.RespondWithAppError(c, err)
}

type dateError struct {
	raw string
}

func (e *dateError) Error() string {
	return fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", e.raw)
}

// date accepts "2006-01-02" or RFC 3339 timestamps.
type date struct {
	time.Time
}

func (d *date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return &dateError{raw: raw}
}

func (d *date) ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// skillList accepts either a comma separated string or a JSON array.
type skillList []string

func (s *skillList) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var raw string
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		raw = strings.Join(list, ",")
	} else if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = skillList(engine.ParseSkills(raw))
	if *s == nil {
		// present but empty, distinct from omitted
		*s = skillList{}
	}
	return nil
}
