package engine

import (
	"slices"
	"strings"
	"time"

	"devconnect/internal/models"

	"github.com/google/uuid"
)

// Entry is implemented by pointers to the embedded profile records.
type Entry[E any] interface {
	*E
	EntryID() uuid.UUID
	SetEntryID(uuid.UUID)
}

// AddEntry prepends entry to list under a freshly assigned id.
func AddEntry[E any, P Entry[E]](list []E, entry E, ids IDSource) []E {
	if ids == nil {
		ids = NewIDs
	}
	P(&entry).SetEntryID(ids())
	return append([]E{entry}, list...)
}

// RemoveEntry deletes the entry with the given id, keeping the order of the rest.
func RemoveEntry[E any, P Entry[E]](resource string, list []E, id uuid.UUID) ([]E, error) {
	idx := slices.IndexFunc(list, func(e E) bool { return P(&e).EntryID() == id })
	if idx < 0 {
		return list, models.NewNotFoundError(resource, id)
	}
	return slices.Delete(slices.Clone(list), idx, idx+1), nil
}

// ValidateExperience checks the required experience fields.
func ValidateExperience(e models.ExperienceEntry) error {
	switch {
	case strings.TrimSpace(e.Title) == "":
		return models.NewValidationError("Title is required")
	case strings.TrimSpace(e.Company) == "":
		return models.NewValidationError("Company is required")
	case e.From.IsZero():
		return models.NewValidationError("From date is required")
	}
	return nil
}

// ValidateEducation checks the required education fields.
func ValidateEducation(e models.EducationEntry) error {
	switch {
	case strings.TrimSpace(e.School) == "":
		return models.NewValidationError("School is required")
	case strings.TrimSpace(e.Degree) == "":
		return models.NewValidationError("Degree is required")
	case strings.TrimSpace(e.FieldOfStudy) == "":
		return models.NewValidationError("Field of study is required")
	case e.From.IsZero():
		return models.NewValidationError("From date is required")
	}
	return nil
}

// ParseSkills splits a comma separated skill list, trimming blanks and
// dropping duplicates while keeping first-seen order.
func ParseSkills(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// UpsertProfile creates a profile for userID from fields when existing is nil,
// otherwise merges the supplied fields into existing. Omitted fields are left
// untouched; social links merge key by key.
func UpsertProfile(existing *models.Profile, userID uuid.UUID, fields models.ProfileFields, ids IDSource, now time.Time) *models.Profile {
	profile := existing
	if profile == nil {
		if ids == nil {
			ids = NewIDs
		}
		profile = &models.Profile{
			ID:         ids(),
			UserID:     userID,
			Skills:     []string{},
			Experience: []models.ExperienceEntry{},
			Education:  []models.EducationEntry{},
			CreatedAt:  now,
		}
	}

	setString(&profile.Company, fields.Company)
	setString(&profile.Website, fields.Website)
	setString(&profile.Location, fields.Location)
	setString(&profile.Bio, fields.Bio)
	setString(&profile.Status, fields.Status)
	setString(&profile.GitHubUsername, fields.GitHubUsername)
	if fields.Skills != nil {
		profile.Skills = slices.Clone(fields.Skills)
	}

	setString(&profile.Social.YouTube, fields.Social.YouTube)
	setString(&profile.Social.Twitter, fields.Social.Twitter)
	setString(&profile.Social.Facebook, fields.Social.Facebook)
	setString(&profile.Social.LinkedIn, fields.Social.LinkedIn)
	setString(&profile.Social.Instagram, fields.Social.Instagram)

	profile.UpdatedAt = now
	return profile
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
