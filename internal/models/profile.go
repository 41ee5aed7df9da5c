package models

import (
	"time"

	"github.com/google/uuid"
)

// Social holds a profile's social links. Empty links are omitted.
type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// IsZero reports whether no link is set.
func (s Social) IsZero() bool {
	return s == Social{}
}

// ExperienceEntry is one position on a profile's work history.
type ExperienceEntry struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// EntryID returns the entry identifier.
func (e ExperienceEntry) EntryID() uuid.UUID { return e.ID }

// SetEntryID assigns the entry identifier.
func (e *ExperienceEntry) SetEntryID(id uuid.UUID) { e.ID = id }

// EducationEntry is one degree on a profile's education history.
type EducationEntry struct {
	ID           uuid.UUID  `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

func (e EducationEntry) EntryID() uuid.UUID { return e.ID }

func (e *EducationEntry) SetEntryID(id uuid.UUID) { e.ID = id }

// Profile represents a user's developer profile. There is at most one profile
// per user; Experience and Education are ordered most-recent-first.
type Profile struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID         `gorm:"type:uuid;uniqueIndex;not null" json:"user"`
	User           *User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user_info,omitempty"`
	Company        string            `json:"company,omitempty"`
	Website        string            `json:"website,omitempty"`
	Location       string            `json:"location,omitempty"`
	Bio            string            `json:"bio,omitempty"`
	Status         string            `gorm:"not null" json:"status"`
	GitHubUsername string            `gorm:"column:github_username" json:"githubusername,omitempty"`
	Skills         []string          `gorm:"type:text;serializer:json" json:"skills"`
	Social         Social            `gorm:"type:text;serializer:json" json:"social"`
	Experience     []ExperienceEntry `gorm:"type:text;serializer:json" json:"experience"`
	Education      []EducationEntry  `gorm:"type:text;serializer:json" json:"education"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"date"`
}

// SocialFields is a sparse social-links payload; nil means "not supplied".
type SocialFields struct {
	YouTube   *string
	Twitter   *string
	Facebook  *string
	LinkedIn  *string
	Instagram *string
}

// ProfileFields is a sparse profile payload; nil means "not supplied".
type ProfileFields struct {
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GitHubUsername *string
	Skills         []string
	Social         SocialFields
}
