package models

import (
	"time"

	"github.com/google/uuid"
)

// Like records one user's like on a post. A post holds at most one Like per user.
type Like struct {
	UserID uuid.UUID `json:"user"`
}

// Comment is embedded in, and owned by, a Post.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
}

// Post represents a post in the DevConnect application. Likes and Comments are
// stored with the post row and are ordered most-recent-first.
type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Likes     []Like    `gorm:"type:text;serializer:json" json:"likes"`
	Comments  []Comment `gorm:"type:text;serializer:json" json:"comments"`
	CreatedAt time.Time `gorm:"index" json:"date"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Author is the identity snapshot copied onto posts and comments.
type Author struct {
	UserID uuid.UUID
	Name   string
	Avatar string
}

// AuthorOf snapshots the display fields of u.
func AuthorOf(u *User) Author {
	return Author{UserID: u.ID, Name: u.Name, Avatar: u.Avatar}
}
