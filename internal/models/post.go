package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is the content item users publish and report.
type Post struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"authorId"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	ImageRef  string         `gorm:"size:1000" json:"imageRef,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Snapshot copies the fields a report preserves as evidence.
func (p *Post) Snapshot() ContentSnapshot {
	return ContentSnapshot{
		Text:     p.Text,
		ImageRef: p.ImageRef,
		AuthorID: p.AuthorID,
		PostedAt: p.CreatedAt,
	}
}
