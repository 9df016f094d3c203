package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentSnapshot is the evidence copied from the reported post at submit time.
// It is never updated afterwards.
type ContentSnapshot struct {
	Text     string    `gorm:"type:text" json:"text"`
	ImageRef string    `gorm:"size:1000" json:"imageRef,omitempty"`
	AuthorID uuid.UUID `gorm:"type:uuid" json:"authorId"`
	PostedAt time.Time `json:"createdAt"`
}

// Report is a user complaint against a post and its moderation state.
// Only Status, ReviewedAt, ReviewedBy and AdminNotes change after creation.
type Report struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SubjectID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"subjectId"`
	ReporterID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"reporterId"`
	Reason      ReportReason    `gorm:"type:varchar(50);not null" json:"reason"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Status      ReportStatus    `gorm:"type:varchar(20);not null;index" json:"status"`
	Snapshot    ContentSnapshot `gorm:"embedded;embeddedPrefix:snapshot_" json:"contentSnapshot"`
	CreatedAt   time.Time       `gorm:"index" json:"createdAt"`
	ReviewedAt  *time.Time      `json:"reviewedAt,omitempty"`
	ReviewedBy  *uuid.UUID      `gorm:"type:uuid" json:"reviewedBy,omitempty"`
	AdminNotes  *string         `gorm:"type:text" json:"adminNotes,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ReportTransition is a requested status change performed by a moderator.
// A nil Notes keeps the current admin notes.
type ReportTransition struct {
	To      ReportStatus
	ActorID uuid.UUID
	Notes   *string
	At      time.Time
}

// Apply copies the transition onto r. Callers must have checked legality.
func (r *Report) Apply(t ReportTransition) {
	at := t.At
	actor := t.ActorID
	r.Status = t.To
	r.ReviewedAt = &at
	r.ReviewedBy = &actor
	if t.Notes != nil {
		notes := *t.Notes
		r.AdminNotes = &notes
	}
	r.UpdatedAt = at
}
