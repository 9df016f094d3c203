package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportEvent is one entry of a report's append-only transition history.
type ReportEvent struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"reportId"`
	FromStatus ReportStatus `gorm:"type:varchar(20);not null" json:"fromStatus"`
	ToStatus   ReportStatus `gorm:"type:varchar(20);not null" json:"toStatus"`
	ActorID    uuid.UUID    `gorm:"type:uuid;not null" json:"actorId"`
	Notes      *string      `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
}
