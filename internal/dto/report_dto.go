package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/models"
	"github.com/google/uuid"
)

type CreateReportRequest struct {
	SubjectID   string `json:"subjectId" validate:"required"`
	Reason      string `json:"reason"`
	Description string `json:"description" validate:"max=2000"`
}

type CreateReportResponse struct {
	ReportID uuid.UUID `json:"reportId"`
}

// TransitionReportRequest moves a report to Status. A nil AdminNotes keeps the
// current notes; any provided value, including "", replaces them.
type TransitionReportRequest struct {
	Status     string  `json:"status"`
	AdminNotes *string `json:"adminNotes" validate:"omitempty,max=2000"`
}

type ListReportsRequest struct {
	Status string
	Limit  int
	Offset int
}

type ListReportsResponse struct {
	Reports []models.Report `json:"reports"`
	Total   int64           `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// ReportDetail is a report plus whether its subject post still exists.
type ReportDetail struct {
	models.Report
	SubjectExists bool `json:"subjectExists"`
}

type ReportStats struct {
	Total       int64                         `json:"total"`
	ByStatus    map[models.ReportStatus]int64 `json:"byStatus"`
	ByReason    map[models.ReportReason]int64 `json:"byReason"`
	GeneratedAt time.Time                     `json:"generatedAt"`
}
