package repository

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportFilter narrows a report listing. A nil Status lists every report.
type ReportFilter struct {
	Status *models.ReportStatus
	Limit  int
	Offset int
}

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// FindByID returns gorm.ErrRecordNotFound (wrapped) when the report is absent.
func (r *ReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to find report %s: %w", id, err)
	}
	return &report, nil
}

// List returns reports newest first along with the unpaginated total.
func (r *ReportRepository) List(ctx context.Context, filter ReportFilter) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Report{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	if err := query.Order("created_at DESC, id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&reports).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, total, nil
}

// ApplyTransition moves a report to t.To and records the history entry in one
// transaction. The row is locked while the move is checked against the
// transition table, and the UPDATE is additionally guarded on the status that
// was read, so a concurrent writer can never be overwritten.
func (r *ReportRepository) ApplyTransition(ctx context.Context, id uuid.UUID, t models.ReportTransition) (*models.Report, error) {
	var report models.Report

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&report).Error; err != nil {
			return err
		}

		from := report.Status
		if !models.CanTransition(from, t.To) {
			return &models.TransitionError{From: from, To: t.To}
		}

		updates := map[string]interface{}{
			"status":      t.To,
			"reviewed_at": t.At,
			"reviewed_by": t.ActorID,
			"updated_at":  t.At,
		}
		if t.Notes != nil {
			updates["admin_notes"] = *t.Notes
		}

		result := tx.Model(&models.Report{}).
			Where("id = ? AND status = ?", id, from).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &models.TransitionError{From: from, To: t.To}
		}

		event := models.ReportEvent{
			ID:         uuid.New(),
			ReportID:   id,
			FromStatus: from,
			ToStatus:   t.To,
			ActorID:    t.ActorID,
			Notes:      t.Notes,
			CreatedAt:  t.At,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		report.Apply(t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to transition report %s: %w", id, err)
	}
	return &report, nil
}

// Events returns the transition history of a report, oldest first.
func (r *ReportRepository) Events(ctx context.Context, reportID uuid.UUID) ([]models.ReportEvent, error) {
	var events []models.ReportEvent
	if err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to load report events: %w", err)
	}
	return events, nil
}

type groupCount struct {
	Label string
	Count int64
}

// CountByStatus returns the number of reports per status; absent statuses are zero.
func (r *ReportRepository) CountByStatus(ctx context.Context) (map[models.ReportStatus]int64, error) {
	var rows []groupCount
	if err := r.db.WithContext(ctx).Model(&models.Report{}).
		Select("status AS label, count(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count reports by status: %w", err)
	}

	counts := make(map[models.ReportStatus]int64, len(models.ReportStatuses))
	for _, st := range models.ReportStatuses {
		counts[st] = 0
	}
	for _, row := range rows {
		counts[models.ReportStatus(row.Label)] = row.Count
	}
	return counts, nil
}

// CountByReason returns the number of reports per reason.
func (r *ReportRepository) CountByReason(ctx context.Context) (map[models.ReportReason]int64, error) {
	var rows []groupCount
	if err := r.db.WithContext(ctx).Model(&models.Report{}).
		Select("reason AS label, count(*) AS count").
		Group("reason").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count reports by reason: %w", err)
	}

	counts := make(map[models.ReportReason]int64, len(rows))
	for _, row := range rows {
		counts[models.ReportReason(row.Label)] = row.Count
	}
	return counts, nil
}
