package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultReportPageSize = 20
	MaxReportPageSize     = 100
)

// ReportStore persists reports. Lookups of a missing report return an error
// wrapping gorm.ErrRecordNotFound; a refused move returns *models.TransitionError.
type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	List(ctx context.Context, filter repository.ReportFilter) ([]models.Report, int64, error)
	ApplyTransition(ctx context.Context, id uuid.UUID, t models.ReportTransition) (*models.Report, error)
	Events(ctx context.Context, reportID uuid.UUID) ([]models.ReportEvent, error)
	CountByStatus(ctx context.Context) (map[models.ReportStatus]int64, error)
	CountByReason(ctx context.Context) (map[models.ReportReason]int64, error)
}

// ContentSource gives read-only access to the content a report points at.
// Snapshot returns ErrNotFound when the post is missing or deleted.
type ContentSource interface {
	Snapshot(ctx context.Context, id uuid.UUID) (models.ContentSnapshot, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// StatsCache holds dashboard counts under a generation number. Invalidate
// advances the generation, so a fill computed under an older generation is
// never served. Generation reports false when the cache cannot be used.
type StatsCache interface {
	Generation(ctx context.Context) (int64, bool)
	GetStats(ctx context.Context, gen int64) (*dto.ReportStats, bool)
	SetStats(ctx context.Context, gen int64, stats *dto.ReportStats)
	Invalidate(ctx context.Context)
}

// NoopStatsCache disables stats caching.
type NoopStatsCache struct{}

func (NoopStatsCache) Generation(context.Context) (int64, bool)                 { return 0, false }
func (NoopStatsCache) GetStats(context.Context, int64) (*dto.ReportStats, bool) { return nil, false }
func (NoopStatsCache) SetStats(context.Context, int64, *dto.ReportStats)        {}
func (NoopStatsCache) Invalidate(context.Context)                               {}

type ReportService struct {
	store   ReportStore
	content ContentSource
	cache   StatsCache
	now     func() time.Time
}

func NewReportService(store ReportStore, content ContentSource, cache StatsCache) *ReportService {
	if cache == nil {
		cache = NoopStatsCache{}
	}
	return &ReportService{
		store:   store,
		content: content,
		cache:   cache,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Submit files a new pending report against a post, capturing the post as it
// reads right now.
func (s *ReportService) Submit(ctx context.Context, reporterID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	reason, err := models.ParseReportReason(req.Reason)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	subjectID, err := uuid.Parse(req.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("%w: subjectId must be a valid id", ErrInvalidArgument)
	}

	snapshot, err := s.content.Snapshot(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	report := &models.Report{
		ID:          uuid.New(),
		SubjectID:   subjectID,
		ReporterID:  reporterID,
		Reason:      reason,
		Description: req.Description,
		Status:      models.ReportStatusPending,
		Snapshot:    snapshot,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, report); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	metrics.RecordReportSubmitted(string(reason))
	slog.Info("report submitted",
		"report_id", report.ID.String(),
		"actor_id", reporterID.String(),
		"subject_id", subjectID.String(),
		"reason", string(reason),
	)
	return report, nil
}

// Authorize returns ErrForbidden unless the actor is a moderator. Handlers call
// it before parsing moderator-only input.
func (s *ReportService) Authorize(actor identity.Actor, action string) error {
	if actor.IsModerator {
		return nil
	}
	if action == "transition" {
		metrics.RecordTransition("unknown", "forbidden")
	}
	slog.Warn("report access refused",
		"action", action,
		"actor_id", actor.ID.String(),
	)
	return ErrForbidden
}

// Transition moves a report to the requested status on behalf of a moderator.
// The move is checked and written atomically; on any refusal the stored
// report is left exactly as it was.
func (s *ReportService) Transition(ctx context.Context, actor identity.Actor, id uuid.UUID, req *dto.TransitionReportRequest) (*models.Report, error) {
	if err := s.Authorize(actor, "transition"); err != nil {
		return nil, err
	}

	to, err := models.ParseReportStatus(req.Status)
	if err != nil {
		metrics.RecordTransition("unknown", "invalid")
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	report, err := s.store.ApplyTransition(ctx, id, models.ReportTransition{
		To:      to,
		ActorID: actor.ID,
		Notes:   req.AdminNotes,
		At:      s.now(),
	})
	if err != nil {
		var terr *models.TransitionError
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			metrics.RecordTransition(string(to), "not_found")
			return nil, fmt.Errorf("%w: report %s", ErrNotFound, id)
		case errors.As(err, &terr):
			metrics.RecordTransition(string(to), "invalid")
			return nil, fmt.Errorf("%w: %s (%s is reachable only from %s)",
				ErrInvalidTransition, terr.Error(), to, joinStatuses(models.TransitionSources(to)))
		default:
			metrics.RecordTransition(string(to), "error")
			return nil, err
		}
	}

	s.cache.Invalidate(ctx)
	metrics.RecordTransition(string(to), "applied")
	slog.Info("report transitioned",
		"action", "transition",
		"actor_id", actor.ID.String(),
		"report_id", id.String(),
		"status", string(to),
	)
	return report, nil
}

// List returns a page of reports, newest first, optionally filtered by status.
func (s *ReportService) List(ctx context.Context, actor identity.Actor, req dto.ListReportsRequest) (*dto.ListReportsResponse, error) {
	if !actor.IsModerator {
		return nil, ErrForbidden
	}

	filter := repository.ReportFilter{
		Limit:  req.Limit,
		Offset: req.Offset,
	}
	if req.Status != "" {
		status, err := models.ParseReportStatus(req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		filter.Status = &status
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultReportPageSize
	}
	if filter.Limit > MaxReportPageSize {
		filter.Limit = MaxReportPageSize
	}
	if filter.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", ErrInvalidArgument)
	}

	reports, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []models.Report{}
	}

	return &dto.ListReportsResponse{
		Reports: reports,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}

// Get returns one report, noting whether its subject post still exists.
func (s *ReportService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*dto.ReportDetail, error) {
	if !actor.IsModerator {
		return nil, ErrForbidden
	}

	report, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.content.Exists(ctx, report.SubjectID)
	if err != nil {
		return nil, err
	}

	return &dto.ReportDetail{Report: *report, SubjectExists: exists}, nil
}

// History returns the status changes of a report, oldest first.
func (s *ReportService) History(ctx context.Context, actor identity.Actor, id uuid.UUID) ([]models.ReportEvent, error) {
	if !actor.IsModerator {
		return nil, ErrForbidden
	}
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}

	events, err := s.store.Events(ctx, id)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.ReportEvent{}
	}
	return events, nil
}

// Stats returns report counts for the moderation dashboard.
func (s *ReportService) Stats(ctx context.Context, actor identity.Actor) (*dto.ReportStats, error) {
	if !actor.IsModerator {
		return nil, ErrForbidden
	}
	gen, cacheable := s.cache.Generation(ctx)
	if cacheable {
		if stats, ok := s.cache.GetStats(ctx, gen); ok {
			return stats, nil
		}
	}

	byStatus, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byReason, err := s.store.CountByReason(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range byStatus {
		total += n
	}

	stats := &dto.ReportStats{
		Total:       total,
		ByStatus:    byStatus,
		ByReason:    byReason,
		GeneratedAt: s.now(),
	}
	if cacheable {
		s.cache.SetStats(ctx, gen, stats)
	}
	return stats, nil
}

func (s *ReportService) find(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	report, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: report %s", ErrNotFound, id)
		}
		return nil, err
	}
	return report, nil
}

func joinStatuses(statuses []models.ReportStatus) string {
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}
	return strings.Join(names, " or ")
}
