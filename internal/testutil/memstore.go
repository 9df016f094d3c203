// Package testutil holds in-memory stores that satisfy the service
// interfaces, for tests that should not need a database.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemReportStore struct {
	mu      sync.Mutex
	reports map[uuid.UUID]models.Report
	events  []models.ReportEvent
	writes  int
}

func NewMemReportStore() *MemReportStore {
	return &MemReportStore{reports: map[uuid.UUID]models.Report{}}
}

func (m *MemReportStore) Create(_ context.Context, report *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[report.ID] = *report
	m.writes++
	return nil
}

func (m *MemReportStore) FindByID(_ context.Context, id uuid.UUID) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, fmt.Errorf("failed to find report %s: %w", id, gorm.ErrRecordNotFound)
	}
	return &r, nil
}

func (m *MemReportStore) List(_ context.Context, filter repository.ReportFilter) ([]models.Report, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []models.Report
	for _, r := range m.reports {
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() > all[j].ID.String()
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := int64(len(all))
	if filter.Offset >= len(all) {
		return nil, total, nil
	}
	all = all[filter.Offset:]
	if len(all) > filter.Limit {
		all = all[:filter.Limit]
	}
	return all, total, nil
}

func (m *MemReportStore) ApplyTransition(_ context.Context, id uuid.UUID, t models.ReportTransition) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reports[id]
	if !ok {
		return nil, fmt.Errorf("failed to transition report %s: %w", id, gorm.ErrRecordNotFound)
	}
	if !models.CanTransition(r.Status, t.To) {
		return nil, &models.TransitionError{From: r.Status, To: t.To}
	}

	m.events = append(m.events, models.ReportEvent{
		ID:         uuid.New(),
		ReportID:   id,
		FromStatus: r.Status,
		ToStatus:   t.To,
		ActorID:    t.ActorID,
		Notes:      t.Notes,
		CreatedAt:  t.At,
	})
	r.Apply(t)
	m.reports[id] = r
	m.writes++
	return &r, nil
}

func (m *MemReportStore) Events(_ context.Context, reportID uuid.UUID) ([]models.ReportEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ReportEvent
	for _, e := range m.events {
		if e.ReportID == reportID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MemReportStore) CountByStatus(_ context.Context) (map[models.ReportStatus]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[models.ReportStatus]int64{}
	for _, st := range models.ReportStatuses {
		counts[st] = 0
	}
	for _, r := range m.reports {
		counts[r.Status]++
	}
	return counts, nil
}

func (m *MemReportStore) CountByReason(_ context.Context) (map[models.ReportReason]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[models.ReportReason]int64{}
	for _, r := range m.reports {
		counts[r.Reason]++
	}
	return counts, nil
}

// Get returns the stored copy of a report, or the zero Report.
func (m *MemReportStore) Get(id uuid.UUID) models.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reports[id]
}

// Writes counts successful creates and transitions.
func (m *MemReportStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MemReportStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reports)
}

type MemPostStore struct {
	mu    sync.Mutex
	posts map[uuid.UUID]models.Post
}

func NewMemPostStore() *MemPostStore {
	return &MemPostStore{posts: map[uuid.UUID]models.Post{}}
}

func (m *MemPostStore) Create(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[post.ID] = *post
	return nil
}

func (m *MemPostStore) FindByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("failed to find post %s: %w", id, gorm.ErrRecordNotFound)
	}
	return &p, nil
}

func (m *MemPostStore) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.posts[id]
	return ok, nil
}

func (m *MemPostStore) Update(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["text"].(string); ok {
		p.Text = v
	}
	if v, ok := updates["image_ref"].(string); ok {
		p.ImageRef = v
	}
	m.posts[id] = p
	return nil
}

func (m *MemPostStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.posts, id)
	return nil
}

// StatsCache is an in-process generation-keyed stats cache that counts its
// hits and invalidations.
type StatsCache struct {
	mu          sync.Mutex
	gen         int64
	entries     map[int64]*dto.ReportStats
	hits        int
	invalidated int
}

func (c *StatsCache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

func (c *StatsCache) Invalidations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidated
}

func (c *StatsCache) Generation(context.Context) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, true
}

func (c *StatsCache) GetStats(_ context.Context, gen int64) (*dto.ReportStats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats, ok := c.entries[gen]
	if !ok {
		return nil, false
	}
	c.hits++
	return stats, true
}

func (c *StatsCache) SetStats(_ context.Context, gen int64, stats *dto.ReportStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	if c.entries == nil {
		c.entries = map[int64]*dto.ReportStats{}
	}
	c.entries[gen] = stats
}

func (c *StatsCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, c.gen)
	c.gen++
	c.invalidated++
}

// ModeratorSet answers moderator lookups from a fixed set of user ids.
type ModeratorSet map[uuid.UUID]bool

func NewModeratorSet(ids ...uuid.UUID) ModeratorSet {
	set := ModeratorSet{}
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (s ModeratorSet) IsModerator(_ context.Context, id uuid.UUID) (bool, error) {
	return s[id], nil
}
