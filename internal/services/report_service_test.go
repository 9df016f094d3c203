package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportFixture struct {
	store *testutil.MemReportStore
	posts *PostService
	cache *testutil.StatsCache
	svc   *ReportService

	author    identity.Actor
	reporter  identity.Actor
	moderator identity.Actor
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()

	var mu sync.Mutex
	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	tick := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}

	store := testutil.NewMemReportStore()
	posts := NewPostService(testutil.NewMemPostStore())
	posts.now = tick
	cache := &testutil.StatsCache{}
	svc := NewReportService(store, posts, cache)
	svc.now = tick

	return &reportFixture{
		store:     store,
		posts:     posts,
		cache:     cache,
		svc:       svc,
		author:    identity.Actor{ID: uuid.New()},
		reporter:  identity.Actor{ID: uuid.New()},
		moderator: identity.Actor{ID: uuid.New(), IsModerator: true},
	}
}

func (f *reportFixture) post(t *testing.T, text string) *models.Post {
	t.Helper()
	p, err := f.posts.Create(context.Background(), f.author.ID, &dto.CreatePostRequest{
		Text:     text,
		ImageRef: "https://img.buzzly.app/p/1.jpg",
	})
	require.NoError(t, err)
	return p
}

func (f *reportFixture) submit(t *testing.T, subject uuid.UUID) *models.Report {
	t.Helper()
	r, err := f.svc.Submit(context.Background(), f.reporter.ID, &dto.CreateReportRequest{
		SubjectID: subject.String(),
		Reason:    "Spam",
	})
	require.NoError(t, err)
	return r
}

func (f *reportFixture) move(t *testing.T, id uuid.UUID, status string) (*models.Report, error) {
	t.Helper()
	return f.svc.Transition(context.Background(), f.moderator, id, &dto.TransitionReportRequest{Status: status})
}

func TestReportService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("CapturesSnapshot", func(t *testing.T) {
		f := newReportFixture(t)
		p := f.post(t, "buy followers now")

		r, err := f.svc.Submit(ctx, f.reporter.ID, &dto.CreateReportRequest{
			SubjectID:   p.ID.String(),
			Reason:      "Spam",
			Description: "",
		})
		require.NoError(t, err)

		stored := f.store.Get(r.ID)
		assert.Equal(t, models.ReportStatusPending, stored.Status)
		assert.Equal(t, models.ReasonSpam, stored.Reason)
		assert.Equal(t, p.ID, stored.SubjectID)
		assert.Equal(t, f.reporter.ID, stored.ReporterID)
		assert.Equal(t, "buy followers now", stored.Snapshot.Text)
		assert.Equal(t, p.ImageRef, stored.Snapshot.ImageRef)
		assert.Equal(t, f.author.ID, stored.Snapshot.AuthorID)
		assert.True(t, p.CreatedAt.Equal(stored.Snapshot.PostedAt))
		assert.Nil(t, stored.ReviewedAt)
		assert.Nil(t, stored.ReviewedBy)
		assert.Nil(t, stored.AdminNotes)
		assert.Equal(t, 1, f.cache.Invalidations())
	})

	t.Run("RejectsUnknownOrEmptyReason", func(t *testing.T) {
		f := newReportFixture(t)
		p := f.post(t, "hello")

		for _, reason := range []string{"", "spam", "Rude", "Other "} {
			_, err := f.svc.Submit(ctx, f.reporter.ID, &dto.CreateReportRequest{
				SubjectID: p.ID.String(),
				Reason:    reason,
			})
			assert.ErrorIs(t, err, ErrInvalidArgument, "reason %q", reason)
		}
		assert.Zero(t, f.store.Writes())
	})

	t.Run("MalformedSubject", func(t *testing.T) {
		f := newReportFixture(t)
		_, err := f.svc.Submit(ctx, f.reporter.ID, &dto.CreateReportRequest{
			SubjectID: "not-an-id",
			Reason:    "Violence",
		})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("MissingSubject", func(t *testing.T) {
		f := newReportFixture(t)
		_, err := f.svc.Submit(ctx, f.reporter.ID, &dto.CreateReportRequest{
			SubjectID: uuid.NewString(),
			Reason:    "Violence",
		})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Zero(t, f.store.Writes())
	})

	t.Run("NoDeduplication", func(t *testing.T) {
		f := newReportFixture(t)
		p := f.post(t, "hello")

		first := f.submit(t, p.ID)
		second := f.submit(t, p.ID)
		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, 2, f.store.Len())
	})
}

func TestReportService_ModerationScenario(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)
	r := f.submit(t, f.post(t, "spam spam spam").ID)
	require.Equal(t, models.ReportStatusPending, r.Status)
	require.Nil(t, r.ReviewedBy)

	reviewed, err := f.move(t, r.ID, "reviewed")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusReviewed, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, f.moderator.ID, *reviewed.ReviewedBy)

	notes := "actioned"
	resolved, err := f.svc.Transition(ctx, f.moderator, r.ID, &dto.TransitionReportRequest{
		Status:     "resolved",
		AdminNotes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusResolved, resolved.Status)
	require.NotNil(t, resolved.AdminNotes)
	assert.Equal(t, "actioned", *resolved.AdminNotes)

	_, err = f.svc.Transition(ctx, f.reporter, r.ID, &dto.TransitionReportRequest{Status: "dismissed"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, models.ReportStatusResolved, f.store.Get(r.ID).Status)

	_, err = f.move(t, r.ID, "reviewed")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "from resolved to reviewed")
	assert.Equal(t, models.ReportStatusResolved, f.store.Get(r.ID).Status)
}

func TestReportService_Transition(t *testing.T) {
	ctx := context.Background()

	t.Run("IllegalMovesLeaveReportUntouched", func(t *testing.T) {
		f := newReportFixture(t)
		subject := f.post(t, "hello").ID

		illegal := map[models.ReportStatus][]string{
			models.ReportStatusPending:   {"pending"},
			models.ReportStatusReviewed:  {"reviewed", "pending"},
			models.ReportStatusResolved:  {"resolved", "reviewed", "dismissed"},
			models.ReportStatusDismissed: {"dismissed", "reviewed", "resolved"},
		}
		paths := map[models.ReportStatus][]string{
			models.ReportStatusPending:   nil,
			models.ReportStatusReviewed:  {"reviewed"},
			models.ReportStatusResolved:  {"resolved"},
			models.ReportStatusDismissed: {"dismissed"},
		}

		for from, targets := range illegal {
			r := f.submit(t, subject)
			for _, step := range paths[from] {
				_, err := f.move(t, r.ID, step)
				require.NoError(t, err)
			}
			before := f.store.Get(r.ID)

			for _, to := range targets {
				_, err := f.move(t, r.ID, to)
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", from, to)
				assert.Equal(t, before, f.store.Get(r.ID), "%s -> %s mutated the report", from, to)
			}
		}
	})

	t.Run("UnknownStatusIsInvalidArgument", func(t *testing.T) {
		f := newReportFixture(t)
		r := f.submit(t, f.post(t, "hello").ID)

		for _, status := range []string{"", "closed", "Reviewed"} {
			_, err := f.move(t, r.ID, status)
			assert.ErrorIs(t, err, ErrInvalidArgument, "status %q", status)
		}
		assert.Equal(t, models.ReportStatusPending, f.store.Get(r.ID).Status)
	})

	t.Run("ForbiddenNeverMutates", func(t *testing.T) {
		f := newReportFixture(t)
		r := f.submit(t, f.post(t, "hello").ID)
		writes := f.store.Writes()

		for _, actor := range []identity.Actor{f.reporter, f.author, {ID: uuid.New()}} {
			for _, status := range []string{"reviewed", "resolved", "dismissed", "pending", "bogus"} {
				_, err := f.svc.Transition(ctx, actor, r.ID, &dto.TransitionReportRequest{Status: status})
				assert.ErrorIs(t, err, ErrForbidden)
			}
		}
		assert.Equal(t, writes, f.store.Writes())
		assert.Equal(t, models.ReportStatusPending, f.store.Get(r.ID).Status)
	})

	t.Run("ForbiddenBeforeNotFound", func(t *testing.T) {
		f := newReportFixture(t)
		_, err := f.svc.Transition(ctx, f.reporter, uuid.New(), &dto.TransitionReportRequest{Status: "reviewed"})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("MissingReport", func(t *testing.T) {
		f := newReportFixture(t)
		_, err := f.move(t, uuid.New(), "reviewed")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ReopenRoundTrip", func(t *testing.T) {
		f := newReportFixture(t)
		r := f.submit(t, f.post(t, "hello").ID)

		notes := "looked fine"
		_, err := f.svc.Transition(ctx, f.moderator, r.ID, &dto.TransitionReportRequest{
			Status:     "dismissed",
			AdminNotes: &notes,
		})
		require.NoError(t, err)

		other := identity.Actor{ID: uuid.New(), IsModerator: true}
		reopened, err := f.svc.Transition(ctx, other, r.ID, &dto.TransitionReportRequest{Status: "pending"})
		require.NoError(t, err)
		assert.Equal(t, models.ReportStatusPending, reopened.Status)
		assert.Equal(t, other.ID, *reopened.ReviewedBy)
		require.NotNil(t, reopened.AdminNotes)
		assert.Equal(t, "looked fine", *reopened.AdminNotes)
		assert.Equal(t, r.Snapshot, reopened.Snapshot)
		assert.Equal(t, r.Reason, reopened.Reason)

		again, err := f.move(t, r.ID, "reviewed")
		require.NoError(t, err)
		assert.Equal(t, models.ReportStatusReviewed, again.Status)

		resolved, err := f.move(t, r.ID, "resolved")
		require.NoError(t, err)
		_, err = f.move(t, resolved.ID, "pending")
		require.NoError(t, err)
	})

	t.Run("EmptyNotesClear", func(t *testing.T) {
		f := newReportFixture(t)
		r := f.submit(t, f.post(t, "hello").ID)

		notes := "first look"
		_, err := f.svc.Transition(ctx, f.moderator, r.ID, &dto.TransitionReportRequest{Status: "reviewed", AdminNotes: &notes})
		require.NoError(t, err)

		empty := ""
		updated, err := f.svc.Transition(ctx, f.moderator, r.ID, &dto.TransitionReportRequest{Status: "dismissed", AdminNotes: &empty})
		require.NoError(t, err)
		require.NotNil(t, updated.AdminNotes)
		assert.Equal(t, "", *updated.AdminNotes)
	})

	t.Run("SnapshotSurvivesEveryMove", func(t *testing.T) {
		f := newReportFixture(t)
		r := f.submit(t, f.post(t, "original words").ID)

		for _, step := range []string{"reviewed", "resolved", "pending", "dismissed", "pending"} {
			updated, err := f.move(t, r.ID, step)
			require.NoError(t, err)
			assert.Equal(t, r.Snapshot, updated.Snapshot)
			assert.True(t, r.CreatedAt.Equal(updated.CreatedAt))
		}
	})
}

func TestReportService_ConcurrentTransitions(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)
	r := f.submit(t, f.post(t, "hello").ID)

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
		refused int
	)
	for i := 0; i < workers; i++ {
		target := "resolved"
		if i%2 == 1 {
			target = "dismissed"
		}
		wg.Add(1)
		go func(status string) {
			defer wg.Done()
			mod := identity.Actor{ID: uuid.New(), IsModerator: true}
			_, err := f.svc.Transition(ctx, mod, r.ID, &dto.TransitionReportRequest{Status: status})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				applied++
			case errors.Is(err, ErrInvalidTransition):
				refused++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(target)
	}
	wg.Wait()

	assert.Equal(t, 1, applied)
	assert.Equal(t, workers-1, refused)

	events, err := f.svc.History(ctx, f.moderator, r.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.ReportStatusPending, events[0].FromStatus)
}

func TestReportService_List(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)
	subject := f.post(t, "hello").ID

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		ids = append(ids, f.submit(t, subject).ID)
	}
	_, err := f.move(t, ids[1], "reviewed")
	require.NoError(t, err)
	_, err = f.move(t, ids[3], "dismissed")
	require.NoError(t, err)

	t.Run("NewestFirst", func(t *testing.T) {
		page, err := f.svc.List(ctx, f.moderator, dto.ListReportsRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(5), page.Total)
		assert.Equal(t, DefaultReportPageSize, page.Limit)
		require.Len(t, page.Reports, 5)
		assert.Equal(t, ids[4], page.Reports[0].ID)
		assert.Equal(t, ids[0], page.Reports[4].ID)
	})

	t.Run("StatusFilter", func(t *testing.T) {
		page, err := f.svc.List(ctx, f.moderator, dto.ListReportsRequest{Status: "pending"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		for _, r := range page.Reports {
			assert.Equal(t, models.ReportStatusPending, r.Status)
		}
	})

	t.Run("EmptyResultIsNotNil", func(t *testing.T) {
		page, err := f.svc.List(ctx, f.moderator, dto.ListReportsRequest{Status: "resolved"})
		require.NoError(t, err)
		assert.NotNil(t, page.Reports)
		assert.Empty(t, page.Reports)
	})

	t.Run("Paging", func(t *testing.T) {
		page, err := f.svc.List(ctx, f.moderator, dto.ListReportsRequest{Limit: 2, Offset: 2})
		require.NoError(t, err)
		require.Len(t, page.Reports, 2)
		assert.Equal(t, ids[2], page.Reports[0].ID)

		capped, err := f.svc.List(ctx, f.moderator, dto.ListReportsRequest{Limit: 1000})
		require.NoError(t, err)
		assert.Equal(t, MaxReportPageSize, capped.Limit)
	})

	t.Run("InvalidFilter", func(t *testing.T) {
		_, err := f.svc.List(ctx, f.moderator, dto.ListReportsRequest{Status: "open"})
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = f.svc.List(ctx, f.moderator, dto.ListReportsRequest{Offset: -1})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("ModeratorsOnly", func(t *testing.T) {
		_, err := f.svc.List(ctx, f.reporter, dto.ListReportsRequest{})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestReportService_GetAndSubjectLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)
	p := f.post(t, "original words")
	r := f.submit(t, p.ID)

	detail, err := f.svc.Get(ctx, f.moderator, r.ID)
	require.NoError(t, err)
	assert.True(t, detail.SubjectExists)
	assert.Equal(t, r.ID, detail.ID)

	edited := "edited words"
	_, err = f.posts.Update(ctx, f.author, p.ID, &dto.UpdatePostRequest{Text: &edited})
	require.NoError(t, err)
	require.NoError(t, f.posts.Delete(ctx, f.author, p.ID))

	detail, err = f.svc.Get(ctx, f.moderator, r.ID)
	require.NoError(t, err)
	assert.False(t, detail.SubjectExists)
	assert.Equal(t, "original words", detail.Snapshot.Text)

	_, err = f.move(t, r.ID, "resolved")
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, f.reporter, r.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Get(ctx, f.moderator, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportService_History(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)
	r := f.submit(t, f.post(t, "hello").ID)

	events, err := f.svc.History(ctx, f.moderator, r.ID)
	require.NoError(t, err)
	assert.Empty(t, events)

	for _, step := range []string{"reviewed", "resolved", "pending"} {
		_, err := f.move(t, r.ID, step)
		require.NoError(t, err)
	}

	events, err = f.svc.History(ctx, f.moderator, r.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, models.ReportStatusPending, events[0].FromStatus)
	assert.Equal(t, models.ReportStatusReviewed, events[0].ToStatus)
	assert.Equal(t, models.ReportStatusResolved, events[2].FromStatus)
	assert.Equal(t, models.ReportStatusPending, events[2].ToStatus)

	_, err = f.svc.History(ctx, f.moderator, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.History(ctx, f.author, r.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReportService_Stats(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)
	subject := f.post(t, "hello").ID

	a := f.submit(t, subject)
	f.submit(t, subject)
	_, err := f.move(t, a.ID, "dismissed")
	require.NoError(t, err)

	stats, err := f.svc.Stats(ctx, f.moderator)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.ByStatus[models.ReportStatusPending])
	assert.Equal(t, int64(1), stats.ByStatus[models.ReportStatusDismissed])
	assert.Equal(t, int64(0), stats.ByStatus[models.ReportStatusResolved])
	assert.Equal(t, int64(2), stats.ByReason[models.ReasonSpam])

	cached, err := f.svc.Stats(ctx, f.moderator)
	require.NoError(t, err)
	assert.Same(t, stats, cached)
	assert.Equal(t, 1, f.cache.Hits())

	f.submit(t, subject)
	fresh, err := f.svc.Stats(ctx, f.moderator)
	require.NoError(t, err)
	assert.Equal(t, int64(3), fresh.Total)

	_, err = f.svc.Stats(ctx, f.reporter)
	assert.ErrorIs(t, err, ErrForbidden)
}

// racingStore submits a report while the dashboard counts are being read.
type racingStore struct {
	*testutil.MemReportStore
	during func()
}

func (s *racingStore) CountByReason(ctx context.Context) (map[models.ReportReason]int64, error) {
	if s.during != nil {
		during := s.during
		s.during = nil
		during()
	}
	return s.MemReportStore.CountByReason(ctx)
}

func TestReportService_StatsFillRacingSubmit(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)
	subject := f.post(t, "hello").ID

	store := &racingStore{MemReportStore: f.store}
	svc := NewReportService(store, f.posts, f.cache)
	store.during = func() {
		_, err := svc.Submit(ctx, f.reporter.ID, &dto.CreateReportRequest{
			SubjectID: subject.String(),
			Reason:    "Spam",
		})
		require.NoError(t, err)
	}

	first, err := svc.Stats(ctx, f.moderator)
	require.NoError(t, err)
	assert.Equal(t, int64(0), first.Total)

	second, err := svc.Stats(ctx, f.moderator)
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.Total)
	assert.Equal(t, 1, f.store.Len())
	assert.Equal(t, 0, f.cache.Hits())
}

func TestReportService_StatsWithoutCache(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)
	subject := f.post(t, "hello").ID
	svc := NewReportService(f.store, f.posts, nil)

	stats, err := svc.Stats(ctx, f.moderator)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)

	f.submit(t, subject)
	stats, err = svc.Stats(ctx, f.moderator)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
}
