package models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	allowed := map[[2]ReportStatus]bool{
		{ReportStatusPending, ReportStatusReviewed}:   true,
		{ReportStatusPending, ReportStatusResolved}:   true,
		{ReportStatusPending, ReportStatusDismissed}:  true,
		{ReportStatusReviewed, ReportStatusResolved}:  true,
		{ReportStatusReviewed, ReportStatusDismissed}: true,
		{ReportStatusResolved, ReportStatusPending}:   true,
		{ReportStatusDismissed, ReportStatusPending}:  true,
	}

	for _, from := range ReportStatuses {
		for _, to := range ReportStatuses {
			want := allowed[[2]ReportStatus{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_RejectsSelfAndUnknown(t *testing.T) {
	for _, st := range ReportStatuses {
		assert.False(t, CanTransition(st, st), "self transition %s", st)
	}
	assert.False(t, CanTransition("archived", ReportStatusPending))
	assert.False(t, CanTransition(ReportStatusPending, "archived"))
}

func TestTransitionSources(t *testing.T) {
	assert.Equal(t, []ReportStatus{ReportStatusResolved, ReportStatusDismissed}, TransitionSources(ReportStatusPending))
	assert.Equal(t, []ReportStatus{ReportStatusPending}, TransitionSources(ReportStatusReviewed))
	assert.Equal(t, []ReportStatus{ReportStatusPending, ReportStatusReviewed}, TransitionSources(ReportStatusResolved))
	assert.Equal(t, []ReportStatus{ReportStatusPending, ReportStatusReviewed}, TransitionSources(ReportStatusDismissed))
	assert.Empty(t, TransitionSources("archived"))
}

func TestParseReportStatus(t *testing.T) {
	st, err := ParseReportStatus("resolved")
	require.NoError(t, err)
	assert.Equal(t, ReportStatusResolved, st)

	for _, bad := range []string{"", "Pending", "actioned", " pending"} {
		_, err := ParseReportStatus(bad)
		assert.ErrorIs(t, err, ErrInvalidStatus, "input %q", bad)
	}
}

func TestReportStatus_ValueRefusesInvalid(t *testing.T) {
	_, err := ReportStatus("closed").Value()
	assert.ErrorIs(t, err, ErrInvalidStatus)

	v, err := ReportStatusDismissed.Value()
	require.NoError(t, err)
	assert.Equal(t, "dismissed", v)
}

func TestReportStatus_Scan(t *testing.T) {
	var st ReportStatus
	require.NoError(t, st.Scan([]byte("reviewed")))
	assert.Equal(t, ReportStatusReviewed, st)

	assert.ErrorIs(t, st.Scan("bogus"), ErrInvalidStatus)
	assert.ErrorIs(t, st.Scan(42), ErrInvalidStatus)
	assert.Equal(t, ReportStatusReviewed, st)
}

func TestParseReportReason(t *testing.T) {
	r, err := ParseReportReason("Hate speech")
	require.NoError(t, err)
	assert.Equal(t, ReasonHateSpeech, r)

	_, err = ParseReportReason("")
	assert.ErrorIs(t, err, ErrInvalidReason)

	_, err = ParseReportReason("spam")
	assert.ErrorIs(t, err, ErrInvalidReason)
	assert.Len(t, ReportReasons, 8)
}

func TestTransitionError(t *testing.T) {
	err := error(&TransitionError{From: ReportStatusResolved, To: ReportStatusReviewed})
	assert.True(t, errors.Is(err, ErrIllegalTransition))
	assert.Equal(t, "cannot move report from resolved to reviewed", err.Error())
}

func TestReportApply_KeepsEvidence(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	snap := ContentSnapshot{Text: "hello", AuthorID: uuid.New(), PostedAt: created}
	notes := "first"
	r := &Report{
		ID:         uuid.New(),
		Status:     ReportStatusPending,
		Snapshot:   snap,
		CreatedAt:  created,
		AdminNotes: &notes,
	}

	modID := uuid.New()
	at := created.Add(time.Hour)
	r.Apply(ReportTransition{To: ReportStatusReviewed, ActorID: modID, At: at})

	assert.Equal(t, ReportStatusReviewed, r.Status)
	assert.Equal(t, snap, r.Snapshot)
	assert.Equal(t, created, r.CreatedAt)
	require.NotNil(t, r.ReviewedBy)
	assert.Equal(t, modID, *r.ReviewedBy)
	require.NotNil(t, r.AdminNotes)
	assert.Equal(t, "first", *r.AdminNotes)

	replaced := "actioned"
	r.Apply(ReportTransition{To: ReportStatusResolved, ActorID: modID, Notes: &replaced, At: at})
	assert.Equal(t, "actioned", *r.AdminNotes)
	replaced = "mutated later"
	assert.Equal(t, "actioned", *r.AdminNotes)
}
