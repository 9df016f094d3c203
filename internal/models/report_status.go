package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// ReportStatus is the lifecycle state of a report.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusReviewed  ReportStatus = "reviewed"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

var (
	ErrInvalidStatus     = errors.New("invalid report status")
	ErrIllegalTransition = errors.New("illegal report transition")
)

// TransitionError describes a status change missing from the transition table.
type TransitionError struct {
	From ReportStatus
	To   ReportStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move report from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// ReportStatuses lists every state in display order.
var ReportStatuses = []ReportStatus{
	ReportStatusPending,
	ReportStatusReviewed,
	ReportStatusResolved,
	ReportStatusDismissed,
}

// reportTransitions is the full set of legal moves. Closed decisions are
// reopened to pending, never amended in place.
var reportTransitions = map[ReportStatus][]ReportStatus{
	ReportStatusPending:   {ReportStatusReviewed, ReportStatusResolved, ReportStatusDismissed},
	ReportStatusReviewed:  {ReportStatusResolved, ReportStatusDismissed},
	ReportStatusResolved:  {ReportStatusPending},
	ReportStatusDismissed: {ReportStatusPending},
}

func ParseReportStatus(s string) (ReportStatus, error) {
	st := ReportStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

func (s ReportStatus) Valid() bool {
	_, ok := reportTransitions[s]
	return ok
}

func (s ReportStatus) String() string {
	return string(s)
}

// CanTransition reports whether from -> to appears in the transition table.
func CanTransition(from, to ReportStatus) bool {
	for _, next := range reportTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionSources returns the states from which to is reachable in one step.
func TransitionSources(to ReportStatus) []ReportStatus {
	var sources []ReportStatus
	for _, from := range ReportStatuses {
		if CanTransition(from, to) {
			sources = append(sources, from)
		}
	}
	return sources
}

func (s ReportStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, string(s))
	}
	return string(s), nil
}

func (s *ReportStatus) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidStatus, src)
	}
	st, err := ParseReportStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}
