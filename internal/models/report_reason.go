package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// ReportReason is the category a reporter picks when filing a report.
type ReportReason string

const (
	ReasonInappropriate  ReportReason = "Inappropriate content"
	ReasonHarassment     ReportReason = "Harassment or bullying"
	ReasonSpam           ReportReason = "Spam"
	ReasonMisinformation ReportReason = "Misinformation"
	ReasonHateSpeech     ReportReason = "Hate speech"
	ReasonViolence       ReportReason = "Violence"
	ReasonIllegal        ReportReason = "Illegal content"
	ReasonOther          ReportReason = "Other"
)

var ErrInvalidReason = errors.New("invalid report reason")

var ReportReasons = []ReportReason{
	ReasonInappropriate,
	ReasonHarassment,
	ReasonSpam,
	ReasonMisinformation,
	ReasonHateSpeech,
	ReasonViolence,
	ReasonIllegal,
	ReasonOther,
}

func ParseReportReason(s string) (ReportReason, error) {
	if s == "" {
		return "", fmt.Errorf("%w: reason is required", ErrInvalidReason)
	}
	r := ReportReason(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidReason, s)
	}
	return r, nil
}

func (r ReportReason) Valid() bool {
	for _, known := range ReportReasons {
		if r == known {
			return true
		}
	}
	return false
}

func (r ReportReason) String() string {
	return string(r)
}

func (r ReportReason) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReason, string(r))
	}
	return string(r), nil
}

func (r *ReportReason) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidReason, src)
	}
	parsed, err := ParseReportReason(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
