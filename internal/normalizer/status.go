package normalizer

import (
	"fmt"
	"time"
)

// FailureReason classifies why a load produced the empty sentinel.
type FailureReason string

const (
	ReasonNone           FailureReason = ""
	ReasonUnreachable    FailureReason = "unreachable"
	ReasonParse          FailureReason = "parse_error"
	ReasonMissingColumns FailureReason = "missing_columns"
)

// String returns the string representation of the reason.
func (r FailureReason) String() string {
	if r == ReasonNone {
		return "none"
	}
	return string(r)
}

// Status is the outcome of a load, reported alongside the dataset.
type Status struct {
	LoadID   string        `json:"load_id"`
	Source   string        `json:"source"`
	OK       bool          `json:"ok"`
	Reason   FailureReason `json:"reason,omitempty"`
	Message  string        `json:"message"`
	Rows     int           `json:"rows"`
	Dropped  int           `json:"dropped"`
	Duration time.Duration `json:"duration_ns"`

	// Err is the underlying failure, if any.
	Err error `json:"-"`
}

// StatusFunc receives load outcomes.
type StatusFunc func(Status)

func successStatus(rows, dropped int) Status {
	return Status{
		OK:      true,
		Message: fmt.Sprintf("Successfully loaded and pre-processed %d rows.", rows),
		Rows:    rows,
		Dropped: dropped,
	}
}

func failureStatus(reason FailureReason, err error) Status {
	return Status{
		Reason:  reason,
		Message: fmt.Sprintf("Error loading or processing data: %v", err),
		Err:     err,
	}
}
