// Package normalizer loads the raw student-performance CSV and cleans it
// into an analysis-ready dataset.
package normalizer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spdash/spdash/internal/dataset"
	"github.com/spdash/spdash/internal/logger"
	"github.com/spdash/spdash/internal/source"
)

// Normalizer fetches, parses and cleans a dataset.
type Normalizer struct {
	fetcher   source.Fetcher
	brackets  Brackets
	log       *logger.Logger
	observers []StatusFunc
	now       func() time.Time
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithBrackets sets the bracket orderings and midpoints.
func WithBrackets(b Brackets) Option {
	return func(n *Normalizer) {
		n.brackets = b
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(n *Normalizer) {
		n.log = l
	}
}

// WithStatusFunc registers an observer for load outcomes.
func WithStatusFunc(fn StatusFunc) Option {
	return func(n *Normalizer) {
		n.observers = append(n.observers, fn)
	}
}

// New creates a normalizer reading through fetcher.
func New(fetcher source.Fetcher, opts ...Option) *Normalizer {
	n := &Normalizer{
		fetcher:  fetcher,
		brackets: DefaultBrackets(),
		log:      logger.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Load retrieves and cleans the dataset at location. It never fails: on
// any error it returns the empty sentinel and a Status describing why.
func (n *Normalizer) Load(ctx context.Context, location string) (*dataset.Dataset, Status) {
	start := n.now()
	loadID := uuid.NewString()
	log := n.log.With("load_id", loadID, "source", location)
	log.Debug("loading dataset")

	ds, status := n.load(ctx, location)
	status.LoadID = loadID
	status.Source = location
	status.Duration = n.now().Sub(start)

	if status.OK {
		log.Info("dataset loaded", "rows", status.Rows, "dropped", status.Dropped, "duration", status.Duration)
	} else {
		log.Error("dataset load failed", "reason", status.Reason.String(), "error", status.Err)
	}
	for _, fn := range n.observers {
		fn(status)
	}
	return ds, status
}

func (n *Normalizer) load(ctx context.Context, location string) (*dataset.Dataset, Status) {
	rc, err := n.fetcher.Open(ctx, location)
	if err != nil {
		return dataset.NewFailed(location), failureStatus(ReasonUnreachable, err)
	}
	defer rc.Close()

	table, err := dataset.ReadTable(rc)
	if err != nil {
		if isParseError(err) {
			return dataset.NewFailed(location), failureStatus(ReasonParse, fmt.Errorf("failed to parse CSV: %w", err))
		}
		// The body stopped mid-stream
		return dataset.NewFailed(location), failureStatus(ReasonUnreachable, err)
	}

	ds, dropped, err := Normalize(location, table, n.brackets)
	if err != nil {
		reason := ReasonParse
		if errors.Is(err, ErrMissingColumns) {
			reason = ReasonMissingColumns
		}
		return dataset.NewFailed(location), failureStatus(reason, err)
	}

	return ds, successStatus(ds.Len(), dropped)
}

func isParseError(err error) bool {
	var pe *csv.ParseError
	return errors.As(err, &pe) || errors.Is(err, dataset.ErrNoHeader) || errors.Is(err, dataset.ErrFieldCount)
}
