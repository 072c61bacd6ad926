package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/fisiomanager/backend/internal/repo"
	"github.com/google/uuid"
)

// SeriesRequest is the occurrence template: everything but the date, which
// ExpandWeekly supplies per occurrence.
type SeriesRequest struct {
	UserID      uuid.UUID
	PatientID   uuid.UUID
	PatientName string
	StartTime   string // "HH:MM"
	Type        string
	Notes       string
}

// Inserter is the store primitive the series fan-out writes through.
type Inserter interface {
	InsertAppointment(ctx context.Context, req SeriesRequest, date time.Time, isRecurring bool) (*repo.Appointment, error)
}

// OccurrenceResult is the outcome of one occurrence's insert. Exactly one of
// Appointment and Err is set.
type OccurrenceResult struct {
	Date        time.Time
	Appointment *repo.Appointment
	Err         error
}

type SeriesOutcome int

const (
	// SeriesCreated: every occurrence persisted.
	SeriesCreated SeriesOutcome = iota
	// SeriesPartial: some occurrences persisted, some failed. The persisted
	// ones stay; there is no rollback across the series.
	SeriesPartial
	// SeriesFailed: no occurrence persisted.
	SeriesFailed
)

// CreateRecurringSeries expands the anchor into weeks weekly occurrences and
// inserts them concurrently. Occurrences carry no interdependency, so there is
// no ordering between sibling inserts; results come back in occurrence order
// regardless. A failed occurrence is reported in its slot and neither stops
// nor undoes the others.
func CreateRecurringSeries(ctx context.Context, ins Inserter, req SeriesRequest, anchor time.Time, weeks int) ([]OccurrenceResult, error) {
	dates, err := ExpandWeekly(anchor, weeks)
	if err != nil {
		return nil, err
	}
	results := make([]OccurrenceResult, len(dates))
	var wg sync.WaitGroup
	for i, d := range dates {
		wg.Add(1)
		go func(i int, d time.Time) {
			defer wg.Done()
			a, err := ins.InsertAppointment(ctx, req, d, true)
			results[i] = OccurrenceResult{Date: d, Appointment: a, Err: err}
		}(i, d)
	}
	wg.Wait()
	return results, nil
}

// Outcome classifies a series result so callers can tell "fully booked",
// "partially booked, see per-item errors" and "fully failed" apart.
func Outcome(results []OccurrenceResult) SeriesOutcome {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	switch failed {
	case 0:
		return SeriesCreated
	case len(results):
		return SeriesFailed
	default:
		return SeriesPartial
	}
}
