// Package schedule is the appointment scheduling core: weekly recurrence
// expansion, range-query ordering and grouping, and month-grid math. It never
// talks to HTTP; storage is injected (see series.go).
package schedule

import (
	"errors"
	"sort"
	"time"

	"github.com/fisiomanager/backend/internal/repo"
)

// DateLayout is the wire format for calendar dates. Zero-padded so string
// comparison orders the same way the calendar does.
const DateLayout = "2006-01-02"

var (
	ErrInvalidWeekCount = errors.New("week count must be at least 1")
	ErrInvalidRange     = errors.New("range start must not be after end")
)

// ExpandWeekly returns the occurrence dates of a weekly series: anchor,
// anchor+7d, anchor+14d, ... for weeks occurrences. AddDate does the calendar
// arithmetic, so month and year boundaries roll over correctly.
func ExpandWeekly(anchor time.Time, weeks int) ([]time.Time, error) {
	if weeks < 1 {
		return nil, ErrInvalidWeekCount
	}
	out := make([]time.Time, weeks)
	for i := 0; i < weeks; i++ {
		out[i] = anchor.AddDate(0, 0, 7*i)
	}
	return out, nil
}

// ValidateRange rejects inverted ranges before they reach the store.
func ValidateRange(from, to time.Time) error {
	if to.Before(from) {
		return ErrInvalidRange
	}
	return nil
}

// Sort orders appointments by date ascending, then start time ascending.
// Range queries come back from the store already ordered; this exists for
// in-memory lists (series results, test fixtures).
func Sort(list []repo.Appointment) {
	sort.SliceStable(list, func(i, j int) bool {
		di, dj := list[i].Date.Format(DateLayout), list[j].Date.Format(DateLayout)
		if di != dj {
			return di < dj
		}
		return list[i].StartTime < list[j].StartTime
	})
}

// GroupByDate partitions an ordered appointment list by calendar date for the
// month-grid view. Returns the dates in first-seen order plus the groups; the
// input order inside each group is preserved, and every input row lands in
// exactly one group.
func GroupByDate(list []repo.Appointment) ([]string, map[string][]repo.Appointment) {
	groups := make(map[string][]repo.Appointment, len(list))
	var dates []string
	for _, a := range list {
		key := a.Date.Format(DateLayout)
		if _, ok := groups[key]; !ok {
			dates = append(dates, key)
		}
		groups[key] = append(groups[key], a)
	}
	return dates, groups
}
