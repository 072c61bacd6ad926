package api

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrInvalidTime = errors.New("invalid time")
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// parseDate accepts only zero-padded YYYY-MM-DD wall-clock dates. No
// time-zone component: the value is a calendar date, stored as DATE.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// parseHHMM validates a wall-clock time of day and returns it zero-padded,
// so lexicographic ordering matches chronological ordering.
func parseHHMM(s string) (string, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return "", ErrInvalidTime
	}
	return t.Format("15:04"), nil
}

func validEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}
