package link

import (
	"strconv"
	"strings"
	"time"
)

// IsExpired evaluates the expiry predicate for a link against an explicit
// view counter. The serve path calls it twice: with the pre-increment
// counter to reject an already-exhausted link, and with the post-increment
// counter to decide whether the current access was the exhausting one.
func IsExpired(l *Link, views int, now time.Time) bool {
	if l.ExpiresAt != nil && now.After(*l.ExpiresAt) {
		return true
	}

	if l.MaxViews != nil && views >= *l.MaxViews {
		return true
	}

	return false
}

// ParseExpiry converts a magnitude plus unit into an absolute deadline.
// A non-numeric or non-positive magnitude means "no expiry" rather than an
// error; an unknown unit falls back to minutes.
func ParseExpiry(value, unit string, now time.Time) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	v, err := strconv.Atoi(value)
	if err != nil || v <= 0 {
		return nil
	}

	var d time.Duration

	switch unit {
	case "hours":
		d = time.Duration(v) * time.Hour
	case "days":
		d = time.Duration(v) * 24 * time.Hour
	default: // "minutes" and anything unrecognized
		d = time.Duration(v) * time.Minute
	}

	deadline := now.Add(d)

	return &deadline
}

// ParseMaxViews converts the max-views field into a view budget. Empty and
// non-positive values mean unlimited; non-numeric input is a caller error.
func ParseMaxViews(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	v, err := strconv.Atoi(value)
	if err != nil {
		return nil, ErrInvalidMaxViews
	}

	if v <= 0 {
		return nil, nil
	}

	return &v, nil
}
