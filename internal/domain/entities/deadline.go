package entities

import (
	"strings"
	"time"
)

// DateLayout is the wire and storage format for deadlines
const DateLayout = "2006-01-02"

var deadlineLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// ParseDeadline parses a deadline into a UTC date. Blank values and placeholders
// such as "No deadline" yield nil without error.
func ParseDeadline(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "no deadline", "none", "null", "n/a", "tbd":
		return nil, nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d, nil
		}
	}
	return nil, ErrInvalidDeadline
}

// FormatDeadline renders a deadline, empty when unset
func FormatDeadline(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(DateLayout)
}
