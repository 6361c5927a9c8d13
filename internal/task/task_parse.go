package task

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"go-onboarding/internal/domain"
	taskerrors "go-onboarding/internal/task/errors"

	"github.com/araddon/dateparse"
)

var relativeDueDate = regexp.MustCompile(`^([+-])\s*(\d{1,3})$`)

var allDigits = regexp.MustCompile(`^\d+$`)

var slashLayouts = []string{"01/02/2006", "1/2/2006", "01/02/06", "1/2/06"}

// ParseStatus accepts exactly one of the status labels after trimming.
func ParseStatus(label string) (domain.TaskStatus, error) {
	status, ok := domain.ParseTaskStatus(label)
	if !ok {
		return "", taskerrors.ErrInvalidStatus.WithDetails(map[string]any{
			"allowed": domain.TaskStatuses(),
		})
	}
	return status, nil
}

// ParseDueDate turns user input into a calendar date relative to today.
// Empty input clears the date (nil, nil). Accepted forms: YYYY-MM-DD,
// today/tomorrow/yesterday, +N/-N days, MM/DD/YY(YY), and anything else
// dateparse can read (it is month-first for ambiguous forms). A lenient
// date without a year falls in today's year; bare digit strings are rejected.
func ParseDueDate(text string, today time.Time) (*time.Time, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, nil
	}

	base := domain.DateOnly(today)
	result := func(d time.Time) (*time.Time, error) {
		d = domain.DateOnly(d)
		return &d, nil
	}

	switch strings.ToLower(s) {
	case "today":
		return result(base)
	case "tomorrow":
		return result(base.AddDate(0, 0, 1))
	case "yesterday":
		return result(base.AddDate(0, 0, -1))
	}

	if m := relativeDueDate.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[2])
		if m[1] == "-" {
			n = -n
		}
		return result(base.AddDate(0, 0, n))
	}

	if d, err := time.Parse("2006-01-02", s); err == nil {
		return result(d)
	}

	for _, layout := range slashLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return result(d)
		}
	}

	invalid := taskerrors.ErrInvalidDueDate.WithDetails(map[string]any{"input": s})
	if allDigits.MatchString(s) {
		return nil, invalid
	}
	d, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil, invalid
	}
	if d.Year() == 0 {
		d = time.Date(base.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}
	return result(d)
}

// RollForwardWeekend moves a Saturday or Sunday to the following Monday.
// adjusted reports whether d moved.
func RollForwardWeekend(d time.Time) (time.Time, bool) {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, 2), true
	case time.Sunday:
		return d.AddDate(0, 0, 1), true
	default:
		return d, false
	}
}
