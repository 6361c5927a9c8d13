package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTaskStatus(t *testing.T) {
	cases := []struct {
		in   string
		want TaskStatus
		ok   bool
	}{
		{"Not Started", StatusNotStarted, true},
		{"  In Progress ", StatusInProgress, true},
		{"Complete", StatusComplete, true},
		{"complete", "", false},
		{"Done", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseTaskStatus(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestAddDays(t *testing.T) {
	start := time.Date(2025, 1, 6, 15, 30, 0, 0, time.FixedZone("x", 3600))
	assert.Equal(t, "2025-01-12", AddDays(start, 6).Format("2006-01-02"))
	assert.Equal(t, "2025-01-06", AddDays(start, 0).Format("2006-01-02"))
}

func TestTask_Label(t *testing.T) {
	assert.Equal(t, "Goal", Task{Goal: "Goal", Title: "Title"}.Label())
	assert.Equal(t, "Title", Task{Title: "Title"}.Label())
}
