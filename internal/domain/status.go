package domain

import "strings"

type TaskStatus string

const (
	StatusNotStarted TaskStatus = "Not Started"
	StatusInProgress TaskStatus = "In Progress"
	StatusComplete   TaskStatus = "Complete"
)

var taskStatuses = []TaskStatus{StatusNotStarted, StatusInProgress, StatusComplete}

func TaskStatuses() []TaskStatus {
	out := make([]TaskStatus, len(taskStatuses))
	copy(out, taskStatuses)
	return out
}

// ParseTaskStatus accepts exactly one of the status labels after trimming
// surrounding whitespace. Matching is case-sensitive.
func ParseTaskStatus(label string) (TaskStatus, bool) {
	label = strings.TrimSpace(label)
	for _, s := range taskStatuses {
		if string(s) == label {
			return s, true
		}
	}
	return "", false
}
