package models

// SessionResult is what a finished focus session hands to the aggregation step
type SessionResult struct {
	DurationMinutes int       `json:"durationMinutes"`
	TaskDone        bool      `json:"taskDone"`
	Subtasks        []Subtask `json:"subtasks"`
}
