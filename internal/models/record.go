package models

import "time"

// Record is one durable key/value entry. The whole task and goal
// collections are each kept as a single JSON record.
type Record struct {
	Key       string    `gorm:"primaryKey"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time
}

// Record keys
const (
	RecordTasks = "tasks"
	RecordGoals = "goals"
)
