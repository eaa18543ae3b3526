package models

import (
	"strings"
	"time"
)

// Category classifies the kind of work a task represents
type Category string

const (
	CategoryResearch Category = "research"
	CategoryCreation Category = "creation"
	CategoryLearning Category = "learning"
	CategoryActivity Category = "activity"
	CategoryLeisure  Category = "leisure"
	CategoryOther    Category = "other"
)

// Categories lists every known category in display order
var Categories = []Category{
	CategoryResearch,
	CategoryCreation,
	CategoryLearning,
	CategoryActivity,
	CategoryLeisure,
	CategoryOther,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory normalizes user input into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", &ValidationError{Field: "category", Reason: "must be one of research, creation, learning, activity, leisure, other"}
	}
	return c, nil
}

// Status is the lifecycle state of a task
type Status string

const (
	StatusTodo      Status = "todo"
	StatusCompleted Status = "completed"
)

// Task represents a unit of work, optionally linked to a goal
type Task struct {
	ID                     string    `json:"id"`
	Title                  string    `json:"title"`
	Category               Category  `json:"category"`
	PlannedDurationMinutes int       `json:"plannedDurationMinutes"`
	ActualDurationMinutes  int       `json:"actualDurationMinutes"`
	Status                 Status    `json:"status"`
	LinkedGoalID           string    `json:"linkedGoalId,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
	Description            string    `json:"description,omitempty"`
	Tags                   []string  `json:"tags"`
	Subtasks               []Subtask `json:"subtasks"`
	IsBacklog              bool      `json:"isBacklog"`
}

// Subtask is a checklist item owned by a task
type Subtask struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	IsCompleted      bool     `json:"isCompleted"`
	Category         Category `json:"category,omitempty"`
	AllocatedMinutes int      `json:"allocatedMinutes,omitempty"`
}

// Done reports whether the task is completed
func (t Task) Done() bool {
	return t.Status == StatusCompleted
}

// Clone returns a deep copy so callers never share slices with the store
func (t Task) Clone() Task {
	c := t
	if t.Tags != nil {
		c.Tags = make([]string, len(t.Tags))
		copy(c.Tags, t.Tags)
	}
	if t.Subtasks != nil {
		c.Subtasks = CloneSubtasks(t.Subtasks)
	}
	return c
}

// CloneSubtasks copies a subtask list
func CloneSubtasks(subtasks []Subtask) []Subtask {
	if subtasks == nil {
		return nil
	}
	out := make([]Subtask, len(subtasks))
	copy(out, subtasks)
	return out
}

// SubtaskCategory returns the subtask's category, falling back to the parent's
func (t Task) SubtaskCategory(s Subtask) Category {
	if s.Category != "" {
		return s.Category
	}
	return t.Category
}

// CompletedSubtasks counts checked-off subtasks
func (t Task) CompletedSubtasks() int {
	n := 0
	for _, s := range t.Subtasks {
		if s.IsCompleted {
			n++
		}
	}
	return n
}

// Validate checks the invariants every stored task must hold
func (t Task) Validate() error {
	if t.ID == "" {
		return &ValidationError{Field: "id", Reason: "is required"}
	}
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	if !t.Category.Valid() {
		return &ValidationError{Field: "category", Reason: "is not a known category"}
	}
	if t.PlannedDurationMinutes <= 0 {
		return &ValidationError{Field: "plannedDurationMinutes", Reason: "must be positive"}
	}
	if t.ActualDurationMinutes < 0 {
		return &ValidationError{Field: "actualDurationMinutes", Reason: "must not be negative"}
	}
	if t.Status != StatusTodo && t.Status != StatusCompleted {
		return &ValidationError{Field: "status", Reason: "must be todo or completed"}
	}
	seen := make(map[string]bool, len(t.Subtasks))
	for _, s := range t.Subtasks {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.ID] {
			return &ValidationError{Field: "subtasks.id", Reason: "duplicate subtask id " + s.ID}
		}
		seen[s.ID] = true
	}
	return nil
}

// Validate checks a single subtask
func (s Subtask) Validate() error {
	if s.ID == "" {
		return &ValidationError{Field: "subtasks.id", Reason: "is required"}
	}
	if strings.TrimSpace(s.Title) == "" {
		return &ValidationError{Field: "subtasks.title", Reason: "is required"}
	}
	if s.Category != "" && !s.Category.Valid() {
		return &ValidationError{Field: "subtasks.category", Reason: "is not a known category"}
	}
	if s.AllocatedMinutes < 0 {
		return &ValidationError{Field: "subtasks.allocatedMinutes", Reason: "must be positive"}
	}
	return nil
}

// TaskUpdate lists the fields a generic edit may change.
// Nil fields are left untouched.
type TaskUpdate struct {
	Title                  *string
	Category               *Category
	PlannedDurationMinutes *int
	LinkedGoalID           *string
	Description            *string
	Tags                   *[]string
	Subtasks               *[]Subtask
}

// Empty reports whether the update carries no changes
func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Category == nil && u.PlannedDurationMinutes == nil &&
		u.LinkedGoalID == nil && u.Description == nil && u.Tags == nil && u.Subtasks == nil
}

// Apply returns a copy of t with the update applied
func (u TaskUpdate) Apply(t Task) Task {
	t = t.Clone()
	if u.Title != nil {
		t.Title = strings.TrimSpace(*u.Title)
	}
	if u.Category != nil {
		t.Category = *u.Category
	}
	if u.PlannedDurationMinutes != nil {
		t.PlannedDurationMinutes = *u.PlannedDurationMinutes
	}
	if u.LinkedGoalID != nil {
		t.LinkedGoalID = *u.LinkedGoalID
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Tags != nil {
		t.Tags = append([]string{}, (*u.Tags)...)
	}
	if u.Subtasks != nil {
		t.Subtasks = CloneSubtasks(*u.Subtasks)
	}
	return t
}
