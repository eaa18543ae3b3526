package models

import (
	"math"
	"strings"
	"time"
)

// GoalType distinguishes recurring monthly budgets from long-term targets
type GoalType string

const (
	GoalRecurringMonthly GoalType = "recurring-monthly"
	GoalLongTermForecast GoalType = "long-term-forecast"
)

// Valid reports whether t is a known goal type
func (t GoalType) Valid() bool {
	return t == GoalRecurringMonthly || t == GoalLongTermForecast
}

// TimeOfDay is the preferred slot for working on a goal
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeAny       TimeOfDay = "any"
)

// Valid reports whether t is a known time of day (empty means unset)
func (t TimeOfDay) Valid() bool {
	switch t {
	case "", TimeMorning, TimeAfternoon, TimeEvening, TimeAny:
		return true
	}
	return false
}

// Goal represents a tracked objective ("project") with a time budget
type Goal struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Type               GoalType  `json:"type"`
	Deadline           time.Time `json:"deadline"`
	TargetHours        float64   `json:"targetHours"`
	LoggedHours        float64   `json:"loggedHours"`
	Description        string    `json:"description,omitempty"`
	DailyTarget        float64   `json:"dailyTarget,omitempty"`
	PreferredTimeOfDay TimeOfDay `json:"preferredTimeOfDay,omitempty"`
}

// Validate checks the invariants every stored goal must hold
func (g Goal) Validate() error {
	if g.ID == "" {
		return &ValidationError{Field: "id", Reason: "is required"}
	}
	if strings.TrimSpace(g.Title) == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	if !g.Type.Valid() {
		return &ValidationError{Field: "type", Reason: "must be recurring-monthly or long-term-forecast"}
	}
	if g.TargetHours <= 0 {
		return &ValidationError{Field: "targetHours", Reason: "must be positive"}
	}
	if g.LoggedHours < 0 {
		return &ValidationError{Field: "loggedHours", Reason: "must not be negative"}
	}
	if g.DailyTarget < 0 {
		return &ValidationError{Field: "dailyTarget", Reason: "must be positive"}
	}
	if !g.PreferredTimeOfDay.Valid() {
		return &ValidationError{Field: "preferredTimeOfDay", Reason: "must be morning, afternoon, evening or any"}
	}
	return nil
}

// GoalProgress summarizes how far a goal is from its target
type GoalProgress struct {
	Percent        float64
	RemainingHours float64
	DaysLeft       int
	Overdue        bool
}

// Progress computes progress figures relative to now
func (g Goal) Progress(now time.Time) GoalProgress {
	p := GoalProgress{}
	if g.TargetHours > 0 {
		p.Percent = math.Min(100, g.LoggedHours/g.TargetHours*100)
	}
	p.RemainingHours = math.Max(0, Round2(g.TargetHours-g.LoggedHours))
	if !g.Deadline.IsZero() {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		due := time.Date(g.Deadline.Year(), g.Deadline.Month(), g.Deadline.Day(), 0, 0, 0, 0, now.Location())
		p.DaysLeft = int(due.Sub(today).Hours() / 24)
		p.Overdue = p.DaysLeft < 0
	}
	return p
}

// GoalUpdate lists the fields a generic edit may change.
// LoggedHours is absent on purpose: only session commits and imports move it.
type GoalUpdate struct {
	Title              *string
	Type               *GoalType
	Deadline           *time.Time
	TargetHours        *float64
	Description        *string
	DailyTarget        *float64
	PreferredTimeOfDay *TimeOfDay
}

// Apply returns a copy of g with the update applied
func (u GoalUpdate) Apply(g Goal) Goal {
	if u.Title != nil {
		g.Title = strings.TrimSpace(*u.Title)
	}
	if u.Type != nil {
		g.Type = *u.Type
	}
	if u.Deadline != nil {
		g.Deadline = *u.Deadline
	}
	if u.TargetHours != nil {
		g.TargetHours = *u.TargetHours
	}
	if u.Description != nil {
		g.Description = *u.Description
	}
	if u.DailyTarget != nil {
		g.DailyTarget = *u.DailyTarget
	}
	if u.PreferredTimeOfDay != nil {
		g.PreferredTimeOfDay = *u.PreferredTimeOfDay
	}
	return g
}

// Round2 rounds to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
