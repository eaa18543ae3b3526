package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/balkashynov/grind/internal/models"
)

// CreateGoalRequest holds the data needed to create a new goal
type CreateGoalRequest struct {
	Title              string
	Type               models.GoalType
	Deadline           time.Time
	TargetHours        float64
	Description        string
	DailyTarget        float64
	PreferredTimeOfDay models.TimeOfDay
}

// CreateGoal creates a goal starting at zero logged hours
func (s *Store) CreateGoal(req CreateGoalRequest) (models.Goal, error) {
	var created models.Goal
	err := s.Apply(func(tx *Tx) error {
		goalType := req.Type
		if goalType == "" {
			goalType = models.GoalLongTermForecast
		}
		goal := models.Goal{
			ID:                 tx.NewID(),
			Title:              strings.TrimSpace(req.Title),
			Type:               goalType,
			Deadline:           req.Deadline,
			TargetHours:        req.TargetHours,
			Description:        req.Description,
			DailyTarget:        req.DailyTarget,
			PreferredTimeOfDay: req.PreferredTimeOfDay,
		}
		if err := tx.AddGoal(goal); err != nil {
			return err
		}
		created = goal
		return nil
	})
	if err != nil {
		return models.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	return created, nil
}

// UpdateGoal applies a whitelisted partial update
func (s *Store) UpdateGoal(id string, update models.GoalUpdate) (models.Goal, error) {
	var updated models.Goal
	err := s.Apply(func(tx *Tx) error {
		goal, ok := tx.Goal(id)
		if !ok {
			return fmt.Errorf("goal %s: %w", id, ErrNotFound)
		}
		updated = update.Apply(goal)
		return tx.PutGoal(updated)
	})
	if err != nil {
		return models.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	return updated, nil
}

// DeleteGoal removes a goal. Linked tasks keep their now-dangling reference.
func (s *Store) DeleteGoal(id string) error {
	return s.Apply(func(tx *Tx) error {
		if !tx.RemoveGoal(id) {
			return fmt.Errorf("delete goal: goal %s: %w", id, ErrNotFound)
		}
		return nil
	})
}
