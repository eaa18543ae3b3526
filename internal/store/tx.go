package store

import (
	"fmt"
	"time"

	"github.com/balkashynov/grind/internal/models"
)

// Tx is a private working copy handed to Store.Apply
type Tx struct {
	tasks      []models.Task
	goals      []models.Goal
	tasksDirty bool
	goalsDirty bool
	newID      func() string
	now        func() time.Time
}

// NewID returns a fresh unique identifier
func (tx *Tx) NewID() string { return tx.newID() }

// Now returns the store clock's current time
func (tx *Tx) Now() time.Time { return tx.now() }

// Task looks up a task in the working copy
func (tx *Tx) Task(id string) (models.Task, bool) {
	for _, t := range tx.tasks {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return models.Task{}, false
}

// Goal looks up a goal in the working copy
func (tx *Tx) Goal(id string) (models.Goal, bool) {
	for _, g := range tx.goals {
		if g.ID == id {
			return g, true
		}
	}
	return models.Goal{}, false
}

// AddTask appends a validated task with an unused id
func (tx *Tx) AddTask(t models.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, exists := tx.Task(t.ID); exists {
		return fmt.Errorf("task %s: %w", t.ID, ErrDuplicateID)
	}
	tx.tasks = append(tx.tasks, t.Clone())
	tx.tasksDirty = true
	return nil
}

// PutTask replaces an existing task with the same id
func (tx *Tx) PutTask(t models.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	for i := range tx.tasks {
		if tx.tasks[i].ID == t.ID {
			tx.tasks[i] = t.Clone()
			tx.tasksDirty = true
			return nil
		}
	}
	return fmt.Errorf("task %s: %w", t.ID, ErrNotFound)
}

// RemoveTasks drops every task matching pred and reports how many went
func (tx *Tx) RemoveTasks(pred func(models.Task) bool) int {
	kept := tx.tasks[:0:0]
	removed := 0
	for _, t := range tx.tasks {
		if pred(t) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	if removed > 0 {
		tx.tasks = kept
		tx.tasksDirty = true
	}
	return removed
}

// AddGoal appends a validated goal with an unused id
func (tx *Tx) AddGoal(g models.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if _, exists := tx.Goal(g.ID); exists {
		return fmt.Errorf("goal %s: %w", g.ID, ErrDuplicateID)
	}
	tx.goals = append(tx.goals, g)
	tx.goalsDirty = true
	return nil
}

// PutGoal replaces an existing goal with the same id
func (tx *Tx) PutGoal(g models.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	for i := range tx.goals {
		if tx.goals[i].ID == g.ID {
			tx.goals[i] = g
			tx.goalsDirty = true
			return nil
		}
	}
	return fmt.Errorf("goal %s: %w", g.ID, ErrNotFound)
}

// RemoveGoal drops the goal with the given id, reporting whether it existed
func (tx *Tx) RemoveGoal(id string) bool {
	for i := range tx.goals {
		if tx.goals[i].ID == id {
			tx.goals = append(tx.goals[:i:i], tx.goals[i+1:]...)
			tx.goalsDirty = true
			return true
		}
	}
	return false
}
