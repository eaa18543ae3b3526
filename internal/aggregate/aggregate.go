// Package aggregate commits finished focus sessions into the store.
package aggregate

import (
	"fmt"

	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/store"
)

// Outcome describes what a commit changed
type Outcome struct {
	Task models.Task
	// Goal is nil when the task is unlinked or its goal no longer exists
	Goal *models.Goal
}

// ApplyResult folds a session result into a task
func ApplyResult(task models.Task, r models.SessionResult) models.Task {
	task = task.Clone()
	if r.TaskDone {
		task.Status = models.StatusCompleted
	} else {
		task.Status = models.StatusTodo
	}
	task.ActualDurationMinutes += r.DurationMinutes
	task.Subtasks = models.CloneSubtasks(r.Subtasks)
	if task.Subtasks == nil {
		task.Subtasks = []models.Subtask{}
	}
	return task
}

// LogTime adds session minutes to a goal, rounding to two decimals
func LogTime(goal models.Goal, minutes int) models.Goal {
	goal.LoggedHours = models.Round2(goal.LoggedHours + float64(minutes)/60)
	return goal
}

// Commit applies r to the task and its linked goal in one store transaction
func Commit(s *store.Store, taskID string, r models.SessionResult) (Outcome, error) {
	if r.DurationMinutes < 0 {
		return Outcome{}, fmt.Errorf("commit session: negative duration %d", r.DurationMinutes)
	}

	var out Outcome
	err := s.Apply(func(tx *store.Tx) error {
		task, ok := tx.Task(taskID)
		if !ok {
			return fmt.Errorf("task %s: %w", taskID, store.ErrNotFound)
		}

		updated := ApplyResult(task, r)
		if err := tx.PutTask(updated); err != nil {
			return err
		}
		out.Task = updated

		if task.LinkedGoalID == "" {
			return nil
		}
		goal, ok := tx.Goal(task.LinkedGoalID)
		if !ok {
			return nil
		}
		goal = LogTime(goal, r.DurationMinutes)
		if err := tx.PutGoal(goal); err != nil {
			return err
		}
		out.Goal = &goal
		return nil
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("commit session: %w", err)
	}
	return out, nil
}
