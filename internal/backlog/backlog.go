// Package backlog moves work in and out of the task bank.
package backlog

import (
	"fmt"

	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/store"
)

// DefaultPlannedMinutes is used when a promoted subtask has no allocation
const DefaultPlannedMinutes = 30

// ToggleBacklog flips a task's backlog flag
func ToggleBacklog(s *store.Store, taskID string) (models.Task, error) {
	var updated models.Task
	err := s.Apply(func(tx *store.Tx) error {
		task, ok := tx.Task(taskID)
		if !ok {
			return fmt.Errorf("task %s: %w", taskID, store.ErrNotFound)
		}
		task.IsBacklog = !task.IsBacklog
		updated = task
		return tx.PutTask(task)
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("toggle backlog: %w", err)
	}
	return updated, nil
}

// PromoteSubtasks files each subtask as a standalone backlog task.
// The source task is left untouched; see MoveSubtasks for move semantics.
func PromoteSubtasks(s *store.Store, subtasks []models.Subtask, goalID string) ([]models.Task, error) {
	if len(subtasks) == 0 {
		return nil, nil
	}
	var created []models.Task
	err := s.Apply(func(tx *store.Tx) error {
		var err error
		created, err = promote(tx, subtasks, goalID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("promote subtasks: %w", err)
	}
	return created, nil
}

// MoveSubtasks promotes the named subtasks of a task to the backlog and removes
// them from the task, in one transaction. An empty id list moves all of them.
// The new tasks inherit the parent's goal link.
func MoveSubtasks(s *store.Store, taskID string, subtaskIDs []string) ([]models.Task, error) {
	var created []models.Task
	err := s.Apply(func(tx *store.Tx) error {
		task, ok := tx.Task(taskID)
		if !ok {
			return fmt.Errorf("task %s: %w", taskID, store.ErrNotFound)
		}

		picked, kept, err := pick(task, subtaskIDs)
		if err != nil {
			return err
		}
		if len(picked) == 0 {
			return nil
		}
		// Fill in the inherited category before the parent link is lost
		for i := range picked {
			picked[i].Category = task.SubtaskCategory(picked[i])
		}

		created, err = promote(tx, picked, task.LinkedGoalID)
		if err != nil {
			return err
		}
		task.Subtasks = kept
		return tx.PutTask(task)
	})
	if err != nil {
		return nil, fmt.Errorf("move subtasks: %w", err)
	}
	return created, nil
}

func pick(task models.Task, ids []string) (picked, kept []models.Subtask, err error) {
	if len(ids) == 0 {
		return models.CloneSubtasks(task.Subtasks), []models.Subtask{}, nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	kept = []models.Subtask{}
	for _, sub := range task.Subtasks {
		if want[sub.ID] {
			picked = append(picked, sub)
			delete(want, sub.ID)
			continue
		}
		kept = append(kept, sub)
	}
	for id := range want {
		return nil, nil, fmt.Errorf("subtask %s: %w", id, store.ErrNotFound)
	}
	return picked, kept, nil
}

func promote(tx *store.Tx, subtasks []models.Subtask, goalID string) ([]models.Task, error) {
	created := make([]models.Task, 0, len(subtasks))
	for _, sub := range subtasks {
		category := sub.Category
		if category == "" {
			category = models.CategoryOther
		}
		planned := sub.AllocatedMinutes
		if planned <= 0 {
			planned = DefaultPlannedMinutes
		}
		task := models.Task{
			ID:                     tx.NewID(),
			Title:                  sub.Title,
			Category:               category,
			PlannedDurationMinutes: planned,
			ActualDurationMinutes:  0,
			Status:                 models.StatusTodo,
			LinkedGoalID:           goalID,
			CreatedAt:              tx.Now(),
			Tags:                   []string{},
			Subtasks:               []models.Subtask{},
			IsBacklog:              true,
		}
		if err := tx.AddTask(task); err != nil {
			return nil, err
		}
		created = append(created, task)
	}
	return created, nil
}
