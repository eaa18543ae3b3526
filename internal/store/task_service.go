package store

import (
	"fmt"
	"strings"

	"github.com/balkashynov/grind/internal/models"
)

// CreateTaskRequest holds the data needed to create a new task
type CreateTaskRequest struct {
	Title                  string
	Category               models.Category
	PlannedDurationMinutes int
	LinkedGoalID           string
	Description            string
	Tags                   []string
	Subtasks               []models.Subtask
	IsBacklog              bool
}

// CreateTask creates a new todo task with zero logged time
func (s *Store) CreateTask(req CreateTaskRequest) (models.Task, error) {
	var created models.Task
	err := s.Apply(func(tx *Tx) error {
		category := req.Category
		if category == "" {
			category = models.CategoryOther
		}

		task := models.Task{
			ID:                     tx.NewID(),
			Title:                  strings.TrimSpace(req.Title),
			Category:               category,
			PlannedDurationMinutes: req.PlannedDurationMinutes,
			Status:                 models.StatusTodo,
			LinkedGoalID:           req.LinkedGoalID,
			CreatedAt:              tx.Now(),
			Description:            req.Description,
			Tags:                   normalizeTags(req.Tags),
			Subtasks:               []models.Subtask{},
			IsBacklog:              req.IsBacklog,
		}
		for _, sub := range req.Subtasks {
			if sub.ID == "" {
				sub.ID = tx.NewID()
			}
			task.Subtasks = append(task.Subtasks, sub)
		}

		if err := tx.AddTask(task); err != nil {
			return err
		}
		created = task
		return nil
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return created, nil
}

// UpdateTask applies a whitelisted partial update
func (s *Store) UpdateTask(id string, update models.TaskUpdate) (models.Task, error) {
	var updated models.Task
	err := s.Apply(func(tx *Tx) error {
		task, ok := tx.Task(id)
		if !ok {
			return fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		if update.Tags != nil {
			tags := normalizeTags(*update.Tags)
			update.Tags = &tags
		}
		updated = update.Apply(task)
		return tx.PutTask(updated)
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	return updated, nil
}

// DeleteTask removes a task together with its subtasks
func (s *Store) DeleteTask(id string) error {
	return s.Apply(func(tx *Tx) error {
		if tx.RemoveTasks(func(t models.Task) bool { return t.ID == id }) == 0 {
			return fmt.Errorf("delete task: task %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// AddSubtask appends a checklist item to a task
func (s *Store) AddSubtask(taskID string, sub models.Subtask) (models.Subtask, error) {
	err := s.Apply(func(tx *Tx) error {
		task, ok := tx.Task(taskID)
		if !ok {
			return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
		}
		if sub.ID == "" {
			sub.ID = tx.NewID()
		}
		sub.Title = strings.TrimSpace(sub.Title)
		task.Subtasks = append(task.Subtasks, sub)
		return tx.PutTask(task)
	})
	if err != nil {
		return models.Subtask{}, fmt.Errorf("add subtask: %w", err)
	}
	return sub, nil
}

// RemoveSubtasks drops the given subtask ids from a task
func (s *Store) RemoveSubtasks(taskID string, subtaskIDs ...string) (models.Task, error) {
	var updated models.Task
	err := s.Apply(func(tx *Tx) error {
		task, ok := tx.Task(taskID)
		if !ok {
			return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
		}
		drop := make(map[string]bool, len(subtaskIDs))
		for _, id := range subtaskIDs {
			drop[id] = true
		}
		kept := make([]models.Subtask, 0, len(task.Subtasks))
		for _, sub := range task.Subtasks {
			if !drop[sub.ID] {
				kept = append(kept, sub)
			}
		}
		task.Subtasks = kept
		updated = task
		return tx.PutTask(task)
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("remove subtasks: %w", err)
	}
	return updated, nil
}

// normalizeTags trims tags and drops empties and duplicates, keeping order
func normalizeTags(tags []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, tag := range tags {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
