package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/store"
)

// ValidationError names the part of an import document that is missing or malformed
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid import document: %s %s", e.Field, e.Reason)
}

// ImportResult summarizes a successful import
type ImportResult struct {
	GoalID    string
	GoalTitle string
	Tasks     int
	// Removed counts stale tasks dropped from the store
	Removed int
}

// Decode parses and validates a document without touching the store
func Decode(data []byte, format Format) (Document, error) {
	if format == FormatYAML {
		converted, err := yamlToJSON(data)
		if err != nil {
			return Document{}, err
		}
		data = converted
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, &ValidationError{Field: "document", Reason: "is not an object"}
	}

	doc := Document{Version: FormatVersion}
	if v, ok := raw["version"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &doc.Version); err != nil {
			return Document{}, &ValidationError{Field: "version", Reason: "must be a number"}
		}
		if doc.Version > FormatVersion {
			return Document{}, &ValidationError{Field: "version", Reason: fmt.Sprintf("%d is newer than supported version %d", doc.Version, FormatVersion)}
		}
	}
	if v, ok := raw["exportedAt"]; ok && !isNull(v) {
		// Informational only
		_ = json.Unmarshal(v, &doc.ExportedAt)
	}

	goalRaw, ok := raw["goal"]
	if !ok || isNull(goalRaw) {
		return Document{}, &ValidationError{Field: "goal", Reason: "is missing"}
	}
	tasksRaw, ok := raw["tasks"]
	if !ok || isNull(tasksRaw) {
		return Document{}, &ValidationError{Field: "tasks", Reason: "is missing"}
	}
	if trimmed := bytes.TrimSpace(tasksRaw); len(trimmed) == 0 || trimmed[0] != '[' {
		return Document{}, &ValidationError{Field: "tasks", Reason: "must be a list"}
	}

	if err := json.Unmarshal(goalRaw, &doc.Goal); err != nil {
		return Document{}, &ValidationError{Field: "goal", Reason: "is malformed: " + err.Error()}
	}
	if err := json.Unmarshal(tasksRaw, &doc.Tasks); err != nil {
		return Document{}, &ValidationError{Field: "tasks", Reason: "is malformed: " + err.Error()}
	}

	if err := validate(&doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func validate(doc *Document) error {
	var ve *models.ValidationError
	if err := doc.Goal.Validate(); err != nil {
		if errors.As(err, &ve) {
			return &ValidationError{Field: "goal." + ve.Field, Reason: ve.Reason}
		}
		return &ValidationError{Field: "goal", Reason: err.Error()}
	}

	seen := make(map[string]bool, len(doc.Tasks))
	for i := range doc.Tasks {
		t := &doc.Tasks[i]
		if t.Tags == nil {
			t.Tags = []string{}
		}
		if t.Subtasks == nil {
			t.Subtasks = []models.Subtask{}
		}
		if err := t.Validate(); err != nil {
			if errors.As(err, &ve) {
				return &ValidationError{Field: fmt.Sprintf("tasks[%d].%s", i, ve.Field), Reason: ve.Reason}
			}
			return &ValidationError{Field: fmt.Sprintf("tasks[%d]", i), Reason: err.Error()}
		}
		if seen[t.ID] {
			return &ValidationError{Field: fmt.Sprintf("tasks[%d].id", i), Reason: "duplicates another task in the document"}
		}
		seen[t.ID] = true
	}
	return nil
}

// Import merges a decoded document into the store by full replacement:
// the goal with the same id is replaced, and every task that belongs to that
// goal or shares an id with an imported task is dropped before the imported
// tasks are appended.
func Import(s *store.Store, doc Document) (ImportResult, error) {
	result := ImportResult{GoalID: doc.Goal.ID, GoalTitle: doc.Goal.Title, Tasks: len(doc.Tasks)}

	incoming := make(map[string]bool, len(doc.Tasks))
	for _, t := range doc.Tasks {
		incoming[t.ID] = true
	}

	err := s.Apply(func(tx *store.Tx) error {
		tx.RemoveGoal(doc.Goal.ID)
		if err := tx.AddGoal(doc.Goal); err != nil {
			return err
		}

		result.Removed = tx.RemoveTasks(func(t models.Task) bool {
			return t.LinkedGoalID == doc.Goal.ID || incoming[t.ID]
		})
		for _, t := range doc.Tasks {
			if err := tx.AddTask(t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("import: %w", err)
	}
	return result, nil
}

// ImportBytes decodes data and imports it. Validation failures leave the store untouched.
func ImportBytes(s *store.Store, data []byte, format Format) (ImportResult, error) {
	doc, err := Decode(data, format)
	if err != nil {
		return ImportResult{}, err
	}
	return Import(s, doc)
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func yamlToJSON(data []byte) ([]byte, error) {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, &ValidationError{Field: "document", Reason: "is not valid YAML: " + err.Error()}
	}
	out, err := json.Marshal(tree)
	if err != nil {
		return nil, &ValidationError{Field: "document", Reason: "cannot be converted: " + err.Error()}
	}
	return out, nil
}
