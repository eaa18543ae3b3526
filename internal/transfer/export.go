// Package transfer moves a goal and its tasks in and out of the store.
package transfer

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/store"
)

// FormatVersion is the current version of the export document.
// Increment when making breaking changes to Document.
const FormatVersion = 1

// Document is the interchange form of one goal and its tasks
type Document struct {
	Version    int           `json:"version"`
	ExportedAt time.Time     `json:"exportedAt"`
	Goal       models.Goal   `json:"goal"`
	Tasks      []models.Task `json:"tasks"`
}

// Format selects the serialization of a Document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat normalizes a format name
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (use json or yaml)", s)
}

// FormatFromPath guesses the format from a file extension, defaulting to JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Export builds the document for goalID from the store
func Export(s *store.Store, goalID string, now time.Time) (Document, error) {
	goal, err := s.Goal(goalID)
	if err != nil {
		return Document{}, fmt.Errorf("export: %w", err)
	}
	tasks := s.TasksForGoal(goal.ID)
	if tasks == nil {
		tasks = []models.Task{}
	}
	return Document{
		Version:    FormatVersion,
		ExportedAt: now.UTC(),
		Goal:       goal,
		Tasks:      tasks,
	}, nil
}

// Marshal serializes a document
func Marshal(doc Document, format Format) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if format != FormatYAML {
		return data, nil
	}

	// Route through a generic tree so YAML keys match the JSON field names
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("encode yaml document: %w", err)
	}
	return out, nil
}

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Filename suggests a file name for exporting goal
func Filename(goal models.Goal, ext string, now time.Time) string {
	slug := strings.Trim(slugRegex.ReplaceAllString(strings.ToLower(goal.Title), "-"), "-")
	if slug == "" {
		slug = "project"
	}
	return fmt.Sprintf("%s-%s.%s", slug, now.Format("2006-01-02"), strings.TrimPrefix(ext, "."))
}
