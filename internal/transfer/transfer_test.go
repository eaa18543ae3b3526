package transfer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/store"
)

var created = time.Date(2026, 4, 2, 18, 15, 0, 0, time.UTC)

func task(id, goalID string) models.Task {
	return models.Task{
		ID:                     id,
		Title:                  "Task " + id,
		Category:               models.CategoryCreation,
		PlannedDurationMinutes: 30,
		ActualDurationMinutes:  15,
		Status:                 models.StatusTodo,
		LinkedGoalID:           goalID,
		CreatedAt:              created,
		Tags:                   []string{"x"},
		Subtasks:               []models.Subtask{{ID: id + "-s", Title: "step", AllocatedMinutes: 10}},
	}
}

func testGoal() models.Goal {
	return models.Goal{
		ID:          "g1",
		Title:       "Ship the book",
		Type:        models.GoalLongTermForecast,
		Deadline:    time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC),
		TargetHours: 100,
		LoggedHours: 12.75,
		DailyTarget: 1.5,
	}
}

func seeded(t *testing.T, goals []models.Goal, tasks ...models.Task) *store.Store {
	t.Helper()
	s := store.New(nil)
	require.NoError(t, s.Apply(func(tx *store.Tx) error {
		for _, g := range goals {
			if err := tx.AddGoal(g); err != nil {
				return err
			}
		}
		for _, tk := range tasks {
			if err := tx.AddTask(tk); err != nil {
				return err
			}
		}
		return nil
	}))
	return s
}

func TestExportSelectsGoalTasks(t *testing.T) {
	s := seeded(t, []models.Goal{testGoal()}, task("t1", "g1"), task("t2", "other"), task("t3", "g1"))
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	doc, err := Export(s, "g1", now)
	require.NoError(t, err)

	assert.Equal(t, FormatVersion, doc.Version)
	assert.Equal(t, now.UTC(), doc.ExportedAt)
	assert.Equal(t, testGoal(), doc.Goal)
	require.Len(t, doc.Tasks, 2)
	assert.Equal(t, "t1", doc.Tasks[0].ID)
	assert.Equal(t, "t3", doc.Tasks[1].ID)

	_, err = Export(s, "nope", now)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestExportWithoutTasksHasEmptyList(t *testing.T) {
	s := seeded(t, []models.Goal{testGoal()})
	doc, err := Export(s, "g1", created)
	require.NoError(t, err)

	data, err := Marshal(doc, FormatJSON)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `[]`, string(raw["tasks"]))
	assert.JSONEq(t, `1`, string(raw["version"]))
	assert.Contains(t, raw, "exportedAt")
	assert.Contains(t, raw, "goal")
}

func TestExportImportIsIdempotent(t *testing.T) {
	s := seeded(t, []models.Goal{testGoal()}, task("t1", "g1"), task("t2", "g1"), task("t3", "other"))
	goalsBefore := s.Goals()
	tasksBefore := s.Tasks()

	for _, format := range []Format{FormatJSON, FormatYAML} {
		doc, err := Export(s, "g1", created)
		require.NoError(t, err)
		data, err := Marshal(doc, format)
		require.NoError(t, err)

		result, err := ImportBytes(s, data, format)
		require.NoError(t, err, "format %s", format)
		assert.Equal(t, 2, result.Tasks)
		assert.Equal(t, 2, result.Removed)

		assert.Equal(t, goalsBefore, s.Goals(), "format %s", format)
		assert.ElementsMatch(t, tasksBefore, s.Tasks(), "format %s", format)
	}
}

func TestImportReplacesGoalAndTasks(t *testing.T) {
	stale := task("t2", "g1")
	s := seeded(t, []models.Goal{testGoal()},
		task("t1", "g1"), stale, task("t3", "other"), task("t9", "other"))

	incoming := testGoal()
	incoming.Title = "Ship the book, second edition"
	incoming.LoggedHours = 30
	replacement := task("t1", "g1")
	replacement.ActualDurationMinutes = 90
	// t9 belonged to another goal but its id collides
	moved := task("t9", "g1")
	fresh := task("t4", "g1")

	result, err := Import(s, Document{
		Version: FormatVersion,
		Goal:    incoming,
		Tasks:   []models.Task{replacement, moved, fresh},
	})
	require.NoError(t, err)
	assert.Equal(t, "g1", result.GoalID)
	assert.Equal(t, 3, result.Tasks)
	assert.Equal(t, 3, result.Removed)

	goals := s.Goals()
	require.Len(t, goals, 1)
	assert.Equal(t, incoming, goals[0])

	ids := []string{}
	for _, tk := range s.Tasks() {
		ids = append(ids, tk.ID)
	}
	assert.Equal(t, []string{"t3", "t1", "t9", "t4"}, ids)

	got, err := s.Task("t1")
	require.NoError(t, err)
	assert.Equal(t, 90, got.ActualDurationMinutes)
	_, err = s.Task(stale.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestImportNewGoalKeepsOthers(t *testing.T) {
	s := seeded(t, nil, task("t3", "other"))

	result, err := Import(s, Document{Version: 1, Goal: testGoal(), Tasks: []models.Task{}})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Removed)
	assert.Len(t, s.Goals(), 1)
	assert.Len(t, s.Tasks(), 1)
}

func TestDecodeRejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"not an object", `[1,2]`, "document"},
		{"missing goal", `{"version":1,"tasks":[]}`, "goal"},
		{"null goal", `{"goal":null,"tasks":[]}`, "goal"},
		{"missing tasks", `{"goal":{"id":"g","title":"G","type":"long-term-forecast","targetHours":1}}`, "tasks"},
		{"tasks not a list", `{"goal":{"id":"g","title":"G","type":"long-term-forecast","targetHours":1},"tasks":{}}`, "tasks"},
		{"future version", `{"version":2,"goal":{},"tasks":[]}`, "version"},
		{"goal without target", `{"goal":{"id":"g","title":"G","type":"long-term-forecast"},"tasks":[]}`, "goal.targetHours"},
		{"goal with bad type", `{"goal":{"id":"g","title":"G","type":"weekly","targetHours":1},"tasks":[]}`, "goal.type"},
		{
			"task with bad category",
			`{"goal":{"id":"g","title":"G","type":"long-term-forecast","targetHours":1},
			  "tasks":[{"id":"a","title":"A","category":"other","plannedDurationMinutes":5,"status":"todo"},
			           {"id":"b","title":"B","category":"chores","plannedDurationMinutes":5,"status":"todo"}]}`,
			"tasks[1].category",
		},
		{
			"duplicate task ids",
			`{"goal":{"id":"g","title":"G","type":"long-term-forecast","targetHours":1},
			  "tasks":[{"id":"a","title":"A","category":"other","plannedDurationMinutes":5,"status":"todo"},
			           {"id":"a","title":"B","category":"other","plannedDurationMinutes":5,"status":"todo"}]}`,
			"tasks[1].id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input), FormatJSON)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestFailedImportLeavesStoreUntouched(t *testing.T) {
	s := seeded(t, []models.Goal{testGoal()}, task("t1", "g1"))
	before := s.Tasks()

	_, err := ImportBytes(s, []byte(`{"goal":{"id":"g1","title":"X","type":"long-term-forecast","targetHours":1},"tasks":null}`), FormatJSON)
	require.Error(t, err)

	assert.Equal(t, before, s.Tasks())
	assert.Equal(t, []models.Goal{testGoal()}, s.Goals())
}

func TestDecodeFillsMissingCollections(t *testing.T) {
	doc, err := Decode([]byte(`{"goal":{"id":"g","title":"G","type":"recurring-monthly","targetHours":8},
		"tasks":[{"id":"a","title":"A","category":"leisure","plannedDurationMinutes":5,"status":"completed"}]}`), FormatJSON)
	require.NoError(t, err)
	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, []string{}, doc.Tasks[0].Tags)
	assert.Equal(t, []models.Subtask{}, doc.Tasks[0].Subtasks)
}

func TestDecodeYAML(t *testing.T) {
	input := `
version: 1
goal:
  id: g1
  title: Ship the book
  type: long-term-forecast
  deadline: "2026-12-31T23:59:59Z"
  targetHours: 100
  loggedHours: 12.75
tasks:
  - id: t1
    title: Outline
    category: creation
    plannedDurationMinutes: 45
    actualDurationMinutes: 0
    status: todo
    createdAt: "2026-04-02T18:15:00Z"
    tags: [draft]
`
	doc, err := Decode([]byte(input), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "Ship the book", doc.Goal.Title)
	assert.Equal(t, 12.75, doc.Goal.LoggedHours)
	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, 45, doc.Tasks[0].PlannedDurationMinutes)
	assert.Equal(t, created, doc.Tasks[0].CreatedAt)
	assert.Equal(t, []string{"draft"}, doc.Tasks[0].Tags)

	_, err = Decode([]byte("goal: [unclosed"), FormatYAML)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "document", verr.Field)
}

func TestFormats(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)

	assert.Equal(t, FormatYAML, FormatFromPath("backup.yaml"))
	assert.Equal(t, FormatJSON, FormatFromPath("backup.txt"))

	assert.Equal(t, "ship-the-book-2026-04-02.json", Filename(testGoal(), "json", created))
	assert.Equal(t, "project-2026-04-02.yaml", Filename(models.Goal{Title: "!!!"}, ".yaml", created))
}
