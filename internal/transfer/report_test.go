package transfer

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/grind/internal/models"
)

func TestWriteReport(t *testing.T) {
	tasks := []models.Task{
		{
			Title:                 "Plain",
			Category:              models.CategoryResearch,
			ActualDurationMinutes: 95,
			Status:                models.StatusCompleted,
			CreatedAt:             time.Date(2026, 3, 9, 22, 0, 0, 0, time.UTC),
		},
		{
			Title:                 `Fix "flaky", slow tests`,
			Category:              models.CategoryCreation,
			ActualDurationMinutes: 0,
			Status:                models.StatusTodo,
			CreatedAt:             time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
			Description:           "see PR",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, tasks))

	want := "Date,Task Title,Category,Duration (min),Status,Notes\n" +
		"2026-03-09,Plain,research,95,completed,\n" +
		"2026-03-10,\"Fix \"\"flaky\"\", slow tests\",creation,0,todo,see PR\n"
	assert.Equal(t, want, buf.String())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, `Fix "flaky", slow tests`, rows[2][1])
}

func TestWriteReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, nil))
	assert.Equal(t, "Date,Task Title,Category,Duration (min),Status,Notes\n", buf.String())
}
