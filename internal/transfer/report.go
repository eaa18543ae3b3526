package transfer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/balkashynov/grind/internal/models"
)

// ReportHeader is the first row of the timesheet report
var ReportHeader = []string{"Date", "Task Title", "Category", "Duration (min)", "Status", "Notes"}

// ReportDateFormat is how createdAt is printed in the Date column
const ReportDateFormat = "2006-01-02"

// WriteReport writes one timesheet row per task. Fields containing the
// delimiter or a quote are quoted with internal quotes doubled.
func WriteReport(w io.Writer, tasks []models.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ReportHeader); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, t := range tasks {
		row := []string{
			t.CreatedAt.Format(ReportDateFormat),
			t.Title,
			string(t.Category),
			strconv.Itoa(t.ActualDurationMinutes),
			string(t.Status),
			t.Description,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
