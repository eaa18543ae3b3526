package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/grind/internal/backlog"
	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/parser"
)

var backlogCmd = &cobra.Command{
	Use:     "backlog <task-id>",
	Aliases: []string{"bl"},
	Short:   "Move a task into or out of the backlog",
	Long: `Toggle a task's backlog flag. Backlog tasks are hidden from 'grind ls'
and listed with 'grind ls --backlog'.`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		task, err := resolveTask(a, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		updated, err := backlog.ToggleBacklog(a.store, task.ID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if updated.IsBacklog {
			fmt.Printf("🗃️  Moved task %s to the backlog: %s\n", shortID(updated.ID), updated.Title)
		} else {
			fmt.Printf("📤 Restored task %s from the backlog: %s\n", shortID(updated.ID), updated.Title)
		}
	}),
}

var promoteCmd = &cobra.Command{
	Use:   "promote <task-id> [subtask-id...]",
	Short: "Turn subtasks into backlog tasks",
	Long: `Create a standalone backlog task from each subtask. With no subtask ids
every subtask is promoted. The planned duration comes from the subtask's
allocated time, or 30 minutes.

By default the subtasks stay on the original task; --move removes them.

Examples:
  grind promote 3f2a            # copy all subtasks to the backlog
  grind promote 3f2a 9c1 b7e --move`,
	Args: cobra.MinimumNArgs(1),
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		task, err := resolveTask(a, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if len(task.Subtasks) == 0 {
			fmt.Printf("%s has no subtasks to promote.\n", task.Title)
			return
		}

		ids, err := resolveSubtaskIDs(task, args[1:])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		var created []models.Task
		if move, _ := cmd.Flags().GetBool("move"); move {
			created, err = backlog.MoveSubtasks(a.store, task.ID, ids)
		} else {
			created, err = backlog.PromoteSubtasks(a.store, selectSubtasks(task, ids), task.LinkedGoalID)
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("Promoted %d subtask(s) to the backlog:\n", len(created))
		for _, t := range created {
			fmt.Printf("  %s %s (%s, %s)\n", shortID(t.ID), t.Title, t.Category, parser.FormatMinutes(t.PlannedDurationMinutes))
		}
	}),
}

// selectSubtasks returns the subtasks with the given ids, or all when ids is empty.
// Subtasks without their own category take the task's.
func selectSubtasks(task models.Task, ids []string) []models.Subtask {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Subtask
	for _, s := range task.Subtasks {
		if len(ids) > 0 && !want[s.ID] {
			continue
		}
		s.Category = task.SubtaskCategory(s)
		out = append(out, s)
	}
	return out
}

func init() {
	promoteCmd.Flags().Bool("move", false, "Remove the promoted subtasks from the task")
}
