package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/parser"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List tasks",
	Long:    "List active tasks, or the backlog, with optional filters for goal and status",
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		showBacklog, _ := cmd.Flags().GetBool("backlog")
		status, _ := cmd.Flags().GetString("status")
		goalRef, _ := cmd.Flags().GetString("goal")

		var goalID string
		if goalRef != "" {
			goal, err := resolveGoal(a, goalRef)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			goalID = goal.ID
		}
		if status != "" && status != string(models.StatusTodo) && status != string(models.StatusCompleted) {
			fmt.Printf("Error: invalid status '%s'. Use: todo, completed\n", status)
			return
		}

		tasks := a.store.FindTasks(func(t models.Task) bool {
			if t.IsBacklog != showBacklog {
				return false
			}
			if goalID != "" && t.LinkedGoalID != goalID {
				return false
			}
			return status == "" || string(t.Status) == status
		})

		if len(tasks) == 0 {
			if showBacklog {
				fmt.Println("Backlog is empty.")
			} else {
				fmt.Println("No tasks found. Use 'grind add \"task title\"' to create your first task.")
			}
			return
		}
		printTaskTable(tasks)
	}),
}

// printTaskTable prints tasks oldest first with todo before completed
func printTaskTable(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Done() != tasks[j].Done() {
			return !tasks[i].Done()
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})

	fmt.Printf("%-8s %-9s %-38s %-9s %-13s %-7s %s\n", "ID", "STATUS", "TITLE", "CATEGORY", "TIME", "SUBS", "TAGS")
	fmt.Println(strings.Repeat("-", 100))
	for _, task := range tasks {
		timeStr := parser.FormatMinutes(task.ActualDurationMinutes) + "/" + parser.FormatMinutes(task.PlannedDurationMinutes)
		subs := "-"
		if len(task.Subtasks) > 0 {
			subs = fmt.Sprintf("%d/%d", task.CompletedSubtasks(), len(task.Subtasks))
		}
		fmt.Printf("%-8s %-9s %-38s %-9s %-13s %-7s %s\n",
			shortID(task.ID),
			task.Status,
			truncate(task.Title, 38),
			task.Category,
			timeStr,
			subs,
			strings.Join(task.Tags, ","))
	}
}

// shortID is the id prefix shown in tables; any unique prefix resolves
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	listCmd.Flags().BoolP("backlog", "b", false, "Show backlog tasks instead of active ones")
	listCmd.Flags().StringP("status", "s", "", "Filter by status: todo, completed")
	listCmd.Flags().StringP("goal", "g", "", "Filter by goal id or id prefix")
}
