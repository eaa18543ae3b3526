package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/parser"
	"github.com/balkashynov/grind/internal/store"
)

var subtaskCmd = &cobra.Command{
	Use:     "subtask",
	Aliases: []string{"sub"},
	Short:   "Manage a task's checklist",
}

var subtaskAddCmd = &cobra.Command{
	Use:   "add <task-id> <title>",
	Short: "Add a subtask",
	Args:  cobra.MinimumNArgs(2),
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		task, err := resolveTask(a, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		sub := models.Subtask{Title: strings.Join(args[1:], " ")}
		if v, _ := cmd.Flags().GetString("category"); v != "" {
			category, err := models.ParseCategory(v)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			sub.Category = category
		}
		if v, _ := cmd.Flags().GetString("minutes"); v != "" {
			minutes, err := parser.ParseMinutes(v)
			if err != nil {
				fmt.Printf("Error parsing duration: %v\n", err)
				return
			}
			sub.AllocatedMinutes = minutes
		}

		created, err := a.store.AddSubtask(task.ID, sub)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Added subtask %s to %s: %s\n", shortID(created.ID), task.Title, created.Title)
	}),
}

var subtaskRmCmd = &cobra.Command{
	Use:   "rm <task-id> <subtask-id>...",
	Short: "Remove subtasks",
	Args:  cobra.MinimumNArgs(2),
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		task, err := resolveTask(a, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		ids, err := resolveSubtaskIDs(task, args[1:])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if _, err := a.store.RemoveSubtasks(task.ID, ids...); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Removed %d subtask(s) from %s\n", len(ids), task.Title)
	}),
}

var subtaskListCmd = &cobra.Command{
	Use:     "ls <task-id>",
	Aliases: []string{"list"},
	Short:   "List subtasks",
	Args:    cobra.ExactArgs(1),
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		task, err := resolveTask(a, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if len(task.Subtasks) == 0 {
			fmt.Printf("%s has no subtasks.\n", task.Title)
			return
		}

		fmt.Printf("%s (%d/%d done)\n", task.Title, task.CompletedSubtasks(), len(task.Subtasks))
		for _, s := range task.Subtasks {
			box := "[ ]"
			if s.IsCompleted {
				box = "[x]"
			}
			line := fmt.Sprintf("  %s %-8s %s", box, shortID(s.ID), s.Title)
			if s.AllocatedMinutes > 0 {
				line += " (" + parser.FormatMinutes(s.AllocatedMinutes) + ")"
			}
			if s.Category != "" {
				line += " !" + string(s.Category)
			}
			fmt.Println(line)
		}
	}),
}

// resolveSubtaskIDs expands unique subtask id prefixes within task
func resolveSubtaskIDs(task models.Task, prefixes []string) ([]string, error) {
	known := make([]string, 0, len(task.Subtasks))
	for _, s := range task.Subtasks {
		known = append(known, s.ID)
	}
	ids := make([]string, 0, len(prefixes))
	for _, prefix := range prefixes {
		id, err := store.MatchID("subtask", prefix, known)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", shortID(task.ID), err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func init() {
	subtaskAddCmd.Flags().StringP("category", "c", "", "Category (defaults to the task's)")
	subtaskAddCmd.Flags().StringP("minutes", "m", "", "Allocated time: 15m, 1h")

	subtaskCmd.AddCommand(subtaskAddCmd)
	subtaskCmd.AddCommand(subtaskRmCmd)
	subtaskCmd.AddCommand(subtaskListCmd)
}
