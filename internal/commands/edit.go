package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/parser"
)

var editCmd = &cobra.Command{
	Use:   "edit <task-id>",
	Short: "Edit an existing task",
	Long: `Edit title, category, planned duration, goal link, description or tags.

Status and logged time only change through focus sessions.

Examples:
  grind edit 3f2a --title "Read chapter 4"
  grind edit 3f2a --planned 1h --category learning
  grind edit 3f2a --goal ""   # unlink from its goal`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		task, err := resolveTask(a, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		var update models.TaskUpdate
		flags := cmd.Flags()
		if flags.Changed("title") {
			v, _ := flags.GetString("title")
			update.Title = &v
		}
		if flags.Changed("category") {
			v, _ := flags.GetString("category")
			category, err := models.ParseCategory(v)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			update.Category = &category
		}
		if flags.Changed("planned") {
			v, _ := flags.GetString("planned")
			minutes, err := parser.ParseMinutes(v)
			if err != nil {
				fmt.Printf("Error parsing planned duration: %v\n", err)
				return
			}
			update.PlannedDurationMinutes = &minutes
		}
		if flags.Changed("goal") {
			v, _ := flags.GetString("goal")
			goalID := ""
			if v != "" {
				goal, err := resolveGoal(a, v)
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					return
				}
				goalID = goal.ID
			}
			update.LinkedGoalID = &goalID
		}
		if flags.Changed("desc") {
			v, _ := flags.GetString("desc")
			update.Description = &v
		}
		if flags.Changed("tags") {
			v, _ := flags.GetStringSlice("tags")
			update.Tags = &v
		}

		if update.Empty() {
			fmt.Println("Nothing to change. See 'grind edit --help' for the available flags.")
			return
		}

		updated, err := a.store.UpdateTask(task.ID, update)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("✏️  Updated task %s: %s\n", shortID(updated.ID), updated.Title)
	}),
}

var rmCmd = &cobra.Command{
	Use:   "rm <task-id>",
	Short: "Delete a task and its subtasks",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		task, err := resolveTask(a, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if err := a.store.DeleteTask(task.ID); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("🗑️  Deleted task %s: %s\n", shortID(task.ID), task.Title)
	}),
}

func resolveTask(a *app, prefix string) (models.Task, error) {
	id, err := a.store.ResolveTaskID(prefix)
	if err != nil {
		return models.Task{}, err
	}
	return a.store.Task(id)
}

func init() {
	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().StringP("category", "c", "", "Category")
	editCmd.Flags().StringP("planned", "p", "", "Planned duration: 45m, 2h, 1h30m")
	editCmd.Flags().StringP("goal", "g", "", "Goal id or prefix; empty to unlink")
	editCmd.Flags().String("desc", "", "Description")
	editCmd.Flags().StringSliceP("tags", "t", nil, "Replace tags (comma-separated)")
}
