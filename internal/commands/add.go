package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/parser"
	"github.com/balkashynov/grind/internal/store"
)

var addCmd = &cobra.Command{
	Use:   "add <task title>",
	Short: "Add a new task",
	Long: `Add a new task with optional metadata.

Smart parsing syntax:
  #tag1,tag2  - Tags (comma-separated or individual)
  @goal       - Link to a goal (id or unique id prefix)
  !category   - research, creation, learning, activity, leisure, other
  ~1h30m      - Planned duration (45, 45m, 2h, 1h30m)

Flags take precedence over the parsed values.

Example:
  grind add "Read chapter 3 #book @3f2a !learning ~45m"`,
	Args: cobra.MinimumNArgs(1),
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		parsed := parser.ParseTitle(strings.Join(args, " "))
		if len(parsed.Errors) > 0 {
			fmt.Printf("Error: %s\n", strings.Join(parsed.Errors, ", "))
			return
		}

		req := store.CreateTaskRequest{
			Title:                  parsed.Title,
			Category:               parsed.Category,
			PlannedDurationMinutes: parsed.PlannedMinutes,
			Tags:                   parsed.Tags,
		}

		goalRef := parsed.Goal
		if flagGoal, _ := cmd.Flags().GetString("goal"); flagGoal != "" {
			goalRef = flagGoal
		}
		if goalRef != "" {
			goal, err := resolveGoal(a, goalRef)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			req.LinkedGoalID = goal.ID
		}

		if flagCategory, _ := cmd.Flags().GetString("category"); flagCategory != "" {
			category, err := models.ParseCategory(flagCategory)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			req.Category = category
		}
		if flagPlanned, _ := cmd.Flags().GetString("planned"); flagPlanned != "" {
			minutes, err := parser.ParseMinutes(flagPlanned)
			if err != nil {
				fmt.Printf("Error parsing planned duration: %v\n", err)
				return
			}
			req.PlannedDurationMinutes = minutes
		}
		if req.PlannedDurationMinutes == 0 {
			req.PlannedDurationMinutes = a.cfg.DefaultPlannedMinutes
		}
		if flagTags, _ := cmd.Flags().GetStringSlice("tags"); len(flagTags) > 0 {
			req.Tags = flagTags
		}
		req.Description, _ = cmd.Flags().GetString("desc")
		req.IsBacklog, _ = cmd.Flags().GetBool("backlog")

		subtasks, _ := cmd.Flags().GetStringArray("subtask")
		for _, title := range subtasks {
			req.Subtasks = append(req.Subtasks, models.Subtask{Title: title})
		}

		task, err := a.store.CreateTask(req)
		if err != nil {
			fmt.Printf("Error creating task: %v\n", err)
			return
		}

		fmt.Printf("Created task %s: %s\n", shortID(task.ID), task.Title)
		fmt.Printf("  Category: %s · planned %s\n", task.Category, parser.FormatMinutes(task.PlannedDurationMinutes))
		if task.LinkedGoalID != "" {
			if goal, err := a.store.Goal(task.LinkedGoalID); err == nil {
				fmt.Printf("  Goal: %s\n", goal.Title)
			}
		}
		if len(task.Tags) > 0 {
			fmt.Printf("  Tags: %s\n", strings.Join(task.Tags, ", "))
		}
		if len(task.Subtasks) > 0 {
			fmt.Printf("  Subtasks: %d\n", len(task.Subtasks))
		}
		if task.IsBacklog {
			fmt.Println("  In backlog")
		}
	}),
}

func init() {
	addCmd.Flags().StringP("goal", "g", "", "Goal id or id prefix")
	addCmd.Flags().StringP("category", "c", "", "Category")
	addCmd.Flags().StringP("planned", "p", "", "Planned duration: 45m, 2h, 1h30m")
	addCmd.Flags().StringSliceP("tags", "t", []string{}, "Comma-separated tags")
	addCmd.Flags().String("desc", "", "Description")
	addCmd.Flags().Bool("backlog", false, "Put the task in the backlog")
	addCmd.Flags().StringArrayP("subtask", "s", nil, "Subtask title (repeatable)")
}
