package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/parser"
	"github.com/balkashynov/grind/internal/store"
)

var goalCmd = &cobra.Command{
	Use:     "goal",
	Aliases: []string{"g"},
	Short:   "Manage goals",
	Long: `Goals carry a target number of hours and a deadline.
Time from focus sessions on linked tasks is added to the goal.

Examples:
  grind goal add "Learn Go" --target 40 --deadline "3 months"
  grind goal add "Reading" --type recurring-monthly --target 20
  grind goal ls
  grind goal show 3f2a`,
}

var goalAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a goal",
	Args:  cobra.MinimumNArgs(1),
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		now := time.Now()
		req := store.CreateGoalRequest{Title: strings.Join(args, " ")}

		typ, _ := cmd.Flags().GetString("type")
		if typ != "" {
			req.Type = models.GoalType(typ)
		}

		deadline, _ := cmd.Flags().GetString("deadline")
		switch {
		case deadline != "":
			d, err := parser.ParseDeadline(deadline, now)
			if err != nil {
				fmt.Printf("Error parsing deadline: %v\n", err)
				return
			}
			req.Deadline = d
		case req.Type == models.GoalRecurringMonthly:
			req.Deadline = parser.EndOfMonth(now)
		}

		req.TargetHours, _ = cmd.Flags().GetFloat64("target")
		req.DailyTarget, _ = cmd.Flags().GetFloat64("daily")
		req.Description, _ = cmd.Flags().GetString("desc")
		if tod, _ := cmd.Flags().GetString("time"); tod != "" {
			req.PreferredTimeOfDay = models.TimeOfDay(tod)
		}

		goal, err := a.store.CreateGoal(req)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("🎯 Created goal %s: %s\n", shortID(goal.ID), goal.Title)
		fmt.Printf("  Target: %.0fh · %s\n", goal.TargetHours, parser.FormatDeadline(goal.Deadline, now))
	}),
}

var goalListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List goals with progress",
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		goals := a.store.Goals()
		if len(goals) == 0 {
			fmt.Println("No goals yet. Use 'grind goal add \"title\" --target 10' to create one.")
			return
		}

		now := time.Now()
		fmt.Printf("%-8s %-32s %-18s %-16s %s\n", "ID", "TITLE", "TYPE", "PROGRESS", "DEADLINE")
		fmt.Println(strings.Repeat("-", 96))
		for _, g := range goals {
			p := g.Progress(now)
			progress := fmt.Sprintf("%.2f/%.0fh %3.0f%%", g.LoggedHours, g.TargetHours, p.Percent)
			fmt.Printf("%-8s %-32s %-18s %-16s %s\n",
				shortID(g.ID), truncate(g.Title, 32), g.Type, progress, parser.FormatDeadline(g.Deadline, now))
		}
	}),
}

var goalShowCmd = &cobra.Command{
	Use:   "show <goal-id>",
	Short: "Show a goal and its tasks",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		goal, err := resolveGoal(a, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		now := time.Now()
		p := goal.Progress(now)
		fmt.Printf("🎯 %s (%s)\n", goal.Title, goal.ID)
		fmt.Printf("  Type:      %s\n", goal.Type)
		fmt.Printf("  Deadline:  %s\n", parser.FormatDeadline(goal.Deadline, now))
		fmt.Printf("  Logged:    %.2fh of %.0fh (%.0f%%), %.2fh to go\n", goal.LoggedHours, goal.TargetHours, p.Percent, p.RemainingHours)
		if goal.DailyTarget > 0 {
			fmt.Printf("  Daily:     %.1fh\n", goal.DailyTarget)
		}
		if goal.PreferredTimeOfDay != "" {
			fmt.Printf("  Best time: %s\n", goal.PreferredTimeOfDay)
		}
		if goal.Description != "" {
			fmt.Printf("  %s\n", goal.Description)
		}

		tasks := a.store.TasksForGoal(goal.ID)
		if len(tasks) == 0 {
			return
		}
		fmt.Println()
		printTaskTable(tasks)
	}),
}

var goalEditCmd = &cobra.Command{
	Use:   "edit <goal-id>",
	Short: "Change goal fields",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		goal, err := resolveGoal(a, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		var update models.GoalUpdate
		flags := cmd.Flags()
		if flags.Changed("title") {
			v, _ := flags.GetString("title")
			update.Title = &v
		}
		if flags.Changed("type") {
			v, _ := flags.GetString("type")
			t := models.GoalType(v)
			update.Type = &t
		}
		if flags.Changed("deadline") {
			v, _ := flags.GetString("deadline")
			d, err := parser.ParseDeadline(v, time.Now())
			if err != nil {
				fmt.Printf("Error parsing deadline: %v\n", err)
				return
			}
			update.Deadline = &d
		}
		if flags.Changed("target") {
			v, _ := flags.GetFloat64("target")
			update.TargetHours = &v
		}
		if flags.Changed("daily") {
			v, _ := flags.GetFloat64("daily")
			update.DailyTarget = &v
		}
		if flags.Changed("desc") {
			v, _ := flags.GetString("desc")
			update.Description = &v
		}
		if flags.Changed("time") {
			v, _ := flags.GetString("time")
			t := models.TimeOfDay(v)
			update.PreferredTimeOfDay = &t
		}

		updated, err := a.store.UpdateGoal(goal.ID, update)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("✏️  Updated goal %s: %s\n", shortID(updated.ID), updated.Title)
	}),
}

var goalRmCmd = &cobra.Command{
	Use:   "rm <goal-id>",
	Short: "Delete a goal (linked tasks are kept)",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		goal, err := resolveGoal(a, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if err := a.store.DeleteGoal(goal.ID); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("🗑️  Deleted goal %s: %s\n", shortID(goal.ID), goal.Title)
	}),
}

func resolveGoal(a *app, prefix string) (models.Goal, error) {
	id, err := a.store.ResolveGoalID(prefix)
	if err != nil {
		return models.Goal{}, err
	}
	return a.store.Goal(id)
}

func addGoalFlags(cmd *cobra.Command) {
	cmd.Flags().String("type", "", "Goal type: long-term-forecast or recurring-monthly")
	cmd.Flags().StringP("deadline", "d", "", "Deadline: dd/mm/yyyy, yyyy-mm-dd, X days, X weeks, X months")
	cmd.Flags().Float64P("target", "t", 0, "Target hours")
	cmd.Flags().Float64("daily", 0, "Daily target in hours")
	cmd.Flags().String("desc", "", "Description")
	cmd.Flags().String("time", "", "Preferred time of day: morning, afternoon, evening, any")
}

func init() {
	addGoalFlags(goalAddCmd)
	addGoalFlags(goalEditCmd)
	goalEditCmd.Flags().String("title", "", "New title")

	goalCmd.AddCommand(goalAddCmd)
	goalCmd.AddCommand(goalListCmd)
	goalCmd.AddCommand(goalShowCmd)
	goalCmd.AddCommand(goalEditCmd)
	goalCmd.AddCommand(goalRmCmd)
}
