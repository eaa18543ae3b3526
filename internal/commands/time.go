package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/grind/internal/aggregate"
	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/parser"
	"github.com/balkashynov/grind/internal/session"
	"github.com/balkashynov/grind/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start <task-id>",
	Short: "Run a focus session on a task",
	Long: `Run a timed focus session on a task. Opens the interactive timer by default.

When the countdown ends you review the session: tick off subtasks, then
save progress or mark the task complete. The minutes are added to the task
and to its goal. Discarding (esc, or Ctrl+C with --no-ui) records nothing.

Examples:
  grind start 3f2a                     # interactive timer
  grind start 3f2a --hours 1 --minutes 30
  grind start 3f2a --no-ui --done      # headless, mark complete at the end`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		task, err := resolveTask(a, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		ctrl, err := session.New(task,
			session.WithLogger(a.log),
			session.WithNotifier(a.notifier),
		)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer ctrl.Close()

		flags := cmd.Flags()
		if flags.Changed("hours") || flags.Changed("minutes") {
			hours, _ := flags.GetInt("hours")
			minutes, _ := flags.GetInt("minutes")
			if err := ctrl.SetDuration(hours, minutes); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
		}

		var goal *models.Goal
		if task.LinkedGoalID != "" {
			if g, err := a.store.Goal(task.LinkedGoalID); err == nil {
				goal = &g
			}
		}

		var (
			out       aggregate.Outcome
			committed bool
		)
		if noUI, _ := flags.GetBool("no-ui"); noUI {
			done, _ := flags.GetBool("done")
			out, committed, err = runHeadless(a, ctrl, done)
		} else {
			out, committed, err = tui.RunSessionTUI(a.store, ctrl, goal)
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if !committed {
			fmt.Println("❌ Session discarded, no time recorded.")
			return
		}
		printOutcome(out)
	}),
}

// runHeadless counts down in the terminal and commits when the timer expires.
// Ctrl+C discards the session.
func runHeadless(a *app, ctrl *session.Controller, done bool) (aggregate.Outcome, bool, error) {
	if err := ctrl.Start(); err != nil {
		return aggregate.Outcome{}, false, err
	}

	task := ctrl.Task()
	fmt.Printf("⏱️  Focusing on %s for %s. Press Ctrl+C to discard.\n",
		task.Title, parser.FormatMinutes(ctrl.PlannedSeconds()/60))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := session.Run(ctx, ctrl, func(c *session.Controller) {
		fmt.Printf("\r   %s remaining ", formatSeconds(c.RemainingSeconds()))
	})
	fmt.Println()
	if errors.Is(err, context.Canceled) {
		return aggregate.Outcome{}, false, nil
	}
	if err != nil {
		return aggregate.Outcome{}, false, err
	}

	var result models.SessionResult
	if done {
		result, err = ctrl.MarkComplete()
	} else {
		result, err = ctrl.SaveProgress()
	}
	if err != nil {
		return aggregate.Outcome{}, false, err
	}
	out, err := aggregate.Commit(a.store, task.ID, result)
	if err != nil {
		return aggregate.Outcome{}, false, err
	}
	return out, true, nil
}

func printOutcome(out aggregate.Outcome) {
	task := out.Task
	status := "progress saved"
	if task.Done() {
		status = "completed"
	}
	fmt.Printf("✅ %s: %s (%s logged in total)\n", task.Title, status, parser.FormatMinutes(task.ActualDurationMinutes))
	if out.Goal != nil {
		p := out.Goal.Progress(time.Now())
		fmt.Printf("🎯 %s: %.2fh of %.0fh (%.0f%%)\n", out.Goal.Title, out.Goal.LoggedHours, out.Goal.TargetHours, p.Percent)
	}
}

// formatSeconds formats a countdown as mm:ss or h:mm:ss
func formatSeconds(seconds int) string {
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func init() {
	startCmd.Flags().Bool("no-ui", false, "Run the countdown without the interactive timer")
	startCmd.Flags().Bool("done", false, "With --no-ui: mark the task complete when the timer ends")
	startCmd.Flags().Int("hours", 0, "Session length hours (overrides the planned duration)")
	startCmd.Flags().Int("minutes", 0, "Session length minutes (overrides the planned duration)")
}
