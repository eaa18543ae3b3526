package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/grind/internal/transfer"
)

var exportCmd = &cobra.Command{
	Use:   "export <goal-id>",
	Short: "Export a goal and its tasks",
	Long: `Write a goal and all of its tasks to a JSON or YAML file that
'grind import' can read back.

Examples:
  grind export 3f2a                    # ./learn-go-2026-10-19.json
  grind export 3f2a --format yaml
  grind export 3f2a -o backup.json`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		goal, err := resolveGoal(a, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		output, _ := cmd.Flags().GetString("output")
		formatName, _ := cmd.Flags().GetString("format")
		if formatName == "" && output != "" {
			formatName = string(transfer.FormatFromPath(output))
		}
		format, err := transfer.ParseFormat(formatName)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		now := time.Now()
		doc, err := transfer.Export(a.store, goal.ID, now)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		data, err := transfer.Marshal(doc, format)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if output == "" {
			output = filepath.Join(a.cfg.ExportDir, transfer.Filename(goal, string(format), now))
		}
		if err := writeFile(output, data); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		a.log.Info().Str("goal", goal.ID).Str("file", output).Int("tasks", len(doc.Tasks)).Msg("goal exported")
		fmt.Printf("📦 Exported %s with %d task(s) to %s\n", goal.Title, len(doc.Tasks), output)
	}),
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a goal export",
	Long: `Read a file written by 'grind export'. The goal with the same id is
replaced, and so are all of its tasks. The format follows the file
extension (.json, .yaml, .yml) unless --format is given.`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		path := args[0]
		format := transfer.FormatFromPath(path)
		if formatName, _ := cmd.Flags().GetString("format"); formatName != "" {
			f, err := transfer.ParseFormat(formatName)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			format = f
		}

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("Error: failed to read %s: %v\n", path, err)
			return
		}

		result, err := transfer.ImportBytes(a.store, data, format)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		a.log.Info().Str("goal", result.GoalID).Str("file", path).Int("tasks", result.Tasks).Int("removed", result.Removed).Msg("goal imported")
		fmt.Printf("📥 Imported %s with %d task(s)", result.GoalTitle, result.Tasks)
		if result.Removed > 0 {
			fmt.Printf(", replacing %d existing task(s)", result.Removed)
		}
		fmt.Println()
	}),
}

var reportCmd = &cobra.Command{
	Use:   "report <goal-id>",
	Short: "Write a CSV timesheet for a goal",
	Long: `Write one row per task linked to the goal: date, title, category,
logged minutes, status and notes. Prints to stdout unless -o is given.`,
	Args: cobra.ExactArgs(1),
	Run: withApp(func(a *app, cmd *cobra.Command, args []string) {
		goal, err := resolveGoal(a, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		var buf bytes.Buffer
		if err := transfer.WriteReport(&buf, a.store.TasksForGoal(goal.ID)); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			fmt.Print(buf.String())
			return
		}
		if err := writeFile(output, buf.Bytes()); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("🧾 Wrote timesheet for %s to %s\n", goal.Title, output)
	}),
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func init() {
	exportCmd.Flags().StringP("format", "f", "", "Output format: json or yaml (default json)")
	exportCmd.Flags().StringP("output", "o", "", "Output file")
	importCmd.Flags().StringP("format", "f", "", "Input format: json or yaml")
	reportCmd.Flags().StringP("output", "o", "", "Output CSV file")
}
