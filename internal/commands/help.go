package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for grind",
	Long:  `Display detailed help for all grind commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp()
	},
}

func showCustomHelp() {
	fmt.Print(`
  ▄████  ██▀███   ██▓ ███▄    █ ▓█████▄
 ██▒ ▀█▒▓██ ▒ ██▒▓██▒ ██ ▀█   █ ▒██▀ ██▌
▒██░▄▄▄░▓██ ░▄█ ▒▒██▒▓██  ▀█ ██▒░██   █▌
░▓█  ██▓▒██▀▀█▄  ░██░▓██▒  ▐▌██▒░▓█▄   ▌
░▒▓███▀▒░██▓ ▒██▒░██░▒██░   ▓██░░▒████▓

grind - goal-driven focus sessions

GOALS:

  goal add <title>        Create a goal
    -t, --target          Target hours (required)
    -d, --deadline        dd/mm/yyyy, yyyy-mm-dd, X days, X weeks, X months
    --type                long-term-forecast (default) | recurring-monthly
    --daily               Daily target in hours
    --time                morning | afternoon | evening | any
  goal ls                 List goals with progress
  goal show <id>          Show a goal and its tasks
  goal edit <id>          Change goal fields (same flags as add, plus --title)
  goal rm <id>            Delete a goal (linked tasks are kept)

TASKS:

  add <task>              Create a task with smart parsing
    -g, --goal            Link to a goal
    -c, --category        research|creation|learning|activity|leisure|other
    -p, --planned         Planned duration (45m, 2h, 1h30m)
    -t, --tags            Comma-separated tags
    -s, --subtask         Subtask title (repeatable)
    --backlog             File straight into the backlog

    Smart syntax:
      #hashtags     Tags
      @goal         Goal id or prefix
      !category     Category
      ~1h30m        Planned duration

    Example:
      grind add "Read chapter 3 #book @3f2a !learning ~45m"

  ls                      List active tasks
    -b, --backlog         List the backlog instead
    -g, --goal            Only tasks of a goal
    -s, --status          todo | completed
  edit <id>               Change task fields
  rm <id>                 Delete a task

  subtask add <id> <title>     Add a checklist item (-m allocated time)
  subtask rm <id> <sub-id>...  Remove checklist items
  subtask ls <id>              Show the checklist

BACKLOG:

  backlog <id>            Move a task into or out of the backlog
  promote <id> [sub-id...]  Turn subtasks into backlog tasks
    --move                Remove them from the original task

FOCUS:

  start <id>              Run a focus session
    --hours, --minutes    Override the planned duration
    --no-ui               Plain countdown, Ctrl+C discards
    --done                With --no-ui: mark the task complete

    Timer keys:
      p/space       Pause / resume
      f             Finish early
      x             Check off the selected subtask
      s             Save progress (review)
      c             Mark complete (review)
      esc           Discard

DATA:

  export <goal-id>        Export a goal with its tasks (-f json|yaml, -o file)
  import <file>           Import an export, replacing the goal and its tasks
  report <goal-id>        CSV timesheet of the goal's tasks (-o file)

  version                 Show version
  help                    Show this help

Settings live in ~/.grind/config.yaml (GRIND_* environment variables override).

`)
}
