package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/balkashynov/grind/internal/config"
	"github.com/balkashynov/grind/internal/db"
	"github.com/balkashynov/grind/internal/logging"
	"github.com/balkashynov/grind/internal/notify"
	"github.com/balkashynov/grind/internal/store"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	cfgFile string
	verbose bool
)

// app holds everything a command needs once initialized
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	db       *db.DB
	store    *store.Store
	notifier *notify.Desktop
	logFile  io.Closer
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "grind",
	Short: "Goal-driven focus sessions and time logging",
	Long: `grind keeps your goals and tasks in one place.
Run timed focus sessions on a task and the minutes roll up into the
task and the goal it serves.`,
}

// initApp loads config, opens the log and the database and fills the store
func initApp() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	log, logFile, err := logging.Open(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.DBPath(), verbose)
	if err != nil {
		logFile.Close()
		return err
	}

	s := store.New(database, store.WithLogger(log))
	if err := s.Load(context.Background()); err != nil {
		database.Close()
		logFile.Close()
		return err
	}

	current = &app{
		cfg:      cfg,
		log:      log,
		db:       database,
		store:    s,
		notifier: notify.New(cfg.Notifications, cfg.Sound),
		logFile:  logFile,
	}
	log.Debug().Str("db", cfg.DBPath()).Int("tasks", len(s.Tasks())).Int("goals", len(s.Goals())).Msg("store loaded")
	return nil
}

func closeApp() {
	if current == nil {
		return
	}
	if err := current.db.Close(); err != nil {
		current.log.Warn().Err(err).Msg("failed to close database")
	}
	current.logFile.Close()
	current = nil
}

// withApp wraps a command function to initialize the app first
func withApp(fn func(*app, *cobra.Command, []string)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := initApp(); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer closeApp()
		fn(current, cmd, args)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("grind %s (commit %s, built %s)\n", version, commit, date)
	},
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.grind/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log SQL statements")

	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(subtaskCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(backlogCmd)
	rootCmd.AddCommand(promoteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
