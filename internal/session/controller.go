package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/balkashynov/grind/internal/models"
)

var (
	// ErrInvalidDuration rejects starting a session with no time on the clock
	ErrInvalidDuration = errors.New("session duration must be greater than zero")
	// ErrInvalidTransition is returned when an action is not allowed in the current state
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrTaskCompleted refuses to open a session on a finished task
	ErrTaskCompleted = errors.New("task is already completed")
)

// MaxDurationMinutes caps a single session at 9999h59m
const MaxDurationMinutes = 9999*60 + 59

// State is a step of the focus session lifecycle
type State int

const (
	StateSetup State = iota
	StateRunning
	StatePaused
	StateReview
	StateCommitted
	StateDiscarded
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateReview:
		return "review"
	case StateCommitted:
		return "committed"
	case StateDiscarded:
		return "discarded"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition is possible
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateDiscarded
}

// Notifier delivers the best-effort end-of-session signals
type Notifier interface {
	Notify(title, message string) error
	Cue() error
}

// Controller drives one focus session on a single task.
// It is not safe for concurrent use; callers serialize access the way
// an event loop does.
type Controller struct {
	task    models.Task
	state   State
	working []models.Subtask

	plannedSeconds int
	// elapsed accumulated before the current run segment
	baseSeconds  int
	runStartedAt time.Time

	timer    Timer
	newTimer TimerFactory
	clock    Clock
	notifier Notifier
	log      zerolog.Logger

	result *models.SessionResult
}

// Option configures a Controller
type Option func(*Controller)

// WithClock replaces the wall clock
func WithClock(c Clock) Option {
	return func(ctl *Controller) { ctl.clock = c }
}

// WithTimerFactory replaces the one-second ticker
func WithTimerFactory(f TimerFactory) Option {
	return func(ctl *Controller) { ctl.newTimer = f }
}

// WithNotifier sets where expiry notifications go
func WithNotifier(n Notifier) Option {
	return func(ctl *Controller) { ctl.notifier = n }
}

// WithLogger sets the controller's logger
func WithLogger(log zerolog.Logger) Option {
	return func(ctl *Controller) { ctl.log = log }
}

// New opens a session on task in the SETUP state
func New(task models.Task, opts ...Option) (*Controller, error) {
	if task.Done() {
		return nil, fmt.Errorf("task %q: %w", task.Title, ErrTaskCompleted)
	}
	c := &Controller{
		task:           task.Clone(),
		state:          StateSetup,
		working:        models.CloneSubtasks(task.Subtasks),
		plannedSeconds: min(task.PlannedDurationMinutes, MaxDurationMinutes) * 60,
		newTimer:       NewTicker,
		clock:          realClock{},
		log:            zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.working == nil {
		c.working = []models.Subtask{}
	}
	return c, nil
}

// State returns the current lifecycle state
func (c *Controller) State() State { return c.state }

// Task returns the task the session was opened on
func (c *Controller) Task() models.Task { return c.task.Clone() }

// PlannedSeconds returns the countdown length
func (c *Controller) PlannedSeconds() int { return c.plannedSeconds }

// ElapsedSeconds returns time spent running, read live while RUNNING
func (c *Controller) ElapsedSeconds() int {
	if c.state == StateRunning {
		return c.liveElapsed()
	}
	return c.baseSeconds
}

// RemainingSeconds returns what is left on the countdown
func (c *Controller) RemainingSeconds() int {
	if c.state == StateSetup {
		return c.plannedSeconds
	}
	remaining := c.plannedSeconds - c.ElapsedSeconds()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Subtasks returns a copy of the session's working checklist
func (c *Controller) Subtasks() []models.Subtask {
	return models.CloneSubtasks(c.working)
}

// Result returns the committed result, if any
func (c *Controller) Result() (models.SessionResult, bool) {
	if c.result == nil {
		return models.SessionResult{}, false
	}
	r := *c.result
	r.Subtasks = models.CloneSubtasks(r.Subtasks)
	return r, true
}

// Ticks exposes the active tick source. It is nil unless RUNNING.
func (c *Controller) Ticks() <-chan time.Time {
	if c.timer == nil {
		return nil
	}
	return c.timer.C()
}

// SetDuration overrides the planned length before starting
func (c *Controller) SetDuration(hours, minutes int) error {
	if c.state != StateSetup {
		return c.invalid("set duration")
	}
	if hours < 0 || minutes < 0 {
		return fmt.Errorf("hours and minutes must not be negative: %w", ErrInvalidDuration)
	}
	if hours > MaxDurationMinutes/60 || minutes > MaxDurationMinutes || hours*60+minutes > MaxDurationMinutes {
		return fmt.Errorf("sessions are limited to %d hours: %w", MaxDurationMinutes/60, ErrInvalidDuration)
	}
	c.plannedSeconds = (hours*60 + minutes) * 60
	return nil
}

// Start leaves SETUP and begins counting down
func (c *Controller) Start() error {
	if c.state != StateSetup {
		return c.invalid("start")
	}
	if c.plannedSeconds <= 0 {
		return ErrInvalidDuration
	}
	c.baseSeconds = 0
	c.run()
	c.log.Info().Str("task", c.task.ID).Int("planned_seconds", c.plannedSeconds).Msg("session started")
	return nil
}

// Pause freezes the countdown
func (c *Controller) Pause() error {
	if c.state != StateRunning {
		return c.invalid("pause")
	}
	c.baseSeconds = c.liveElapsed()
	c.releaseTimer()
	c.state = StatePaused
	return nil
}

// Resume continues a paused countdown
func (c *Controller) Resume() error {
	if c.state != StatePaused {
		return c.invalid("resume")
	}
	c.run()
	return nil
}

// TogglePause flips between RUNNING and PAUSED
func (c *Controller) TogglePause() error {
	if c.state == StatePaused {
		return c.Resume()
	}
	return c.Pause()
}

// Tick re-reads the clock and reports whether the countdown just expired.
// Expiry moves the session to REVIEW and fires the notification.
func (c *Controller) Tick() bool {
	if c.state != StateRunning {
		return false
	}
	if c.liveElapsed() < c.plannedSeconds {
		return false
	}
	c.baseSeconds = c.plannedSeconds
	c.releaseTimer()
	c.state = StateReview
	c.log.Info().Str("task", c.task.ID).Msg("session countdown finished")
	c.signalExpiry()
	return true
}

// Finish ends the countdown early and moves to REVIEW
func (c *Controller) Finish() error {
	switch c.state {
	case StateRunning:
		c.baseSeconds = c.liveElapsed()
		c.releaseTimer()
	case StatePaused:
	default:
		return c.invalid("finish")
	}
	c.state = StateReview
	return nil
}

// ToggleSubtask flips completion of a subtask in the working copy
func (c *Controller) ToggleSubtask(id string) error {
	switch c.state {
	case StateRunning, StatePaused, StateReview:
	default:
		return c.invalid("toggle subtask")
	}
	for i := range c.working {
		if c.working[i].ID == id {
			c.working[i].IsCompleted = !c.working[i].IsCompleted
			return nil
		}
	}
	return fmt.Errorf("subtask %s not found in session", id)
}

// SaveProgress commits the session leaving the task open
func (c *Controller) SaveProgress() (models.SessionResult, error) {
	return c.commit(false)
}

// MarkComplete commits the session and completes the task
func (c *Controller) MarkComplete() (models.SessionResult, error) {
	return c.commit(true)
}

func (c *Controller) commit(done bool) (models.SessionResult, error) {
	if c.state != StateReview {
		return models.SessionResult{}, c.invalid("commit")
	}
	c.result = &models.SessionResult{
		DurationMinutes: minutesCeil(c.baseSeconds),
		TaskDone:        done,
		Subtasks:        models.CloneSubtasks(c.working),
	}
	c.state = StateCommitted
	r, _ := c.Result()
	return r, nil
}

// Discard abandons the session without recording any time
func (c *Controller) Discard() error {
	if c.state.Terminal() {
		return c.invalid("discard")
	}
	c.releaseTimer()
	c.state = StateDiscarded
	c.log.Info().Str("task", c.task.ID).Int("elapsed_seconds", c.baseSeconds).Msg("session discarded")
	return nil
}

// Close releases the tick source on teardown, discarding an uncommitted session
func (c *Controller) Close() {
	if !c.state.Terminal() {
		_ = c.Discard()
	}
}

// run enters RUNNING from the current base and acquires a tick source
func (c *Controller) run() {
	c.runStartedAt = c.clock.Now()
	c.timer = c.newTimer(time.Second)
	c.state = StateRunning
}

// releaseTimer is the single point where the tick source is cancelled
func (c *Controller) releaseTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) liveElapsed() int {
	elapsed := c.baseSeconds + int(c.clock.Now().Sub(c.runStartedAt)/time.Second)
	if elapsed > c.plannedSeconds {
		return c.plannedSeconds
	}
	return elapsed
}

func (c *Controller) signalExpiry() {
	if c.notifier == nil {
		return
	}
	msg := fmt.Sprintf("%s: %d min done. Review your session.", c.task.Title, minutesCeil(c.baseSeconds))
	if err := c.notifier.Notify("Focus session complete", msg); err != nil {
		c.log.Debug().Err(err).Msg("notification unavailable")
	}
	if err := c.notifier.Cue(); err != nil {
		c.log.Debug().Err(err).Msg("completion cue unavailable")
	}
}

func (c *Controller) invalid(action string) error {
	return fmt.Errorf("cannot %s while %s: %w", action, c.state, ErrInvalidTransition)
}

func minutesCeil(seconds int) int {
	return (seconds + 59) / 60
}
