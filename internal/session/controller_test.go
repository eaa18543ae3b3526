package session

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/grind/internal/models"
)

type fakeClock struct{ now time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
func (c *fakeClock) AdvanceSeconds(n int)    { c.Advance(time.Duration(n) * time.Second) }

type fakeTimer struct {
	ch      chan time.Time
	stopped int
}

func (t *fakeTimer) C() <-chan time.Time { return t.ch }
func (t *fakeTimer) Stop()               { t.stopped++ }

type timerRecorder struct{ timers []*fakeTimer }

func (r *timerRecorder) factory(time.Duration) Timer {
	t := &fakeTimer{ch: make(chan time.Time, 4)}
	r.timers = append(r.timers, t)
	return t
}

func (r *timerRecorder) last() *fakeTimer { return r.timers[len(r.timers)-1] }

type fakeNotifier struct {
	notified []string
	cues     int
	err      error
}

func (n *fakeNotifier) Notify(title, message string) error {
	n.notified = append(n.notified, message)
	return n.err
}

func (n *fakeNotifier) Cue() error {
	n.cues++
	return n.err
}

func testTask() models.Task {
	return models.Task{
		ID:                     "t1",
		Title:                  "Deep work",
		Category:               models.CategoryCreation,
		PlannedDurationMinutes: 30,
		Status:                 models.StatusTodo,
		Tags:                   []string{},
		Subtasks: []models.Subtask{
			{ID: "s1", Title: "draft"},
			{ID: "s2", Title: "edit"},
		},
	}
}

type harness struct {
	ctrl     *Controller
	clock    *fakeClock
	timers   *timerRecorder
	notifier *fakeNotifier
}

func newHarness(t *testing.T, task models.Task) *harness {
	t.Helper()
	h := &harness{clock: newFakeClock(), timers: &timerRecorder{}, notifier: &fakeNotifier{}}
	ctrl, err := New(task, WithClock(h.clock), WithTimerFactory(h.timers.factory), WithNotifier(h.notifier))
	require.NoError(t, err)
	h.ctrl = ctrl
	return h
}

func TestNewSessionStartsInSetup(t *testing.T) {
	h := newHarness(t, testTask())

	assert.Equal(t, StateSetup, h.ctrl.State())
	assert.Equal(t, 30*60, h.ctrl.PlannedSeconds())
	assert.Equal(t, 30*60, h.ctrl.RemainingSeconds())
	assert.Equal(t, 0, h.ctrl.ElapsedSeconds())
	assert.Nil(t, h.ctrl.Ticks())
	assert.Empty(t, h.timers.timers)
}

func TestNewRefusesCompletedTask(t *testing.T) {
	task := testTask()
	task.Status = models.StatusCompleted
	_, err := New(task)
	assert.ErrorIs(t, err, ErrTaskCompleted)
}

func TestStartRequiresPositiveDuration(t *testing.T) {
	h := newHarness(t, testTask())

	require.NoError(t, h.ctrl.SetDuration(0, 0))
	assert.ErrorIs(t, h.ctrl.Start(), ErrInvalidDuration)
	assert.Equal(t, StateSetup, h.ctrl.State())

	assert.ErrorIs(t, h.ctrl.SetDuration(-1, 0), ErrInvalidDuration)
}

func TestSetDurationRejectsHugeValues(t *testing.T) {
	h := newHarness(t, testTask())
	require.NoError(t, h.ctrl.SetDuration(2, 0))

	assert.ErrorIs(t, h.ctrl.SetDuration(math.MaxInt/60, 0), ErrInvalidDuration)
	assert.ErrorIs(t, h.ctrl.SetDuration(0, math.MaxInt), ErrInvalidDuration)
	assert.ErrorIs(t, h.ctrl.SetDuration(9999, 60), ErrInvalidDuration)
	assert.Equal(t, 2*3600, h.ctrl.PlannedSeconds())

	require.NoError(t, h.ctrl.SetDuration(9999, 59))
	assert.Equal(t, MaxDurationMinutes*60, h.ctrl.PlannedSeconds())
}

func TestCountdownExpiresIntoReview(t *testing.T) {
	h := newHarness(t, testTask())
	require.NoError(t, h.ctrl.SetDuration(0, 45))
	require.NoError(t, h.ctrl.Start())

	assert.Equal(t, StateRunning, h.ctrl.State())
	require.Len(t, h.timers.timers, 1)
	assert.NotNil(t, h.ctrl.Ticks())

	h.clock.AdvanceSeconds(44*60 + 59)
	assert.False(t, h.ctrl.Tick())
	assert.Equal(t, 1, h.ctrl.RemainingSeconds())

	h.clock.AdvanceSeconds(10)
	assert.True(t, h.ctrl.Tick())

	assert.Equal(t, StateReview, h.ctrl.State())
	assert.Equal(t, 45*60, h.ctrl.ElapsedSeconds())
	assert.Equal(t, 0, h.ctrl.RemainingSeconds())
	assert.Equal(t, 1, h.timers.last().stopped)
	assert.Nil(t, h.ctrl.Ticks())
	assert.Len(t, h.notifier.notified, 1)
	assert.Equal(t, 1, h.notifier.cues)

	// further ticks are no-ops
	assert.False(t, h.ctrl.Tick())

	require.NoError(t, h.ctrl.ToggleSubtask("s1"))
	result, err := h.ctrl.SaveProgress()
	require.NoError(t, err)
	assert.Equal(t, 45, result.DurationMinutes)
	assert.False(t, result.TaskDone)
	require.Len(t, result.Subtasks, 2)
	assert.True(t, result.Subtasks[0].IsCompleted)
	assert.False(t, result.Subtasks[1].IsCompleted)
	assert.Equal(t, StateCommitted, h.ctrl.State())

	stored, ok := h.ctrl.Result()
	require.True(t, ok)
	assert.Equal(t, result, stored)
}

func TestElapsedComesFromClockNotTickCount(t *testing.T) {
	h := newHarness(t, testTask())
	require.NoError(t, h.ctrl.Start())

	// a stalled event loop delivers one tick after ten minutes
	h.clock.Advance(10 * time.Minute)
	assert.False(t, h.ctrl.Tick())
	assert.Equal(t, 600, h.ctrl.ElapsedSeconds())
}

func TestPausedTimeIsNotCounted(t *testing.T) {
	h := newHarness(t, testTask())
	require.NoError(t, h.ctrl.Start())

	h.clock.AdvanceSeconds(100)
	require.NoError(t, h.ctrl.Pause())
	assert.Equal(t, StatePaused, h.ctrl.State())
	assert.Equal(t, 1, h.timers.timers[0].stopped)
	assert.Nil(t, h.ctrl.Ticks())

	h.clock.Advance(time.Hour)
	assert.Equal(t, 100, h.ctrl.ElapsedSeconds())
	assert.False(t, h.ctrl.Tick())

	require.NoError(t, h.ctrl.Resume())
	require.Len(t, h.timers.timers, 2)
	h.clock.AdvanceSeconds(20)
	assert.Equal(t, 120, h.ctrl.ElapsedSeconds())

	require.NoError(t, h.ctrl.TogglePause())
	assert.Equal(t, StatePaused, h.ctrl.State())
	require.NoError(t, h.ctrl.TogglePause())
	assert.Equal(t, StateRunning, h.ctrl.State())
}

func TestFinishEarlyRoundsMinutesUp(t *testing.T) {
	h := newHarness(t, testTask())
	require.NoError(t, h.ctrl.Start())
	h.clock.AdvanceSeconds(61)

	require.NoError(t, h.ctrl.Finish())
	assert.Equal(t, StateReview, h.ctrl.State())
	assert.Equal(t, 1, h.timers.last().stopped)
	assert.Empty(t, h.notifier.notified)

	result, err := h.ctrl.MarkComplete()
	require.NoError(t, err)
	assert.Equal(t, 2, result.DurationMinutes)
	assert.True(t, result.TaskDone)
}

func TestFinishWhilePaused(t *testing.T) {
	h := newHarness(t, testTask())
	require.NoError(t, h.ctrl.Start())
	h.clock.AdvanceSeconds(30)
	require.NoError(t, h.ctrl.Pause())
	require.NoError(t, h.ctrl.Finish())

	result, err := h.ctrl.SaveProgress()
	require.NoError(t, err)
	assert.Equal(t, 1, result.DurationMinutes)
}

func TestZeroElapsedCommitsZeroMinutes(t *testing.T) {
	h := newHarness(t, testTask())
	require.NoError(t, h.ctrl.Start())
	require.NoError(t, h.ctrl.Finish())

	result, err := h.ctrl.SaveProgress()
	require.NoError(t, err)
	assert.Equal(t, 0, result.DurationMinutes)
}

func TestDiscardReleasesTimerAndRecordsNothing(t *testing.T) {
	h := newHarness(t, testTask())
	require.NoError(t, h.ctrl.Start())
	h.clock.AdvanceSeconds(300)
	require.NoError(t, h.ctrl.ToggleSubtask("s2"))

	require.NoError(t, h.ctrl.Discard())
	assert.Equal(t, StateDiscarded, h.ctrl.State())
	assert.Equal(t, 1, h.timers.last().stopped)
	_, ok := h.ctrl.Result()
	assert.False(t, ok)

	assert.ErrorIs(t, h.ctrl.Discard(), ErrInvalidTransition)
	h.ctrl.Close()
	assert.Equal(t, 1, h.timers.last().stopped)
}

func TestDiscardFromReview(t *testing.T) {
	h := newHarness(t, testTask())
	require.NoError(t, h.ctrl.Start())
	require.NoError(t, h.ctrl.Finish())
	require.NoError(t, h.ctrl.Discard())

	_, err := h.ctrl.SaveProgress()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCloseDiscardsUncommittedSession(t *testing.T) {
	h := newHarness(t, testTask())
	require.NoError(t, h.ctrl.Start())

	h.ctrl.Close()
	assert.Equal(t, StateDiscarded, h.ctrl.State())
	assert.Equal(t, 1, h.timers.last().stopped)
}

func TestInvalidTransitions(t *testing.T) {
	h := newHarness(t, testTask())

	assert.ErrorIs(t, h.ctrl.Pause(), ErrInvalidTransition)
	assert.ErrorIs(t, h.ctrl.Resume(), ErrInvalidTransition)
	assert.ErrorIs(t, h.ctrl.Finish(), ErrInvalidTransition)
	assert.ErrorIs(t, h.ctrl.ToggleSubtask("s1"), ErrInvalidTransition)
	_, err := h.ctrl.MarkComplete()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, h.ctrl.Start())
	assert.ErrorIs(t, h.ctrl.Start(), ErrInvalidTransition)
	assert.ErrorIs(t, h.ctrl.SetDuration(1, 0), ErrInvalidTransition)
	assert.ErrorIs(t, h.ctrl.Resume(), ErrInvalidTransition)
}

func TestToggleUnknownSubtask(t *testing.T) {
	h := newHarness(t, testTask())
	require.NoError(t, h.ctrl.Start())
	assert.Error(t, h.ctrl.ToggleSubtask("nope"))
}

func TestWorkingChecklistDoesNotTouchTask(t *testing.T) {
	task := testTask()
	h := newHarness(t, task)
	require.NoError(t, h.ctrl.Start())
	require.NoError(t, h.ctrl.ToggleSubtask("s1"))

	assert.False(t, task.Subtasks[0].IsCompleted)
	assert.False(t, h.ctrl.Task().Subtasks[0].IsCompleted)
	assert.True(t, h.ctrl.Subtasks()[0].IsCompleted)
}

func TestNotifierFailureIsIgnored(t *testing.T) {
	h := newHarness(t, testTask())
	h.notifier.err = errors.New("no display")
	require.NoError(t, h.ctrl.SetDuration(0, 1))
	require.NoError(t, h.ctrl.Start())

	h.clock.AdvanceSeconds(60)
	assert.True(t, h.ctrl.Tick())
	assert.Equal(t, StateReview, h.ctrl.State())
}

func TestRunUntilExpiry(t *testing.T) {
	h := newHarness(t, testTask())
	require.NoError(t, h.ctrl.SetDuration(0, 1))
	require.NoError(t, h.ctrl.Start())

	h.clock.AdvanceSeconds(60)
	h.timers.last().ch <- h.clock.Now()

	ticks := 0
	err := Run(context.Background(), h.ctrl, func(*Controller) { ticks++ })
	require.NoError(t, err)
	assert.Equal(t, 1, ticks)
	assert.Equal(t, StateReview, h.ctrl.State())
}

func TestRunCancelledDiscards(t *testing.T) {
	h := newHarness(t, testTask())
	require.NoError(t, h.ctrl.Start())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, h.ctrl, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateDiscarded, h.ctrl.State())
	assert.Equal(t, 1, h.timers.last().stopped)
}

func TestTickerClosesAfterStop(t *testing.T) {
	tk := NewTicker(time.Millisecond)
	tk.Stop()
	tk.Stop()

	done := make(chan struct{})
	go func() {
		for range tk.C() {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ticker channel was not closed after Stop")
	}
}
