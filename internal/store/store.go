package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/balkashynov/grind/internal/models"
)

var (
	// ErrNotFound is returned when a goal or task id does not resolve
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned when an insert would reuse an existing id
	ErrDuplicateID = errors.New("duplicate id")
)

// persistTimeout bounds a single write to the durable store
const persistTimeout = 5 * time.Second

// Persister is the durable side of the store. Each call replaces the whole collection.
type Persister interface {
	LoadTasks(ctx context.Context) ([]models.Task, error)
	LoadGoals(ctx context.Context) ([]models.Goal, error)
	SaveTasks(ctx context.Context, tasks []models.Task) error
	SaveGoals(ctx context.Context, goals []models.Goal) error
}

// Store owns the authoritative goal and task collections.
// All mutation goes through its methods; readers always receive copies.
type Store struct {
	mu        sync.Mutex
	tasks     []models.Task
	goals     []models.Goal
	persister Persister
	log       zerolog.Logger
	newID     func() string
	now       func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for persistence warnings
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithIDGenerator overrides uuid-based id generation
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithClock overrides the time source used for createdAt
func WithClock(fn func() time.Time) Option {
	return func(s *Store) { s.now = fn }
}

// New creates an empty store. A nil persister keeps everything in memory.
func New(p Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		log:       zerolog.Nop(),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces in-memory state with what the persister holds
func (s *Store) Load(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	tasks, err := s.persister.LoadTasks(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	goals, err := s.persister.LoadGoals(ctx)
	if err != nil {
		return fmt.Errorf("load goals: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
	s.goals = goals
	s.log.Debug().Int("tasks", len(tasks)).Int("goals", len(goals)).Msg("store loaded")
	return nil
}

// NewID returns a fresh unique identifier
func (s *Store) NewID() string {
	return s.newID()
}

// Apply runs fn against a working copy of the store and commits it only if fn succeeds.
// Nothing fn does is observable until it returns nil.
func (s *Store) Apply(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{
		tasks: cloneTasks(s.tasks),
		goals: append([]models.Goal(nil), s.goals...),
		newID: s.newID,
		now:   s.now,
	}
	if err := fn(tx); err != nil {
		return err
	}

	if tx.tasksDirty {
		s.tasks = tx.tasks
	}
	if tx.goalsDirty {
		s.goals = tx.goals
	}
	s.persist(tx.tasksDirty, tx.goalsDirty)
	return nil
}

// persist writes the changed collections. Failures are logged, never returned.
func (s *Store) persist(tasks, goals bool) {
	if s.persister == nil || (!tasks && !goals) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if tasks {
		if err := s.persister.SaveTasks(ctx, cloneTasks(s.tasks)); err != nil {
			s.log.Warn().Err(err).Msg("failed to persist tasks")
		}
	}
	if goals {
		if err := s.persister.SaveGoals(ctx, append([]models.Goal(nil), s.goals...)); err != nil {
			s.log.Warn().Err(err).Msg("failed to persist goals")
		}
	}
}

// Tasks returns every task in store order
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

// Goals returns every goal in store order
func (s *Store) Goals() []models.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Goal(nil), s.goals...)
}

// Task finds a task by id
func (s *Store) Task(id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t.Clone(), nil
		}
	}
	return models.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
}

// Goal finds a goal by id
func (s *Store) Goal(id string) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.goals {
		if g.ID == id {
			return g, nil
		}
	}
	return models.Goal{}, fmt.Errorf("goal %s: %w", id, ErrNotFound)
}

// FindTasks returns tasks matching pred in store order
func (s *Store) FindTasks(pred func(models.Task) bool) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, t := range s.tasks {
		if pred(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// TasksForGoal returns tasks linked to goalID
func (s *Store) TasksForGoal(goalID string) []models.Task {
	return s.FindTasks(func(t models.Task) bool { return t.LinkedGoalID == goalID })
}

// ActiveTasks returns tasks outside the backlog
func (s *Store) ActiveTasks() []models.Task {
	return s.FindTasks(func(t models.Task) bool { return !t.IsBacklog })
}

// BacklogTasks returns tasks filed in the backlog
func (s *Store) BacklogTasks() []models.Task {
	return s.FindTasks(func(t models.Task) bool { return t.IsBacklog })
}

// ResolveTaskID expands a unique id prefix into the full task id
func (s *Store) ResolveTaskID(prefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.tasks))
	for _, t := range s.tasks {
		ids = append(ids, t.ID)
	}
	return MatchID("task", prefix, ids)
}

// ResolveGoalID expands a unique id prefix into the full goal id
func (s *Store) ResolveGoalID(prefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.goals))
	for _, g := range s.goals {
		ids = append(ids, g.ID)
	}
	return MatchID("goal", prefix, ids)
}

// MatchID expands prefix against ids. An exact id always wins; otherwise
// the prefix must select exactly one id.
func MatchID(kind, prefix string, ids []string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("%s id is required", kind)
	}
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
	}
	var match string
	for _, id := range ids {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("%s id %q is ambiguous", kind, prefix)
		}
		match = id
	}
	if match == "" {
		return "", fmt.Errorf("%s %s: %w", kind, prefix, ErrNotFound)
	}
	return match, nil
}

func cloneTasks(tasks []models.Task) []models.Task {
	if tasks == nil {
		return nil
	}
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
