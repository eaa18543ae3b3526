package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/grind/internal/aggregate"
	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/session"
	"github.com/balkashynov/grind/internal/store"
)

// RunSessionTUI runs the interactive focus session for ctrl and commits its
// result. The returned bool is false when the session was discarded.
func RunSessionTUI(s *store.Store, ctrl *session.Controller, goal *models.Goal) (aggregate.Outcome, bool, error) {
	defer ctrl.Close()

	model := NewSessionModel(ctrl, goal)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return aggregate.Outcome{}, false, fmt.Errorf("session ui: %w", err)
	}

	result, ok := ctrl.Result()
	if !ok {
		return aggregate.Outcome{}, false, nil
	}
	out, err := aggregate.Commit(s, ctrl.Task().ID, result)
	if err != nil {
		return aggregate.Outcome{}, false, err
	}
	return out, true, nil
}
