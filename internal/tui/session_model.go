package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/grind/internal/models"
	"github.com/balkashynov/grind/internal/parser"
	"github.com/balkashynov/grind/internal/session"
)

// SessionModel is the TUI model for one focus session
type SessionModel struct {
	width  int
	height int

	ctrl *session.Controller
	task models.Task
	goal *models.Goal

	// Setup inputs
	inputs     []textinput.Model
	focusInput int

	// Review / checklist cursor
	cursor int

	bar  progress.Model
	help help.Model
	keys keyMap
	err  error
}

// tickMsg carries the channel it came from so ticks from a released
// tick source are recognised and dropped
type tickMsg struct {
	ch <-chan time.Time
}

type keyMap struct {
	Start    key.Binding
	Next     key.Binding
	Pause    key.Binding
	Finish   key.Binding
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Save     key.Binding
	Complete key.Binding
	Discard  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Start:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
		Next:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "hours/minutes")),
		Pause:    key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p/space", "pause/resume")),
		Finish:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish early")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "check subtask")),
		Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save progress")),
		Complete: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "mark complete")),
		Discard:  key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "discard")),
	}
}

// NewSessionModel creates the model for a controller still in SETUP.
// goal may be nil for unlinked tasks.
func NewSessionModel(ctrl *session.Controller, goal *models.Goal) SessionModel {
	planned := ctrl.PlannedSeconds() / 60

	hours := textinput.New()
	hours.Placeholder = "0"
	hours.CharLimit = len(strconv.Itoa(session.MaxDurationMinutes / 60))
	hours.Width = 5
	hours.SetValue(strconv.Itoa(planned / 60))
	hours.Focus()

	minutes := textinput.New()
	minutes.Placeholder = "0"
	minutes.CharLimit = 2
	minutes.Width = 4
	minutes.SetValue(strconv.Itoa(planned % 60))

	return SessionModel{
		ctrl:   ctrl,
		task:   ctrl.Task(),
		goal:   goal,
		inputs: []textinput.Model{hours, minutes},
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the model
func (m SessionModel) Init() tea.Cmd {
	return textinput.Blink
}

// waitForTick blocks on the tick source. A closed channel yields no message.
func waitForTick(ch <-chan time.Time) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return tickMsg{ch: ch}
	}
}

// Update handles messages
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(msg.Width-10, 60)
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if msg.ch != m.ctrl.Ticks() {
			return m, nil // stale tick from a released source
		}
		if m.ctrl.Tick() {
			m.cursor = 0
			return m, nil
		}
		return m, waitForTick(msg.ch)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Discard) {
			_ = m.ctrl.Discard()
			return m, tea.Quit
		}
		switch m.ctrl.State() {
		case session.StateSetup:
			return m.updateSetup(msg)
		case session.StateRunning, session.StatePaused:
			return m.updateRunning(msg)
		case session.StateReview:
			return m.updateReview(msg)
		}
	}

	if m.ctrl.State() == session.StateSetup {
		var cmd tea.Cmd
		m.inputs[m.focusInput], cmd = m.inputs[m.focusInput].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m SessionModel) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next):
		m.inputs[m.focusInput].Blur()
		m.focusInput = (m.focusInput + 1) % len(m.inputs)
		return m, m.inputs[m.focusInput].Focus()

	case key.Matches(msg, m.keys.Start):
		hours, errH := readNumber(m.inputs[0].Value())
		minutes, errM := readNumber(m.inputs[1].Value())
		if errH != nil || errM != nil {
			m.err = fmt.Errorf("hours and minutes must be whole numbers")
			return m, nil
		}
		if err := m.ctrl.SetDuration(hours, minutes); err != nil {
			m.err = err
			return m, nil
		}
		if err := m.ctrl.Start(); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		return m, waitForTick(m.ctrl.Ticks())
	}

	var cmd tea.Cmd
	m.inputs[m.focusInput], cmd = m.inputs[m.focusInput].Update(msg)
	return m, cmd
}

func (m SessionModel) updateRunning(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Pause):
		if err := m.ctrl.TogglePause(); err != nil {
			m.err = err
			return m, nil
		}
		return m, waitForTick(m.ctrl.Ticks())
	case key.Matches(msg, m.keys.Finish):
		if err := m.ctrl.Finish(); err != nil {
			m.err = err
		}
		m.cursor = 0
		return m, nil
	default:
		m.moveOrToggle(msg)
	}
	return m, nil
}

func (m SessionModel) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		if _, err := m.ctrl.SaveProgress(); err != nil {
			m.err = err
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Complete):
		if _, err := m.ctrl.MarkComplete(); err != nil {
			m.err = err
			return m, nil
		}
		return m, tea.Quit
	default:
		m.moveOrToggle(msg)
	}
	return m, nil
}

// moveOrToggle handles checklist navigation shared by running and review
func (m *SessionModel) moveOrToggle(msg tea.KeyMsg) {
	subtasks := m.ctrl.Subtasks()
	if len(subtasks) == 0 {
		return
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(subtasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle), m.ctrl.State() == session.StateReview && msg.String() == " ":
		if err := m.ctrl.ToggleSubtask(subtasks[m.cursor].ID); err != nil {
			m.err = err
		}
	}
}

func readNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return n, nil
}

// View renders the session screen
func (m SessionModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var body string
	switch m.ctrl.State() {
	case session.StateSetup:
		body = m.renderSetup()
	case session.StateRunning, session.StatePaused:
		body = m.renderRunning()
	default:
		body = m.renderReview()
	}

	if m.err != nil {
		body = lipgloss.JoinVertical(lipgloss.Center, body, "", errorStyle.Render("⚠ "+m.err.Error()))
	}

	helpBar := lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center).
		Render(m.help.ShortHelpView(m.bindings()))

	content := lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, body)
	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

func (m SessionModel) bindings() []key.Binding {
	switch m.ctrl.State() {
	case session.StateSetup:
		return []key.Binding{m.keys.Next, m.keys.Start, m.keys.Discard}
	case session.StateRunning, session.StatePaused:
		return []key.Binding{m.keys.Pause, m.keys.Finish, m.keys.Toggle, m.keys.Discard}
	default:
		return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Toggle, m.keys.Save, m.keys.Complete, m.keys.Discard}
	}
}

func (m SessionModel) renderHeader(label string) string {
	lines := []string{headerStyle.Render(label), titleStyle.Render(m.task.Title)}
	meta := fmt.Sprintf("%s · planned %s · logged %s", m.task.Category,
		parser.FormatMinutes(m.task.PlannedDurationMinutes), parser.FormatMinutes(m.task.ActualDurationMinutes))
	lines = append(lines, mutedStyle.Render(meta))
	if m.goal != nil {
		p := m.goal.Progress(time.Now())
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("🎯 %s · %.2fh / %.0fh (%.0f%%)",
			m.goal.Title, m.goal.LoggedHours, m.goal.TargetHours, p.Percent)))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m SessionModel) renderSetup() string {
	form := lipgloss.JoinHorizontal(lipgloss.Center,
		m.inputs[0].View(), " h   ", m.inputs[1].View(), " m")
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		m.renderHeader("⏲  NEW FOCUS SESSION"),
		"",
		"How long do you want to focus?",
		"",
		form,
	))
}

func (m SessionModel) renderRunning() string {
	label := "⏱  FOCUSING"
	style := clockStyle
	if m.ctrl.State() == session.StatePaused {
		label = "⏸  PAUSED"
		style = pausedClockStyle
	}

	planned := m.ctrl.PlannedSeconds()
	fraction := 0.0
	if planned > 0 {
		fraction = float64(m.ctrl.ElapsedSeconds()) / float64(planned)
	}

	parts := []string{
		m.renderHeader(label),
		"",
		renderBigClock(time.Duration(m.ctrl.RemainingSeconds())*time.Second, style),
		"",
		m.bar.ViewAs(fraction),
		mutedStyle.Render(fmt.Sprintf("elapsed %s", formatClock(m.ctrl.ElapsedSeconds()))),
	}
	if checklist := m.renderChecklist(false); checklist != "" {
		parts = append(parts, "", checklist)
	}
	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}

func (m SessionModel) renderReview() string {
	minutes := (m.ctrl.ElapsedSeconds() + 59) / 60
	parts := []string{
		m.renderHeader("✔  SESSION REVIEW"),
		"",
		fmt.Sprintf("You focused for %s, %s will be logged.",
			formatClock(m.ctrl.ElapsedSeconds()), parser.FormatMinutes(minutes)),
	}
	if checklist := m.renderChecklist(true); checklist != "" {
		parts = append(parts, "", checklist)
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Center, parts...))
}

func (m SessionModel) renderChecklist(showCursor bool) string {
	subtasks := m.ctrl.Subtasks()
	if len(subtasks) == 0 {
		return ""
	}
	var b strings.Builder
	for i, s := range subtasks {
		pointer := "  "
		if i == m.cursor && (showCursor || m.ctrl.State() != session.StateReview) {
			pointer = cursorStyle.Render("› ")
		}
		box := "[ ] " + s.Title
		if s.IsCompleted {
			box = doneStyle.Render("[x] " + s.Title)
		}
		if s.AllocatedMinutes > 0 {
			box += mutedStyle.Render(" (" + parser.FormatMinutes(s.AllocatedMinutes) + ")")
		}
		b.WriteString(pointer + box)
		if i < len(subtasks)-1 {
			b.WriteString("\n")
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, headerStyle.Render("Subtasks"), b.String())
}

func formatClock(seconds int) string {
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	mnt := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, mnt, s)
	}
	return fmt.Sprintf("%02d:%02d", mnt, s)
}

// bigDigits is a 5-row block font for the countdown
var bigDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// renderBigClock renders d in the block font
func renderBigClock(d time.Duration, style lipgloss.Style) string {
	var rows [5]strings.Builder
	for _, r := range formatClock(int(d.Seconds())) {
		glyph, ok := bigDigits[r]
		if !ok {
			continue
		}
		for i := range rows {
			rows[i].WriteString(glyph[i])
			rows[i].WriteString(" ")
		}
	}
	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = style.Render(rows[i].String())
	}
	return strings.Join(lines, "\n")
}
