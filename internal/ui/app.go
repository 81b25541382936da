// Package ui provides the Bubble Tea terminal interface for nosh.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/noshapp/nosh/internal/prefs"
	"github.com/noshapp/nosh/internal/suggest"
	"github.com/noshapp/nosh/internal/tracker"
)

// mode identifies which input surface owns the keyboard.
type mode int

const (
	modeBrowse mode = iota
	modeGoal
	modeEntry
	modeSuggest
)

// Options configures the UI.
type Options struct {
	Context     context.Context
	Store       *tracker.Store
	Title       string
	Suggestions []suggest.Suggestion
	ThemeName   string
	PrefsPath   string
	Logger      *slog.Logger
}

// stateChangedMsg tells the model to take a fresh snapshot.
type stateChangedMsg struct{}

// Model is the root application state for Bubble Tea.
type Model struct {
	store       *tracker.Store
	title       string
	suggestions []suggest.Suggestion
	prefsPath   string
	logger      *slog.Logger

	theme  Theme
	styles Styles
	keys   keyMap
	gauge  progress.Model

	width  int
	height int
	ready  bool

	snapshot tracker.Snapshot
	selected int

	mode       mode
	showHelp   bool
	goalForm   goalForm
	entryForm  entryForm
	suggestIdx int
}

// New creates the root model.
func New(opts Options) Model {
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = themeOrder[0]
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		store:       opts.Store,
		title:       opts.Title,
		suggestions: opts.Suggestions,
		prefsPath:   prefsPath,
		logger:      logger,
		keys:        DefaultKeyMap(),
	}
	m.applyTheme(GetTheme(themeName))
	if opts.Store != nil {
		m.snapshot = opts.Store.Snapshot()
	}
	return m
}

// Run starts the UI and blocks until the user quits or the context is
// cancelled.
func Run(opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("ui requires a tracker store")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	p := tea.NewProgram(New(opts), tea.WithContext(ctx))

	// Mutations made by the UI itself refresh their snapshot inline;
	// this subscription covers changes arriving from the data dir
	// watcher. The goroutine keeps a mutating caller from blocking on
	// the event loop.
	opts.Store.Subscribe(func() {
		go p.Send(stateChangedMsg{})
	})

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.gauge.Width = gaugeWidth(msg.Width)
		return m, nil

	case stateChangedMsg:
		m.snapshot = m.store.Snapshot()
		m.clampSelection()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	sections := []string{
		m.renderHeader(),
		m.renderSummary(),
		m.renderLog(),
	}
	switch m.mode {
	case modeGoal:
		sections = append(sections, m.goalForm.view(m.styles))
	case modeEntry:
		sections = append(sections, m.entryForm.view(m.styles))
	case modeSuggest:
		sections = append(sections, m.renderSuggestions())
	}
	sections = append(sections, m.renderFooter())

	return joinSections(sections)
}

// handleKey routes keyboard input to whichever surface owns it.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch m.mode {
	case modeGoal:
		return m.handleGoalKey(msg)
	case modeEntry:
		return m.handleEntryKey(msg)
	case modeSuggest:
		return m.handleSuggestKey(msg)
	}
	return m.handleBrowseKey(msg)
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.applyTheme(GetTheme(NextTheme(m.theme.Name)))
		if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
			m.logger.Warn("save prefs failed", slog.String("error", err.Error()))
		}

	case key.Matches(msg, m.keys.EditGoal):
		m.goalForm = newGoalForm(m.snapshot.Goal)
		m.mode = modeGoal
		return m, textinput.Blink

	case key.Matches(msg, m.keys.AddItem):
		m.entryForm = newEntryForm("", "")
		m.mode = modeEntry
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Suggestions):
		if len(m.suggestions) > 0 {
			m.mode = modeSuggest
		}

	case key.Matches(msg, m.keys.Delete):
		if len(m.snapshot.Entries) > 0 {
			m.store.RemoveEntry(m.snapshot.Entries[m.selected].ID)
			m.snapshot = m.store.Snapshot()
			m.clampSelection()
		}

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = max(0, len(m.snapshot.Entries)-1)
	}
	return m, nil
}

func (m Model) handleSuggestKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Suggestions):
		m.mode = modeBrowse

	case key.Matches(msg, m.keys.Up):
		if m.suggestIdx > 0 {
			m.suggestIdx--
		}
	case key.Matches(msg, m.keys.Down):
		if m.suggestIdx < len(m.suggestions)-1 {
			m.suggestIdx++
		}
	case key.Matches(msg, m.keys.Top):
		m.suggestIdx = 0
	case key.Matches(msg, m.keys.Bottom):
		m.suggestIdx = max(0, len(m.suggestions)-1)

	case key.Matches(msg, m.keys.Confirm):
		s := m.suggestions[m.suggestIdx]
		m.entryForm = newEntryForm(s.Name, fmt.Sprintf("%d", s.Calories))
		m.mode = modeEntry
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) applyTheme(t Theme) {
	m.theme = t
	m.styles = t.Styles()
	m.gauge = progress.New(progress.WithGradient(t.GaugeStart, t.GaugeEnd))
	if m.width > 0 {
		m.gauge.Width = gaugeWidth(m.width)
	}
}

func (m *Model) moveSelection(delta int) {
	m.selected += delta
	m.clampSelection()
}

func (m *Model) clampSelection() {
	if m.selected >= len(m.snapshot.Entries) {
		m.selected = len(m.snapshot.Entries) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// gaugeWidth sizes the progress bar to the window, within reason.
func gaugeWidth(windowWidth int) int {
	w := windowWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 10 {
		w = 10
	}
	return w
}
