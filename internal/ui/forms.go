package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/noshapp/nosh/internal/tracker"
)

// Inline validation messages. The forms run the same validators as the
// store, so a submission that passes here is accepted there.
const (
	errGoalInvalid     = "Enter a number greater than zero."
	errNameRequired    = "Name is required."
	errCaloriesInvalid = "Calories must be a number, zero or more."
)

// goalForm edits the daily calorie goal.
type goalForm struct {
	input  textinput.Model
	errMsg string
}

func newGoalForm(current int) goalForm {
	input := textinput.New()
	input.Placeholder = "e.g. 2000"
	input.CharLimit = 6
	input.Width = 12
	if current > 0 {
		input.SetValue(strconv.Itoa(current))
	}
	input.Focus()
	return goalForm{input: input}
}

func (f goalForm) view(styles Styles) string {
	lines := []string{
		styles.AccentText.Bold(true).Render("Set daily goal (kcal)"),
		f.input.View(),
	}
	if f.errMsg != "" {
		lines = append(lines, styles.DangerText.Render(f.errMsg))
	}
	lines = append(lines, styles.FaintText.Render("enter save · esc cancel"))
	return styles.FocusPanel.Render(strings.Join(lines, "\n"))
}

func (m Model) handleGoalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = modeBrowse
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		candidate, err := parseNumber(m.goalForm.input.Value())
		if err != nil || !tracker.IsPositiveNumber(candidate) {
			m.goalForm.errMsg = errGoalInvalid
			return m, nil
		}
		m.store.SetGoal(candidate)
		m.snapshot = m.store.Snapshot()
		m.mode = modeBrowse
		return m, nil
	}

	var cmd tea.Cmd
	m.goalForm.input, cmd = m.goalForm.input.Update(msg)
	m.goalForm.errMsg = ""
	return m, cmd
}

// entryForm adds one food item to the log.
type entryForm struct {
	name     textinput.Model
	calories textinput.Model
	focusIdx int
	errMsg   string
}

func newEntryForm(name, calories string) entryForm {
	nameInput := textinput.New()
	nameInput.Placeholder = "e.g. Mixed Nuts"
	nameInput.CharLimit = 60
	nameInput.Width = 30
	nameInput.SetValue(name)
	nameInput.Focus()

	calInput := textinput.New()
	calInput.Placeholder = "e.g. 180"
	calInput.CharLimit = 6
	calInput.Width = 12
	calInput.SetValue(calories)

	return entryForm{name: nameInput, calories: calInput}
}

func (f *entryForm) focusField(idx int) {
	f.focusIdx = idx
	if idx == 0 {
		f.name.Focus()
		f.calories.Blur()
	} else {
		f.name.Blur()
		f.calories.Focus()
	}
}

func (f entryForm) view(styles Styles) string {
	lines := []string{
		styles.AccentText.Bold(true).Render("Add food item"),
		styles.MutedText.Render("Name     ") + f.name.View(),
		styles.MutedText.Render("Calories ") + f.calories.View(),
	}
	if f.errMsg != "" {
		lines = append(lines, styles.DangerText.Render(f.errMsg))
	}
	lines = append(lines, styles.FaintText.Render("enter add · tab next field · esc cancel"))
	return styles.FocusPanel.Render(strings.Join(lines, "\n"))
}

func (m Model) handleEntryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = modeBrowse
		return m, nil

	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		m.entryForm.focusField((m.entryForm.focusIdx + 1) % 2)
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		// Enter on the name field moves on; enter on calories submits.
		if m.entryForm.focusIdx == 0 {
			m.entryForm.focusField(1)
			return m, nil
		}
		return m.submitEntry()
	}

	var cmd tea.Cmd
	if m.entryForm.focusIdx == 0 {
		m.entryForm.name, cmd = m.entryForm.name.Update(msg)
	} else {
		m.entryForm.calories, cmd = m.entryForm.calories.Update(msg)
	}
	m.entryForm.errMsg = ""
	return m, cmd
}

func (m Model) submitEntry() (tea.Model, tea.Cmd) {
	name := m.entryForm.name.Value()
	if !tracker.IsNonEmptyString(name) {
		m.entryForm.errMsg = errNameRequired
		m.entryForm.focusField(0)
		return m, nil
	}

	calories, err := parseNumber(m.entryForm.calories.Value())
	if err != nil || !tracker.IsCalorieCount(calories) {
		m.entryForm.errMsg = errCaloriesInvalid
		m.entryForm.focusField(1)
		return m, nil
	}

	if _, ok := m.store.AddEntry(name, calories); ok {
		m.snapshot = m.store.Snapshot()
		m.selected = max(0, len(m.snapshot.Entries)-1)
		m.mode = modeBrowse
	} else {
		// The store is the authority; if it still said no, surface a
		// generic message rather than pretend success.
		m.entryForm.errMsg = errCaloriesInvalid
	}
	return m, nil
}

// parseNumber parses trimmed user input as a float. An empty string is
// an error, not zero.
func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
