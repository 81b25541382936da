package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) renderHeader() string {
	left := m.styles.Header.Bold(true).Render(m.title)
	right := m.styles.Header.Render(time.Now().Format("Mon Jan 2"))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderFooter() string {
	var hints []string
	for _, b := range m.keys.ShortHelp() {
		hints = append(hints, fmt.Sprintf("%s %s", b.Help().Key, b.Help().Desc))
	}
	return m.styles.Footer.Render(strings.Join(hints, "  ·  "))
}

// renderSummary shows the day's total against the goal.
func (m Model) renderSummary() string {
	snap := m.snapshot

	line := m.styles.Text.Render(summaryLine(snap.Consumed(), snap.Goal))
	bar := m.gauge.ViewAs(goalProgress(snap.Consumed(), snap.Goal))

	label := remainingLabel(snap.Remaining())
	var status string
	switch {
	case snap.Remaining() < 0:
		status = m.styles.DangerText.Render(label)
	case snap.Remaining() == 0:
		status = m.styles.SuccessText.Render(label)
	default:
		status = m.styles.MutedText.Render(label)
	}

	return m.styles.Panel.Render(line + "\n" + bar + "\n" + status)
}

// renderLog shows the food log with the current selection highlighted.
func (m Model) renderLog() string {
	entries := m.snapshot.Entries
	if len(entries) == 0 {
		empty := m.styles.FaintText.Render("Nothing logged yet. Press a to add an item, s for suggestions.")
		return m.styles.Panel.Render(empty)
	}

	nameWidth := logNameWidth(m.width)
	rows := make([]string, 0, len(entries))
	for i, e := range entries {
		row := entryRow(e.Name, e.Calories, nameWidth)
		if i == m.selected && m.mode == modeBrowse {
			row = m.styles.Selected.Render(row)
		} else {
			row = m.styles.Text.Render(row)
		}
		rows = append(rows, row)
	}
	return m.styles.Panel.Render(strings.Join(rows, "\n"))
}

func (m Model) renderSuggestions() string {
	lines := []string{m.styles.AccentText.Bold(true).Render("Suggestions")}
	for i, s := range m.suggestions {
		line := s.Display()
		if i == m.suggestIdx {
			line = m.styles.Selected.Render(line)
		} else {
			line = m.styles.MutedText.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, m.styles.FaintText.Render("enter prefill · esc close"))
	return m.styles.FocusPanel.Render(strings.Join(lines, "\n"))
}

// entryRow lays out one log line: name left, calories right.
func entryRow(name string, calories int, nameWidth int) string {
	return fmt.Sprintf("%s  %9s kcal", padRight(truncate(name, nameWidth), nameWidth), formatInt(calories))
}

// logNameWidth leaves room for the calorie column.
func logNameWidth(windowWidth int) int {
	w := windowWidth - 22
	if w > 48 {
		w = 48
	}
	if w < 12 {
		w = 12
	}
	return w
}

func joinSections(sections []string) string {
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
