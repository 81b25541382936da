package ui

import "fmt"

// goalProgress maps consumed calories to a bar fraction in [0, 1].
func goalProgress(consumed, goal int) float64 {
	if goal <= 0 || consumed <= 0 {
		return 0
	}
	p := float64(consumed) / float64(goal)
	if p > 1 {
		return 1
	}
	return p
}

// summaryLine renders the headline total, e.g. "1,250 / 2,000 kcal".
func summaryLine(consumed, goal int) string {
	return fmt.Sprintf("%s / %s kcal", formatInt(consumed), formatInt(goal))
}

// remainingLabel describes distance from the goal.
func remainingLabel(remaining int) string {
	switch {
	case remaining < 0:
		return fmt.Sprintf("%s kcal over goal", formatInt(-remaining))
	case remaining == 0:
		return "goal reached"
	default:
		return fmt.Sprintf("%s kcal remaining", formatInt(remaining))
	}
}
