// Package ui renders the single-screen nosh interface: a progress
// summary against the daily goal, the food log, and small inline forms
// for setting the goal and adding items. All state lives in the tracker
// store; the UI holds only view state (selection, active form, theme).
package ui
