package tracker

import (
	"math"
	"strings"
)

// IsPositiveNumber reports whether v is a finite number strictly greater
// than zero.
func IsPositiveNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// IsNonEmptyString reports whether s trims to a non-empty string.
func IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsCalorieCount reports whether v is a finite number greater than or
// equal to zero. Zero-calorie items (water, black coffee) are legitimate.
func IsCalorieCount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
