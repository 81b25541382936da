// Package suggest supplies the static food suggestion list shown in the
// UI. A default list ships embedded in the binary; users may point the
// config at their own YAML file, which replaces the defaults wholesale.
package suggest

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed suggestions.yaml
var embedded []byte

// Suggestion is one quick-add item. The list is immutable and its order
// is the display order.
type Suggestion struct {
	Name     string `yaml:"name"`
	Calories int    `yaml:"calories"`
}

// Display renders the suggestion as a single line for the list pane.
func (s Suggestion) Display() string {
	return fmt.Sprintf("%s (%d kcal)", s.Name, s.Calories)
}

// Load returns the suggestion list. When path is non-empty it is read as
// a YAML file; an unreadable or undecodable file logs a diagnostic and
// falls back to the embedded defaults.
func Load(path string, logger *slog.Logger) []Suggestion {
	if logger == nil {
		logger = slog.Default()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("suggestions file unreadable, using defaults",
				slog.String("path", path), slog.String("error", err.Error()))
		} else {
			list, err := parse(data)
			if err != nil {
				logger.Warn("suggestions file invalid, using defaults",
					slog.String("path", path), slog.String("error", err.Error()))
			} else {
				return list
			}
		}
	}

	list, err := parse(embedded)
	if err != nil {
		// The embedded file is covered by tests; reaching this means a
		// broken build.
		logger.Error("embedded suggestions invalid", slog.String("error", err.Error()))
		return nil
	}
	return list
}

func parse(data []byte) ([]Suggestion, error) {
	var doc struct {
		Suggestions []Suggestion `yaml:"suggestions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}
	return doc.Suggestions, nil
}
