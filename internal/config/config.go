package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields nosh reads from its config file.
type Config struct {
	DataDir     string
	Title       string
	Suggestions string // optional path to a user suggestion list
}

const (
	defaultConfigPath = "~/.config/nosh/config.toml"
	defaultDataDir    = "~/.local/share/nosh"
	defaultTitle      = "Calorie Tracker"
)

// Load locates and parses the nosh config, falling back to defaults when
// the file is missing or a field is empty.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{DataDir: defaultDataDir, Title: defaultTitle}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.DataDir = mustExpand(defaultDataDir)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		DataDir     string `toml:"data_dir"`
		Title       string `toml:"title"`
		Suggestions string `toml:"suggestions"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.DataDir = strings.TrimSpace(raw.DataDir)
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}
	cfg.DataDir = mustExpand(cfg.DataDir)

	cfg.Title = strings.TrimSpace(raw.Title)
	if cfg.Title == "" {
		cfg.Title = defaultTitle
	}

	cfg.Suggestions = strings.TrimSpace(raw.Suggestions)
	if cfg.Suggestions != "" {
		cfg.Suggestions = mustExpand(cfg.Suggestions)
	}

	return cfg, nil
}

// LogPath returns the path of the application log file. Diagnostics go
// there because the terminal belongs to the TUI.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir + "/nosh.log")
	}
	return filepath.Join(c.DataDir, "nosh.log")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
