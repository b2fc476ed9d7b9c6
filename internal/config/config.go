// Package config loads studybot settings from a TOML file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/rcliao/studybot/internal/render"
)

// Config holds runtime settings.
type Config struct {
	DBPath      string
	DefaultUser int64
	Templates   render.Templates
}

type tomlConfig struct {
	DBPath        string `toml:"db_path"`
	DefaultUser   int64  `toml:"default_user"`
	Greeting      string `toml:"greeting"`
	SubjectAdded  string `toml:"subject_added"`
	HomeworkAdded string `toml:"homework_added"`
}

// DefaultDir returns ~/.config/studybot.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "studybot")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.toml")
}

// Load reads the TOML file at path (a missing file is fine), then applies
// STUDYBOT_DB and STUDYBOT_USER from the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{
		DBPath:      filepath.Join(DefaultDir(), "studybot.db"),
		DefaultUser: 1,
		Templates:   render.DefaultTemplates(),
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			var tc tomlConfig
			if _, err := toml.DecodeFile(path, &tc); err != nil {
				return nil, fmt.Errorf("decode %s: %w", path, err)
			}
			if tc.DBPath != "" {
				cfg.DBPath = tc.DBPath
			}
			if tc.DefaultUser != 0 {
				cfg.DefaultUser = tc.DefaultUser
			}
			cfg.Templates = cfg.Templates.WithOverrides(render.Templates{
				Greeting:      tc.Greeting,
				SubjectAdded:  tc.SubjectAdded,
				HomeworkAdded: tc.HomeworkAdded,
			})
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	if env := os.Getenv("STUDYBOT_DB"); env != "" {
		cfg.DBPath = env
	}
	if env := os.Getenv("STUDYBOT_USER"); env != "" {
		id, err := strconv.ParseInt(env, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("STUDYBOT_USER: %w", err)
		}
		cfg.DefaultUser = id
	}

	return cfg, nil
}
