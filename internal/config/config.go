// Package config loads fretiz settings from a TOML file and environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/abhisek/fretiz/internal/flow"
	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/questiongen"
	"github.com/abhisek/fretiz/internal/quiz"
)

// The progressive tracker covers frets 0 through 11.
const (
	minFrets = 12
	maxFrets = 24
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config is the merged fretiz configuration.
type Config struct {
	DBPath    string          `toml:"db" env:"FRETIZ_DB"`
	Log       LogConfig       `toml:"log"`
	Fretboard FretboardConfig `toml:"fretboard"`
	Quiz      QuizConfig      `toml:"quiz"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `toml:"level" env:"FRETIZ_LOG_LEVEL"`
	Format string `toml:"format" env:"FRETIZ_LOG_FORMAT"` // "console" or "json"
	File   string `toml:"file" env:"FRETIZ_LOG_FILE"`
}

// FretboardConfig selects the instrument.
type FretboardConfig struct {
	Tuning string `toml:"tuning" env:"FRETIZ_TUNING"`
	Frets  int    `toml:"frets" env:"FRETIZ_FRETS"`
}

// QuizConfig controls a practice session.
type QuizConfig struct {
	Zone             string        `toml:"zone" env:"FRETIZ_ZONE"`
	TotalQuestions   int           `toml:"total-questions" env:"FRETIZ_TOTAL_QUESTIONS"`
	MaxAttempts      int           `toml:"max-attempts" env:"FRETIZ_MAX_ATTEMPTS"`
	AutoAdvance      bool          `toml:"auto-advance" env:"FRETIZ_AUTO_ADVANCE"`
	AutoAdvanceDelay time.Duration `toml:"auto-advance-delay" env:"FRETIZ_AUTO_ADVANCE_DELAY"`
	Notes            string        `toml:"notes" env:"FRETIZ_NOTES"` // "all", "naturals" or a list like "C,Eb,G"
	Accidentals      string        `toml:"accidentals" env:"FRETIZ_ACCIDENTALS"`
	Progressive      bool          `toml:"progressive" env:"FRETIZ_PROGRESSIVE"`
}

// Default returns the built-in configuration.
func Default() Config {
	fc := flow.DefaultConfig()
	return Config{
		Log: LogConfig{Level: "info", Format: "console"},
		Fretboard: FretboardConfig{
			Tuning: music.StandardTuning.Name,
			Frets:  music.DefaultFrets,
		},
		Quiz: QuizConfig{
			Zone:             "all",
			TotalQuestions:   fc.Quiz.TotalQuestions,
			MaxAttempts:      fc.Quiz.MaxAttempts,
			AutoAdvance:      fc.AutoAdvance,
			AutoAdvanceDelay: fc.AutoAdvanceDelay,
			Notes:            string(questiongen.FilterAll),
			Accidentals:      string(music.AccidentalSharp),
			Progressive:      true,
		},
	}
}

// Load builds a Config from the defaults, the TOML file at path and the
// environment, in that order, and validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := LoadFile(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile decodes the TOML file at path over cfg. Keys absent from the
// file keep their current values. A missing file is not an error.
func LoadFile(path string, cfg *Config) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat config: %w", err)
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalid, path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides cfg with any FRETIZ_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects values no session can run with.
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.Log.Format)
	}

	if _, err := music.TuningByName(c.Fretboard.Tuning); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Fretboard.Frets < minFrets || c.Fretboard.Frets > maxFrets {
		return fmt.Errorf("%w: frets must be between %d and %d, got %d",
			ErrInvalid, minFrets, maxFrets, c.Fretboard.Frets)
	}

	q := c.Quiz
	if q.TotalQuestions < 1 {
		return fmt.Errorf("%w: total-questions must be at least 1, got %d", ErrInvalid, q.TotalQuestions)
	}
	if q.MaxAttempts < 0 {
		return fmt.Errorf("%w: max-attempts must not be negative, got %d", ErrInvalid, q.MaxAttempts)
	}
	if q.AutoAdvanceDelay < 0 {
		return fmt.Errorf("%w: auto-advance-delay must not be negative, got %s", ErrInvalid, q.AutoAdvanceDelay)
	}
	if _, _, err := questiongen.ParseFilter(q.Notes); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch music.AccidentalMode(q.Accidentals) {
	case music.AccidentalSharp, music.AccidentalFlat, music.AccidentalRandom:
	default:
		return fmt.Errorf("%w: accidentals %q", ErrInvalid, q.Accidentals)
	}
	if _, err := c.Zone(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// NewFretboard builds the configured fretboard.
func (c Config) NewFretboard() (*music.Fretboard, error) {
	t, err := music.TuningByName(c.Fretboard.Tuning)
	if err != nil {
		return nil, err
	}
	return music.NewFretboard(t, c.Fretboard.Frets), nil
}

// Zone resolves the configured zone preset on the configured fretboard.
func (c Config) Zone() (*music.PositionSet, error) {
	fb, err := c.NewFretboard()
	if err != nil {
		return nil, err
	}
	return music.ZonePreset(c.Quiz.Zone, fb)
}

// Flow converts the quiz settings into a flow configuration.
func (c Config) Flow() (flow.Config, error) {
	filter, custom, err := questiongen.ParseFilter(c.Quiz.Notes)
	if err != nil {
		return flow.Config{}, err
	}
	fc := flow.DefaultConfig()
	fc.AutoAdvance = c.Quiz.AutoAdvance
	fc.AutoAdvanceDelay = c.Quiz.AutoAdvanceDelay
	fc.Quiz = quiz.Config{MaxAttempts: c.Quiz.MaxAttempts, TotalQuestions: c.Quiz.TotalQuestions}
	fc.Generator.Filter = filter
	fc.Generator.Custom = custom
	fc.Generator.Accidentals = music.AccidentalMode(c.Quiz.Accidentals)
	return fc, nil
}

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGStateHome returns the XDG state home or a default fallback.
func XDGStateHome() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "state")
}

// DefaultConfigPath returns FRETIZ_CONFIG or the XDG config file path.
func DefaultConfigPath() string {
	if p := os.Getenv("FRETIZ_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(XDGConfigHome(), "fretiz", "config.toml")
}

// DefaultLogPath returns the log file used while the TUI owns the screen.
func DefaultLogPath() string {
	return filepath.Join(XDGStateHome(), "fretiz", "fretiz.log")
}
