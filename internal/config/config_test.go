package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/questiongen"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "standard", cfg.Fretboard.Tuning)
	assert.Equal(t, 15, cfg.Fretboard.Frets)
	assert.Equal(t, 10, cfg.Quiz.TotalQuestions)
	assert.Equal(t, 3, cfg.Quiz.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Quiz.AutoAdvanceDelay)
	assert.True(t, cfg.Quiz.AutoAdvance)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
db = "/tmp/fretiz-test.db"

[log]
level = "debug"

[fretboard]
tuning = "drop-d"
frets = 12

[quiz]
zone = "string-6"
total-questions = 5
auto-advance-delay = "1500ms"
notes = "naturals"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/fretiz-test.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format, "unset keys keep defaults")
	assert.Equal(t, "drop-d", cfg.Fretboard.Tuning)
	assert.Equal(t, 12, cfg.Fretboard.Frets)
	assert.Equal(t, "string-6", cfg.Quiz.Zone)
	assert.Equal(t, 5, cfg.Quiz.TotalQuestions)
	assert.Equal(t, 3, cfg.Quiz.MaxAttempts)
	assert.Equal(t, 1500*time.Millisecond, cfg.Quiz.AutoAdvanceDelay)
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfig(t, "[quiz]\nquestions = 5\n")
	_, err := Load(path)
	assert.True(t, errors.Is(err, ErrInvalid), "err = %v", err)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "[quiz\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[quiz]\ntotal-questions = 5\n")
	t.Setenv("FRETIZ_TOTAL_QUESTIONS", "20")
	t.Setenv("FRETIZ_TUNING", "dadgad")
	t.Setenv("FRETIZ_AUTO_ADVANCE", "false")
	t.Setenv("FRETIZ_AUTO_ADVANCE_DELAY", "2s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Quiz.TotalQuestions)
	assert.Equal(t, "dadgad", cfg.Fretboard.Tuning)
	assert.False(t, cfg.Quiz.AutoAdvance)
	assert.Equal(t, 2*time.Second, cfg.Quiz.AutoAdvanceDelay)
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("FRETIZ_TOTAL_QUESTIONS", "lots")
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"tuning", func(c *Config) { c.Fretboard.Tuning = "banjo" }},
		{"too few frets", func(c *Config) { c.Fretboard.Frets = 11 }},
		{"too many frets", func(c *Config) { c.Fretboard.Frets = 25 }},
		{"no questions", func(c *Config) { c.Quiz.TotalQuestions = 0 }},
		{"negative attempts", func(c *Config) { c.Quiz.MaxAttempts = -1 }},
		{"negative delay", func(c *Config) { c.Quiz.AutoAdvanceDelay = -time.Second }},
		{"notes", func(c *Config) { c.Quiz.Notes = "C,H" }},
		{"accidentals", func(c *Config) { c.Quiz.Accidentals = "double" }},
		{"zone", func(c *Config) { c.Quiz.Zone = "string-9" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestValidate_UnlimitedAttempts(t *testing.T) {
	cfg := Default()
	cfg.Quiz.MaxAttempts = 0
	assert.NoError(t, cfg.Validate())
}

func TestFlow(t *testing.T) {
	cfg := Default()
	cfg.Quiz.Notes = "C, Eb, G"
	cfg.Quiz.Accidentals = "flat"
	cfg.Quiz.MaxAttempts = 5
	cfg.Quiz.AutoAdvance = false

	fc, err := cfg.Flow()
	require.NoError(t, err)
	assert.Equal(t, questiongen.FilterCustom, fc.Generator.Filter)
	assert.Equal(t, []music.PitchClass{music.C, music.DSharp, music.G}, fc.Generator.Custom)
	assert.Equal(t, music.AccidentalFlat, fc.Generator.Accidentals)
	assert.Equal(t, 5, fc.Quiz.MaxAttempts)
	assert.Equal(t, 10, fc.Quiz.TotalQuestions)
	assert.False(t, fc.AutoAdvance)
	assert.True(t, fc.Generator.AvoidConsecutiveRepeat)
}

func TestZone(t *testing.T) {
	cfg := Default()
	cfg.Fretboard.Frets = 12
	cfg.Quiz.Zone = "open"
	z, err := cfg.Zone()
	require.NoError(t, err)
	assert.Equal(t, 6, z.Size())
	assert.Equal(t, "open", z.Name())
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_STATE_HOME", "/state")
	t.Setenv("FRETIZ_CONFIG", "")

	assert.Equal(t, filepath.Join("/cfg", "fretiz", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/state", "fretiz", "fretiz.log"), DefaultLogPath())

	t.Setenv("FRETIZ_CONFIG", "/elsewhere.toml")
	assert.Equal(t, "/elsewhere.toml", DefaultConfigPath())
}
