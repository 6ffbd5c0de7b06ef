package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

// Snapshot format versions. Anything older than SnapshotVersion is read as
// the legacy single-string shape.
const (
	SnapshotVersion       = "v2.0.0"
	LegacySnapshotVersion = "v1.0.0"
)

// ErrSnapshotInvalid is returned when snapshot JSON fails to parse or
// validate.
var ErrSnapshotInvalid = errors.New("invalid snapshot")

// SnapshotData is the decoded learner state. Exactly one of Mastery and
// Legacy is set after DecodeSnapshot; the mastery tracker migrates Legacy
// once on load.
type SnapshotData struct {
	Version string
	Mastery *MasterySnapshotData
	Legacy  *LegacySnapshotData
}

// MasteryConfigData is the persisted form of the tracker configuration.
// Durations are stored in seconds.
type MasteryConfigData struct {
	MinAttemptsToUnlock         int     `json:"min_attempts_to_unlock"`
	AccuracyThreshold           float64 `json:"accuracy_threshold"`
	AverageTimeThreshold        float64 `json:"average_time_threshold"`
	MaxAnswerTimeToCount        float64 `json:"max_answer_time_to_count"`
	CurrentStringProbability    float64 `json:"current_string_probability"`
	MinAttemptsForLearned       int     `json:"min_attempts_for_learned"`
	UnlearnedNoteWeight         float64 `json:"unlearned_note_weight"`
	StrugglingAccuracyThreshold float64 `json:"struggling_accuracy_threshold"`
	LowAccuracyWeight           float64 `json:"low_accuracy_weight"`
	MasteredWeight              float64 `json:"mastered_weight"`
}

// NotePerformanceData is the ledger for one (string, fret) position.
type NotePerformanceData struct {
	Attempts        int       `json:"attempts"`
	Correct         int       `json:"correct"`
	AnswerTimes     []float64 `json:"answer_times"`
	LastAttemptTime *string   `json:"last_attempt_time,omitempty"` // RFC3339
}

// MasterySnapshotData is the current multi-string tracker state.
type MasterySnapshotData struct {
	Config MasteryConfigData `json:"config"`
	// Performance is keyed by string number, then fret.
	Performance        map[int]map[int]*NotePerformanceData `json:"performance"`
	UnlockedFrets      map[int]int                          `json:"unlocked_frets"`
	CurrentStringIndex int                                  `json:"current_string_index"`
}

// LegacySnapshotData is the v1 shape: a single-string ledger keyed by fret.
type LegacySnapshotData struct {
	Config        MasteryConfigData            `json:"config"`
	Performance   map[int]*NotePerformanceData `json:"performance"`
	UnlockedFrets int                          `json:"unlocked_frets"`
}

type masteryWire struct {
	Version string `json:"version"`
	*MasterySnapshotData
}

type legacyWire struct {
	Version string `json:"version"`
	*LegacySnapshotData
}

// EncodeSnapshot serializes the current tracker state. Legacy data is
// never written back.
func EncodeSnapshot(data *SnapshotData) ([]byte, error) {
	if data == nil || data.Mastery == nil {
		return nil, fmt.Errorf("%w: no mastery state", ErrSnapshotInvalid)
	}
	b, err := json.Marshal(masteryWire{Version: SnapshotVersion, MasterySnapshotData: data.Mastery})
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return b, nil
}

// DecodeSnapshot parses and validates snapshot JSON. Snapshots without a
// version, or with one older than SnapshotVersion, decode into Legacy.
func DecodeSnapshot(raw []byte) (*SnapshotData, error) {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}

	version := LegacySnapshotVersion
	if obj, ok := parsed.(map[string]any); ok {
		if v, ok := obj["version"].(string); ok && semver.IsValid(v) {
			version = v
		}
	}

	if semver.Compare(version, SnapshotVersion) < 0 {
		if err := validateSnapshot(legacySchemaName, parsed); err != nil {
			return nil, err
		}
		w := legacyWire{LegacySnapshotData: &LegacySnapshotData{}}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
		}
		return &SnapshotData{Version: version, Legacy: w.LegacySnapshotData}, nil
	}

	if semver.Major(version) != semver.Major(SnapshotVersion) {
		return nil, fmt.Errorf("%w: unsupported version %s", ErrSnapshotInvalid, version)
	}
	if err := validateSnapshot(masterySchemaName, parsed); err != nil {
		return nil, err
	}
	w := masteryWire{MasterySnapshotData: &MasterySnapshotData{}}
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}
	return &SnapshotData{Version: version, Mastery: w.MasterySnapshotData}, nil
}

const (
	masterySchemaName = "mastery-v2"
	legacySchemaName  = "mastery-v1"
)

var (
	schemaOnce sync.Once
	schemas    map[string]*jsonschema.Schema
	schemaErr  error
)

func validateSnapshot(name string, parsed any) error {
	schemaOnce.Do(compileSchemas)
	if schemaErr != nil {
		return fmt.Errorf("compile snapshot schemas: %w", schemaErr)
	}
	if err := schemas[name].Validate(parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}
	return nil
}

func compileSchemas() {
	defs := map[string]string{
		masterySchemaName: masterySchema,
		legacySchemaName:  legacySchema,
	}
	c := jsonschema.NewCompiler()
	for name, def := range defs {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(def))
		if err != nil {
			schemaErr = fmt.Errorf("parse %s: %w", name, err)
			return
		}
		if err := c.AddResource("schema://"+name+".json", doc); err != nil {
			schemaErr = fmt.Errorf("add %s: %w", name, err)
			return
		}
	}
	schemas = make(map[string]*jsonschema.Schema, len(defs))
	for name := range defs {
		s, err := c.Compile("schema://" + name + ".json")
		if err != nil {
			schemaErr = fmt.Errorf("compile %s: %w", name, err)
			return
		}
		schemas[name] = s
	}
}

const configSchema = `{
  "type": "object",
  "required": ["min_attempts_to_unlock", "accuracy_threshold", "average_time_threshold", "max_answer_time_to_count"],
  "properties": {
    "min_attempts_to_unlock": {"type": "integer", "minimum": 0},
    "accuracy_threshold": {"type": "number", "minimum": 0, "maximum": 1},
    "average_time_threshold": {"type": "number", "minimum": 0},
    "max_answer_time_to_count": {"type": "number", "minimum": 0},
    "current_string_probability": {"type": "number", "minimum": 0, "maximum": 1},
    "min_attempts_for_learned": {"type": "integer", "minimum": 0},
    "unlearned_note_weight": {"type": "number", "exclusiveMinimum": 0},
    "struggling_accuracy_threshold": {"type": "number", "minimum": 0, "maximum": 1},
    "low_accuracy_weight": {"type": "number", "exclusiveMinimum": 0},
    "mastered_weight": {"type": "number", "exclusiveMinimum": 0}
  }
}`

const perfSchema = `{
  "type": "object",
  "required": ["attempts", "correct"],
  "properties": {
    "attempts": {"type": "integer", "minimum": 0},
    "correct": {"type": "integer", "minimum": 0},
    "answer_times": {"type": ["array", "null"], "items": {"type": "number", "minimum": 0}},
    "last_attempt_time": {"type": "string", "format": "date-time"}
  }
}`

const masterySchema = `{
  "type": "object",
  "required": ["version", "config", "performance", "unlocked_frets", "current_string_index"],
  "properties": {
    "version": {"type": "string"},
    "config": ` + configSchema + `,
    "performance": {
      "type": "object",
      "propertyNames": {"pattern": "^[1-6]$"},
      "additionalProperties": {
        "type": "object",
        "propertyNames": {"pattern": "^(0|[1-9][0-9]?)$"},
        "additionalProperties": ` + perfSchema + `
      }
    },
    "unlocked_frets": {
      "type": "object",
      "propertyNames": {"pattern": "^[1-6]$"},
      "additionalProperties": {"type": "integer", "minimum": 0, "maximum": 12}
    },
    "current_string_index": {"type": "integer", "minimum": 0, "maximum": 5}
  }
}`

const legacySchema = `{
  "type": "object",
  "required": ["performance", "unlocked_frets"],
  "properties": {
    "version": {"type": "string"},
    "config": ` + configSchema + `,
    "performance": {
      "type": "object",
      "propertyNames": {"pattern": "^(0|[1-9][0-9]?)$"},
      "additionalProperties": ` + perfSchema + `
    },
    "unlocked_frets": {"type": "integer", "minimum": 0, "maximum": 12}
  }
}`
