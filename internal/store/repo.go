package store

import (
	"context"
	"time"
)

// Snapshot represents a point-in-time capture of tracker state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      *SnapshotData
}

// SnapshotRepo manages tracker state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot. Sequence is taken from the event log
	// when left zero.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error

	// DeleteAll removes every snapshot and reports how many were removed.
	DeleteAll(ctx context.Context) (int64, error)
}

// AnswerEventData captures one judged attempt.
type AnswerEventData struct {
	SessionID      string
	QuestionNumber int
	String         int
	Fret           int
	Target         string
	Clicked        string
	Correct        bool
	Attempt        int
	AnswerTime     time.Duration
	Timestamp      time.Time
}

// SessionEventData captures a session lifecycle transition.
type SessionEventData struct {
	SessionID          string
	Action             string // "started", "completed", "abandoned"
	Zone               string
	QuestionsCompleted int
	CorrectAnswers     int
	HintsUsed          int
	TotalAttempts      int
	Accuracy           *int // only for completed sessions
	Timestamp          time.Time
}

// AnswerStats aggregates every recorded attempt.
type AnswerStats struct {
	Attempts          int
	Correct           int
	AverageTime       time.Duration
	CompletedSessions int
}

// Accuracy returns Correct/Attempts, 0 with no attempts.
func (a AnswerStats) Accuracy() float64 {
	if a.Attempts == 0 {
		return 0
	}
	return float64(a.Correct) / float64(a.Attempts)
}

// PositionStat aggregates attempts at one fretboard position.
type PositionStat struct {
	String      int
	Fret        int
	Attempts    int
	Correct     int
	AverageTime time.Duration
}

// Accuracy returns Correct/Attempts, 0 with no attempts.
func (p PositionStat) Accuracy() float64 {
	if p.Attempts == 0 {
		return 0
	}
	return float64(p.Correct) / float64(p.Attempts)
}

// EventRepo provides append and aggregate access to answer and session
// events.
type EventRepo interface {
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AnswerStats totals every answer event.
	AnswerStats(ctx context.Context) (AnswerStats, error)

	// PositionStats returns per-position aggregates, weakest first.
	// Positions with fewer than minAttempts are skipped. limit <= 0 means
	// no limit.
	PositionStats(ctx context.Context, minAttempts, limit int) ([]PositionStat, error)

	// RecentSessions returns completed and abandoned sessions, newest
	// first.
	RecentSessions(ctx context.Context, limit int) ([]SessionSummary, error)
}

// SessionSummary is how a session ended. Zone falls back to the zone
// recorded when the session started.
type SessionSummary struct {
	SessionID          string
	Action             string
	Zone               string
	QuestionsCompleted int
	CorrectAnswers     int
	HintsUsed          int
	TotalAttempts      int
	Accuracy           *int
	Timestamp          time.Time
}
