package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const (
	answerEventsTable  = "answer_events"
	sessionEventsTable = "session_events"
)

// sequenceCounter manages the global monotonic sequence number shared across
// answer and session events. Each event type lives in its own table, so
// per-table auto-increment IDs can't establish cross-type ordering.
// Snapshots record the sequence they were taken at.
//
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// Current returns the last sequence number handed out, 0 if none.
func (sc *sequenceCounter) Current(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`SELECT next_val - 1 FROM global_sequence WHERE id = 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("current sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo with the ent SQL builder.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(answerEventsTable).
		Columns("sequence", "timestamp", "session_id", "question_number", "string_num", "fret",
			"target", "clicked", "correct", "attempt", "answer_ms").
		Values(seqNum, formatTime(stamp(data.Timestamp)), data.SessionID, data.QuestionNumber,
			data.String, data.Fret, data.Target, data.Clicked, boolToInt(data.Correct),
			data.Attempt, data.AnswerTime.Milliseconds()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	var accuracy any
	if data.Accuracy != nil {
		accuracy = *data.Accuracy
	}

	query, args := builder().Insert(sessionEventsTable).
		Columns("sequence", "timestamp", "session_id", "action", "zone", "questions_completed",
			"correct_answers", "hints_used", "total_attempts", "accuracy").
		Values(seqNum, formatTime(stamp(data.Timestamp)), data.SessionID, data.Action, data.Zone,
			data.QuestionsCompleted, data.CorrectAnswers, data.HintsUsed, data.TotalAttempts, accuracy).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AnswerStats(ctx context.Context) (AnswerStats, error) {
	var (
		stats AnswerStats
		avgMS float64
	)

	query, args := builder().Select(
		entsql.Count("*"),
		"COALESCE(SUM(`correct`), 0)",
		"COALESCE(AVG(`answer_ms`), 0)",
	).From(entsql.Table(answerEventsTable)).Query()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&stats.Attempts, &stats.Correct, &avgMS)
	if err != nil {
		return AnswerStats{}, fmt.Errorf("query answer stats: %w", err)
	}
	stats.AverageTime = time.Duration(avgMS * float64(time.Millisecond))

	query, args = builder().Select(entsql.Count("*")).
		From(entsql.Table(sessionEventsTable)).
		Where(entsql.EQ("action", "completed")).
		Query()
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&stats.CompletedSessions); err != nil {
		return AnswerStats{}, fmt.Errorf("query session stats: %w", err)
	}
	return stats, nil
}

func (r *eventRepo) PositionStats(ctx context.Context, minAttempts, limit int) ([]PositionStat, error) {
	sel := builder().Select(
		"string_num",
		"fret",
		entsql.As(entsql.Count("*"), "attempts"),
		entsql.As("SUM(`correct`)", "correct"),
		entsql.As("AVG(`answer_ms`)", "avg_ms"),
		entsql.As("CAST(SUM(`correct`) AS REAL) / COUNT(*)", "accuracy"),
	).
		From(entsql.Table(answerEventsTable)).
		GroupBy("string_num", "fret").
		OrderBy("accuracy", entsql.Desc("attempts"), "string_num", "fret")
	if minAttempts > 1 {
		sel.Having(entsql.GTE("COUNT(*)", minAttempts))
	}
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query position stats: %w", err)
	}
	defer rows.Close()

	var out []PositionStat
	for rows.Next() {
		var (
			p        PositionStat
			avgMS    float64
			accuracy float64
		)
		if err := rows.Scan(&p.String, &p.Fret, &p.Attempts, &p.Correct, &avgMS, &accuracy); err != nil {
			return nil, fmt.Errorf("scan position stats: %w", err)
		}
		p.AverageTime = time.Duration(avgMS * float64(time.Millisecond))
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *eventRepo) RecentSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	e := entsql.Table(sessionEventsTable).As("e")
	startedZone := "(SELECT `s`.`zone` FROM `" + sessionEventsTable + "` AS `s` " +
		"WHERE `s`.`session_id` = `e`.`session_id` AND `s`.`action` = 'started' LIMIT 1)"

	sel := builder().Select(
		e.C("session_id"),
		e.C("action"),
		"COALESCE(NULLIF("+e.C("zone")+", ''), "+startedZone+", '')",
		e.C("questions_completed"),
		e.C("correct_answers"),
		e.C("hints_used"),
		e.C("total_attempts"),
		e.C("accuracy"),
		e.C("timestamp"),
	).
		From(e).
		Where(entsql.In(e.C("action"), "completed", "abandoned")).
		OrderBy(entsql.Desc(e.C("sequence")))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var (
			s  SessionSummary
			ts string
		)
		if err := rows.Scan(&s.SessionID, &s.Action, &s.Zone, &s.QuestionsCompleted, &s.CorrectAnswers,
			&s.HintsUsed, &s.TotalAttempts, &s.Accuracy, &ts); err != nil {
			return nil, fmt.Errorf("scan recent sessions: %w", err)
		}
		if s.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("parse session timestamp: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
