package flow

import (
	"context"

	"github.com/abhisek/fretiz/internal/store"
)

// StoreRecorder writes answers and session transitions to the event log.
type StoreRecorder struct {
	repo store.EventRepo
}

// NewStoreRecorder returns a Recorder backed by repo.
func NewStoreRecorder(repo store.EventRepo) *StoreRecorder {
	return &StoreRecorder{repo: repo}
}

func (r *StoreRecorder) RecordAnswer(ctx context.Context, rec AnswerRecord) error {
	return r.repo.AppendAnswerEvent(ctx, store.AnswerEventData{
		SessionID:      rec.SessionID,
		QuestionNumber: rec.QuestionNumber,
		String:         rec.Position.String,
		Fret:           rec.Position.Fret,
		Target:         string(rec.Target),
		Clicked:        string(rec.Clicked),
		Correct:        rec.Correct,
		Attempt:        rec.Attempt,
		AnswerTime:     rec.AnswerTime,
		Timestamp:      rec.At,
	})
}

func (r *StoreRecorder) RecordSession(ctx context.Context, rec SessionRecord) error {
	data := store.SessionEventData{
		SessionID:          rec.SessionID,
		Action:             string(rec.Action),
		Zone:               rec.Zone,
		QuestionsCompleted: rec.Score.QuestionsCompleted,
		CorrectAnswers:     rec.Score.CorrectAnswers,
		HintsUsed:          rec.Score.HintsUsed,
		TotalAttempts:      rec.Score.TotalAttempts,
		Timestamp:          rec.At,
	}
	if rec.Result != nil {
		acc := rec.Result.Accuracy
		data.Accuracy = &acc
	}
	return r.repo.AppendSessionEvent(ctx, data)
}
