package answer

import (
	"testing"

	"github.com/abhisek/fretiz/internal/music"
)

func TestValidator_RemainingPlusAttemptsIsMax(t *testing.T) {
	for max := 1; max <= 5; max++ {
		v := NewValidator(max)
		for i := 0; i < max; i++ {
			st := v.RecordAttempt(false, music.D)
			if st.RemainingAttempts+st.Attempts != max {
				t.Errorf("max=%d attempt=%d: remaining %d + attempts %d != max",
					max, i+1, st.RemainingAttempts, st.Attempts)
			}
		}
	}
}

func TestValidator_MaxReachedShowsHint(t *testing.T) {
	v := NewValidator(3)
	v.RecordAttempt(false, music.D)
	v.RecordAttempt(false, music.E)
	if !v.CanAttempt() {
		t.Fatal("expected CanAttempt after 2 of 3")
	}
	st := v.RecordAttempt(false, music.F)
	if !st.MaxAttemptsReached || !st.ShouldShowHint {
		t.Errorf("expected max reached with hint, got %+v", st)
	}
	if v.CanAttempt() {
		t.Error("expected CanAttempt to be false")
	}
	want := []music.PitchClass{music.D, music.E, music.F}
	if len(st.IncorrectAttempts) != len(want) {
		t.Fatalf("IncorrectAttempts = %v, want %v", st.IncorrectAttempts, want)
	}
	for i := range want {
		if st.IncorrectAttempts[i] != want[i] {
			t.Errorf("IncorrectAttempts[%d] = %s, want %s", i, st.IncorrectAttempts[i], want[i])
		}
	}
}

func TestValidator_CorrectOnLastAttemptNoHint(t *testing.T) {
	v := NewValidator(2)
	v.RecordAttempt(false, music.D)
	st := v.RecordAttempt(true, music.C)
	if st.ShouldShowHint {
		t.Error("correct final attempt must not ask for a hint")
	}
	if len(st.IncorrectAttempts) != 1 {
		t.Errorf("IncorrectAttempts length = %d, want 1", len(st.IncorrectAttempts))
	}
}

func TestValidator_Unlimited(t *testing.T) {
	v := NewValidator(0)
	for i := 0; i < 50; i++ {
		v.RecordAttempt(false, music.A)
	}
	if !v.CanAttempt() {
		t.Error("unlimited validator must always allow attempts")
	}
	st := v.State()
	if st.RemainingAttempts != Unlimited {
		t.Errorf("RemainingAttempts = %d, want Unlimited", st.RemainingAttempts)
	}
	if st.MaxAttemptsReached || st.ShouldShowHint {
		t.Errorf("unexpected limit flags: %+v", st)
	}
}

func TestValidator_Reset(t *testing.T) {
	v := NewValidator(3)
	v.RecordAttempt(false, music.D)
	v.ResetAttempts()
	st := v.State()
	if st.Attempts != 0 || len(st.IncorrectAttempts) != 0 || st.RemainingAttempts != 3 {
		t.Errorf("after reset: %+v", st)
	}
}

func TestValidator_StateIsCopy(t *testing.T) {
	v := NewValidator(3)
	st := v.RecordAttempt(false, music.D)
	st.IncorrectAttempts[0] = music.B
	if v.State().IncorrectAttempts[0] != music.D {
		t.Error("State must not expose internal history")
	}
}
