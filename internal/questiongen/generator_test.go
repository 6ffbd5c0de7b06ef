package questiongen

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fretiz/internal/music"
)

func newGen(cfg Config) *Generator {
	fb := music.NewFretboard(music.StandardTuning, 12)
	return New(fb, cfg, rand.New(rand.NewPCG(42, 1)))
}

func TestGenerate_SinglePosition(t *testing.T) {
	g := newGen(DefaultConfig())
	zone := music.NewZone("one", music.Position{String: 1, Fret: 8})

	q, err := g.Generate(zone)
	require.NoError(t, err)
	assert.Equal(t, music.C, q.TargetPitchClass)
	assert.Equal(t, music.Position{String: 1, Fret: 8}, q.TargetNote.Position)
	assert.Equal(t, 1, q.Number)
	assert.Equal(t, "Find C", q.Text)

	// A single available choice repeats even with avoidance on.
	q2, err := g.Generate(zone)
	require.NoError(t, err)
	assert.Equal(t, music.C, q2.TargetPitchClass)
	assert.Equal(t, 2, q2.Number)
}

func TestGenerate_EmptyZone(t *testing.T) {
	g := newGen(DefaultConfig())
	_, err := g.Generate(music.NewZone("empty"))
	assert.True(t, errors.Is(err, ErrEmptyZone))
	assert.Equal(t, 0, g.Count(), "failures do not consume question numbers")
}

func TestGenerate_NoCandidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Filter = FilterNaturals
	g := newGen(cfg)

	// s1f2 is F#, s1f9 is C#.
	zone := music.NewZone("sharps", music.Position{String: 1, Fret: 2}, music.Position{String: 1, Fret: 9})
	_, err := g.Generate(zone)
	assert.True(t, errors.Is(err, ErrNoCandidates))
}

func TestGenerate_OffBoardPositionsExcluded(t *testing.T) {
	g := newGen(DefaultConfig())
	zone := music.NewZone("mixed", music.Position{String: 9, Fret: 0}, music.Position{String: 1, Fret: 40}, music.Position{String: 2, Fret: 1})

	cands := g.Candidates(zone)
	require.Len(t, cands, 1)
	assert.Equal(t, music.C, cands[0].PitchClass)
}

func TestGenerate_AvoidsConsecutiveRepeat(t *testing.T) {
	g := newGen(DefaultConfig())
	zone := music.NewZone("two", music.Position{String: 1, Fret: 8}, music.Position{String: 1, Fret: 10})

	prev, err := g.Generate(zone)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		q, err := g.Generate(zone)
		require.NoError(t, err)
		if q.TargetPitchClass == prev.TargetPitchClass {
			t.Fatalf("question %d repeated %s", q.Number, q.TargetPitchClass)
		}
		prev = q
	}
}

func TestGenerate_RepeatsAllowedWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AvoidConsecutiveRepeat = false
	g := newGen(cfg)
	zone := music.NewZone("two", music.Position{String: 1, Fret: 8}, music.Position{String: 1, Fret: 10})

	repeats := 0
	prev, _ := g.Generate(zone)
	for i := 0; i < 200; i++ {
		q, _ := g.Generate(zone)
		if q.TargetPitchClass == prev.TargetPitchClass {
			repeats++
		}
		prev = q
	}
	assert.Greater(t, repeats, 0)
}

func TestGenerate_NaturalsOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Filter = FilterNaturals
	g := newGen(cfg)
	zone, err := music.ZonePreset("all", music.NewFretboard(music.StandardTuning, 12))
	require.NoError(t, err)

	for i := 0; i < 300; i++ {
		q, err := g.Generate(zone)
		require.NoError(t, err)
		if !q.TargetPitchClass.IsNatural() {
			t.Fatalf("drew %s with naturals filter", q.TargetPitchClass)
		}
	}
}

func TestGenerate_SameClassChosenUniformly(t *testing.T) {
	g := newGen(DefaultConfig())
	// Both are E: open high E and string 2 fret 5.
	zone := music.NewZone("e", music.Position{String: 1, Fret: 0}, music.Position{String: 2, Fret: 5})

	seen := map[music.Position]int{}
	for i := 0; i < 400; i++ {
		q, err := g.Generate(zone)
		require.NoError(t, err)
		seen[q.TargetNote.Position]++
	}
	assert.Len(t, seen, 2)
}

func TestAllowedPitchClasses(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want int
	}{
		{"all", Config{Filter: FilterAll}, 12},
		{"naturals", Config{Filter: FilterNaturals}, 7},
		{"custom", Config{Filter: FilterCustom, Custom: []music.PitchClass{music.C, music.FSharp, music.C}}, 2},
		{"empty custom", Config{Filter: FilterCustom}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGen(tt.cfg)
			assert.Len(t, g.AllowedPitchClasses(), tt.want)
		})
	}
}

func TestDisplayText_Accidentals(t *testing.T) {
	zone := music.NewZone("c#", music.Position{String: 1, Fret: 9})

	sharp := newGen(Config{Filter: FilterAll, Accidentals: music.AccidentalSharp})
	q, _ := sharp.Generate(zone)
	assert.Equal(t, "Find C#", q.Text)

	flat := newGen(Config{Filter: FilterAll, Accidentals: music.AccidentalFlat})
	q, _ = flat.Generate(zone)
	assert.Equal(t, "Find Db", q.Text)

	random := newGen(Config{Filter: FilterAll, Accidentals: music.AccidentalRandom})
	texts := map[string]bool{}
	for i := 0; i < 100; i++ {
		q, _ := random.Generate(zone)
		texts[q.Text] = true
	}
	assert.Equal(t, map[string]bool{"Find C#": true, "Find Db": true}, texts)
}

func TestDisplayText_NaturalsUnadorned(t *testing.T) {
	g := newGen(Config{Filter: FilterAll, Accidentals: music.AccidentalFlat})
	q, err := g.Generate(music.NewZone("c", music.Position{String: 1, Fret: 8}))
	require.NoError(t, err)
	assert.Equal(t, "Find C", q.Text)
}

func TestGenerateAt(t *testing.T) {
	g := newGen(DefaultConfig())
	zone := music.NewZone("two", music.Position{String: 6, Fret: 0}, music.Position{String: 6, Fret: 1})

	q, err := g.GenerateAt(zone, music.Position{String: 6, Fret: 1})
	require.NoError(t, err)
	assert.Equal(t, music.F, q.TargetPitchClass)

	_, err = g.GenerateAt(zone, music.Position{String: 5, Fret: 0})
	assert.True(t, errors.Is(err, ErrNoCandidates))
}

func TestReset(t *testing.T) {
	g := newGen(DefaultConfig())
	zone := music.NewZone("one", music.Position{String: 1, Fret: 8})
	g.Generate(zone)
	g.Generate(zone)
	g.Reset()

	q, err := g.Generate(zone)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Number)
}

func TestParseFilter(t *testing.T) {
	f, custom, err := ParseFilter("naturals")
	require.NoError(t, err)
	assert.Equal(t, FilterNaturals, f)
	assert.Nil(t, custom)

	f, custom, err = ParseFilter("C, Eb ,G")
	require.NoError(t, err)
	assert.Equal(t, FilterCustom, f)
	assert.Equal(t, []music.PitchClass{music.C, music.DSharp, music.G}, custom)

	_, _, err = ParseFilter("C,H")
	assert.True(t, errors.Is(err, music.ErrUnknownPitchClass))
}
