package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/fretiz/internal/config"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a practice session",
	Long: `Start the trainer without the splash screen. Flags override the config
file and FRETIZ_* environment variables for this run only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		return runApp(cmd, false, func(cfg *config.Config) {
			if flags.Changed("zone") {
				cfg.Quiz.Zone, _ = flags.GetString("zone")
			}
			if flags.Changed("tuning") {
				cfg.Fretboard.Tuning, _ = flags.GetString("tuning")
			}
			if flags.Changed("frets") {
				cfg.Fretboard.Frets, _ = flags.GetInt("frets")
			}
			if flags.Changed("questions") {
				cfg.Quiz.TotalQuestions, _ = flags.GetInt("questions")
			}
			if flags.Changed("max-attempts") {
				cfg.Quiz.MaxAttempts, _ = flags.GetInt("max-attempts")
			}
			if flags.Changed("notes") {
				cfg.Quiz.Notes, _ = flags.GetString("notes")
			}
			if flags.Changed("accidentals") {
				cfg.Quiz.Accidentals, _ = flags.GetString("accidentals")
			}
			if flags.Changed("progressive") {
				cfg.Quiz.Progressive, _ = flags.GetBool("progressive")
			}
			if noAuto, _ := flags.GetBool("no-auto-advance"); noAuto {
				cfg.Quiz.AutoAdvance = false
			}
		})
	},
}

func init() {
	f := playCmd.Flags()
	f.String("zone", "", "Zone to practice (all, open, first-position, natural-notes, string-N, frets-A-B)")
	f.String("tuning", "", "Instrument tuning (see 'fretiz tunings')")
	f.Int("frets", 0, "Number of frets on the board")
	f.Int("questions", 0, "Questions per session")
	f.Int("max-attempts", 0, "Wrong answers before a hint is shown (0 for unlimited)")
	f.String("notes", "", "Notes to ask for: all, naturals or a list like C,Eb,G")
	f.String("accidentals", "", "How sharps and flats are named: sharp, flat or random")
	f.Bool("progressive", true, "Let mastery progress choose the target notes")
	f.Bool("no-auto-advance", false, "Wait for Enter after a correct answer")
}
