package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/fretiz/internal/mastery"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, false, nil)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()

		events := env.store.EventRepo()
		totals, err := events.AnswerStats(ctx)
		if err != nil {
			return fmt.Errorf("load answer stats: %w", err)
		}
		limit, _ := cmd.Flags().GetInt("weakest")
		weak, err := events.PositionStats(ctx, 2, limit)
		if err != nil {
			return fmt.Errorf("load position stats: %w", err)
		}

		st := env.tracker.Stats()
		avg := "-"
		if totals.Attempts > 0 {
			avg = fmt.Sprintf("%.1fs", totals.AverageTime.Seconds())
		}

		fmt.Printf("%-18s %d (%.0f%% correct, avg %s)\n", "Answers:", totals.Attempts, totals.Accuracy()*100, avg)
		fmt.Printf("%-18s %d completed\n", "Sessions:", totals.CompletedSessions)
		fmt.Printf("%-18s %d\n", "Current string:", st.CurrentString)
		fmt.Printf("%-18s %d positions (%d mastered)\n", "Unlocked:", st.UnlockedPositions, st.MasteredPositions)
		fmt.Printf("%-18s %s\n", "Mastered strings:", formatStrings(st.MasteredStrings))

		if len(weak) == 0 {
			return nil
		}
		fmt.Println()
		fmt.Printf("%6s  %4s  %-4s  %5s  %8s  %6s\n", "String", "Fret", "Note", "Tries", "Accuracy", "Avg")
		fmt.Println(strings.Repeat("─", 44))
		for _, p := range weak {
			note := "?"
			if n, ok := env.board.NoteAt(p.String, p.Fret); ok {
				note = n.PitchClass.SharpName()
			}
			fmt.Printf("%6d  %4d  %-4s  %5d  %7.0f%%  %5.1fs\n",
				p.String, p.Fret, note, p.Attempts, p.Accuracy()*100, p.AverageTime.Seconds())
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("weakest", 5, "How many of the weakest positions to list")
}

func formatStrings(strs []int) string {
	if len(strs) == 0 {
		return "none"
	}
	parts := make([]string, len(strs))
	for i, s := range strs {
		parts[i] = fmt.Sprintf("%d", s)
	}
	if len(strs) == len(mastery.StringOrder) {
		return strings.Join(parts, ", ") + " (all)"
	}
	return strings.Join(parts, ", ")
}
