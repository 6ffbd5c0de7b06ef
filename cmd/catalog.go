package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/fretiz/internal/config"
	"github.com/abhisek/fretiz/internal/music"
)

var tuningsCmd = &cobra.Command{
	Use:   "tunings",
	Short: "List the supported tunings",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%-16s  %s\n", "Name", "Strings (6 to 1)")
		fmt.Println(strings.Repeat("─", 40))
		for _, t := range music.Tunings() {
			fmt.Printf("%-16s  %s\n", t.Name, t.Description)
		}
	},
}

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "List the zone presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(resolveConfigPath(cmd))
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		board, err := cfg.NewFretboard()
		if err != nil {
			return err
		}

		fmt.Printf("%-16s  %9s\n", "Zone", "Positions")
		fmt.Println(strings.Repeat("─", 27))
		for _, name := range music.ZonePresetNames() {
			z, err := music.ZonePreset(name, board)
			if err != nil {
				return err
			}
			fmt.Printf("%-16s  %9d\n", name, z.Size())
		}
		fmt.Printf("\nAlso: string-1 .. string-%d, frets-A-B (0 <= A <= B <= %d)\n",
			board.Strings(), board.Frets())
		return nil
	},
}
