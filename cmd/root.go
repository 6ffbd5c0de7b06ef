package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/fretiz/internal/config"
	"github.com/abhisek/fretiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "fretiz",
	Short: "Fretboard note trainer",
	Long:  "Fretiz is a terminal trainer for learning where every note lives on the guitar neck.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, true, nil)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides FRETIZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides FRETIZ_CONFIG env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(tuningsCmd)
	rootCmd.AddCommand(zonesCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfigPath returns the --config flag or the default config path.
func resolveConfigPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	return config.DefaultConfigPath()
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path (config file or FRETIZ_DB), then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
