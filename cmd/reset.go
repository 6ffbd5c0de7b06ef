package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset mastery progress",
	Long:  "Delete every saved mastery snapshot. Answer history is kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Print("Delete all mastery progress? [y/N] ")
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		env, err := openEnv(cmd, false, nil)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()

		n, err := env.store.SnapshotRepo().DeleteAll(ctx)
		if err != nil {
			return fmt.Errorf("delete snapshots: %w", err)
		}
		env.logger.Info("mastery progress reset", zap.Int64("snapshots", n))
		fmt.Printf("Removed %d snapshot(s). Progress starts again on string 6.\n", n)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
