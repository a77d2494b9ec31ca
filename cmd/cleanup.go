// =============================================================================
// Gensoft Converter - Cleanup Command
// =============================================================================
//
// COMMAND USAGE:
//   gensoft cleanup [--max-age DURATION]
//
// Removes staged inputs and generated workbooks older than the retention.
// The history file is never removed.
//
// =============================================================================

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ballistic-tools/gensoft-converter/internal/logging"
	"github.com/ballistic-tools/gensoft-converter/pkg/utils"
)

// maxAge overrides the configured retention when non-zero.
var maxAge time.Duration

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove staged inputs and generated workbooks past their retention",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		age := appConfig.Retention
		if maxAge > 0 {
			age = maxAge
		}

		removed, err := utils.CleanOldFiles(time.Now(), age, []string{appConfig.HistoryFile},
			appConfig.UploadDir, appConfig.DownloadDir)
		for _, path := range removed {
			logging.L().Debug("removed old file", "path", path)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d file(s) older than %s\n", len(removed), age)
		return err
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().DurationVar(
		&maxAge,
		"max-age",
		0,
		"Remove files older than this (default: retention from config)",
	)
}
