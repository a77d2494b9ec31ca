// =============================================================================
// Gensoft Converter - History Command
// =============================================================================
//
// COMMAND USAGE:
//   gensoft history
//
// Lists the most recent conversion attempts, newest first.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ballistic-tools/gensoft-converter/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recent conversions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		hist, err := history.Open(appConfig.HistoryFile, appConfig.HistorySize)
		if err != nil {
			return err
		}

		entries := hist.Entries()
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No conversions recorded yet.")
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.AppendHeader(table.Row{"Time", "File", "Status", "Rows", "Output / Error"})
		for _, e := range entries {
			detail := e.OutputFilename
			if e.Status == history.StatusError {
				detail = e.ErrorMessage
				if len(e.MissingColumns) > 0 {
					detail = "missing: " + strings.Join(e.MissingColumns, ", ")
				}
			}
			t.AppendRow(table.Row{
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.OriginalFilename,
				e.Status,
				e.Rows,
				detail,
			})
		}
		style := table.StyleLight
		style.Options.DrawBorder = false
		t.SetStyle(style)
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
