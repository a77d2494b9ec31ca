// =============================================================================
// Gensoft Converter - Process Command
// =============================================================================
//
// Batch conversion of several delivery sheets.
//
// COMMAND USAGE:
//   gensoft process [FILES...] [flags]
//
// FLAGS:
//   --dry-run : Read and transform every file but write nothing
//
// PROCESSING PIPELINE:
//   1. Take the files from the arguments, or discover them in the inbox
//   2. For each file (concurrently, at most max_concurrency at a time):
//      a. Stage it into the upload directory as {uuid}_{name}
//      b. Convert it into <download_dir>/<output_prefix><name>.xlsx
//      c. Record the attempt in history and metrics
//   3. Print a summary table
//
// A failing file never stops the others. The command fails when any file
// failed.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ballistic-tools/gensoft-converter/internal/converter"
)

// dryRun reads and transforms without writing outputs or history.
var dryRun bool

var processCmd = &cobra.Command{
	Use:   "process [FILES...]",
	Short: "Convert several delivery sheets at once",
	Long: `The process command converts every given file, or every accepted file in
the inbox directory when none are given. Files are converted concurrently and
independently: an error in one file does not affect the others.

On success the workbook is written to the download directory.
On error the attempt is recorded in history with the reason.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Read and transform the files without writing anything",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess(cmd *cobra.Command, args []string) error {
	start := time.Now()
	out := cmd.OutOrStdout()

	s, err := newSession()
	if err != nil {
		return err
	}

	inputs := args
	if len(inputs) == 0 {
		inputs, err = s.files.DiscoverInputFiles(appConfig.InboxDir)
		if err != nil {
			return err
		}
	}
	if len(inputs) == 0 {
		fmt.Fprintf(out, "No input files found in %s\n", appConfig.InboxDir)
		return nil
	}

	s.logger.Info("processing files", "count", len(inputs), "dry_run", dryRun)

	var outcomes []outcome
	if dryRun {
		outcomes = dryRunAll(cmd.Context(), s, inputs)
	} else {
		defer s.close()
		outcomes = convertAll(cmd.Context(), s, inputs, outputPaths(s, inputs))
	}

	failed := renderSummary(out, outcomes)

	fmt.Fprintf(out, "\nTotal files: %d  Successful: %d  Errors: %d  Time elapsed: %s\n",
		len(outcomes), len(outcomes)-failed, failed, time.Since(start).Round(time.Millisecond))

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(outcomes))
	}
	return nil
}

// convertAll converts inputs[i] into outputs[i] with bounded concurrency.
// Outcomes keep the input order.
func convertAll(ctx context.Context, s *session, inputs, outputs []string) []outcome {
	outcomes := make([]outcome, len(inputs))

	var g errgroup.Group
	g.SetLimit(max(appConfig.MaxConcurrency, 1))
	for i := range inputs {
		g.Go(func() error {
			outcomes[i] = s.convert(ctx, inputs[i], outputs[i], true)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// dryRunAll reads and transforms every input without writing.
func dryRunAll(ctx context.Context, s *session, inputs []string) []outcome {
	outcomes := make([]outcome, len(inputs))

	var g errgroup.Group
	g.SetLimit(max(appConfig.MaxConcurrency, 1))
	for i, input := range inputs {
		g.Go(func() error {
			outcomes[i] = outcome{Source: input}
			if err := ctx.Err(); err != nil {
				outcomes[i].Err = err
				return nil
			}
			tbl, err := s.conv.Read(input)
			if err != nil {
				outcomes[i].Err = err
				return nil
			}
			rows, err := converter.Transform(tbl, time.Now())
			if err != nil {
				outcomes[i].Err = err
				return nil
			}
			outcomes[i].Result = &converter.Result{InputPath: input, Rows: rows}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// outputPaths assigns each input its output path. Inputs that share a name
// get numbered outputs so no two conversions write the same file. Names are
// compared case-insensitively.
func outputPaths(s *session, inputs []string) []string {
	taken := make(map[string]bool, len(inputs))
	paths := make([]string, len(inputs))
	for i, input := range inputs {
		path := s.files.OutputPath(input)
		ext := filepath.Ext(path)
		stem := strings.TrimSuffix(path, ext)
		for n := 2; taken[strings.ToLower(path)]; n++ {
			path = fmt.Sprintf("%s_%d%s", stem, n, ext)
		}
		taken[strings.ToLower(path)] = true
		paths[i] = path
	}
	return paths
}

// renderSummary prints one table row per outcome and returns the number of
// failures.
func renderSummary(w io.Writer, outcomes []outcome) int {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"File", "Status", "Rows", "Output / Error"})

	failed := 0
	for _, o := range outcomes {
		name := filepath.Base(o.Source)
		if o.Err != nil {
			failed++
			t.AppendRow(table.Row{name, "error", "", describeError(o.Err)})
			continue
		}
		t.AppendRow(table.Row{name, "ok", o.Result.RowCount(), o.Output})
	}

	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
	return failed
}
