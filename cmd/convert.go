// =============================================================================
// Gensoft Converter - Convert Command
// =============================================================================
//
// COMMAND USAGE:
//   gensoft convert INPUT [flags]
//
// FLAGS:
//   -o, --output : Output workbook (default: <download_dir>/gensoft_<name>.xlsx)
//   --preview N  : Print the first N converted rows as a table
//
// The input is staged into the upload directory before conversion, exactly
// as `process` does, so size and extension limits apply here too.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ballistic-tools/gensoft-converter/internal/types"
)

var (
	outputPath   string
	previewCount int
)

var convertCmd = &cobra.Command{
	Use:   "convert INPUT",
	Short: "Convert one delivery sheet into a Gensoft workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(
		&outputPath,
		"output",
		"o",
		"",
		"Output workbook path (default: <download_dir>/<output_prefix><name>.xlsx)",
	)

	convertCmd.Flags().IntVar(
		&previewCount,
		"preview",
		0,
		"Print the first N converted rows",
	)
}

func runConvert(cmd *cobra.Command, input string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	output := outputPath
	if output == "" {
		output = s.files.OutputPath(input)
	}

	o := s.convert(cmd.Context(), input, output, true)
	if o.Err != nil {
		return errors.New(describeError(o.Err))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Converted %d row(s): %s\n", o.Result.RowCount(), o.Output)

	if previewCount > 0 {
		renderPreview(out, o.Result.Rows, previewCount)
	}
	return nil
}

// renderPreview prints the first n rows with the columns people check first.
func renderPreview(w io.Writer, rows []types.OutputRow, n int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"SKU", "Стока", "Количество", "Доставна цена", "Цена на дребно", "Пол", "Сезон"})
	for i := 0; i < n && i < len(rows); i++ {
		r := rows[i]
		t.AppendRow(table.Row{r.SKU, r.Goods, intCell(r.Quantity), decimalCell(r.DeliveryPrice),
			decimalCell(r.RetailPrice), r.Sex, r.Season})
	}
	if len(rows) > n {
		t.AppendFooter(table.Row{fmt.Sprintf("… %d more", len(rows)-n)})
	}
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
}

func intCell(n *int) string {
	if n == nil {
		return ""
	}
	return fmt.Sprint(*n)
}

func decimalCell(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
