// =============================================================================
// Gensoft Converter - Main Entry Point
// =============================================================================
//
// Command line tool that turns a vendor delivery spreadsheet ("Dati Imp")
// into a Gensoft retail import workbook.
//
// USAGE:
//   gensoft convert <file>   - Convert a single delivery file
//   gensoft process          - Stage and convert a batch of delivery files
//   gensoft history          - Show the most recent conversion attempts
//   gensoft cleanup          - Remove staged and generated files past retention
//   gensoft version          - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core conversion logic and supporting infrastructure
//   - pkg/           : Shared file management utilities
//
// =============================================================================

package main

import (
	"github.com/ballistic-tools/gensoft-converter/cmd"
)

func main() {
	cmd.Execute()
}
