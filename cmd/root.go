// =============================================================================
// Gensoft Converter - Root Command
// =============================================================================
//
// COBRA CLI STRUCTURE:
//   rootCmd (gensoft)
//   ├── convertCmd (gensoft convert)
//   ├── processCmd (gensoft process)
//   ├── historyCmd (gensoft history)
//   ├── cleanupCmd (gensoft cleanup)
//   └── versionCmd (gensoft version)
//
// The root command loads the configuration and sets up logging before any
// subcommand runs.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ballistic-tools/gensoft-converter/internal/config"
	"github.com/ballistic-tools/gensoft-converter/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// logLevel and logFormat override the configured logging.
var (
	logLevel  string
	logFormat string
)

// appConfig is loaded by the root command before any subcommand runs.
var appConfig *config.MainConfig

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "gensoft",
	Short: "Convert Nike \"Dati Imp\" delivery sheets into Gensoft import workbooks",
	Long: `gensoft converts the "Dati Imp" delivery spreadsheet into the 44-column
workbook the Gensoft ERP imports: one output row per delivery line, with
Bulgarian labels, gross and retail prices, season codes and site attributes
derived from the source columns.

Example Usage:
  gensoft convert "Dati Imp.xlsx"            # Write downloads/gensoft_Dati_Imp.xlsx
  gensoft convert in.xlsx -o out.xlsx --preview 5
  gensoft process                            # Convert everything in the inbox
  gensoft history                            # Show the last conversions
  gensoft cleanup --max-age 48h              # Remove old staged and generated files`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration and configures logging. Flags win over the
// config file and environment.
func setup(cmd *cobra.Command, args []string) error {
	if cmd == versionCmd {
		return nil
	}

	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	if _, err := logging.Configure(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	}); err != nil {
		return err
	}

	appConfig = cfg
	return nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (ignored when missing)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().StringVar(
		&logLevel,
		"log-level",
		"",
		"Log level: debug, info, warn, error (overrides log_level)",
	)

	rootCmd.PersistentFlags().StringVar(
		&logFormat,
		"log-format",
		"",
		"Log format: text or json (overrides log_format)",
	)
}
