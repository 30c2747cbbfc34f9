// =============================================================================
// Orders to PDF - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command
// performs the conversion itself, so the everyday invocation stays short:
//
//   process-orders --out report.pdf orders.csv
//
// COBRA CLI STRUCTURE:
//   rootCmd (process-orders <file>)
//   ├── batchCmd    (process-orders batch)
//   ├── validateCmd (process-orders validate [file])
//   └── versionCmd  (process-orders version)
//
// CONFIGURATION:
//   The root command sets up the global flags, the Viper environment
//   bindings (PROCESS_ORDERS_* variables mirror the flags) and the logger.
//   The YAML configuration itself is loaded lazily by each command through
//   loadConfig, so `version` never complains about a broken config file.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/orders-to-pdf/internal/config"
	"github.com/ginjaninja78/orders-to-pdf/internal/converter"
	"github.com/ginjaninja78/orders-to-pdf/pkg/logger"
)

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

// defaultConfigFile is the implicit configuration path tried when --config
// is not given. It may be absent.
const defaultConfigFile = "config.yaml"

// cfgFile holds the path to the configuration file (--config).
var cfgFile string

// verbose enables debug logging (--verbose).
var verbose bool

// outPath is the explicit output path (--out).
var outPath string

// clientsOnly restricts the PDF to the per-customer pages (--clients).
var clientsOnly bool

// harvestOnly restricts the PDF to the harvest summary (--harvest).
var harvestOnly bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command. Given an input file it runs the
// conversion; without arguments it prints the help message.
var rootCmd = &cobra.Command{
	Use:   "process-orders [flags] <orders.csv|orders.xlsx>",
	Short: "Turn a vegetable-order export into a printable PDF",
	Long: `process-orders converts a CSV or XLSX export of a vegetable-order form
into a printable PDF grouped by delivery day and customer, with a trailing
harvest summary listing the total quantity to pick per product.

The export schema (long rows or a wide one-row-per-customer form) is described
in a YAML configuration file; without one, the defaults expect columns
customer,delivery_date,product,quantity.

Example Usage:
  process-orders --out report.pdf orders.csv   # Convert one export
  process-orders --harvest orders.csv          # Harvest summary only
  process-orders batch                         # Convert a whole directory
  process-orders validate orders.csv           # Check the file, write nothing`,

	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// RunE is attached in init rather than in the literal above: runConvert
// reaches loadConfig, which reads rootCmd's flags, and referencing it from
// the initializer would form an initialization cycle.
func init() {
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runConvert(args[0])
	}
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	cobra.OnInitialize(initViper)

	// Persistent flags, available to all subcommands.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		defaultConfigFile,
		"Path to the configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	// Local flags for the conversion itself.
	rootCmd.Flags().StringVarP(
		&outPath,
		"out",
		"o",
		"",
		"Path of the generated PDF (default: output dir + file-name pattern)",
	)
	rootCmd.Flags().BoolVar(
		&clientsOnly,
		"clients",
		false,
		"Render only the per-customer order pages",
	)
	rootCmd.Flags().BoolVar(
		&harvestOnly,
		"harvest",
		false,
		"Render only the harvest summary",
	)
	rootCmd.MarkFlagsMutuallyExclusive("clients", "harvest")

	// Environment overrides: PROCESS_ORDERS_CONFIG, PROCESS_ORDERS_OUT, ...
	viper.SetEnvPrefix("process_orders")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("out", rootCmd.Flags().Lookup("out"))
}

// initViper resolves the flag/environment precedence once cobra has parsed
// the command line: flags win, then PROCESS_ORDERS_* variables, then
// defaults.
func initViper() {
	cfgFile = viper.GetString("config")
	verbose = viper.GetBool("verbose")
	if outPath == "" {
		outPath = viper.GetString("out")
	}
}

// =============================================================================
// SHARED COMMAND PLUMBING
// =============================================================================

// loadConfig loads the configuration the way every subcommand expects:
// an explicitly passed --config file must exist; the implicit default
// (./config.yaml) may be absent, in which case the defaults apply.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	// A path given via the flag counts as explicit even when it equals the
	// default, so a user who typed --config is told about a missing file
	// instead of silently getting the defaults.
	explicit := rootCmd.PersistentFlags().Changed("config") || cfgFile != defaultConfigFile
	if explicit {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadOrDefault(cfgFile)
	}
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// newLogger builds the process logger from the configuration.
func newLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
}

// sectionOptions translates the --clients/--harvest flags into renderer
// options. Default: both sections.
func sectionOptions() (includeClients, includeHarvest bool) {
	switch {
	case clientsOnly:
		return true, false
	case harvestOnly:
		return false, true
	default:
		return true, true
	}
}

// =============================================================================
// CONVERSION
// =============================================================================

// runConvert converts a single export file.
func runConvert(inputPath string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	includeClients, includeHarvest := sectionOptions()
	conv := converter.New(inputPath, cfg, converter.Options{
		OutPath:        outPath,
		IncludeClients: includeClients,
		IncludeHarvest: includeHarvest,
	}, log)

	result := conv.Run()
	if !result.Success {
		return result.Error
	}

	fmt.Printf("Wrote %s (%d records, %d delivery day(s), %d customer(s))\n",
		result.OutputFile,
		result.Stats.RecordsParsed,
		result.Stats.Days,
		result.Stats.Customers,
	)
	return nil
}
