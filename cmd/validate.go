// =============================================================================
// Orders to PDF - Validate Command
// =============================================================================
//
// This file defines the 'validate' command: a dry run that checks the
// configuration and, when a file is given, parses and validates the export
// without writing any PDF.
//
// COMMAND USAGE:
//   process-orders validate              # Check the configuration only
//   process-orders validate orders.csv   # Also check one export file
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/orders-to-pdf/internal/converter"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate [orders.csv|orders.xlsx]",
	Short: "Check the configuration and optionally an export file",
	Long: `The validate command loads and validates the configuration. Given an export
file it additionally parses and validates the file exactly as a conversion
would, but writes nothing. Exit code 0 means a real run would succeed.`,

	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("Configuration OK (schema layout: %s)\n", cfg.Schema.Layout)

		if len(args) == 0 {
			return nil
		}

		log := newLogger(cfg)
		conv := converter.New(args[0], cfg, converter.Options{
			IncludeClients: true,
			IncludeHarvest: true,
			DryRun:         true,
		}, log)

		result := conv.Run()
		if !result.Success {
			return result.Error
		}

		fmt.Printf("%s OK: %d record(s), %d delivery day(s), %d customer(s), %d warning(s)\n",
			args[0],
			result.Stats.RecordsParsed,
			result.Stats.Days,
			result.Stats.Customers,
			result.Stats.Warnings,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
