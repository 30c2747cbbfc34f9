// =============================================================================
// Orders to PDF - Batch Command
// =============================================================================
//
// This file defines the 'batch' command, which converts every order export
// found in the configured input directory.
//
// COMMAND USAGE:
//   process-orders batch [flags]
//
// FLAGS:
//   --dry-run : Parse and validate every file without writing any PDF
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Discover CSV/XLSX files in the input directory
//   3. Convert each file (concurrently, bounded by batch.max_concurrency)
//   4. Archive processed inputs
//   5. Print and log a summary
//
// On error the original export stays in the input directory so the next run
// retries it; other files are unaffected unless batch.stop_on_error is set.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/orders-to-pdf/internal/config"
	"github.com/ginjaninja78/orders-to-pdf/internal/converter"
	"github.com/ginjaninja78/orders-to-pdf/pkg/logger"
	"github.com/ginjaninja78/orders-to-pdf/pkg/utils"
)

// dryRun parses and validates without writing output files.
var dryRun bool

// batchCmd represents the 'batch' command.
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert every order export in the input directory",
	Long: `The batch command scans the configured input directory for CSV and XLSX
order exports and converts each of them to a PDF in the output directory.

Files are processed concurrently, bounded by batch.max_concurrency. A failed
file does not affect the others (unless batch.stop_on_error is set); it stays
in the input directory while successfully processed exports are moved to the
archive directory.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch()
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Parse and validate every file without writing any PDF",
	)
}

// runBatch converts the whole input directory.
func runBatch() error {
	start := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	files, err := utils.DiscoverOrderFiles(cfg.Batch.InputDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("No order exports found in %s\n", cfg.Batch.InputDir)
		return nil
	}
	log.Info().Int("files", len(files)).Str("dir", cfg.Batch.InputDir).Msg("starting batch run")

	summary, firstErr := processFiles(files, cfg, log, dryRun)
	summary.StartTime = start
	summary.EndTime = time.Now()

	fmt.Printf("\nProcessed %d of %d file(s): %d successful, %d failed in %s\n",
		summary.TotalFiles, len(files), summary.Successful, summary.Failed, summary.EndTime.Sub(summary.StartTime))

	if !dryRun {
		if path, err := utils.WriteSummaryLog(summary, cfg.Output.Dir); err != nil {
			log.Warn().Err(err).Msg("failed to write batch summary log")
		} else {
			log.Debug().Str("summary", path).Msg("wrote batch summary log")
		}
	}

	if summary.Failed > 0 && cfg.Batch.StopOnError {
		return firstErr
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", summary.Failed, len(files))
	}
	return nil
}

// processFiles converts the given files and collects the outcome. With
// batch.stop_on_error set the files are processed sequentially and the first
// failure ends the run; otherwise they are processed concurrently, bounded
// by batch.max_concurrency, and a failed file does not affect the others.
// It returns the summary and the first failure, if any.
func processFiles(files []string, cfg *config.Config, log *logger.Logger, dryRun bool) (utils.BatchSummary, error) {
	includeClients, includeHarvest := sectionOptions()
	convert := func(inputPath string) converter.Result {
		conv := converter.New(inputPath, cfg, converter.Options{
			IncludeClients: includeClients,
			IncludeHarvest: includeHarvest,
			Archive:        !dryRun,
			DryRun:         dryRun,
		}, log)
		return conv.Run()
	}

	results := make(chan converter.Result, len(files))

	if cfg.Batch.StopOnError {
		// Sequential, so the batch really stops at the first failure.
		for _, file := range files {
			result := convert(file)
			results <- result
			if !result.Success {
				break
			}
		}
		close(results)
	} else {
		// Concurrent, bounded by a semaphore channel.
		var wg sync.WaitGroup
		sem := make(chan struct{}, cfg.Batch.MaxConcurrency)

		for _, file := range files {
			wg.Add(1)
			go func(inputPath string) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				results <- convert(inputPath)
			}(file)
		}

		go func() {
			wg.Wait()
			close(results)
		}()
	}

	var summary utils.BatchSummary
	var firstErr error

	for result := range results {
		// TotalFiles counts files actually attempted: a stop_on_error run
		// may end before reaching every discovered file.
		summary.TotalFiles++
		if result.Success {
			summary.Successful++
			if dryRun {
				fmt.Printf("  ok %s (valid, %d records)\n", filepath.Base(result.FilePath), result.Stats.RecordsParsed)
			} else {
				fmt.Printf("  ok %s -> %s\n", filepath.Base(result.FilePath), result.OutputFile)
			}
		} else {
			summary.Failed++
			summary.FailedFiles = append(summary.FailedFiles, utils.FailedFile{
				InputFile: result.FilePath,
				Error:     result.Error.Error(),
			})
			fmt.Printf("  FAILED %s: %v\n", filepath.Base(result.FilePath), result.Error)
			if firstErr == nil {
				firstErr = result.Error
			}
		}
	}

	return summary, firstErr
}
