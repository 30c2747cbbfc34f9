// =============================================================================
// Orders to PDF - Converter Module
// =============================================================================
//
// This module orchestrates the conversion pipeline for a single order export:
//
//   1. Parse the input file (CSV or XLSX, chosen by extension)
//   2. Validate the parsed records
//   3. Aggregate into the day -> customer -> items structure + harvest totals
//   4. Render the PDF in memory
//   5. Write the output atomically
//   6. Optionally archive the processed input (batch runs)
//
// Any failure before step 5 means nothing is written at all; the atomic write
// in step 5 means even an IO failure cannot leave a partial PDF behind.
//
// CONCURRENCY:
//   A Converter processes one file and holds no shared state, so the batch
//   command can run many of them concurrently.
//
// =============================================================================

package converter

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/orders-to-pdf/internal/aggregate"
	"github.com/ginjaninja78/orders-to-pdf/internal/config"
	"github.com/ginjaninja78/orders-to-pdf/internal/csvparser"
	"github.com/ginjaninja78/orders-to-pdf/internal/pdfwriter"
	"github.com/ginjaninja78/orders-to-pdf/internal/types"
	"github.com/ginjaninja78/orders-to-pdf/internal/validation"
	"github.com/ginjaninja78/orders-to-pdf/internal/xlsxparser"
	"github.com/ginjaninja78/orders-to-pdf/pkg/logger"
	"github.com/ginjaninja78/orders-to-pdf/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the input file that was processed.
	FilePath string

	// OutputFile is the generated PDF. Empty if processing failed or was
	// a dry run.
	OutputFile string

	// Success indicates whether processing succeeded.
	Success bool

	// Error contains the failure, nil on success.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about one conversion.
type ProcessingStats struct {
	// RecordsParsed is the number of order records parsed from the input.
	RecordsParsed int

	// Days is the number of delivery-day sections in the report.
	Days int

	// Customers is the number of customer blocks across all days.
	Customers int

	// LineItems is the number of item lines across all customer blocks.
	LineItems int

	// Warnings is the number of validation warnings.
	Warnings int

	// ProcessingTime is the wall time of the conversion.
	ProcessingTime time.Duration
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options control one conversion run.
type Options struct {
	// OutPath is the explicit output path (--out). When empty the output
	// goes to the configured output directory under the configured
	// file-name pattern.
	OutPath string

	// IncludeClients renders the per-customer pages.
	IncludeClients bool

	// IncludeHarvest renders the harvest summary.
	IncludeHarvest bool

	// Archive moves the input to the archive directory after success.
	// Only batch runs set this.
	Archive bool

	// DryRun stops after validation and writes nothing.
	DryRun bool
}

// =============================================================================
// CONVERTER
// =============================================================================

// Converter processes a single order export.
type Converter struct {
	inputPath string
	cfg       *config.Config
	opts      Options
	log       *logger.Logger
}

// New creates a Converter for one input file.
func New(inputPath string, cfg *config.Config, opts Options, log *logger.Logger) *Converter {
	return &Converter{
		inputPath: inputPath,
		cfg:       cfg,
		opts:      opts,
		log:       log,
	}
}

// Run executes the conversion pipeline.
func (c *Converter) Run() Result {
	start := time.Now()
	result := Result{FilePath: c.inputPath}

	log := c.log.With().Str("file", c.inputPath).Logger()

	// Step 1: parse.
	records, err := c.parse()
	if err != nil {
		result.Error = err
		result.Stats.ProcessingTime = time.Since(start)
		return result
	}
	result.Stats.RecordsParsed = len(records)
	log.Debug().Int("records", len(records)).Msg("parsed input file")

	// Step 2: validate. Warnings are logged and processing continues;
	// errors abort before anything is written.
	vres := validation.Validate(records, time.Now())
	result.Stats.Warnings = vres.WarningCount
	for _, w := range vres.Warnings() {
		log.Warn().Int("row", w.RowNumber).Str("field", w.Field).Str("value", w.Value).Msg(w.Message)
	}
	if !vres.IsValid {
		for _, e := range vres.Errors() {
			log.Error().Int("row", e.RowNumber).Str("field", e.Field).Str("value", e.Value).Msg(e.Message)
		}
		result.Error = fmt.Errorf("validation of %s failed: %s", c.inputPath, vres.Summary())
		result.Stats.ProcessingTime = time.Since(start)
		return result
	}

	// Step 3: aggregate.
	report := aggregate.Build(records)
	report.SourceFile = filepath.Base(c.inputPath)
	result.Stats.Days = len(report.Days)
	result.Stats.Customers = report.CustomerCount()
	result.Stats.LineItems = report.RecordCount()
	log.Debug().
		Int("days", result.Stats.Days).
		Int("customers", result.Stats.Customers).
		Int("line_items", result.Stats.LineItems).
		Msg("aggregated report")

	if c.opts.DryRun {
		result.Success = true
		result.Stats.ProcessingTime = time.Since(start)
		log.Info().Msg("dry run: input is valid, no output written")
		return result
	}

	// Step 4: render in memory.
	pdfBytes, err := pdfwriter.Render(report, pdfwriter.Options{
		Title:          c.cfg.Output.Title,
		PageSize:       c.cfg.Output.PageSize,
		IncludeClients: c.opts.IncludeClients,
		IncludeHarvest: c.opts.IncludeHarvest,
	})
	if err != nil {
		result.Error = err
		result.Stats.ProcessingTime = time.Since(start)
		return result
	}

	// Step 5: atomic write.
	outPath := c.opts.OutPath
	if outPath == "" {
		name := utils.GenerateOutputFileName(c.cfg.Output.FileNamePattern, c.inputPath)
		outPath = filepath.Join(c.cfg.Output.Dir, name)
	}
	if err := utils.WriteFileAtomic(outPath, pdfBytes); err != nil {
		result.Error = err
		result.Stats.ProcessingTime = time.Since(start)
		return result
	}
	result.OutputFile = outPath

	// Step 6: archive on batch runs.
	if c.opts.Archive {
		archived, err := utils.ArchiveFile(c.inputPath, c.cfg.Batch.ArchiveDir)
		if err != nil {
			// The PDF exists; a failed archive is a warning, not a failure.
			log.Warn().Err(err).Msg("failed to archive processed input")
		} else {
			log.Debug().Str("archive", archived).Msg("archived processed input")
		}
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(start)
	log.Info().
		Str("output", outPath).
		Int("records", result.Stats.RecordsParsed).
		Dur("elapsed", result.Stats.ProcessingTime).
		Msg("generated order report")
	return result
}

// parse picks the input adapter by file extension.
func (c *Converter) parse() ([]types.OrderRecord, error) {
	switch strings.ToLower(filepath.Ext(c.inputPath)) {
	case ".csv":
		return csvparser.Parse(c.inputPath, c.cfg.Schema)
	case ".xlsx":
		return xlsxparser.Parse(c.inputPath, c.cfg.Schema)
	default:
		return nil, fmt.Errorf("unsupported input format %q (expected .csv or .xlsx): %s",
			filepath.Ext(c.inputPath), c.inputPath)
	}
}
