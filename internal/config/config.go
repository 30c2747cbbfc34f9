// =============================================================================
// Orders to PDF - Configuration Module
// =============================================================================
//
// This module loads and validates the application configuration. One YAML
// file describes everything:
//   - schema:  how to read the order export (layout, columns, date format)
//   - output:  where the generated PDF goes and what it is called
//   - batch:   directories and concurrency for batch runs
//   - log:     logging level and format
//
// The configuration is optional: running without a config file uses the
// defaults, which expect a "long" export with columns
// customer,delivery_date,product,quantity.
//
// SCHEMA LAYOUTS:
//   long - one row per order line: customer, delivery date, product, quantity.
//   wide - one row per customer (Framaform-style export): a name column, an
//          optional e-mail column, and one column per product holding the
//          ordered quantity. The delivery day comes from a date column or
//          from a fixed default_delivery_date.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Layout names accepted in schema.layout.
const (
	LayoutLong = "long"
	LayoutWide = "wide"
)

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config holds the full application configuration.
type Config struct {
	// Schema describes the shape of the order export.
	Schema SchemaConfig `yaml:"schema"`

	// Output controls PDF placement and naming.
	Output OutputConfig `yaml:"output"`

	// Batch controls directory-based batch processing.
	Batch BatchConfig `yaml:"batch"`

	// Log controls logging.
	Log LogConfig `yaml:"log"`
}

// SchemaConfig describes how to read an order export.
type SchemaConfig struct {
	// Layout is "long" or "wide". Default: "long".
	Layout string `yaml:"layout"`

	// Delimiter is the CSV field separator.
	// Default: "," for long layouts, ";" for wide layouts (Framaform
	// exports semicolon-separated files).
	Delimiter string `yaml:"delimiter"`

	// DateFormat is the Go reference layout used to parse delivery dates.
	// Default: "2006-01-02".
	DateFormat string `yaml:"date_format"`

	// Long holds the column names for the long layout.
	Long LongLayout `yaml:"long"`

	// Wide holds the column names for the wide layout.
	Wide WideLayout `yaml:"wide"`
}

// LongLayout names the four columns of a long export.
type LongLayout struct {
	// CustomerColumn is the header of the customer name column.
	// Default: "customer".
	CustomerColumn string `yaml:"customer_column"`

	// DateColumn is the header of the delivery date column.
	// Default: "delivery_date".
	DateColumn string `yaml:"date_column"`

	// ProductColumn is the header of the product column.
	// Default: "product".
	ProductColumn string `yaml:"product_column"`

	// QuantityColumn is the header of the quantity column.
	// Default: "quantity".
	QuantityColumn string `yaml:"quantity_column"`

	// EmailColumn is the header of an optional e-mail column.
	// Empty means the export has none.
	EmailColumn string `yaml:"email_column"`
}

// WideLayout names the special columns of a wide (one row per customer)
// export. Every header that is not listed here is treated as a product.
type WideLayout struct {
	// NameColumn is the header of the customer name column.
	// Default: "NOM - PRENOM" (the Framaform export header).
	NameColumn string `yaml:"name_column"`

	// EmailColumn is the header of the e-mail column, or empty if the
	// form does not collect one. Default: "E-mail".
	EmailColumn string `yaml:"email_column"`

	// DateColumn is the header of an optional delivery date column.
	DateColumn string `yaml:"date_column"`

	// DefaultDeliveryDate is the delivery day applied to every row when
	// the export has no date column. Parsed with DateFormat. A wide
	// schema must set either DateColumn or DefaultDeliveryDate.
	DefaultDeliveryDate string `yaml:"default_delivery_date"`

	// IgnoreColumns lists headers to skip entirely (timestamps, free-text
	// remarks and other non-product columns the form platform adds).
	IgnoreColumns []string `yaml:"ignore_columns"`
}

// OutputConfig controls where the generated PDF goes.
type OutputConfig struct {
	// Dir is the directory for generated PDFs when --out is not given.
	// Default: "./output".
	Dir string `yaml:"dir"`

	// FileNamePattern names the generated PDF when --out is not given.
	// Placeholders:
	//   {original}  - input file name without extension
	//   {date}      - current date (YYYYMMDD)
	//   {timestamp} - current timestamp (YYYYMMDD_HHMMSS)
	//   {uuid}      - a random UUID
	// Default: "{original}_{date}.pdf".
	FileNamePattern string `yaml:"file_name_pattern"`

	// Title is the document title printed on the first page and stored in
	// the PDF metadata. Default: "Vegetable Orders".
	Title string `yaml:"title"`

	// PageSize is "A4" or "Letter". Default: "A4".
	PageSize string `yaml:"page_size"`
}

// BatchConfig controls the batch command.
type BatchConfig struct {
	// InputDir is the directory scanned for order exports.
	// Default: "./input".
	InputDir string `yaml:"input_dir"`

	// ArchiveDir is where successfully processed exports are moved.
	// Default: "./input_archive".
	ArchiveDir string `yaml:"archive_dir"`

	// MaxConcurrency bounds the number of files processed at once.
	// Set to 1 for sequential processing. Default: 4.
	MaxConcurrency int `yaml:"max_concurrency"`

	// StopOnError aborts the whole batch on the first failed file.
	// Default: false (failed files are reported, others continue).
	StopOnError bool `yaml:"stop_on_error"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error. Default: "info".
	Level string `yaml:"level"`

	// Format is "console" for human-readable output or "json".
	// Default: "console".
	Format string `yaml:"format"`
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a configuration file, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadOrDefault loads the file at path if it exists and falls back to the
// defaults when it does not. Used for the implicit ./config.yaml lookup so
// the tool runs without any configuration at all.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// applyDefaults sets default values for any unset option.
func applyDefaults(cfg *Config) {
	if cfg.Schema.Layout == "" {
		cfg.Schema.Layout = LayoutLong
	}
	if cfg.Schema.Delimiter == "" {
		// Framaform exports semicolon-separated files.
		if cfg.Schema.Layout == LayoutWide {
			cfg.Schema.Delimiter = ";"
		} else {
			cfg.Schema.Delimiter = ","
		}
	}
	if cfg.Schema.DateFormat == "" {
		cfg.Schema.DateFormat = "2006-01-02"
	}

	if cfg.Schema.Long.CustomerColumn == "" {
		cfg.Schema.Long.CustomerColumn = "customer"
	}
	if cfg.Schema.Long.DateColumn == "" {
		cfg.Schema.Long.DateColumn = "delivery_date"
	}
	if cfg.Schema.Long.ProductColumn == "" {
		cfg.Schema.Long.ProductColumn = "product"
	}
	if cfg.Schema.Long.QuantityColumn == "" {
		cfg.Schema.Long.QuantityColumn = "quantity"
	}

	if cfg.Schema.Wide.NameColumn == "" {
		cfg.Schema.Wide.NameColumn = "NOM - PRENOM"
	}
	if cfg.Schema.Wide.EmailColumn == "" {
		cfg.Schema.Wide.EmailColumn = "E-mail"
	}

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "./output"
	}
	if cfg.Output.FileNamePattern == "" {
		cfg.Output.FileNamePattern = "{original}_{date}.pdf"
	}
	if cfg.Output.Title == "" {
		cfg.Output.Title = "Vegetable Orders"
	}
	if cfg.Output.PageSize == "" {
		cfg.Output.PageSize = "A4"
	}

	if cfg.Batch.InputDir == "" {
		cfg.Batch.InputDir = "./input"
	}
	if cfg.Batch.ArchiveDir == "" {
		cfg.Batch.ArchiveDir = "./input_archive"
	}
	if cfg.Batch.MaxConcurrency == 0 {
		cfg.Batch.MaxConcurrency = 4
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for contradictions that would otherwise
// surface as confusing parse errors later.
func (c *Config) Validate() error {
	switch c.Schema.Layout {
	case LayoutLong, LayoutWide:
	default:
		return fmt.Errorf("schema.layout must be %q or %q, got %q", LayoutLong, LayoutWide, c.Schema.Layout)
	}

	if len(c.Schema.Delimiter) != 1 {
		return fmt.Errorf("schema.delimiter must be a single character, got %q", c.Schema.Delimiter)
	}

	// Reject an unusable date format early: round-trip a known date.
	probe := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if _, err := time.Parse(c.Schema.DateFormat, probe.Format(c.Schema.DateFormat)); err != nil {
		return fmt.Errorf("schema.date_format %q is not a valid Go date layout: %w", c.Schema.DateFormat, err)
	}

	if c.Schema.Layout == LayoutWide {
		if c.Schema.Wide.DateColumn == "" && c.Schema.Wide.DefaultDeliveryDate == "" {
			return fmt.Errorf("wide schema needs a delivery day: set schema.wide.date_column or schema.wide.default_delivery_date")
		}
		if c.Schema.Wide.DefaultDeliveryDate != "" {
			if _, err := time.Parse(c.Schema.DateFormat, c.Schema.Wide.DefaultDeliveryDate); err != nil {
				return fmt.Errorf("schema.wide.default_delivery_date %q does not match date_format %q: %w",
					c.Schema.Wide.DefaultDeliveryDate, c.Schema.DateFormat, err)
			}
		}
	}

	switch c.Output.PageSize {
	case "A4", "Letter":
	default:
		return fmt.Errorf("output.page_size must be \"A4\" or \"Letter\", got %q", c.Output.PageSize)
	}

	if c.Batch.MaxConcurrency < 1 {
		return fmt.Errorf("batch.max_concurrency must be at least 1, got %d", c.Batch.MaxConcurrency)
	}

	return nil
}
