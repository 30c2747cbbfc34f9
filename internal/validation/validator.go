// =============================================================================
// Orders to PDF - Validation Engine
// =============================================================================
//
// This module validates parsed order records before anything is rendered.
// Parsing already guarantees the records are well-formed (numeric quantity,
// parseable date, non-empty names); validation catches values that are
// well-formed but suspicious or unusable:
//
//   errors   - negative quantity. The run aborts.
//   warnings - zero quantity, delivery day far in the past or future.
//              The run continues; warnings are logged.
//
// ERROR HANDLING:
//   Errors are collected, not thrown immediately, so a single run reports
//   every problem in the file at once. Each entry carries the source row
//   number for troubleshooting.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/ginjaninja78/orders-to-pdf/internal/types"
)

// Severity levels for validation findings.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// A delivery day more than a year away from the run date is almost certainly
// a typo in the export (e.g. 2014 instead of 2024).
const dateSanityWindow = 365 * 24 * time.Hour

// =============================================================================
// VALIDATION ERROR
// =============================================================================

// ValidationError is a single finding about one record.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field is the logical field that triggered the finding.
	Field string

	// Value is the offending value, formatted.
	Value string

	// Message is a human-readable description.
	Message string

	// RowNumber is the source row of the record (1-indexed, header included).
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] row %d, field %q: %s (value: %q)",
		strings.ToUpper(e.Severity), e.RowNumber, e.Field, e.Message, e.Value)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// Result contains the outcome of validating a record list.
type Result struct {
	// IsValid is true when there are no findings with SeverityError.
	IsValid bool

	// Findings contains every finding, warnings included.
	Findings []*ValidationError

	// ErrorCount is the number of fatal findings.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int
}

// Errors returns only the fatal findings.
func (r *Result) Errors() []*ValidationError {
	var out []*ValidationError
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}

// Warnings returns only the warning findings.
func (r *Result) Warnings() []*ValidationError {
	var out []*ValidationError
	for _, f := range r.Findings {
		if f.Severity == SeverityWarning {
			out = append(out, f)
		}
	}
	return out
}

// Summary returns a one-line description of the result.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d error(s), %d warning(s)", r.ErrorCount, r.WarningCount)
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validate checks every record and collects all findings. now is the
// reference time for the delivery-day sanity check; it is a parameter so
// validation stays deterministic under test.
func Validate(records []types.OrderRecord, now time.Time) *Result {
	result := &Result{IsValid: true}

	for _, rec := range records {
		if rec.Quantity.IsNegative() {
			result.add(&ValidationError{
				Severity:  SeverityError,
				Field:     "quantity",
				Value:     rec.Quantity.String(),
				Message:   "quantity is negative",
				RowNumber: rec.SourceRow,
			})
		} else if rec.Quantity.IsZero() {
			result.add(&ValidationError{
				Severity:  SeverityWarning,
				Field:     "quantity",
				Value:     rec.Quantity.String(),
				Message:   "quantity is zero",
				RowNumber: rec.SourceRow,
			})
		}

		if distance(rec.DeliveryDate, now) > dateSanityWindow {
			result.add(&ValidationError{
				Severity:  SeverityWarning,
				Field:     "delivery_date",
				Value:     rec.DeliveryDate.Format("2006-01-02"),
				Message:   "delivery date is more than a year away from today",
				RowNumber: rec.SourceRow,
			})
		}
	}

	return result
}

func (r *Result) add(finding *ValidationError) {
	r.Findings = append(r.Findings, finding)
	switch finding.Severity {
	case SeverityError:
		r.ErrorCount++
		r.IsValid = false
	case SeverityWarning:
		r.WarningCount++
	}
}

func distance(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d
}
