// =============================================================================
// Orders to PDF - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser / xlsxparser
//   - aggregate
//   - validation
//   - pdfwriter
//   - converter
//
// =============================================================================

package types

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ORDER RECORD
// =============================================================================

// OrderRecord is a single order line as parsed from the export: one customer
// ordering one quantity of one product for one delivery day. Records are
// immutable once parsed; the aggregator never mutates them.
type OrderRecord struct {
	// Customer is the customer name exactly as it appears in the export.
	Customer string

	// Email is the customer's e-mail address, if the form collects one.
	// Empty when the export has no e-mail column.
	Email string

	// DeliveryDate is the day the order is fulfilled. This is the primary
	// grouping key of the report.
	DeliveryDate time.Time

	// Product is the product name.
	Product string

	// Quantity is the ordered quantity. Decimal, not float: order forms
	// routinely carry fractional kilos (0.5, 1.25) and the harvest totals
	// must sum exactly.
	Quantity decimal.Decimal

	// SourceRow is the 1-indexed row number in the source file, header
	// included. Used for error reporting.
	SourceRow int
}

// =============================================================================
// GROUPED REPORT
// =============================================================================

// Report is the fully aggregated, ordered view of an order export. It is what
// the PDF renderer consumes.
type Report struct {
	// Days holds one group per delivery day, sorted by date ascending.
	Days []DayGroup

	// Totals holds the harvest summary: the summed quantity per product
	// across every order, sorted by product name.
	Totals []ProductTotal

	// SourceFile is the path of the export this report was built from.
	SourceFile string
}

// DayGroup holds all orders for a single delivery day.
type DayGroup struct {
	// Date is the delivery day.
	Date time.Time

	// Customers holds one block per customer, sorted by customer name.
	Customers []CustomerOrder
}

// CustomerOrder is the order of a single customer on a single delivery day.
type CustomerOrder struct {
	// Name is the customer name.
	Name string

	// Email is the customer's e-mail address, or empty.
	Email string

	// Items are the ordered line items, sorted by product name. Duplicate
	// products within the same customer and day are merged by summing.
	Items []LineItem
}

// LineItem is one (product, quantity) pair inside a customer block.
type LineItem struct {
	Product  string
	Quantity decimal.Decimal
}

// ProductTotal is one line of the harvest summary.
type ProductTotal struct {
	Product  string
	Quantity decimal.Decimal
}

// RecordCount returns the number of line items across the whole report.
func (r *Report) RecordCount() int {
	n := 0
	for _, day := range r.Days {
		for _, customer := range day.Customers {
			n += len(customer.Items)
		}
	}
	return n
}

// CustomerCount returns the number of customer blocks across all days.
func (r *Report) CustomerCount() int {
	n := 0
	for _, day := range r.Days {
		n += len(day.Customers)
	}
	return n
}

// =============================================================================
// PARSE ERROR
// =============================================================================

// ParseError describes a malformed row in the input file. Any ParseError
// aborts the run: the tool never writes a PDF from a partially readable
// export.
type ParseError struct {
	// File is the path of the input file.
	File string

	// Row is the 1-indexed row number in the file, header included.
	// Zero when the error is not tied to a specific row (e.g. a missing
	// column in the header).
	Row int

	// Column is the column name the error relates to, if any.
	Column string

	// Value is the offending value, if any.
	Value string

	// Msg describes what is wrong.
	Msg string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "" && e.Value != "":
		return fmt.Sprintf("%s: row %d, column %q: %s (value: %q)", e.File, e.Row, e.Column, e.Msg, e.Value)
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("%s: row %d, column %q: %s", e.File, e.Row, e.Column, e.Msg)
	case e.Row > 0:
		return fmt.Sprintf("%s: row %d: %s", e.File, e.Row, e.Msg)
	case e.Column != "":
		return fmt.Sprintf("%s: column %q: %s", e.File, e.Column, e.Msg)
	default:
		return fmt.Sprintf("%s: %s", e.File, e.Msg)
	}
}
