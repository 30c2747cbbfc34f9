// =============================================================================
// Orders to PDF - CSV Parser Module
// =============================================================================
//
// This module reads an order-form CSV export into typed order records. It
// handles the two export shapes described in the schema configuration:
//
//   long - one row per order line:
//            customer,delivery_date,product,quantity
//            Alice,2024-05-01,carrot,3
//
//   wide - one row per customer, one column per product (the shape Framaform
//          produces):
//            NOM - PRENOM;E-mail;carrot;leek
//            Alice;alice@example.org;3;
//
// ERROR HANDLING:
//   Any malformed row produces a *types.ParseError carrying the 1-indexed
//   row number, the column and the offending value. The first error aborts
//   parsing; the caller writes no output.
//
// The row decoding is shared with the XLSX parser via DecodeRows, so both
// input formats produce identical records for identical content.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/orders-to-pdf/internal/config"
	"github.com/ginjaninja78/orders-to-pdf/internal/types"
)

// RawRow is one data row of an export, with its position in the source file.
type RawRow struct {
	// Number is the 1-indexed row number in the source file, header included.
	Number int

	// Fields are the cell values of the row.
	Fields []string
}

// =============================================================================
// CSV PARSING
// =============================================================================

// Parse reads a CSV export and returns the order records it contains.
//
// The first row is the header. Rows that are entirely empty are skipped;
// every other row must decode cleanly or the whole parse fails.
func Parse(filePath string, schema config.SchemaConfig) ([]types.OrderRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	reader.Comma = ','
	if schema.Delimiter != "" {
		reader.Comma = rune(schema.Delimiter[0])
	}
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, &types.ParseError{File: filePath, Msg: "file is empty"}
	}
	if err != nil {
		return nil, wrapCSVError(filePath, 1, err)
	}

	var rows []RawRow
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// The csv reader enforces a consistent field count, so a
			// row with the wrong number of columns surfaces here.
			return nil, wrapCSVError(filePath, 0, err)
		}
		// The reader silently skips blank lines, so the physical line
		// number must come from the reader itself, not from counting
		// returned records.
		line, _ := reader.FieldPos(0)
		if isRowEmpty(fields) {
			continue
		}
		rows = append(rows, RawRow{Number: line, Fields: fields})
	}

	return DecodeRows(filePath, cleanHeaders(headers), rows, schema)
}

// wrapCSVError converts a csv package error into a ParseError with a row
// number the user can act on.
func wrapCSVError(filePath string, fallbackRow int, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		msg := pe.Err.Error()
		if errors.Is(pe.Err, csv.ErrFieldCount) {
			msg = "wrong number of columns"
		}
		return &types.ParseError{File: filePath, Row: pe.Line, Msg: msg}
	}
	return &types.ParseError{File: filePath, Row: fallbackRow, Msg: err.Error()}
}

// cleanHeaders trims whitespace from header cells.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, h := range headers {
		cleaned[i] = strings.TrimSpace(h)
	}
	return cleaned
}

// isRowEmpty reports whether a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// ROW DECODING (shared with the XLSX parser)
// =============================================================================

// DecodeRows turns raw header/row data into order records according to the
// schema. The CSV and XLSX parsers both end up here, so the two formats
// behave identically.
func DecodeRows(filePath string, headers []string, rows []RawRow, schema config.SchemaConfig) ([]types.OrderRecord, error) {
	switch schema.Layout {
	case config.LayoutWide:
		return decodeWide(filePath, headers, rows, schema)
	default:
		return decodeLong(filePath, headers, rows, schema)
	}
}

// -----------------------------------------------------------------------------
// Long layout
// -----------------------------------------------------------------------------

// decodeLong decodes one order record per row.
func decodeLong(filePath string, headers []string, rows []RawRow, schema config.SchemaConfig) ([]types.OrderRecord, error) {
	customerIdx, err := requireColumn(filePath, headers, schema.Long.CustomerColumn)
	if err != nil {
		return nil, err
	}
	dateIdx, err := requireColumn(filePath, headers, schema.Long.DateColumn)
	if err != nil {
		return nil, err
	}
	productIdx, err := requireColumn(filePath, headers, schema.Long.ProductColumn)
	if err != nil {
		return nil, err
	}
	quantityIdx, err := requireColumn(filePath, headers, schema.Long.QuantityColumn)
	if err != nil {
		return nil, err
	}

	emailIdx := -1
	if schema.Long.EmailColumn != "" {
		emailIdx = findColumn(headers, schema.Long.EmailColumn)
	}

	records := make([]types.OrderRecord, 0, len(rows))
	for _, row := range rows {
		customer, err := cellAt(filePath, row, headers, customerIdx)
		if err != nil {
			return nil, err
		}
		if customer == "" {
			return nil, &types.ParseError{
				File: filePath, Row: row.Number,
				Column: schema.Long.CustomerColumn,
				Msg:    "customer name is empty",
			}
		}

		rawDate, err := cellAt(filePath, row, headers, dateIdx)
		if err != nil {
			return nil, err
		}
		date, err := parseDate(filePath, row.Number, schema.Long.DateColumn, rawDate, schema.DateFormat)
		if err != nil {
			return nil, err
		}

		product, err := cellAt(filePath, row, headers, productIdx)
		if err != nil {
			return nil, err
		}
		if product == "" {
			return nil, &types.ParseError{
				File: filePath, Row: row.Number,
				Column: schema.Long.ProductColumn,
				Msg:    "product name is empty",
			}
		}

		rawQty, err := cellAt(filePath, row, headers, quantityIdx)
		if err != nil {
			return nil, err
		}
		quantity, err := parseQuantity(filePath, row.Number, schema.Long.QuantityColumn, rawQty)
		if err != nil {
			return nil, err
		}

		email := ""
		if emailIdx >= 0 && emailIdx < len(row.Fields) {
			email = strings.TrimSpace(row.Fields[emailIdx])
		}

		records = append(records, types.OrderRecord{
			Customer:     customer,
			Email:        email,
			DeliveryDate: date,
			Product:      product,
			Quantity:     quantity,
			SourceRow:    row.Number,
		})
	}

	return records, nil
}

// -----------------------------------------------------------------------------
// Wide layout
// -----------------------------------------------------------------------------

// decodeWide decodes one record per non-empty product cell. A row describes
// one customer's whole order: empty product cells mean "not ordered".
func decodeWide(filePath string, headers []string, rows []RawRow, schema config.SchemaConfig) ([]types.OrderRecord, error) {
	nameIdx, err := requireColumn(filePath, headers, schema.Wide.NameColumn)
	if err != nil {
		return nil, err
	}

	emailIdx := -1
	if schema.Wide.EmailColumn != "" {
		emailIdx = findColumn(headers, schema.Wide.EmailColumn)
	}

	dateIdx := -1
	if schema.Wide.DateColumn != "" {
		dateIdx, err = requireColumn(filePath, headers, schema.Wide.DateColumn)
		if err != nil {
			return nil, err
		}
	}

	var defaultDate time.Time
	if dateIdx < 0 {
		// Config validation guarantees DefaultDeliveryDate is set and
		// parseable when there is no date column.
		defaultDate, err = time.Parse(schema.DateFormat, schema.Wide.DefaultDeliveryDate)
		if err != nil {
			return nil, fmt.Errorf("invalid default delivery date %q: %w", schema.Wide.DefaultDeliveryDate, err)
		}
	}

	ignored := make(map[int]bool)
	for _, name := range schema.Wide.IgnoreColumns {
		if idx := findColumn(headers, name); idx >= 0 {
			ignored[idx] = true
		}
	}

	// Every remaining column is a product.
	var productIdxs []int
	for i, h := range headers {
		if i == nameIdx || i == emailIdx || i == dateIdx || ignored[i] || h == "" {
			continue
		}
		productIdxs = append(productIdxs, i)
	}
	if len(productIdxs) == 0 {
		return nil, &types.ParseError{File: filePath, Msg: "no product columns found in header"}
	}

	var records []types.OrderRecord
	for _, row := range rows {
		customer, err := cellAt(filePath, row, headers, nameIdx)
		if err != nil {
			return nil, err
		}
		if customer == "" {
			return nil, &types.ParseError{
				File: filePath, Row: row.Number,
				Column: schema.Wide.NameColumn,
				Msg:    "customer name is empty",
			}
		}

		email := ""
		if emailIdx >= 0 && emailIdx < len(row.Fields) {
			email = strings.TrimSpace(row.Fields[emailIdx])
		}

		date := defaultDate
		if dateIdx >= 0 {
			rawDate, err := cellAt(filePath, row, headers, dateIdx)
			if err != nil {
				return nil, err
			}
			date, err = parseDate(filePath, row.Number, schema.Wide.DateColumn, rawDate, schema.DateFormat)
			if err != nil {
				return nil, err
			}
		}

		for _, idx := range productIdxs {
			if idx >= len(row.Fields) {
				continue
			}
			cell := strings.TrimSpace(row.Fields[idx])
			if cell == "" {
				continue
			}
			quantity, err := parseQuantity(filePath, row.Number, headers[idx], cell)
			if err != nil {
				return nil, err
			}
			records = append(records, types.OrderRecord{
				Customer:     customer,
				Email:        email,
				DeliveryDate: date,
				Product:      headers[idx],
				Quantity:     quantity,
				SourceRow:    row.Number,
			})
		}
	}

	return records, nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// findColumn returns the index of the named header, or -1.
func findColumn(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}

// requireColumn returns the index of the named header, or a ParseError.
func requireColumn(filePath string, headers []string, name string) (int, error) {
	idx := findColumn(headers, name)
	if idx < 0 {
		return 0, &types.ParseError{
			File:   filePath,
			Column: name,
			Msg:    "column not found in header",
		}
	}
	return idx, nil
}

// cellAt returns the trimmed cell at idx, or a ParseError when the row is
// too short to contain it. Short rows only occur for XLSX input; the csv
// reader rejects them earlier.
func cellAt(filePath string, row RawRow, headers []string, idx int) (string, error) {
	if idx >= len(row.Fields) {
		return "", &types.ParseError{
			File: filePath, Row: row.Number,
			Column: headers[idx],
			Msg:    "row has too few columns",
		}
	}
	return strings.TrimSpace(row.Fields[idx]), nil
}

// parseDate parses a delivery date cell.
func parseDate(filePath string, rowNum int, column, value, layout string) (time.Time, error) {
	if value == "" {
		return time.Time{}, &types.ParseError{
			File: filePath, Row: rowNum,
			Column: column,
			Msg:    "delivery date is empty",
		}
	}
	date, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, &types.ParseError{
			File: filePath, Row: rowNum,
			Column: column, Value: value,
			Msg: fmt.Sprintf("delivery date does not match format %q", layout),
		}
	}
	return date, nil
}

// parseQuantity parses a quantity cell as a decimal.
func parseQuantity(filePath string, rowNum int, column, value string) (decimal.Decimal, error) {
	// Tolerate a decimal comma: French form exports write "0,5".
	normalized := strings.ReplaceAll(value, ",", ".")
	quantity, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, &types.ParseError{
			File: filePath, Row: rowNum,
			Column: column, Value: value,
			Msg: "quantity is not numeric",
		}
	}
	return quantity, nil
}
