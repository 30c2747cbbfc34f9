// =============================================================================
// Orders to PDF - XLSX Parser Module
// =============================================================================
//
// Some form platforms export orders as .xlsx workbooks instead of CSV. This
// module reads the first sheet of such a workbook and hands the rows to the
// same decoder the CSV parser uses, so both formats produce identical order
// records for identical content.
//
// Only cell values are read; formatting, formulas results and extra sheets
// are ignored.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/orders-to-pdf/internal/config"
	"github.com/ginjaninja78/orders-to-pdf/internal/csvparser"
	"github.com/ginjaninja78/orders-to-pdf/internal/types"
)

// Parse reads an XLSX export and returns the order records it contains.
// The first row of the first sheet is the header; entirely empty rows are
// skipped.
func Parse(filePath string, schema config.SchemaConfig) ([]types.OrderRecord, error) {
	workbook, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %s: %w", filePath, err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, &types.ParseError{File: filePath, Msg: "workbook has no sheets"}
	}

	allRows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q in %s: %w", sheets[0], filePath, err)
	}
	if len(allRows) == 0 {
		return nil, &types.ParseError{File: filePath, Msg: "file is empty"}
	}

	headers := make([]string, len(allRows[0]))
	copy(headers, allRows[0])

	var rows []csvparser.RawRow
	for i, fields := range allRows[1:] {
		if isRowEmpty(fields) {
			continue
		}
		// Sheet rows are 1-indexed like CSV rows, header included.
		rows = append(rows, csvparser.RawRow{Number: i + 2, Fields: fields})
	}

	return csvparser.DecodeRows(filePath, trimAll(headers), rows, schema)
}

func trimAll(cells []string) []string {
	trimmed := make([]string, len(cells))
	for i, c := range cells {
		trimmed[i] = strings.TrimSpace(c)
	}
	return trimmed
}

func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
