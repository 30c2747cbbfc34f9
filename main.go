// =============================================================================
// Orders to PDF - Main Entry Point
// =============================================================================
//
// CLI that turns a vegetable-order form export (CSV or XLSX) into a printable
// PDF grouped by delivery day and customer, with a trailing harvest summary.
//
// USAGE:
//   process-orders --out report.pdf orders.csv   - Convert one export
//   process-orders batch                         - Convert a whole directory
//   process-orders validate orders.csv           - Dry run, write nothing
//   process-orders version                       - Display the version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : core business logic (parsing, aggregation, rendering)
//   - pkg/       : shared utilities (logging, file management)
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/orders-to-pdf/cmd"
)

func main() {
	cmd.Execute()
}
