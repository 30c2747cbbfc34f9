// =============================================================================
// Orders to PDF - PDF Writer Module
// =============================================================================
//
// This module renders the aggregated report into a paginated PDF using
// Maroto v2. The document layout:
//
//	┌─────────────────────────────────────────────────────────┐
//	│  TITLE (document title + source file)                   │
//	│  ───────────────────────────────────────────────────    │
//	│  DELIVERY DAY: Wednesday, 01 May 2024                   │
//	│    Order for Alice            e-mail: alice@example.org │
//	│      product        quantity                            │
//	│      carrot         3                                   │
//	│    Order for Bob ...                                    │
//	│  DELIVERY DAY: Thursday, 02 May 2024 ...                │
//	│  ───────────────────────────────────────────────────    │
//	│  PRODUCTS TO HARVEST                                    │
//	│      carrot         5                                   │
//	│      leek           1                                   │
//	└─────────────────────────────────────────────────────────┘
//
// Rendering is formatting only: the report arrives fully grouped and sorted,
// and the whole document is produced in memory. Writing the bytes to disk is
// the caller's job, which keeps "no partial output on failure" trivial.
//
// =============================================================================

package pdfwriter

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/ginjaninja78/orders-to-pdf/internal/types"
)

// =============================================================================
// COLOR PALETTE
// =============================================================================

var (
	colorPrimary = &props.Color{Red: 46, Green: 110, Blue: 60} // market-garden green
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options control what the document contains and how it is labeled.
type Options struct {
	// Title is printed at the top of the document and stored in the PDF
	// metadata.
	Title string

	// PageSize is "A4" or "Letter".
	PageSize string

	// IncludeClients renders the per-customer order pages.
	IncludeClients bool

	// IncludeHarvest renders the trailing harvest summary.
	IncludeHarvest bool
}

// =============================================================================
// RENDERING
// =============================================================================

// Render produces the PDF document for a report and returns its bytes.
func Render(report *types.Report, opts Options) ([]byte, error) {
	size := pagesize.A4
	if opts.PageSize == "Letter" {
		size = pagesize.Letter
	}

	cfg := config.NewBuilder().
		WithPageSize(size).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle(opts.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRow(opts.Title, report.SourceFile))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if opts.IncludeClients {
		for _, day := range report.Days {
			m.AddRows(dayHeadingRow(day))
			for _, customer := range day.Customers {
				m.AddRows(customerRows(customer)...)
			}
		}
	}

	if opts.IncludeHarvest {
		if opts.IncludeClients {
			m.AddRows(line.NewRow(4, props.Line{Color: colorPrimary, Thickness: 0.5}))
		}
		m.AddRows(harvestRows(report.Totals)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// =============================================================================
// SECTIONS
// =============================================================================

// titleRow: document title on the left, source file on the right.
func titleRow(title, sourceFile string) core.Row {
	return row.New(12).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 16, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New(sourceFile, props.Text{
				Size: 7, Align: align.Right, Color: colorGray, Top: 5,
			}),
		),
	)
}

// dayHeadingRow: one heading per delivery day.
func dayHeadingRow(day types.DayGroup) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("Delivery day: "+day.Date.Format("Monday, 02 January 2006"), props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 4,
			}),
		),
	)
}

// customerRows: the block for a single customer, mirroring the order slips
// the grower pins to each crate: a name line, then one line per item.
func customerRows(customer types.CustomerOrder) []core.Row {
	email := customer.Email
	if email == "" {
		email = "not specified"
	}

	rows := []core.Row{
		row.New(8).Add(
			col.New(7).Add(
				text.New("Order for "+customer.Name, props.Text{
					Style: fontstyle.Bold, Size: 10, Top: 2,
				}),
			),
			col.New(5).Add(
				text.New("e-mail: "+email, props.Text{
					Size: 8, Align: align.Right, Color: colorGray, Top: 3,
				}),
			),
		),
		itemHeaderRow(),
	}

	for _, item := range customer.Items {
		rows = append(rows, itemRow(item.Product, item.Quantity.String()))
	}

	rows = append(rows, row.New(3))
	return rows
}

// harvestRows: the trailing totals table used to plan the picking.
func harvestRows(totals []types.ProductTotal) []core.Row {
	rows := []core.Row{
		row.New(12).Add(
			col.New(12).Add(
				text.New("Products to harvest", props.Text{
					Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 4,
				}),
			),
		),
		itemHeaderRow(),
	}

	for _, total := range totals {
		rows = append(rows, itemRow(total.Product, total.Quantity.String()))
	}
	return rows
}

// itemHeaderRow: the two-column header shared by customer blocks and the
// harvest summary.
func itemHeaderRow() core.Row {
	return row.New(6).Add(
		col.New(8).Add(
			text.New("Product", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 1, Left: 2,
			}),
		),
		col.New(4).Add(
			text.New("Quantity", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorGray, Align: align.Right, Top: 1, Right: 2,
			}),
		),
	)
}

// itemRow: one product/quantity line.
func itemRow(product, quantity string) core.Row {
	return row.New(6).Add(
		col.New(8).Add(
			text.New(product, props.Text{Size: 9, Top: 1, Left: 2}),
		),
		col.New(4).Add(
			text.New(quantity, props.Text{Size: 9, Align: align.Right, Top: 1, Right: 2}),
		),
	)
}
