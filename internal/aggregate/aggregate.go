// =============================================================================
// Orders to PDF - Aggregation Module
// =============================================================================
//
// This module turns the flat list of parsed order records into the nested
// structure the report renders:
//
//   delivery day -> customer -> (product, quantity) line items
//
// plus the harvest summary (total quantity per product across all orders).
//
// The aggregation is a pure function of its input: no IO, no side effects,
// and a fixed ordering everywhere (day ascending, then customer name, then
// product name), so the same records always produce the same report.
//
// =============================================================================

package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/orders-to-pdf/internal/types"
)

// Build groups records by delivery day and customer and computes the
// per-product harvest totals. Every record lands in exactly one
// (day, customer) group; the same product appearing twice for the same
// customer and day is merged by summing.
func Build(records []types.OrderRecord) *types.Report {
	type customerKey struct {
		day      string // delivery day, formatted; time.Time is not a usable map key
		customer string
	}

	dayDates := make(map[string]time.Time) // day key -> delivery date
	customers := make(map[customerKey]*customerAccumulator)
	totals := make(map[string]decimal.Decimal)

	for _, rec := range records {
		dayKey := rec.DeliveryDate.Format("2006-01-02")
		dayDates[dayKey] = rec.DeliveryDate

		key := customerKey{day: dayKey, customer: rec.Customer}
		acc, ok := customers[key]
		if !ok {
			acc = &customerAccumulator{
				name:       rec.Customer,
				email:      rec.Email,
				quantities: make(map[string]decimal.Decimal),
			}
			customers[key] = acc
		}
		acc.quantities[rec.Product] = acc.quantities[rec.Product].Add(rec.Quantity)
		if acc.email == "" {
			acc.email = rec.Email
		}

		totals[rec.Product] = totals[rec.Product].Add(rec.Quantity)
	}

	report := &types.Report{}

	// Days, ascending.
	dayKeys := make([]string, 0, len(dayDates))
	for k := range dayDates {
		dayKeys = append(dayKeys, k)
	}
	sort.Strings(dayKeys) // ISO dates sort chronologically as strings

	for _, dayKey := range dayKeys {
		day := types.DayGroup{Date: dayDates[dayKey]}

		// Customers of this day, by name.
		var accs []*customerAccumulator
		for key, acc := range customers {
			if key.day == dayKey {
				accs = append(accs, acc)
			}
		}
		sort.Slice(accs, func(i, j int) bool { return accs[i].name < accs[j].name })

		for _, acc := range accs {
			day.Customers = append(day.Customers, acc.toCustomerOrder())
		}
		report.Days = append(report.Days, day)
	}

	// Harvest totals, by product name.
	products := make([]string, 0, len(totals))
	for p := range totals {
		products = append(products, p)
	}
	sort.Strings(products)
	for _, p := range products {
		report.Totals = append(report.Totals, types.ProductTotal{Product: p, Quantity: totals[p]})
	}

	return report
}

// customerAccumulator collects one customer's items for one delivery day.
type customerAccumulator struct {
	name       string
	email      string
	quantities map[string]decimal.Decimal
}

// toCustomerOrder freezes the accumulator into a sorted customer block.
func (a *customerAccumulator) toCustomerOrder() types.CustomerOrder {
	order := types.CustomerOrder{Name: a.name, Email: a.email}

	products := make([]string, 0, len(a.quantities))
	for p := range a.quantities {
		products = append(products, p)
	}
	sort.Strings(products)

	for _, p := range products {
		order.Items = append(order.Items, types.LineItem{Product: p, Quantity: a.quantities[p]})
	}
	return order
}
