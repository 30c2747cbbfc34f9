package aggregate_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/orders-to-pdf/internal/aggregate"
	"github.com/ginjaninja78/orders-to-pdf/internal/types"
)

// rec builds an order record for tests.
func rec(customer, date, product string, quantity string) types.OrderRecord {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return types.OrderRecord{
		Customer:     customer,
		DeliveryDate: d,
		Product:      product,
		Quantity:     decimal.RequireFromString(quantity),
	}
}

func TestBuild_GroupsByDayAndCustomer(t *testing.T) {
	records := []types.OrderRecord{
		rec("Alice", "2024-05-01", "carrot", "3"),
		rec("Bob", "2024-05-01", "carrot", "2"),
		rec("Alice", "2024-05-02", "leek", "1"),
	}

	report := aggregate.Build(records)

	require.Len(t, report.Days, 2)

	day1 := report.Days[0]
	assert.Equal(t, "2024-05-01", day1.Date.Format("2006-01-02"))
	require.Len(t, day1.Customers, 2)
	assert.Equal(t, "Alice", day1.Customers[0].Name)
	require.Len(t, day1.Customers[0].Items, 1)
	assert.Equal(t, "carrot", day1.Customers[0].Items[0].Product)
	assert.True(t, day1.Customers[0].Items[0].Quantity.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, "Bob", day1.Customers[1].Name)
	assert.True(t, day1.Customers[1].Items[0].Quantity.Equal(decimal.NewFromInt(2)))

	day2 := report.Days[1]
	assert.Equal(t, "2024-05-02", day2.Date.Format("2006-01-02"))
	require.Len(t, day2.Customers, 1)
	assert.Equal(t, "Alice", day2.Customers[0].Name)
	assert.Equal(t, "leek", day2.Customers[0].Items[0].Product)

	require.Len(t, report.Totals, 2)
	assert.Equal(t, "carrot", report.Totals[0].Product)
	assert.True(t, report.Totals[0].Quantity.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "leek", report.Totals[1].Product)
	assert.True(t, report.Totals[1].Quantity.Equal(decimal.NewFromInt(1)))
}

func TestBuild_EveryRecordLandsInExactlyOneGroup(t *testing.T) {
	records := []types.OrderRecord{
		rec("Alice", "2024-05-01", "carrot", "3"),
		rec("Bob", "2024-05-01", "potato", "10"),
		rec("Chloe", "2024-05-02", "leek", "1"),
		rec("Alice", "2024-05-02", "carrot", "2"),
		rec("Bob", "2024-05-03", "carrot", "1.5"),
	}

	report := aggregate.Build(records)

	// No merging applies here, so line items map 1:1 to input records.
	assert.Equal(t, len(records), report.RecordCount())

	seen := make(map[string]int)
	for _, day := range report.Days {
		for _, customer := range day.Customers {
			for _, item := range customer.Items {
				seen[day.Date.Format("2006-01-02")+"/"+customer.Name+"/"+item.Product]++
			}
		}
	}
	for key, count := range seen {
		assert.Equal(t, 1, count, "group %s appears more than once", key)
	}
}

func TestBuild_MergesDuplicateProductsPerCustomerAndDay(t *testing.T) {
	records := []types.OrderRecord{
		rec("Alice", "2024-05-01", "carrot", "1.5"),
		rec("Alice", "2024-05-01", "carrot", "2"),
	}

	report := aggregate.Build(records)

	require.Len(t, report.Days, 1)
	require.Len(t, report.Days[0].Customers, 1)
	require.Len(t, report.Days[0].Customers[0].Items, 1)
	assert.True(t, report.Days[0].Customers[0].Items[0].Quantity.Equal(decimal.RequireFromString("3.5")))
	assert.True(t, report.Totals[0].Quantity.Equal(decimal.RequireFromString("3.5")))
}

func TestBuild_TotalsConserveQuantities(t *testing.T) {
	records := []types.OrderRecord{
		rec("Alice", "2024-05-01", "carrot", "0.5"),
		rec("Bob", "2024-05-01", "carrot", "1.25"),
		rec("Chloe", "2024-05-02", "carrot", "3"),
		rec("Alice", "2024-05-02", "leek", "2"),
		rec("Bob", "2024-05-03", "leek", "0.75"),
	}

	report := aggregate.Build(records)

	// Per-product totals must equal the sum of the input quantities.
	want := make(map[string]decimal.Decimal)
	for _, r := range records {
		want[r.Product] = want[r.Product].Add(r.Quantity)
	}
	require.Len(t, report.Totals, len(want))
	for _, total := range report.Totals {
		assert.True(t, total.Quantity.Equal(want[total.Product]),
			"total for %s: got %s, want %s", total.Product, total.Quantity, want[total.Product])
	}

	// And the grouped line items must conserve the same sums.
	grouped := make(map[string]decimal.Decimal)
	for _, day := range report.Days {
		for _, customer := range day.Customers {
			for _, item := range customer.Items {
				grouped[item.Product] = grouped[item.Product].Add(item.Quantity)
			}
		}
	}
	for product, sum := range want {
		assert.True(t, grouped[product].Equal(sum))
	}
}

func TestBuild_Deterministic(t *testing.T) {
	records := []types.OrderRecord{
		rec("Chloe", "2024-05-02", "leek", "1"),
		rec("Alice", "2024-05-01", "carrot", "3"),
		rec("Bob", "2024-05-01", "potato", "10"),
		rec("Alice", "2024-05-02", "carrot", "2"),
	}

	first := aggregate.Build(records)
	second := aggregate.Build(records)

	require.Equal(t, first, second)
}

func TestBuild_Ordering(t *testing.T) {
	// Input deliberately unsorted on every axis.
	records := []types.OrderRecord{
		rec("Zoe", "2024-05-03", "turnip", "1"),
		rec("Zoe", "2024-05-03", "carrot", "1"),
		rec("Anna", "2024-05-03", "leek", "1"),
		rec("Mia", "2024-05-01", "potato", "1"),
	}

	report := aggregate.Build(records)

	require.Len(t, report.Days, 2)
	assert.True(t, report.Days[0].Date.Before(report.Days[1].Date))

	day := report.Days[1]
	require.Len(t, day.Customers, 2)
	assert.Equal(t, "Anna", day.Customers[0].Name)
	assert.Equal(t, "Zoe", day.Customers[1].Name)

	items := day.Customers[1].Items
	require.Len(t, items, 2)
	assert.Equal(t, "carrot", items[0].Product)
	assert.Equal(t, "turnip", items[1].Product)

	assert.Equal(t, []string{"carrot", "leek", "potato", "turnip"}, productNames(report.Totals))
}

func TestBuild_Empty(t *testing.T) {
	report := aggregate.Build(nil)

	assert.Empty(t, report.Days)
	assert.Empty(t, report.Totals)
	assert.Equal(t, 0, report.RecordCount())
	assert.Equal(t, 0, report.CustomerCount())
}

func productNames(totals []types.ProductTotal) []string {
	names := make([]string, len(totals))
	for i, t := range totals {
		names[i] = t.Product
	}
	return names
}
