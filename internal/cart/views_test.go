package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(id string, price *float64, qty int, checked bool) LineItem {
	return LineItem{ID: id, ProductName: id, Price: price, Quantity: qty, Checked: checked, AddedAt: fixedNow}
}

func TestPartitionPreservesRelativeOrder(t *testing.T) {
	items := []LineItem{
		line("a", nil, 1, false),
		line("b", nil, 1, true),
		line("c", nil, 1, false),
		line("d", nil, 1, true),
	}

	unchecked, checked := Partition(items)

	assert.Equal(t, []string{"a", "c"}, itemIDs(unchecked))
	assert.Equal(t, []string{"b", "d"}, itemIDs(checked))
}

func TestComputeTotals(t *testing.T) {
	cases := []struct {
		name        string
		items       []LineItem
		total       string
		hasUnpriced bool
		approximate bool
		known       bool
		label       string
	}{
		{
			name:  "empty",
			items: nil,
			total: "0",
		},
		{
			name:  "all priced",
			items: []LineItem{line("a", f64(12.5), 2, false), line("b", f64(0.1), 3, true)},
			total: "25.3",
			known: true,
			label: "25.30",
		},
		{
			name:        "some unpriced",
			items:       []LineItem{line("a", f64(10), 1, false), line("b", nil, 4, false)},
			total:       "10",
			hasUnpriced: true,
			approximate: true,
			known:       true,
			label:       "~10.00",
		},
		{
			name:        "none priced",
			items:       []LineItem{line("a", nil, 1, false)},
			total:       "0",
			hasUnpriced: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			totals := ComputeTotals(tc.items)
			assert.True(t, decimal.RequireFromString(tc.total).Equal(totals.Total), "total %s", totals.Total)
			assert.Equal(t, tc.hasUnpriced, totals.HasUnpriced)
			assert.Equal(t, tc.approximate, totals.Approximate)
			assert.Equal(t, tc.known, totals.Known)
			assert.Equal(t, tc.label, totals.Label())
		})
	}
}

func TestRealizedSavingsCountsCheckedLinesOnly(t *testing.T) {
	withSavings := func(item LineItem, saving float64) LineItem {
		item.SavingsPerUnit = f64(saving)
		return item
	}
	items := []LineItem{
		withSavings(line("a", f64(10), 2, true), 1.5),
		withSavings(line("b", f64(10), 5, false), 4),
		withSavings(line("c", f64(10), 1, true), 0),
		line("d", f64(10), 1, true),
	}

	assert.True(t, decimal.NewFromInt(3).Equal(RealizedSavings(items)))
}

func TestSummarizeCounts(t *testing.T) {
	items := []LineItem{
		line("a", f64(2), 1, false),
		line("b", f64(3), 2, true),
		line("c", nil, 1, false),
	}

	summary := Summarize(items, true)

	require.Len(t, summary.Items, 3)
	assert.Equal(t, 2, summary.InCartCount)
	assert.Equal(t, 1, summary.PurchasedCount)
	assert.Equal(t, "~8.00", summary.TotalLabel)
	assert.True(t, summary.Loaded)
}
