package cart

import (
	"github.com/shopspring/decimal"
)

// ApproximateMarker prefixes a total that leaves out unpriced lines.
const ApproximateMarker = "~"

// Totals is the running total of a list.
type Totals struct {
	Total       decimal.Decimal `json:"total"`
	HasUnpriced bool            `json:"has_unpriced"`
	Approximate bool            `json:"approximate"`
	Known       bool            `json:"known"`
}

// Label renders the total with two decimals, prefixed by the approximate
// marker when needed. Unknown totals render empty.
func (t Totals) Label() string {
	if !t.Known {
		return ""
	}
	label := t.Total.StringFixed(2)
	if t.Approximate {
		return ApproximateMarker + label
	}
	return label
}

// Summary is every derived view the list screen needs.
type Summary struct {
	Items           []LineItem      `json:"items"`
	Unchecked       []LineItem      `json:"unchecked"`
	Checked         []LineItem      `json:"checked"`
	Totals          Totals          `json:"totals"`
	TotalLabel      string          `json:"total_label"`
	RealizedSavings decimal.Decimal `json:"realized_savings"`
	InCartCount     int             `json:"in_cart_count"`
	PurchasedCount  int             `json:"purchased_count"`
	Loaded          bool            `json:"loaded"`
}

// Summarize derives the list views from items.
func Summarize(items []LineItem, loaded bool) Summary {
	unchecked, checked := Partition(items)
	totals := ComputeTotals(items)
	return Summary{
		Items:           cloneItems(items),
		Unchecked:       unchecked,
		Checked:         checked,
		Totals:          totals,
		TotalLabel:      totals.Label(),
		RealizedSavings: RealizedSavings(items),
		InCartCount:     len(unchecked),
		PurchasedCount:  len(checked),
		Loaded:          loaded,
	}
}

// Partition splits items by the checked flag, preserving relative order.
func Partition(items []LineItem) (unchecked, checked []LineItem) {
	unchecked = make([]LineItem, 0, len(items))
	checked = make([]LineItem, 0)
	for _, item := range items {
		if item.Checked {
			checked = append(checked, item)
			continue
		}
		unchecked = append(unchecked, item)
	}
	return unchecked, checked
}

// ComputeTotals sums price × quantity with missing prices counted as zero.
func ComputeTotals(items []LineItem) Totals {
	total := decimal.Zero
	priced := 0
	for _, item := range items {
		if item.Price == nil {
			continue
		}
		priced++
		line := decimal.NewFromFloat(*item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	hasUnpriced := priced < len(items)
	return Totals{
		Total:       total,
		HasUnpriced: hasUnpriced,
		Approximate: hasUnpriced && priced > 0,
		Known:       total.GreaterThan(decimal.Zero),
	}
}

// RealizedSavings sums savings over purchased lines that carry a saving.
func RealizedSavings(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if !item.Checked || item.SavingsPerUnit == nil {
			continue
		}
		saving := decimal.NewFromFloat(*item.SavingsPerUnit)
		if saving.IsZero() {
			continue
		}
		total = total.Add(saving.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
