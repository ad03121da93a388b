package catalog

import (
	"sort"
)

// DefaultHistoryLimit caps how many past offers are shown for a product.
const DefaultHistoryLimit = 12

// HistoryRow is one offer period in a product's price history.
type HistoryRow struct {
	PriceRecord
	Week           int    `json:"week"`
	ValidFromLabel string `json:"valid_from_label"`
	Current        bool   `json:"current"`
}

// PriceHistory is the recent price trail of one product. A single row carries
// no trend, so Available is only set when there are at least two.
type PriceHistory struct {
	Rows      []HistoryRow `json:"rows"`
	Available bool         `json:"available"`
}

// BuildHistory orders records most recent first, caps them at limit and marks
// the row whose period starts on currentValidFrom.
func BuildHistory(records []PriceRecord, currentValidFrom string, limit int) PriceHistory {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	sorted := append([]PriceRecord(nil), records...)
	// ISO dates order lexically
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ValidFrom > sorted[j].ValidFrom
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	rows := make([]HistoryRow, 0, len(sorted))
	for _, r := range sorted {
		rows = append(rows, HistoryRow{
			PriceRecord:    r,
			Week:           WeekNumber(r.ValidFrom),
			ValidFromLabel: FormatDateFO(r.ValidFrom),
			Current:        r.ValidFrom == currentValidFrom,
		})
	}
	return PriceHistory{Rows: rows, Available: len(rows) > 1}
}
