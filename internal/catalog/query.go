package catalog

import (
	"sort"
	"strings"

	"github.com/angelmondragon/kurvfo/pkg/enums"
)

// Params narrows and orders the active deals. Empty sets select everything.
type Params struct {
	Search     string
	StoreIDs   []string
	Categories []string
	Sort       enums.SortMode
}

// Query filters then stably sorts deals. The input slice is never reordered.
func Query(deals []Deal, params Params) []Deal {
	needle := strings.ToLower(strings.TrimSpace(params.Search))
	stores := toSet(params.StoreIDs, false)
	categories := toSet(params.Categories, true)

	out := make([]Deal, 0, len(deals))
	for _, d := range deals {
		if needle != "" && !strings.Contains(strings.ToLower(d.ProductName), needle) {
			continue
		}
		if len(stores) > 0 {
			if _, ok := stores[d.StoreID]; !ok {
				continue
			}
		}
		if len(categories) > 0 {
			cat := d.CategoryName()
			if cat == "" {
				continue
			}
			if _, ok := categories[cat]; !ok {
				continue
			}
		}
		out = append(out, d)
	}

	SortDeals(out, params.Sort)
	return out
}

// SortDeals stably orders deals in place. Unknown modes fall back to discount.
func SortDeals(deals []Deal, mode enums.SortMode) {
	switch mode {
	case enums.SortModeSavings:
		sort.SliceStable(deals, func(i, j int) bool {
			return savingsOf(deals[i]) > savingsOf(deals[j])
		})
	case enums.SortModePrice:
		sort.SliceStable(deals, func(i, j int) bool {
			return deals[i].Price < deals[j].Price
		})
	default:
		sortByDiscount(deals)
	}
}

func sortByDiscount(deals []Deal) {
	sort.SliceStable(deals, func(i, j int) bool {
		return discountOf(deals[i]) > discountOf(deals[j])
	})
}

func toSet(values []string, trim bool) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if trim {
			v = strings.TrimSpace(v)
		}
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}
