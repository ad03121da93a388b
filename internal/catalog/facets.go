package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CategoryCount is how many deals carry one category.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Facets summarises the full deal list for the filter controls.
type Facets struct {
	StoreCounts map[string]int  `json:"store_counts"`
	Categories  []CategoryCount `json:"categories"`
}

// BuildFacets counts deals per store id and per trimmed category.
func BuildFacets(deals []Deal) Facets {
	return Facets{
		StoreCounts: StoreCounts(deals),
		Categories:  CategoryCounts(deals),
	}
}

// StoreCounts maps store id to the number of deals it runs.
func StoreCounts(deals []Deal) map[string]int {
	counts := make(map[string]int)
	for _, d := range deals {
		counts[d.StoreID]++
	}
	return counts
}

// CategoryCounts counts non-empty trimmed categories, most frequent first and
// alphabetically (Faroese collation) within equal counts.
func CategoryCounts(deals []Deal) []CategoryCount {
	counts := make(map[string]int)
	for _, d := range deals {
		if name := d.CategoryName(); name != "" {
			counts[name]++
		}
	}

	out := make([]CategoryCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, CategoryCount{Name: name, Count: count})
	}

	coll := collate.New(language.Make("fo"))
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if c := coll.CompareString(out[i].Name, out[j].Name); c != 0 {
			return c < 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}
