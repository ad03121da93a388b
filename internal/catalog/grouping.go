package catalog

import (
	"sort"
)

const (
	HighlightCount = 3
	PreviewCount   = 4
)

// StoreGroup is one store with the deals it currently runs, best discount first.
type StoreGroup struct {
	Store Store  `json:"store"`
	Count int    `json:"count"`
	Deals []Deal `json:"deals"`
}

// Highlights returns the top deals shown on a store page.
func (g StoreGroup) Highlights() []Deal {
	return head(g.Deals, HighlightCount)
}

// Preview returns the deals shown on a store card in the overview.
func (g StoreGroup) Preview() []Deal {
	return head(g.Deals, PreviewCount)
}

// GroupByStore partitions deals by store slug and attaches them to the given
// stores. Groups are ordered by deal count descending, ties keep store order.
// Stores without deals are kept with a zero count; deals whose slug matches no
// store are not reachable from any group.
func GroupByStore(deals []Deal, stores []Store) []StoreGroup {
	bySlug := make(map[string][]Deal)
	for _, d := range deals {
		bySlug[d.StoreSlug] = append(bySlug[d.StoreSlug], d)
	}
	for _, group := range bySlug {
		sortByDiscount(group)
	}

	groups := make([]StoreGroup, 0, len(stores))
	for _, s := range stores {
		list := bySlug[s.Slug]
		groups = append(groups, StoreGroup{
			Store: s,
			Count: len(list),
			Deals: append([]Deal(nil), list...),
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	return groups
}

// FindGroup returns the group for slug.
func FindGroup(groups []StoreGroup, slug string) (StoreGroup, bool) {
	for _, g := range groups {
		if g.Store.Slug == slug {
			return g, true
		}
	}
	return StoreGroup{}, false
}

// StoresWithDeals counts groups that hold at least one deal.
func StoresWithDeals(groups []StoreGroup) int {
	n := 0
	for _, g := range groups {
		if g.Count > 0 {
			n++
		}
	}
	return n
}

func head(deals []Deal, n int) []Deal {
	if len(deals) < n {
		n = len(deals)
	}
	return append([]Deal(nil), deals[:n]...)
}
