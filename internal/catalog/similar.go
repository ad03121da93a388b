package catalog

import (
	"github.com/angelmondragon/kurvfo/internal/similarity"
)

// DefaultSimilarMax is how many related deals an inspection view shows.
const DefaultSimilarMax = 3

// SimilarDeals ranks the other deals by name overlap with reference. The
// reference deal itself, matched by deal id, is never returned.
func SimilarDeals(reference Deal, all []Deal, max int) []Deal {
	if max <= 0 {
		max = DefaultSimilarMax
	}

	others := make([]Deal, 0, len(all))
	names := make([]string, 0, len(all))
	for _, d := range all {
		if d.DealID == reference.DealID {
			continue
		}
		others = append(others, d)
		names = append(names, d.ProductName)
	}

	ranked := similarity.Rank(reference.ProductName, names, max)
	out := make([]Deal, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, others[r.Index])
	}
	return out
}
