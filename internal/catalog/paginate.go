package catalog

import (
	"github.com/angelmondragon/kurvfo/pkg/pagination"
)

// Page is the visible prefix of a result list.
type Page = pagination.Page[Deal]

// Paginate returns the first shown deals. A non-positive shown opens the first page.
func Paginate(list []Deal, shown int) Page {
	return pagination.Slice(list, pagination.NormalizeShown(shown, pagination.DefaultPageSize))
}
