package cart

import (
	cartsvc "github.com/angelmondragon/kurvfo/internal/cart"
	"github.com/angelmondragon/kurvfo/pkg/enums"
)

// MutationResult reports what a cart request changed along with the
// refreshed list views.
type MutationResult struct {
	Changed bool                 `json:"changed"`
	Outcome enums.CartAddOutcome `json:"outcome,omitempty"`
	Item    *cartsvc.LineItem    `json:"item,omitempty"`
	Count   int                  `json:"count,omitempty"`
	Cart    cartsvc.Summary      `json:"cart"`
}

func newMutationResult(engine Engine, changed bool) MutationResult {
	return MutationResult{Changed: changed, Cart: engine.Summary()}
}

func (m MutationResult) withItem(item cartsvc.LineItem) MutationResult {
	m.Item = &item
	return m
}
