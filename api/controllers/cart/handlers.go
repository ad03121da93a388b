package cart

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/kurvfo/api/responses"
	"github.com/angelmondragon/kurvfo/api/validators"
	cartsvc "github.com/angelmondragon/kurvfo/internal/cart"
	catalogsvc "github.com/angelmondragon/kurvfo/internal/catalog"
	"github.com/angelmondragon/kurvfo/pkg/enums"
	pkgerrors "github.com/angelmondragon/kurvfo/pkg/errors"
	"github.com/angelmondragon/kurvfo/pkg/logger"
)

const maxIDLen = 64

// Engine is the cart surface the HTTP adapter drives.
type Engine interface {
	Loaded() bool
	Summary() cartsvc.Summary
	AddCustom(ctx context.Context, name string) (cartsvc.LineItem, bool)
	AddOrIncrement(ctx context.Context, in cartsvc.NewItem) (cartsvc.LineItem, enums.CartAddOutcome)
	UpdateQuantity(ctx context.Context, id string, quantity int) bool
	ToggleChecked(ctx context.Context, id string) bool
	Remove(ctx context.Context, id string) bool
	ClearAll(ctx context.Context)
	ClearChecked(ctx context.Context) int
	MarkAllPurchased(ctx context.Context) int
}

// DealFinder resolves a deal from the current catalog snapshot.
type DealFinder interface {
	Deal(ctx context.Context, dealID string) (catalogsvc.Deal, error)
}

// CartFetch returns the list with its derived views.
func CartFetch(engine Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}
		responses.WriteSuccess(w, engine.Summary())
	}
}

// CartAddItem adds a typed-in line.
func CartAddItem(engine Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !ensureLoaded(w, r, engine, logg) {
			return
		}

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, ok := engine.AddCustom(r.Context(), payload.Name)
		result := newMutationResult(engine, ok)
		if !ok {
			responses.WriteSuccess(w, result)
			return
		}
		result.Outcome = enums.CartAddOutcomeAdded
		responses.WriteSuccessStatus(w, http.StatusCreated, result.withItem(item))
	}
}

// CartAddDeal adds a deal to the list, or bumps the open line that already
// holds its product.
func CartAddDeal(engine Engine, deals DealFinder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !ensureLoaded(w, r, engine, logg) {
			return
		}
		if deals == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		dealID := validators.SanitizeString(chi.URLParam(r, "dealID"), maxIDLen)
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithDealID(ctx, dealID)
		}

		deal, err := deals.Deal(ctx, dealID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, outcome := engine.AddOrIncrement(ctx, cartsvc.FromDeal(deal))
		result := newMutationResult(engine, outcome != enums.CartAddOutcomeIgnored)
		result.Outcome = outcome
		if outcome == enums.CartAddOutcomeIgnored {
			responses.WriteSuccess(w, result)
			return
		}
		status := http.StatusOK
		if outcome == enums.CartAddOutcomeAdded {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, result.withItem(item))
	}
}

// CartUpdateQuantity sets a line's quantity. Zero removes the line.
func CartUpdateQuantity(engine Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !ensureLoaded(w, r, engine, logg) {
			return
		}

		var payload UpdateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx, itemID := itemContext(r, logg)
		changed := engine.UpdateQuantity(ctx, itemID, *payload.Quantity)
		responses.WriteSuccess(w, newMutationResult(engine, changed))
	}
}

// CartToggleItem flips a line between open and purchased.
func CartToggleItem(engine Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !ensureLoaded(w, r, engine, logg) {
			return
		}
		ctx, itemID := itemContext(r, logg)
		responses.WriteSuccess(w, newMutationResult(engine, engine.ToggleChecked(ctx, itemID)))
	}
}

// CartRemoveItem deletes a line. Unknown ids succeed without changes.
func CartRemoveItem(engine Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !ensureLoaded(w, r, engine, logg) {
			return
		}
		ctx, itemID := itemContext(r, logg)
		responses.WriteSuccess(w, newMutationResult(engine, engine.Remove(ctx, itemID)))
	}
}

// CartClear empties the list.
func CartClear(engine Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !ensureLoaded(w, r, engine, logg) {
			return
		}
		engine.ClearAll(r.Context())
		responses.WriteSuccess(w, newMutationResult(engine, true))
	}
}

// CartClearChecked drops purchased lines.
func CartClearChecked(engine Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !ensureLoaded(w, r, engine, logg) {
			return
		}
		removed := engine.ClearChecked(r.Context())
		result := newMutationResult(engine, removed > 0)
		result.Count = removed
		responses.WriteSuccess(w, result)
	}
}

// CartPurchaseAll marks every open line as purchased.
func CartPurchaseAll(engine Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !ensureLoaded(w, r, engine, logg) {
			return
		}
		marked := engine.MarkAllPurchased(r.Context())
		result := newMutationResult(engine, marked > 0)
		result.Count = marked
		responses.WriteSuccess(w, result)
	}
}

func ensureLoaded(w http.ResponseWriter, r *http.Request, engine Engine, logg *logger.Logger) bool {
	if engine == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
		return false
	}
	if !engine.Loaded() {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotReady, "cart is still loading"))
		return false
	}
	return true
}

func itemContext(r *http.Request, logg *logger.Logger) (context.Context, string) {
	itemID := validators.SanitizeString(chi.URLParam(r, "itemID"), maxIDLen)
	ctx := r.Context()
	if logg != nil {
		ctx = logg.WithCartItemID(ctx, itemID)
	}
	return ctx, itemID
}
