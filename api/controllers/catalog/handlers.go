package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/kurvfo/api/responses"
	"github.com/angelmondragon/kurvfo/api/validators"
	catalogsvc "github.com/angelmondragon/kurvfo/internal/catalog"
	"github.com/angelmondragon/kurvfo/pkg/enums"
	pkgerrors "github.com/angelmondragon/kurvfo/pkg/errors"
	"github.com/angelmondragon/kurvfo/pkg/logger"
)

const (
	maxSearchLen = 128
	maxFilterLen = 64
	maxShown     = 100000
)

// ListDeals serves one page of the filtered, sorted deal list.
func ListDeals(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		sortMode, err := enums.ParseSortMode(r.URL.Query().Get("sort"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort mode").WithDetails(map[string]any{"field": "sort"}))
			return
		}

		shown, err := validators.ParseQueryInt(r, "shown", 0, 0, maxShown)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalogsvc.ListInput{
			Params: catalogsvc.Params{
				Search:     validators.SanitizeString(r.URL.Query().Get("q"), maxSearchLen),
				StoreIDs:   validators.ParseQueryList(r, "store", maxFilterLen),
				Categories: validators.ParseQueryList(r, "category", maxFilterLen),
				Sort:       sortMode,
			},
			Shown: shown,
		}

		responses.WriteSuccess(w, svc.ListDeals(r.Context(), input))
	}
}

// GetDeal serves the inspection view of one deal.
func GetDeal(svc catalogsvc.Service, cart catalogsvc.CartLookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		dealID := validators.SanitizeString(chi.URLParam(r, "dealID"), maxFilterLen)
		if dealID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "deal id required"))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithDealID(ctx, dealID)
		}
		inspection, err := svc.Inspect(ctx, dealID, cart)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, inspection)
	}
}

// ListStores serves the store overview.
func ListStores(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Stores(r.Context()))
	}
}

// GetStore serves one store's highlights and full deal list.
func GetStore(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		slug := validators.SanitizeString(chi.URLParam(r, "slug"), maxFilterLen)
		detail, err := svc.Store(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// RefreshResult summarizes a re-issued catalog load.
type RefreshResult struct {
	Applied  bool      `json:"applied"`
	Seq      uint64    `json:"seq"`
	Deals    int       `json:"deals"`
	Stores   int       `json:"stores"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Refresh re-issues the catalog load. A load overtaken by a newer one reports
// applied=false together with the snapshot that won. The load outlives a
// client that disconnects; the loader's own timeout still bounds it.
func Refresh(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		snap, applied := svc.Refresh(context.WithoutCancel(r.Context()))
		if !applied {
			snap = svc.Snapshot()
		}
		responses.WriteSuccess(w, RefreshResult{
			Applied:  applied,
			Seq:      snap.Seq,
			Deals:    len(snap.Deals),
			Stores:   len(snap.Stores),
			LoadedAt: snap.LoadedAt,
		})
	}
}
