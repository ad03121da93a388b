package catalog

import (
	"context"
	"fmt"

	pkgerrors "github.com/angelmondragon/kurvfo/pkg/errors"
	"github.com/angelmondragon/kurvfo/pkg/logger"
	"github.com/angelmondragon/kurvfo/pkg/pagination"
)

type snapshotLoader interface {
	Refresh(ctx context.Context) (Snapshot, bool)
	Snapshot() Snapshot
}

type historySource interface {
	PriceHistory(ctx context.Context, productID string, limit int) ([]PriceRecord, error)
}

// CartLookup answers whether an open cart line already holds a product.
type CartLookup interface {
	HasUnchecked(productID string) bool
}

// Options tunes the browse and inspection views.
type Options struct {
	PageSize     int
	SimilarMax   int
	HistoryLimit int
}

// Service exposes catalog read operations over the current snapshot.
type Service interface {
	Refresh(ctx context.Context) (Snapshot, bool)
	Snapshot() Snapshot
	ListDeals(ctx context.Context, input ListInput) *DealList
	Stores(ctx context.Context) *StoreOverview
	Store(ctx context.Context, slug string) (*StoreDetail, error)
	Deal(ctx context.Context, dealID string) (Deal, error)
	Inspect(ctx context.Context, dealID string, cart CartLookup) (*Inspection, error)
}

type service struct {
	loader  snapshotLoader
	history historySource
	opts    Options
	logg    *logger.Logger
}

// NewService builds the catalog service.
func NewService(loader snapshotLoader, history historySource, opts Options, logg *logger.Logger) (Service, error) {
	if loader == nil {
		return nil, fmt.Errorf("catalog loader required")
	}
	if history == nil {
		return nil, fmt.Errorf("price history source required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	opts.PageSize = pagination.NormalizePageSize(opts.PageSize)
	if opts.SimilarMax <= 0 {
		opts.SimilarMax = DefaultSimilarMax
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	return &service{loader: loader, history: history, opts: opts, logg: logg}, nil
}

// ListInput is one browse request. Shown is the caller-owned cursor.
type ListInput struct {
	Params
	Shown int
}

// DealList is one rendered page of the browse view.
type DealList struct {
	Deals      []DealView `json:"deals"`
	Shown      int        `json:"shown"`
	Total      int        `json:"total"`
	HasMore    bool       `json:"has_more"`
	NextShown  int        `json:"next_shown"`
	PageSize   int        `json:"page_size"`
	TotalDeals int        `json:"total_deals"`
	Facets     Facets     `json:"facets"`
	Loaded     bool       `json:"loaded"`
}

// StoreCard is a store tile in the overview.
type StoreCard struct {
	Store   Store      `json:"store"`
	Color   string     `json:"color"`
	Count   int        `json:"count"`
	Preview []DealView `json:"preview"`
}

// StoreOverview lists every active store by deal count.
type StoreOverview struct {
	Stores          []StoreCard `json:"stores"`
	TotalDeals      int         `json:"total_deals"`
	StoresWithDeals int         `json:"stores_with_deals"`
	Loaded          bool        `json:"loaded"`
}

// StoreDetail is the page for one store.
type StoreDetail struct {
	Store      Store      `json:"store"`
	Color      string     `json:"color"`
	Count      int        `json:"count"`
	Highlights []DealView `json:"highlights"`
	Deals      []DealView `json:"deals"`
}

// Inspection is the detail view of one deal.
type Inspection struct {
	Deal    DealView     `json:"deal"`
	History PriceHistory `json:"history"`
	Similar []DealView   `json:"similar"`
	InCart  bool         `json:"in_cart"`
}

func (s *service) Refresh(ctx context.Context) (Snapshot, bool) {
	return s.loader.Refresh(ctx)
}

func (s *service) Snapshot() Snapshot {
	return s.loader.Snapshot()
}

func (s *service) ListDeals(ctx context.Context, input ListInput) *DealList {
	snap := s.loader.Snapshot()
	list := Query(snap.Deals, input.Params)

	shown := pagination.NormalizeShown(input.Shown, s.opts.PageSize)
	page := pagination.Slice(list, shown)

	return &DealList{
		Deals:      PresentAll(page.Visible),
		Shown:      page.Shown,
		Total:      page.Total,
		HasMore:    page.HasMore,
		NextShown:  pagination.Advance(shown, s.opts.PageSize, page.Total),
		PageSize:   s.opts.PageSize,
		TotalDeals: len(snap.Deals),
		Facets:     BuildFacets(snap.Deals),
		Loaded:     snap.Loaded,
	}
}

func (s *service) Stores(ctx context.Context) *StoreOverview {
	snap := s.loader.Snapshot()
	groups := GroupByStore(snap.Deals, snap.Stores)

	cards := make([]StoreCard, 0, len(groups))
	for _, g := range groups {
		cards = append(cards, StoreCard{
			Store:   g.Store,
			Color:   NormalizeColor(g.Store.Color),
			Count:   g.Count,
			Preview: PresentAll(g.Preview()),
		})
	}
	return &StoreOverview{
		Stores:          cards,
		TotalDeals:      len(snap.Deals),
		StoresWithDeals: StoresWithDeals(groups),
		Loaded:          snap.Loaded,
	}
}

func (s *service) Store(ctx context.Context, slug string) (*StoreDetail, error) {
	snap := s.loader.Snapshot()
	group, ok := FindGroup(GroupByStore(snap.Deals, snap.Stores), slug)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return &StoreDetail{
		Store:      group.Store,
		Color:      NormalizeColor(group.Store.Color),
		Count:      group.Count,
		Highlights: PresentAll(group.Highlights()),
		Deals:      PresentAll(group.Deals),
	}, nil
}

func (s *service) Deal(ctx context.Context, dealID string) (Deal, error) {
	for _, d := range s.loader.Snapshot().Deals {
		if d.DealID == dealID {
			return d, nil
		}
	}
	return Deal{}, pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
}

func (s *service) Inspect(ctx context.Context, dealID string, cart CartLookup) (*Inspection, error) {
	snap := s.loader.Snapshot()
	var deal Deal
	found := false
	for _, d := range snap.Deals {
		if d.DealID == dealID {
			deal, found = d, true
			break
		}
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
	}

	records, err := s.history.PriceHistory(ctx, deal.ProductID, s.opts.HistoryLimit)
	if err != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"deal_id": deal.DealID, "product_id": deal.ProductID})
		s.logg.Error(ctx, "fetching price history", err)
		records = nil
	}

	inCart := false
	if cart != nil {
		inCart = cart.HasUnchecked(deal.ProductID)
	}

	return &Inspection{
		Deal:    Present(deal),
		History: BuildHistory(records, deal.ValidFrom, s.opts.HistoryLimit),
		Similar: PresentAll(SimilarDeals(deal, snap.Deals, s.opts.SimilarMax)),
		InCart:  inCart,
	}, nil
}
