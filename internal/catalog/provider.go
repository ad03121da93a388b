package catalog

import "context"

const (
	resourceDeals   = "deals"
	resourceStores  = "stores"
	resourceHistory = "history"
)

// Provider is the read-only remote source of deals, stores and price history.
type Provider interface {
	ActiveDeals(ctx context.Context) ([]Deal, error)
	ActiveStores(ctx context.Context) ([]Store, error)
	PriceHistory(ctx context.Context, productID string, limit int) ([]PriceRecord, error)
}
