package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/kurvfo/pkg/logger"
	"github.com/sony/gobreaker/v2"
)

// BreakerProvider stops calling a failing deal source for a cooldown period.
// Each resource trips independently.
type BreakerProvider struct {
	next    Provider
	deals   *gobreaker.CircuitBreaker[[]Deal]
	stores  *gobreaker.CircuitBreaker[[]Store]
	history *gobreaker.CircuitBreaker[[]PriceRecord]
}

// NewBreakerProvider trips after failures consecutive errors and half-opens after cooldown.
func NewBreakerProvider(next Provider, failures uint32, cooldown time.Duration, logg *logger.Logger) *BreakerProvider {
	if failures == 0 {
		failures = 5
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &BreakerProvider{
		next:    next,
		deals:   gobreaker.NewCircuitBreaker[[]Deal](breakerSettings(resourceDeals, failures, cooldown, logg)),
		stores:  gobreaker.NewCircuitBreaker[[]Store](breakerSettings(resourceStores, failures, cooldown, logg)),
		history: gobreaker.NewCircuitBreaker[[]PriceRecord](breakerSettings(resourceHistory, failures, cooldown, logg)),
	}
}

func breakerSettings(resource string, failures uint32, cooldown time.Duration, logg *logger.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        "catalog_" + resource,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// a caller giving up says nothing about the source
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			ctx := logg.WithFields(context.Background(), map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			logg.Warn(ctx, "catalog breaker state changed")
		},
	}
}

func (b *BreakerProvider) ActiveDeals(ctx context.Context) ([]Deal, error) {
	return b.deals.Execute(func() ([]Deal, error) {
		return b.next.ActiveDeals(ctx)
	})
}

func (b *BreakerProvider) ActiveStores(ctx context.Context) ([]Store, error) {
	return b.stores.Execute(func() ([]Store, error) {
		return b.next.ActiveStores(ctx)
	})
}

func (b *BreakerProvider) PriceHistory(ctx context.Context, productID string, limit int) ([]PriceRecord, error) {
	return b.history.Execute(func() ([]PriceRecord, error) {
		return b.next.PriceHistory(ctx, productID, limit)
	})
}

// State reports the deal breaker state, which gates catalog loads.
func (b *BreakerProvider) State() gobreaker.State {
	return b.deals.State()
}
