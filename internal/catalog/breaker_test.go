package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	upstream := &stubProvider{dealsErr: errors.New("boom")}
	breaker := NewBreakerProvider(upstream, 2, time.Hour, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := breaker.ActiveDeals(ctx)
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, breaker.State())

	_, err := breaker.ActiveDeals(ctx)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.EqualValues(t, 2, upstream.dealCalls.Load())

	// stores trip independently
	upstream.stores = []Store{{ID: "s1"}}
	stores, err := breaker.ActiveStores(ctx)
	require.NoError(t, err)
	assert.Len(t, stores, 1)
}

func TestBreakerHalfOpensAfterCooldown(t *testing.T) {
	upstream := &stubProvider{dealsErr: errors.New("boom")}
	breaker := NewBreakerProvider(upstream, 1, 20*time.Millisecond, nil)
	ctx := context.Background()

	_, err := breaker.ActiveDeals(ctx)
	require.Error(t, err)
	require.Equal(t, gobreaker.StateOpen, breaker.State())

	upstream.mu.Lock()
	upstream.dealsErr = nil
	upstream.deals = []Deal{newDeal("1", "Kaffi")}
	upstream.mu.Unlock()

	require.Eventually(t, func() bool {
		return breaker.State() == gobreaker.StateHalfOpen
	}, time.Second, 5*time.Millisecond)

	deals, err := breaker.ActiveDeals(ctx)
	require.NoError(t, err)
	assert.Len(t, deals, 1)
	assert.Equal(t, gobreaker.StateClosed, breaker.State())
}

func TestBreakerIgnoresCallerCancellation(t *testing.T) {
	upstream := &stubProvider{historyErr: context.Canceled}
	breaker := NewBreakerProvider(upstream, 1, time.Hour, nil)

	for i := 0; i < 3; i++ {
		_, err := breaker.PriceHistory(context.Background(), "p1", 12)
		require.ErrorIs(t, err, context.Canceled)
	}
	assert.EqualValues(t, 3, upstream.historyCalls.Load())
}
