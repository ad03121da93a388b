package catalog

import (
	"context"
	"sync"
	"sync/atomic"
)

type stubProvider struct {
	mu         sync.Mutex
	deals      []Deal
	stores     []Store
	history    map[string][]PriceRecord
	dealsErr   error
	storesErr  error
	historyErr error

	dealCalls    atomic.Int32
	storeCalls   atomic.Int32
	historyCalls atomic.Int32

	// gate, when set, blocks ActiveDeals until closed
	gate chan struct{}
}

func (s *stubProvider) ActiveDeals(ctx context.Context) ([]Deal, error) {
	s.dealCalls.Add(1)
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dealsErr != nil {
		return nil, s.dealsErr
	}
	return s.deals, nil
}

func (s *stubProvider) ActiveStores(ctx context.Context) ([]Store, error) {
	s.storeCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storesErr != nil {
		return nil, s.storesErr
	}
	return s.stores, nil
}

func (s *stubProvider) PriceHistory(ctx context.Context, productID string, limit int) ([]PriceRecord, error) {
	s.historyCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	rows := s.history[productID]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *stubProvider) setDeals(deals []Deal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deals = deals
}
