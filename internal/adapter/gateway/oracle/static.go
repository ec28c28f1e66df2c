package oracle

import (
	"context"
	"sync"
)

// Static quotes prices from a fixed per-unit rate table. Currencies
// without a rate quote zero, mirroring an unbound oracle.
type Static struct {
	mu    sync.RWMutex
	rates map[string]uint64
}

func NewStatic(rates map[string]uint64) *Static {
	cloned := make(map[string]uint64, len(rates))
	for k, v := range rates {
		cloned[k] = v
	}
	return &Static{rates: cloned}
}

func (s *Static) SetRate(currencyCode string, rate uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[currencyCode] = rate
}

func (s *Static) Price(_ context.Context, _ string, currencyCode string, amount uint64) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rates[currencyCode] * amount, nil
}
