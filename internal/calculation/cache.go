package calculation

import (
	"context"
	"sync"

	"github.com/rpgo/mortgage-calculator/internal/domain"
)

// ResultCache stores calculation results by MortgageInput.CacheKey.
// PutIfAbsent never replaces an existing entry and returns whichever result
// ends up stored, so concurrent writers for a key agree on one value.
type ResultCache interface {
	Get(ctx context.Context, key string) (*domain.CalculationResult, bool, error)
	PutIfAbsent(ctx context.Context, key string, r *domain.CalculationResult) (*domain.CalculationResult, error)
	Clear(ctx context.Context) error
}

// MemoryCache is an unbounded in-process ResultCache.
type MemoryCache struct {
	mu      sync.RWMutex
	results map[string]*domain.CalculationResult
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{results: make(map[string]*domain.CalculationResult)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*domain.CalculationResult, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.results[key]
	return r, ok, nil
}

func (c *MemoryCache) PutIfAbsent(_ context.Context, key string, r *domain.CalculationResult) (*domain.CalculationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.results[key]; ok {
		return existing, nil
	}
	c.results[key] = r
	return r, nil
}

func (c *MemoryCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.results)
	return nil
}

// Len returns the number of cached results.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}
