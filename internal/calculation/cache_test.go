package calculation

import (
	"context"
	"sync"
	"testing"

	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, ok, err := c.Get(ctx, "FHA_90000_95_720_30_0")
	require.NoError(t, err)
	assert.False(t, ok)

	first := &domain.CalculationResult{ID: "first"}
	stored, err := c.PutIfAbsent(ctx, "k", first)
	require.NoError(t, err)
	assert.Same(t, first, stored)

	stored, err = c.PutIfAbsent(ctx, "k", &domain.CalculationResult{ID: "second"})
	require.NoError(t, err)
	assert.Same(t, first, stored)

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "first", got.ID)

	require.NoError(t, c.Clear(ctx))
	assert.Zero(t, c.Len())
}

func TestMemoryCache_ConcurrentPutIfAbsent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	const writers = 32
	stored := make([]*domain.CalculationResult, writers)
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := c.PutIfAbsent(ctx, "shared", &domain.CalculationResult{})
			assert.NoError(t, err)
			stored[i] = r
		}(i)
	}
	wg.Wait()

	for _, r := range stored {
		assert.Same(t, stored[0], r)
	}
	assert.Equal(t, 1, c.Len())
}
