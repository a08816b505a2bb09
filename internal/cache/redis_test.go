package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rpgo/mortgage-calculator/internal/calculation"
	"github.com/rpgo/mortgage-calculator/internal/data"
	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func sampleResult(id string) *domain.CalculationResult {
	return &domain.CalculationResult{
		ID:           id,
		Eligible:     true,
		LoanType:     domain.FHA,
		FICOScore:    720,
		LTV:          decimal.RequireFromString("95"),
		InterestRate: decimal.RequireFromString("6.125"),
		CashToClose:  decimal.RequireFromString("30163.03"),
		CalculatedAt: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRedisCache_RoundTrip(t *testing.T) {
	_, rdb := setupRedis(t)
	c := NewRedisCache(rdb, Options{})
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := c.PutIfAbsent(ctx, "FHA_90000_95_720_30_0", sampleResult("a"))
	require.NoError(t, err)
	assert.Equal(t, "a", stored.ID)

	got, ok, err := c.Get(ctx, "FHA_90000_95_720_30_0")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", got.ID)
	assert.True(t, got.CashToClose.Equal(decimal.RequireFromString("30163.03")))
	assert.True(t, got.CalculatedAt.Equal(sampleResult("a").CalculatedAt))
	assert.Equal(t, domain.FHA, got.LoanType)
}

func TestRedisCache_FirstWriterWins(t *testing.T) {
	mr, rdb := setupRedis(t)
	c := NewRedisCache(rdb, Options{Prefix: "test:"})
	ctx := context.Background()

	_, err := c.PutIfAbsent(ctx, "k", sampleResult("first"))
	require.NoError(t, err)
	stored, err := c.PutIfAbsent(ctx, "k", sampleResult("second"))
	require.NoError(t, err)
	assert.Equal(t, "first", stored.ID)
	assert.True(t, mr.Exists("test:k"))
}

func TestRedisCache_ClearOnlyOwnPrefix(t *testing.T) {
	mr, rdb := setupRedis(t)
	c := NewRedisCache(rdb, Options{})
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		_, err := c.PutIfAbsent(ctx, k, sampleResult(k))
		require.NoError(t, err)
	}
	require.NoError(t, mr.Set("session:42", "keep"))

	require.NoError(t, c.Clear(ctx))
	for _, k := range []string{"a", "b", "c"} {
		assert.False(t, mr.Exists(DefaultPrefix+k))
	}
	assert.True(t, mr.Exists("session:42"))
}

func TestRedisCache_TTL(t *testing.T) {
	mr, rdb := setupRedis(t)
	c := NewRedisCache(rdb, Options{TTL: time.Minute})
	ctx := context.Background()

	_, err := c.PutIfAbsent(ctx, "k", sampleResult("a"))
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	mr, rdb := setupRedis(t)
	c := NewRedisCache(rdb, Options{})
	require.NoError(t, mr.Set(DefaultPrefix+"k", "{not json"))

	_, _, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
}

func TestRedisCache_BacksCalculator(t *testing.T) {
	_, rdb := setupRedis(t)
	provider, err := data.NewDefaultProvider()
	require.NoError(t, err)
	mc := calculation.NewMortgageCalculator(provider, NewRedisCache(rdb, Options{}))

	in := &domain.MortgageInput{
		Income:        decimal.NewFromInt(90000),
		Location:      "TX, Harris",
		LTV:           decimal.NewFromInt(95),
		FICOScore:     720,
		LoanType:      domain.FHA,
		LoanTerm:      30,
		PurchasePrice: decimal.NewFromInt(300000),
		DownPayment:   decimal.NewFromInt(15000),
		ClosingDate:   "2025-03-15",
	}
	ctx := context.Background()
	first, err := mc.Calculate(ctx, in)
	require.NoError(t, err)
	second, err := mc.Calculate(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.CashToClose.Equal(second.CashToClose))
	assert.Equal(t, int64(1), rdb.DBSize(ctx).Val())

	require.NoError(t, mc.ClearCache(ctx))
	assert.Zero(t, rdb.DBSize(ctx).Val())
}

func TestDial(t *testing.T) {
	mr, _ := setupRedis(t)
	c, client, err := Dial(context.Background(), Options{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()
	assert.NotNil(t, c)

	addr := mr.Addr()
	mr.Close()
	_, _, err = Dial(context.Background(), Options{Addr: addr})
	assert.Error(t, err)
}
