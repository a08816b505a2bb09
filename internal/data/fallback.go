package data

import (
	"context"

	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/rpgo/mortgage-calculator/internal/metrics"
)

// FallbackProvider serves from primary and switches to fallback when a call
// fails because its context expired or was cancelled. Other errors are
// returned unchanged.
type FallbackProvider struct {
	primary  DataProvider
	fallback DataProvider
	logger   Logger
}

// NewFallbackProvider wraps primary. fallback is usually NewDefaultProvider().
func NewFallbackProvider(primary, fallback DataProvider) *FallbackProvider {
	return &FallbackProvider{primary: primary, fallback: fallback, logger: nopLogger{}}
}

// SetLogger sets the logger. If nil is provided, a no-op logger is used.
func (p *FallbackProvider) SetLogger(l Logger) {
	if l == nil {
		p.logger = nopLogger{}
		return
	}
	p.logger = l
}

func withFallback[T any](ctx context.Context, p *FallbackProvider, dataset string,
	call func(context.Context, DataProvider) (T, error)) (T, error) {
	v, err := call(ctx, p.primary)
	if err == nil || !IsTimeout(err) {
		return v, err
	}
	p.logger.Warnf("data unavailable for %s, using defaults: %v", dataset, err)
	metrics.DataLoads.WithLabelValues(dataset, metrics.LoadFallback).Inc()
	return call(context.WithoutCancel(ctx), p.fallback)
}

func (p *FallbackProvider) GetBaseRates(ctx context.Context, loanType domain.LoanType) (*BaseRates, error) {
	return withFallback(ctx, p, RatesDataset(loanType), func(ctx context.Context, dp DataProvider) (*BaseRates, error) {
		return dp.GetBaseRates(ctx, loanType)
	})
}

func (p *FallbackProvider) GetLLPA(ctx context.Context, entity string) (*LLPATable, error) {
	return withFallback(ctx, p, LLPADataset(entity), func(ctx context.Context, dp DataProvider) (*LLPATable, error) {
		return dp.GetLLPA(ctx, entity)
	})
}

func (p *FallbackProvider) GetMortgageInsurance(ctx context.Context, loanType domain.LoanType) (*MortgageInsuranceTables, error) {
	return withFallback(ctx, p, InsuranceDataset(loanType), func(ctx context.Context, dp DataProvider) (*MortgageInsuranceTables, error) {
		return dp.GetMortgageInsurance(ctx, loanType)
	})
}

func (p *FallbackProvider) EstimateLocationFactors(ctx context.Context, location string) (*domain.LocationFactors, error) {
	return withFallback(ctx, p, DatasetPropertyTax, func(ctx context.Context, dp DataProvider) (*domain.LocationFactors, error) {
		return dp.EstimateLocationFactors(ctx, location)
	})
}

func (p *FallbackProvider) GetClosingCostsData(ctx context.Context) (*ClosingCostsData, error) {
	return withFallback(ctx, p, DatasetClosingCosts, func(ctx context.Context, dp DataProvider) (*ClosingCostsData, error) {
		return dp.GetClosingCostsData(ctx)
	})
}

var _ DataProvider = (*FallbackProvider)(nil)
