package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/rpgo/mortgage-calculator/internal/metrics"
	"github.com/xeipuuv/gojsonschema"
)

// DefaultCacheTTL matches how often the published tables change.
const DefaultCacheTTL = 24 * time.Hour

type cacheEntry struct {
	value    any
	loadedAt time.Time
}

// FSProvider reads JSON datasets from an fs.FS, validates them against the
// embedded schemas and caches the decoded tables for a TTL.
type FSProvider struct {
	fsys    fs.FS
	ttl     time.Duration
	schemas map[string]*gojsonschema.Schema
	logger  Logger
	now     func() time.Time

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewFSProvider creates a provider rooted at fsys. A non-positive ttl uses
// DefaultCacheTTL.
func NewFSProvider(fsys fs.FS, ttl time.Duration) (*FSProvider, error) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	return &FSProvider{
		fsys:    fsys,
		ttl:     ttl,
		schemas: schemas,
		logger:  nopLogger{},
		now:     time.Now,
		cache:   make(map[string]cacheEntry),
	}, nil
}

// SetLogger sets the logger. If nil is provided, a no-op logger is used.
func (p *FSProvider) SetLogger(l Logger) {
	if l == nil {
		p.logger = nopLogger{}
		return
	}
	p.logger = l
}

// SetNowFunc overrides the clock used for TTL checks (use only in tests).
func (p *FSProvider) SetNowFunc(f func() time.Time) { p.now = f }

// Invalidate drops every cached dataset.
func (p *FSProvider) Invalidate() {
	p.mu.Lock()
	p.cache = make(map[string]cacheEntry)
	p.mu.Unlock()
}

// load decodes dataset into a fresh T, consulting the TTL cache first.
func load[T any](ctx context.Context, p *FSProvider, dataset string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, &DataLoadError{Dataset: dataset, Err: err}
	}

	p.mu.RLock()
	entry, ok := p.cache[dataset]
	p.mu.RUnlock()
	if ok && p.now().Sub(entry.loadedAt) < p.ttl {
		if v, ok := entry.value.(*T); ok {
			metrics.DataLoads.WithLabelValues(dataset, metrics.LoadCached).Inc()
			return v, nil
		}
	}

	raw, err := fs.ReadFile(p.fsys, dataset+".json")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			metrics.DataLoads.WithLabelValues(dataset, metrics.LoadMissing).Inc()
		} else {
			metrics.DataLoads.WithLabelValues(dataset, metrics.LoadFailed).Inc()
		}
		return nil, &DataLoadError{Dataset: dataset, Err: err}
	}

	if err := p.validate(dataset, raw); err != nil {
		metrics.DataLoads.WithLabelValues(dataset, metrics.LoadFailed).Inc()
		return nil, &DataLoadError{Dataset: dataset, Err: err}
	}

	value := new(T)
	if err := json.Unmarshal(raw, value); err != nil {
		metrics.DataLoads.WithLabelValues(dataset, metrics.LoadFailed).Inc()
		return nil, &DataLoadError{Dataset: dataset, Err: fmt.Errorf("parse: %w", err)}
	}

	p.mu.Lock()
	p.cache[dataset] = cacheEntry{value: value, loadedAt: p.now()}
	p.mu.Unlock()

	metrics.DataLoads.WithLabelValues(dataset, metrics.LoadOK).Inc()
	p.logger.Debugf("loaded dataset %s", dataset)
	return value, nil
}

func (p *FSProvider) validate(dataset string, raw []byte) error {
	schema, ok := p.schemas[schemaName(dataset)]
	if !ok {
		return nil
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrSchemaInvalid, strings.Join(errs, "; "))
	}
	return nil
}

// GetBaseRates returns the note-rate table for loanType.
func (p *FSProvider) GetBaseRates(ctx context.Context, loanType domain.LoanType) (*BaseRates, error) {
	return load[BaseRates](ctx, p, RatesDataset(loanType))
}

// GetLLPA returns the LLPA grid for "Fannie Mae" or "Freddie Mac".
func (p *FSProvider) GetLLPA(ctx context.Context, entity string) (*LLPATable, error) {
	return load[LLPATable](ctx, p, LLPADataset(entity))
}

// GetMortgageInsurance returns the premium table for loanType.
func (p *FSProvider) GetMortgageInsurance(ctx context.Context, loanType domain.LoanType) (*MortgageInsuranceTables, error) {
	return load[MortgageInsuranceTables](ctx, p, InsuranceDataset(loanType))
}

// GetClosingCostsData returns the fee schedule, filling in default prepaid
// settings when the file leaves them out.
func (p *FSProvider) GetClosingCostsData(ctx context.Context) (*ClosingCostsData, error) {
	cc, err := load[ClosingCostsData](ctx, p, DatasetClosingCosts)
	if err != nil {
		return nil, err
	}
	defaults := DefaultPrepaids()
	out := *cc
	if out.Prepaids.Interest.RegZFinanceCharge == nil {
		out.Prepaids.Interest = defaults.Interest
	}
	if out.Prepaids.HomeownersInsurance == nil {
		out.Prepaids.HomeownersInsurance = defaults.HomeownersInsurance
	}
	if out.Prepaids.PropertyTaxes == nil {
		out.Prepaids.PropertyTaxes = defaults.PropertyTaxes
	}
	return &out, nil
}

// EstimateLocationFactors derives tax, insurance and tax-cycle data for a
// free-form location. The property tax table is required; insurance and tax
// cycle tables fall back to defaults when unavailable.
func (p *FSProvider) EstimateLocationFactors(ctx context.Context, location string) (*domain.LocationFactors, error) {
	loc := ParseLocation(location)

	taxes, err := load[PropertyTaxTable](ctx, p, DatasetPropertyTax)
	if err != nil {
		return nil, err
	}

	insurance, err := load[InsuranceTable](ctx, p, DatasetInsurance)
	if err != nil {
		if IsTimeout(err) {
			return nil, err
		}
		p.logger.Warnf("insurance data not available, using default rate: %v", err)
	}

	cycles, err := load[TaxCycleTable](ctx, p, DatasetTaxCycles)
	if err != nil {
		if IsTimeout(err) {
			return nil, err
		}
		p.logger.Warnf("tax cycle data not available, using defaults: %v", err)
	}

	return &domain.LocationFactors{
		PropertyTaxRate: taxes.TaxRate(loc.State, loc.County),
		InsuranceRate:   insurance.Rate(loc.Zip),
		State:           loc.State,
		County:          loc.County,
		Zip:             loc.Zip,
		TaxCycle:        cycles.Cycle(loc.State),
	}, nil
}

var _ DataProvider = (*FSProvider)(nil)
