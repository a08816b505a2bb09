package calculation

import (
	"fmt"
	"sort"

	"github.com/rpgo/mortgage-calculator/internal/data"
	"github.com/shopspring/decimal"
)

type band struct {
	threshold decimal.Decimal
	key       string
}

func sortedBands[V any](m map[string]V) ([]band, error) {
	bands := make([]band, 0, len(m))
	for k := range m {
		t, err := decimal.NewFromString(k)
		if err != nil {
			return nil, fmt.Errorf("band %q is not numeric: %w", k, err)
		}
		bands = append(bands, band{threshold: t, key: k})
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i].threshold.LessThan(bands[j].threshold) })
	return bands, nil
}

// selectBand scans ascending thresholds and keeps the last one not exceeding
// value. The lowest band is the floor when value is below every threshold.
func selectBand(bands []band, value decimal.Decimal) band {
	selected := bands[0]
	for _, b := range bands {
		if value.LessThan(b.threshold) {
			break
		}
		selected = b
	}
	return selected
}

// SelectBand returns the highest threshold not exceeding value, with the
// lowest threshold as floor. It returns false for an empty slice.
func SelectBand(thresholds []decimal.Decimal, value decimal.Decimal) (decimal.Decimal, bool) {
	if len(thresholds) == 0 {
		return decimal.Zero, false
	}
	bands := make([]band, len(thresholds))
	for i, t := range thresholds {
		bands[i] = band{threshold: t}
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i].threshold.LessThan(bands[j].threshold) })
	return selectBand(bands, value).threshold, true
}

// GridLookup resolves a two-level band table, e.g. FICO band then LTV band.
func GridLookup(g data.Grid, row, col decimal.Decimal) (decimal.Decimal, error) {
	if len(g) == 0 {
		return decimal.Zero, fmt.Errorf("empty band grid")
	}
	rows, err := sortedBands(g)
	if err != nil {
		return decimal.Zero, err
	}
	r := selectBand(rows, row)
	cols, err := sortedBands(g[r.key])
	if err != nil {
		return decimal.Zero, err
	}
	if len(cols) == 0 {
		return decimal.Zero, fmt.Errorf("band %s has no columns", r.key)
	}
	return g[r.key][selectBand(cols, col).key], nil
}
