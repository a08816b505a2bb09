package output

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Formatter renders a Report. Format must not write anywhere itself.
type Formatter interface {
	Format(report *Report) ([]byte, error)
	// Name is the canonical format name users select it by.
	Name() string
}

// FormatterFunc lets a plain function act as a Formatter.
type FormatterFunc struct {
	ID string
	F  func(*Report) ([]byte, error)
}

func (ff FormatterFunc) Format(r *Report) ([]byte, error) { return ff.F(r) }
func (ff FormatterFunc) Name() string                     { return ff.ID }

// WriteFormatted formats report and writes it to
// dir/mortgage_report_<stamp>.<ext>, creating dir if needed.
func WriteFormatted(f Formatter, report *Report, dir, ext string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	stamp := report.GeneratedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(dir, fmt.Sprintf("mortgage_report_%s.%s", stamp.Format("20060102_150405"), ext))
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return filename, nil
}

var builtInFormatters = []Formatter{
	ConsoleVerboseFormatter{},
	ConsoleFormatter{},
	CSVSummarizer{},
	CSVDetailedExporter{},
	CSVMatrixExporter{},
	HTMLFormatter{},
	JSONFormatter{},
}

// GetFormatterByName resolves a name or alias, returning nil when nothing
// matches.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	i := slices.IndexFunc(builtInFormatters, func(f Formatter) bool { return f.Name() == n })
	if i < 0 {
		return nil
	}
	return builtInFormatters[i]
}

var aliasMap = map[string]string{
	"console-verbose":  "console",
	"verbose":          "console",
	"summary":          "console-lite",
	"csv-summary":      "csv",
	"csv-detailed":     "detailed-csv",
	"amortization-csv": "detailed-csv",
	"csv-matrix":       "matrix-csv",
	"matrix":           "matrix-csv",
	"html-report":      "html",
	"json-pretty":      "json",
}

// NormalizeFormatName lower-cases name and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical names, sorted.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	slices.Sort(names)
	return names
}

// AvailableFormatAliases returns the alias names, sorted.
func AvailableFormatAliases() []string {
	return slices.Sorted(maps.Keys(aliasMap))
}
