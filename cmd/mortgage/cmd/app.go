package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rpgo/mortgage-calculator/internal/cache"
	"github.com/rpgo/mortgage-calculator/internal/calculation"
	"github.com/rpgo/mortgage-calculator/internal/config"
	"github.com/rpgo/mortgage-calculator/internal/data"
	"github.com/rpgo/mortgage-calculator/internal/logging"
	"github.com/rpgo/mortgage-calculator/internal/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every command needs once settings are loaded.
type app struct {
	settings *config.Settings
	logger   *zap.SugaredLogger
	closers  []func() error
}

func (a *app) init(opts *rootOptions) error {
	settings, err := config.LoadSettings(config.SettingsOptions{
		ConfigFile: opts.settingsFile,
		EnvFile:    opts.envFile,
	})
	if err != nil {
		return err
	}
	if opts.verbose {
		settings.Logging.Level = "debug"
	}
	logger, err := logging.New(settings.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	a.settings = settings
	a.logger = logger
	return nil
}

// Close syncs the logger and releases connections opened by the commands.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	if a.logger != nil {
		// Sync fails on terminals; the error is not actionable.
		_ = a.logger.Sync()
	}
	return errors.Join(errs...)
}

// calculator wires the data provider and result cache chosen by the settings.
func (a *app) calculator(ctx context.Context) (*calculation.MortgageCalculator, error) {
	provider, err := a.dataProvider()
	if err != nil {
		return nil, err
	}
	results, err := a.resultCache(ctx)
	if err != nil {
		return nil, err
	}
	mc := calculation.NewMortgageCalculator(provider, results)
	mc.SetLogger(a.logger)
	mc.SetTimeout(a.settings.Data.Timeout)
	mc.SetWorkers(a.settings.Matrix.Workers)
	return mc, nil
}

func (a *app) dataProvider() (data.DataProvider, error) {
	defaults, err := data.NewFSProvider(data.DefaultFS(), a.settings.Data.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in tables: %w", err)
	}
	defaults.SetLogger(a.logger)
	dir := a.settings.Data.Dir
	if dir == "" {
		return defaults, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}
	primary, err := data.NewFSProvider(os.DirFS(dir), a.settings.Data.CacheTTL)
	if err != nil {
		return nil, err
	}
	primary.SetLogger(a.logger)
	fallback := data.NewFallbackProvider(primary, defaults)
	fallback.SetLogger(a.logger)
	a.logger.Debugw("using data directory", "dir", dir)
	return fallback, nil
}

func (a *app) resultCache(ctx context.Context) (calculation.ResultCache, error) {
	cs := a.settings.Cache
	if cs.Backend != config.CacheRedis {
		return calculation.NewMemoryCache(), nil
	}
	rc, client, err := cache.Dial(ctx, cache.Options{
		Addr:     cs.RedisAddr,
		Password: cs.RedisPassword,
		DB:       cs.RedisDB,
		Prefix:   cs.Prefix,
		TTL:      cs.TTL,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	a.logger.Debugw("using redis result cache", "addr", cs.RedisAddr, "prefix", cs.Prefix)
	return rc, nil
}

// loadScenarios reads path and keeps the named scenarios, or all of them.
func loadScenarios(path string, names []string) (*config.ScenarioFile, []config.Scenario, error) {
	file, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, nil, err
	}
	if len(names) == 0 {
		return file, file.Scenarios, nil
	}
	selected := make([]config.Scenario, 0, len(names))
	for _, name := range names {
		sc, ok := file.Find(name)
		if !ok {
			return nil, nil, fmt.Errorf("scenario %q not found in %s", name, path)
		}
		selected = append(selected, *sc)
	}
	return file, selected, nil
}

// writeReport prints the report to stdout, or to a timestamped file when
// outDir is set.
func writeReport(cmd *cobra.Command, report *output.Report, format, outDir string) error {
	if outDir != "" {
		path, err := output.GenerateReport(report, format, outDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		return nil
	}
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format)
	}
	b, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(b)
	return err
}
