// Package logging builds the zap loggers used by the CLI and wires them into
// the calculator and data provider.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config contains logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `mapstructure:"level" json:"level"`

	// Format is the output format (json, console).
	Format string `mapstructure:"format" json:"format"`

	// Output is the destination: stdout, stderr or a file path.
	Output string `mapstructure:"output" json:"output"`

	// Development enables caller stack traces on errors.
	Development bool `mapstructure:"development" json:"development"`
}

func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: "console",
		Output: "stderr",
	}
}

// New builds a sugared logger from cfg. An unknown level falls back to info.
// The returned SugaredLogger satisfies calculation.Logger and data.Logger.
func New(cfg Config) (*zap.SugaredLogger, error) {
	ws, err := writeSyncer(cfg.Output)
	if err != nil {
		return nil, err
	}
	return newWithSyncer(cfg, ws), nil
}

// NewWriter is New with an explicit destination, for tests and embedding.
func NewWriter(cfg Config, w io.Writer) *zap.SugaredLogger {
	return newWithSyncer(cfg, zapcore.AddSync(w))
}

func newWithSyncer(cfg Config, ws zapcore.WriteSyncer) *zap.SugaredLogger {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, ws, level)
	opts := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.ErrorLevel))
	}
	return zap.New(core, opts...).Sugar()
}

func writeSyncer(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "", "stderr":
		return zapcore.AddSync(os.Stderr), nil
	case "stdout":
		return zapcore.AddSync(os.Stdout), nil
	default:
		f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log output %s: %w", output, err)
		}
		return zapcore.AddSync(f), nil
	}
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger { return zap.NewNop().Sugar() }
