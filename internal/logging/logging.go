// Package logging provides structured logging for the VOLTA modeling core.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the configuration for the logger.
type Config struct {
	// Level is the minimum log level to output (debug, info, warn, error)
	Level string `yaml:"level"`
	// Format is the output format (json, console)
	Format string `yaml:"format"`
	// Output is the output destination (stdout, stderr, or file path)
	Output string `yaml:"output"`
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "json",
		Output: "stderr",
	}
}

// NewLogger creates a new zap logger with the given configuration.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	zc.Encoding = parseFormat(cfg.Format)
	zc.OutputPaths = []string{outputPath(cfg.Output)}
	zc.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder

	return zc.Build()
}

// Nop returns a logger that discards all output. Used as the default when a
// caller does not supply a logger.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// parseLevel converts a string log level to a zapcore.Level.
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// parseFormat maps a format name to a zap encoding.
func parseFormat(format string) string {
	switch strings.ToLower(format) {
	case "console", "text":
		return "console"
	default:
		return "json"
	}
}

// outputPath maps an output destination to a zap output path.
func outputPath(output string) string {
	switch output {
	case "", "stderr":
		return "stderr"
	case "stdout":
		return "stdout"
	default:
		return output
	}
}
