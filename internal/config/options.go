package config

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"lilt/internal/logging"
	"lilt/internal/selection"
	"lilt/pkg/harness"
	"lilt/pkg/report"
)

// ReportMode resolves Mode, falling back to the build default
func (c *Config) ReportMode() (report.Mode, error) {
	return report.ParseMode(c.Mode)
}

// ColorEnabled reports whether output written to f should be coloured
func (c *Config) ColorEnabled(f *os.File) bool {
	switch strings.ToLower(c.Color) {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// ReportOptions returns the reporter settings for output written to f
func (c *Config) ReportOptions(f *os.File) report.Options {
	return report.Options{Verbose: c.Verbose, Color: c.ColorEnabled(f)}
}

// Logging returns the diagnostic logger settings
func (c *Config) Logging() logging.Config {
	return logging.Config{Level: c.LogLevel, Format: c.LogFormat}
}

// Options maps the config onto harness options
func (c *Config) Options(rep report.Reporter, logger *zap.Logger) harness.Options {
	return harness.Options{
		InitialCapacity: c.InitialCapacity,
		GrowthFactor:    c.GrowthFactor,
		MaxCases:        c.MaxCases,
		Reporter:        rep,
		Logger:          logger,
		Filter:          selection.NewFilter(c.Filter).Func(),
	}
}
