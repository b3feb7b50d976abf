package cli

import "lilt/internal/config"

// Flags holds command-line flags
type Flags struct {
	ConfigFile  string
	LogLevel    string
	Mode        string
	Quiet       bool
	Color       string
	Filter      string
	LogFile     string
	MetricsFile string
	Progress    bool
	Save        bool
	Cases       bool
	Watch       bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ConfigFile:  f.ConfigFile,
		LogLevel:    f.LogLevel,
		Mode:        f.Mode,
		Quiet:       f.Quiet,
		Color:       f.Color,
		Filter:      f.Filter,
		LogFile:     f.LogFile,
		MetricsFile: f.MetricsFile,
		Progress:    f.Progress,
		Save:        f.Save,
		Cases:       f.Cases,
		Watch:       f.Watch,
	}
}
