package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Report settings
	Mode    string `yaml:"mode"`
	Verbose bool   `yaml:"verbose"`
	Color   string `yaml:"color"`

	// Case registry settings
	InitialCapacity int     `yaml:"initial_capacity"`
	GrowthFactor    float64 `yaml:"growth_factor"`
	MaxCases        int     `yaml:"max_cases"`

	// Run settings
	Filter      string `yaml:"filter"`
	LogFile     string `yaml:"log_file"`
	MetricsFile string `yaml:"metrics_file"`
	Progress    bool   `yaml:"progress"`

	// Output settings
	ProjectPath    string `yaml:"project_path"`
	OutputJSONDir  string `yaml:"output_dir"`
	OutputJSONFile string `yaml:"output_file"`

	// Results database, used when ResultsDSN or Database.Host is set
	ResultsDSN   string   `yaml:"results_dsn"`
	ResultsTable string   `yaml:"results_table"`
	Database     Database `yaml:"database"`

	// Diagnostics
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Command flags
	Flags Flags `yaml:"-"`
}

// Database holds the DB_* connection settings
type Database struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// Flags holds command-line flags. Zero values leave the config untouched.
type Flags struct {
	ConfigFile  string
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
	LogLevel    string
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		Mode:            DefaultMode,
		Verbose:         true,
		Color:           DefaultColor,
		InitialCapacity: DefaultInitialCapacity,
		GrowthFactor:    DefaultGrowthFactor,
		ProjectPath:     DefaultProjectPath,
		OutputJSONDir:   DefaultOutputJSONDir,
		OutputJSONFile:  DefaultOutputJSONFile,
		ResultsTable:    DefaultResultsTable,
		Database:        Database{Port: DefaultDBPort},
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
	}
}

// Load builds a config from defaults, the yaml file, the .env file, the
// environment and flags, in increasing order of precedence.
func Load(flags Flags) (*Config, error) {
	cfg := New()

	if err := cfg.loadFile(flags.ConfigFile); err != nil {
		return nil, err
	}

	dotenv, err := readDotenv(filepath.Join(cfg.ProjectPath, DefaultEnvFile))
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(lookupWith(dotenv)); err != nil {
		return nil, err
	}

	cfg.applyFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile decodes the yaml config. A missing default file is not an error.
func (c *Config) loadFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(c.ProjectPath, DefaultConfigFile)
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func readDotenv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return values, nil
}

// lookupWith prefers the process environment over dotenv values.
func lookupWith(dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		EnvPrefix + "MODE":          &c.Mode,
		EnvPrefix + "COLOR":         &c.Color,
		EnvPrefix + "FILTER":        &c.Filter,
		EnvPrefix + "LOG_FILE":      &c.LogFile,
		EnvPrefix + "METRICS_FILE":  &c.MetricsFile,
		EnvPrefix + "PROJECT_PATH":  &c.ProjectPath,
		EnvPrefix + "OUTPUT_DIR":    &c.OutputJSONDir,
		EnvPrefix + "OUTPUT_FILE":   &c.OutputJSONFile,
		EnvPrefix + "RESULTS_DSN":   &c.ResultsDSN,
		EnvPrefix + "RESULTS_TABLE": &c.ResultsTable,
		EnvPrefix + "LOG_LEVEL":     &c.LogLevel,
		EnvPrefix + "LOG_FORMAT":    &c.LogFormat,
		"DB_HOST":                   &c.Database.Host,
		"DB_PORT":                   &c.Database.Port,
		"DB_USERNAME":               &c.Database.Username,
		"DB_PASSWORD":               &c.Database.Password,
		"DB_DATABASE":               &c.Database.Name,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	bools := map[string]*bool{
		EnvPrefix + "VERBOSE":  &c.Verbose,
		EnvPrefix + "PROGRESS": &c.Progress,
	}
	for key, dst := range bools {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = b
		}
	}

	ints := map[string]*int{
		EnvPrefix + "INITIAL_CAPACITY": &c.InitialCapacity,
		EnvPrefix + "MAX_CASES":        &c.MaxCases,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = n
		}
	}

	if v, ok := lookup(EnvPrefix + "GROWTH_FACTOR"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sGROWTH_FACTOR: %w", EnvPrefix, err)
		}
		c.GrowthFactor = f
	}
	return nil
}

func (c *Config) applyFlags(flags Flags) {
	c.Flags = flags

	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.Quiet {
		c.Verbose = false
	}
	if flags.Color != "" {
		c.Color = flags.Color
	}
	if flags.Filter != "" {
		c.Filter = flags.Filter
	}
	if flags.LogFile != "" {
		c.LogFile = flags.LogFile
	}
	if flags.MetricsFile != "" {
		c.MetricsFile = flags.MetricsFile
	}
	if flags.Progress {
		c.Progress = true
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
}

// Validate rejects settings the harness cannot run with
func (c *Config) Validate() error {
	if c.InitialCapacity < 1 {
		return fmt.Errorf("initial capacity must be at least 1, got %d", c.InitialCapacity)
	}
	if c.GrowthFactor <= 1 {
		return fmt.Errorf("growth factor must be greater than 1, got %g", c.GrowthFactor)
	}
	if c.MaxCases < 0 {
		return fmt.Errorf("max cases must not be negative, got %d", c.MaxCases)
	}
	if _, err := c.ReportMode(); err != nil {
		return err
	}
	switch strings.ToLower(c.Color) {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color setting %q", c.Color)
	}
	return nil
}

// GetOutputPath returns the full path to the output JSON file.
// Resolves to an absolute path so run and faills always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
