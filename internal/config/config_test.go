package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lilt/pkg/report"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultInitialCapacity, cfg.InitialCapacity)
	assert.Equal(t, DefaultGrowthFactor, cfg.GrowthFactor)
	assert.Equal(t, 0, cfg.MaxCases)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "lilt.yaml")
	writeFile(t, configPath, `
project_path: `+dir+`
mode: human
max_cases: 10
growth_factor: 2
filter: demo*
database:
  host: yaml-host
`)
	writeFile(t, filepath.Join(dir, ".env"), "LILT_MODE=tap\nLILT_MAX_CASES=20\nDB_HOST=dotenv-host\nDB_USERNAME=lilt\n")
	t.Setenv("LILT_MAX_CASES", "30")
	t.Setenv("LILT_VERBOSE", "false")

	cfg, err := Load(Flags{ConfigFile: configPath, Filter: "demo1"})
	require.NoError(t, err)

	assert.Equal(t, "tap", cfg.Mode, ".env overrides yaml")
	assert.Equal(t, 30, cfg.MaxCases, "environment overrides .env")
	assert.Equal(t, 2.0, cfg.GrowthFactor, "yaml overrides defaults")
	assert.False(t, cfg.Verbose)
	assert.Equal(t, "demo1", cfg.Filter, "flags override everything")
	assert.Equal(t, "dotenv-host", cfg.Database.Host)
	assert.Equal(t, "lilt", cfg.Database.Username)
	assert.Equal(t, DefaultDBPort, cfg.Database.Port)
	assert.Equal(t, "demo1", cfg.Flags.Filter)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		env    map[string]string
		flags  Flags
		noFile bool
	}{
		{name: "missing explicit file", noFile: true},
		{name: "unknown yaml field", yaml: "capacity: 3\n"},
		{name: "bad growth factor", yaml: "growth_factor: 1\n"},
		{name: "bad env int", env: map[string]string{"LILT_INITIAL_CAPACITY": "many"}},
		{name: "bad env bool", env: map[string]string{"LILT_PROGRESS": "sometimes"}},
		{name: "bad mode flag", flags: Flags{Mode: "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "lilt.yaml")
			if !tt.noFile {
				writeFile(t, path, "project_path: "+dir+"\n"+tt.yaml)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			flags := tt.flags
			flags.ConfigFile = path

			_, err := Load(flags)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load(Flags{Quiet: true})
	require.NoError(t, err)
	assert.False(t, cfg.Verbose)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "zero capacity", mutate: func(c *Config) { c.InitialCapacity = 0 }, wantErr: true},
		{name: "factor of one", mutate: func(c *Config) { c.GrowthFactor = 1 }, wantErr: true},
		{name: "negative max cases", mutate: func(c *Config) { c.MaxCases = -1 }, wantErr: true},
		{name: "tap mode", mutate: func(c *Config) { c.Mode = "TAP" }},
		{name: "unknown mode", mutate: func(c *Config) { c.Mode = "junit" }, wantErr: true},
		{name: "unknown color", mutate: func(c *Config) { c.Color = "sometimes" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_ColorEnabled(t *testing.T) {
	cfg := New()

	cfg.Color = ColorAlways
	assert.True(t, cfg.ColorEnabled(nil))

	cfg.Color = ColorNever
	assert.False(t, cfg.ColorEnabled(os.Stdout))

	cfg.Color = ColorAuto
	assert.False(t, cfg.ColorEnabled(nil))
}

func TestConfig_Options(t *testing.T) {
	cfg := New()
	cfg.InitialCapacity = 7
	cfg.GrowthFactor = 1.5
	cfg.MaxCases = 9
	cfg.Filter = "demo*"

	opts := cfg.Options(report.Discard{}, nil)

	assert.Equal(t, 7, opts.InitialCapacity)
	assert.Equal(t, 1.5, opts.GrowthFactor)
	assert.Equal(t, 9, opts.MaxCases)
	require.NotNil(t, opts.Filter)
	assert.True(t, opts.Filter("demo2"))
	assert.False(t, opts.Filter("other"))

	cfg.Filter = ""
	assert.Nil(t, cfg.Options(nil, nil).Filter)
}

func TestConfig_GetOutputPath(t *testing.T) {
	cfg := &Config{ProjectPath: "/project", OutputJSONDir: "storage", OutputJSONFile: "results.json"}

	if got := cfg.GetOutputPath(); got != "/project/storage/results.json" {
		t.Errorf("expected %s, got %s", "/project/storage/results.json", got)
	}
}
