package config

const (
	// DefaultConfigFile is looked up in the project path when no --config is given
	DefaultConfigFile = "lilt.yaml"
	// DefaultEnvFile is read for LILT_* and DB_* settings
	DefaultEnvFile = ".env"
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultMode is the report mode, empty meaning the build default
	DefaultMode = ""
	// DefaultColor enables colour only on terminals
	DefaultColor = ColorAuto
	// DefaultInitialCapacity is the starting number of case records per set
	DefaultInitialCapacity = 100
	// DefaultGrowthFactor multiplies the case capacity when it is exhausted
	DefaultGrowthFactor = 1.3
	// DefaultLogLevel is the diagnostic log level
	DefaultLogLevel = "warn"
	// DefaultLogFormat is the diagnostic log encoding
	DefaultLogFormat = "text"
	// DefaultDBPort is the MySQL port used when DB_PORT is not set
	DefaultDBPort = "3306"
	// DefaultResultsTable stores one row per executed case
	DefaultResultsTable = "lilt_case_results"
)

// Colour settings
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "LILT_"
