package config

// StructuredConfig is the top-level configuration container for bugdesk. It
// is populated by merging values from environment variables, command-line
// flags, an optional JSON file, and built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the version string and
	// the log file location.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the local persistence backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Defaults holds the designation strings applied when a manager
	// approves an account without entering one.
	Defaults Defaults `envPrefix:"DEFAULTS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged below the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running application
	// (e.g. "1.2.3"). Shown on the welcome screen.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogPath is the path of the JSON log file. Empty means a file next to
	// the executable. The log never goes to stdout while the terminal UI
	// is running.
	// Env: APP_LOG_PATH
	LogPath string `env:"LOG_PATH"`
}

// Storage groups the configuration for the persistence backend.
type Storage struct {
	// DB holds the local database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite file path used to open the database
	// (e.g. "bugdesk.db" or "/var/lib/bugdesk/bugdesk.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Defaults holds the fallback designation strings handed out on staff
// approval when the manager leaves the designation blank.
type Defaults struct {
	// TesterDesignation is the designation given to approved testers.
	// Env: DEFAULTS_TESTER_DESIGNATION
	TesterDesignation string `env:"TESTER_DESIGNATION"`

	// DeveloperDesignation is the designation given to approved developers.
	// Env: DEFAULTS_DEVELOPER_DESIGNATION
	DeveloperDesignation string `env:"DEVELOPER_DESIGNATION"`
}

// defaultConfig carries the built-in fallback values merged in last.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Storage: Storage{
			DB: DB{DSN: "bugdesk.db"},
		},
		Defaults: Defaults{
			TesterDesignation:    "Standard Tester",
			DeveloperDesignation: "General Developer",
		},
	}
}

// GetConfig loads, merges, and validates the application configuration from
// all available sources in the following priority order (first source wins
// for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
