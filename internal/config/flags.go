package config

import (
	"flag"
	"fmt"
)

// parseFlags parses configuration flags from the given argument list.
//
// Flags:
//
//	-d database file path
//	-log log file path
//	-c/-config json file path with configs
//	-tester-designation default designation for approved testers
//	-developer-designation default designation for approved developers
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("bugdesk", flag.ContinueOnError)

	var databaseDSN string
	var logPath string
	var jsonConfigPath string
	var testerDesignation string
	var developerDesignation string

	fs.StringVar(&databaseDSN, "d", "", "Database file path")
	fs.StringVar(&logPath, "log", "", "Log file path")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&testerDesignation, "tester-designation", "", "Default designation for approved testers")
	fs.StringVar(&developerDesignation, "developer-designation", "", "Default designation for approved developers")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			LogPath: logPath,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Defaults: Defaults{
			TesterDesignation:    testerDesignation,
			DeveloperDesignation: developerDesignation,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}
