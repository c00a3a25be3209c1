package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuild_DefaultsOnly verifies that a builder fed nothing but the default
// config produces a valid configuration.
func TestBuild_DefaultsOnly(t *testing.T) {
	cfg, err := newConfigBuilder().withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, "bugdesk.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "Standard Tester", cfg.Defaults.TesterDesignation)
	assert.Equal(t, "General Developer", cfg.Defaults.DeveloperDesignation)
}

// TestBuild_EarlierSourceWins verifies that a source added earlier keeps its
// non-zero fields during the merge.
func TestBuild_EarlierSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		Storage: Storage{DB: DB{DSN: "/custom/path.db"}},
	})
	b.withDefaults()

	cfg, err := b.build()
	require.NoError(t, err)

	assert.Equal(t, "/custom/path.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "Standard Tester", cfg.Defaults.TesterDesignation, "untouched fields still come from defaults")
}

// TestBuild_ValidationRejectsMemoryDSN verifies that in-memory SQLite DSNs
// are refused: the store must survive restarts.
func TestBuild_ValidationRejectsMemoryDSN(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		Storage: Storage{DB: DB{DSN: "file::memory:?cache=shared"}},
	})
	b.withDefaults()

	_, err := b.build()
	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)
}

// TestBuild_ValidationRejectsEmptyDSN verifies that validation fails when no
// source supplied a DSN and defaults were skipped.
func TestBuild_ValidationRejectsEmptyDSN(t *testing.T) {
	_, err := newConfigBuilder().build()
	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)
}

// TestBuild_PropagatesSourceError verifies that an error collected from a
// source aborts the build.
func TestBuild_PropagatesSourceError(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/nonexistent/config.json"})
	b.withJSON().withDefaults()

	_, err := b.build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error occured during building config")
}
