// Package config provides configuration management for the taxonomic
// hierarchy.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation functions may write user-facing warnings via
// gn.Warn().
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields back into Option values, so a
//   host application can round-trip a Config through its own config file
//   or environment variables without this package knowing their shape.
//
// # Environment Variables
//
// A host embedding this module is expected to use a TAXHIER_ prefix with
// underscores for nesting, matching ToOptions() field names, e.g.:
//
//	TAXHIER_HIERARCHY_SEPARATOR="; "
//	TAXHIER_HIERARCHY_CLEAN_TRIE=true
//	TAXHIER_LOG_LEVEL=info
//	TAXHIER_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete taxonomic-hierarchy configuration.
type Config struct {
	// Hierarchy contains the settings enumerated in the hierarchy's
	// external-interfaces section: separator, blacklist, trie cleanliness.
	Hierarchy HierarchyConfig `mapstructure:"hierarchy" yaml:"hierarchy"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of worker goroutines used to precompute
	// lineage strings when the trie is rebuilt.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`
}

// HierarchyConfig contains the settings that shape how lineages are
// parsed, cleaned, and compared.
type HierarchyConfig struct {
	// Separator delimits taxa within a lineage string.
	Separator string `mapstructure:"separator" yaml:"separator"`

	// BadTaxa lists taxon names that are never added to the hierarchy
	// (e.g. "cellular organisms", "unclassified").
	BadTaxa []string `mapstructure:"bad_taxa" yaml:"bad_taxa"`

	// CleanTrie, when true, excludes "no rank" taxa from the lineage trie.
	CleanTrie bool `mapstructure:"clean_trie" yaml:"clean_trie"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Hierarchy: HierarchyConfig{
			Separator: "; ",
			BadTaxa:   []string{"cellular organisms", "unclassified"},
			CleanTrie: true,
		},
		Log: LogConfig{
			Format:      "text",
			Level:       "info",
			Destination: "stderr",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
