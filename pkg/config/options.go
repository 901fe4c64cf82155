package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptHierarchySeparator sets the delimiter used between taxa in a
// lineage string.
func OptHierarchySeparator(s string) Option {
	return func(c *Config) {
		if isValidString("Hierarchy Separator", s) {
			c.Hierarchy.Separator = s
		}
	}
}

// OptHierarchyBadTaxa sets the blacklist of taxon names that are never
// added to the hierarchy.
func OptHierarchyBadTaxa(ss []string) Option {
	return func(c *Config) {
		c.Hierarchy.BadTaxa = ss
	}
}

// OptHierarchyCleanTrie sets whether "no rank" taxa are excluded from
// the lineage trie.
func OptHierarchyCleanTrie(b bool) Option {
	return func(c *Config) {
		c.Hierarchy.CleanTrie = b
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of worker goroutines used when the
// lineage trie is rebuilt.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}
