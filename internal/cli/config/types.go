// Package config provides configuration management for the gatesim CLI.
//
// Configuration is layered: built-in defaults, then an optional gatesim.yaml
// file, then GATESIM_* environment variables, then command-line flags, each
// layer overriding the one below it.
package config

import "fmt"

// Config holds all CLI configuration options.
type Config struct {
	Cycles  int    `koanf:"cycles"`
	Format  string `koanf:"format"`
	Verbose bool   `koanf:"verbose"`
	NoColor bool   `koanf:"no_color"`
}

// Default configuration values.
const (
	DefaultCycles = 10
	DefaultFormat = "wave"
)

// Formats lists the trace output formats the CLI can render.
var Formats = []string{"wave", "table", "csv", "json", "markdown"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Cycles < 0 {
		return fmt.Errorf("cycles must not be negative, got %d", c.Cycles)
	}
	for _, f := range Formats {
		if c.Format == f {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q (valid: wave, table, csv, json, markdown)", c.Format)
}
