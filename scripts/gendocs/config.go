package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateConfigDocs generates the configuration reference.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	// Create output directory
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateConfigurationDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate configuration.md: %w", err)
	}
	log.Printf("  Generated configuration.md")

	return nil
}

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Env         string
	Description string
}

// getConfigSchema returns the configuration schema definition.
// This is based on internal/cli/config/types.go Config.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "cycles", Type: "int", Default: "10", Env: "GATESIM_CYCLES",
			Description: "Number of cycles run and console commands simulate by default"},
		{Name: "format", Type: "string", Default: "wave", Env: "GATESIM_FORMAT",
			Description: "Trace output format: wave, table, csv, json, or markdown"},
		{Name: "verbose", Type: "bool", Default: "false", Env: "GATESIM_VERBOSE",
			Description: "Log debug detail to stderr"},
		{Name: "no_color", Type: "bool", Default: "false", Env: "GATESIM_NO_COLOR",
			Description: "Disable ANSI colors in diagnostics and reports"},
	}
}

// generateConfigurationDoc generates the configuration reference page.
func generateConfigurationDoc(outDir string) error {
	w := NewMarkdownWriter()

	// Frontmatter
	w.Frontmatter("Configuration", "gatesim configuration reference")
	w.GeneratedMarker()

	// Title and intro
	w.Header(1, "Configuration")
	w.Paragraph("gatesim is configured via `gatesim.yaml` in the working directory. Every key can also be set by an environment variable or a command-line flag.")

	// Fields table
	w.Header(2, "Settings")

	headers := []string{"Field", "Type", "Default", "Environment", "Description"}
	var rows [][]string
	for _, f := range getConfigSchema() {
		rows = append(rows, []string{
			InlineCode(f.Name),
			f.Type,
			InlineCode(f.Default),
			InlineCode(f.Env),
			f.Description,
		})
	}
	w.Table(headers, rows)

	// Example file
	w.Header(2, "Example")
	w.CodeBlock("yaml", `# gatesim.yaml
cycles: 12
format: wave
verbose: false
no_color: false`)

	// Precedence
	w.Header(2, "Precedence")
	w.Paragraph("Sources are layered; later sources override earlier ones:")
	w.BulletList([]string{
		"Built-in defaults",
		InlineCode("gatesim.yaml") + " (or the file named by " + InlineCode("--config") + ")",
		InlineCode("GATESIM_*") + " environment variables",
		"Command-line flags",
	})

	// Write file
	filename := filepath.Join(outDir, "configuration.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}
