// Package config loads the interpreter's configuration from the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the interpreter's configuration.
type Config struct {
	// ReportAll disables the per-location diagnostic suppression.
	ReportAll bool
	// NoColor renders diagnostics without ANSI colors.
	NoColor bool
	// Debug enables debug output on stderr.
	Debug bool
	// Home is the directory whose modules/ subdirectory is searched
	// for modules.
	Home string
	// ModulePath lists extra module directories from LI_MODULE_PATH,
	// colon-separated.
	ModulePath []string
	// HistoryFile is where the interactive shell persists its input
	// history; empty disables persistence.
	HistoryFile string
}

// Load reads configuration from environment variables, bootstrapping
// them from a .env file when one is present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ReportAll: boolEnv("LI_REPORT_ALL"),
		Debug:     boolEnv("LI_DEBUG"),
		NoColor:   boolEnv("LI_NO_COLOR") || os.Getenv("NO_COLOR") != "",
		Home:      os.Getenv("HOME"),
	}

	if path := os.Getenv("LI_MODULE_PATH"); path != "" {
		for _, dir := range strings.Split(path, ":") {
			if dir != "" {
				cfg.ModulePath = append(cfg.ModulePath, dir)
			}
		}
	}

	if cfg.Home != "" {
		cfg.HistoryFile = filepath.Join(cfg.Home, ".li_history")
	}

	return cfg
}

func boolEnv(name string) bool {
	switch strings.ToLower(os.Getenv(name)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Debugf writes a debug line to stderr when debugging is enabled.
func (c *Config) Debugf(format string, args ...any) {
	if !c.Debug {
		return
	}
	fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
}
