// Package config reads the optional YAML settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/reallyasi9/stripes/internal/agenda"
	"gopkg.in/yaml.v3"
)

// Config holds settings that rarely change between runs.
// Flags and environment variables take precedence over anything set here.
type Config struct {
	Project    string        `yaml:"project"`
	CachePath  string        `yaml:"cache_path"`
	ReportBase int           `yaml:"report_base"`
	Upcoming   int           `yaml:"upcoming"`
	Links      []agenda.Link `yaml:"links"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		CachePath:  DefaultCachePath(),
		ReportBase: agenda.DefaultReportBase,
		Upcoming:   agenda.DefaultUpcoming,
		Links:      agenda.DefaultLinks,
	}
}

// DefaultCachePath is stripes.db in the user's cache directory, or in the working directory if there is none.
func DefaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "stripes.db"
	}
	return filepath.Join(dir, "stripes", "stripes.db")
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("Load: failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("Load: failed to parse config file %s: %w", path, err)
	}
	if cfg.ReportBase <= 0 {
		return cfg, fmt.Errorf("Load: report_base must be positive, got %d", cfg.ReportBase)
	}
	return cfg, nil
}

// AgendaLinks returns the link builder described by the configuration.
func (c Config) AgendaLinks() agenda.Links {
	return agenda.Links{ReportBase: c.ReportBase, External: c.Links}
}
