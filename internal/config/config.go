package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Storage backend names.
const (
	BackendXLSX   = "xlsx"
	BackendBadger = "badger"
)

// Config represents the application configuration.
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Report      ReportConfig  `toml:"report"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// StorageConfig selects and configures the submission record store.
type StorageConfig struct {
	Backend string       `toml:"backend"` // "xlsx" (default) or "badger"
	XLSX    XLSXConfig   `toml:"xlsx"`
	Badger  BadgerConfig `toml:"badger"`
}

// XLSXConfig contains spreadsheet store settings.
type XLSXConfig struct {
	Path  string `toml:"path"`
	Sheet string `toml:"sheet"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// ReportConfig contains PDF report settings.
type ReportConfig struct {
	Path     string `toml:"path"`
	LogoPath string `toml:"logo_path"`
	KeepFile bool   `toml:"keep_file"` // leave the rendered report on disk after download
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// IsDevMode reports whether the service runs in the dev environment.
func (c *Config) IsDevMode() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "dev")
}

// Address returns the host:port the HTTP server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate checks mandatory settings and returns a list of human-readable issues.
// An empty slice means the configuration is usable.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}

	switch strings.ToLower(c.Storage.Backend) {
	case BackendXLSX:
		if strings.TrimSpace(c.Storage.XLSX.Path) == "" {
			issues = append(issues, "storage.xlsx.path is required when storage.backend = \"xlsx\"")
		}
		if strings.TrimSpace(c.Storage.XLSX.Sheet) == "" {
			issues = append(issues, "storage.xlsx.sheet is required when storage.backend = \"xlsx\"")
		}
	case BackendBadger:
		if strings.TrimSpace(c.Storage.Badger.Path) == "" {
			issues = append(issues, "storage.badger.path is required when storage.backend = \"badger\"")
		}
	default:
		issues = append(issues, fmt.Sprintf("storage.backend must be %q or %q (got %q)", BackendXLSX, BackendBadger, c.Storage.Backend))
	}

	if strings.TrimSpace(c.Report.Path) == "" {
		issues = append(issues, "report.path is required")
	}

	return issues
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies FUNDREC_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FUNDREC_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("FUNDREC_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("FUNDREC_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if backend := os.Getenv("FUNDREC_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}
	if xlsxPath := os.Getenv("FUNDREC_XLSX_PATH"); xlsxPath != "" {
		config.Storage.XLSX.Path = xlsxPath
	}
	if badgerPath := os.Getenv("FUNDREC_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if reportPath := os.Getenv("FUNDREC_REPORT_PATH"); reportPath != "" {
		config.Report.Path = reportPath
	}
	if logoPath := os.Getenv("FUNDREC_LOGO_PATH"); logoPath != "" {
		config.Report.LogoPath = logoPath
	}
	if keep := os.Getenv("FUNDREC_REPORT_KEEP_FILE"); keep != "" {
		if b, err := strconv.ParseBool(keep); err == nil {
			config.Report.KeepFile = b
		}
	}
	if level := os.Getenv("FUNDREC_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
