package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sageflow/ptbrecover/internal/archive"
	"github.com/sageflow/ptbrecover/internal/chart"
	"github.com/sageflow/ptbrecover/internal/parties"
	"github.com/sageflow/ptbrecover/internal/scan"
)

// DefaultFile is the config file looked up when --config is not given.
const DefaultFile = "ptbrecover.yaml"

// Config represents the top-level ptbrecover.yaml configuration.
type Config struct {
	Company    CompanyConfig `yaml:"company"`
	Store      StoreConfig   `yaml:"store"`
	Import     ImportConfig  `yaml:"import"`
	Server     ServerConfig  `yaml:"server"`
	Log        LogConfig     `yaml:"log"`
	Heuristics Heuristics    `yaml:"heuristics"`
}

// CompanyConfig identifies the default company imports are reconciled into.
type CompanyConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// StoreConfig locates the ledger database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ImportConfig bounds archive decoding.
type ImportConfig struct {
	Timeout         time.Duration  `yaml:"timeout"`
	MaxArchiveBytes int64          `yaml:"max_archive_bytes"`
	MaxMemberBytes  int64          `yaml:"max_member_bytes"`
	InboxDir        string         `yaml:"inbox_dir"`
	ExportDir       string         `yaml:"export_dir"`
	Roles           []archive.Role `yaml:"roles,omitempty"` // empty means the built-in member table
}

// ServerConfig configures the HTTP upload endpoint.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// LogConfig sets the log level ("debug", "info", "warn", "error").
type LogConfig struct {
	Level string `yaml:"level"`
}

// Heuristics holds every tunable constant of the decoder so that a new
// format version can be handled without code changes.
type Heuristics struct {
	Chart    chart.Options        `yaml:"chart"`
	Balance  chart.BalanceOptions `yaml:"balance"`
	Currency scan.CurrencyOptions `yaml:"currency"`
	Parties  parties.Options      `yaml:"parties"`
}

// DefaultHeuristics returns the tuned defaults for Peachtree archives.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		Chart:    chart.DefaultOptions(),
		Balance:  chart.DefaultBalanceOptions(),
		Currency: scan.DefaultCurrencyOptions(),
		Parties:  parties.DefaultOptions(),
	}
}

// ArchiveOptions returns the loader settings derived from the import section.
func (c *Config) ArchiveOptions() archive.Options {
	roles := c.Import.Roles
	if len(roles) == 0 {
		roles = archive.DefaultRoles()
	}
	return archive.Options{
		Roles:           roles,
		MaxArchiveBytes: c.Import.MaxArchiveBytes,
		MaxMemberBytes:  c.Import.MaxMemberBytes,
	}
}

// Load reads a ptbrecover.yaml file from disk. Fields the file omits keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("", "")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, falling back to defaults when it does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default("", ""), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(companyID, companyName string) *Config {
	return &Config{
		Company: CompanyConfig{
			ID:   companyID,
			Name: companyName,
		},
		Store: StoreConfig{
			Path: "data/ledger.db",
		},
		Import: ImportConfig{
			Timeout:         2 * time.Minute,
			MaxArchiveBytes: 50 << 20,
			MaxMemberBytes:  256 << 20,
			InboxDir:        "inbox",
			ExportDir:       "export",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadBytes: 50 << 20,
		},
		Log: LogConfig{
			Level: "info",
		},
		Heuristics: DefaultHeuristics(),
	}
}
