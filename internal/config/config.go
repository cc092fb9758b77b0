package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/policy-tracker/internal/extract"
	"github.com/a3tai/policy-tracker/internal/lifecycle"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
	DefaultDBFile      = "insurance_lite.db"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix prefixes every environment variable, e.g. POLICY_TRACKER_DB.
	EnvPrefix = "POLICY_TRACKER"
)

// DefaultCompanies is the suggestion list offered for the company field.
var DefaultCompanies = []string{
	"Ankara", "Mapfre", "AXA", "Anadolu", "Ray", "Allianz", "Sompo", "Türkiye Sigorta", "Diğer",
}

// Config holds all configuration for the policy tracker
type Config struct {
	// Tool server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Storage and documents
	DBPath       string
	PDFDirectory string
	MaxFileSize  int64 // Maximum PDF file size in bytes

	// Domain configuration
	Companies          []string
	NameLabels         []string
	DateLanguages      []string
	ExpiringWindowDays int

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
	LogFormat  string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:               ModeStdio,
		Host:               DefaultHost,
		Port:               DefaultPort,
		DBPath:             filepath.Join(currentDir, DefaultDBFile),
		PDFDirectory:       currentDir,
		MaxFileSize:        DefaultMaxFileSize,
		Companies:          append([]string(nil), DefaultCompanies...),
		NameLabels:         extract.DefaultConfig().NameLabels,
		DateLanguages:      []string{"tr"},
		ExpiringWindowDays: lifecycle.DefaultWindowDays,
		Version:            "1.0.0",
		ServerName:         "policy-tracker",
		LogLevel:           DefaultLogLevel,
		LogFormat:          DefaultLogFormat,
	}
}

// DefineFlags registers the command line flags on fs with cfg's values as
// defaults.
func DefineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String("config", "", "Optional config file (yaml, json or toml)")
	fs.String("mode", cfg.Mode, "Tool server mode: 'stdio' for standard I/O, 'server' for HTTP/SSE")
	fs.String("host", cfg.Host, "Server host address (server mode only)")
	fs.Int("port", cfg.Port, "Server port (server mode only)")
	fs.String("db", cfg.DBPath, "SQLite database file")
	fs.String("dir", cfg.PDFDirectory, "Directory PDF policies may be imported from")
	fs.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	fs.StringSlice("companies", cfg.Companies, "Insurance companies offered for the company field")
	fs.Int("window", cfg.ExpiringWindowDays, "Days before the end date a policy counts as expiring soon")
	fs.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.String("logformat", cfg.LogFormat, "Log format (console, json)")
}

// Load resolves configuration from defaults, an optional config file, the
// environment and the flags in fs, in increasing priority.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	setupViperEnvironment(v, cfg)

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	populateConfigFromViper(v, cfg)

	// Expand paths if needed
	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}
	if cfg.DBPath != "" {
		if expandedPath, err := filepath.Abs(cfg.DBPath); err == nil {
			cfg.DBPath = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("db", cfg.DBPath)
	v.SetDefault("dir", cfg.PDFDirectory)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	v.SetDefault("companies", cfg.Companies)
	v.SetDefault("window", cfg.ExpiringWindowDays)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("logformat", cfg.LogFormat)
	v.SetDefault("extract.name_labels", cfg.NameLabels)
	v.SetDefault("dates.languages", cfg.DateLanguages)
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.DBPath = v.GetString("db")
	cfg.PDFDirectory = v.GetString("dir")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.Companies = v.GetStringSlice("companies")
	cfg.ExpiringWindowDays = v.GetInt("window")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.LogFormat = v.GetString("logformat")
	cfg.NameLabels = v.GetStringSlice("extract.name_labels")
	cfg.DateLanguages = v.GetStringSlice("dates.languages")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.DBPath == "" {
		return errors.New("database path cannot be empty")
	}

	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	// Check if PDF directory exists, create if it doesn't
	if _, err := os.Stat(c.PDFDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.PDFDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create PDF directory %s: %w", c.PDFDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.ExpiringWindowDays < 0 {
		return errors.New("expiring window cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (must be console or json)", c.LogFormat)
	}

	return nil
}

// ExtractConfig returns the extractor lookup data derived from c.
func (c *Config) ExtractConfig() extract.Config {
	ec := extract.DefaultConfig()
	if len(c.NameLabels) > 0 {
		ec.NameLabels = append([]string(nil), c.NameLabels...)
	}
	return ec
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, DBPath: %s, PDFDirectory: %s, "+
		"LogLevel: %s, MaxFileSize: %d, Window: %d}",
		c.Mode, c.Host, c.Port, c.DBPath, c.PDFDirectory, c.LogLevel, c.MaxFileSize, c.ExpiringWindowDays)
}

// IsServerMode returns true if the tool server runs over HTTP
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the tool server runs over stdio
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
