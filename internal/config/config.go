// Package config loads per-project export settings.
//
// Settings live next to the exported project in .projexport.yaml (or .yml, or
// .ini). Missing files yield DefaultConfig; keys present in a file override the
// defaults one by one, and CLI flags override both.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harrison/projexport/internal/logger"
	"github.com/harrison/projexport/internal/output"
)

// Config file names searched by LoadConfigFromDir, in order.
var ConfigFileNames = []string{".projexport.yaml", ".projexport.yml", ".projexport.ini"}

// Supported languages for user-facing messages
const (
	LanguageEnglish    = "en"
	LanguagePortuguese = "pt-BR"
)

// Output formats
const (
	FormatText     = "txt"
	FormatMarkdown = "md"
	FormatBoth     = "both"
)

// Notification levels
const (
	NotifySilent  = "silent"
	NotifyMinimal = "minimal"
	NotifyAll     = "all"
)

// DefaultMaxFileSize is the largest file embedded by default (1 MiB).
const DefaultMaxFileSize int64 = 1048576

// HistoryConfig controls the local run history database.
type HistoryConfig struct {
	// Enabled records every run in the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the SQLite file (empty = $PROJEXPORT_HOME/history.db)
	DBPath string `yaml:"db_path"`
}

// S3Config describes the optional remote copy of generated reports.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// Enabled reports whether uploads are configured.
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// PublishConfig groups remote publishing targets.
type PublishConfig struct {
	S3 S3Config `yaml:"s3"`
}

// Config represents projexport configuration options
type Config struct {
	// Language selects the message catalog (en, pt-BR)
	Language string `yaml:"language"`

	// AutoExportOnSave enables exports triggered by file changes in watch mode
	AutoExportOnSave bool `yaml:"auto_export_on_save"`

	// IncludeHiddenFiles keeps dot files and dot directories in the tree
	IncludeHiddenFiles bool `yaml:"include_hidden_files"`

	// MaxFileSize is the largest file (bytes) whose content is embedded
	MaxFileSize int64 `yaml:"max_file_size"`

	// ExcludePatterns are glob-like patterns matched against root-relative paths
	ExcludePatterns []string `yaml:"exclude_patterns"`

	// OutputFileName is the report name template ({workspaceName} is replaced)
	OutputFileName string `yaml:"output_file_name"`

	// OutputFormat is txt, md or both
	OutputFormat string `yaml:"output_format"`

	// NotificationLevel is silent, minimal or all
	NotificationLevel string `yaml:"notification_level"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir enables the JSON run log in this directory (empty = disabled)
	LogDir string `yaml:"log_dir"`

	// Concurrency bounds traversal and probing workers (0 = runtime.NumCPU)
	Concurrency int `yaml:"concurrency"`

	// WatchDelay is the quiet period before a watch-triggered export
	WatchDelay time.Duration `yaml:"watch_delay"`

	// History contains run history configuration
	History HistoryConfig `yaml:"history"`

	// Publish contains remote publishing configuration
	Publish PublishConfig `yaml:"publish"`

	// MetricsAddr serves Prometheus metrics in watch mode (empty = disabled)
	MetricsAddr string `yaml:"metrics_addr"`
}

// DefaultConfig returns a Config with the default settings
func DefaultConfig() *Config {
	return &Config{
		Language:           LanguageEnglish,
		AutoExportOnSave:   true,
		IncludeHiddenFiles: false,
		MaxFileSize:        DefaultMaxFileSize,
		ExcludePatterns:    []string{},
		OutputFileName:     output.DefaultTemplate,
		OutputFormat:       FormatBoth,
		NotificationLevel:  NotifyMinimal,
		LogLevel:           "info",
		Concurrency:        0,
		WatchDelay:         500 * time.Millisecond,
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
// Files ending in .ini are read as INI, everything else as YAML.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc *fileConfig
	if isINI(path) {
		fc, err = parseINI(data)
	} else {
		fc, err = parseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := fc.applyTo(cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// LoadConfigFromDir loads the first config file found in dir (see
// ConfigFileNames). If none exists, returns default configuration.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(FindConfigFile(dir))
}

// FindConfigFile returns the path of the config file used for dir. When no
// file exists yet, the preferred (.projexport.yaml) path is returned.
func FindConfigFile(dir string) string {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(dir, ConfigFileNames[0])
}

func isINI(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".ini")
}

// Overrides carries CLI flag values. Nil fields leave the configuration as is.
type Overrides struct {
	Language          *string
	IncludeHidden     *bool
	MaxFileSize       *int64
	ExcludePatterns   []string
	OutputFileName    *string
	OutputFormat      *string
	NotificationLevel *string
	LogLevel          *string
	LogDir            *string
	Concurrency       *int
	WatchDelay        *time.Duration
	MetricsAddr       *string
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values; exclude patterns given
// on the command line are appended to the configured ones.
func (c *Config) MergeWithFlags(o Overrides) {
	if o.Language != nil {
		c.Language = *o.Language
	}
	if o.IncludeHidden != nil {
		c.IncludeHiddenFiles = *o.IncludeHidden
	}
	if o.MaxFileSize != nil {
		c.MaxFileSize = *o.MaxFileSize
	}
	if len(o.ExcludePatterns) > 0 {
		c.ExcludePatterns = append(c.ExcludePatterns, o.ExcludePatterns...)
	}
	if o.OutputFileName != nil {
		c.OutputFileName = *o.OutputFileName
	}
	if o.OutputFormat != nil {
		c.OutputFormat = *o.OutputFormat
	}
	if o.NotificationLevel != nil {
		c.NotificationLevel = *o.NotificationLevel
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	if o.LogDir != nil {
		c.LogDir = *o.LogDir
	}
	if o.Concurrency != nil {
		c.Concurrency = *o.Concurrency
	}
	if o.WatchDelay != nil {
		c.WatchDelay = *o.WatchDelay
	}
	if o.MetricsAddr != nil {
		c.MetricsAddr = *o.MetricsAddr
	}
}

// Validate validates the configuration values and normalizes accepted
// aliases (language case, text/markdown formats, log level case).
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Language) {
	case "en":
		c.Language = LanguageEnglish
	case "pt-br":
		c.Language = LanguagePortuguese
	default:
		return fmt.Errorf("invalid language %q, must be one of: en, pt-BR", c.Language)
	}

	switch strings.ToLower(c.OutputFormat) {
	case "txt", "text":
		c.OutputFormat = FormatText
	case "md", "markdown":
		c.OutputFormat = FormatMarkdown
	case "both":
		c.OutputFormat = FormatBoth
	default:
		return fmt.Errorf("invalid output_format %q, must be one of: txt, md, both", c.OutputFormat)
	}

	switch strings.ToLower(c.NotificationLevel) {
	case NotifySilent, NotifyMinimal, NotifyAll:
		c.NotificationLevel = strings.ToLower(c.NotificationLevel)
	default:
		return fmt.Errorf("invalid notification_level %q, must be one of: silent, minimal, all", c.NotificationLevel)
	}

	if !logger.IsValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}
	c.LogLevel = logger.NormalizeLevel(c.LogLevel)

	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be > 0, got %d", c.MaxFileSize)
	}

	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be >= 0, got %d", c.Concurrency)
	}

	if c.WatchDelay < 0 {
		return fmt.Errorf("watch_delay must be >= 0, got %v", c.WatchDelay)
	}

	s3 := c.Publish.S3
	if (s3.AccessKey == "") != (s3.SecretKey == "") {
		return fmt.Errorf("publish.s3.access_key and publish.s3.secret_key must be set together")
	}
	if !s3.Enabled() && (s3.Prefix != "" || s3.Endpoint != "") {
		return fmt.Errorf("publish.s3.bucket is required when other publish.s3 keys are set")
	}

	return nil
}

// OutputExtensions returns the report extensions to generate, txt first.
func (c *Config) OutputExtensions() []string {
	return output.Formats(c.OutputFormat)
}

// HistoryDBPath returns the configured history database, defaulting to
// $PROJEXPORT_HOME/history.db.
func (c *Config) HistoryDBPath() (string, error) {
	if c.History.DBPath != "" {
		return c.History.DBPath, nil
	}
	return DefaultHistoryDBPath()
}
