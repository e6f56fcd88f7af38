package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/harrison/projexport/internal/filelock"
)

// fileConfig mirrors Config with pointer fields so keys absent from a file
// keep their defaults while keys set to zero values still apply.
type fileConfig struct {
	Language           *string   `yaml:"language"`
	AutoExportOnSave   *bool     `yaml:"auto_export_on_save"`
	IncludeHiddenFiles *bool     `yaml:"include_hidden_files"`
	MaxFileSize        *int64    `yaml:"max_file_size"`
	ExcludePatterns    *[]string `yaml:"exclude_patterns"`
	OutputFileName     *string   `yaml:"output_file_name"`
	OutputFormat       *string   `yaml:"output_format"`
	NotificationLevel  *string   `yaml:"notification_level"`
	LogLevel           *string   `yaml:"log_level"`
	LogDir             *string   `yaml:"log_dir"`
	Concurrency        *int      `yaml:"concurrency"`
	WatchDelay         *string   `yaml:"watch_delay"`
	MetricsAddr        *string   `yaml:"metrics_addr"`

	History *struct {
		Enabled *bool   `yaml:"enabled"`
		DBPath  *string `yaml:"db_path"`
	} `yaml:"history"`

	Publish *struct {
		S3 *S3Config `yaml:"s3"`
	} `yaml:"publish"`
}

func parseYAML(data []byte) (*fileConfig, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

// parseINI reads the flat INI form: top-level keys in the default section,
// [history] and [publish.s3] sections, and comma-separated exclude_patterns.
func parseINI(data []byte) (*fileConfig, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, err
	}

	var fc fileConfig
	root := f.Section(ini.DefaultSection)

	stringKeys := map[string]**string{
		"language":           &fc.Language,
		"output_file_name":   &fc.OutputFileName,
		"output_format":      &fc.OutputFormat,
		"notification_level": &fc.NotificationLevel,
		"log_level":          &fc.LogLevel,
		"log_dir":            &fc.LogDir,
		"watch_delay":        &fc.WatchDelay,
		"metrics_addr":       &fc.MetricsAddr,
	}
	for key, dst := range stringKeys {
		if root.HasKey(key) {
			v := root.Key(key).String()
			*dst = &v
		}
	}

	boolKeys := map[string]**bool{
		"auto_export_on_save":  &fc.AutoExportOnSave,
		"include_hidden_files": &fc.IncludeHiddenFiles,
	}
	for key, dst := range boolKeys {
		if root.HasKey(key) {
			v, err := root.Key(key).Bool()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			*dst = &v
		}
	}

	if root.HasKey("max_file_size") {
		v, err := root.Key("max_file_size").Int64()
		if err != nil {
			return nil, fmt.Errorf("max_file_size: %w", err)
		}
		fc.MaxFileSize = &v
	}
	if root.HasKey("concurrency") {
		v, err := root.Key("concurrency").Int()
		if err != nil {
			return nil, fmt.Errorf("concurrency: %w", err)
		}
		fc.Concurrency = &v
	}
	if root.HasKey("exclude_patterns") {
		patterns := root.Key("exclude_patterns").Strings(",")
		fc.ExcludePatterns = &patterns
	}

	if sec, err := f.GetSection("history"); err == nil {
		fc.History = &struct {
			Enabled *bool   `yaml:"enabled"`
			DBPath  *string `yaml:"db_path"`
		}{}
		if sec.HasKey("enabled") {
			v, err := sec.Key("enabled").Bool()
			if err != nil {
				return nil, fmt.Errorf("history.enabled: %w", err)
			}
			fc.History.Enabled = &v
		}
		if sec.HasKey("db_path") {
			v := sec.Key("db_path").String()
			fc.History.DBPath = &v
		}
	}

	if sec, err := f.GetSection("publish.s3"); err == nil {
		s3 := &S3Config{
			Bucket:    sec.Key("bucket").String(),
			Prefix:    sec.Key("prefix").String(),
			Region:    sec.Key("region").String(),
			Endpoint:  sec.Key("endpoint").String(),
			AccessKey: sec.Key("access_key").String(),
			SecretKey: sec.Key("secret_key").String(),
		}
		fc.Publish = &struct {
			S3 *S3Config `yaml:"s3"`
		}{S3: s3}
	}

	return &fc, nil
}

// applyTo copies every key present in the file onto cfg.
func (fc *fileConfig) applyTo(cfg *Config) error {
	if fc.Language != nil {
		cfg.Language = *fc.Language
	}
	if fc.AutoExportOnSave != nil {
		cfg.AutoExportOnSave = *fc.AutoExportOnSave
	}
	if fc.IncludeHiddenFiles != nil {
		cfg.IncludeHiddenFiles = *fc.IncludeHiddenFiles
	}
	if fc.MaxFileSize != nil {
		cfg.MaxFileSize = *fc.MaxFileSize
	}
	if fc.ExcludePatterns != nil {
		cfg.ExcludePatterns = cleanPatterns(*fc.ExcludePatterns)
	}
	if fc.OutputFileName != nil {
		cfg.OutputFileName = *fc.OutputFileName
	}
	if fc.OutputFormat != nil {
		cfg.OutputFormat = *fc.OutputFormat
	}
	if fc.NotificationLevel != nil {
		cfg.NotificationLevel = *fc.NotificationLevel
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.LogDir != nil {
		cfg.LogDir = *fc.LogDir
	}
	if fc.Concurrency != nil {
		cfg.Concurrency = *fc.Concurrency
	}
	if fc.WatchDelay != nil {
		d, err := parseDelay(*fc.WatchDelay)
		if err != nil {
			return err
		}
		cfg.WatchDelay = d
	}
	if fc.MetricsAddr != nil {
		cfg.MetricsAddr = *fc.MetricsAddr
	}
	if fc.History != nil {
		if fc.History.Enabled != nil {
			cfg.History.Enabled = *fc.History.Enabled
		}
		if fc.History.DBPath != nil {
			cfg.History.DBPath = *fc.History.DBPath
		}
	}
	if fc.Publish != nil && fc.Publish.S3 != nil {
		cfg.Publish.S3 = *fc.Publish.S3
	}
	return nil
}

// parseDelay accepts a Go duration ("750ms", "2s") or a bare number of
// milliseconds.
func parseDelay(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid watch_delay format %q: %w", s, err)
	}
	return d, nil
}

func cleanPatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SetAutoExport persists auto_export_on_save in the config file at path,
// creating a YAML file when none exists. Other keys, comments and ordering
// are preserved. The file is replaced atomically.
func SetAutoExport(path string, enabled bool) error {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var data []byte
	if isINI(path) {
		data, err = setINIKey(existing, "auto_export_on_save", strconv.FormatBool(enabled))
	} else {
		data, err = setYAMLKey(existing, "auto_export_on_save", strconv.FormatBool(enabled), "!!bool")
	}
	if err != nil {
		return fmt.Errorf("failed to update config file %s: %w", path, err)
	}

	if err := filelock.AtomicWrite(path, data); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

func setINIKey(existing []byte, key, value string) ([]byte, error) {
	f := ini.Empty()
	if len(existing) > 0 {
		loaded, err := ini.Load(existing)
		if err != nil {
			return nil, err
		}
		f = loaded
	}

	f.Section(ini.DefaultSection).Key(key).SetValue(value)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setYAMLKey(existing []byte, key, value, tag string) ([]byte, error) {
	var doc yaml.Node
	if len(bytes.TrimSpace(existing)) > 0 {
		if err := yaml.Unmarshal(existing, &doc); err != nil {
			return nil, err
		}
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		}
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level is not a mapping")
	}

	set := false
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1] = &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
			set = true
			break
		}
	}
	if !set {
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value},
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
