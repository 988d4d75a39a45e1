package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/carestats/internal/model"
	"github.com/gyeh/carestats/internal/normalize"
)

// Config holds all runtime configuration for a carestats run.
type Config struct {
	DSN       string
	LogFormat string // "text" or "json"
	LogLevel  string

	LedgerPath        string
	CertificationPath string
	OutputPath        string
	XLSXPath          string
	ParquetPath       string
	Year              int

	Workers         int
	CutoffMonth     int
	CutoffDay       int
	Encoding        string // "utf-8" or "shift_jis"
	ExcludedReasons []string
	DroppedColumns  []string
	IncludeExcluded bool // emit excluded residents with the excluded label

	CertifiedLabel    string
	NotCertifiedLabel string
	ExcludedLabel     string

	ElderlyAge     int
	LateElderlyAge int
}

// yamlConfig is the on-disk YAML structure. Pointer fields distinguish
// "absent" from a zero value so the file only overrides what it names.
type yamlConfig struct {
	Workers           *int     `yaml:"workers"`
	CutoffMonth       *int     `yaml:"cutoff_month"`
	CutoffDay         *int     `yaml:"cutoff_day"`
	Encoding          *string  `yaml:"encoding"`
	ExcludedReasons   []string `yaml:"excluded_reasons"`
	DroppedColumns    []string `yaml:"dropped_columns"`
	IncludeExcluded   *bool    `yaml:"include_excluded"`
	CertifiedLabel    *string  `yaml:"certified_label"`
	NotCertifiedLabel *string  `yaml:"not_certified_label"`
	ExcludedLabel     *string  `yaml:"excluded_label"`
	ElderlyAge        *int     `yaml:"elderly_age"`
	LateElderlyAge    *int     `yaml:"late_elderly_age"`
}

// Default returns a Config with the fiscal-year cutoff of March 31 and the
// standard exclusion and drop lists.
func Default() Config {
	labels := normalize.DefaultLabels()
	return Config{
		LogFormat:         "text",
		LogLevel:          "info",
		CutoffMonth:       3,
		CutoffDay:         31,
		Encoding:          "utf-8",
		ExcludedReasons:   append([]string(nil), model.DefaultExcludedReasons...),
		DroppedColumns:    append([]string(nil), model.DefaultDroppedColumns...),
		CertifiedLabel:    labels.Certified,
		NotCertifiedLabel: labels.NotCertified,
		ExcludedLabel:     labels.Excluded,
		ElderlyAge:        65,
		LateElderlyAge:    75,
	}
}

// LoadFromFile reads a YAML config file and merges its values into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	setInt(&c.Workers, yc.Workers)
	setInt(&c.CutoffMonth, yc.CutoffMonth)
	setInt(&c.CutoffDay, yc.CutoffDay)
	setInt(&c.ElderlyAge, yc.ElderlyAge)
	setInt(&c.LateElderlyAge, yc.LateElderlyAge)
	setString(&c.Encoding, yc.Encoding)
	setString(&c.CertifiedLabel, yc.CertifiedLabel)
	setString(&c.NotCertifiedLabel, yc.NotCertifiedLabel)
	setString(&c.ExcludedLabel, yc.ExcludedLabel)
	if yc.IncludeExcluded != nil {
		c.IncludeExcluded = *yc.IncludeExcluded
	}
	if yc.ExcludedReasons != nil {
		c.ExcludedReasons = yc.ExcludedReasons
	}
	if yc.DroppedColumns != nil {
		c.DroppedColumns = yc.DroppedColumns
	}
	return c.validateRules()
}

// validateRules checks the reconciliation settings regardless of which
// command runs.
func (c *Config) validateRules() error {
	if c.CutoffMonth < 1 || c.CutoffMonth > 12 {
		return fmt.Errorf("cutoff_month must be 1-12, got %d", c.CutoffMonth)
	}
	if c.CutoffDay < 1 || c.CutoffDay > 31 {
		return fmt.Errorf("cutoff_day must be 1-31, got %d", c.CutoffDay)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.ElderlyAge <= 0 || c.LateElderlyAge < c.ElderlyAge {
		return fmt.Errorf("invalid age thresholds: elderly=%d late=%d", c.ElderlyAge, c.LateElderlyAge)
	}
	if c.CertifiedLabel == "" || c.CertifiedLabel == c.NotCertifiedLabel {
		return fmt.Errorf("certified and not-certified labels must be distinct and non-empty")
	}
	return nil
}

// Validate checks the inputs of a reconciliation run.
func (c *Config) Validate() error {
	if c.LedgerPath == "" {
		return fmt.Errorf("--ledger is required")
	}
	if c.CertificationPath == "" {
		return fmt.Errorf("--certs is required")
	}
	for _, p := range []string{c.LedgerPath, c.CertificationPath} {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("file not accessible: %w", err)
		}
	}
	if c.Year < 1900 {
		return fmt.Errorf("--year is required")
	}
	return c.validateRules()
}

// ValidateWithDSN checks both inputs and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or CARESTATS_DB_URL is required")
	}
	return nil
}

// Cutoff returns the as-of date for the configured year.
func (c *Config) Cutoff() model.Date {
	return model.CutoffDate(c.Year, time.Month(c.CutoffMonth), c.CutoffDay)
}

// Labels returns the configured status labels.
func (c *Config) Labels() normalize.Labels {
	return normalize.Labels{
		Certified:    c.CertifiedLabel,
		NotCertified: c.NotCertifiedLabel,
		Excluded:     c.ExcludedLabel,
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
