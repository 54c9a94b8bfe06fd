// Package config provides the extraction profile shared by the report tools,
// optionally overlaid from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nessus-flatten/nessus-flatten/internal/failure"
	"github.com/nessus-flatten/nessus-flatten/internal/nessus"
)

// Conflict policies for descriptive fields of merged findings.
const (
	ConflictLast  = "last"
	ConflictFirst = "first"
	ConflictFail  = "fail"
)

// Config is the full tool configuration.
type Config struct {
	// Conflict decides which descriptive values survive when two findings
	// share a group key: "last", "first" or "fail".
	Conflict string `yaml:"conflict"`
	LogLevel string `yaml:"log_level"`

	Compliance ComplianceConfig `yaml:"compliance"`
	General    GeneralConfig    `yaml:"general"`
	Patches    PatchesConfig    `yaml:"patches"`
}

// ComplianceConfig drives the failed/warning compliance check CSV.
type ComplianceConfig struct {
	PluginID      string   `yaml:"plugin_id"`
	Namespace     string   `yaml:"namespace"`
	Results       []string `yaml:"results"`
	HostDelimiter string   `yaml:"host_delimiter"`
}

// GeneralConfig drives the per-issue evidence text report.
type GeneralConfig struct {
	SeverityLabels   map[int]string `yaml:"severity_labels"`
	ExcludePluginIDs []string       `yaml:"exclude_plugin_ids"`
	DefaultTitle     string         `yaml:"default_title"`
	EmptyEvidence    string         `yaml:"empty_evidence"`
}

// PatchesConfig drives the missing patch CSV.
type PatchesConfig struct {
	SeverityLabels map[int]string `yaml:"severity_labels"`
	DefaultTitle   string         `yaml:"default_title"`
	DefaultCVSS    string         `yaml:"default_cvss"`
	CVEDelimiter   string         `yaml:"cve_delimiter"`
	HostDelimiter  string         `yaml:"host_delimiter"`
	DefaultOutput  string         `yaml:"default_output"`
}

func defaultSeverityLabels() map[int]string {
	return map[int]string{2: "Medium", 3: "High", 4: "Critical"}
}

// NewDefaultConfig returns the built-in profile.
func NewDefaultConfig() *Config {
	return &Config{
		Conflict: ConflictLast,
		LogLevel: "warn",
		Compliance: ComplianceConfig{
			PluginID:      nessus.PluginCompliance,
			Namespace:     nessus.ComplianceNamespace,
			Results:       []string{nessus.ResultFailed, nessus.ResultWarning},
			HostDelimiter: "; ",
		},
		General: GeneralConfig{
			SeverityLabels:   defaultSeverityLabels(),
			ExcludePluginIDs: []string{nessus.PluginCompliance, nessus.PluginPatchSummary},
			DefaultTitle:     "Unknown Title",
			EmptyEvidence:    "No evidence provided",
		},
		Patches: PatchesConfig{
			SeverityLabels: defaultSeverityLabels(),
			DefaultTitle:   "Unknown",
			DefaultCVSS:    "N/A",
			CVEDelimiter:   ", ",
			HostDelimiter:  ", ",
			DefaultOutput:  "missing_patches_with_cve.csv",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Keys absent from the file keep their default values; a map or list that is
// present replaces the default wholesale.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, failure.Parse("read config", err)
	}
	if err := cfg.overlay(data); err != nil {
		return nil, failure.Parse(fmt.Sprintf("parse config %s", path), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, failure.Parse(fmt.Sprintf("invalid config %s", path), err)
	}
	return cfg, nil
}

func (c *Config) overlay(data []byte) error {
	// yaml.v3 merges into the existing maps; reset the label tables that the
	// file sets so a shorter table really is shorter.
	var probe struct {
		General struct {
			SeverityLabels yaml.Node `yaml:"severity_labels"`
		} `yaml:"general"`
		Patches struct {
			SeverityLabels yaml.Node `yaml:"severity_labels"`
		} `yaml:"patches"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return err
	}
	if !probe.General.SeverityLabels.IsZero() {
		c.General.SeverityLabels = nil
	}
	if !probe.Patches.SeverityLabels.IsZero() {
		c.Patches.SeverityLabels = nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
