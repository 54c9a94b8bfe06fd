package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for values the extractors cannot use.
func (c *Config) Validate() error {
	if err := ValidateConflict(c.Conflict); err != nil {
		return err
	}
	if err := ValidateLogLevel(c.LogLevel); err != nil {
		return err
	}

	if strings.TrimSpace(c.Compliance.PluginID) == "" {
		return fmt.Errorf("compliance.plugin_id is required")
	}
	if len(c.Compliance.Results) == 0 {
		return fmt.Errorf("compliance.results must list at least one result")
	}
	if c.Compliance.HostDelimiter == "" {
		return fmt.Errorf("compliance.host_delimiter must not be empty")
	}

	if err := ValidateSeverityLabels(c.General.SeverityLabels); err != nil {
		return fmt.Errorf("general.severity_labels: %w", err)
	}
	if err := ValidateSeverityLabels(c.Patches.SeverityLabels); err != nil {
		return fmt.Errorf("patches.severity_labels: %w", err)
	}
	if c.Patches.HostDelimiter == "" {
		return fmt.Errorf("patches.host_delimiter must not be empty")
	}
	if c.Patches.CVEDelimiter == "" {
		return fmt.Errorf("patches.cve_delimiter must not be empty")
	}
	return nil
}

// ValidateConflict checks a conflict policy name.
func ValidateConflict(s string) error {
	switch s {
	case ConflictLast, ConflictFirst, ConflictFail:
		return nil
	}
	return fmt.Errorf("invalid conflict policy %q (expected last, first or fail)", s)
}

// ValidateLogLevel checks a log level name.
func ValidateLogLevel(s string) error {
	switch strings.ToLower(s) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
		return nil
	}
	return fmt.Errorf("invalid log level %q", s)
}

// ValidateSeverityLabels checks that the table is non-empty, only uses Nessus
// severities (0-4) and has no blank labels.
func ValidateSeverityLabels(labels map[int]string) error {
	if len(labels) == 0 {
		return fmt.Errorf("at least one severity label is required")
	}
	for sev, label := range labels {
		if sev < 0 || sev > 4 {
			return fmt.Errorf("severity %d out of range 0-4", sev)
		}
		if strings.TrimSpace(label) == "" {
			return fmt.Errorf("severity %d has an empty label", sev)
		}
	}
	return nil
}
