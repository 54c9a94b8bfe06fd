package report

import (
	"context"
	"fmt"
	"io"

	"github.com/nessus-flatten/nessus-flatten/internal/config"
	"github.com/nessus-flatten/nessus-flatten/internal/extract"
	"github.com/nessus-flatten/nessus-flatten/internal/failure"
)

// Format is an output serialization.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatText   Format = "text"
	FormatSQLite Format = "sqlite"
)

// DefaultFormat returns the native format of a variant.
func DefaultFormat(v extract.Variant) Format {
	if v == extract.VariantGeneral {
		return FormatText
	}
	return FormatCSV
}

// ParseFormat validates a format name for variant v.
func ParseFormat(v extract.Variant, s string) (Format, error) {
	f := Format(s)
	switch {
	case f == FormatSQLite:
		return f, nil
	case f == DefaultFormat(v):
		return f, nil
	}
	return "", failure.Usagef("format %q is not available for the %s report (use %s or %s)",
		s, v, DefaultFormat(v), FormatSQLite)
}

// Options controls a single output write.
type Options struct {
	Path   string
	Format Format
	// Source names the input report, recorded by the SQLite export.
	Source string
	Config *config.Config
}

// Write serializes res to opts.Path and returns the bytes written (0 for
// SQLite).
func Write(ctx context.Context, res *extract.Result, opts Options) (int64, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	format := opts.Format
	if format == "" {
		format = DefaultFormat(res.Variant)
	}

	switch format {
	case FormatSQLite:
		_, err := WriteSQLite(ctx, opts.Path, opts.Source, res)
		return 0, err
	case FormatText:
		return WriteFile(opts.Path, func(w io.Writer) error {
			return WriteText(w, res.Records)
		})
	case FormatCSV:
		header, rows, err := Table(res, cfg)
		if err != nil {
			return 0, err
		}
		return WriteFile(opts.Path, func(w io.Writer) error {
			return WriteCSV(w, header, rows)
		})
	}
	return 0, failure.Usagef("unknown format %q", format)
}

// Table returns the CSV header and rows of a compliance or patch result.
func Table(res *extract.Result, cfg *config.Config) ([]string, [][]string, error) {
	switch res.Variant {
	case extract.VariantCompliance:
		return ComplianceHeader, ComplianceRows(res.Records, cfg.Compliance.HostDelimiter), nil
	case extract.VariantPatches:
		return PatchesHeader, PatchRows(res.Records, cfg.Patches.HostDelimiter), nil
	}
	return nil, nil, failure.Usagef("no CSV layout for the %s report", res.Variant)
}

// Describe returns a one-line summary of what was written, for logs.
func Describe(res *extract.Result) string {
	return fmt.Sprintf("%d %s records from %d hosts", len(res.Records), res.Variant, res.Stats.Hosts)
}
