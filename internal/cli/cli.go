// Package cli holds the load → extract → write pipeline and the flags shared
// by the report commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/nessus-flatten/nessus-flatten/internal/config"
	"github.com/nessus-flatten/nessus-flatten/internal/extract"
	"github.com/nessus-flatten/nessus-flatten/internal/failure"
	"github.com/nessus-flatten/nessus-flatten/internal/logging"
	"github.com/nessus-flatten/nessus-flatten/internal/nessus"
	"github.com/nessus-flatten/nessus-flatten/internal/report"
	"github.com/nessus-flatten/nessus-flatten/pkg/buildinfo"
)

// CommonFlags are accepted by every report command.
type CommonFlags struct {
	ConfigPath string
	LogLevel   string
	Format     string
	Version    bool
}

// Register adds the common flags to fs. withFormat adds --format.
func (c *CommonFlags) Register(fs *pflag.FlagSet, v extract.Variant, withFormat bool) {
	fs.StringVar(&c.ConfigPath, "config", "", "path to a YAML extraction profile")
	fs.StringVar(&c.LogLevel, "log-level", "", "log level: debug, info, warn, error (default from config: warn)")
	fs.BoolVar(&c.Version, "version", false, "print version and exit")
	if withFormat {
		fs.StringVar(&c.Format, "format", string(report.DefaultFormat(v)),
			fmt.Sprintf("output format: %s or %s", report.DefaultFormat(v), report.FormatSQLite))
	}
}

// Job is one report run.
type Job struct {
	Variant extract.Variant
	Input   string
	Output  string
	Flags   CommonFlags
	// OutputFromConfig, when set, picks the output path from the loaded
	// configuration. Used when the output flag was left at its default.
	OutputFromConfig func(*config.Config) string
	// Success is printed to Stdout, followed by the output path.
	Success string
	Stdout  io.Writer
	Stderr  io.Writer
}

// ParseArgs parses args into fs and reports whether the command should stop,
// with the exit status to use.
func ParseArgs(fs *pflag.FlagSet, args []string) (stop bool, code int) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return true, 0
		}
		return true, failure.ExitCode(failure.Usage("arguments", err))
	}
	return false, 0
}

// PrintVersion writes build information.
func PrintVersion(w io.Writer) {
	fmt.Fprintln(w, buildinfo.String())
}

// Execute runs the job and returns the process exit status. Failures are
// reported as "An error occurred: <message>".
func Execute(ctx context.Context, job Job) int {
	out, err := run(ctx, job)
	if err != nil {
		fmt.Fprintf(job.Stdout, "An error occurred: %v\n", err)
		return failure.ExitCode(err)
	}
	fmt.Fprintf(job.Stdout, "%s %s\n", job.Success, out)
	return 0
}

func run(ctx context.Context, job Job) (string, error) {
	cfg, err := config.Load(job.Flags.ConfigPath)
	if err != nil {
		return "", err
	}
	level := cfg.LogLevel
	if job.Flags.LogLevel != "" {
		level = job.Flags.LogLevel
	}
	log, err := logging.New(job.Stderr, level)
	if err != nil {
		return "", failure.Usage("flags", err)
	}

	format := report.DefaultFormat(job.Variant)
	if job.Flags.Format != "" {
		if format, err = report.ParseFormat(job.Variant, job.Flags.Format); err != nil {
			return "", err
		}
	}
	output := job.Output
	if job.OutputFromConfig != nil {
		output = job.OutputFromConfig(cfg)
	}

	log.WithField("path", job.Input).Debug("loading report")
	doc, err := nessus.Load(job.Input)
	if err != nil {
		return "", err
	}
	hosts, items := doc.Stats()
	log.WithFields(logrus.Fields{
		"hosts": humanize.Comma(int64(hosts)),
		"items": humanize.Comma(int64(items)),
	}).Debug("report loaded")

	ex, err := extract.New(job.Variant, cfg, log)
	if err != nil {
		return "", failure.Usage("config", err)
	}
	res, err := ex.Run(doc)
	if err != nil {
		return "", err
	}

	n, err := report.Write(ctx, res, report.Options{
		Path:   output,
		Format: format,
		Source: job.Input,
		Config: cfg,
	})
	if err != nil {
		return "", err
	}
	entry := log.WithField("path", output).WithField("format", string(format))
	if n > 0 {
		entry = entry.WithField("size", humanize.Bytes(uint64(n)))
	}
	entry.Info("wrote " + report.Describe(res))
	return output, nil
}
