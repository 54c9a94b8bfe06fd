// Command nessus-view browses a Nessus report in the terminal. The report
// is aggregated under every variant; each variant gets its own tab.
//
// Usage:
//
//	nessus-view [--variant compliance|general|patches] [--config profile.yaml] <nessus_file>
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/nessus-flatten/nessus-flatten/internal/cli"
	"github.com/nessus-flatten/nessus-flatten/internal/config"
	"github.com/nessus-flatten/nessus-flatten/internal/extract"
	"github.com/nessus-flatten/nessus-flatten/internal/failure"
	"github.com/nessus-flatten/nessus-flatten/internal/logging"
	"github.com/nessus-flatten/nessus-flatten/internal/nessus"
	"github.com/nessus-flatten/nessus-flatten/internal/tui/browser"
)

const usage = "Usage: nessus-view [flags] <nessus_file>"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, startProgram)
	stop()
	os.Exit(code)
}

// starter runs the browser until the user quits.
type starter func(ctx context.Context, m tea.Model) error

func startProgram(ctx context.Context, m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, start starter) int {
	var (
		flags   cli.CommonFlags
		variant string
	)
	fs := pflag.NewFlagSet("nessus-view", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}
	flags.Register(fs, extract.VariantGeneral, false)
	fs.StringVar(&variant, "variant", string(extract.VariantGeneral), "tab to open first: compliance, general or patches")

	if stop, code := cli.ParseArgs(fs, args); stop {
		return code
	}
	if flags.Version {
		cli.PrintVersion(stdout)
		return 0
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stdout, usage)
		return 1
	}

	m, err := loadModel(fs.Arg(0), variant, flags, stderr)
	if err == nil {
		err = start(ctx, m)
	}
	if err != nil {
		fmt.Fprintf(stdout, "An error occurred: %v\n", err)
		return failure.ExitCode(err)
	}
	return 0
}

// loadModel parses the report and runs every extractor. An extractor
// failure is shown on its tab; only load and configuration errors abort.
func loadModel(input, variant string, flags cli.CommonFlags, stderr io.Writer) (browser.Model, error) {
	first, err := extract.ParseVariant(variant)
	if err != nil {
		return browser.Model{}, failure.Usage("variant", err)
	}
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return browser.Model{}, err
	}
	log, err := newLogger(cfg, flags, stderr)
	if err != nil {
		return browser.Model{}, err
	}

	doc, err := nessus.Load(input)
	if err != nil {
		return browser.Model{}, err
	}

	tabs := make([]browser.Tab, 0, len(extract.Variants))
	for _, v := range extract.Variants {
		ex, err := extract.New(v, cfg, log)
		if err != nil {
			return browser.Model{}, failure.Usage("config", err)
		}
		res, err := ex.Run(doc)
		if err != nil {
			log.WithError(err).WithField("variant", string(v)).Warn("extraction failed")
		}
		tabs = append(tabs, browser.Tab{Variant: v, Result: res, Err: err})
	}

	m := browser.New(input, tabs)
	m.Select(first)
	return m, nil
}

func newLogger(cfg *config.Config, flags cli.CommonFlags, w io.Writer) (*logrus.Logger, error) {
	level := cfg.LogLevel
	if flags.LogLevel != "" {
		level = flags.LogLevel
	}
	log, err := logging.New(w, level)
	if err != nil {
		return nil, failure.Usage("flags", err)
	}
	return log, nil
}
