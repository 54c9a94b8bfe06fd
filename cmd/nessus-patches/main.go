// Command nessus-patches parses a .nessus file and generates a CSV report of
// medium, high and critical findings with their CVSS score, CVEs and hosts.
//
// Usage:
//
//	nessus-patches [-o missing_patches_with_cve.csv] [--config profile.yaml] <nessus_file>
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/nessus-flatten/nessus-flatten/internal/cli"
	"github.com/nessus-flatten/nessus-flatten/internal/config"
	"github.com/nessus-flatten/nessus-flatten/internal/extract"
	"github.com/nessus-flatten/nessus-flatten/internal/failure"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var flags cli.CommonFlags
	fs := pflag.NewFlagSet("nessus-patches", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: nessus-patches [flags] <nessus_file>")
		fmt.Fprintln(stderr, "\nParse a .nessus file and generate a CSV report.")
		fs.PrintDefaults()
	}
	output := fs.StringP("output", "o", config.NewDefaultConfig().Patches.DefaultOutput, "path to the output CSV file")
	flags.Register(fs, extract.VariantPatches, true)

	if stop, code := cli.ParseArgs(fs, args); stop {
		return code
	}
	if flags.Version {
		cli.PrintVersion(stdout)
		return 0
	}
	if fs.NArg() != 1 {
		fs.Usage()
		if fs.NArg() == 0 {
			fmt.Fprintln(stderr, "error: the following arguments are required: nessus_file")
		} else {
			fmt.Fprintf(stderr, "error: unrecognized arguments: %v\n", fs.Args()[1:])
		}
		return failure.ExitCode(failure.Usagef("nessus_file"))
	}

	job := cli.Job{
		Variant: extract.VariantPatches,
		Input:   fs.Arg(0),
		Output:  *output,
		Flags:   flags,
		Success: "Data successfully written to",
		Stdout:  stdout,
		Stderr:  stderr,
	}
	if !fs.Changed("output") {
		job.OutputFromConfig = func(cfg *config.Config) string { return cfg.Patches.DefaultOutput }
	}
	return cli.Execute(ctx, job)
}
