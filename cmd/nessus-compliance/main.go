// Command nessus-compliance lists failed and warning compliance checks of a
// Nessus report as CSV, one row per check with every affected host.
//
// Usage:
//
//	nessus-compliance [--config profile.yaml] [--format csv|sqlite] <input_nessus_file> <output_csv_file>
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
	"github.com/nessus-flatten/nessus-flatten/internal/extract"
)

const usage = "Usage: nessus-compliance [flags] <input_nessus_file> <output_csv_file>"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var flags cli.CommonFlags
	fs := pflag.NewFlagSet("nessus-compliance", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}
	flags.Register(fs, extract.VariantCompliance, true)

	if stop, code := cli.ParseArgs(fs, args); stop {
		return code
	}
	if flags.Version {
		cli.PrintVersion(stdout)
		return 0
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(stdout, usage)
		return 1
	}

	return cli.Execute(ctx, cli.Job{
		Variant: extract.VariantCompliance,
		Input:   fs.Arg(0),
		Output:  fs.Arg(1),
		Flags:   flags,
		Success: "Results written to",
		Stdout:  stdout,
		Stderr:  stderr,
	})
}
