// Command nessus-general writes a plain-text digest of the medium, high and
// critical findings of a Nessus report, with per-host evidence. Compliance
// checks and the patch summary plugin are left out.
//
// Usage:
//
//	nessus-general [--config profile.yaml] [--format text|sqlite] <input_nessus_file> <output_file>
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

const usage = "Usage: nessus-general [flags] <input_nessus_file> <output_file>"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var flags cli.CommonFlags
	fs := pflag.NewFlagSet("nessus-general", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}
	flags.Register(fs, extract.VariantGeneral, true)

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
		Variant: extract.VariantGeneral,
		Input:   fs.Arg(0),
		Output:  fs.Arg(1),
		Flags:   flags,
		Success: "Results written to",
		Stdout:  stdout,
		Stderr:  stderr,
	})
}
