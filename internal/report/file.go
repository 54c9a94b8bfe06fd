// Package report serializes extracted records to CSV, text or SQLite.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/nessus-flatten/nessus-flatten/internal/failure"
)

// countingWriter tracks the bytes that went through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteFile creates (or truncates) path, lets write fill it and closes it.
// Write, flush and close errors are reported together as one IOError.
// A failed write leaves the partial file in place.
func WriteFile(path string, write func(io.Writer) error) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, failure.IO("create output", err)
	}

	cw := &countingWriter{w: f}
	bw := bufio.NewWriter(cw)

	var merr *multierror.Error
	if err := write(bw); err != nil {
		merr = multierror.Append(merr, err)
	} else if err := bw.Flush(); err != nil {
		merr = multierror.Append(merr, err)
	}
	if err := f.Close(); err != nil {
		merr = multierror.Append(merr, err)
	}

	if merr != nil {
		merr.ErrorFormat = joinErrors
		return cw.n, failure.IO(fmt.Sprintf("write %s", path), merr.ErrorOrNil())
	}
	return cw.n, nil
}

func joinErrors(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}
