// Package logging builds the logrus logger shared by the command-line tools.
package logging

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing compact lines to w at the named level.
func New(w io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	l := logrus.New()
	l.Out = w
	l.Level = lvl
	l.Formatter = &CompactText{TimestampFormat: "15:04:05"}
	return l, nil
}

// CompactText prints one terse line per entry:
//
//	[15:04:05 W extract.go:42] message	key=value
type CompactText struct {
	TimestampFormat string
}

// Format implements logrus.Formatter.
func (f *CompactText) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	layout := time.RFC3339
	if f.TimestampFormat != "" {
		layout = f.TimestampFormat
	}
	b.WriteByte('[')
	b.WriteString(entry.Time.Format(layout))
	b.WriteByte(' ')
	b.WriteString(strings.ToUpper(entry.Level.String()[:1]))
	if entry.Caller != nil {
		fmt.Fprintf(&b, " %s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}
	b.WriteString("] ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\t%s=%v", k, entry.Data[k])
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}
