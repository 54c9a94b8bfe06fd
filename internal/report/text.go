package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/nessus-flatten/nessus-flatten/internal/extract"
)

// Separator terminates each issue block of the text report.
const Separator = "==========================================="

// WriteText writes one block per record: title, severity, then every host
// with its evidence lines.
func WriteText(w io.Writer, records []*extract.Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		fmt.Fprintf(bw, "Issue Title: %s\n", r.Key.Title)
		fmt.Fprintf(bw, "Severity: %s\n", r.Details.Severity)
		for _, he := range r.Evidence {
			fmt.Fprintf(bw, "Affected Host: %s\n", he.Host)
			bw.WriteString("Evidence:\n")
			for _, ev := range he.Evidence {
				fmt.Fprintf(bw, "- %s\n", ev)
			}
		}
		bw.WriteString(Separator + "\n")
	}
	return bw.Flush()
}
