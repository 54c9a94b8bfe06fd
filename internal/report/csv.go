package report

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/nessus-flatten/nessus-flatten/internal/extract"
)

// Column headers of the CSV reports.
var (
	ComplianceHeader = []string{"Title", "Policy Description", "Setting on Host", "Recommended Setting", "Affected Hosts"}
	PatchesHeader    = []string{"Title", "Severity", "CVSS Score", "CVE", "Hosts Affected"}
)

// ComplianceRows flattens compliance records, hosts joined by delim.
func ComplianceRows(records []*extract.Record, delim string) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Key.Title,
			r.Details.PolicyDescription,
			r.Details.ActualValue,
			r.Details.PolicyValue,
			strings.Join(r.Hosts, delim),
		})
	}
	return rows
}

// PatchRows flattens patch records, hosts joined by delim.
func PatchRows(records []*extract.Record, delim string) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Key.Title,
			r.Key.Severity,
			r.Key.CVSS,
			r.Key.CVE,
			strings.Join(r.Hosts, delim),
		})
	}
	return rows
}

// WriteCSV writes the header and rows with CRLF record terminators.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
