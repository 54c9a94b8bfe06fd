package browser

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/nessus-flatten/nessus-flatten/internal/extract"
)

// severityLabel returns a colored severity label.
func severityLabel(s string) string {
	switch s {
	case "Critical":
		return criticalStyle.Render("CRIT")
	case "High":
		return highStyle.Render("HIGH")
	case "Medium":
		return mediumStyle.Render("MED ")
	case "":
		return otherStyle.Render("    ")
	default:
		return otherStyle.Render(strings.ToUpper(fmt.Sprintf("%-4.4s", s)))
	}
}

// renderRecord renders one aggregated record for the given variant.
func renderRecord(v extract.Variant, r *extract.Record) string {
	var b strings.Builder

	title := r.Key.Title
	if title == "" {
		title = "(untitled)"
	}

	switch v {
	case extract.VariantCompliance:
		b.WriteString(fmt.Sprintf(" %s\n", recordTitleStyle.Render(title)))
		if r.Details.PolicyDescription != "" {
			b.WriteString(fmt.Sprintf("   %s\n", dimStyle.Render(oneLine(r.Details.PolicyDescription))))
		}
		b.WriteString(fmt.Sprintf("   host value: %s   recommended: %s\n",
			oneLine(r.Details.ActualValue), oneLine(r.Details.PolicyValue)))

	case extract.VariantGeneral:
		b.WriteString(fmt.Sprintf(" %s %s\n", severityLabel(r.Details.Severity), recordTitleStyle.Render(title)))
		for _, he := range r.Evidence {
			b.WriteString(fmt.Sprintf("   %s %s\n", he.Host,
				dimStyle.Render(fmt.Sprintf("(%s)", english.Plural(len(he.Evidence), "finding", "findings")))))
			for _, ev := range he.Evidence {
				b.WriteString(fmt.Sprintf("     - %s\n", dimStyle.Render(oneLine(ev))))
			}
		}
		return b.String()

	case extract.VariantPatches:
		b.WriteString(fmt.Sprintf(" %s %s\n", severityLabel(r.Key.Severity), recordTitleStyle.Render(title)))
		cve := r.Key.CVE
		if cve == "" {
			cve = "-"
		}
		b.WriteString(fmt.Sprintf("   CVSS %s   %s\n", r.Key.CVSS, dimStyle.Render(cve)))
	}

	b.WriteString(fmt.Sprintf("   hosts: %s\n", strings.Join(r.Hosts, ", ")))
	return b.String()
}

// renderSummary renders the counts line of a result.
func renderSummary(res *extract.Result) string {
	s := res.Stats
	line := fmt.Sprintf("  %s from %s, %s of %s findings matched",
		english.Plural(s.Records, "record", "records"),
		english.Plural(s.Hosts, "host", "hosts"),
		humanize.Comma(int64(s.Matched)),
		humanize.Comma(int64(s.Items)))
	if s.Conflicts > 0 {
		line += mediumStyle.Render(fmt.Sprintf("   %d merge conflicts", s.Conflicts))
	}
	return line
}

// oneLine collapses whitespace so multi-line evidence fits a row.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
