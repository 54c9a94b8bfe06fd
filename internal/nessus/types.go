// Package nessus decodes Nessus v2 XML reports into a navigable tree of
// hosts and findings.
package nessus

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// ComplianceNamespace is the namespace URI of the compliance (cm:) fields.
const ComplianceNamespace = "http://www.nessus.org/cm"

// Well-known plugin IDs.
const (
	PluginCompliance   = "21156"
	PluginPatchSummary = "19506"
)

// Compliance result values reported in cm:compliance-result.
const (
	ResultPassed  = "PASSED"
	ResultFailed  = "FAILED"
	ResultWarning = "WARNING"
	ResultError   = "ERROR"
)

// Document is a parsed report file.
type Document struct {
	Reports []Report
}

// Report is one <Report> element.
type Report struct {
	Name  string       `xml:"name,attr"`
	Hosts []ReportHost `xml:"ReportHost"`
}

// ReportHost is one scanned host and its findings, in document order.
type ReportHost struct {
	Name  string       `xml:"name,attr"`
	Items []ReportItem `xml:"ReportItem"`
}

// ReportItem is a single finding. Attributes and child elements are kept
// generically so lookups can be namespace-aware and fall back explicitly.
type ReportItem struct {
	Attrs  []xml.Attr `xml:",any,attr"`
	Fields []Field    `xml:",any"`
}

// Field is a child element of a ReportItem.
type Field struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

// Hosts returns every host of every report, in document order.
func (d *Document) Hosts() []ReportHost {
	var hosts []ReportHost
	for _, r := range d.Reports {
		hosts = append(hosts, r.Hosts...)
	}
	return hosts
}

// Stats returns the host and finding counts of the document.
func (d *Document) Stats() (hosts, items int) {
	for _, h := range d.Hosts() {
		hosts++
		items += len(h.Items)
	}
	return hosts, items
}

// Attr returns the named attribute and whether it was present.
func (it ReportItem) Attr(name string) (string, bool) {
	for _, a := range it.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute, or fallback when it is absent.
// A present but empty attribute is returned as is.
func (it ReportItem) AttrOr(name, fallback string) string {
	if v, ok := it.Attr(name); ok {
		return v
	}
	return fallback
}

// PluginID returns the pluginID attribute, or "" when absent.
func (it ReportItem) PluginID() string {
	return it.AttrOr("pluginID", "")
}

// Severity parses the severity attribute. A missing attribute is 0; a
// present value that is not an integer is an error.
func (it ReportItem) Severity() (int, error) {
	raw, ok := it.Attr("severity")
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid severity %q for plugin %q: %w", raw, it.PluginID(), err)
	}
	return n, nil
}

// Text returns the character data of the first child element named local in
// namespace space ("" for no namespace) and whether such a child exists.
func (it ReportItem) Text(space, local string) (string, bool) {
	for _, f := range it.Fields {
		if f.XMLName.Space == space && f.XMLName.Local == local {
			return f.Text, true
		}
	}
	return "", false
}

// TextOr is Text with a fallback for a missing child.
func (it ReportItem) TextOr(space, local, fallback string) string {
	if v, ok := it.Text(space, local); ok {
		return v
	}
	return fallback
}

// Texts returns the character data of every matching child, in order.
func (it ReportItem) Texts(space, local string) []string {
	var out []string
	for _, f := range it.Fields {
		if f.XMLName.Space == space && f.XMLName.Local == local {
			out = append(out, f.Text)
		}
	}
	return out
}
