// Package extract filters Nessus findings and folds them into grouped
// report records.
package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/nessus-flatten/nessus-flatten/internal/config"
	"github.com/nessus-flatten/nessus-flatten/internal/failure"
	"github.com/nessus-flatten/nessus-flatten/internal/nessus"
)

// Variant names one of the report shapes.
type Variant string

const (
	VariantCompliance Variant = "compliance"
	VariantGeneral    Variant = "general"
	VariantPatches    Variant = "patches"
)

// Variants lists every variant in display order.
var Variants = []Variant{VariantCompliance, VariantGeneral, VariantPatches}

// ParseVariant maps a name to a Variant.
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown variant %q (expected compliance, general or patches)", s)
}

// Stats summarises one extraction run.
type Stats struct {
	Hosts     int
	Items     int
	Matched   int
	Records   int
	Conflicts int
}

// Result is the ordered output of an extraction run.
type Result struct {
	Variant Variant
	Records []*Record
	Stats   Stats
}

// Extractor walks host → finding, applies its predicate and groups the
// matches.
type Extractor struct {
	variant   Variant
	predicate Predicate
	finding   func(host string, it nessus.ReportItem) (Finding, error)
	policy    ConflictPolicy
	evidence  bool
	byTitle   bool
	sortHosts bool
	log       logrus.FieldLogger
}

// New builds the extractor for v from cfg. A nil log discards output.
func New(v Variant, cfg *config.Config, log logrus.FieldLogger) (*Extractor, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	policy, err := ParseConflictPolicy(cfg.Conflict)
	if err != nil {
		return nil, err
	}

	e := &Extractor{
		variant: v,
		policy:  policy,
		log:     log.WithField("variant", string(v)),
	}
	switch v {
	case VariantCompliance:
		e.predicate, e.finding = complianceFinding(cfg.Compliance)
		e.byTitle = true
		e.sortHosts = true
	case VariantGeneral:
		e.predicate, e.finding = generalFinding(cfg.General)
		e.evidence = true
	case VariantPatches:
		e.predicate, e.finding = patchFinding(cfg.Patches)
	default:
		return nil, fmt.Errorf("unknown variant %q", v)
	}
	return e, nil
}

// Variant returns the variant this extractor produces.
func (e *Extractor) Variant() Variant {
	return e.variant
}

// Run extracts and groups all matching findings of doc.
func (e *Extractor) Run(doc *nessus.Document) (*Result, error) {
	groups := NewGroups(e.policy, e.evidence)
	var stats Stats

	for _, host := range doc.Hosts() {
		stats.Hosts++
		for _, it := range host.Items {
			stats.Items++
			ok, err := e.predicate.Match(it)
			if err != nil {
				return nil, failure.Parse(fmt.Sprintf("host %s", host.Name), err)
			}
			if !ok {
				continue
			}
			f, err := e.finding(host.Name, it)
			if err != nil {
				return nil, failure.Parse(fmt.Sprintf("host %s", host.Name), err)
			}
			stats.Matched++
			if err := groups.Upsert(f); err != nil {
				return nil, err
			}
		}
	}

	records := groups.Records()
	if e.byTitle {
		records = groups.RecordsByTitle()
	}
	if e.sortHosts {
		for _, r := range records {
			r.Hosts = r.SortedHosts()
		}
	}
	stats.Records = len(records)
	stats.Conflicts = groups.Conflicts

	e.log.WithFields(logrus.Fields{
		"hosts":   humanize.Comma(int64(stats.Hosts)),
		"items":   humanize.Comma(int64(stats.Items)),
		"matched": humanize.Comma(int64(stats.Matched)),
		"records": humanize.Comma(int64(stats.Records)),
	}).Debug("extracted findings")
	if stats.Conflicts > 0 {
		e.log.WithField("conflicts", stats.Conflicts).
			Warn("merged findings disagreed on descriptive fields")
	}

	return &Result{Variant: e.variant, Records: records, Stats: stats}, nil
}

func complianceFinding(c config.ComplianceConfig) (Predicate, func(string, nessus.ReportItem) (Finding, error)) {
	pred := CompliancePredicate{PluginID: c.PluginID, Namespace: c.Namespace, Results: c.Results}
	return pred, func(host string, it nessus.ReportItem) (Finding, error) {
		return Finding{
			Key: GroupKey{Title: it.TextOr(c.Namespace, "compliance-check-name", "")},
			Details: Details{
				PolicyDescription: it.TextOr(c.Namespace, "compliance-info", ""),
				ActualValue:       it.TextOr(c.Namespace, "compliance-actual-value", ""),
				PolicyValue:       it.TextOr(c.Namespace, "compliance-policy-value", ""),
			},
			Host: host,
		}, nil
	}
}

func generalFinding(c config.GeneralConfig) (Predicate, func(string, nessus.ReportItem) (Finding, error)) {
	pred := SeverityPredicate{Labels: c.SeverityLabels, ExcludePluginIDs: c.ExcludePluginIDs}
	return pred, func(host string, it nessus.ReportItem) (Finding, error) {
		label, err := pred.Label(it)
		if err != nil {
			return Finding{}, err
		}
		evidence := strings.TrimSpace(it.TextOr("", "plugin_output", ""))
		if evidence == "" {
			evidence = c.EmptyEvidence
		}
		return Finding{
			Key:      GroupKey{Title: it.AttrOr("pluginName", c.DefaultTitle)},
			Details:  Details{Severity: label},
			Host:     host,
			Evidence: evidence,
		}, nil
	}
}

func patchFinding(c config.PatchesConfig) (Predicate, func(string, nessus.ReportItem) (Finding, error)) {
	pred := SeverityPredicate{Labels: c.SeverityLabels}
	return pred, func(host string, it nessus.ReportItem) (Finding, error) {
		label, err := pred.Label(it)
		if err != nil {
			return Finding{}, err
		}
		return Finding{
			Key: GroupKey{
				Title:    it.AttrOr("pluginName", c.DefaultTitle),
				Severity: label,
				CVSS:     it.TextOr("", "cvss_base_score", c.DefaultCVSS),
				CVE:      strings.Join(it.Texts("", "cve"), c.CVEDelimiter),
			},
			Details: Details{Severity: label},
			Host:    host,
		}, nil
	}
}
