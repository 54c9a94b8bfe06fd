package extract

import (
	"github.com/nessus-flatten/nessus-flatten/internal/nessus"
)

// Predicate decides whether a finding takes part in a report.
type Predicate interface {
	Match(it nessus.ReportItem) (bool, error)
}

// CompliancePredicate matches compliance-check findings whose result is one
// of Results.
type CompliancePredicate struct {
	PluginID  string
	Namespace string
	Results   []string
}

// Match implements Predicate.
func (p CompliancePredicate) Match(it nessus.ReportItem) (bool, error) {
	if it.PluginID() != p.PluginID {
		return false, nil
	}
	result := it.TextOr(p.Namespace, "compliance-result", "")
	return contains(p.Results, result), nil
}

// SeverityPredicate matches findings whose severity has a label and whose
// plugin is not excluded. The severity attribute is parsed before anything
// else, so a malformed value fails the run even on an excluded plugin.
type SeverityPredicate struct {
	Labels           map[int]string
	ExcludePluginIDs []string
}

// Match implements Predicate.
func (p SeverityPredicate) Match(it nessus.ReportItem) (bool, error) {
	sev, err := it.Severity()
	if err != nil {
		return false, err
	}
	if _, ok := p.Labels[sev]; !ok {
		return false, nil
	}
	return !contains(p.ExcludePluginIDs, it.PluginID()), nil
}

// Label returns the label of the finding's severity.
func (p SeverityPredicate) Label(it nessus.ReportItem) (string, error) {
	sev, err := it.Severity()
	if err != nil {
		return "", err
	}
	return p.Labels[sev], nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
