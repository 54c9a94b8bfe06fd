package extract

import (
	"fmt"
	"sort"

	"github.com/nessus-flatten/nessus-flatten/internal/config"
	"github.com/nessus-flatten/nessus-flatten/internal/failure"
)

// ConflictPolicy decides which descriptive values a record keeps when a
// later finding with the same key disagrees with it.
type ConflictPolicy int

const (
	KeepLast ConflictPolicy = iota
	KeepFirst
	FailOnConflict
)

// ParseConflictPolicy maps a config value to a ConflictPolicy.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch s {
	case config.ConflictLast, "":
		return KeepLast, nil
	case config.ConflictFirst:
		return KeepFirst, nil
	case config.ConflictFail:
		return FailOnConflict, nil
	}
	return KeepLast, config.ValidateConflict(s)
}

// GroupKey identifies one output row. Components a variant does not group
// by are left empty.
type GroupKey struct {
	Title    string
	Severity string
	CVSS     string
	CVE      string
}

// Details are the descriptive fields captured from a finding.
type Details struct {
	Severity          string
	PolicyDescription string
	ActualValue       string
	PolicyValue       string
}

func (d Details) diff(o Details) string {
	switch {
	case d.Severity != o.Severity:
		return "severity"
	case d.PolicyDescription != o.PolicyDescription:
		return "policy description"
	case d.ActualValue != o.ActualValue:
		return "setting on host"
	case d.PolicyValue != o.PolicyValue:
		return "recommended setting"
	}
	return ""
}

// HostEvidence is the evidence collected for one host, in finding order.
type HostEvidence struct {
	Host     string
	Evidence []string
}

// Record is one aggregated output row.
type Record struct {
	Key     GroupKey
	Details Details
	// Hosts is deduplicated and in first-seen order.
	Hosts []string
	// Evidence is only filled by variants that track evidence.
	Evidence []HostEvidence

	hostIndex map[string]int
}

func (r *Record) addHost(host string) int {
	if i, ok := r.hostIndex[host]; ok {
		return i
	}
	r.hostIndex[host] = len(r.Hosts)
	r.Hosts = append(r.Hosts, host)
	return len(r.Hosts) - 1
}

// SortedHosts returns a sorted copy of the host set.
func (r *Record) SortedHosts() []string {
	out := append([]string(nil), r.Hosts...)
	sort.Strings(out)
	return out
}

// Finding is one filtered finding ready to be folded into Groups.
type Finding struct {
	Key      GroupKey
	Details  Details
	Host     string
	Evidence string
}

// Groups is an insertion-ordered mapping from GroupKey to Record.
type Groups struct {
	policy        ConflictPolicy
	trackEvidence bool
	order         []*Record
	index         map[GroupKey]*Record

	// Conflicts counts merges whose descriptive fields disagreed.
	Conflicts int
}

// NewGroups creates an empty mapping.
func NewGroups(policy ConflictPolicy, trackEvidence bool) *Groups {
	return &Groups{
		policy:        policy,
		trackEvidence: trackEvidence,
		index:         make(map[GroupKey]*Record),
	}
}

// Upsert creates the record for f.Key on first sight, or merges f into the
// existing record according to the conflict policy.
func (g *Groups) Upsert(f Finding) error {
	rec, ok := g.index[f.Key]
	if !ok {
		rec = &Record{
			Key:       f.Key,
			Details:   f.Details,
			hostIndex: make(map[string]int),
		}
		g.index[f.Key] = rec
		g.order = append(g.order, rec)
	} else if field := rec.Details.diff(f.Details); field != "" {
		g.Conflicts++
		switch g.policy {
		case FailOnConflict:
			return failure.Conflict("aggregate",
				fmt.Errorf("%q: %s differs on host %q (%q vs %q)",
					f.Key.Title, field, f.Host, detailValue(rec.Details, field), detailValue(f.Details, field)))
		case KeepLast:
			rec.Details = f.Details
		case KeepFirst:
			// existing values stay
		}
	}

	i := rec.addHost(f.Host)
	if g.trackEvidence {
		if i == len(rec.Evidence) {
			rec.Evidence = append(rec.Evidence, HostEvidence{Host: f.Host})
		}
		rec.Evidence[i].Evidence = append(rec.Evidence[i].Evidence, f.Evidence)
	}
	return nil
}

func detailValue(d Details, field string) string {
	switch field {
	case "severity":
		return d.Severity
	case "policy description":
		return d.PolicyDescription
	case "setting on host":
		return d.ActualValue
	default:
		return d.PolicyValue
	}
}

// Len returns the number of distinct keys.
func (g *Groups) Len() int {
	return len(g.order)
}

// Records returns the records in first-seen order.
func (g *Groups) Records() []*Record {
	return append([]*Record(nil), g.order...)
}

// RecordsByTitle returns the records sorted by title.
func (g *Groups) RecordsByTitle() []*Record {
	out := g.Records()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key.Title < out[j].Key.Title
	})
	return out
}
