package anomalies

import (
	"sort"

	"github.com/wI2L/jsondiff"
)

// ReportEntry is the rendered form of one record.
type ReportEntry struct {
	// Path is the serialized field path.
	Path string `json:"path"`
	// Descriptions are the record's descriptions after collapsing.
	Descriptions []Description `json:"reason"`
	// Unified summarizes Descriptions.
	Unified  Description `json:"unified"`
	Severity Severity    `json:"severity"`
	// SchemaChange turns the baseline into the record's schema copy. Only set
	// when Options.SchemaChanges is enabled.
	SchemaChange jsondiff.Patch `json:"schema_change,omitempty"`
}

// Report is the immutable result of a Builder. Entries are sorted by
// serialized path.
type Report[S any] struct {
	Baseline S             `json:"baseline"`
	Entries  []ReportEntry `json:"anomaly_info"`
}

func newReport[S any](baseline S, entries []ReportEntry) *Report[S] {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return &Report[S]{Baseline: baseline, Entries: entries}
}

// Len returns the number of entries.
func (r *Report[S]) Len() int { return len(r.Entries) }

// Empty reports whether no anomaly was found.
func (r *Report[S]) Empty() bool { return len(r.Entries) == 0 }

// Entry returns the entry for p.
func (r *Report[S]) Entry(p Path) (ReportEntry, bool) {
	key := p.Serialize()
	i := sort.Search(len(r.Entries), func(i int) bool { return r.Entries[i].Path >= key })
	if i < len(r.Entries) && r.Entries[i].Path == key {
		return r.Entries[i], true
	}
	return ReportEntry{}, false
}

// Paths returns the serialized paths in order.
func (r *Report[S]) Paths() []string {
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Path
	}
	return out
}

// MaxSeverity returns the highest severity across entries.
func (r *Report[S]) MaxSeverity() Severity {
	sev := SeverityUnset
	for _, e := range r.Entries {
		sev = MaxSeverity(sev, e.Severity)
	}
	return sev
}
