// Package report aggregates result records into a team-level summary.
package report

import (
	"sort"

	"github.com/HendryAvila/tgt/internal/results"
)

// Means holds the arithmetic mean of each score column.
type Means struct {
	Past    float64 `json:"past"`
	Present float64 `json:"present"`
	Future  float64 `json:"future"`
}

// ArchetypeCount is the number of records carrying one archetype label.
type ArchetypeCount struct {
	Archetype string `json:"archetype"`
	Count     int    `json:"count"`
}

// Report is a snapshot summary of the result store.
//
// Means is nil when there are no records, so callers render a "no data"
// state instead of a zero or NaN average.
type Report struct {
	Count        int              `json:"count"`
	Means        *Means           `json:"means"`
	Distribution []ArchetypeCount `json:"distribution"`
}

// NoData reports whether the snapshot was empty.
func (r Report) NoData() bool {
	return r.Means == nil
}

// Aggregate computes the report for a snapshot of records.
// The input slice is not modified.
func Aggregate(records []results.Record) Report {
	rep := Report{Count: len(records), Distribution: []ArchetypeCount{}}
	if len(records) == 0 {
		return rep
	}

	var past, present, future float64
	counts := make(map[string]int)
	for _, r := range records {
		past += r.PastScore
		present += r.PresentScore
		future += r.FutureScore
		counts[r.Archetype]++
	}

	n := float64(len(records))
	rep.Means = &Means{
		Past:    past / n,
		Present: present / n,
		Future:  future / n,
	}

	for label, c := range counts {
		rep.Distribution = append(rep.Distribution, ArchetypeCount{Archetype: label, Count: c})
	}
	sort.Slice(rep.Distribution, func(i, j int) bool {
		a, b := rep.Distribution[i], rep.Distribution[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Archetype < b.Archetype
	})
	return rep
}
