package mining

import (
	"sort"

	"github.com/petrimine/petrimine/eventlog"
)

// Universe holds the activity sets derived from a log: every distinct
// activity, the activities that start at least one trace, and the
// activities that end at least one trace. A Universe is immutable once
// built and deterministic for a given trace set.
type Universe struct {
	All    []string // every activity, sorted
	Starts []string // first activities of traces, sorted
	Ends   []string // last activities of traces, sorted

	// SkippedEmpty counts zero-length traces, which contribute nothing
	// to the start/end sets. They are recorded, not treated as errors.
	SkippedEmpty int
}

// NewUniverse extracts the activity universe from an event log.
func NewUniverse(log *eventlog.EventLog) *Universe {
	all := make(map[string]bool)
	starts := make(map[string]bool)
	ends := make(map[string]bool)
	skipped := 0

	for _, trace := range log.Traces() {
		seq := trace.ActivitySequence()
		if len(seq) == 0 {
			skipped++
			continue
		}
		for _, act := range seq {
			all[act] = true
		}
		starts[seq[0]] = true
		ends[seq[len(seq)-1]] = true
	}

	return &Universe{
		All:          sortedKeys(all),
		Starts:       sortedKeys(starts),
		Ends:         sortedKeys(ends),
		SkippedEmpty: skipped,
	}
}

// Contains reports whether the activity appears anywhere in the log.
func (u *Universe) Contains(activity string) bool {
	i := sort.SearchStrings(u.All, activity)
	return i < len(u.All) && u.All[i] == activity
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
