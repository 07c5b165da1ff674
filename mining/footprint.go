package mining

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/petrimine/petrimine/eventlog"
)

// FootprintMatrix holds the log-based ordering relations between
// activities: the direct-succession evidence plus the derived four-way
// classification over every activity pair. It is the foundation of the
// Alpha algorithm and is immutable once built.
type FootprintMatrix struct {
	Universe *Universe

	follows map[string]map[string]int // a -> b -> weighted direct-succession count
}

// NewFootprintMatrix builds the footprint matrix from an event log.
// Evidence is accumulated over the distinct trace variants, weighted by
// variant frequency; whether a succession was observed at all is what
// drives classification, the counts are kept for reporting.
func NewFootprintMatrix(log *eventlog.EventLog) *FootprintMatrix {
	return newFootprintMatrix(NewUniverse(log), log.Variants())
}

func newFootprintMatrix(universe *Universe, variants []eventlog.Variant) *FootprintMatrix {
	fp := &FootprintMatrix{
		Universe: universe,
		follows:  make(map[string]map[string]int, len(universe.All)),
	}
	for _, act := range universe.All {
		fp.follows[act] = make(map[string]int)
	}

	// The per-variant scans are independent; fan out across workers and
	// merge the partial counts. Addition is order-independent, so the
	// result is identical to a serial scan.
	workers := runtime.NumCPU()
	if workers > len(variants) {
		workers = len(variants)
	}
	if workers <= 1 {
		fp.accumulate(variants)
		return fp
	}

	partials := make([]map[string]map[string]int, workers)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			local := make(map[string]map[string]int)
			for i := w; i < len(variants); i += workers {
				scanVariant(local, variants[i])
			}
			partials[w] = local
			return nil
		})
	}
	// Workers never fail; Wait is just the join point.
	_ = g.Wait()

	for _, local := range partials {
		for a, row := range local {
			for b, count := range row {
				fp.follows[a][b] += count
			}
		}
	}
	return fp
}

// accumulate runs the serial evidence scan.
func (fp *FootprintMatrix) accumulate(variants []eventlog.Variant) {
	for _, v := range variants {
		scanVariant(fp.follows, v)
	}
}

// scanVariant records every adjacent pair of the variant, weighted by its
// occurrence count.
func scanVariant(follows map[string]map[string]int, v eventlog.Variant) {
	for i := 0; i < len(v.Activities)-1; i++ {
		a, b := v.Activities[i], v.Activities[i+1]
		row, ok := follows[a]
		if !ok {
			row = make(map[string]int)
			follows[a] = row
		}
		row[b] += v.Count
	}
}

// DirectlyFollows reports whether a is directly followed by b at least once.
func (fp *FootprintMatrix) DirectlyFollows(a, b string) bool {
	return fp.follows[a][b] > 0
}

// DirectlyFollowsCount returns the trace-weighted number of times a is
// directly followed by b.
func (fp *FootprintMatrix) DirectlyFollowsCount(a, b string) int {
	return fp.follows[a][b]
}

// Relation returns the four-way classification of the ordered pair (a, b).
// Self-pairs classify as Parallel when the activity directly succeeds
// itself and Unrelated otherwise, per the general rule.
func (fp *FootprintMatrix) Relation(a, b string) Relation {
	aFollowsB := fp.DirectlyFollows(a, b)
	bFollowsA := fp.DirectlyFollows(b, a)

	switch {
	case aFollowsB && bFollowsA:
		return Parallel
	case aFollowsB:
		return Follows
	case bFollowsA:
		return PrecededBy
	default:
		return Unrelated
	}
}

// IsCausal reports the causal relation a >L b: a directly precedes b
// somewhere in the log and b never directly precedes a.
func (fp *FootprintMatrix) IsCausal(a, b string) bool {
	return fp.Relation(a, b) == Follows
}

// IsIndependent reports the independence relation a #L b: no
// direct-succession evidence in either direction. An activity is
// independent of itself unless it self-loops.
func (fp *FootprintMatrix) IsIndependent(a, b string) bool {
	return fp.Relation(a, b) == Unrelated
}

// SetIsIndependent reports whether every pair of activities in the set is
// mutually independent. Used to check candidate place sets.
func (fp *FootprintMatrix) SetIsIndependent(activities []string) bool {
	for i := 0; i < len(activities); i++ {
		for j := i + 1; j < len(activities); j++ {
			if !fp.IsIndependent(activities[i], activities[j]) {
				return false
			}
		}
	}
	return true
}

// SetsCausallyConnected reports whether every activity in setA causally
// precedes every activity in setB.
func (fp *FootprintMatrix) SetsCausallyConnected(setA, setB []string) bool {
	for _, a := range setA {
		for _, b := range setB {
			if !fp.IsCausal(a, b) {
				return false
			}
		}
	}
	return true
}

// CausalSuccessors returns the activities b with a >L b, sorted.
func (fp *FootprintMatrix) CausalSuccessors(a string) []string {
	var out []string
	for _, b := range fp.Universe.All {
		if fp.IsCausal(a, b) {
			out = append(out, b)
		}
	}
	return out
}

// CausalPredecessors returns the activities a with a >L b, sorted.
func (fp *FootprintMatrix) CausalPredecessors(b string) []string {
	var out []string
	for _, a := range fp.Universe.All {
		if fp.IsCausal(a, b) {
			out = append(out, a)
		}
	}
	return out
}

// String returns a plain-text rendering of the matrix.
func (fp *FootprintMatrix) String() string {
	var sb strings.Builder
	sb.WriteString("Footprint Matrix:\n")
	sb.WriteString("     ")
	for _, b := range fp.Universe.All {
		fmt.Fprintf(&sb, "%4s", truncate(b, 4))
	}
	sb.WriteString("\n")

	for _, a := range fp.Universe.All {
		fmt.Fprintf(&sb, "%4s ", truncate(a, 4))
		for _, b := range fp.Universe.All {
			fmt.Fprintf(&sb, "%4s", fp.Relation(a, b).String())
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\nStart activities: %v\n", fp.Universe.Starts)
	fmt.Fprintf(&sb, "End activities: %v\n", fp.Universe.Ends)
	return sb.String()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
