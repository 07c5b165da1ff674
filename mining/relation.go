// Package mining implements classical Alpha algorithm process discovery:
// extraction of ordering relations from an event log and construction of
// a workflow Petri net consistent with the observed behavior.
package mining

// Relation classifies the ordering between an ordered pair of activities,
// derived purely from direct-succession evidence in the log. The four
// values partition every pair: exactly one holds for (a, b), and the
// classifications of (a, b) and (b, a) are consistent inverses.
type Relation int

const (
	// Unrelated means neither activity ever directly follows the other.
	Unrelated Relation = iota
	// Follows means a is directly followed by b somewhere, never the reverse.
	Follows
	// PrecededBy means b is directly followed by a somewhere, never the reverse.
	PrecededBy
	// Parallel means both orderings are observed.
	Parallel
)

// String returns the conventional footprint symbol for the relation.
func (r Relation) String() string {
	switch r {
	case Follows:
		return "→"
	case PrecededBy:
		return "←"
	case Parallel:
		return "‖"
	case Unrelated:
		return "#"
	default:
		return "?"
	}
}

// Inverse returns the classification of the reversed pair.
func (r Relation) Inverse() Relation {
	switch r {
	case Follows:
		return PrecededBy
	case PrecededBy:
		return Follows
	default:
		return r
	}
}
