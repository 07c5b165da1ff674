package mining

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrEnumerationBudget is returned when candidate-place enumeration
// exceeds the configured budget. The result is never silently truncated;
// callers either get the complete maximal place set or this error.
var ErrEnumerationBudget = errors.New("place enumeration exceeded candidate budget")

// Place is a candidate or surviving place of the discovered net: a pair
// of activity sets where every input causally precedes every output, and
// each side is internally independent.
type Place struct {
	Inputs  []string // activities producing tokens into the place, sorted
	Outputs []string // activities consuming tokens from the place, sorted
}

// newPlace copies and sorts both sides so a Place's identity is
// independent of generation order.
func newPlace(inputs, outputs []string) Place {
	in := make([]string, len(inputs))
	copy(in, inputs)
	sort.Strings(in)

	out := make([]string, len(outputs))
	copy(out, outputs)
	sort.Strings(out)

	return Place{Inputs: in, Outputs: out}
}

// Key returns the structural identity of the place.
func (p Place) Key() string {
	return strings.Join(p.Inputs, ",") + "|" + strings.Join(p.Outputs, ",")
}

// ID returns a label suitable for naming the place inside a net.
func (p Place) ID() string {
	return fmt.Sprintf("p_%s_%s", strings.Join(p.Inputs, "_"), strings.Join(p.Outputs, "_"))
}

// String returns a set-pair rendering of the place.
func (p Place) String() string {
	return fmt.Sprintf("({%s}, {%s})", strings.Join(p.Inputs, ","), strings.Join(p.Outputs, ","))
}

// DominatedBy reports whether p is dominated by other: both sides are
// subsets of the other's and the two places are not structurally equal.
func (p Place) DominatedBy(other Place) bool {
	if p.Key() == other.Key() {
		return false
	}
	return isSubset(p.Inputs, other.Inputs) && isSubset(p.Outputs, other.Outputs)
}

// isSubset reports a ⊆ b for sorted slices.
func isSubset(a, b []string) bool {
	i := 0
	for _, x := range a {
		for i < len(b) && b[i] < x {
			i++
		}
		if i >= len(b) || b[i] != x {
			return false
		}
		i++
	}
	return true
}

// PlaceOptions bounds candidate enumeration.
//
// The classical algorithm's subset enumeration is exponential in the
// number of causally connected activities. That bound is inherent, not an
// implementation defect; MaxCandidates lets an enclosing tool impose a
// budget and receive a distinct error instead of a partial result.
type PlaceOptions struct {
	// MaxCandidates caps how many candidate (A, B) pairs may be
	// examined. Zero means unlimited.
	MaxCandidates int
}

// GeneratePlaces produces the maximal set of valid places from the
// footprint matrix: candidate pairs (A, B) of non-empty activity sets
// where A and B are each internally independent and every member of A
// causally precedes every member of B, filtered to those dominated by no
// other candidate.
//
// Enumeration is restricted to activities participating in at least one
// causal edge; that prune is exact. The result is sorted by structural
// key and therefore deterministic.
func GeneratePlaces(fp *FootprintMatrix, opts PlaceOptions) ([]Place, error) {
	gen := &placeGen{fp: fp, budget: opts.MaxCandidates}

	candidates, err := gen.enumerate()
	if err != nil {
		return nil, err
	}
	return filterMaximal(candidates), nil
}

type placeGen struct {
	fp       *FootprintMatrix
	budget   int
	examined int
}

// enumerate walks every valid candidate pair.
//
// Input sets grow only over activities with at least one causal
// successor, and only while remaining internally independent. For each
// input set A the output side is confined to the intersection of the
// causal successors of all members of A, so cross-causality holds by
// construction and only internal independence of B needs checking.
func (g *placeGen) enumerate() ([]Place, error) {
	var sources []string
	for _, a := range g.fp.Universe.All {
		if len(g.fp.CausalSuccessors(a)) > 0 {
			sources = append(sources, a)
		}
	}

	var candidates []Place
	var walkInputs func(start int, inputs []string, targets []string) error
	walkInputs = func(start int, inputs, targets []string) error {
		if len(inputs) > 0 {
			outs, err := g.independentSubsets(targets)
			if err != nil {
				return err
			}
			for _, outputs := range outs {
				candidates = append(candidates, newPlace(inputs, outputs))
			}
		}
		for i := start; i < len(sources); i++ {
			next := sources[i]
			if !g.pairwiseIndependent(inputs, next) {
				continue
			}
			nextTargets := g.fp.CausalSuccessors(next)
			if len(inputs) > 0 {
				nextTargets = intersect(targets, nextTargets)
			}
			if len(nextTargets) == 0 {
				continue
			}
			if err := walkInputs(i+1, append(inputs, next), nextTargets); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walkInputs(0, nil, nil); err != nil {
		return nil, err
	}
	return candidates, nil
}

// independentSubsets returns every non-empty internally independent
// subset of the sorted candidate outputs, charging each against the
// enumeration budget.
func (g *placeGen) independentSubsets(candidates []string) ([][]string, error) {
	var result [][]string
	var walk func(start int, current []string) error
	walk = func(start int, current []string) error {
		if len(current) > 0 {
			g.examined++
			if g.budget > 0 && g.examined > g.budget {
				return fmt.Errorf("%w (limit %d)", ErrEnumerationBudget, g.budget)
			}
			subset := make([]string, len(current))
			copy(subset, current)
			result = append(result, subset)
		}
		for i := start; i < len(candidates); i++ {
			if !g.pairwiseIndependent(current, candidates[i]) {
				continue
			}
			if err := walk(i+1, append(current, candidates[i])); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(0, nil); err != nil {
		return nil, err
	}
	return result, nil
}

// pairwiseIndependent reports whether next is independent of every
// activity already in the set.
func (g *placeGen) pairwiseIndependent(set []string, next string) bool {
	for _, a := range set {
		if !g.fp.IsIndependent(a, next) {
			return false
		}
	}
	return true
}

// intersect returns the intersection of two sorted slices.
func intersect(a, b []string) []string {
	var out []string
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// filterMaximal keeps the candidates dominated by no other candidate,
// deduplicated by structural equality and sorted by key.
func filterMaximal(candidates []Place) []Place {
	unique := make(map[string]Place, len(candidates))
	for _, c := range candidates {
		unique[c.Key()] = c
	}

	var maximal []Place
	for key, c := range unique {
		dominated := false
		for otherKey, other := range unique {
			if key == otherKey {
				continue
			}
			if c.DominatedBy(other) {
				dominated = true
				break
			}
		}
		if !dominated {
			maximal = append(maximal, c)
		}
	}

	sort.Slice(maximal, func(i, j int) bool {
		return maximal[i].Key() < maximal[j].Key()
	})
	return maximal
}
