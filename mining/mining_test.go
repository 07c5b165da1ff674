package mining

import (
	"errors"
	"testing"

	"github.com/petrimine/petrimine/eventlog"
)

// buildLog creates an event log from bare activity sequences.
func buildLog(traces ...[]string) *eventlog.EventLog {
	log := eventlog.NewEventLog()
	for _, trace := range traces {
		log.AddTrace(trace)
	}
	return log
}

// === Universe Tests ===

func TestUniverse(t *testing.T) {
	log := buildLog(
		[]string{"A", "B", "C"},
		[]string{"A", "C", "B"},
	)
	u := NewUniverse(log)

	assertSlice(t, "All", u.All, []string{"A", "B", "C"})
	assertSlice(t, "Starts", u.Starts, []string{"A"})
	assertSlice(t, "Ends", u.Ends, []string{"B", "C"})
}

func TestUniverseSkipsEmptyTraces(t *testing.T) {
	log := buildLog(
		[]string{},
		[]string{"A"},
		[]string{},
	)
	u := NewUniverse(log)

	if u.SkippedEmpty != 2 {
		t.Errorf("Expected 2 skipped traces, got %d", u.SkippedEmpty)
	}
	assertSlice(t, "All", u.All, []string{"A"})
	assertSlice(t, "Starts", u.Starts, []string{"A"})
	assertSlice(t, "Ends", u.Ends, []string{"A"})
}

func TestUniverseEmptyLog(t *testing.T) {
	u := NewUniverse(eventlog.NewEventLog())
	if len(u.All) != 0 || len(u.Starts) != 0 || len(u.Ends) != 0 {
		t.Errorf("Expected empty universe, got %v / %v / %v", u.All, u.Starts, u.Ends)
	}
}

// === Footprint Matrix Tests ===

func TestFootprintRelations(t *testing.T) {
	log := buildLog(
		[]string{"A", "B", "C"},
		[]string{"A", "C", "B"},
	)
	fp := NewFootprintMatrix(log)

	cases := []struct {
		a, b string
		want Relation
	}{
		{"A", "B", Follows},
		{"B", "A", PrecededBy},
		{"A", "C", Follows},
		{"C", "A", PrecededBy},
		{"B", "C", Parallel}, // B→C in trace 1, C→B in trace 2
		{"C", "B", Parallel},
		{"A", "A", Unrelated},
	}
	for _, tc := range cases {
		if got := fp.Relation(tc.a, tc.b); got != tc.want {
			t.Errorf("Relation(%s,%s) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestFootprintExclusiveChoice(t *testing.T) {
	// B and C are alternatives: neither ever directly succeeds the other.
	log := buildLog(
		[]string{"A", "B", "D"},
		[]string{"A", "C", "D"},
	)
	fp := NewFootprintMatrix(log)

	if !fp.IsCausal("A", "B") || !fp.IsCausal("A", "C") {
		t.Error("A should causally precede B and C")
	}
	if !fp.IsIndependent("B", "C") {
		t.Error("B and C should be independent")
	}
	if !fp.IsCausal("B", "D") || !fp.IsCausal("C", "D") {
		t.Error("B and C should causally precede D")
	}
}

func TestFootprintPartition(t *testing.T) {
	// Every ordered pair has exactly one classification and the
	// classifications of (a,b) and (b,a) are inverses.
	log := buildLog(
		[]string{"A", "B", "C", "D"},
		[]string{"A", "C", "B", "D"},
		[]string{"A", "E"},
	)
	fp := NewFootprintMatrix(log)

	for _, a := range fp.Universe.All {
		for _, b := range fp.Universe.All {
			r := fp.Relation(a, b)
			if r != Follows && r != PrecededBy && r != Parallel && r != Unrelated {
				t.Errorf("Relation(%s,%s) = %v outside the four classes", a, b, r)
			}
			if got := fp.Relation(b, a); got != r.Inverse() {
				t.Errorf("Relation(%s,%s)=%v inconsistent with Relation(%s,%s)=%v", a, b, r, b, a, got)
			}
		}
	}
}

func TestFootprintAdjacentPairsNeverUnrelated(t *testing.T) {
	traces := [][]string{
		{"A", "B", "C", "D"},
		{"A", "C", "B", "D"},
		{"A", "B", "B", "D"},
	}
	log := buildLog(traces...)
	fp := NewFootprintMatrix(log)

	for _, trace := range traces {
		for i := 0; i < len(trace)-1; i++ {
			r := fp.Relation(trace[i], trace[i+1])
			if r != Follows && r != Parallel {
				t.Errorf("Adjacent pair (%s,%s) classified %v", trace[i], trace[i+1], r)
			}
		}
	}
}

func TestFootprintSelfLoop(t *testing.T) {
	log := buildLog([]string{"A", "B", "B", "C"})
	fp := NewFootprintMatrix(log)

	// Direct self-succession classifies as Parallel by the general rule.
	if got := fp.Relation("B", "B"); got != Parallel {
		t.Errorf("Relation(B,B) = %v, want Parallel", got)
	}
	if fp.IsIndependent("B", "B") {
		t.Error("Self-looping B should not be independent of itself")
	}
	if got := fp.Relation("A", "A"); got != Unrelated {
		t.Errorf("Relation(A,A) = %v, want Unrelated", got)
	}
}

func TestFootprintCounts(t *testing.T) {
	// Duplicate traces weight the evidence counts by frequency.
	log := buildLog(
		[]string{"A", "B"},
		[]string{"A", "B"},
		[]string{"A", "B"},
	)
	fp := NewFootprintMatrix(log)

	if got := fp.DirectlyFollowsCount("A", "B"); got != 3 {
		t.Errorf("DirectlyFollowsCount(A,B) = %d, want 3", got)
	}
	if fp.DirectlyFollows("B", "A") {
		t.Error("B should not directly follow A")
	}
}

func TestFootprintSuccessorsPredecessors(t *testing.T) {
	log := buildLog(
		[]string{"A", "B", "D"},
		[]string{"A", "C", "D"},
	)
	fp := NewFootprintMatrix(log)

	assertSlice(t, "CausalSuccessors(A)", fp.CausalSuccessors("A"), []string{"B", "C"})
	assertSlice(t, "CausalPredecessors(D)", fp.CausalPredecessors("D"), []string{"B", "C"})
}

// === Place Generator Tests ===

func TestGeneratePlacesExclusiveChoice(t *testing.T) {
	log := buildLog(
		[]string{"A", "B", "D"},
		[]string{"A", "C", "D"},
	)
	fp := NewFootprintMatrix(log)

	places, err := GeneratePlaces(fp, PlaceOptions{})
	if err != nil {
		t.Fatalf("GeneratePlaces failed: %v", err)
	}

	// XOR split and join: ({A},{B,C}) and ({B,C},{D}).
	wantKeys := map[string]bool{
		"A|B,C": true,
		"B,C|D": true,
	}
	if len(places) != len(wantKeys) {
		t.Fatalf("Expected %d places, got %d: %v", len(wantKeys), len(places), places)
	}
	for _, p := range places {
		if !wantKeys[p.Key()] {
			t.Errorf("Unexpected place %s", p)
		}
	}
}

func TestGeneratePlacesSequential(t *testing.T) {
	log := buildLog([]string{"A", "B", "C"})
	fp := NewFootprintMatrix(log)

	places, err := GeneratePlaces(fp, PlaceOptions{})
	if err != nil {
		t.Fatalf("GeneratePlaces failed: %v", err)
	}

	wantKeys := map[string]bool{"A|B": true, "B|C": true}
	if len(places) != 2 {
		t.Fatalf("Expected 2 places, got %d: %v", len(places), places)
	}
	for _, p := range places {
		if !wantKeys[p.Key()] {
			t.Errorf("Unexpected place %s", p)
		}
	}
}

func TestGeneratePlacesMaximality(t *testing.T) {
	log := buildLog(
		[]string{"A", "B", "D"},
		[]string{"A", "C", "D"},
	)
	fp := NewFootprintMatrix(log)

	places, err := GeneratePlaces(fp, PlaceOptions{})
	if err != nil {
		t.Fatalf("GeneratePlaces failed: %v", err)
	}

	for i, p := range places {
		for j, other := range places {
			if i != j && p.DominatedBy(other) {
				t.Errorf("Place %s dominated by surviving place %s", p, other)
			}
		}
	}
}

func TestGeneratePlacesTrueParallelismExcluded(t *testing.T) {
	// B and C interleave, so they are parallel, not independent: no
	// place may contain both on one side.
	log := buildLog(
		[]string{"A", "B", "C", "D"},
		[]string{"A", "C", "B", "D"},
	)
	fp := NewFootprintMatrix(log)

	places, err := GeneratePlaces(fp, PlaceOptions{})
	if err != nil {
		t.Fatalf("GeneratePlaces failed: %v", err)
	}

	for _, p := range places {
		for _, side := range [][]string{p.Inputs, p.Outputs} {
			hasB, hasC := false, false
			for _, act := range side {
				hasB = hasB || act == "B"
				hasC = hasC || act == "C"
			}
			if hasB && hasC {
				t.Errorf("Place %s groups parallel activities B and C", p)
			}
		}
	}
}

func TestGeneratePlacesBudget(t *testing.T) {
	log := buildLog(
		[]string{"A", "B", "D"},
		[]string{"A", "C", "D"},
	)
	fp := NewFootprintMatrix(log)

	_, err := GeneratePlaces(fp, PlaceOptions{MaxCandidates: 1})
	if !errors.Is(err, ErrEnumerationBudget) {
		t.Errorf("Expected ErrEnumerationBudget, got %v", err)
	}

	// A generous budget succeeds.
	if _, err := GeneratePlaces(fp, PlaceOptions{MaxCandidates: 1000}); err != nil {
		t.Errorf("Unexpected error with generous budget: %v", err)
	}
}

func TestGeneratePlacesEmptyLog(t *testing.T) {
	fp := NewFootprintMatrix(eventlog.NewEventLog())
	places, err := GeneratePlaces(fp, PlaceOptions{})
	if err != nil {
		t.Fatalf("GeneratePlaces failed: %v", err)
	}
	if len(places) != 0 {
		t.Errorf("Expected no places for empty log, got %v", places)
	}
}

func TestPlaceDominatedBy(t *testing.T) {
	small := newPlace([]string{"A"}, []string{"B"})
	big := newPlace([]string{"A"}, []string{"B", "C"})

	if !small.DominatedBy(big) {
		t.Error("({A},{B}) should be dominated by ({A},{B,C})")
	}
	if big.DominatedBy(small) {
		t.Error("({A},{B,C}) should not be dominated by ({A},{B})")
	}
	if small.DominatedBy(small) {
		t.Error("A place must not dominate itself")
	}
}

// === Alpha Miner Tests ===

func TestAlphaMinerSequential(t *testing.T) {
	log := buildLog(
		[]string{"A", "B", "C"},
		[]string{"A", "B", "C"},
	)
	net, places, err := NewAlphaMiner(log).Mine()
	if err != nil {
		t.Fatalf("Mine failed: %v", err)
	}

	if len(net.Transitions) != 3 {
		t.Errorf("Expected 3 transitions, got %d", len(net.Transitions))
	}
	// Two internal places plus start and end.
	if len(net.Places) != 4 {
		t.Errorf("Expected 4 places, got %d", len(net.Places))
	}
	if len(places) != 2 {
		t.Errorf("Expected 2 maximal places, got %d", len(places))
	}

	start, ok := net.Places[net.Initial]
	if !ok {
		t.Fatal("Initial marking names no place")
	}
	if start.Initial != 1 {
		t.Errorf("Start place holds %d tokens, want 1", start.Initial)
	}
	if err := net.Validate(); err != nil {
		t.Errorf("Mined net failed validation: %v", err)
	}
}

func TestAlphaMinerExclusiveChoice(t *testing.T) {
	log := buildLog(
		[]string{"A", "B", "D"},
		[]string{"A", "C", "D"},
	)
	net, places, err := NewAlphaMiner(log).Mine()
	if err != nil {
		t.Fatalf("Mine failed: %v", err)
	}

	if len(net.Transitions) != 4 {
		t.Errorf("Expected 4 transitions, got %d", len(net.Transitions))
	}

	found := false
	for _, p := range places {
		if p.Key() == "A|B,C" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected place ({A},{B,C}), got %v", places)
	}
}

func TestAlphaMinerStartEndArcs(t *testing.T) {
	log := buildLog(
		[]string{"A", "B", "C"},
		[]string{"A", "C", "B"},
	)
	net, _, err := NewAlphaMiner(log).Mine()
	if err != nil {
		t.Fatalf("Mine failed: %v", err)
	}

	if in := net.InputArcs(net.Initial); len(in) != 0 {
		t.Errorf("Start place has %d incoming arcs", len(in))
	}
	if out := net.OutputArcs(net.Initial); len(out) != 1 || out[0].Target != "A" {
		t.Errorf("Start place should have one arc to A, got %v", out)
	}

	// End place receives one arc from each ending activity, B and C.
	in := net.InputArcs(net.Final)
	if len(in) != 2 {
		t.Errorf("End place should have 2 incoming arcs, got %d", len(in))
	}
	if out := net.OutputArcs(net.Final); len(out) != 0 {
		t.Errorf("End place has %d outgoing arcs", len(out))
	}
}

func TestAlphaMinerDuplicateTracesEquivalent(t *testing.T) {
	once := buildLog([]string{"A", "B"})
	twice := buildLog([]string{"A", "B"}, []string{"A", "B"})

	netOnce, _, err := NewAlphaMiner(once).Mine()
	if err != nil {
		t.Fatalf("Mine failed: %v", err)
	}
	netTwice, _, err := NewAlphaMiner(twice).Mine()
	if err != nil {
		t.Fatalf("Mine failed: %v", err)
	}

	if len(netOnce.Places) != len(netTwice.Places) ||
		len(netOnce.Transitions) != len(netTwice.Transitions) ||
		len(netOnce.Arcs) != len(netTwice.Arcs) {
		t.Error("Duplicate traces changed the discovered structure")
	}
}

func TestAlphaMinerDeterministic(t *testing.T) {
	log := buildLog(
		[]string{"A", "B", "C", "E"},
		[]string{"A", "C", "B", "E"},
		[]string{"A", "D", "E"},
	)

	first, _, err := NewAlphaMiner(log).Mine()
	if err != nil {
		t.Fatalf("Mine failed: %v", err)
	}
	second, _, err := NewAlphaMiner(log).Mine()
	if err != nil {
		t.Fatalf("Mine failed: %v", err)
	}

	assertSlice(t, "places", first.PlaceLabels(), second.PlaceLabels())
	assertSlice(t, "transitions", first.TransitionLabels(), second.TransitionLabels())
	if len(first.Arcs) != len(second.Arcs) {
		t.Errorf("Arc counts differ: %d vs %d", len(first.Arcs), len(second.Arcs))
	}
}

func TestAlphaMinerEmptyLog(t *testing.T) {
	net, places, err := NewAlphaMiner(eventlog.NewEventLog()).Mine()
	if err != nil {
		t.Fatalf("Mine failed: %v", err)
	}

	if len(net.Transitions) != 0 {
		t.Errorf("Expected no transitions, got %d", len(net.Transitions))
	}
	if len(places) != 0 {
		t.Errorf("Expected no mined places, got %d", len(places))
	}
	// Only the synthetic start and end places remain, with no arcs.
	if len(net.Places) != 2 {
		t.Errorf("Expected 2 synthetic places, got %d", len(net.Places))
	}
	if len(net.Arcs) != 0 {
		t.Errorf("Expected no arcs, got %d", len(net.Arcs))
	}
}

func TestAlphaMinerIsolatedTransition(t *testing.T) {
	// E never neighbors anything causally but must still appear.
	log := buildLog(
		[]string{"A", "B"},
		[]string{"E"},
	)
	net, _, err := NewAlphaMiner(log).Mine()
	if err != nil {
		t.Fatalf("Mine failed: %v", err)
	}

	if _, ok := net.Transitions["E"]; !ok {
		t.Error("Isolated activity E missing from the net")
	}
}

func TestAlphaMinerReservedNameCollision(t *testing.T) {
	log := buildLog([]string{"start", "end"})
	net, _, err := NewAlphaMiner(log).Mine()
	if err != nil {
		t.Fatalf("Mine failed: %v", err)
	}

	if _, ok := net.Transitions["start"]; !ok {
		t.Error("Activity named start lost its transition")
	}
	if net.Initial == "start" || net.Final == "end" {
		t.Error("Synthetic places collided with activity names")
	}
	if err := net.Validate(); err != nil {
		t.Errorf("Net failed validation: %v", err)
	}
}

func TestDiscover(t *testing.T) {
	log := buildLog(
		[]string{"A", "B"},
		[]string{"A", "B"},
		[]string{"A", "C"},
	)
	result, err := Discover(log)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	if result.NumVariants != 2 {
		t.Errorf("Expected 2 variants, got %d", result.NumVariants)
	}
	if result.MostCommonCount != 2 {
		t.Errorf("Expected most common count 2, got %d", result.MostCommonCount)
	}
	if result.CoveragePercent < 66 || result.CoveragePercent > 67 {
		t.Errorf("Expected coverage ~66.7%%, got %.1f", result.CoveragePercent)
	}
	if result.Net == nil || result.Footprint == nil {
		t.Error("Result missing net or footprint")
	}
}

func TestDiscoverBudgetExceeded(t *testing.T) {
	log := buildLog(
		[]string{"A", "B", "D"},
		[]string{"A", "C", "D"},
	)
	_, err := DiscoverWithOptions(log, PlaceOptions{MaxCandidates: 1})
	if !errors.Is(err, ErrEnumerationBudget) {
		t.Errorf("Expected ErrEnumerationBudget, got %v", err)
	}
}

// === Helpers ===

func assertSlice(t *testing.T, name string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s = %v, want %v", name, got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", name, got, want)
			return
		}
	}
}

// === Benchmarks ===

func benchmarkLog() *eventlog.EventLog {
	return buildLog(
		[]string{"A", "B", "C", "E"},
		[]string{"A", "C", "B", "E"},
		[]string{"A", "D", "E"},
		[]string{"A", "B", "C", "E"},
	)
}

func BenchmarkFootprintMatrix(b *testing.B) {
	log := benchmarkLog()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NewFootprintMatrix(log)
	}
}

func BenchmarkAlphaMiner(b *testing.B) {
	log := benchmarkLog()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := NewAlphaMiner(log).Mine(); err != nil {
			b.Fatal(err)
		}
	}
}
