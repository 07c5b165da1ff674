package mining

import (
	"fmt"

	"github.com/petrimine/petrimine/eventlog"
	"github.com/petrimine/petrimine/petri"
)

// AlphaMiner implements the classical Alpha algorithm for process
// discovery. It derives a workflow Petri net from the ordering relations
// observed in an event log:
//
//  1. Build the footprint matrix of activity relations.
//  2. Enumerate candidate places (A, B) where A causally precedes B and
//     each side is internally independent, keeping only maximal ones.
//  3. Assemble the net: one transition per activity, one place per
//     surviving candidate, plus synthetic start and end places.
//
// Limitations inherent to the classical formulation: length-1 and
// length-2 loops are not modeled faithfully, the algorithm is sensitive
// to noise, and candidate enumeration is exponential in the number of
// causally connected activities.
type AlphaMiner struct {
	log       *eventlog.EventLog
	footprint *FootprintMatrix
	opts      PlaceOptions
}

// NewAlphaMiner creates a miner for the given log with default options.
func NewAlphaMiner(log *eventlog.EventLog) *AlphaMiner {
	return NewAlphaMinerWithOptions(log, PlaceOptions{})
}

// NewAlphaMinerWithOptions creates a miner with an enumeration budget.
func NewAlphaMinerWithOptions(log *eventlog.EventLog, opts PlaceOptions) *AlphaMiner {
	return &AlphaMiner{
		log:       log,
		footprint: NewFootprintMatrix(log),
		opts:      opts,
	}
}

// Footprint returns the footprint matrix used by the miner.
func (m *AlphaMiner) Footprint() *FootprintMatrix {
	return m.footprint
}

// Mine discovers a Petri net from the event log.
//
// Every activity becomes a transition even when it participates in no
// discovered place; such isolated transitions reflect footprints with no
// causal neighbors and are valid output. An empty log yields a net with
// only the two synthetic places. The returned net always satisfies
// petri.Net.Validate; a violation is an assembler bug and surfaces as an
// error rather than a silently broken model.
func (m *AlphaMiner) Mine() (*petri.Net, []Place, error) {
	fp := m.footprint
	net := petri.NewNet()

	// Transitions for all activities.
	activities := fp.Universe.All
	for i, activity := range activities {
		x := float64(150 + i*120)
		label := activity
		net.AddTransition(activity, x, 200, &label)
	}

	// Maximal places and their arcs.
	places, err := GeneratePlaces(fp, m.opts)
	if err != nil {
		return nil, nil, err
	}
	for i, pl := range places {
		placeName := uniqueLabel(net, pl.ID())
		x := float64(100 + i*100)
		net.AddPlace(placeName, 0, x, 100, nil)

		for _, input := range pl.Inputs {
			net.AddArc(input, placeName)
		}
		for _, output := range pl.Outputs {
			net.AddArc(placeName, output)
		}
	}

	// Synthetic start place: sole token of the initial marking, one arc
	// to every starting transition.
	startLabel := "start"
	startName := uniqueLabel(net, "start")
	net.AddPlace(startName, 1, 50, 200, &startLabel)
	net.Initial = startName
	for _, act := range fp.Universe.Starts {
		net.AddArc(startName, act)
	}

	// Synthetic end place: target of the final marking, one arc from
	// every ending transition.
	endLabel := "end"
	endName := uniqueLabel(net, "end")
	net.AddPlace(endName, 0, float64(150+len(activities)*120), 200, &endLabel)
	net.Final = endName
	for _, act := range fp.Universe.Ends {
		net.AddArc(act, endName)
	}

	if err := net.Validate(); err != nil {
		return nil, nil, fmt.Errorf("alpha miner assembled an invalid net: %w", err)
	}
	return net, places, nil
}

// uniqueLabel avoids colliding with an activity that happens to share a
// reserved place name.
func uniqueLabel(net *petri.Net, label string) string {
	name := label
	for {
		_, isPlace := net.Places[name]
		_, isTransition := net.Transitions[name]
		if !isPlace && !isTransition {
			return name
		}
		name = "_" + name
	}
}

// DiscoveryResult bundles the discovered net with the intermediate
// artifacts a presentation layer needs, so nothing has to re-run the
// algorithm to render tables or diagrams.
type DiscoveryResult struct {
	Net       *petri.Net
	Footprint *FootprintMatrix
	Places    []Place
	Variants  []eventlog.Variant

	NumVariants     int
	MostCommonCount int
	CoveragePercent float64 // % of cases following the most common variant
}

// Discover runs Alpha discovery end to end on an event log.
func Discover(log *eventlog.EventLog) (*DiscoveryResult, error) {
	return DiscoverWithOptions(log, PlaceOptions{})
}

// DiscoverWithOptions runs Alpha discovery with an enumeration budget.
// When the budget is exceeded the error wraps ErrEnumerationBudget.
func DiscoverWithOptions(log *eventlog.EventLog, opts PlaceOptions) (*DiscoveryResult, error) {
	miner := NewAlphaMinerWithOptions(log, opts)
	net, places, err := miner.Mine()
	if err != nil {
		return nil, err
	}

	variants := log.Variants()
	maxCount := 0
	for _, v := range variants {
		if v.Count > maxCount {
			maxCount = v.Count
		}
	}

	coverage := 0.0
	if log.NumCases() > 0 {
		coverage = float64(maxCount) / float64(log.NumCases()) * 100
	}

	return &DiscoveryResult{
		Net:             net,
		Footprint:       miner.Footprint(),
		Places:          places,
		Variants:        variants,
		NumVariants:     len(variants),
		MostCommonCount: maxCount,
		CoveragePercent: coverage,
	}, nil
}
