package render

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/petrimine/petrimine/mining"
)

// Report is the serializable summary of a discovery run: the variant
// frequencies, the activity universe, the footprint matrix, the maximal
// places, and the assembled net. A plain data value with no behavior, so
// any consumer can render it without re-running the algorithm.
type Report struct {
	Variants  []VariantReport `json:"variants"`
	Universe  UniverseReport  `json:"universe"`
	Footprint [][]string      `json:"footprint"` // row-major over sorted activities
	Places    []PlaceReport   `json:"places"`
	Net       *NetReport      `json:"net"`
}

// VariantReport is one distinct trace with its frequency.
type VariantReport struct {
	Activities []string `json:"activities"`
	Count      int      `json:"count"`
}

// UniverseReport carries the derived activity sets.
type UniverseReport struct {
	All          []string `json:"all"`
	Starts       []string `json:"starts"`
	Ends         []string `json:"ends"`
	SkippedEmpty int      `json:"skipped_empty,omitempty"`
}

// PlaceReport is one maximal place as a pair of activity sets.
type PlaceReport struct {
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
}

// NetReport flattens the net into the shape downstream tools consume.
type NetReport struct {
	Transitions    []string    `json:"transitions"`
	Places         []string    `json:"places"`
	Arcs           [][2]string `json:"flow_relation"`
	InitialMarking string      `json:"initial_marking"`
	FinalMarking   string      `json:"final_marking"`
}

// NewReport builds a Report from a discovery result.
func NewReport(result *mining.DiscoveryResult) *Report {
	report := &Report{
		Universe: UniverseReport{
			All:          result.Footprint.Universe.All,
			Starts:       result.Footprint.Universe.Starts,
			Ends:         result.Footprint.Universe.Ends,
			SkippedEmpty: result.Footprint.Universe.SkippedEmpty,
		},
	}

	for _, v := range result.Variants {
		report.Variants = append(report.Variants, VariantReport{Activities: v.Activities, Count: v.Count})
	}

	activities := result.Footprint.Universe.All
	for _, a := range activities {
		row := make([]string, len(activities))
		for j, b := range activities {
			row[j] = result.Footprint.Relation(a, b).String()
		}
		report.Footprint = append(report.Footprint, row)
	}

	for _, p := range result.Places {
		report.Places = append(report.Places, PlaceReport{Inputs: p.Inputs, Outputs: p.Outputs})
	}

	net := &NetReport{
		Transitions:    result.Net.TransitionLabels(),
		Places:         result.Net.PlaceLabels(),
		InitialMarking: result.Net.Initial,
		FinalMarking:   result.Net.Final,
	}
	for _, arc := range result.Net.Arcs {
		net.Arcs = append(net.Arcs, [2]string{arc.Source, arc.Target})
	}
	report.Net = net

	return report
}

// SaveJSON writes the report to a file as indented JSON.
func SaveJSON(result *mining.DiscoveryResult, filename string) error {
	data, err := json.MarshalIndent(NewReport(result), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(filename, data, 0644)
}
