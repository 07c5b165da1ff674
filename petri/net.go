// Package petri implements the Petri net data structures produced by
// process discovery. A net consists of Places (token-holding states),
// Transitions (activities), and directed Arcs connecting the two.
// Discovered nets are report artifacts: immutable once assembled,
// consumed by renderers and exporters rather than executed.
package petri

import (
	"fmt"
	"sort"
)

// Place represents a state in the net that can hold a token.
type Place struct {
	Label     string  `json:"label"`
	Initial   int     `json:"initial"`              // tokens in the initial marking
	X         float64 `json:"x"`                    // layout hint for renderers
	Y         float64 `json:"y"`                    // layout hint for renderers
	LabelText *string `json:"label_text,omitempty"` // optional display label
}

// Transition represents an activity in the net. Every event label in the
// source log becomes exactly one transition.
type Transition struct {
	Label     string  `json:"label"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	LabelText *string `json:"label_text,omitempty"`
}

// Arc is a directed connection between a place and a transition.
// Exactly one endpoint is a place and the other a transition.
type Arc struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Net is a complete workflow Petri net.
type Net struct {
	Places      map[string]*Place      `json:"places"`
	Transitions map[string]*Transition `json:"transitions"`
	Arcs        []*Arc                 `json:"arcs"`

	// Initial and Final name the synthetic source and sink places that
	// carry the initial marking and receive the final marking.
	Initial string `json:"initial_marking"`
	Final   string `json:"final_marking"`
}

// NewNet creates an empty net.
func NewNet() *Net {
	return &Net{
		Places:      make(map[string]*Place),
		Transitions: make(map[string]*Transition),
		Arcs:        make([]*Arc, 0),
	}
}

// AddPlace adds a place to the net and returns it.
func (n *Net) AddPlace(label string, initial int, x, y float64, labelText *string) *Place {
	p := &Place{Label: label, Initial: initial, X: x, Y: y, LabelText: labelText}
	n.Places[label] = p
	return p
}

// AddTransition adds a transition to the net and returns it.
func (n *Net) AddTransition(label string, x, y float64, labelText *string) *Transition {
	t := &Transition{Label: label, X: x, Y: y, LabelText: labelText}
	n.Transitions[label] = t
	return t
}

// AddArc adds a directed arc between the named nodes.
func (n *Net) AddArc(source, target string) *Arc {
	a := &Arc{Source: source, Target: target}
	n.Arcs = append(n.Arcs, a)
	return a
}

// InputArcs returns all arcs leading into the given node.
func (n *Net) InputArcs(label string) []*Arc {
	var result []*Arc
	for _, arc := range n.Arcs {
		if arc.Target == label {
			result = append(result, arc)
		}
	}
	return result
}

// OutputArcs returns all arcs leading out of the given node.
func (n *Net) OutputArcs(label string) []*Arc {
	var result []*Arc
	for _, arc := range n.Arcs {
		if arc.Source == label {
			result = append(result, arc)
		}
	}
	return result
}

// PlaceLabels returns the place labels in sorted order.
func (n *Net) PlaceLabels() []string {
	labels := make([]string, 0, len(n.Places))
	for label := range n.Places {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// TransitionLabels returns the transition labels in sorted order.
func (n *Net) TransitionLabels() []string {
	labels := make([]string, 0, len(n.Transitions))
	for label := range n.Transitions {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Validate checks the structural invariants of a discovered net.
// A failure here indicates a bug in the assembler, not bad input:
//   - every arc endpoint names an existing place or transition
//   - every arc connects a place to a transition or vice versa
//   - the initial place exists, holds one token, and has no incoming arcs
//   - the final place exists, holds no tokens, and has no outgoing arcs
func (n *Net) Validate() error {
	for _, arc := range n.Arcs {
		_, srcPlace := n.Places[arc.Source]
		_, srcTrans := n.Transitions[arc.Source]
		_, dstPlace := n.Places[arc.Target]
		_, dstTrans := n.Transitions[arc.Target]

		if !srcPlace && !srcTrans {
			return fmt.Errorf("arc source %q is not a node in the net", arc.Source)
		}
		if !dstPlace && !dstTrans {
			return fmt.Errorf("arc target %q is not a node in the net", arc.Target)
		}
		if srcPlace == dstPlace {
			return fmt.Errorf("arc %s -> %s does not connect a place and a transition", arc.Source, arc.Target)
		}
	}

	if n.Initial != "" {
		start, ok := n.Places[n.Initial]
		if !ok {
			return fmt.Errorf("initial marking names unknown place %q", n.Initial)
		}
		if start.Initial != 1 {
			return fmt.Errorf("initial place %q holds %d tokens, want 1", n.Initial, start.Initial)
		}
		if in := n.InputArcs(n.Initial); len(in) > 0 {
			return fmt.Errorf("initial place %q has %d incoming arcs", n.Initial, len(in))
		}
	}

	if n.Final != "" {
		end, ok := n.Places[n.Final]
		if !ok {
			return fmt.Errorf("final marking names unknown place %q", n.Final)
		}
		if end.Initial != 0 {
			return fmt.Errorf("final place %q holds %d tokens, want 0", n.Final, end.Initial)
		}
		if out := n.OutputArcs(n.Final); len(out) > 0 {
			return fmt.Errorf("final place %q has %d outgoing arcs", n.Final, len(out))
		}
	}

	return nil
}
