package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/petrimine/petrimine/petri"
)

// DOT generates a Graphviz DOT representation of a discovered net.
// Transitions render as rectangles, places as circles; the start and end
// places carry a doubled periphery so the markings read at a glance.
func DOT(net *petri.Net) string {
	var sb strings.Builder

	sb.WriteString("digraph PetriNet {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [fontname=\"Arial\" fontsize=12];\n")
	sb.WriteString("  edge [fontsize=10];\n")
	sb.WriteString("\n")

	for _, label := range net.TransitionLabels() {
		sb.WriteString(fmt.Sprintf("  %s [shape=rectangle style=filled fillcolor=lightgreen label=%s];\n",
			dotID("t", label), dotQuote(label)))
	}
	sb.WriteString("\n")

	for _, label := range net.PlaceLabels() {
		attrs := "shape=circle style=filled fillcolor=lightblue label=\"\""
		switch label {
		case net.Initial:
			attrs = "shape=circle style=filled fillcolor=lightgray peripheries=2 label=\"\""
		case net.Final:
			attrs = "shape=circle style=filled fillcolor=lightpink peripheries=2 label=\"\""
		}
		sb.WriteString(fmt.Sprintf("  %s [%s];\n", dotID("p", label), attrs))
	}
	sb.WriteString("\n")

	for _, arc := range net.Arcs {
		sb.WriteString(fmt.Sprintf("  %s -> %s;\n", dotNode(net, arc.Source), dotNode(net, arc.Target)))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// SaveDOT writes the DOT representation to a file.
func SaveDOT(net *petri.Net, filename string) error {
	return os.WriteFile(filename, []byte(DOT(net)), 0644)
}

// dotNode resolves an arc endpoint to its prefixed DOT identifier.
// Places and transitions live in separate namespaces in the net but
// share one in DOT.
func dotNode(net *petri.Net, label string) string {
	if _, ok := net.Places[label]; ok {
		return dotID("p", label)
	}
	return dotID("t", label)
}

func dotID(prefix, label string) string {
	return dotQuote(prefix + "_" + label)
}

func dotQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
