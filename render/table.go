// Package render provides the presentation collaborators for discovery
// results: terminal tables for traces and footprint matrices, Graphviz
// DOT output for discovered nets, and a JSON report export. Renderers
// only read the result values; none of them re-run the algorithm.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/petrimine/petrimine/eventlog"
	"github.com/petrimine/petrimine/mining"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00CC66"))
)

// VariantTable renders the distinct traces and their frequencies.
func VariantTable(variants []eventlog.Variant) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Distinct traces"))
	sb.WriteString("\n")

	if len(variants) == 0 {
		sb.WriteString(mutedStyle.Render("  (empty log)"))
		sb.WriteString("\n")
		return sb.String()
	}

	width := 0
	for _, v := range variants {
		if len(v.String()) > width {
			width = len(v.String())
		}
	}

	total := 0
	for i, v := range variants {
		fmt.Fprintf(&sb, "  %3d  %-*s  %s\n",
			i+1, width, v.String(), accentStyle.Render(fmt.Sprintf("×%d", v.Count)))
		total += v.Count
	}
	fmt.Fprintf(&sb, "  %s\n", mutedStyle.Render(fmt.Sprintf("%d variants, %d traces", len(variants), total)))
	return sb.String()
}

// FootprintTable renders the footprint matrix as an aligned grid with the
// four relation symbols.
func FootprintTable(fp *mining.FootprintMatrix) string {
	activities := fp.Universe.All

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Footprint matrix"))
	sb.WriteString("\n")

	if len(activities) == 0 {
		sb.WriteString(mutedStyle.Render("  (empty log)"))
		sb.WriteString("\n")
		return sb.String()
	}

	colWidth := 4
	for _, a := range activities {
		if len(a)+1 > colWidth {
			colWidth = len(a) + 1
		}
	}

	sb.WriteString(strings.Repeat(" ", colWidth+2))
	for _, b := range activities {
		fmt.Fprintf(&sb, "%*s", colWidth, b)
	}
	sb.WriteString("\n")

	for _, a := range activities {
		fmt.Fprintf(&sb, "  %-*s", colWidth, a)
		for _, b := range activities {
			fmt.Fprintf(&sb, "%*s", colWidth, fp.Relation(a, b).String())
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\n  %s %v\n", mutedStyle.Render("start:"), fp.Universe.Starts)
	fmt.Fprintf(&sb, "  %s %v\n", mutedStyle.Render("end:  "), fp.Universe.Ends)
	if fp.Universe.SkippedEmpty > 0 {
		fmt.Fprintf(&sb, "  %s\n", mutedStyle.Render(fmt.Sprintf("skipped %d empty traces", fp.Universe.SkippedEmpty)))
	}
	return sb.String()
}

// PlaceList renders the maximal places of a discovery result.
func PlaceList(places []mining.Place) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Maximal places"))
	sb.WriteString("\n")

	if len(places) == 0 {
		sb.WriteString(mutedStyle.Render("  (none)"))
		sb.WriteString("\n")
		return sb.String()
	}
	for _, p := range places {
		fmt.Fprintf(&sb, "  %s\n", p.String())
	}
	return sb.String()
}
