// Package render groups the visual outputs of remotelayout.
//
// # Constraint Graphs
//
// The [dot] subpackage draws the constraint graph of a layout with Graphviz:
// elements as nodes clustered by parent, constraints as labelled edges.
//
//	src := dot.ToDOT(layout, dot.Options{Detailed: true})
//	svg, err := dot.RenderSVG(ctx, src)
//
// [dot]: github.com/matzehuels/remotelayout/pkg/render/dot
package render
