// Package dot renders the constraint graph of a layout with Graphviz.
//
// # Overview
//
// Elements become nodes, grouped into one cluster per parent so the drawing
// follows the layout tree. Every constraint with a second item becomes an
// edge from its first item to its second item, labelled with the two
// attributes and the constant. Constants and constraints that refer to the
// element itself are drawn as self-loops.
//
// # Usage
//
//	dot := dot.ToDOT(layout, dot.Options{Detailed: true})
//	svg, err := dot.RenderSVG(ctx, dot)
//
// # Styling
//
//   - Non-required constraints are dashed
//   - Proportion locks are bold
//   - With [Options.Owners], edges are coloured by the element that owns
//     them
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package dot
