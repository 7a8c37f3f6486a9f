package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/remotelayout/pkg/geom"
	"github.com/matzehuels/remotelayout/pkg/model"
)

// Options configures constraint graph rendering.
type Options struct {
	// Detailed adds the multiplier and priority to edge labels and the kind
	// and tag to node labels. When false, edges show only the attributes.
	Detailed bool

	// Owners colours each edge by the element that owns the constraint.
	Owners bool
}

// palette cycles through owner colours.
var palette = []string{"#1f77b4", "#d62728", "#2ca02c", "#9467bd", "#ff7f0e", "#8c564b", "#e377c2", "#17becf"}

// ToDOT converts a layout to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(l *model.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	if l.Root != nil {
		writeNode(&buf, l.Root, opts, "  ")
		writeCluster(&buf, l.Root, opts, "  ")
	}

	colours := map[*model.Element]string{}
	buf.WriteString("\n")
	for _, c := range l.Constraints() {
		attrs := []string{fmt.Sprintf("label=%q", fmtEdgeLabel(c, opts.Detailed))}
		if c.Priority < geom.PriorityRequired {
			attrs = append(attrs, "style=dashed")
		}
		if c.IsProportionLock() {
			attrs = append(attrs, "penwidth=2")
		}
		if opts.Owners && c.Owner() != nil {
			colour, ok := colours[c.Owner()]
			if !ok {
				colour = palette[len(colours)%len(palette)]
				colours[c.Owner()] = colour
			}
			attrs = append(attrs, fmt.Sprintf("color=%q", colour), fmt.Sprintf("fontcolor=%q", colour))
		}
		to := c.SecondItem
		if to == nil {
			to = c.FirstItem
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", c.FirstItem.UUID, to.UUID, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeCluster emits a cluster holding the children of e, recursing into
// children that have children of their own.
func writeCluster(buf *bytes.Buffer, e *model.Element, opts Options, indent string) {
	children := e.Children()
	if len(children) == 0 {
		return
	}
	fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+e.UUID)
	fmt.Fprintf(buf, "%s  label=%q;\n", indent, e.Label())
	fmt.Fprintf(buf, "%s  style=\"rounded,dashed\";\n", indent)
	for _, child := range children {
		writeNode(buf, child, opts, indent+"  ")
	}
	for _, child := range children {
		writeCluster(buf, child, opts, indent+"  ")
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func writeNode(buf *bytes.Buffer, e *model.Element, opts Options, indent string) {
	attrs := []string{fmt.Sprintf("label=%q", fmtNodeLabel(e, opts.Detailed))}
	switch e.Kind {
	case model.KindRemote:
		attrs = append(attrs, "shape=box3d", "fillcolor=lightgrey")
	case model.KindButtonGroup:
		attrs = append(attrs, "shape=folder")
	}
	fmt.Fprintf(buf, "%s%q [%s];\n", indent, e.UUID, strings.Join(attrs, ", "))
}

func fmtNodeLabel(e *model.Element, detailed bool) string {
	if !detailed {
		return e.Label()
	}
	parts := []string{e.Label(), e.Kind.String()}
	if e.Tag != 0 {
		parts = append(parts, fmt.Sprintf("tag: %d", e.Tag))
	}
	if e.Key != "" {
		parts = append(parts, "key: "+e.Key)
	}
	return strings.Join(parts, "\n")
}

func fmtEdgeLabel(c *model.Constraint, detailed bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s ", c.FirstAttribute, c.Relation)
	if c.Static() {
		b.WriteString(number(c.Constant))
	} else {
		b.WriteString(c.SecondAttribute.String())
		if detailed && c.Multiplier != 1 {
			fmt.Fprintf(&b, " × %s", number(c.Multiplier))
		}
		switch {
		case c.Constant > 0:
			fmt.Fprintf(&b, " + %s", number(c.Constant))
		case c.Constant < 0:
			fmt.Fprintf(&b, " - %s", number(-c.Constant))
		}
	}
	if detailed && c.Priority != geom.PriorityRequired {
		fmt.Fprintf(&b, " @%s", number(float64(c.Priority)))
	}
	return b.String()
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
