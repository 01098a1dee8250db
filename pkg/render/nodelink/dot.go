package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/statewalk/pkg/dag"
	"github.com/matzehuels/statewalk/pkg/errors"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes row numbers and metadata in node labels.
	// When false, only the node ID is shown.
	Detailed bool
	// Title is drawn above the graph when set.
	Title string
}

// ToDOT converts a layered DAG to Graphviz DOT, keeping the given
// left-to-right order in every row. orders may be nil.
func ToDOT(g *dag.DAG, orders map[int][]string, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	for _, row := range g.RowIDs() {
		order := rowOrder(g, orders, row)
		fmt.Fprintf(&buf, "  subgraph row%d {\n    rank=same;\n", row)
		for _, id := range order {
			n, _ := g.Node(id)
			fmt.Fprintf(&buf, "    %q [%s];\n", id, strings.Join(fmtAttrs(*n, opts.Detailed), ", "))
		}
		for i := 0; i+1 < len(order); i++ {
			fmt.Fprintf(&buf, "    %q -> %q [style=invis];\n", order[i], order[i+1])
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, row := range g.RowIDs() {
		for _, id := range rowOrder(g, orders, row) {
			for _, child := range childrenInOrder(g, orders, id) {
				fmt.Fprintf(&buf, "  %q -> %q%s;\n", id, child, edgeAttrs(g, child))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// rowOrder returns orders[row] if present, else the graph's order.
func rowOrder(g *dag.DAG, orders map[int][]string, row int) []string {
	if o, ok := orders[row]; ok {
		return o
	}
	return dag.NodeIDs(g.NodesInRow(row))
}

// childrenInOrder lists the children of id by their position in their own
// row, which is what ordering=out expects.
func childrenInOrder(g *dag.DAG, orders map[int][]string, id string) []string {
	children := slices.Clone(g.Children(id))
	pos := make(map[string]int, len(children))
	for _, c := range children {
		if n, ok := g.Node(c); ok {
			pos[c] = slices.Index(rowOrder(g, orders, n.Row), c)
		}
	}
	slices.SortStableFunc(children, func(a, b string) int { return pos[a] - pos[b] })
	return children
}

func fmtLabel(n dag.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}

	parts := []string{fmt.Sprintf("row: %d", n.Row)}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return n.ID + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n dag.Node, detailed bool) []string {
	if n.IsSubdivider() {
		return []string{"label=\"\"", "shape=point", "width=0.05", "style=dashed"}
	}
	return []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
}

func edgeAttrs(g *dag.DAG, to string) string {
	if n, ok := g.Node(to); ok && n.IsSubdivider() {
		return " [arrowhead=none]"
	}
	return ""
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one
// whose viewBox starts at the origin, so the SVG scales when embedded.
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

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
