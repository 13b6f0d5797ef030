// Package render produces quick topology previews of a tree via Graphviz.
//
// The preview is independent of the layout engine: it shows parent/child
// structure and branch lengths using Graphviz's own tree drawing, which is
// handy for sanity-checking an input file before computing real layouts.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/phyloscope/pkg/tree"
)

// Options configures topology preview rendering.
type Options struct {
	// ShowLengths includes branch lengths as edge labels.
	ShowLengths bool
}

// ToDOT converts a tree to Graphviz DOT format for preview rendering.
// The resulting DOT string can be rendered with [SVG] or [PNG].
//
// Tips are drawn as filled boxes, internal nodes as points; unnamed internal
// nodes are labeled by their node ID.
func ToDOT(t *tree.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph T {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  node [fontsize=12];\n")
	buf.WriteString("\n")

	for _, id := range t.Preorder(true) {
		fmt.Fprintf(&buf, "  n%d [%s];\n", id, nodeAttrs(t, id))
	}

	buf.WriteString("\n")
	for _, id := range t.Preorder(false) {
		n := t.Node(id)
		if opts.ShowLengths && n.HasLength {
			fmt.Fprintf(&buf, "  n%d -> n%d [label=%q];\n", n.Parent, id,
				strconv.FormatFloat(n.Length, 'g', -1, 64))
			continue
		}
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", n.Parent, id)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(t *tree.Tree, id int) string {
	if t.IsTip(id) {
		return fmt.Sprintf("label=%q, shape=box, style=\"rounded,filled\", fillcolor=white", t.Node(id).Name)
	}
	label := t.Node(id).Name
	if label == "" {
		return fmt.Sprintf("label=\"\", shape=point, tooltip=\"node %d\"", id)
	}
	return fmt.Sprintf("label=%q, shape=plaintext", label)
}

// SVG renders a DOT graph to SVG using Graphviz.
func SVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG)
}

// PNG renders a DOT graph to PNG using Graphviz.
func PNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG)
}

func renderFormat(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
