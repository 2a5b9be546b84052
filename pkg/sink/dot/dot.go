// Package dot renders dumps as Graphviz DOT and SVG.
//
// Control-flow successor edges are drawn solid, input edges dashed from the
// input to its user, and scheduled blocks become clusters. [Writer] is a
// [printer.Encoder] that emits one digraph per printed graph.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/irdump/pkg/errors"
	"github.com/matzehuels/irdump/pkg/printer"
)

// Options configures DOT rendering.
type Options struct {
	// Detailed adds every node property to the node label. When false,
	// only the id and name template are shown.
	Detailed bool
	// Blocks groups scheduled nodes into one cluster per block.
	Blocks bool
}

var categoryFill = map[string]string{
	"control-sink":  "#f4c7c3",
	"control-split": "#f4c7c3",
	"merge":         "#f4c7c3",
	"begin":         "#f4c7c3",
	"end":           "#f4c7c3",
	"fixed":         "#fce8b2",
	"state":         "#e0e0e0",
	"phi":           "#c6dafc",
	"proxy":         "#c6dafc",
}

// ToDOT converts one graph record to DOT.
func ToDOT(g *printer.GraphRecord, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if g.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", g.Title)
	}
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	nodes := make(map[int]printer.NodeRecord, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes[n.ID] = n
	}
	placed := make(map[int]bool)
	if opts.Blocks {
		for _, b := range g.Blocks {
			fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", b.ID)
			fmt.Fprintf(&buf, "    label=\"B%d\";\n    style=dashed;\n", b.ID)
			for _, id := range b.Nodes {
				if n, ok := nodes[id]; ok && !placed[id] {
					placed[id] = true
					fmt.Fprintf(&buf, "    %s [%s];\n", nodeName(id), strings.Join(fmtAttrs(n, opts.Detailed), ", "))
				}
			}
			buf.WriteString("  }\n")
		}
	}
	for _, n := range g.Nodes {
		if !placed[n.ID] {
			fmt.Fprintf(&buf, "  %s [%s];\n", nodeName(n.ID), strings.Join(fmtAttrs(n, opts.Detailed), ", "))
		}
	}

	buf.WriteString("\n")
	for _, n := range g.Nodes {
		for _, e := range n.Successors {
			for _, to := range e.Targets {
				if to >= 0 {
					fmt.Fprintf(&buf, "  %s -> %s [color=\"#c5221f\", label=%q];\n", nodeName(n.ID), nodeName(to), portName(n.Class.Successors, e.Slot))
				}
			}
		}
		for _, e := range n.Inputs {
			for _, from := range e.Targets {
				if from >= 0 {
					fmt.Fprintf(&buf, "  %s -> %s [style=dashed, color=\"#1a73e8\", label=%q];\n", nodeName(from), nodeName(n.ID), portName(n.Class.Inputs, e.Slot))
				}
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(id int) string { return "n" + strconv.Itoa(id) }

func portName(ports []printer.Port, slot int) string {
	if slot >= 0 && slot < len(ports) {
		return ports[slot].Name
	}
	return ""
}

func fmtLabel(n printer.NodeRecord, detailed bool) string {
	name := n.Class.NameTemplate
	if name == "" {
		name = n.Class.Name
	}
	label := fmt.Sprintf("%d %s", n.ID, name)
	if !detailed {
		return label
	}
	parts := make([]string, 0, len(n.Props))
	for _, p := range n.Props {
		parts = append(parts, fmt.Sprintf("%s: %s", p.Key, printer.Format(p.Value)))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n printer.NodeRecord, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	for _, p := range n.Props {
		if p.Key != "category" {
			continue
		}
		if fill, ok := categoryFill[printer.Format(p.Value)]; ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
		}
	}
	return attrs
}

// Writer is a [printer.Encoder] writing DOT on Close.
type Writer struct {
	*printer.Collector
	w    io.Writer
	opts Options
}

// NewWriter creates a DOT writer on w. Close does not close w.
func NewWriter(w io.Writer, opts Options) *Writer {
	return &Writer{Collector: printer.NewCollector(), w: w, opts: opts}
}

// Close writes one digraph per collected graph, in print order.
func (w *Writer) Close() error {
	if err := w.Collector.Close(); err != nil {
		return err
	}
	var err error
	w.Document().Walk(func(_ []string, g *printer.GraphRecord) {
		if err == nil {
			_, err = io.WriteString(w.w, ToDOT(g, w.opts))
		}
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write dot")
	}
	return nil
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

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
