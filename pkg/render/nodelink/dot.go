package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/weavr/pkg/model"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the element type and id below the title.
	Detailed bool

	// Scale divides layout coordinates before they are written as node
	// positions. Zero means 1.
	Scale float64
}

// Fill colors by schema type, following the usual event modeling palette.
var fills = map[model.SchemaType]string{
	model.SchemaScreen:     "#f5f5f5",
	model.SchemaCommand:    "#a7c7e7",
	model.SchemaEvent:      "#ffb347",
	model.SchemaReadModel:  "#b5e7a0",
	model.SchemaAutomation: "#d7bde2",
}

const externalFill = "#fdfd96"

// ToDOT converts an event model to Graphviz DOT format.
// Each slice becomes a cluster and each element a node colored by type.
// OUTBOUND edges are drawn from their carrier; INBOUND edges of a model that
// has not been fixed are drawn from the referenced element. Edges to unknown
// ids are omitted. When doc has a layout, nodes carry a pinned pos attribute
// so engines such as neato -n reproduce the computed coordinates.
func ToDOT(doc *model.Document, opts Options) string {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}

	known := make(map[string]bool)
	for _, s := range doc.Slices() {
		for _, el := range s.Elements() {
			known[el.ID] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")

	for i, s := range doc.Slices() {
		fmt.Fprintf(&buf, "\n  subgraph %q {\n", fmt.Sprintf("cluster_%d", i))
		fmt.Fprintf(&buf, "    label=%q;\n", s.ID)
		buf.WriteString("    style=dashed;\n")
		for _, el := range s.Elements() {
			attrs := fmtAttrs(el, doc.Layout, scale, opts.Detailed)
			fmt.Fprintf(&buf, "    %q [%s];\n", el.ID, strings.Join(attrs, ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	seen := make(map[[2]string]bool)
	for _, s := range doc.Slices() {
		for _, el := range s.Elements() {
			for _, d := range el.Dependencies {
				from, to := el.ID, d.ID
				if d.IsInbound() {
					from, to = d.ID, el.ID
				}
				key := [2]string{from, to}
				if !known[d.ID] || seen[key] {
					continue
				}
				seen[key] = true
				if d.Title != "" {
					fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", from, to, d.Title)
				} else {
					fmt.Fprintf(&buf, "  %q -> %q;\n", from, to)
				}
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(el *model.Element, detailed bool) string {
	if !detailed {
		return el.Title
	}
	return fmt.Sprintf("%s\n%s (%s)", el.Title, el.InternalType(), el.ID)
}

func fmtAttrs(el *model.Element, placements map[string]model.Placement, scale float64, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(el, detailed))}

	fill, ok := fills[el.SchemaType()]
	if el.InternalType() == model.InternalIntegrationEvent {
		fill, ok = externalFill, true
	}
	if ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	}

	if p, ok := placements[el.ID]; ok {
		// DOT's y axis points up.
		attrs = append(attrs, fmt.Sprintf("pos=\"%.2f,%.2f!\"", float64(p.X)/scale, -float64(p.Y)/scale))
	}
	return attrs
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
