// Package nodelink renders event models as node-link diagrams.
//
// # Overview
//
// Each slice is drawn as a dashed cluster and each element as a rounded box
// in its type's color (commands blue, events orange, read models green,
// automations purple, external events yellow). Dependencies become arrows
// from predecessor to successor.
//
// # Usage
//
// Convert a document to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// A document that went through the fix pipeline carries a layout map; its
// coordinates are written as pinned node positions, so the DOT source can be
// rendered with the computed layout by external tools:
//
//	neato -n -Tsvg model.dot > model.svg
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. No system Graphviz installation is needed.
package nodelink
