// Package transform implements the graph phases of the fix pipeline.
//
// # Overview
//
// Event models arrive with a mixed vocabulary and half-stored edges: types
// use the authoring vocabulary (DOMAIN_EVENT, READ_MODEL, ...) and many
// relationships are recorded only as INBOUND edges on the successor. This
// package turns such a model into canonical form:
//
//   - Every element uses the schema vocabulary (EVENT, READMODEL, ...)
//   - Every relationship is stored exactly once, as an OUTBOUND edge on its
//     predecessor, with elementType matching the target
//   - No INBOUND edges remain
//
// # Type Normalization
//
// [NormalizeTypes] applies [model.Normalize] to every element. It runs first
// because synthesized edges record the target's normalized type.
//
// # Edge Synthesis
//
// [SynthesizeEdges] creates the missing OUTBOUND counterpart of every INBOUND
// edge, then purges INBOUND edges:
//
//	Before: C1 {INBOUND SC1}          SC1 {}
//	After:  C1 {}                     SC1 {OUTBOUND C1 (COMMAND)}
//
// Dangling references (INBOUND edges to unknown ids) are skipped.
//
// # Usage
//
// For most use cases, call [Apply], which runs both phases:
//
//	g, _ := model.NewGraph(doc)
//	res := transform.Apply(g) // modifies doc in place
//	fmt.Println("Fixed", res.Added, "dependencies")
//
// Both phases are idempotent; applying them to fixed output changes nothing.
package transform
