package transform

import "github.com/matzehuels/weavr/pkg/model"

// SynthesizeEdges makes g's dependency graph consistent in OUTBOUND form.
//
// For every INBOUND edge on an element E that references a known element S,
// S receives an OUTBOUND edge targeting E unless it already has one. The new
// edge copies the INBOUND edge's title and carries E's current (normalized)
// type as its elementType. INBOUND edges to unknown ids are skipped.
//
// Once all elements are processed, existing OUTBOUND edges to known elements
// are re-synced to their target's current type and every dependency list is
// reduced to its OUTBOUND edges.
//
// Insertion is guarded by an id membership check and nothing is removed
// before the final purge, so the resulting edge set does not depend on the
// order in which elements or their edges are visited, and a second run is a
// no-op. The Normalized field of the returned Result is always zero.
func SynthesizeEdges(g *model.Graph) Result {
	var res Result

	for _, el := range g.Elements() {
		for _, dep := range el.Inbound() {
			src, ok := g.Element(dep.ID)
			if !ok {
				res.Dangling++
				continue
			}
			if src.HasOutboundTo(el.ID) {
				continue
			}
			src.Dependencies = append(src.Dependencies, model.Dependency{
				ID:          el.ID,
				Type:        model.Outbound,
				Title:       dep.Title,
				ElementType: el.Type,
			})
			res.Added++
		}
	}

	for _, el := range g.Elements() {
		res.Resynced += resync(g, el)
		res.Purged += purgeInbound(el)
	}
	return res
}

// resync updates the elementType of el's OUTBOUND edges to match the
// referenced element and returns the number of edges updated.
func resync(g *model.Graph, el *model.Element) int {
	n := 0
	for i := range el.Dependencies {
		d := &el.Dependencies[i]
		if !d.IsOutbound() {
			continue
		}
		target, ok := g.Element(d.ID)
		if !ok || d.ElementType == target.Type {
			continue
		}
		d.ElementType = target.Type
		n++
	}
	return n
}

// purgeInbound drops every dependency that is not OUTBOUND and returns how
// many were dropped.
func purgeInbound(el *model.Element) int {
	kept := make([]model.Dependency, 0, len(el.Dependencies))
	for _, d := range el.Dependencies {
		if d.IsOutbound() {
			kept = append(kept, d)
		}
	}
	dropped := len(el.Dependencies) - len(kept)
	el.Dependencies = kept
	return dropped
}
