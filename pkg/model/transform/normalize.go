package transform

import "github.com/matzehuels/weavr/pkg/model"

// NormalizeTypes rewrites every element of g from the internal type
// vocabulary to the schema vocabulary and returns the number of elements
// that changed. It must run before [SynthesizeEdges], which stamps the
// normalized type onto synthesized edges.
func NormalizeTypes(g *model.Graph) int {
	n := 0
	for _, el := range g.Elements() {
		if el.Normalize() {
			n++
		}
	}
	return n
}

// Apply runs the graph half of the fix pipeline: [NormalizeTypes] followed by
// [SynthesizeEdges]. Layout is computed separately by the layout package.
// Apply modifies g in place and is idempotent.
func Apply(g *model.Graph) Result {
	normalized := NormalizeTypes(g)
	res := SynthesizeEdges(g)
	res.Normalized = normalized
	return res
}
