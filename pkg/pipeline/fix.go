package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/weavr/pkg/audit"
	"github.com/matzehuels/weavr/pkg/layout"
	"github.com/matzehuels/weavr/pkg/model"
	"github.com/matzehuels/weavr/pkg/model/transform"
)

// Fix runs normalize, synthesize and layout on doc in place and stores the
// placement map in doc.Layout. Preconditions are checked before anything is
// mutated, so on error doc is unchanged.
func Fix(doc *model.Document, opts Options) (*Result, error) {
	opts.setDefaults()

	g, err := NewGraph(doc)
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.NewString(), Document: doc}
	res.Stats.Slices = len(g.Slices())
	res.Stats.Elements = g.Len()
	res.Stats.EdgesBefore = g.EdgeCount()

	start := time.Now()
	res.Transform = transform.Apply(g)
	res.Stats.TransformTime = time.Since(start)
	res.Stats.EdgesAfter = g.EdgeCount()

	opts.Logger.Debug("synthesized edges",
		"normalized", res.Transform.Normalized,
		"added", res.Transform.Added,
		"resynced", res.Transform.Resynced,
		"dangling", res.Transform.Dangling,
		"purged", res.Transform.Purged)

	start = time.Now()
	doc.Layout = layout.Build(g, opts.Layout)
	res.Stats.LayoutTime = time.Since(start)
	res.Stats.Placements = len(doc.Layout)

	opts.Logger.Debug("computed layout",
		"placements", res.Stats.Placements,
		"duration", res.Stats.LayoutTime)

	return res, nil
}

// Audit checks doc against the predecessor rules. doc is not modified.
func Audit(doc *model.Document, opts Options) (*Result, error) {
	opts.setDefaults()

	g, err := NewGraph(doc)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rep := audit.Audit(g)
	res := &Result{RunID: rep.RunID, Report: &rep}
	res.Stats.AuditTime = time.Since(start)
	res.Stats.Slices = len(g.Slices())
	res.Stats.Elements = g.Len()
	res.Stats.EdgesBefore = g.EdgeCount()
	res.Stats.EdgesAfter = res.Stats.EdgesBefore

	opts.Logger.Debug("audited model",
		"elements", rep.Elements,
		"violations", len(rep.Violations),
		"duration", res.Stats.AuditTime)

	return res, nil
}
