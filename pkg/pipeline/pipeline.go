// Package pipeline provides the fix and audit pipelines for weavr.
//
// This package wires the model, transform, layout and audit packages into the
// two operations exposed by the CLI and the HTTP server. By centralizing this
// logic, both entry points report the same errors and share one cache.
//
// # Architecture
//
// The fix pipeline runs three stages over one [model.Graph]:
//
//  1. Normalize: rewrite element types into the schema vocabulary
//  2. Synthesize: store every dependency as an OUTBOUND edge, drop INBOUND
//  3. Layout: compute the placement map and strip slice-tracking fields
//
// The audit pipeline checks the predecessor rules and never mutates input.
//
// # Usage
//
// Run a stage directly on a decoded document:
//
//	res, err := pipeline.Fix(doc, pipeline.Options{})
//	fmt.Println("Fixed", res.Transform.Added, "dependencies")
//
// Or use a Runner, which decodes raw input and caches results by content
// hash:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.FixFile(ctx, "weavr-self-model.json", "weavr-model.json", opts)
//	if errors.IsPrecondition(err) {
//	    // report and stop, nothing was written
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/weavr/pkg/audit"
	"github.com/matzehuels/weavr/pkg/cache"
	"github.com/matzehuels/weavr/pkg/layout"
	"github.com/matzehuels/weavr/pkg/model"
	"github.com/matzehuels/weavr/pkg/model/transform"
)

// =============================================================================
// Default Values
// =============================================================================

// Default file names, resolved relative to the working directory.
const (
	DefaultInput  = "weavr-self-model.json"
	DefaultOutput = "weavr-model.json"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Layout configures the layout stage of the fix pipeline.
	Layout layout.Options

	// Refresh skips cache reads; results are still written back.
	Refresh bool

	// Logger receives stage summaries. Nil discards them.
	Logger *log.Logger
}

func (o *Options) setDefaults() {
	o.Layout = o.Layout.WithDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// FixKeyOpts returns cache key options for fix results.
func (o *Options) FixKeyOpts() cache.FixKeyOpts {
	l := o.Layout.WithDefaults()
	cols := make(map[string]int, len(l.Columns))
	for t, x := range l.Columns {
		cols[string(t)] = x
	}
	return cache.FixKeyOpts{
		SliceWidth: l.SliceWidth,
		SliceGap:   l.SliceGap,
		RowHeight:  l.RowHeight,
		BaseY:      l.BaseY,
		Height:     l.Height,
		Columns:    cols,
	}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this run, including runs served from cache.
	RunID string

	// InputHash is the content hash of the raw input, when known.
	InputHash string

	// Document is the fixed document. Nil for audit runs.
	Document *model.Document

	// Transform reports what the fix pipeline changed.
	Transform transform.Result

	// Report holds the audit findings. Nil for fix runs.
	Report *audit.Report

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the result came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Slices        int
	Elements      int
	EdgesBefore   int
	EdgesAfter    int
	Placements    int
	TransformTime time.Duration
	LayoutTime    time.Duration
	AuditTime     time.Duration
}

// CacheInfo tracks cache usage for a run.
type CacheInfo struct {
	Key string // Cache key consulted for the run
	Hit bool   // Whether the result came from the cache
}
