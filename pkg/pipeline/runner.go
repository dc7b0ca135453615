package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/weavr/pkg/audit"
	"github.com/matzehuels/weavr/pkg/cache"
	"github.com/matzehuels/weavr/pkg/model"
	"github.com/matzehuels/weavr/pkg/model/transform"
	"github.com/matzehuels/weavr/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLFix,
	}
}

// fixEntry is the cached form of a fix result.
type fixEntry struct {
	Document  *model.Document  `json:"document"`
	Transform transform.Result `json:"transform"`
	Stats     Stats            `json:"stats"`
}

// auditEntry is the cached form of an audit result.
type auditEntry struct {
	Report audit.Report `json:"report"`
	Stats  Stats        `json:"stats"`
}

// Fix decodes input and runs the fix pipeline, serving repeated inputs from
// the cache.
func (r *Runner) Fix(ctx context.Context, input []byte, f model.Format, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	start := time.Now()
	hooks := observability.Pipeline()

	inputHash := hashInput(input, f)
	key := r.Keyer.FixKey(inputHash, opts.FixKeyOpts())

	if !opts.Refresh {
		if entry, ok := r.lookupFix(ctx, key); ok {
			hooks.OnFixStart(ctx, entry.Stats.Elements)
			res := &Result{
				RunID:     uuid.NewString(),
				InputHash: inputHash,
				Document:  entry.Document,
				Transform: entry.Transform,
				Stats:     entry.Stats,
				CacheInfo: CacheInfo{Key: key, Hit: true},
			}
			hooks.OnFixComplete(ctx, res.Transform.Added, time.Since(start), nil)
			r.Logger.Debug("fix result from cache", "key", key)
			return res, nil
		}
	}

	doc, err := Decode(input, f)
	if err != nil {
		hooks.OnFixComplete(ctx, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnFixStart(ctx, countElements(doc))

	res, err := Fix(doc, opts)
	if err != nil {
		hooks.OnFixComplete(ctx, 0, time.Since(start), err)
		return nil, err
	}
	res.InputHash = inputHash
	res.CacheInfo.Key = key

	r.store(ctx, "fix", key, fixEntry{Document: res.Document, Transform: res.Transform, Stats: res.Stats})
	hooks.OnFixComplete(ctx, res.Transform.Added, time.Since(start), nil)

	r.Logger.Info("fixed event model",
		"elements", res.Stats.Elements,
		"added", res.Transform.Added,
		"placements", res.Stats.Placements,
		"duration", time.Since(start))
	return res, nil
}

// Audit decodes input and runs the audit pipeline, serving repeated inputs
// from the cache.
func (r *Runner) Audit(ctx context.Context, input []byte, f model.Format, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	start := time.Now()
	hooks := observability.Pipeline()

	inputHash := hashInput(input, f)
	key := r.Keyer.AuditKey(inputHash)

	if !opts.Refresh {
		var entry auditEntry
		if r.lookup(ctx, "audit", key, &entry) {
			hooks.OnAuditStart(ctx, entry.Stats.Elements)
			entry.Report.RunID = uuid.NewString()
			res := &Result{
				RunID:     entry.Report.RunID,
				InputHash: inputHash,
				Report:    &entry.Report,
				Stats:     entry.Stats,
				CacheInfo: CacheInfo{Key: key, Hit: true},
			}
			hooks.OnAuditComplete(ctx, len(entry.Report.Violations), time.Since(start), nil)
			r.Logger.Debug("audit result from cache", "key", key)
			return res, nil
		}
	}

	doc, err := Decode(input, f)
	if err != nil {
		hooks.OnAuditComplete(ctx, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnAuditStart(ctx, countElements(doc))

	res, err := Audit(doc, opts)
	if err != nil {
		hooks.OnAuditComplete(ctx, 0, time.Since(start), err)
		return nil, err
	}
	res.InputHash = inputHash
	res.CacheInfo.Key = key

	r.store(ctx, "audit", key, auditEntry{Report: *res.Report, Stats: res.Stats})
	hooks.OnAuditComplete(ctx, len(res.Report.Violations), time.Since(start), nil)

	r.Logger.Info("audited event model",
		"elements", res.Stats.Elements,
		"violations", len(res.Report.Violations),
		"duration", time.Since(start))
	return res, nil
}

// FixFile reads in, runs [Runner.Fix] and writes the fixed document to out,
// creating parent directories as needed. Nothing is written on error.
func (r *Runner) FixFile(ctx context.Context, in, out string, opts Options) (*Result, error) {
	data, f, err := ReadInput(in)
	if err != nil {
		return nil, err
	}
	res, err := r.Fix(ctx, data, f, opts)
	if err != nil {
		return nil, err
	}
	if err := model.WriteDocumentFile(res.Document, out); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	return res, nil
}

// AuditFile reads in and runs [Runner.Audit].
func (r *Runner) AuditFile(ctx context.Context, in string, opts Options) (*Result, error) {
	data, f, err := ReadInput(in)
	if err != nil {
		return nil, err
	}
	return r.Audit(ctx, data, f, opts)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) lookupFix(ctx context.Context, key string) (fixEntry, bool) {
	var entry fixEntry
	if !r.lookup(ctx, "fix", key, &entry) || entry.Document == nil {
		return fixEntry{}, false
	}
	return entry, true
}

// lookup reads and decodes a cache entry. Read and decode failures count as
// misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string, v any) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		r.Logger.Debug("discarding undecodable cache entry", "key", key, "error", err)
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return true
}

// store writes a cache entry. Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, keyType, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Debug("cannot encode cache entry", "key", key, "error", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func hashInput(input []byte, f model.Format) string {
	return cache.Hash(append([]byte(string(f)+"\x00"), input...))
}

func countElements(doc *model.Document) int {
	n := 0
	for _, s := range doc.Slices() {
		if s != nil {
			n += len(s.Elements())
		}
	}
	return n
}
