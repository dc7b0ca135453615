package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/weavr/pkg/cache"
	errs "github.com/matzehuels/weavr/pkg/errors"
	"github.com/matzehuels/weavr/pkg/layout"
	"github.com/matzehuels/weavr/pkg/model"
	"github.com/matzehuels/weavr/pkg/model/transform"
	"github.com/matzehuels/weavr/pkg/render/nodelink"
)

const checkoutModel = `{
  "eventModel": {
    "slices": [
      {
        "id": "S1",
        "commands": [
          {"id": "C1", "title": "Place Order", "type": "COMMAND",
           "dependencies": [{"id": "SC1", "type": "INBOUND", "title": "submit", "elementType": "SCREEN"}]}
        ],
        "events": [
          {"id": "E1", "title": "Order Placed", "type": "DOMAIN_EVENT",
           "dependencies": [{"id": "C1", "type": "INBOUND", "elementType": "COMMAND"}]}
        ],
        "screens": [
          {"id": "SC1", "title": "Cart", "type": "SCREEN"}
        ]
      },
      {
        "id": "S2",
        "readmodels": [
          {"id": "RM1", "title": "Orders", "type": "READ_MODEL",
           "dependencies": [{"id": "IE1", "type": "INBOUND", "elementType": "INTEGRATION_EVENT"}]}
        ],
        "integrationEvents": [
          {"id": "IE1", "title": "Payment Received", "type": "INTEGRATION_EVENT"}
        ]
      }
    ]
  },
  "version": 3
}`

// memCache is an in-memory cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

func layoutWithRowHeight(h int) layout.Options { return layout.Options{RowHeight: h} }

func decode(t *testing.T, s string) *model.Document {
	t.Helper()
	doc, err := Decode([]byte(s), model.FormatJSON)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return doc
}

func TestFix(t *testing.T) {
	doc := decode(t, checkoutModel)

	res, err := Fix(doc, Options{})
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if res.Transform.Added != 3 {
		t.Errorf("Added = %d, want 3", res.Transform.Added)
	}
	if res.Stats.Elements != 5 || res.Stats.Slices != 2 || res.Stats.Placements != 5 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.RunID == "" {
		t.Error("RunID should be set")
	}

	g, err := model.NewGraph(doc)
	if err != nil {
		t.Fatal(err)
	}
	for _, el := range g.Elements() {
		if len(el.Inbound()) != 0 {
			t.Errorf("%s still has INBOUND edges", el.ID)
		}
		if _, ok := doc.Layout[el.ID]; !ok {
			t.Errorf("%s has no placement", el.ID)
		}
	}

	ie, _ := g.Element("IE1")
	if ie.Type != "EVENT" || ie.Context != model.ContextExternal {
		t.Errorf("IE1 = %s/%s, want EVENT/EXTERNAL", ie.Type, ie.Context)
	}
	if p := doc.Layout["IE1"]; p.X != 1300+500 {
		t.Errorf("IE1 x = %d, want the event column of slice 2", p.X)
	}
	if doc.Extra["version"] == nil {
		t.Error("unknown top-level fields should survive")
	}
}

func TestFixIdempotent(t *testing.T) {
	doc := decode(t, checkoutModel)
	if _, err := Fix(doc, Options{}); err != nil {
		t.Fatal(err)
	}
	first, err := model.MarshalDocument(doc)
	if err != nil {
		t.Fatal(err)
	}

	again := decode(t, string(first))
	res, err := Fix(again, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Transform != (transform.Result{}) {
		t.Errorf("second Fix() = %+v, want no changes", res.Transform)
	}
	second, _ := model.MarshalDocument(again)
	if string(first) != string(second) {
		t.Errorf("second Fix() changed the document:\n%s\n---\n%s", first, second)
	}
}

func TestFixErrors(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		code         errs.Code
		precondition bool
	}{
		{"no eventModel", `{}`, errs.ErrCodeMissingSlices, true},
		{"empty slices", `{"eventModel": {"slices": []}}`, errs.ErrCodeMissingSlices, true},
		{"missing title", `{"eventModel": {"slices": [{"id": "S1", "commands": [{"id": "C1", "type": "COMMAND"}]}]}}`, errs.ErrCodeMalformedElement, false},
		{"missing id", `{"eventModel": {"slices": [{"id": "S1", "commands": [{"title": "x", "type": "COMMAND"}]}]}}`, errs.ErrCodeMalformedElement, false},
		{"duplicate id", `{"eventModel": {"slices": [{"id": "S1", "commands": [{"id": "C1", "title": "a"}, {"id": "C1", "title": "b"}]}]}}`, errs.ErrCodeMalformedElement, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := decode(t, tt.input)
			_, err := Fix(doc, Options{})
			if !errs.Is(err, tt.code) {
				t.Fatalf("Fix() error = %v, want code %s", err, tt.code)
			}
			if errs.IsPrecondition(err) != tt.precondition {
				t.Errorf("IsPrecondition() = %v, want %v", errs.IsPrecondition(err), tt.precondition)
			}
			if doc.Layout != nil {
				t.Error("failed Fix() should not write a layout")
			}
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode([]byte("{not json"), model.FormatJSON); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("Decode() error = %v, want INVALID_FORMAT", err)
	}
}

func TestAudit(t *testing.T) {
	doc := decode(t, `{"eventModel": {"slices": [{"id": "S1", "commands": [{"id": "C1", "title": "Place Order", "type": "COMMAND"}]}]}}`)

	res, err := Audit(doc, Options{})
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	want := "[S1] COMMAND 'Place Order' (C1) missing SCREEN or AUTOMATION parent."
	if lines := res.Report.Lines(); len(lines) != 1 || lines[0] != want {
		t.Errorf("Lines() = %q, want [%q]", lines, want)
	}
	if res.RunID != res.Report.RunID {
		t.Error("RunID should match the report")
	}
}

func TestRunnerFixFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "weavr-self-model.json")
	out := filepath.Join(dir, "out", "nested", "weavr-model.json")
	if err := os.WriteFile(in, []byte(checkoutModel), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(nil, nil, nil)
	res, err := r.FixFile(context.Background(), in, out, Options{})
	if err != nil {
		t.Fatalf("FixFile: %v", err)
	}
	if res.Transform.Added != 3 {
		t.Errorf("Added = %d, want 3", res.Transform.Added)
	}

	written, err := model.ReadDocumentFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(written.Layout) != 5 {
		t.Errorf("output layout has %d entries, want 5", len(written.Layout))
	}
	data, _ := os.ReadFile(out)
	if strings.Contains(string(data), "INBOUND") || strings.Contains(string(data), "DOMAIN_EVENT") {
		t.Errorf("output still contains internal data:\n%s", data)
	}
}

func TestRunnerFixFileYAML(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "model.yaml")
	out := filepath.Join(dir, "model.out.yaml")
	yamlModel := `eventModel:
  slices:
    - id: S1
      commands:
        - id: C1
          title: Place Order
          type: COMMAND
          dependencies:
            - {id: SC1, type: INBOUND, elementType: SCREEN}
      screens:
        - {id: SC1, title: Cart, type: SCREEN}
`
	if err := os.WriteFile(in, []byte(yamlModel), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := NewRunner(nil, nil, nil).FixFile(context.Background(), in, out, Options{})
	if err != nil {
		t.Fatalf("FixFile: %v", err)
	}
	if res.Transform.Added != 1 {
		t.Errorf("Added = %d, want 1", res.Transform.Added)
	}
	written, err := model.ReadDocumentFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if written.Layout["SC1"].X != 0 || written.Layout["C1"].X != 250 {
		t.Errorf("layout = %+v", written.Layout)
	}
}

func TestRunnerFixFilePreconditions(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "weavr-model.json")
	r := NewRunner(nil, nil, nil)

	_, err := r.FixFile(context.Background(), filepath.Join(dir, "missing.json"), out, Options{})
	if !errs.Is(err, errs.ErrCodeFileNotFound) || !errs.IsPrecondition(err) {
		t.Errorf("missing input error = %v, want FILE_NOT_FOUND", err)
	}

	in := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(in, []byte(`{"eventModel": {}}`), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = r.FixFile(context.Background(), in, out, Options{})
	if !errs.Is(err, errs.ErrCodeMissingSlices) {
		t.Errorf("empty model error = %v, want MISSING_SLICES", err)
	}

	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no output should be written when a precondition fails")
	}
}

func TestRunnerFixCache(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)

	first, err := r.Fix(ctx, []byte(checkoutModel), model.FormatJSON, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.Hit {
		t.Error("first run should miss")
	}

	second, err := r.Fix(ctx, []byte(checkoutModel), model.FormatJSON, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.Hit {
		t.Error("second run should hit")
	}
	if second.RunID == first.RunID {
		t.Error("cached runs should get a fresh RunID")
	}
	if second.Transform != first.Transform || len(second.Document.Layout) != len(first.Document.Layout) {
		t.Errorf("cached result differs: %+v vs %+v", second.Transform, first.Transform)
	}

	// Different layout options are cached separately.
	third, err := r.Fix(ctx, []byte(checkoutModel), model.FormatJSON, Options{Layout: layoutWithRowHeight(200)})
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.Hit {
		t.Error("different layout options should miss")
	}

	// Refresh bypasses the read but still writes.
	sets := c.sets
	refreshed, err := r.Fix(ctx, []byte(checkoutModel), model.FormatJSON, Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.Hit || c.sets != sets+1 {
		t.Errorf("refresh: hit %v, sets %d -> %d", refreshed.CacheInfo.Hit, sets, c.sets)
	}
}

func TestRunnerAuditCache(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)
	input := []byte(`{"eventModel": {"slices": [{"id": "S1", "processors": [{"id": "A1", "title": "Notify", "type": "AUTOMATION"}]}]}}`)

	first, err := r.Audit(ctx, input, model.FormatJSON, Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Audit(ctx, input, model.FormatJSON, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.Hit || !second.CacheInfo.Hit {
		t.Errorf("hits = %v, %v; want false, true", first.CacheInfo.Hit, second.CacheInfo.Hit)
	}
	want := "[S1] AUTOMATION 'Notify' (A1) missing EVENT or READ_MODEL parent."
	if lines := second.Report.Lines(); len(lines) != 1 || lines[0] != want {
		t.Errorf("cached Lines() = %q", lines)
	}
}

func TestRunnerAuditFileMissing(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).AuditFile(context.Background(), filepath.Join(t.TempDir(), "nope.json"), Options{})
	if !errs.IsPrecondition(err) {
		t.Errorf("AuditFile() error = %v, want precondition", err)
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestRenderDOT(t *testing.T) {
	doc := decode(t, checkoutModel)
	if _, err := Fix(doc, Options{}); err != nil {
		t.Fatal(err)
	}

	out, err := Render(context.Background(), doc, []string{FormatDOT}, nodelink.Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out[FormatDOT]), `"SC1" -> "C1"`) {
		t.Errorf("DOT output missing synthesized edge:\n%s", out[FormatDOT])
	}

	if _, err := Render(context.Background(), doc, []string{"pdf"}, nodelink.Options{}); err == nil {
		t.Error("unsupported format should fail")
	}
}

func TestFixKeyOpts(t *testing.T) {
	a := (&Options{}).FixKeyOpts()
	b := (&Options{Layout: layoutWithRowHeight(180)}).FixKeyOpts()
	if a.RowHeight != 180 || a.Columns["EVENT"] != 500 {
		t.Errorf("FixKeyOpts() = %+v", a)
	}
	k := cache.NewDefaultKeyer()
	if k.FixKey("h", a) != k.FixKey("h", b) {
		t.Error("explicit defaults and zero options should share a cache key")
	}
}
