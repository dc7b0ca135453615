// Package pkg provides the core libraries for weavr, the event model fixer.
//
// # Overview
//
// Weavr takes an event model as authored (slices of commands, events, read
// models, screens, automations and integration events, with dependencies
// often recorded only on the successor) and turns it into canonical form:
// schema type names, every relationship stored once as an OUTBOUND edge on
// its predecessor, and a canvas layout. It can also audit a model against
// the event modeling patterns.
//
// # Architecture
//
// The typical data flow through weavr:
//
//	weavr-self-model.json
//	         ↓
//	    [model] package (decode, index by id)
//	         ↓
//	    [model/transform] package (normalize types, synthesize edges)
//	         ↓
//	    [layout] package (placements, strip slice tracking)
//	         ↓
//	weavr-model.json
//
// [audit] reads the same indexed model and reports elements without a valid
// predecessor. [pipeline] wires the stages together with caching and is
// shared by the CLI and the HTTP server.
//
// # Quick Start
//
//	doc, _ := model.ReadDocumentFile("weavr-self-model.json")
//	g, _ := model.NewGraph(doc)
//	res := transform.Apply(g)
//	doc.Layout = layout.Build(g, layout.Options{})
//	fmt.Println("Fixed", res.Added, "dependencies")
//
// # Main Packages
//
// [model] - Document types, the two type vocabularies and the JSON/YAML
// codec. [model.Graph] is the id index shared by every phase.
//
// [model/transform] - Type normalization and OUTBOUND edge synthesis.
//
// [layout] - Canvas placement per slice and type column.
//
// [audit] - Predecessor rules and violation reports.
//
// [render/nodelink] - Graphviz diagrams of a fixed model.
//
// [pipeline] - Fix, audit and render orchestration with result caching.
//
// [cache] - File, Redis and null result caches.
//
// [config] - weavr.toml loading.
//
// [errors] - Coded errors and input validation.
//
// [observability] - Pipeline, cache and HTTP hooks, with a Prometheus
// implementation.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
//	go test ./...                 # All tests
//	go test ./pkg/model/...       # Specific package
//	go test -run Example ./pkg/...  # Examples only
//
// Redis tests run only when WEAVR_TEST_REDIS_URL is set.
//
// [model]: https://pkg.go.dev/github.com/matzehuels/weavr/pkg/model
// [model/transform]: https://pkg.go.dev/github.com/matzehuels/weavr/pkg/model/transform
// [layout]: https://pkg.go.dev/github.com/matzehuels/weavr/pkg/layout
// [audit]: https://pkg.go.dev/github.com/matzehuels/weavr/pkg/audit
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/weavr/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/weavr/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/weavr/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/weavr/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/weavr/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/weavr/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/weavr/pkg/buildinfo
package pkg
