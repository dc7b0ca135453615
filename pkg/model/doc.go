// Package model defines the event model document and the graph context the
// transform phases operate on.
//
// # Overview
//
// An event model is a sequence of slices (vertical swim-lanes). Each slice
// holds typed elements in six buckets, enumerated in a fixed order:
//
//	commands, events, readmodels, screens, processors, integrationEvents
//
// Elements are connected by [Dependency] edges. Before the model is fixed an
// edge may be stored on either endpoint: INBOUND on the successor, OUTBOUND
// on the predecessor. After the fix pipeline only OUTBOUND edges remain.
//
// # Type Vocabularies
//
// Authoring tools write the internal vocabulary ([InternalType]): SCREEN,
// COMMAND, DOMAIN_EVENT, INTEGRATION_EVENT, READ_MODEL, AUTOMATION. Output
// documents use the smaller schema vocabulary ([SchemaType]): SCREEN,
// COMMAND, EVENT, READMODEL, AUTOMATION. [Normalize] is the single translation
// between them; INTEGRATION_EVENT maps to EVENT with context EXTERNAL.
//
// # Graph Context
//
// [NewGraph] indexes a [Document] by element id and records, per element, the
// owning slice id and position. Every phase receives the [Graph] explicitly:
//
//	doc, _ := model.ReadDocumentFile("weavr-self-model.json")
//	g, err := model.NewGraph(doc)
//	if err != nil {
//	    // ErrNoSlices or *MalformedError
//	}
//	for _, el := range g.Elements() {
//	    // slice order, then bucket order
//	}
//
// # Document Fidelity
//
// Fields the engine does not interpret are kept in Extra maps on documents,
// slices, elements, and dependencies, so a fixed document keeps the shape of
// its input. Documents can be read and written as JSON or YAML.
package model
