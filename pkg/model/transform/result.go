package transform

// Result contains metrics about the transformations applied to a graph.
//
// Result is returned by [Apply] to give visibility into what changed, which
// is what the CLI reports after a fix run. A second [Apply] on already fixed
// data reports zero for every counter.
type Result struct {
	// Normalized is the number of elements whose type tag, or the elementType
	// tag of one of their dependencies, was rewritten to the schema vocabulary.
	Normalized int

	// Added is the number of OUTBOUND edges synthesized from INBOUND edges.
	Added int

	// Resynced is the number of existing OUTBOUND edges whose elementType was
	// updated to the referenced element's current type.
	Resynced int

	// Dangling is the number of INBOUND edges that referenced an unknown id
	// and therefore contributed nothing.
	Dangling int

	// Purged is the number of INBOUND edges discarded after synthesis.
	Purged int
}
