package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSlices is returned by [NewGraph] when eventModel.slices is absent or empty.
	ErrNoSlices = errors.New("no slices found in eventModel")

	// ErrMissingSliceID is returned by [NewGraph] for a slice without an id.
	ErrMissingSliceID = errors.New("slice is missing an id")

	// ErrMissingID is returned by [NewGraph] for an element without an id.
	ErrMissingID = errors.New("element is missing an id")

	// ErrMissingTitle is returned by [NewGraph] for an element without a title.
	ErrMissingTitle = errors.New("element is missing a title")

	// ErrDuplicateID is returned by [NewGraph] when two elements share an id.
	// Element ids are unique across the whole model, not just within a slice.
	ErrDuplicateID = errors.New("duplicate element id")
)

// MalformedError describes an element or slice that cannot be processed.
// It wraps one of the Err* sentinels so callers can use errors.Is.
type MalformedError struct {
	SliceIndex int    // Position of the owning slice
	SliceID    string // Owning slice id (may be empty)
	Bucket     string // Bucket the element was found in (empty for slice errors)
	Position   int    // Index within the bucket
	ElementID  string // Element id (may be empty)
	Err        error
}

func (e *MalformedError) Error() string {
	if e.Bucket == "" {
		return fmt.Sprintf("slice #%d: %v", e.SliceIndex, e.Err)
	}
	if e.ElementID != "" {
		return fmt.Sprintf("slice %q %s[%d] (%s): %v", e.SliceID, e.Bucket, e.Position, e.ElementID, e.Err)
	}
	return fmt.Sprintf("slice %q %s[%d]: %v", e.SliceID, e.Bucket, e.Position, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// entry is the index record for one element. sliceID and sliceIndex are the
// transient bookkeeping fields that live only until layout strips them.
type entry struct {
	el         *Element
	sliceID    string
	sliceIndex int
	tracked    bool
}

// Graph is the explicit context shared by the transform phases.
//
// It indexes every element of a caller-owned Document by id and records,
// per element, the owning slice id and slice position. Phases mutate the
// document's elements in place through the Graph; the document itself is
// never restructured and no element is ever removed.
//
// A Graph is not safe for concurrent use.
type Graph struct {
	doc   *Document
	index map[string]*entry
	order []string // element ids in visitation order
}

// NewGraph indexes doc. It returns [ErrNoSlices] when the model has no
// slices and a *[MalformedError] for slices without an id and for elements
// without an id or title or with a duplicate id. Dependencies on every
// element are initialized to an empty list.
func NewGraph(doc *Document) (*Graph, error) {
	slices := doc.Slices()
	if len(slices) == 0 {
		return nil, ErrNoSlices
	}

	g := &Graph{doc: doc, index: make(map[string]*entry)}
	for si, s := range slices {
		if s == nil || s.ID == "" {
			return nil, &MalformedError{SliceIndex: si, Err: ErrMissingSliceID}
		}
		for _, bucket := range Buckets {
			for pos, el := range *s.Bucket(bucket) {
				malformed := func(err error, id string) error {
					return &MalformedError{SliceIndex: si, SliceID: s.ID, Bucket: bucket, Position: pos, ElementID: id, Err: err}
				}
				switch {
				case el == nil || el.ID == "":
					return nil, malformed(ErrMissingID, "")
				case !el.HasTitle():
					return nil, malformed(ErrMissingTitle, el.ID)
				}
				if _, dup := g.index[el.ID]; dup {
					return nil, malformed(ErrDuplicateID, el.ID)
				}
				if el.Dependencies == nil {
					el.Dependencies = []Dependency{}
				}
				g.index[el.ID] = &entry{el: el, sliceID: s.ID, sliceIndex: si, tracked: true}
				g.order = append(g.order, el.ID)
			}
		}
	}
	return g, nil
}

// Document returns the document the graph indexes.
func (g *Graph) Document() *Document { return g.doc }

// Slices returns the document's slices in input order.
func (g *Graph) Slices() []*Slice { return g.doc.Slices() }

// Len returns the number of elements.
func (g *Graph) Len() int { return len(g.order) }

// Element returns the element with the given id.
func (g *Graph) Element(id string) (*Element, bool) {
	e, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return e.el, true
}

// Has reports whether id names an element of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Elements returns every element in visitation order: slice order, then
// bucket order within each slice.
func (g *Graph) Elements() []*Element {
	out := make([]*Element, len(g.order))
	for i, id := range g.order {
		out[i] = g.index[id].el
	}
	return out
}

// SliceOf returns the owning slice id and slice position recorded for id.
// ok is false for unknown ids and for elements already stripped.
func (g *Graph) SliceOf(id string) (sliceID string, index int, ok bool) {
	e, found := g.index[id]
	if !found || !e.tracked {
		return "", 0, false
	}
	return e.sliceID, e.sliceIndex, true
}

// Strip removes the transient slice-tracking fields of id, including any
// "_slice_id"/"_slice_index" keys carried over in the element's extra fields.
func (g *Graph) Strip(id string) {
	e, ok := g.index[id]
	if !ok {
		return
	}
	e.tracked = false
	e.sliceID = ""
	e.sliceIndex = 0
	delete(e.el.Extra, "_slice_id")
	delete(e.el.Extra, "_slice_index")
	if len(e.el.Extra) == 0 {
		e.el.Extra = nil
	}
}

// EdgeCount returns the total number of dependency entries across all elements.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, id := range g.order {
		n += len(g.index[id].el.Dependencies)
	}
	return n
}
