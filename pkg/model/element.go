package model

import (
	"encoding/json"
	"slices"
)

// Dependency is a directed edge stored on one of its two endpoints.
//
// ID names the element at the other end. ElementType is that element's type,
// denormalized for display; it must match the referenced element's current
// type once the graph has been fixed.
type Dependency struct {
	ID          string
	Type        Direction
	Title       string
	ElementType string

	// Extra holds fields the engine does not interpret.
	Extra map[string]json.RawMessage
}

// IsInbound reports whether the edge points at its carrier from a predecessor.
func (d Dependency) IsInbound() bool { return d.Type == Inbound }

// IsOutbound reports whether the edge points from its carrier to a successor.
func (d Dependency) IsOutbound() bool { return d.Type == Outbound }

// MarshalJSON writes id, type, title, elementType followed by extra fields.
func (d Dependency) MarshalJSON() ([]byte, error) {
	return marshalObject([]field{
		{key: "id", value: d.ID},
		{key: "type", value: d.Type},
		{key: "title", value: d.Title},
		{key: "elementType", value: d.ElementType},
	}, d.Extra)
}

// UnmarshalJSON reads a dependency, keeping unknown fields in Extra.
func (d *Dependency) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	var out Dependency
	if _, err := take(obj, "id", &out.ID); err != nil {
		return err
	}
	if _, err := take(obj, "type", &out.Type); err != nil {
		return err
	}
	if _, err := take(obj, "title", &out.Title); err != nil {
		return err
	}
	if _, err := take(obj, "elementType", &out.ElementType); err != nil {
		return err
	}
	out.Extra = rest(obj)
	*d = out
	return nil
}

// Element is a typed node of the event model.
//
// Type holds the tag exactly as written, which is an internal tag before
// normalization and a schema tag after it. Element values are shared by
// pointer between a Slice bucket and the Graph index, so phases mutate the
// document in place.
type Element struct {
	ID           string
	Title        string
	Type         string
	Context      Context
	Dependencies []Dependency

	// Extra holds fields the engine does not interpret, so output documents
	// keep the shape of their input.
	Extra map[string]json.RawMessage

	// titleSet records an explicitly present title, which may be empty.
	titleSet bool
}

// HasTitle reports whether the element carries a title.
func (e *Element) HasTitle() bool { return e.titleSet || e.Title != "" }

// SchemaType returns the element's type in the schema vocabulary.
func (e *Element) SchemaType() SchemaType { return SchemaOf(e.Type) }

// InternalType returns the element's type in the internal vocabulary.
func (e *Element) InternalType() InternalType { return InternalOf(e.Type, e.Context) }

// Normalize rewrites the element's type tag and the elementType tag of each
// of its dependencies into the schema vocabulary. INTEGRATION_EVENT also sets
// Context to ContextExternal. It reports whether anything changed; calling it
// on an already normalized element is a no-op.
func (e *Element) Normalize() bool {
	changed := false
	if t, ok := ParseInternal(e.Type); ok && IsInternalOnly(e.Type) {
		schema, ctx := Normalize(t)
		e.Type = string(schema)
		if ctx != "" {
			e.Context = ctx
		}
		changed = true
	}
	for i := range e.Dependencies {
		if IsInternalOnly(e.Dependencies[i].ElementType) {
			e.Dependencies[i].ElementType = string(SchemaOf(e.Dependencies[i].ElementType))
			changed = true
		}
	}
	return changed
}

// Outbound returns the element's OUTBOUND edges.
func (e *Element) Outbound() []Dependency {
	return filterDirection(e.Dependencies, Outbound)
}

// Inbound returns the element's INBOUND edges.
func (e *Element) Inbound() []Dependency {
	return filterDirection(e.Dependencies, Inbound)
}

// HasOutboundTo reports whether an OUTBOUND edge already targets id.
func (e *Element) HasOutboundTo(id string) bool {
	return slices.ContainsFunc(e.Dependencies, func(d Dependency) bool {
		return d.IsOutbound() && d.ID == id
	})
}

func filterDirection(deps []Dependency, dir Direction) []Dependency {
	var out []Dependency
	for _, d := range deps {
		if d.Type == dir {
			out = append(out, d)
		}
	}
	return out
}

// MarshalJSON writes the element with a non-null dependencies array.
func (e Element) MarshalJSON() ([]byte, error) {
	deps := e.Dependencies
	if deps == nil {
		deps = []Dependency{}
	}
	return marshalObject([]field{
		{key: "id", value: e.ID},
		{key: "title", value: e.Title, omit: !e.HasTitle()},
		{key: "type", value: e.Type},
		{key: "context", value: e.Context, omit: e.Context == ""},
		{key: "dependencies", value: deps},
	}, e.Extra)
}

// UnmarshalJSON reads an element, keeping unknown fields in Extra.
func (e *Element) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	var out Element
	if _, err := take(obj, "id", &out.ID); err != nil {
		return err
	}
	set, err := take(obj, "title", &out.Title)
	if err != nil {
		return err
	}
	out.titleSet = set
	if _, err := take(obj, "type", &out.Type); err != nil {
		return err
	}
	if _, err := take(obj, "context", &out.Context); err != nil {
		return err
	}
	if _, err := take(obj, "dependencies", &out.Dependencies); err != nil {
		return err
	}
	out.Extra = rest(obj)
	*e = out
	return nil
}
