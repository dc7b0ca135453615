package model

import (
	"encoding/json"
)

// Bucket names in enumeration order. Every pass over a slice visits its
// elements bucket by bucket in this order.
const (
	BucketCommands          = "commands"
	BucketEvents            = "events"
	BucketReadModels        = "readmodels"
	BucketScreens           = "screens"
	BucketProcessors        = "processors"
	BucketIntegrationEvents = "integrationEvents"
)

// Buckets lists the bucket names in enumeration order.
var Buckets = []string{
	BucketCommands,
	BucketEvents,
	BucketReadModels,
	BucketScreens,
	BucketProcessors,
	BucketIntegrationEvents,
}

// Slice is a vertical swim-lane of the event model. A nil bucket was absent
// from the input and stays absent in the output.
type Slice struct {
	ID                string
	Commands          []*Element
	Events            []*Element
	ReadModels        []*Element
	Screens           []*Element
	Processors        []*Element
	IntegrationEvents []*Element

	Extra map[string]json.RawMessage
}

// Bucket returns a pointer to the named bucket, or nil for an unknown name.
func (s *Slice) Bucket(name string) *[]*Element {
	switch name {
	case BucketCommands:
		return &s.Commands
	case BucketEvents:
		return &s.Events
	case BucketReadModels:
		return &s.ReadModels
	case BucketScreens:
		return &s.Screens
	case BucketProcessors:
		return &s.Processors
	case BucketIntegrationEvents:
		return &s.IntegrationEvents
	}
	return nil
}

// Elements returns the slice's elements in bucket enumeration order.
func (s *Slice) Elements() []*Element {
	var out []*Element
	for _, name := range Buckets {
		out = append(out, *s.Bucket(name)...)
	}
	return out
}

// MarshalJSON writes id, the present buckets in enumeration order, then extra fields.
func (s Slice) MarshalJSON() ([]byte, error) {
	fields := []field{{key: "id", value: s.ID}}
	for _, name := range Buckets {
		b := *s.Bucket(name)
		fields = append(fields, field{key: name, value: b, omit: b == nil})
	}
	return marshalObject(fields, s.Extra)
}

// UnmarshalJSON reads a slice, keeping unknown fields in Extra.
func (s *Slice) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	var out Slice
	if _, err := take(obj, "id", &out.ID); err != nil {
		return err
	}
	for _, name := range Buckets {
		b := out.Bucket(name)
		present, err := take(obj, name, b)
		if err != nil {
			return err
		}
		if present && *b == nil {
			*b = []*Element{}
		}
	}
	out.Extra = rest(obj)
	*s = out
	return nil
}

// EventModel is the "eventModel" section of a document.
type EventModel struct {
	Slices []*Slice

	Extra map[string]json.RawMessage
}

// MarshalJSON writes slices followed by extra fields.
func (m EventModel) MarshalJSON() ([]byte, error) {
	slices := m.Slices
	if slices == nil {
		slices = []*Slice{}
	}
	return marshalObject([]field{{key: "slices", value: slices}}, m.Extra)
}

// UnmarshalJSON reads the event model section, keeping unknown fields in Extra.
func (m *EventModel) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	var out EventModel
	if _, err := take(obj, "slices", &out.Slices); err != nil {
		return err
	}
	out.Extra = rest(obj)
	*m = out
	return nil
}

// Placement is the computed position of one element.
type Placement struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Height int    `json:"height"`
	Type   string `json:"type"`
	Title  string `json:"title"`
}

// Document is a complete event model file. Layout is empty on input and
// filled by the fix pipeline.
type Document struct {
	EventModel *EventModel
	Layout     map[string]Placement

	Extra map[string]json.RawMessage
}

// Slices returns the document's slices, or nil when the eventModel section
// is absent.
func (d *Document) Slices() []*Slice {
	if d == nil || d.EventModel == nil {
		return nil
	}
	return d.EventModel.Slices
}

// MarshalJSON writes eventModel, extra fields, then layout last.
func (d Document) MarshalJSON() ([]byte, error) {
	return marshalObject(
		[]field{{key: "eventModel", value: d.EventModel, omit: d.EventModel == nil}},
		d.Extra,
		field{key: "layout", value: d.Layout, omit: d.Layout == nil},
	)
}

// UnmarshalJSON reads a document, keeping unknown fields in Extra.
func (d *Document) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	var out Document
	if _, err := take(obj, "eventModel", &out.EventModel); err != nil {
		return err
	}
	if _, err := take(obj, "layout", &out.Layout); err != nil {
		return err
	}
	out.Extra = rest(obj)
	*d = out
	return nil
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() (*Document, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var out Document
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
