package layout

import "github.com/matzehuels/weavr/pkg/model"

// Default geometry, in canvas units.
const (
	DefaultSliceWidth = 1200
	DefaultSliceGap   = 100
	DefaultRowHeight  = 180
	DefaultBaseY      = 100
	DefaultHeight     = 120
)

// DefaultColumns returns the horizontal offset of each schema type within a
// slice. AUTOMATION and EVENT share a column.
func DefaultColumns() map[model.SchemaType]int {
	return map[model.SchemaType]int{
		model.SchemaScreen:     0,
		model.SchemaCommand:    250,
		model.SchemaAutomation: 500,
		model.SchemaEvent:      500,
		model.SchemaReadModel:  750,
	}
}

// Options configures [Build]. Zero fields take the package defaults.
type Options struct {
	SliceWidth int
	SliceGap   int
	RowHeight  int
	BaseY      int
	Height     int
	Columns    map[model.SchemaType]int
}

// WithDefaults returns a copy of o with every zero field set to its default.
// Columns missing from a non-nil map are filled from [DefaultColumns].
func (o Options) WithDefaults() Options {
	if o.SliceWidth == 0 {
		o.SliceWidth = DefaultSliceWidth
	}
	if o.SliceGap == 0 {
		o.SliceGap = DefaultSliceGap
	}
	if o.RowHeight == 0 {
		o.RowHeight = DefaultRowHeight
	}
	if o.BaseY == 0 {
		o.BaseY = DefaultBaseY
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	cols := DefaultColumns()
	for t, x := range o.Columns {
		cols[t] = x
	}
	o.Columns = cols
	return o
}

// Column returns the x offset for t. Unknown types use column 0.
func (o Options) Column(t model.SchemaType) int {
	return o.Columns[t]
}

// Build computes a placement for every element of g and strips each
// element's slice-tracking fields once it is placed.
//
// Slices are laid out left to right in input order; slice i starts at
// i*(SliceWidth+SliceGap). Within a slice, elements are visited in bucket
// order and stacked top to bottom in their type's column starting at BaseY.
// Row counters are kept per schema type, so elements of one type are one
// RowHeight apart while types that share a column (EVENT and AUTOMATION)
// may share a row.
//
// Types are read from the elements as they are, so Build normally runs after
// type normalization; internal tags are mapped to their schema column and an
// element without a type is placed as a COMMAND.
func Build(g *model.Graph, opts Options) map[string]model.Placement {
	opts = opts.WithDefaults()
	out := make(map[string]model.Placement, g.Len())

	for i, s := range g.Slices() {
		baseX := i * (opts.SliceWidth + opts.SliceGap)
		rows := make(map[model.SchemaType]int)

		for _, el := range s.Elements() {
			typ := placementType(el)
			row := rows[typ]
			rows[typ]++

			out[el.ID] = model.Placement{
				X:      baseX + opts.Column(typ),
				Y:      opts.BaseY + row*opts.RowHeight,
				Height: opts.Height,
				Type:   string(typ),
				Title:  el.Title,
			}
			g.Strip(el.ID)
		}
	}
	return out
}

func placementType(el *model.Element) model.SchemaType {
	if el.Type == "" {
		return model.SchemaCommand
	}
	return el.SchemaType()
}
