// Package layout assigns canvas coordinates to the elements of an event
// model.
//
// Each slice is a vertical lane of fixed width. Inside a lane every schema
// type has a column (SCREEN, COMMAND, EVENT/AUTOMATION, READMODEL from left
// to right) and elements of a column are stacked one row apart:
//
//	x = slice_index*(SliceWidth+SliceGap) + Columns[type]
//	y = BaseY + row*RowHeight
//
// The result is a map keyed by element id that is stored next to the event
// model rather than on the elements themselves.
package layout
