package entity

import "slices"

const (
	labelToggleDescending = "Toggle descending"
	labelToggleAscending  = "Toggle ascending"
)

// SortOrder - direction of the move list.
type SortOrder struct {
	Ascending bool `json:"ascending"`
}

func NewSortOrder() SortOrder {
	return SortOrder{Ascending: true}
}

func (that *SortOrder) Toggle() {
	that.Ascending = !that.Ascending
}

// Label - text of the button that switches to the other order.
func (that SortOrder) Label() string {
	if that.Ascending {
		return labelToggleDescending
	}
	return labelToggleAscending
}

// Apply - returns moves in this order. The input slice is left untouched.
func (that SortOrder) Apply(moves []MoveDescriptor) []MoveDescriptor {
	ordered := slices.Clone(moves)
	if !that.Ascending {
		slices.Reverse(ordered)
	}

	return ordered
}
