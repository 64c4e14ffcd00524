package calendar

// Selection tracks at most one selected day of a month grid. Only in-month
// cells are selectable; selecting an out-of-month cell is ignored rather
// than treated as an error.
//
// By default a selection survives month navigation, matching the observed
// mobile behavior where the highlighted day persists even when no longer
// rendered. Set ResetOnNavigate to clear it on every Navigate call instead.
type Selection struct {
	// ResetOnNavigate clears the selection when Navigate is called.
	ResetOnNavigate bool

	selected DateKey
	active   bool
}

// Select moves the selection to cell's day. Returns false (and leaves the
// selection unchanged) when the cell belongs to an adjacent month.
func (s *Selection) Select(cell DayCell) bool {
	if !cell.IsCurrentMonth {
		return false
	}
	s.selected = cell.DateKey
	s.active = true
	return true
}

// Selected reports the currently selected day, if any.
func (s *Selection) Selected() (DateKey, bool) {
	return s.selected, s.active
}

// Clear drops the selection.
func (s *Selection) Clear() {
	s.selected = ""
	s.active = false
}

// Navigate signals that the visible month changed.
func (s *Selection) Navigate() {
	if s.ResetOnNavigate {
		s.Clear()
	}
}

// IsOrderable reports whether the selection points at a grid cell with an
// available offer. False when nothing is selected or the selected day is not
// present in grid.
func (s *Selection) IsOrderable(grid MonthGrid) bool {
	if !s.active {
		return false
	}
	cell, ok := grid.Cell(s.selected)
	return ok && cell.HasOffer
}
