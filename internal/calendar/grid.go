package calendar

import (
	"strconv"
	"time"
)

// DayCell is one day of a rendered month grid. Cells are built fresh per
// grid and not mutated afterwards; Annotate returns flagged copies.
type DayCell struct {
	DateKey        DateKey `json:"date"`
	DayLabel       string  `json:"label"`
	IsToday        bool    `json:"is_today"`
	IsCurrentMonth bool    `json:"in_month"`
	HasOffer       bool    `json:"has_offer"`
	HasOrder       bool    `json:"has_order"`
}

// MonthGrid is an ordered run of whole Monday-start weeks covering one
// month: the first cell is always a Monday, the last a Sunday, and the
// length is a multiple of 7.
type MonthGrid struct {
	Month time.Month `json:"month"`
	Year  int        `json:"year"`
	Cells []DayCell  `json:"cells"`
}

// BuildMonthGrid produces the grid for the month containing reference.
// Only reference's year and month matter; today drives the IsToday flag.
// The grid runs from the Monday on or before the 1st through the Sunday on
// or after the last day of the month.
func BuildMonthGrid(reference, today time.Time) MonthGrid {
	monthStart := time.Date(reference.Year(), reference.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	// Shift Monday to 0 so the snap arithmetic works in both directions.
	gridStart := monthStart.AddDate(0, 0, -int((monthStart.Weekday()+6)%7))
	gridEnd := monthEnd.AddDate(0, 0, int((7-monthEnd.Weekday())%7))

	todayKey := KeyOf(today)

	cells := make([]DayCell, 0, 42)
	for day := gridStart; !day.After(gridEnd); day = day.AddDate(0, 0, 1) {
		key := KeyOf(day)
		cells = append(cells, DayCell{
			DateKey:        key,
			DayLabel:       strconv.Itoa(day.Day()),
			IsToday:        key == todayKey,
			IsCurrentMonth: day.Month() == monthStart.Month(),
		})
	}

	return MonthGrid{
		Month: monthStart.Month(),
		Year:  monthStart.Year(),
		Cells: cells,
	}
}

// Annotate returns a copy of the grid with per-cell offer/order flags set by
// exact DateKey membership. Pure: the input grid is left untouched.
func Annotate(grid MonthGrid, offerKeys, orderKeys map[DateKey]bool) MonthGrid {
	annotated := MonthGrid{
		Month: grid.Month,
		Year:  grid.Year,
		Cells: make([]DayCell, len(grid.Cells)),
	}

	for i, cell := range grid.Cells {
		cell.HasOffer = offerKeys[cell.DateKey]
		cell.HasOrder = orderKeys[cell.DateKey]
		annotated.Cells[i] = cell
	}

	return annotated
}

// Cell returns the grid cell with the given key, if present.
func (g MonthGrid) Cell(key DateKey) (DayCell, bool) {
	for _, cell := range g.Cells {
		if cell.DateKey == key {
			return cell, true
		}
	}
	return DayCell{}, false
}

// Weeks partitions the cells into rows of 7 for rendering.
func (g MonthGrid) Weeks() [][]DayCell {
	weeks := make([][]DayCell, 0, len(g.Cells)/7)
	for i := 0; i+7 <= len(g.Cells); i += 7 {
		weeks = append(weeks, g.Cells[i:i+7])
	}
	return weeks
}

// Bounds returns the first and last DateKeys of the grid. An empty grid
// returns zero keys, but BuildMonthGrid never produces one.
func (g MonthGrid) Bounds() (first, last DateKey) {
	if len(g.Cells) == 0 {
		return "", ""
	}
	return g.Cells[0].DateKey, g.Cells[len(g.Cells)-1].DateKey
}
