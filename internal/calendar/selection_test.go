package calendar

import (
	"testing"
	"time"
)

func marchGrid(t *testing.T, offerKeys ...string) MonthGrid {
	t.Helper()
	grid := BuildMonthGrid(date(2024, time.March, 1), date(2024, time.March, 15))
	return Annotate(grid, KeySet(offerKeys), nil)
}

func TestSelection_SelectInMonth(t *testing.T) {
	grid := marchGrid(t)

	var sel Selection
	cell, _ := grid.Cell("2024-03-10")

	if !sel.Select(cell) {
		t.Fatal("Expected in-month select to succeed")
	}

	key, ok := sel.Selected()
	if !ok || key != "2024-03-10" {
		t.Errorf("Expected selection 2024-03-10, got %q (active=%v)", key, ok)
	}
}

func TestSelection_OutOfMonthIsNoOp(t *testing.T) {
	grid := marchGrid(t)

	var sel Selection
	inMonth, _ := grid.Cell("2024-03-10")
	sel.Select(inMonth)

	leading, _ := grid.Cell("2024-02-27")
	if leading.IsCurrentMonth {
		t.Fatal("Test setup: 2024-02-27 should be out-of-month")
	}

	if sel.Select(leading) {
		t.Error("Expected out-of-month select to be rejected")
	}

	key, ok := sel.Selected()
	if !ok || key != "2024-03-10" {
		t.Errorf("Expected selection unchanged at 2024-03-10, got %q (active=%v)", key, ok)
	}
}

func TestSelection_Reselect(t *testing.T) {
	grid := marchGrid(t)

	var sel Selection
	first, _ := grid.Cell("2024-03-10")
	second, _ := grid.Cell("2024-03-20")

	sel.Select(first)
	sel.Select(second)

	if key, _ := sel.Selected(); key != "2024-03-20" {
		t.Errorf("Expected selection to move to 2024-03-20, got %s", key)
	}
}

func TestSelection_IsOrderable(t *testing.T) {
	grid := marchGrid(t, "2024-03-10")

	var sel Selection
	if sel.IsOrderable(grid) {
		t.Error("Unselected state must not be orderable")
	}

	noOffer, _ := grid.Cell("2024-03-11")
	sel.Select(noOffer)
	if sel.IsOrderable(grid) {
		t.Error("Selected day without offer must not be orderable")
	}

	withOffer, _ := grid.Cell("2024-03-10")
	sel.Select(withOffer)
	if !sel.IsOrderable(grid) {
		t.Error("Selected day with offer must be orderable")
	}
}

func TestSelection_NotOrderableWhenMissingFromGrid(t *testing.T) {
	march := marchGrid(t, "2024-03-10")
	april := Annotate(BuildMonthGrid(date(2024, time.April, 1), date(2024, time.March, 15)), nil, nil)

	var sel Selection
	cell, _ := march.Cell("2024-03-10")
	sel.Select(cell)

	// The selection persisted across navigation but the day is no longer
	// rendered.
	if sel.IsOrderable(april) {
		t.Error("Selection pointing outside the visible grid must not be orderable")
	}
}

func TestSelection_PersistsAcrossNavigationByDefault(t *testing.T) {
	grid := marchGrid(t)

	var sel Selection
	cell, _ := grid.Cell("2024-03-10")
	sel.Select(cell)

	sel.Navigate()

	if _, ok := sel.Selected(); !ok {
		t.Error("Expected selection to survive navigation by default")
	}
}

func TestSelection_ResetOnNavigate(t *testing.T) {
	grid := marchGrid(t)

	sel := Selection{ResetOnNavigate: true}
	cell, _ := grid.Cell("2024-03-10")
	sel.Select(cell)

	sel.Navigate()

	if _, ok := sel.Selected(); ok {
		t.Error("Expected selection to clear on navigation with ResetOnNavigate")
	}
}

func TestSelection_Clear(t *testing.T) {
	grid := marchGrid(t, "2024-03-10")

	var sel Selection
	cell, _ := grid.Cell("2024-03-10")
	sel.Select(cell)
	sel.Clear()

	if _, ok := sel.Selected(); ok {
		t.Error("Expected no selection after Clear")
	}
	if sel.IsOrderable(grid) {
		t.Error("Cleared selection must not be orderable")
	}
}
