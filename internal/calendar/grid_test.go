package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildMonthGrid_WholeWeeks(t *testing.T) {
	references := []time.Time{
		date(2024, time.March, 1),
		date(2024, time.February, 15), // leap February
		date(2023, time.February, 1),  // non-leap February
		date(2024, time.September, 30),
		date(2024, time.December, 25),
		date(2025, time.June, 1),      // June 2025 starts on a Sunday
		date(2021, time.February, 10), // Feb 2021 fits exactly 4 weeks
	}

	for _, ref := range references {
		grid := BuildMonthGrid(ref, date(2024, time.January, 1))

		if len(grid.Cells)%7 != 0 {
			t.Errorf("%s: expected cell count multiple of 7, got %d", ref.Format("2006-01"), len(grid.Cells))
		}

		first, err := grid.Cells[0].DateKey.Time()
		if err != nil {
			t.Fatalf("%s: bad first key: %v", ref.Format("2006-01"), err)
		}
		if first.Weekday() != time.Monday {
			t.Errorf("%s: expected first cell Monday, got %s", ref.Format("2006-01"), first.Weekday())
		}

		last, err := grid.Cells[len(grid.Cells)-1].DateKey.Time()
		if err != nil {
			t.Fatalf("%s: bad last key: %v", ref.Format("2006-01"), err)
		}
		if last.Weekday() != time.Sunday {
			t.Errorf("%s: expected last cell Sunday, got %s", ref.Format("2006-01"), last.Weekday())
		}

		// Strictly increasing, no gaps
		for i := 1; i < len(grid.Cells); i++ {
			prev, _ := grid.Cells[i-1].DateKey.Time()
			cur, _ := grid.Cells[i].DateKey.Time()
			if !cur.Equal(prev.AddDate(0, 0, 1)) {
				t.Fatalf("%s: gap between %s and %s", ref.Format("2006-01"), grid.Cells[i-1].DateKey, grid.Cells[i].DateKey)
			}
		}
	}
}

func TestBuildMonthGrid_March2024(t *testing.T) {
	// 2024-03-01 is a Friday: the grid must run 2024-02-26 (Mon) through
	// 2024-03-31 (Sun), 35 cells in 5 weeks.
	grid := BuildMonthGrid(date(2024, time.March, 1), date(2024, time.March, 15))

	if len(grid.Cells) != 35 {
		t.Fatalf("Expected 35 cells, got %d", len(grid.Cells))
	}

	first, last := grid.Bounds()
	if first != "2024-02-26" {
		t.Errorf("Expected grid start 2024-02-26, got %s", first)
	}
	if last != "2024-03-31" {
		t.Errorf("Expected grid end 2024-03-31, got %s", last)
	}

	if weeks := grid.Weeks(); len(weeks) != 5 {
		t.Errorf("Expected 5 weeks, got %d", len(weeks))
	}
}

func TestBuildMonthGrid_CurrentMonthMembership(t *testing.T) {
	ref := date(2024, time.March, 10)
	grid := BuildMonthGrid(ref, date(2024, time.January, 1))

	seen := make(map[DateKey]int)
	for _, cell := range grid.Cells {
		if cell.IsCurrentMonth {
			seen[cell.DateKey]++
		}
	}

	if len(seen) != 31 {
		t.Fatalf("Expected 31 in-month days for March, got %d", len(seen))
	}

	for d := 1; d <= 31; d++ {
		key := KeyOf(date(2024, time.March, d))
		if seen[key] != 1 {
			t.Errorf("Expected day %s to appear exactly once in-month, got %d", key, seen[key])
		}
	}
}

func TestBuildMonthGrid_Today(t *testing.T) {
	grid := BuildMonthGrid(date(2024, time.March, 1), date(2024, time.March, 15))

	count := 0
	for _, cell := range grid.Cells {
		if cell.IsToday {
			count++
			if cell.DateKey != "2024-03-15" {
				t.Errorf("Expected today to be 2024-03-15, got %s", cell.DateKey)
			}
		}
	}

	if count != 1 {
		t.Errorf("Expected exactly one today cell, got %d", count)
	}
}

func TestBuildMonthGrid_TodayOutsideGrid(t *testing.T) {
	grid := BuildMonthGrid(date(2024, time.March, 1), date(2024, time.July, 4))

	for _, cell := range grid.Cells {
		if cell.IsToday {
			t.Errorf("Expected no today cell, got %s", cell.DateKey)
		}
	}
}

func TestBuildMonthGrid_DayLabels(t *testing.T) {
	grid := BuildMonthGrid(date(2024, time.March, 1), date(2024, time.March, 1))

	if grid.Cells[0].DayLabel != "26" {
		t.Errorf("Expected leading cell label 26, got %s", grid.Cells[0].DayLabel)
	}
	if grid.Cells[4].DayLabel != "1" {
		t.Errorf("Expected label 1 for March 1st, got %s", grid.Cells[4].DayLabel)
	}
}

func TestAnnotate_ExactMembership(t *testing.T) {
	grid := BuildMonthGrid(date(2024, time.March, 1), date(2024, time.March, 1))

	annotated := Annotate(grid,
		KeySet([]string{"2024-03-10"}),
		KeySet([]string{"2024-03-12", "2024-02-27"}),
	)

	for _, cell := range annotated.Cells {
		wantOffer := cell.DateKey == "2024-03-10"
		wantOrder := cell.DateKey == "2024-03-12" || cell.DateKey == "2024-02-27"

		if cell.HasOffer != wantOffer {
			t.Errorf("Cell %s: HasOffer = %v, want %v", cell.DateKey, cell.HasOffer, wantOffer)
		}
		if cell.HasOrder != wantOrder {
			t.Errorf("Cell %s: HasOrder = %v, want %v", cell.DateKey, cell.HasOrder, wantOrder)
		}
	}
}

func TestAnnotate_NonCanonicalKeysNeverMatch(t *testing.T) {
	grid := BuildMonthGrid(date(2024, time.March, 1), date(2024, time.March, 1))

	// Membership is exact string equality on canonical keys; sloppy caller
	// formats silently miss.
	annotated := Annotate(grid, KeySet([]string{"2024-3-10", "03/10/2024"}), nil)

	for _, cell := range annotated.Cells {
		if cell.HasOffer {
			t.Errorf("Cell %s unexpectedly matched a non-canonical key", cell.DateKey)
		}
	}
}

func TestAnnotate_DoesNotMutateInput(t *testing.T) {
	grid := BuildMonthGrid(date(2024, time.March, 1), date(2024, time.March, 1))

	Annotate(grid, KeySet([]string{"2024-03-10"}), KeySet([]string{"2024-03-11"}))

	for _, cell := range grid.Cells {
		if cell.HasOffer || cell.HasOrder {
			t.Fatalf("Annotate mutated input grid at %s", cell.DateKey)
		}
	}
}

func TestMonthGrid_Cell(t *testing.T) {
	grid := BuildMonthGrid(date(2024, time.March, 1), date(2024, time.March, 1))

	if _, ok := grid.Cell("2024-03-15"); !ok {
		t.Error("Expected to find 2024-03-15 in March grid")
	}

	if _, ok := grid.Cell("2024-05-01"); ok {
		t.Error("Did not expect to find 2024-05-01 in March grid")
	}
}
