package schedule

import (
	"testing"
	"time"

	"github.com/fisiomanager/backend/internal/repo"
	"github.com/google/uuid"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandWeekly_CrossesMonthBoundary(t *testing.T) {
	got, err := ExpandWeekly(date(2024, 1, 29), 3)
	if err != nil {
		t.Fatalf("ExpandWeekly: %v", err)
	}
	want := []time.Time{date(2024, 1, 29), date(2024, 2, 5), date(2024, 2, 12)}
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("occurrence %d: got %s, want %s", i, got[i].Format(DateLayout), want[i].Format(DateLayout))
		}
	}
}

func TestExpandWeekly_CrossesYearBoundary(t *testing.T) {
	got, err := ExpandWeekly(date(2024, 12, 23), 3)
	if err != nil {
		t.Fatalf("ExpandWeekly: %v", err)
	}
	want := []string{"2024-12-23", "2024-12-30", "2025-01-06"}
	for i, w := range want {
		if got[i].Format(DateLayout) != w {
			t.Errorf("occurrence %d: got %s, want %s", i, got[i].Format(DateLayout), w)
		}
	}
}

func TestExpandWeekly_LeapFebruary(t *testing.T) {
	got, err := ExpandWeekly(date(2024, 2, 22), 2)
	if err != nil {
		t.Fatalf("ExpandWeekly: %v", err)
	}
	if got[1].Format(DateLayout) != "2024-02-29" {
		t.Errorf("second occurrence: got %s, want 2024-02-29", got[1].Format(DateLayout))
	}
}

func TestExpandWeekly_SingleWeekDegeneratesToAnchor(t *testing.T) {
	got, err := ExpandWeekly(date(2024, 3, 30), 1)
	if err != nil {
		t.Fatalf("ExpandWeekly: %v", err)
	}
	if len(got) != 1 || !got[0].Equal(date(2024, 3, 30)) {
		t.Fatalf("got %v, want single anchor date", got)
	}
}

func TestExpandWeekly_RejectsNonPositive(t *testing.T) {
	for _, w := range []int{0, -1, -12} {
		if _, err := ExpandWeekly(date(2024, 3, 30), w); err != ErrInvalidWeekCount {
			t.Errorf("weeks=%d: got %v, want ErrInvalidWeekCount", w, err)
		}
	}
}

func TestValidateRange(t *testing.T) {
	if err := ValidateRange(date(2024, 4, 1), date(2024, 4, 30)); err != nil {
		t.Errorf("valid range: %v", err)
	}
	if err := ValidateRange(date(2024, 4, 1), date(2024, 4, 1)); err != nil {
		t.Errorf("single-day range: %v", err)
	}
	if err := ValidateRange(date(2024, 4, 30), date(2024, 4, 1)); err != ErrInvalidRange {
		t.Errorf("inverted range: got %v, want ErrInvalidRange", err)
	}
}

func appt(d time.Time, startTime string) repo.Appointment {
	return repo.Appointment{ID: uuid.New(), Date: d, StartTime: startTime}
}

func TestSort_DateThenTime(t *testing.T) {
	list := []repo.Appointment{
		appt(date(2024, 4, 6), "10:00:00"),
		appt(date(2024, 4, 1), "15:00:00"),
		appt(date(2024, 4, 6), "08:30:00"),
		appt(date(2024, 4, 1), "09:00:00"),
	}
	Sort(list)
	for i := 1; i < len(list); i++ {
		a, b := list[i-1], list[i]
		da, db := a.Date.Format(DateLayout), b.Date.Format(DateLayout)
		if da > db || (da == db && a.StartTime > b.StartTime) {
			t.Fatalf("order violated at %d: %s %s before %s %s", i, da, a.StartTime, db, b.StartTime)
		}
	}
}

func TestGroupByDate_PartitionsWithoutLossOrDuplication(t *testing.T) {
	list := []repo.Appointment{
		appt(date(2024, 4, 1), "09:00:00"),
		appt(date(2024, 4, 1), "10:00:00"),
		appt(date(2024, 4, 6), "09:00:00"),
		appt(date(2024, 4, 13), "09:00:00"),
	}
	dates, groups := GroupByDate(list)
	total := 0
	for _, d := range dates {
		total += len(groups[d])
	}
	if total != len(list) {
		t.Errorf("partition total %d != input %d", total, len(list))
	}
	if len(dates) != 3 {
		t.Errorf("got %d distinct dates, want 3", len(dates))
	}
	if len(groups["2024-04-01"]) != 2 {
		t.Errorf("2024-04-01 group size %d, want 2", len(groups["2024-04-01"]))
	}
	// order inside a group follows input order
	g := groups["2024-04-01"]
	if g[0].StartTime != "09:00:00" || g[1].StartTime != "10:00:00" {
		t.Errorf("group order changed: %s, %s", g[0].StartTime, g[1].StartTime)
	}
}

func TestGroupByDate_Empty(t *testing.T) {
	dates, groups := GroupByDate(nil)
	if len(dates) != 0 || len(groups) != 0 {
		t.Errorf("expected empty projection, got %v %v", dates, groups)
	}
}

func TestMonthGrid_March2024(t *testing.T) {
	// 2024-03-01 is a Friday: 5 leading blanks, 31 days, padded to 42 cells.
	counts := map[string]int{"2024-03-30": 2, "2024-03-05": 1}
	cells := MonthGrid(2024, time.March, counts)
	if len(cells)%7 != 0 {
		t.Fatalf("grid length %d not a multiple of 7", len(cells))
	}
	if len(cells) != 42 {
		t.Fatalf("grid length %d, want 42", len(cells))
	}
	for i := 0; i < 5; i++ {
		if cells[i].Day != 0 {
			t.Errorf("cell %d should be blank, got day %d", i, cells[i].Day)
		}
	}
	if cells[5].Day != 1 {
		t.Errorf("first populated cell: day %d, want 1", cells[5].Day)
	}
	populated := 0
	for _, c := range cells {
		if c.Day != 0 {
			populated++
		}
	}
	if populated != 31 {
		t.Errorf("populated cells %d, want 31", populated)
	}
	// occupancy annotation: day 30 sits at index 5+29
	if got := cells[5+29].Count; got != 2 {
		t.Errorf("day 30 count %d, want 2", got)
	}
	if got := cells[5+4].Count; got != 1 {
		t.Errorf("day 5 count %d, want 1", got)
	}
}

func TestMonthGrid_LeapFebruary(t *testing.T) {
	// 2024-02-01 is a Thursday: 4 leading blanks + 29 days = 33, padded to 35.
	cells := MonthGrid(2024, time.February, nil)
	if len(cells) != 35 {
		t.Fatalf("grid length %d, want 35", len(cells))
	}
	if FirstWeekday(2024, time.February) != 4 {
		t.Errorf("first weekday %d, want 4", FirstWeekday(2024, time.February))
	}
	if DaysInMonth(2024, time.February) != 29 {
		t.Errorf("days in month %d, want 29", DaysInMonth(2024, time.February))
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		y    int
		m    time.Month
		want int
	}{
		{2023, time.February, 28},
		{2024, time.February, 29},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, c := range cases {
		if got := DaysInMonth(c.y, c.m); got != c.want {
			t.Errorf("DaysInMonth(%d, %s) = %d, want %d", c.y, c.m, got, c.want)
		}
	}
}
