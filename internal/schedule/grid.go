package schedule

import "time"

// GridCell is one cell of the 7-column month grid. Day 0 marks a blank
// leading/trailing cell; Count is that day's appointment count.
type GridCell struct {
	Day   int `json:"day"`
	Count int `json:"count"`
}

// FirstWeekday returns the weekday of the 1st of the month, Sunday = 0.
func FirstWeekday(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// DaysInMonth is plain Gregorian month length (leap years included).
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthGrid lays out a month as a 7-column calendar: FirstWeekday blank
// cells, then one cell per day annotated with its occupancy from counts
// (keyed by DateLayout date), padded with blanks to a multiple of 7. The grid
// depends only on calendar math; counts only annotates.
func MonthGrid(year int, month time.Month, counts map[string]int) []GridCell {
	lead := FirstWeekday(year, month)
	days := DaysInMonth(year, month)
	cells := make([]GridCell, 0, lead+days+6)
	for i := 0; i < lead; i++ {
		cells = append(cells, GridCell{})
	}
	for d := 1; d <= days; d++ {
		key := time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Format(DateLayout)
		cells = append(cells, GridCell{Day: d, Count: counts[key]})
	}
	for len(cells)%7 != 0 {
		cells = append(cells, GridCell{})
	}
	return cells
}
