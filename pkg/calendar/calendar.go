// Package calendar builds the month view used by shift calendars: a fixed
// six week grid with shifts bucketed onto the days they touch.
package calendar

import (
	"time"

	"github.com/arnavshah/volunteer-hub-go/pkg/models"
)

// GridCells is the fixed size of a month grid: six full weeks.
const GridCells = 42

// DayCell is one cell of the month grid.
type DayCell struct {
	Date         time.Time      `json:"date"`
	IsOtherMonth bool           `json:"is_other_month"`
	Shifts       []models.Shift `json:"shifts"`
}

// DayKey formats t as the bucket key for its calendar day (UTC).
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// BuildMonthGrid returns exactly 42 day cells for the month containing
// ref, starting on the Sunday on or before the 1st. Days outside the
// month are flagged IsOtherMonth. Each shift appears on its start day
// and, when it runs past midnight, on its end day as well.
func BuildMonthGrid(ref time.Time, shifts []models.Shift) []DayCell {
	ref = ref.UTC()
	firstOfMonth := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	gridStart := firstOfMonth.AddDate(0, 0, -int(firstOfMonth.Weekday()))

	byDay := make(map[string][]models.Shift)
	for _, s := range shifts {
		startKey := DayKey(s.Start)
		byDay[startKey] = append(byDay[startKey], s)
		if s.SpansMidnight() {
			endKey := DayKey(s.End)
			byDay[endKey] = append(byDay[endKey], s)
		}
	}

	cells := make([]DayCell, 0, GridCells)
	for i := 0; i < GridCells; i++ {
		day := gridStart.AddDate(0, 0, i)
		cells = append(cells, DayCell{
			Date:         day,
			IsOtherMonth: day.Month() != ref.Month(),
			Shifts:       byDay[DayKey(day)],
		})
	}
	return cells
}
