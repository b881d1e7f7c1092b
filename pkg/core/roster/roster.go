// Package roster projects the weekly shift pattern onto concrete calendar
// dates, turning each shift's weekday set into dated duty blocks.
package roster

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/patrol-roster/pkg/core/model"
)

// Entry is one dated occurrence of a shift.
type Entry struct {
	Date      time.Time
	ShiftID   string
	ShiftName string
	StartTime string
	EndTime   string
	Positions map[string]int
}

var rruleWeekdays = map[model.Weekday]rrule.Weekday{
	model.Monday:    rrule.MO,
	model.Tuesday:   rrule.TU,
	model.Wednesday: rrule.WE,
	model.Thursday:  rrule.TH,
	model.Friday:    rrule.FR,
	model.Saturday:  rrule.SA,
	model.Sunday:    rrule.SU,
}

// Build expands every shift's weekday set into dated occurrences over the
// window [from, from+weeks), returning entries in chronological order with
// ties broken by start time then shift name. Shifts with no valid weekdays
// contribute nothing.
func Build(shifts []model.Shift, from time.Time, weeks int) ([]Entry, error) {
	if weeks <= 0 {
		return nil, fmt.Errorf("weeks must be positive, got %d", weeks)
	}

	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	until := start.AddDate(0, 0, 7*weeks-1)

	var entries []Entry
	for _, shift := range shifts {
		byweekday := make([]rrule.Weekday, 0, len(shift.Days))
		for _, day := range shift.Days {
			if wd, ok := rruleWeekdays[day]; ok {
				byweekday = append(byweekday, wd)
			}
		}
		if len(byweekday) == 0 {
			continue
		}

		rule, err := rrule.NewRRule(rrule.ROption{
			Freq:      rrule.WEEKLY,
			Byweekday: byweekday,
			Dtstart:   start,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build recurrence for shift %s: %w", shift.ID, err)
		}

		for _, date := range rule.Between(start, until, true) {
			entries = append(entries, Entry{
				Date:      date,
				ShiftID:   shift.ID,
				ShiftName: shift.Name,
				StartTime: shift.StartTime,
				EndTime:   shift.EndTime,
				Positions: shift.Positions,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		if entries[i].StartTime != entries[j].StartTime {
			return entries[i].StartTime < entries[j].StartTime
		}
		return entries[i].ShiftName < entries[j].ShiftName
	})

	return entries, nil
}
