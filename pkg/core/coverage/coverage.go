// Package coverage folds shift definitions and logged call volumes into a
// dense weekly coverage matrix and classifies its slots into staffing gaps
// and peak hours.
//
// Time semantics: shifts occupy half-open hour buckets [startHour, endHour).
// A shift whose end time is at or before its start time wraps past midnight
// and covers every hour h with h >= startHour or h < endHour, so 22:00-06:00
// covers {22, 23, 0, 1, 2, 3, 4, 5}. Minutes are truncated to the hour.
package coverage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jakechorley/patrol-roster/pkg/core/model"
)

// HoursPerDay is the hour-bucket resolution of the matrix.
const HoursPerDay = 24

// Slot holds the derived values for one weekday/hour cell.
type Slot struct {
	Day       model.Weekday
	Hour      int
	Positions map[string]int // position id -> on-duty headcount
	Headcount int            // total on-duty headcount
	Incidents int            // total logged incidents
}

// SkippedShift records a shift excluded from aggregation because its time
// range could not be parsed.
type SkippedShift struct {
	ShiftID string
	Reason  string
}

// Matrix is the derived weekly coverage grid: one Slot for every
// (weekday, hour) pair, with absent input data zero-filled. It is rebuilt
// from scratch on every Compute call and never mutated afterwards.
type Matrix struct {
	slots         map[model.Weekday][]Slot
	SkippedShifts []SkippedShift
}

// Options controls a Compute call.
type Options struct {
	// Position restricts aggregation to a single position id. Empty means
	// all positions contribute to the headcount.
	Position string
}

// At returns the slot for the given weekday and hour. Hours outside 0..23
// and unknown weekdays return a zero slot.
func (m *Matrix) At(day model.Weekday, hour int) Slot {
	hours, ok := m.slots[day]
	if !ok || hour < 0 || hour >= HoursPerDay {
		return Slot{Day: day, Hour: hour, Positions: map[string]int{}}
	}
	return hours[hour]
}

// Slots returns every slot in fixed order: weekday order, then hour.
func (m *Matrix) Slots() []Slot {
	out := make([]Slot, 0, len(model.AllWeekdays)*HoursPerDay)
	for _, day := range model.AllWeekdays {
		out = append(out, m.slots[day]...)
	}
	return out
}

// Compute folds shifts and call volumes into a fresh coverage matrix.
// It is total over well-typed input: malformed shift time ranges are
// reported via Matrix.SkippedShifts rather than aborting, and missing
// data leaves cells at zero.
func Compute(shifts []model.Shift, volumes []model.CallVolume, opts Options) *Matrix {
	m := &Matrix{slots: make(map[model.Weekday][]Slot, len(model.AllWeekdays))}
	for _, day := range model.AllWeekdays {
		hours := make([]Slot, HoursPerDay)
		for h := range hours {
			hours[h] = Slot{Day: day, Hour: h, Positions: map[string]int{}}
		}
		m.slots[day] = hours
	}

	for _, shift := range shifts {
		startMin, err := parseMinutes(shift.StartTime)
		if err != nil {
			m.SkippedShifts = append(m.SkippedShifts, SkippedShift{ShiftID: shift.ID, Reason: err.Error()})
			continue
		}
		endMin, err := parseMinutes(shift.EndTime)
		if err != nil {
			m.SkippedShifts = append(m.SkippedShifts, SkippedShift{ShiftID: shift.ID, Reason: err.Error()})
			continue
		}

		// The wrap decision is made on minutes-since-midnight, before any
		// truncation: 08:10-08:45 is a plain forward shift even though both
		// ends share an hour bucket.
		wraps := endMin <= startMin
		startHour := startMin / 60
		endHour := endMin / 60

		for _, day := range shift.Days {
			hours, ok := m.slots[day]
			if !ok {
				continue
			}
			for h := 0; h < HoursPerDay; h++ {
				if !hourInRange(h, startHour, endHour, wraps) {
					continue
				}
				for posID, count := range shift.Positions {
					if count <= 0 {
						continue
					}
					if opts.Position != "" && posID != opts.Position {
						continue
					}
					hours[h].Positions[posID] += count
					hours[h].Headcount += count
				}
			}
		}
	}

	for _, cv := range volumes {
		hours, ok := m.slots[cv.Day]
		if !ok || cv.Hour < 0 || cv.Hour >= HoursPerDay {
			continue
		}
		hours[cv.Hour].Incidents += cv.Incidents
	}

	return m
}

// hourInRange reports whether hour h falls in the half-open bucket range
// [start, end), or in the wrapped range past midnight when wraps is set.
func hourInRange(h, start, end int, wraps bool) bool {
	if wraps {
		return h >= start || h < end
	}
	return h >= start && h < end
}

// parseMinutes converts an "HH:MM" time string to minutes since midnight.
func parseMinutes(t string) (int, error) {
	parts := strings.SplitN(t, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", t)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", t, err)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid time %q: hour out of range", t)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", t, err)
	}
	if minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time %q: minute out of range", t)
	}
	return hour*60 + minute, nil
}
