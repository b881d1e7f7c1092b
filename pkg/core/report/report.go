// Package report renders coverage data for the terminal: the weekly
// incident heatmap, the staffing-level chart and the gap/peak analysis
// summary.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jakechorley/patrol-roster/pkg/core/coverage"
	"github.com/jakechorley/patrol-roster/pkg/core/model"
)

// cell renders one grid value, showing zero as a dot so the populated
// cells stand out.
func cell(n int) string {
	if n == 0 {
		return "  ."
	}
	return fmt.Sprintf("%3d", n)
}

func writeHourHeader(w io.Writer) {
	fmt.Fprintf(w, "%-4s", "")
	for h := 0; h < coverage.HoursPerDay; h++ {
		fmt.Fprintf(w, "%3d", h)
	}
	fmt.Fprintln(w)
}

// Heatmap writes the weekly incident grid: one row per weekday, one
// column per hour, zero cells shown as dots.
func Heatmap(w io.Writer, m *coverage.Matrix) {
	fmt.Fprintln(w, "Incident heatmap (incidents per weekday/hour)")
	writeHourHeader(w)
	for _, day := range model.AllWeekdays {
		fmt.Fprintf(w, "%-4s", day)
		for h := 0; h < coverage.HoursPerDay; h++ {
			fmt.Fprint(w, cell(m.At(day, h).Incidents))
		}
		fmt.Fprintln(w)
	}
}

// StaffingChart writes the weekly headcount grid for the slice of the
// matrix the caller computed (all positions or a single one).
func StaffingChart(w io.Writer, m *coverage.Matrix, positionLabel string) {
	fmt.Fprintf(w, "Staffing levels - %s (on-duty headcount per weekday/hour)\n", positionLabel)
	writeHourHeader(w)
	for _, day := range model.AllWeekdays {
		fmt.Fprintf(w, "%-4s", day)
		for h := 0; h < coverage.HoursPerDay; h++ {
			fmt.Fprint(w, cell(m.At(day, h).Headcount))
		}
		fmt.Fprintln(w)
	}
}

// Analysis writes the classification report: overall statistics, then the
// gap and peak slot lists.
func Analysis(w io.Writer, r coverage.Report) {
	fmt.Fprintln(w, "Coverage statistics")
	fmt.Fprintf(w, "  Minimum headcount: %d\n", r.Stats.Min)
	fmt.Fprintf(w, "  Maximum headcount: %d\n", r.Stats.Max)
	fmt.Fprintf(w, "  Average headcount: %.1f\n", r.Stats.Average)
	fmt.Fprintln(w)

	if len(r.Gaps) == 0 {
		fmt.Fprintln(w, "No staffing gaps: every hour with incidents has coverage.")
	} else {
		fmt.Fprintf(w, "Staffing gaps (%d) - incidents with nobody on duty:\n", len(r.Gaps))
		for _, slot := range r.Gaps {
			fmt.Fprintf(w, "  %s %02d:00 - %d incident(s), no coverage\n", slot.Day.Label(), slot.Hour, slot.Incidents)
		}
	}
	fmt.Fprintln(w)

	if len(r.Peaks) == 0 {
		fmt.Fprintln(w, "No peak hours above the incident threshold.")
	} else {
		fmt.Fprintf(w, "Peak hours (%d):\n", len(r.Peaks))
		for _, slot := range r.Peaks {
			marker := ""
			if slot.Headcount == 0 {
				marker = "  [UNSTAFFED]"
			}
			fmt.Fprintf(w, "  %s %02d:00 - %d incidents, %d on duty%s\n",
				slot.Day.Label(), slot.Hour, slot.Incidents, slot.Headcount, marker)
		}
	}
}

// SkippedShifts writes a warning block for shifts excluded from
// aggregation, if any.
func SkippedShifts(w io.Writer, skipped []coverage.SkippedShift) {
	if len(skipped) == 0 {
		return
	}
	fmt.Fprintf(w, "Warning: %d shift(s) excluded from aggregation:\n", len(skipped))
	for _, s := range skipped {
		fmt.Fprintf(w, "  %s: %s\n", s.ShiftID, s.Reason)
	}
	fmt.Fprintln(w)
}

// ShiftTable writes the stored shift list.
func ShiftTable(w io.Writer, shifts []model.Shift) {
	if len(shifts) == 0 {
		fmt.Fprintln(w, "No shifts defined.")
		return
	}
	for _, s := range shifts {
		days := make([]string, len(s.Days))
		for i, d := range s.Days {
			days[i] = string(d)
		}
		fmt.Fprintf(w, "%s  %s  %s-%s  [%s]\n", s.ID, s.Name, s.StartTime, s.EndTime, strings.Join(days, ","))
		for _, p := range model.Positions {
			if n := s.Positions[p.ID]; n > 0 {
				fmt.Fprintf(w, "    %-16s %d\n", p.Name, n)
			}
		}
	}
}
