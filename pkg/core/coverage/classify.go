package coverage

// DefaultPeakThreshold is the incident count at which a slot counts as a
// peak hour unless overridden in configuration.
const DefaultPeakThreshold = 5

// Thresholds parameterizes classification.
type Thresholds struct {
	// PeakThreshold is the inclusive incident count for a peak slot.
	// Zero or negative falls back to DefaultPeakThreshold.
	PeakThreshold int
}

// Stats summarizes the headcount dimension across every slot.
type Stats struct {
	Min     int
	Max     int
	Average float64
}

// Report is the result of classifying a coverage matrix.
type Report struct {
	// Gaps are slots with zero coverage during nonzero demand: no demand
	// means no gap, however empty the slot.
	Gaps []Slot
	// Peaks are slots whose incident total meets or exceeds the threshold.
	Peaks []Slot
	Stats Stats
}

// Classify walks every slot of the matrix and partitions it into gaps and
// peaks, computing headcount statistics along the way. Slot order in the
// report follows weekday order then hour; the matrix is not modified.
func Classify(m *Matrix, t Thresholds) Report {
	threshold := t.PeakThreshold
	if threshold <= 0 {
		threshold = DefaultPeakThreshold
	}

	var report Report
	slots := m.Slots()
	if len(slots) == 0 {
		return report
	}

	report.Stats.Min = slots[0].Headcount
	report.Stats.Max = slots[0].Headcount
	total := 0

	for _, slot := range slots {
		if slot.Headcount < report.Stats.Min {
			report.Stats.Min = slot.Headcount
		}
		if slot.Headcount > report.Stats.Max {
			report.Stats.Max = slot.Headcount
		}
		total += slot.Headcount

		if slot.Headcount == 0 && slot.Incidents > 0 {
			report.Gaps = append(report.Gaps, slot)
		}
		if slot.Incidents >= threshold {
			report.Peaks = append(report.Peaks, slot)
		}
	}

	report.Stats.Average = float64(total) / float64(len(slots))
	return report
}
