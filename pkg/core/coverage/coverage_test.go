package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/patrol-roster/pkg/core/model"
)

func TestCompute_EmptyInputIsDenseAndZeroFilled(t *testing.T) {
	m := Compute(nil, nil, Options{})

	slots := m.Slots()
	require.Len(t, slots, 168)

	for _, slot := range slots {
		assert.Equal(t, 0, slot.Headcount)
		assert.Equal(t, 0, slot.Incidents)
		assert.Empty(t, slot.Positions)
	}
	assert.Empty(t, m.SkippedShifts)
}

func TestCompute_SingleDayShift(t *testing.T) {
	shifts := []model.Shift{
		{
			ID:        "day-watch",
			Name:      "Day Watch",
			Days:      []model.Weekday{model.Monday},
			StartTime: "08:00",
			EndTime:   "16:00",
			Positions: map[string]int{"patrol": 2},
		},
	}

	m := Compute(shifts, nil, Options{})

	for h := 0; h < HoursPerDay; h++ {
		slot := m.At(model.Monday, h)
		if h >= 8 && h < 16 {
			assert.Equal(t, 2, slot.Headcount, "hour %d should be covered", h)
			assert.Equal(t, 2, slot.Positions["patrol"])
		} else {
			assert.Equal(t, 0, slot.Headcount, "hour %d should be uncovered", h)
		}
	}

	// Other weekdays stay empty.
	for _, day := range model.AllWeekdays[1:] {
		for h := 0; h < HoursPerDay; h++ {
			assert.Equal(t, 0, m.At(day, h).Headcount)
		}
	}
}

func TestCompute_OvernightShiftWrapsMidnight(t *testing.T) {
	shifts := []model.Shift{
		{
			ID:        "night-watch",
			Days:      []model.Weekday{model.Friday},
			StartTime: "22:00",
			EndTime:   "06:00",
			Positions: map[string]int{"patrol": 1},
		},
	}

	m := Compute(shifts, nil, Options{})

	covered := map[int]bool{22: true, 23: true, 0: true, 1: true, 2: true, 3: true, 4: true, 5: true}
	for h := 0; h < HoursPerDay; h++ {
		slot := m.At(model.Friday, h)
		if covered[h] {
			assert.Equal(t, 1, slot.Headcount, "hour %d should be covered", h)
		} else {
			assert.Equal(t, 0, slot.Headcount, "hour %d should be uncovered", h)
		}
	}
}

func TestCompute_MultipleShiftsAccumulate(t *testing.T) {
	shifts := []model.Shift{
		{
			ID:        "early",
			Days:      []model.Weekday{model.Tuesday},
			StartTime: "06:00",
			EndTime:   "14:00",
			Positions: map[string]int{"patrol": 3, "sergeant": 1},
		},
		{
			ID:        "late",
			Days:      []model.Weekday{model.Tuesday},
			StartTime: "12:00",
			EndTime:   "20:00",
			Positions: map[string]int{"patrol": 2},
		},
	}

	m := Compute(shifts, nil, Options{})

	// 12:00 and 13:00 sit in the overlap.
	overlap := m.At(model.Tuesday, 13)
	assert.Equal(t, 6, overlap.Headcount)
	assert.Equal(t, 5, overlap.Positions["patrol"])
	assert.Equal(t, 1, overlap.Positions["sergeant"])

	assert.Equal(t, 4, m.At(model.Tuesday, 7).Headcount)
	assert.Equal(t, 2, m.At(model.Tuesday, 15).Headcount)
}

func TestCompute_PositionFilter(t *testing.T) {
	shifts := []model.Shift{
		{
			ID:        "mixed",
			Days:      []model.Weekday{model.Wednesday},
			StartTime: "09:00",
			EndTime:   "17:00",
			Positions: map[string]int{"patrol": 4, "sergeant": 1},
		},
	}

	m := Compute(shifts, nil, Options{Position: "sergeant"})

	slot := m.At(model.Wednesday, 10)
	assert.Equal(t, 1, slot.Headcount)
	assert.Equal(t, 1, slot.Positions["sergeant"])
	assert.Zero(t, slot.Positions["patrol"])
}

func TestCompute_MalformedTimeSkipsShift(t *testing.T) {
	shifts := []model.Shift{
		{
			ID:        "bad",
			Days:      []model.Weekday{model.Monday},
			StartTime: "not-a-time",
			EndTime:   "16:00",
			Positions: map[string]int{"patrol": 2},
		},
		{
			ID:        "good",
			Days:      []model.Weekday{model.Monday},
			StartTime: "08:00",
			EndTime:   "16:00",
			Positions: map[string]int{"patrol": 1},
		},
	}

	m := Compute(shifts, nil, Options{})

	require.Len(t, m.SkippedShifts, 1)
	assert.Equal(t, "bad", m.SkippedShifts[0].ShiftID)
	assert.Equal(t, 1, m.At(model.Monday, 10).Headcount)
}

func TestCompute_IncidentsFoldIntoSlots(t *testing.T) {
	volumes := []model.CallVolume{
		{Day: model.Saturday, Hour: 23, Incidents: 7},
		{Day: model.Saturday, Hour: 23, Incidents: 2}, // merged category counts accumulate
		{Day: model.Sunday, Hour: 0, Incidents: 4},
		{Day: model.Sunday, Hour: 99, Incidents: 5}, // out of range, ignored
	}

	m := Compute(nil, volumes, Options{})

	assert.Equal(t, 9, m.At(model.Saturday, 23).Incidents)
	assert.Equal(t, 4, m.At(model.Sunday, 0).Incidents)
	assert.Equal(t, 0, m.At(model.Sunday, 1).Incidents)
}

func TestCompute_SameHourForwardShiftCoversNothing(t *testing.T) {
	// 08:10-08:45 ends after it starts, so it must not be treated as an
	// overnight wrap even though both ends truncate to hour 8; on hour
	// buckets it contributes no coverage at all.
	shifts := []model.Shift{
		{
			ID:        "briefing",
			Days:      []model.Weekday{model.Monday},
			StartTime: "08:10",
			EndTime:   "08:45",
			Positions: map[string]int{"patrol": 1},
		},
	}

	m := Compute(shifts, nil, Options{})

	covered := 0
	for h := 0; h < HoursPerDay; h++ {
		if m.At(model.Monday, h).Headcount > 0 {
			covered++
		}
	}
	assert.Zero(t, covered)
	assert.Empty(t, m.SkippedShifts)
}

func TestCompute_EqualStartAndEndCoversWholeDay(t *testing.T) {
	// end == start is the degenerate wrap: a full 24-hour shift.
	shifts := []model.Shift{
		{
			ID:        "around-the-clock",
			Days:      []model.Weekday{model.Sunday},
			StartTime: "08:00",
			EndTime:   "08:00",
			Positions: map[string]int{"patrol": 1},
		},
	}

	m := Compute(shifts, nil, Options{})

	for h := 0; h < HoursPerDay; h++ {
		assert.Equal(t, 1, m.At(model.Sunday, h).Headcount, "hour %d should be covered", h)
	}
}

func TestCompute_PartialHourWrapDecidedOnMinutes(t *testing.T) {
	// 08:45-08:10 wraps (endMinutes < startMinutes) even though both ends
	// share hour bucket 8.
	shifts := []model.Shift{
		{
			ID:        "long-haul",
			Days:      []model.Weekday{model.Monday},
			StartTime: "08:45",
			EndTime:   "08:10",
			Positions: map[string]int{"patrol": 1},
		},
	}

	m := Compute(shifts, nil, Options{})

	for h := 0; h < HoursPerDay; h++ {
		assert.Equal(t, 1, m.At(model.Monday, h).Headcount, "hour %d should be covered", h)
	}
}

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"midnight", "00:00", 0, false},
		{"morning", "08:00", 480, false},
		{"partial hour", "09:45", 585, false},
		{"last minute", "23:59", 1439, false},
		{"missing colon", "0800", 0, true},
		{"hour out of range", "24:00", 0, true},
		{"negative hour", "-1:00", 0, true},
		{"minute out of range", "08:75", 0, true},
		{"garbage", "now", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMinutes(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
