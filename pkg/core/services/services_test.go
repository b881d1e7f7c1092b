package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/patrol-roster/pkg/core/model"
	"github.com/jakechorley/patrol-roster/pkg/db"
	"github.com/jakechorley/patrol-roster/pkg/store"
)

func newTestDB(t *testing.T) *db.DB {
	t.Helper()
	return db.NewDB(store.NewMemory())
}

func TestAddShift(t *testing.T) {
	database := newTestDB(t)
	logger := zap.NewNop()
	ctx := context.Background()

	shift, err := AddShift(ctx, database, logger, AddShiftInput{
		Name:      "Day Watch",
		Days:      []model.Weekday{model.Monday, model.Tuesday},
		StartTime: "08:00",
		EndTime:   "16:00",
		Positions: map[string]int{"patrol": 2},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, shift.ID)

	stored, err := database.ListShifts(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Day Watch", stored[0].Name)
}

func TestAddShift_Defaults(t *testing.T) {
	database := newTestDB(t)

	shift, err := AddShift(context.Background(), database, zap.NewNop(), AddShiftInput{
		Name: "Bare",
		Days: []model.Weekday{model.Sunday},
	})
	require.NoError(t, err)
	assert.Equal(t, "08:00", shift.StartTime)
	assert.Equal(t, "16:00", shift.EndTime)
	assert.NotNil(t, shift.Positions)
}

func TestAddShift_Validation(t *testing.T) {
	database := newTestDB(t)
	logger := zap.NewNop()
	ctx := context.Background()

	tests := []struct {
		name  string
		input AddShiftInput
	}{
		{"missing name", AddShiftInput{Days: []model.Weekday{model.Monday}}},
		{"no days", AddShiftInput{Name: "x"}},
		{"bad weekday", AddShiftInput{Name: "x", Days: []model.Weekday{"FUNDAY"}}},
		{"bad position", AddShiftInput{Name: "x", Days: []model.Weekday{model.Monday}, Positions: map[string]int{"janitor": 1}}},
		{"negative headcount", AddShiftInput{Name: "x", Days: []model.Weekday{model.Monday}, Positions: map[string]int{"patrol": -2}}},
		{"bad start time", AddShiftInput{Name: "x", Days: []model.Weekday{model.Monday}, StartTime: "late"}},
		{"bad end time", AddShiftInput{Name: "x", Days: []model.Weekday{model.Monday}, EndTime: "25:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AddShift(ctx, database, logger, tt.input)
			assert.Error(t, err)
		})
	}
}

func TestDeleteShift(t *testing.T) {
	database := newTestDB(t)
	logger := zap.NewNop()
	ctx := context.Background()

	shift, err := AddShift(ctx, database, logger, AddShiftInput{
		Name: "Day Watch",
		Days: []model.Weekday{model.Monday},
	})
	require.NoError(t, err)

	require.NoError(t, DeleteShift(ctx, database, logger, shift.ID))
	assert.Error(t, DeleteShift(ctx, database, logger, shift.ID))
}

func TestSetIncidents(t *testing.T) {
	database := newTestDB(t)
	logger := zap.NewNop()
	ctx := context.Background()

	require.NoError(t, SetIncidents(ctx, database, logger, model.Friday, 22, 4))
	require.NoError(t, SetIncidents(ctx, database, logger, model.Friday, 22, 9))

	volumes, err := ListCallVolumes(ctx, database, logger)
	require.NoError(t, err)
	require.Len(t, volumes, 1)
	assert.Equal(t, 9, volumes[0].Incidents)

	assert.Error(t, SetIncidents(ctx, database, logger, "NOPE", 0, 1))
	assert.Error(t, SetIncidents(ctx, database, logger, model.Monday, 24, 1))
	assert.Error(t, SetIncidents(ctx, database, logger, model.Monday, 0, -1))
}

func TestAnalyzeCoverage(t *testing.T) {
	database := newTestDB(t)
	logger := zap.NewNop()
	ctx := context.Background()

	_, err := AddShift(ctx, database, logger, AddShiftInput{
		Name:      "Day Watch",
		Days:      []model.Weekday{model.Monday},
		StartTime: "08:00",
		EndTime:   "16:00",
		Positions: map[string]int{"patrol": 2},
	})
	require.NoError(t, err)

	require.NoError(t, SetIncidents(ctx, database, logger, model.Monday, 3, 4))  // uncovered hour: gap
	require.NoError(t, SetIncidents(ctx, database, logger, model.Monday, 10, 6)) // covered peak

	result, err := AnalyzeCoverage(ctx, database, database, logger, AnalyzeOptions{PeakThreshold: 5})
	require.NoError(t, err)

	require.Len(t, result.Report.Gaps, 1)
	assert.Equal(t, 3, result.Report.Gaps[0].Hour)
	require.Len(t, result.Report.Peaks, 1)
	assert.Equal(t, 10, result.Report.Peaks[0].Hour)
	assert.Equal(t, 2, result.Report.Stats.Max)

	_, err = AnalyzeCoverage(ctx, database, database, logger, AnalyzeOptions{Position: "janitor"})
	assert.Error(t, err)
}

func TestExportImportShiftsRoundTrip(t *testing.T) {
	database := newTestDB(t)
	logger := zap.NewNop()
	ctx := context.Background()
	dir := t.TempDir()

	_, err := AddShift(ctx, database, logger, AddShiftInput{
		Name:      "Night Watch",
		Days:      []model.Weekday{model.Friday, model.Saturday},
		StartTime: "22:00",
		EndTime:   "06:00",
		Positions: map[string]int{"patrol": 3},
	})
	require.NoError(t, err)

	before, err := database.ListShifts(ctx)
	require.NoError(t, err)

	path, err := ExportShifts(ctx, database, logger, dir, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "shifts-2024-01-01.json"), path)

	// Wipe and re-import.
	require.NoError(t, database.SaveShifts(ctx, nil))
	summary, err := ImportShifts(ctx, database, logger, path)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Accepted)
	assert.Empty(t, summary.Rejected)

	after, err := database.ListShifts(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestImportShifts_BadDocumentLeavesStateUnchanged(t *testing.T) {
	database := newTestDB(t)
	logger := zap.NewNop()
	ctx := context.Background()

	_, err := AddShift(ctx, database, logger, AddShiftInput{
		Name: "Keep Me",
		Days: []model.Weekday{model.Monday},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err = ImportShifts(ctx, database, logger, path)
	assert.Error(t, err)

	shifts, err := database.ListShifts(ctx)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "Keep Me", shifts[0].Name)
}

func TestImportShifts_MixedRecords(t *testing.T) {
	database := newTestDB(t)
	logger := zap.NewNop()
	ctx := context.Background()

	doc := `{
		"shifts": [
			{"id": "ok", "name": "Valid", "days": ["MON"], "startTime": "08:00", "endTime": "16:00", "positions": {"patrol": 1}},
			{"id": "broken", "days": []}
		],
		"exportDate": "2024-01-01T00:00:00.000Z"
	}`
	path := filepath.Join(t.TempDir(), "mixed.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	summary, err := ImportShifts(ctx, database, logger, path)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Accepted)
	assert.Len(t, summary.Rejected, 1)

	shifts, err := database.ListShifts(ctx)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "ok", shifts[0].ID)
}

func TestExportImportCallVolumes(t *testing.T) {
	database := newTestDB(t)
	logger := zap.NewNop()
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, SetIncidents(ctx, database, logger, model.Saturday, 23, 8))

	path, err := ExportCallVolumes(ctx, database, logger, dir, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "incidents-2024-01-01.json"), path)

	require.NoError(t, database.SaveCallVolumes(ctx, nil))
	summary, err := ImportCallVolumes(ctx, database, logger, path)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Accepted)

	volumes, err := database.ListCallVolumes(ctx)
	require.NoError(t, err)
	require.Len(t, volumes, 1)
	assert.Equal(t, 8, volumes[0].Incidents)
}

func TestBuildRoster(t *testing.T) {
	database := newTestDB(t)
	logger := zap.NewNop()
	ctx := context.Background()

	_, err := AddShift(ctx, database, logger, AddShiftInput{
		Name:      "Day Watch",
		Days:      []model.Weekday{model.Monday, model.Friday},
		StartTime: "08:00",
		EndTime:   "16:00",
	})
	require.NoError(t, err)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // a Monday
	entries, err := BuildRoster(ctx, database, logger, from, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	_, err = BuildRoster(ctx, database, logger, from, 0)
	assert.Error(t, err)
}
