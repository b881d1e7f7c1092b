package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/patrol-roster/pkg/core/model"
	"github.com/jakechorley/patrol-roster/pkg/store"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	return NewDB(store.NewMemory())
}

func TestShiftLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	shifts, err := db.ListShifts(ctx)
	require.NoError(t, err)
	assert.Empty(t, shifts)

	day := model.Shift{
		ID:        "shift-1",
		Name:      "Day Watch",
		Days:      []model.Weekday{model.Monday, model.Tuesday},
		StartTime: "08:00",
		EndTime:   "16:00",
		Positions: map[string]int{"patrol": 2},
	}
	night := model.Shift{
		ID:        "shift-2",
		Name:      "Night Watch",
		Days:      []model.Weekday{model.Friday},
		StartTime: "22:00",
		EndTime:   "06:00",
		Positions: map[string]int{"patrol": 3, "sergeant": 1},
	}

	require.NoError(t, db.AddShift(ctx, day))
	require.NoError(t, db.AddShift(ctx, night))

	shifts, err = db.ListShifts(ctx)
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.Equal(t, "Day Watch", shifts[0].Name)
	assert.Equal(t, "Night Watch", shifts[1].Name)

	removed, err := db.DeleteShift(ctx, "shift-1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = db.DeleteShift(ctx, "no-such-shift")
	require.NoError(t, err)
	assert.False(t, removed)

	shifts, err = db.ListShifts(ctx)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "shift-2", shifts[0].ID)
}

func TestUpsertCallVolume(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.UpsertCallVolume(ctx, model.CallVolume{Day: model.Friday, Hour: 22, Incidents: 4}))
	require.NoError(t, db.UpsertCallVolume(ctx, model.CallVolume{Day: model.Friday, Hour: 23, Incidents: 6}))

	// Second write to the same slot replaces the count.
	require.NoError(t, db.UpsertCallVolume(ctx, model.CallVolume{Day: model.Friday, Hour: 22, Incidents: 9}))

	volumes, err := db.ListCallVolumes(ctx)
	require.NoError(t, err)
	require.Len(t, volumes, 2)
	assert.Equal(t, 9, volumes[0].Incidents)
	assert.Equal(t, 6, volumes[1].Incidents)
}

func TestSaveShiftsReplacesCollection(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.AddShift(ctx, model.Shift{ID: "a"}))
	require.NoError(t, db.SaveShifts(ctx, []model.Shift{{ID: "b"}, {ID: "c"}}))

	shifts, err := db.ListShifts(ctx)
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.Equal(t, "b", shifts[0].ID)
}
