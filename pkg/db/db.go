// Package db provides typed access to the roster's persisted collections.
// Shifts live under the "shifts" key and incident records under the
// "callVolumes" key; each write replaces the whole collection.
package db

import (
	"context"
	"fmt"

	"github.com/jakechorley/patrol-roster/pkg/core/model"
	"github.com/jakechorley/patrol-roster/pkg/store"
)

const (
	shiftsKey      = "shifts"
	callVolumesKey = "callVolumes"
)

// DB provides shift and call-volume persistence over a key-value store
type DB struct {
	kv store.Store
}

// NewDB creates a new database instance over the given store
func NewDB(kv store.Store) *DB {
	return &DB{kv: kv}
}

// ListShifts returns all stored shifts; an absent key yields an empty list.
func (db *DB) ListShifts(ctx context.Context) ([]model.Shift, error) {
	var shifts []model.Shift
	if _, err := db.kv.Get(ctx, shiftsKey, &shifts); err != nil {
		return nil, fmt.Errorf("failed to load shifts: %w", err)
	}
	return shifts, nil
}

// SaveShifts replaces the stored shift collection.
func (db *DB) SaveShifts(ctx context.Context, shifts []model.Shift) error {
	if shifts == nil {
		shifts = []model.Shift{}
	}
	if err := db.kv.Set(ctx, shiftsKey, shifts); err != nil {
		return fmt.Errorf("failed to save shifts: %w", err)
	}
	return nil
}

// AddShift appends a shift to the stored collection.
func (db *DB) AddShift(ctx context.Context, shift model.Shift) error {
	shifts, err := db.ListShifts(ctx)
	if err != nil {
		return err
	}
	return db.SaveShifts(ctx, append(shifts, shift))
}

// DeleteShift removes the shift with the given id, reporting whether a
// shift was actually removed.
func (db *DB) DeleteShift(ctx context.Context, id string) (bool, error) {
	shifts, err := db.ListShifts(ctx)
	if err != nil {
		return false, err
	}

	remaining := shifts[:0]
	removed := false
	for _, s := range shifts {
		if s.ID == id {
			removed = true
			continue
		}
		remaining = append(remaining, s)
	}
	if !removed {
		return false, nil
	}
	return true, db.SaveShifts(ctx, remaining)
}

// ListCallVolumes returns all stored incident records.
func (db *DB) ListCallVolumes(ctx context.Context) ([]model.CallVolume, error) {
	var volumes []model.CallVolume
	if _, err := db.kv.Get(ctx, callVolumesKey, &volumes); err != nil {
		return nil, fmt.Errorf("failed to load call volumes: %w", err)
	}
	return volumes, nil
}

// SaveCallVolumes replaces the stored incident record collection.
func (db *DB) SaveCallVolumes(ctx context.Context, volumes []model.CallVolume) error {
	if volumes == nil {
		volumes = []model.CallVolume{}
	}
	if err := db.kv.Set(ctx, callVolumesKey, volumes); err != nil {
		return fmt.Errorf("failed to save call volumes: %w", err)
	}
	return nil
}

// UpsertCallVolume replaces the record for (day, hour) or appends a new
// one, keeping at most one record per slot.
func (db *DB) UpsertCallVolume(ctx context.Context, cv model.CallVolume) error {
	volumes, err := db.ListCallVolumes(ctx)
	if err != nil {
		return err
	}

	updated := false
	for i := range volumes {
		if volumes[i].Day == cv.Day && volumes[i].Hour == cv.Hour {
			volumes[i].Incidents = cv.Incidents
			updated = true
			break
		}
	}
	if !updated {
		volumes = append(volumes, cv)
	}
	return db.SaveCallVolumes(ctx, volumes)
}
