package db

import (
	"context"

	"github.com/jakechorley/patrol-roster/pkg/core/model"
)

// ShiftStore defines the interface for shift persistence operations
type ShiftStore interface {
	ListShifts(ctx context.Context) ([]model.Shift, error)
	SaveShifts(ctx context.Context, shifts []model.Shift) error
	AddShift(ctx context.Context, shift model.Shift) error
	DeleteShift(ctx context.Context, id string) (bool, error)
}

// CallVolumeStore defines the interface for incident record persistence
type CallVolumeStore interface {
	ListCallVolumes(ctx context.Context) ([]model.CallVolume, error)
	SaveCallVolumes(ctx context.Context, volumes []model.CallVolume) error
	UpsertCallVolume(ctx context.Context, cv model.CallVolume) error
}
