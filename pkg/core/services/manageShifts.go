package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/patrol-roster/pkg/core/model"
	"github.com/jakechorley/patrol-roster/pkg/db"
)

// AddShiftInput carries the fields for a new shift definition.
type AddShiftInput struct {
	Name      string
	Days      []model.Weekday
	StartTime string
	EndTime   string
	Positions map[string]int
}

// AddShift validates the input, assigns an id and stores the new shift.
func AddShift(ctx context.Context, database db.ShiftStore, logger *zap.Logger, input AddShiftInput) (*model.Shift, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("shift name is required")
	}
	if len(input.Days) == 0 {
		return nil, fmt.Errorf("shift must have at least one active day")
	}
	for _, d := range input.Days {
		if !d.IsValid() {
			return nil, fmt.Errorf("unknown weekday %q", d)
		}
	}
	for posID, count := range input.Positions {
		if _, ok := model.PositionByID(posID); !ok {
			return nil, fmt.Errorf("unknown position %q", posID)
		}
		if count < 0 {
			return nil, fmt.Errorf("headcount for %s must be nonnegative, got %d", posID, count)
		}
	}

	shift := model.Shift{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Days:      input.Days,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Positions: input.Positions,
	}
	if shift.StartTime == "" {
		shift.StartTime = "08:00"
	}
	if shift.EndTime == "" {
		shift.EndTime = "16:00"
	}
	if shift.Positions == nil {
		shift.Positions = map[string]int{}
	}
	if _, err := time.Parse("15:04", shift.StartTime); err != nil {
		return nil, fmt.Errorf("invalid start time %q: expected HH:MM", shift.StartTime)
	}
	if _, err := time.Parse("15:04", shift.EndTime); err != nil {
		return nil, fmt.Errorf("invalid end time %q: expected HH:MM", shift.EndTime)
	}

	logger.Info("Adding shift",
		zap.String("id", shift.ID),
		zap.String("name", shift.Name),
		zap.Int("days", len(shift.Days)))

	if err := database.AddShift(ctx, shift); err != nil {
		return nil, fmt.Errorf("failed to add shift: %w", err)
	}
	return &shift, nil
}

// DeleteShift removes a shift by id.
func DeleteShift(ctx context.Context, database db.ShiftStore, logger *zap.Logger, id string) error {
	removed, err := database.DeleteShift(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if !removed {
		return fmt.Errorf("no shift with id %s", id)
	}
	logger.Info("Deleted shift", zap.String("id", id))
	return nil
}

// ListShifts returns the stored shift collection.
func ListShifts(ctx context.Context, database db.ShiftStore, logger *zap.Logger) ([]model.Shift, error) {
	shifts, err := database.ListShifts(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("Listed shifts", zap.Int("count", len(shifts)))
	return shifts, nil
}
