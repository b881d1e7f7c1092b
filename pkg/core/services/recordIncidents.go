package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/patrol-roster/pkg/core/model"
	"github.com/jakechorley/patrol-roster/pkg/db"
)

// SetIncidents records the incident count for one weekday/hour slot,
// replacing any previous count for that slot.
func SetIncidents(ctx context.Context, database db.CallVolumeStore, logger *zap.Logger, day model.Weekday, hour, incidents int) error {
	if !day.IsValid() {
		return fmt.Errorf("unknown weekday %q", day)
	}
	if hour < 0 || hour > 23 {
		return fmt.Errorf("hour must be in 0..23, got %d", hour)
	}
	if incidents < 0 {
		return fmt.Errorf("incident count must be nonnegative, got %d", incidents)
	}

	logger.Info("Recording incidents",
		zap.String("day", string(day)),
		zap.Int("hour", hour),
		zap.Int("incidents", incidents))

	if err := database.UpsertCallVolume(ctx, model.CallVolume{Day: day, Hour: hour, Incidents: incidents}); err != nil {
		return fmt.Errorf("failed to record incidents: %w", err)
	}
	return nil
}

// ListCallVolumes returns the stored incident records.
func ListCallVolumes(ctx context.Context, database db.CallVolumeStore, logger *zap.Logger) ([]model.CallVolume, error) {
	volumes, err := database.ListCallVolumes(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("Listed call volumes", zap.Int("count", len(volumes)))
	return volumes, nil
}
