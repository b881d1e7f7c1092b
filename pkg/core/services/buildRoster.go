package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/patrol-roster/pkg/core/roster"
	"github.com/jakechorley/patrol-roster/pkg/db"
)

// BuildRoster projects the stored weekly shift pattern onto calendar
// dates starting at from.
func BuildRoster(ctx context.Context, database db.ShiftStore, logger *zap.Logger, from time.Time, weeks int) ([]roster.Entry, error) {
	shifts, err := database.ListShifts(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := roster.Build(shifts, from, weeks)
	if err != nil {
		return nil, fmt.Errorf("failed to build roster: %w", err)
	}

	logger.Info("Roster built",
		zap.String("from", from.Format("2006-01-02")),
		zap.Int("weeks", weeks),
		zap.Int("entries", len(entries)))

	return entries, nil
}
