package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/patrol-roster/pkg/core/exchange"
	"github.com/jakechorley/patrol-roster/pkg/db"
)

// ImportSummary reports the outcome of a bulk import.
type ImportSummary struct {
	Accepted int
	Rejected []exchange.Rejected
}

// ExportShifts writes the current shift collection to a dated JSON file
// in dir and returns the file path.
func ExportShifts(ctx context.Context, database db.ShiftStore, logger *zap.Logger, dir string, now time.Time) (string, error) {
	shifts, err := database.ListShifts(ctx)
	if err != nil {
		return "", err
	}

	data, err := exchange.EncodeShifts(shifts, now)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, exchange.ShiftExportFilename(now))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	logger.Info("Exported shifts", zap.String("path", path), zap.Int("count", len(shifts)))
	return path, nil
}

// ImportShifts replaces the stored shift collection with the valid
// records from an export file. A document that cannot be parsed leaves
// the stored collection untouched; individually invalid records are
// dropped and reported in the summary.
func ImportShifts(ctx context.Context, database db.ShiftStore, logger *zap.Logger, path string) (*ImportSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	shifts, rejected, err := exchange.DecodeShifts(data)
	if err != nil {
		logger.Error("Shift import failed, state unchanged", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	for _, r := range rejected {
		logger.Warn("Dropped invalid shift record", zap.Int("index", r.Index), zap.String("reason", r.Reason))
	}

	if err := database.SaveShifts(ctx, shifts); err != nil {
		return nil, err
	}

	logger.Info("Imported shifts",
		zap.String("path", path),
		zap.Int("accepted", len(shifts)),
		zap.Int("rejected", len(rejected)))

	return &ImportSummary{Accepted: len(shifts), Rejected: rejected}, nil
}

// ExportCallVolumes writes the current incident records to a dated JSON
// file in dir and returns the file path.
func ExportCallVolumes(ctx context.Context, database db.CallVolumeStore, logger *zap.Logger, dir string, now time.Time) (string, error) {
	volumes, err := database.ListCallVolumes(ctx)
	if err != nil {
		return "", err
	}

	data, err := exchange.EncodeCallVolumes(volumes, now)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, exchange.VolumeExportFilename(now))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	logger.Info("Exported call volumes", zap.String("path", path), zap.Int("count", len(volumes)))
	return path, nil
}

// ImportCallVolumes replaces the stored incident records with the valid
// records from an export file, with the same drop semantics as
// ImportShifts.
func ImportCallVolumes(ctx context.Context, database db.CallVolumeStore, logger *zap.Logger, path string) (*ImportSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	volumes, rejected, err := exchange.DecodeCallVolumes(data)
	if err != nil {
		logger.Error("Incident import failed, state unchanged", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	for _, r := range rejected {
		logger.Warn("Dropped invalid incident record", zap.Int("index", r.Index), zap.String("reason", r.Reason))
	}

	if err := database.SaveCallVolumes(ctx, volumes); err != nil {
		return nil, err
	}

	logger.Info("Imported call volumes",
		zap.String("path", path),
		zap.Int("accepted", len(volumes)),
		zap.Int("rejected", len(rejected)))

	return &ImportSummary{Accepted: len(volumes), Rejected: rejected}, nil
}
