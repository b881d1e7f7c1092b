package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/patrol-roster/pkg/core/coverage"
	"github.com/jakechorley/patrol-roster/pkg/core/model"
	"github.com/jakechorley/patrol-roster/pkg/db"
)

// AnalyzeOptions controls an analysis run.
type AnalyzeOptions struct {
	// Position restricts the headcount dimension to one position id.
	Position string
	// PeakThreshold overrides the configured peak threshold when positive.
	PeakThreshold int
}

// AnalysisResult bundles the recomputed matrix with its classification.
type AnalysisResult struct {
	Matrix *coverage.Matrix
	Report coverage.Report
}

// AnalyzeCoverage loads the current shifts and call volumes, rebuilds the
// coverage matrix from scratch and classifies it. The matrix is derived
// state: nothing is written back.
func AnalyzeCoverage(ctx context.Context, shiftDB db.ShiftStore, volumeDB db.CallVolumeStore, logger *zap.Logger, opts AnalyzeOptions) (*AnalysisResult, error) {
	if opts.Position != "" {
		if _, ok := model.PositionByID(opts.Position); !ok {
			return nil, fmt.Errorf("unknown position %q", opts.Position)
		}
	}

	shifts, err := shiftDB.ListShifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load shifts: %w", err)
	}
	volumes, err := volumeDB.ListCallVolumes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load call volumes: %w", err)
	}

	logger.Debug("Computing coverage",
		zap.Int("shifts", len(shifts)),
		zap.Int("call_volumes", len(volumes)),
		zap.String("position", opts.Position))

	matrix := coverage.Compute(shifts, volumes, coverage.Options{Position: opts.Position})
	for _, skipped := range matrix.SkippedShifts {
		logger.Warn("Shift excluded from aggregation",
			zap.String("shift_id", skipped.ShiftID),
			zap.String("reason", skipped.Reason))
	}

	report := coverage.Classify(matrix, coverage.Thresholds{PeakThreshold: opts.PeakThreshold})

	logger.Info("Coverage analysis complete",
		zap.Int("gaps", len(report.Gaps)),
		zap.Int("peaks", len(report.Peaks)),
		zap.Int("min_headcount", report.Stats.Min),
		zap.Int("max_headcount", report.Stats.Max))

	return &AnalysisResult{Matrix: matrix, Report: report}, nil
}
