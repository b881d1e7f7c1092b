package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/patrol-roster/internal/config"
	"github.com/jakechorley/patrol-roster/pkg/core/model"
	"github.com/jakechorley/patrol-roster/pkg/core/report"
	"github.com/jakechorley/patrol-roster/pkg/core/services"
	"github.com/jakechorley/patrol-roster/pkg/db"
	"github.com/jakechorley/patrol-roster/pkg/store"
	"github.com/jakechorley/patrol-roster/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg      *config.Config
	kv       store.Store
	database *db.DB
	logger   *zap.Logger
	ctx      context.Context
}

var (
	verbose    bool
	configPath string
	app        *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "patrol-roster",
		Short: "Patrol Roster - shift rosters, call volumes and staffing analysis",
		Long: `A CLI tool for building police shift rosters, logging weekly incident
call volumes and deriving staffing-gap and peak-hour reports.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.kv != nil {
					app.kv.Close()
				}
				if app.logger != nil {
					app.logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug output on the console")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: patrol_roster_config.yaml in cwd or home)")

	rootCmd.AddCommand(addShiftCmd())
	rootCmd.AddCommand(deleteShiftCmd())
	rootCmd.AddCommand(listShiftsCmd())
	rootCmd.AddCommand(setIncidentsCmd())
	rootCmd.AddCommand(listIncidentsCmd())
	rootCmd.AddCommand(heatmapCmd())
	rootCmd.AddCommand(chartCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(rosterCmd())
	rootCmd.AddCommand(exportShiftsCmd())
	rootCmd.AddCommand(importShiftsCmd())
	rootCmd.AddCommand(exportIncidentsCmd())
	rootCmd.AddCommand(importIncidentsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, store, and database
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if configPath != "" {
		app.cfg, err = config.LoadFromPath(configPath)
	} else {
		app.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded", zap.String("storage", app.cfg.Storage))

	app.kv, err = openStore(app.ctx, app.cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	app.database = db.NewDB(app.kv)
	app.logger.Debug("Store initialized")

	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return store.NewMemory(), nil
	case config.StorageBadger:
		return store.NewBadger(cfg.DataDir)
	case config.StoragePostgres:
		return store.NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

// parseDays converts a comma-separated day list like "MON,TUE" into
// weekday values.
func parseDays(s string) ([]model.Weekday, error) {
	if s == "" {
		return nil, fmt.Errorf("at least one day is required (e.g. --days MON,TUE)")
	}
	parts := strings.Split(s, ",")
	days := make([]model.Weekday, 0, len(parts))
	for _, part := range parts {
		day := model.Weekday(strings.ToUpper(strings.TrimSpace(part)))
		if !day.IsValid() {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		days = append(days, day)
	}
	return days, nil
}

// parsePositions converts repeated "position=count" flags into a
// headcount map.
func parsePositions(specs []string) (map[string]int, error) {
	positions := make(map[string]int, len(specs))
	for _, spec := range specs {
		name, countStr, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("invalid position %q: expected id=count", spec)
		}
		count, err := strconv.Atoi(countStr)
		if err != nil {
			return nil, fmt.Errorf("invalid headcount in %q: %w", spec, err)
		}
		positions[strings.TrimSpace(name)] = count
	}
	return positions, nil
}

// Command definitions

func addShiftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addShift <name>",
		Short: "Define a new shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			daysFlag, _ := cmd.Flags().GetString("days")
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")
			positionSpecs, _ := cmd.Flags().GetStringArray("position")

			days, err := parseDays(daysFlag)
			if err != nil {
				return err
			}
			positions, err := parsePositions(positionSpecs)
			if err != nil {
				return err
			}

			shift, err := services.AddShift(app.ctx, app.database, app.logger, services.AddShiftInput{
				Name:      args[0],
				Days:      days,
				StartTime: start,
				EndTime:   end,
				Positions: positions,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\nShift created: %s\n", shift.ID)
			report.ShiftTable(os.Stdout, []model.Shift{*shift})
			return nil
		},
	}

	cmd.Flags().String("days", "", "Comma-separated weekdays, e.g. MON,TUE,FRI")
	cmd.Flags().String("start", "08:00", "Start time (HH:MM, 24h)")
	cmd.Flags().String("end", "16:00", "End time (HH:MM, 24h); at or before start wraps past midnight")
	cmd.Flags().StringArray("position", nil, "Required headcount as id=count, repeatable (e.g. --position patrol=2)")
	cmd.MarkFlagRequired("days")

	return cmd
}

func deleteShiftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deleteShift <id>",
		Short: "Delete a shift by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.DeleteShift(app.ctx, app.database, app.logger, args[0]); err != nil {
				return err
			}
			fmt.Printf("Shift %s deleted.\n", args[0])
			return nil
		},
	}
}

func listShiftsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listShifts",
		Short: "List all defined shifts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shifts, err := services.ListShifts(app.ctx, app.database, app.logger)
			if err != nil {
				return err
			}
			report.ShiftTable(os.Stdout, shifts)
			return nil
		},
	}
}

func setIncidentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setIncidents <day> <hour> <count>",
		Short: "Record the incident count for one weekday/hour slot",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := model.Weekday(strings.ToUpper(args[0]))
			hour, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("hour must be a number: %w", err)
			}
			count, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("count must be a number: %w", err)
			}

			if err := services.SetIncidents(app.ctx, app.database, app.logger, day, hour, count); err != nil {
				return err
			}
			fmt.Printf("Recorded %d incident(s) for %s %02d:00.\n", count, day, hour)
			return nil
		},
	}
}

func listIncidentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listIncidents",
		Short: "List recorded incident counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			volumes, err := services.ListCallVolumes(app.ctx, app.database, app.logger)
			if err != nil {
				return err
			}
			if len(volumes) == 0 {
				fmt.Println("No incidents recorded.")
				return nil
			}
			for _, cv := range volumes {
				fmt.Printf("%s %02d:00 - %d incident(s)\n", cv.Day.Label(), cv.Hour, cv.Incidents)
			}
			return nil
		},
	}
}

func heatmapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "heatmap",
		Short: "Show the weekly incident heatmap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.AnalyzeCoverage(app.ctx, app.database, app.database, app.logger, services.AnalyzeOptions{})
			if err != nil {
				return err
			}
			report.Heatmap(os.Stdout, result.Matrix)
			return nil
		},
	}
}

func chartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Show staffing levels per weekday/hour",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			position, _ := cmd.Flags().GetString("position")
			if position == "" {
				position = app.cfg.DefaultPosition
			}

			result, err := services.AnalyzeCoverage(app.ctx, app.database, app.database, app.logger, services.AnalyzeOptions{Position: position})
			if err != nil {
				return err
			}

			label := "all positions"
			if pos, ok := model.PositionByID(position); ok {
				label = pos.Name
			}
			report.SkippedShifts(os.Stdout, result.Matrix.SkippedShifts)
			report.StaffingChart(os.Stdout, result.Matrix, label)
			return nil
		},
	}

	cmd.Flags().String("position", "", "Restrict the chart to one position id (e.g. patrol)")
	return cmd
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Classify staffing gaps and peak hours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			position, _ := cmd.Flags().GetString("position")
			threshold, _ := cmd.Flags().GetInt("peak-threshold")
			if threshold <= 0 {
				threshold = app.cfg.PeakThreshold
			}

			result, err := services.AnalyzeCoverage(app.ctx, app.database, app.database, app.logger, services.AnalyzeOptions{
				Position:      position,
				PeakThreshold: threshold,
			})
			if err != nil {
				return err
			}

			report.SkippedShifts(os.Stdout, result.Matrix.SkippedShifts)
			report.Analysis(os.Stdout, result.Report)
			return nil
		},
	}

	cmd.Flags().String("position", "", "Restrict the headcount dimension to one position id")
	cmd.Flags().Int("peak-threshold", 0, "Incident count that marks a peak hour (default from config)")
	return cmd
}

func rosterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Project the weekly shift pattern onto calendar dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			weeks, _ := cmd.Flags().GetInt("weeks")
			fromStr, _ := cmd.Flags().GetString("from")

			from := time.Now()
			if fromStr != "" {
				var err error
				from, err = time.Parse("2006-01-02", fromStr)
				if err != nil {
					return fmt.Errorf("invalid --from date: %w", err)
				}
			}

			entries, err := services.BuildRoster(app.ctx, app.database, app.logger, from, weeks)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No roster entries: define shifts first.")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%s  %s-%s  %s\n",
					e.Date.Format("2006-01-02 (Mon)"), e.StartTime, e.EndTime, e.ShiftName)
			}
			return nil
		},
	}

	cmd.Flags().Int("weeks", 1, "Number of weeks to project")
	cmd.Flags().String("from", "", "First day of the projection (YYYY-MM-DD, default today)")
	return cmd
}

func exportShiftsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exportShifts",
		Short: "Export shifts to a dated JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("out")
			if dir == "" {
				dir = app.cfg.ExportDir
			}
			path, err := services.ExportShifts(app.ctx, app.database, app.logger, dir, time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("Shifts exported to %s\n", path)
			return nil
		},
	}
	cmd.Flags().String("out", "", "Output directory (default from config)")
	return cmd
}

func importShiftsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "importShifts <file>",
		Short: "Replace stored shifts with the valid records from an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := services.ImportShifts(app.ctx, app.database, app.logger, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d shift(s)", summary.Accepted)
			if len(summary.Rejected) > 0 {
				fmt.Printf(", dropped %d invalid record(s)", len(summary.Rejected))
			}
			fmt.Println(".")
			return nil
		},
	}
}

func exportIncidentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exportIncidents",
		Short: "Export incident records to a dated JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("out")
			if dir == "" {
				dir = app.cfg.ExportDir
			}
			path, err := services.ExportCallVolumes(app.ctx, app.database, app.logger, dir, time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("Incidents exported to %s\n", path)
			return nil
		},
	}
	cmd.Flags().String("out", "", "Output directory (default from config)")
	return cmd
}

func importIncidentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "importIncidents <file>",
		Short: "Replace stored incident records with the valid records from an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := services.ImportCallVolumes(app.ctx, app.database, app.logger, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d incident record(s)", summary.Accepted)
			if len(summary.Rejected) > 0 {
				fmt.Printf(", dropped %d invalid record(s)", len(summary.Rejected))
			}
			fmt.Println(".")
			return nil
		},
	}
}
