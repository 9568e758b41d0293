package cmd

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"sperrmuell/geocode"
	"sperrmuell/report"
	"sperrmuell/services"
	"sperrmuell/sources/osmindex"
	"sperrmuell/sources/schedule"
	"sperrmuell/storage"
	"sperrmuell/utils"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process every collection date that has no complete folder yet",
	Args:  cobra.NoArgs,
	RunE:  runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger.Info("=== Sperrmüll map generator starting (run %s) ===", runID)
	logger.Info("Config: schedule %s | OSM %s | %s | output %s | strategy %s",
		cfg.ScheduleFile, cfg.OSMFile, cfg.Municipality, cfg.OutputDir, cfg.Strategy)

	lock, err := utils.NewDirLock(cfg.OutputDir)
	if err != nil {
		return err
	}
	if err := lock.Lock(logger); err != nil {
		return err
	}
	defer lock.Unlock()

	tree := storage.NewTree(cfg.OutputDir)
	removed, err := tree.CleanStaging()
	if err != nil {
		return err
	}
	for _, name := range removed {
		logger.Warn("Removed leftover staging folder %s", name)
	}

	idx, err := osmindex.NewBuilder(cfg.Municipality, logger).BuildFile(ctx, cfg.OSMFile)
	if err != nil {
		return err
	}
	if err := osmindex.WriteListings(idx, cfg.DebugDir); err != nil {
		return err
	}

	layout, err := schedule.NewLayout(cfg.Columns(), cfg.CategoryMarker)
	if err != nil {
		return err
	}
	table, err := schedule.Load(cfg.ScheduleFile, layout, cfg.ScheduleOptions())
	if err != nil {
		return err
	}
	logger.Info("Loaded %d schedule rows from %s", table.Len(), cfg.ScheduleFile)

	resolver, err := geocode.New(geocode.Options{
		Strategy:  cfg.Strategy,
		Index:     idx.Addresses,
		BaseURL:   cfg.NominatimURL,
		UserAgent: cfg.NominatimUserAgent,
		Policy:    cfg.GeocodePolicy(),
	}, logger)
	if err != nil {
		return err
	}

	renderer, err := report.NewRenderer(report.MapOptions{
		Municipality: cfg.Municipality,
		Center:       cfg.MapCenter(),
		Zoom:         cfg.MapZoom,
	})
	if err != nil {
		return err
	}
	var snapshot *report.Snapshotter
	if cfg.MapSnapshot {
		snapshot = report.NewSnapshotter(cfg.ChromeBin, logger)
	}
	sink := report.NewEmitter(report.EmitterConfig{
		Tree:     tree,
		Renderer: renderer,
		Snapshot: snapshot,
		RunID:    runID,
		Strategy: cfg.Strategy,
	}, logger)

	pipeline := services.NewPipeline(services.PipelineConfig{
		Events:     table,
		Normalizer: services.NewNormalizer(idx.Streets, logger),
		Resolver:   resolver,
		Sink:       sink,
		Policy: services.EnumerationPolicy{
			StopOnMiss: cfg.StopOnMiss,
			MaxSpan:    cfg.MaxSpan,
		},
		SkipPast: cfg.SkipPast,
	}, logger)

	stats, dates, runErr := pipeline.Run(ctx)

	summarySvc := services.NewSummaryService(logger)
	summarySvc.Print(cmd.OutOrStdout(), summarySvc.Generate(len(dates), stats))

	if runErr != nil {
		return runErr
	}
	logger.Info("Done. Index: %s", cfg.OutputDir)
	return nil
}
