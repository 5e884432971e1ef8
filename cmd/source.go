package cmd

import (
	"errors"
	"fmt"
	"time"

	"mapwize-api/core/mapwize"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sourceVenue    string
	sourceID       string
	sourceInterval time.Duration
	sourceAttempts int
)

// sourceCmd groups source operations.
var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage venue sources",
}

// rasterCmd groups raster source operations.
var rasterCmd = &cobra.Command{
	Use:   "raster",
	Short: "Manage raster sources",
}

// rasterSetupCmd starts the setup job of a raster source and waits for it.
var rasterSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Run the setup job of a raster source and wait for completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRasterSetup(cmd, true)
	},
}

// rasterWaitCmd waits for a running setup job.
var rasterWaitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the setup job of a raster source",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRasterSetup(cmd, false)
	},
}

func init() {
	for _, c := range []*cobra.Command{rasterSetupCmd, rasterWaitCmd} {
		c.Flags().StringVar(&sourceVenue, "venue", "", "Venue ID")
		c.Flags().StringVar(&sourceID, "source", "", "Raster source ID")
		c.Flags().DurationVar(&sourceInterval, "interval", time.Second, "Delay between two job checks")
		c.Flags().IntVar(&sourceAttempts, "attempts", 60, "Maximum number of job checks")
		_ = c.MarkFlagRequired("venue")
		_ = c.MarkFlagRequired("source")
	}

	rasterCmd.AddCommand(rasterSetupCmd, rasterWaitCmd)
	sourceCmd.AddCommand(rasterCmd)
	RootCmd.AddCommand(sourceCmd)
}

func runRasterSetup(cmd *cobra.Command, start bool) error {
	ctx := cmd.Context()
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.logger.Sync()
	l := rt.logger.With(zap.String("venue_id", sourceVenue), zap.String("source_id", sourceID))

	if start {
		job, err := rt.api.RunRasterSourceSetupJob(ctx, sourceVenue, sourceID)
		if err != nil {
			return err
		}
		l.Info("Setup job started", zap.String("job_id", job.JobID))
	}

	completed, err := rt.api.WaitRasterSourceSetupJob(ctx, sourceVenue, sourceID, mapwize.PollOptions{
		Interval:    sourceInterval,
		MaxAttempts: sourceAttempts,
	})
	if errors.Is(err, mapwize.ErrPollExhausted) {
		l.Warn("Setup job still running, try again later", zap.Int("attempts", sourceAttempts))
		return err
	}
	if err != nil {
		return err
	}
	if !completed {
		return fmt.Errorf("setup job of raster source %s failed", sourceID)
	}

	l.Info("Setup job completed")
	return nil
}
