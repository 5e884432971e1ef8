package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"mapwize-api/core/models"
	"mapwize-api/core/reconcile"
	"mapwize-api/feature/syncer"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	syncVenue       string
	syncFile        string
	syncObject      string
	syncOwner       string
	syncDuplicates  string
	syncConcurrency int
	dryRunSync      bool
	yesConfirm      bool
)

// syncCmd reconciles one kind of venue objects against a desired list.
var syncCmd = &cobra.Command{
	Use:   "sync <kind>",
	Short: "Reconcile venue objects with a desired list",
	Long: `Converges the objects of one kind in a venue to a desired list.

Objects missing on the server are created, changed ones are updated and server
objects absent from the list are deleted. The plan is always printed first.

Kinds: layers, places, placeLists, connectors, beacons, templates.

Examples:
  # Show the plan only
  sync places --venue 5d08d8a4efe1d20012809ee5 --file places.yaml --dry-run

  # Apply with interactive confirmation
  sync places --venue 5d08d8a4efe1d20012809ee5 --file places.json

  # Apply a stored manifest, only touching objects of one owner
  sync layers --venue 5d08d8a4efe1d20012809ee5 --object layers.json --filter-owner 5c1a... --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncVenue, "venue", "", "Venue ID")
	syncCmd.Flags().StringVar(&syncFile, "file", "", "Local manifest file (JSON or YAML)")
	syncCmd.Flags().StringVar(&syncObject, "object", "", "Manifest name in object storage")
	syncCmd.Flags().StringVar(&syncOwner, "filter-owner", "", "Only reconcile server objects of this owner")
	syncCmd.Flags().StringVar(&syncDuplicates, "duplicates", "", "Duplicate name policy (error, last_wins)")
	syncCmd.Flags().IntVar(&syncConcurrency, "concurrency", 0, "Operations in flight per batch")
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Compute the plan without applying it")
	syncCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	_ = syncCmd.MarkFlagRequired("venue")
	syncCmd.MarkFlagsMutuallyExclusive("file", "object")
	syncCmd.MarkFlagsOneRequired("file", "object")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	kind, err := models.ParseKind(args[0])
	if err != nil {
		return err
	}

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.logger.Sync()
	l := rt.logger.With(zap.String("kind", string(kind)), zap.String("venue_id", syncVenue))

	svc := rt.syncService(prometheus.NewRegistry())

	objects, err := loadDesired(ctx, svc, kind)
	if err != nil {
		return err
	}

	req := syncer.Request{
		Kind:        kind,
		VenueID:     syncVenue,
		Objects:     objects,
		OwnerFilter: syncOwner,
		Duplicates:  syncDuplicates,
		Concurrency: syncConcurrency,
	}

	// Step 1: Plan (always runs)
	l.Info("Planning reconciliation...")
	planned, err := svc.Plan(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to plan reconciliation: %w", err)
	}
	printSyncReport(l, planned.Report)

	if dryRunSync {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if planned.Report.Summary.Operations() == 0 {
		l.Info("Venue is already in sync.")
		return nil
	}

	// Step 2: Apply exactly the plan shown (if confirmed)
	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	l.Info("Applying plan...", zap.String("plan_run_id", planned.Report.RunID))
	report, err := svc.ApplyPlanned(ctx, planned)
	if report != nil {
		printSyncReport(l, report)
	}
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}

	l.Info("Successfully executed operations", zap.Int("count", report.Executed))
	return nil
}

// loadDesired reads the desired list from a local file or a stored manifest.
func loadDesired(ctx context.Context, svc *syncer.Service, kind models.Kind) (json.RawMessage, error) {
	if syncObject != "" {
		return svc.LoadStoredManifest(ctx, kind, syncObject)
	}
	data, err := os.ReadFile(syncFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return syncer.LoadManifest(kind, data, syncer.FormatFromPath(syncFile))
}

// printSyncReport prints a formatted sync report using logger.
func printSyncReport(l *zap.Logger, report *syncer.Report) {
	s := report.Summary

	l.Info("Sync report",
		zap.String("run_id", report.RunID),
		zap.String("status", report.Status),
		zap.Int("server", s.Server),
		zap.Int("create", s.Create),
		zap.Int("update", s.Update),
		zap.Int("delete", s.Delete),
		zap.Int("unchanged", s.Unchanged),
	)

	// Show sample of operations (max 5 for logger)
	shown := 0
	const maxShow = 5
	for _, r := range report.Results {
		if r.Action == reconcile.ActionUnchanged || r.Action == reconcile.ActionSkipped {
			continue
		}
		if shown == maxShow {
			break
		}
		l.Info("Planned operation",
			zap.String("action", string(r.Action)),
			zap.String("name", r.Name),
			zap.String("id", r.ID),
		)
		shown++
	}
	for i, d := range report.Deleted {
		if i == maxShow {
			l.Info("Additional deletions not shown", zap.Int("count", len(report.Deleted)-maxShow))
			break
		}
		l.Info("Planned deletion", zap.String("name", d.Name), zap.String("id", d.ID))
	}

	if report.ReportKey != "" {
		l.Info("Report stored", zap.String("key", report.ReportKey))
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
