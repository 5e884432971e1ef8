package cmd

import (
	"context"

	"mapwize-api/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the storage layout, history schema and API access",
	Long:  `Runs every integrity check. Use a subcommand to run a single check, optionally with --fix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true, true)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix the manifest and report folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false, false)
	},
}

// serverCmd represents the integrity server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Check and migrate the history database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true, false)
	},
}

// apiCmd represents the integrity api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Check the Mapwize API key and organization",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, serverCmd, apiCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing folders")
	serverCmd.Flags().BoolVar(&fixFlag, "fix", false, "Migrate the history tables")
}

func runIntegrityChecks(ctx context.Context, runStructure, runServer, runAPI bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	logg := rt.logger
	defer logg.Sync()

	svc := integrity.NewService(rt.store, rt.cfg.Storage, logg, rt.db, rt.venues())
	// --fix only applies when a single check is selected.
	single := !(runStructure && runServer && runAPI)

	if runStructure {
		logg.Info("Checking folder structure...")
		missing, err := svc.CheckStructure(ctx)
		switch {
		case err != nil:
			logg.Error("Structure check failed", zap.Error(err))
		case len(missing) == 0:
			logg.Info("Structure is intact.")
		default:
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))
			if single && fixFlag {
				logg.Info("Fixing missing folders...")
				if err := svc.FixStructure(ctx, missing); err != nil {
					return err
				}
				logg.Info("Structure fixed successfully.")
			} else if single {
				logg.Info("Run with --fix to create missing folders.")
			}
		}
	}

	if runServer {
		logg.Info("Checking history schema integrity...", zap.String("driver", rt.cfg.Database.Driver))
		if single && fixFlag {
			if err := svc.FixServer(); err != nil {
				return err
			}
			logg.Info("History tables migrated.")
		}
		report, err := svc.CheckServer()
		if err != nil {
			logg.Error("Server schema check failed", zap.Error(err))
		} else if report.Matched {
			logg.Info("History schema matches expected definition.", zap.String("driver", report.Driver))
		} else {
			logg.Warn("History schema mismatches found", zap.String("driver", report.Driver))
			for table, tblReport := range report.Tables {
				if tblReport.Status == "ok" {
					continue
				}
				if len(tblReport.MissingColumns) > 0 {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tblReport.MissingColumns))
				}
				if len(tblReport.TypeMismatches) > 0 {
					logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tblReport.TypeMismatches))
				}
			}
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}
	}

	if runAPI {
		logg.Info("Checking Mapwize API access...")
		report, err := svc.CheckAPI(ctx)
		switch {
		case err != nil:
			logg.Error("API check failed", zap.Error(err))
		case report.Reachable:
			logg.Info("API reachable", zap.Int("venues", report.Venues), zap.String("latency", report.Latency))
		default:
			logg.Warn("API unreachable", zap.String("error", report.Error))
		}
	}

	return nil
}
