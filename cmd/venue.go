package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cloneTargetOrganization string
	cloneName               string
)

// venueCmd groups venue operations.
var venueCmd = &cobra.Command{
	Use:   "venue",
	Short: "Inspect and copy venues",
}

// venueListCmd lists the venues of the configured organization.
var venueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the venues of the organization, unpublished ones included",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		venues, err := rt.api.Venues().List(ctx)
		if err != nil {
			return err
		}
		for _, v := range venues {
			published := v.IsPublished != nil && *v.IsPublished
			rt.logger.Info("Venue",
				zap.String("id", v.ID),
				zap.String("name", v.Name),
				zap.String("alias", v.Alias),
				zap.Bool("published", published),
			)
		}
		rt.logger.Info("Venues listed", zap.Int("count", len(venues)))
		return nil
	},
}

// venueCloneCmd copies a venue into another organization.
var venueCloneCmd = &cobra.Command{
	Use:   "clone <venueId>",
	Short: "Clone a venue into an organization under a new name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		target := cloneTargetOrganization
		if target == "" {
			target = rt.api.OrganizationID()
		}
		out, err := rt.api.CloneVenue(ctx, args[0], target, cloneName)
		if err != nil {
			return err
		}
		rt.logger.Info("Venue cloned",
			zap.String("source_id", args[0]),
			zap.String("organization_id", target),
			zap.String("id", out.GetID()),
			zap.String("name", out.String("name")),
		)
		return nil
	},
}

func init() {
	venueCloneCmd.Flags().StringVar(&cloneTargetOrganization, "to-organization", "", "Target organization (default: the configured one)")
	venueCloneCmd.Flags().StringVar(&cloneName, "name", "", "Name of the copy")
	_ = venueCloneCmd.MarkFlagRequired("name")

	venueCmd.AddCommand(venueListCmd, venueCloneCmd)
	RootCmd.AddCommand(venueCmd)
}
