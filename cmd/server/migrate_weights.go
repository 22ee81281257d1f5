package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ptcoach/fitness-planner/internal/service"
)

var migrateWeightsFlags struct {
	DryRun bool
}

var migrateWeightsCmd = &cobra.Command{
	Use:   "migrate-weights",
	Short: "Convert legacy free-text weights to kg/lbs",
	Long:  `Parses legacy weights like "80kg" into weightKg and weightLbs on every plan exercise that has no kg value yet. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.close()

		report, err := service.NewMigrationService(st.plans, st.users, st.counters, cfg.Location()).MigrateWeights(cmd.Context(), migrateWeightsFlags.DryRun)
		if err != nil {
			return fmt.Errorf("weight migration failed: %w", err)
		}

		verb := "Updated"
		if migrateWeightsFlags.DryRun {
			verb = "Would update"
		}
		fmt.Printf("Scanned %d plans. %s %d plans (%d exercises).\n",
			report.PlansScanned, verb, report.PlansUpdated, report.ExercisesUpdated)
		return nil
	},
}

func init() {
	migrateWeightsCmd.Flags().BoolVar(&migrateWeightsFlags.DryRun, "dry-run", false, "Report what would change without writing")
	rootCmd.AddCommand(migrateWeightsCmd)
}
