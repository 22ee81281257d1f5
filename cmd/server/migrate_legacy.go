package main

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"ptcoach/fitness-planner/internal/service"
)

var migrateLegacyFlags struct {
	DryRun bool
}

var migrateLegacyCmd = &cobra.Command{
	Use:   "migrate-legacy",
	Short: "Upgrade users, plans and id counters written by the previous server",
	Long: `Backfills usernameKey and isActive on old user rows so they can log in,
moves plan dates stored as local midnight (app.timezone) to midnight UTC,
and lifts the id counters past every id already stored. Safe to run repeatedly.`,
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

		report, err := service.NewMigrationService(st.plans, st.users, st.counters, cfg.Location()).
			MigrateLegacy(cmd.Context(), migrateLegacyFlags.DryRun)
		if err != nil {
			return fmt.Errorf("legacy migration failed: %w", err)
		}

		verb := "Updated"
		if migrateLegacyFlags.DryRun {
			verb = "Would update"
		}
		fmt.Printf("%s %d users (%d skipped on username clashes) and %d plan dates.\n",
			verb, report.UsersBackfilled, report.UsersSkipped, report.PlansRedated)

		sequences := lo.Keys(report.Sequences)
		sort.Strings(sequences)
		for _, seq := range sequences {
			fmt.Printf("Counter %s is at %d.\n", seq, report.Sequences[seq])
		}
		return nil
	},
}

func init() {
	migrateLegacyCmd.Flags().BoolVar(&migrateLegacyFlags.DryRun, "dry-run", false, "Report what would change without writing")
	rootCmd.AddCommand(migrateLegacyCmd)
}
