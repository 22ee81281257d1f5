package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ptcoach/fitness-planner/internal/service"
)

var seedAdminFlags struct {
	Username string
	Password string
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the bootstrap admin account",
	Long:  `Creates an admin account when none exists. Does nothing if any admin is already present.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.JWT.Secret == "" {
			return errors.New("jwt.secret (JWT_SECRET) must be set")
		}
		username, password := cfg.Seed.AdminUsername, cfg.Seed.AdminPassword
		if seedAdminFlags.Username != "" {
			username = seedAdminFlags.Username
		}
		if seedAdminFlags.Password != "" {
			password = seedAdminFlags.Password
		}

		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.close()

		created, err := service.NewAuthService(st.users, cfg.JWT.Secret, cfg.JWT.Expiration).
			SeedAdmin(cmd.Context(), username, password)
		if err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
		if created {
			fmt.Printf("Admin account %q created.\n", username)
		} else {
			fmt.Println("An admin account already exists, nothing to do.")
		}
		return nil
	},
}

func init() {
	seedAdminCmd.Flags().StringVar(&seedAdminFlags.Username, "username", "", "Admin username (default from seed.admin_username)")
	seedAdminCmd.Flags().StringVar(&seedAdminFlags.Password, "password", "", "Admin password (default from seed.admin_password)")
	rootCmd.AddCommand(seedAdminCmd)
}
