package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cableerp/models"
	"cableerp/repository"
)

const defaultAdminEmail = "admin@cableerp.com"

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the admin user when it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			return errors.New("--password is required")
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		existing, err := a.Store.Users.GetUserByEmail(cmd.Context(), email)
		if err != nil {
			return err
		}
		if existing != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s already exists\n", email)
			return nil
		}

		admin := &models.AppUser{Name: "Admin", Email: email, Role: "admin", Password: password}
		if err := a.Store.Users.CreateUser(cmd.Context(), admin); err != nil {
			if errors.Is(err, repository.ErrEmailTaken) {
				return nil
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", admin.Email, admin.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedAdminCmd)
	seedAdminCmd.Flags().String("email", defaultAdminEmail, "Admin email")
	seedAdminCmd.Flags().String("password", "", "Admin password")
}
