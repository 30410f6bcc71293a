package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PalikaProfile/Profile-Backend/internal/auth"
	"github.com/PalikaProfile/Profile-Backend/internal/db"
)

func newCreateAdminCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an account allowed to edit profile data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < auth.MinPasswordLength {
				return fmt.Errorf("password must be at least %d characters", auth.MinPasswordLength)
			}
			auth.Init()
			user, err := auth.CreateUser(cmd.Context(), db.DB, username, password, auth.RoleAdmin)
			if errors.Is(err, auth.ErrUsernameTaken) {
				return fmt.Errorf("username %q is already taken", username)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Username, user.UserID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
