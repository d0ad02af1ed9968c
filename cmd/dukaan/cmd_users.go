package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/dukaan/app/services"
)

var (
	userName     string
	userEmail    string
	userPassword string
	userRole     string
	userOutletID uint
)

// dukaan user:create
var userCreateCmd = &cobra.Command{
	Use:   "user:create",
	Short: "Create a staff account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}

		var outletID *uint
		if userOutletID != 0 {
			outletID = &userOutletID
		}

		user, err := services.NewAuthService().Register(
			userName, userEmail, userPassword, userRole, outletID)
		if err != nil {
			return err
		}

		fmt.Printf("Created %s user #%d (%s)\n", user.Role, user.ID, user.Email)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userName, "name", "", "display name")
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "login email")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "initial password")
	userCreateCmd.Flags().StringVar(&userRole, "role", "cashier", "admin, manager or cashier")
	userCreateCmd.Flags().UintVar(&userOutletID, "outlet", 0, "home outlet id")
	_ = userCreateCmd.MarkFlagRequired("name")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")
}
