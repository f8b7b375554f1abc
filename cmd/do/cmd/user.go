package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/templui/objectives/internal/model"
	"github.com/templui/objectives/internal/service"
)

func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(userCreateCmd(), userListCmd(), userSetPasswordCmd(), userSetRoleCmd(), userDeleteCmd())
	return cmd
}

func userCreateCmd() *cobra.Command {
	var name, role string

	cmd := &cobra.Command{
		Use:   "create <email> <password>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if name == "" {
				name, _, _ = strings.Cut(args[0], "@")
			}

			created, err := a.AdminService.CreateUser(service.NewUser{
				Email:    args[0],
				Name:     name,
				Password: args[1],
				Role:     role,
			})
			if err != nil {
				return err
			}
			fmt.Printf("created %s (%s) as %s\n", created.User.Email, created.User.ID, created.Profile.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name (defaults to the email local part)")
	cmd.Flags().StringVar(&role, "role", model.RoleViewer, "admin, editor or viewer")
	return cmd
}

func userListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			users, err := a.AdminService.ListUsers()
			if err != nil {
				return err
			}
			for _, u := range users {
				fmt.Printf("%s\t%s\t%s\n", u.User.ID, u.User.Email, u.Profile.Role)
			}
			return nil
		},
	}
}

func userSetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-password <email> <password>",
		Short: "Replace an account's password",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.UserService.ByEmail(args[0])
			if err != nil {
				return err
			}
			return a.AdminService.UpdatePassword(user.ID, args[1])
		},
	}
}

func userSetRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <email> <role>",
		Short: "Change an account's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.UserService.ByEmail(args[0])
			if err != nil {
				return err
			}
			return a.AdminService.SetRole(user.ID, args[1])
		},
	}
}

func userDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <email>",
		Short: "Delete an account with its goals and documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.UserService.ByEmail(args[0])
			if err != nil {
				return err
			}
			err = a.AdminService.DeleteUser(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", user.Email)
			return nil
		},
	}
}
