package cli

import (
	"fmt"
	"strings"

	"college-exam-system/internal/domain"
	"college-exam-system/internal/store"
	"github.com/spf13/cobra"
)

// NewAccountCmd groups the account administration commands.
func NewAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage admin, lecturer and student accounts",
	}
	cmd.AddCommand(newAccountAddCmd(), newAccountUpdateCmd(), newAccountDeleteCmd(),
		newAccountListCmd(), newAccountFindCmd(), newAccountAssignCmd())
	return cmd
}

type accountFlags struct {
	role     string
	id       string
	name     string
	username string
	password string
}

func (f *accountFlags) bind(cmd *cobra.Command, withRole bool) {
	if withRole {
		cmd.Flags().StringVar(&f.role, "role", string(domain.RoleStudent), "admin, lecturer or student")
	}
	cmd.Flags().StringVar(&f.id, "id", "", "account id")
	cmd.Flags().StringVar(&f.name, "name", "", "display name")
	cmd.Flags().StringVar(&f.username, "username", "", "login name")
	cmd.Flags().StringVar(&f.password, "password", "", "password")
}

func newAccountAddCmd() *cobra.Command {
	var f accountFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(true, func(w *workspace) error {
				acc := domain.Account{
					ID:       f.id,
					Name:     f.name,
					Username: f.username,
					Password: f.password,
					Role:     domain.Role(strings.ToLower(f.role)),
				}
				if err := w.store.AddAccount(acc); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s added successfully.\n", roleTitle(acc.Role))
				return nil
			})
		},
	}
	f.bind(cmd, true)
	return cmd
}

func newAccountUpdateCmd() *cobra.Command {
	var f accountFlags
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Replace the name and credentials of an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(true, func(w *workspace) error {
				upd := store.AccountUpdate{Name: f.name, Username: f.username, Password: f.password}
				if err := w.store.UpdateAccount(f.id, upd); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Account updated successfully.")
				return nil
			})
		},
	}
	f.bind(cmd, false)
	return cmd
}

func newAccountDeleteCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an account by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(true, func(w *workspace) error {
				if err := w.store.RemoveAccount(id); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Account deleted successfully.")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "account id")
	return cmd
}

func newAccountListCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts, optionally for one role",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(false, func(w *workspace) error {
				var roles []domain.Role
				if role != "" {
					r := domain.Role(strings.ToLower(role))
					if !r.Valid() {
						return domain.Invalid("role", "is unknown: "+role)
					}
					roles = append(roles, r)
				}
				accounts := w.store.Accounts(roles...)
				if len(accounts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No accounts found.")
					return nil
				}
				for _, a := range accounts {
					printAccount(cmd, a)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "admin, lecturer or student")
	return cmd
}

func newAccountFindCmd() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Search accounts by username",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(false, func(w *workspace) error {
				found := w.store.FindByUsername(strings.TrimSpace(username))
				if len(found) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "User not found.")
					return nil
				}
				for _, a := range found {
					printAccount(cmd, a)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username to look for")
	return cmd
}

func newAccountAssignCmd() *cobra.Command {
	var id, subject string
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign a subject to a lecturer or student",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(true, func(w *workspace) error {
				if err := w.store.AssignSubject(id, subject); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Subject assigned successfully.")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "account id")
	cmd.Flags().StringVar(&subject, "subject", "", "subject id")
	return cmd
}

func printAccount(cmd *cobra.Command, a domain.Account) {
	line := fmt.Sprintf("%s: %s (ID: %s)", roleTitle(a.Role), a.Name, a.ID)
	if len(a.Subjects) > 0 {
		line += " subjects: " + strings.Join(a.Subjects, ", ")
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
}

func roleTitle(r domain.Role) string {
	switch r {
	case domain.RoleAdmin:
		return "Admin"
	case domain.RoleLecturer:
		return "Lecturer"
	case domain.RoleStudent:
		return "Student"
	}
	return string(r)
}
