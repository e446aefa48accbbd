package cli

import (
	"fmt"

	"college-exam-system/internal/domain"
	"github.com/spf13/cobra"
)

// NewSubjectCmd groups the subject commands.
func NewSubjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subject",
		Short: "Manage subjects",
	}

	var id, name string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(true, func(w *workspace) error {
				if err := w.store.AddSubject(domain.Subject{ID: id, Name: name}); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Subject added successfully.")
				return nil
			})
		},
	}
	add.Flags().StringVar(&id, "id", "", "subject id")
	add.Flags().StringVar(&name, "name", "", "subject name")

	update := &cobra.Command{
		Use:   "update",
		Short: "Rename a subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(true, func(w *workspace) error {
				if err := w.store.UpdateSubject(id, name); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Subject updated successfully.")
				return nil
			})
		},
	}
	update.Flags().StringVar(&id, "id", "", "subject id")
	update.Flags().StringVar(&name, "name", "", "new subject name")

	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete a subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(true, func(w *workspace) error {
				if err := w.store.RemoveSubject(id); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Subject deleted successfully.")
				return nil
			})
		},
	}
	del.Flags().StringVar(&id, "id", "", "subject id")

	list := &cobra.Command{
		Use:   "list",
		Short: "List subjects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(false, func(w *workspace) error {
				subjects := w.store.Subjects()
				if len(subjects) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No subjects found.")
				}
				for _, s := range subjects {
					fmt.Fprintf(cmd.OutOrStdout(), "Subject: %s (ID: %s)\n", s.Name, s.ID)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(add, update, del, list)
	return cmd
}
