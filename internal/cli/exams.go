package cli

import (
	"fmt"

	"college-exam-system/internal/domain"
	"college-exam-system/internal/store"
	"github.com/spf13/cobra"
)

// NewExamCmd groups the lecturer exam commands.
func NewExamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exam",
		Short: "Manage exam definitions",
	}
	cmd.AddCommand(newExamAddCmd(), newExamUpdateCmd(), newExamDeleteCmd(), newExamListCmd())
	return cmd
}

type examFlags struct {
	subject   string
	lecturer  string
	duration  int
	questions []string
	answers   []string
}

func (f *examFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.subject, "subject", "", "subject id")
	cmd.Flags().StringVar(&f.lecturer, "lecturer", "", "lecturer id")
	cmd.Flags().IntVar(&f.duration, "duration", 0, "duration in minutes (informational)")
	cmd.Flags().StringArrayVar(&f.questions, "question", nil, "question text, repeat in order")
	cmd.Flags().StringArrayVar(&f.answers, "answer", nil, "expected answer, repeat in question order")
}

func newExamAddCmd() *cobra.Command {
	var f examFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an exam for a subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(true, func(w *workspace) error {
				exam := domain.Exam{
					SubjectID:  f.subject,
					LecturerID: f.lecturer,
					Duration:   f.duration,
					Questions:  f.questions,
					Answers:    f.answers,
				}
				if err := w.store.AddExam(exam); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Exam added successfully.")
				return nil
			})
		},
	}
	f.bind(cmd)
	return cmd
}

func newExamUpdateCmd() *cobra.Command {
	var f examFlags
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Replace the duration, questions and answers of a lecturer's exam",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(true, func(w *workspace) error {
				upd := store.ExamUpdate{Duration: f.duration, Questions: f.questions, Answers: f.answers}
				if err := w.store.UpdateExam(f.subject, f.lecturer, upd); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Exam updated successfully.")
				return nil
			})
		},
	}
	f.bind(cmd)
	return cmd
}

func newExamDeleteCmd() *cobra.Command {
	var subject, lecturer string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a lecturer's exam for a subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(true, func(w *workspace) error {
				if err := w.store.RemoveExam(subject, lecturer); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Exam deleted successfully.")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "subject id")
	cmd.Flags().StringVar(&lecturer, "lecturer", "", "lecturer id")
	return cmd
}

func newExamListCmd() *cobra.Command {
	var lecturer string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List exams, optionally for one lecturer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(false, func(w *workspace) error {
				exams := w.store.Exams()
				if lecturer != "" {
					exams = w.store.ExamsByLecturer(lecturer)
				}
				if len(exams) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No exams found.")
				}
				for _, e := range exams {
					fmt.Fprintf(cmd.OutOrStdout(), "Subject: %s, Lecturer: %s, Duration: %d minutes, Questions: %d\n",
						e.SubjectID, e.LecturerID, e.Duration, len(e.Questions))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&lecturer, "lecturer", "", "lecturer id")
	return cmd
}
