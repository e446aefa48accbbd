package cli

import (
	"bufio"
	"fmt"
	"io"

	"college-exam-system/internal/app"
	"college-exam-system/internal/domain"
	"college-exam-system/internal/infra/memory"
	"github.com/spf13/cobra"
)

// NewLoginCmd checks a username/password pair.
func NewLoginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check credentials and report the account they belong to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(false, func(w *workspace) error {
				acc, err := w.store.Authenticate(username, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s, ID: %s)\n", acc.Name, roleTitle(acc.Role), acc.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

// NewTakeCmd runs an exam attempt on stdin/stdout, one answer per line.
func NewTakeCmd() *cobra.Command {
	var student, subject string
	cmd := &cobra.Command{
		Use:   "take",
		Short: "Take the exam for a subject, reading one answer per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(true, func(w *workspace) error {
				exams := memory.NewExamRepository(memory.NewStoreExamLoader(w.store), 0)
				service := app.NewExamService(memory.NewSessionStore(), exams, w.store)
				return takeExam(cmd, service, student, subject)
			})
		},
	}
	cmd.Flags().StringVar(&student, "student", "", "student id")
	cmd.Flags().StringVar(&subject, "subject", "", "subject id")
	return cmd
}

func takeExam(cmd *cobra.Command, service *app.ExamService, studentID, subjectID string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())

	attempt, err := service.Start(ctx, studentID, subjectID)
	if err != nil {
		return err
	}
	defer service.Abandon(ctx, attempt.ID)

	for {
		fmt.Fprintf(out, "Q%d: %s\n", attempt.Index+1, attempt.Question)
		answer, err := readAnswer(in)
		if err != nil {
			return err
		}
		if !attempt.Last {
			if attempt, err = service.Advance(ctx, attempt.ID, answer); err != nil {
				return err
			}
			continue
		}
		done, err := service.Submit(ctx, attempt.ID, answer)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Your score: %d/%d\n", done.Score, done.Total)
		return nil
	}
}

func readAnswer(in *bufio.Scanner) (string, error) {
	if in.Scan() {
		return in.Text(), nil
	}
	if err := in.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("exam interrupted: %w", io.ErrUnexpectedEOF)
}

// NewScoresCmd lists a student's recorded scores.
func NewScoresCmd() *cobra.Command {
	var student string
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show a student's scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(false, func(w *workspace) error {
				if _, err := w.store.Account(student); err != nil {
					return err
				}
				printScores(cmd.OutOrStdout(), w.store.ScoresFor(student))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&student, "student", "", "student id")
	return cmd
}

func printScores(out io.Writer, records []domain.ScoreRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No scores available.")
		return
	}
	for _, r := range records {
		fmt.Fprintf(out, "Subject: %s - Score: %d\n", r.SubjectID, r.Score)
	}
}
