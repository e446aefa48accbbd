package cli

import (
	"fmt"
	"log"

	"college-exam-system/internal/domain"
	pgloader "college-exam-system/internal/infra/postgres"
	"college-exam-system/internal/store"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewImportExamsCmd copies every exam from Postgres into the flat files.
func NewImportExamsCmd() *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import-exams",
		Short: "Import exam definitions from the Postgres exams table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(true, func(w *workspace) error {
				if w.cfg.Postgres.URL == "" {
					return fmt.Errorf("postgres url not configured")
				}
				pool, err := pgxpool.Connect(cmd.Context(), w.cfg.Postgres.URL)
				if err != nil {
					return err
				}
				defer pool.Close()

				exams, err := pgloader.NewExamLoader(pool).LoadAll(cmd.Context())
				if err != nil {
					return err
				}
				imported := importExams(w.store, exams, replace)
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d exams.\n", imported, len(exams))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "replace exams that already exist for the same subject and lecturer")
	return cmd
}

// importExams adds each exam to the store and returns how many were taken.
// Existing (subject, lecturer) pairs are kept unless replace is set; a
// replacement is validated before it overwrites the existing exam.
func importExams(st *store.Store, exams []domain.Exam, replace bool) int {
	imported := 0
	for _, e := range exams {
		var err error
		if _, findErr := st.ExamFor(e.SubjectID, e.LecturerID); findErr == nil {
			if !replace {
				continue
			}
			err = st.UpdateExam(e.SubjectID, e.LecturerID, store.ExamUpdate{
				Duration:  e.Duration,
				Questions: e.Questions,
				Answers:   e.Answers,
			})
		} else {
			err = st.AddExam(e)
		}
		if err != nil {
			log.Printf("skipping exam for %s: %v", e.SubjectID, err)
			continue
		}
		imported++
	}
	return imported
}
