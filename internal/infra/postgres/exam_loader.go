package postgres

import (
	"context"
	"errors"
	"fmt"

	"college-exam-system/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const examColumns = `subject_id, lecturer_id, duration, questions, answers`

// ExamLoader reads exam definitions from the exams table.
type ExamLoader struct {
	pool *pgxpool.Pool
}

func NewExamLoader(pool *pgxpool.Pool) *ExamLoader {
	return &ExamLoader{pool: pool}
}

// LoadExam returns the oldest exam defined for subjectID.
func (l *ExamLoader) LoadExam(ctx context.Context, subjectID string) (domain.Exam, error) {
	row := l.pool.QueryRow(ctx, `SELECT `+examColumns+` FROM exams WHERE subject_id=$1 ORDER BY id LIMIT 1`, subjectID)
	exam, err := scanExam(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Exam{}, domain.Missing("exam for subject", subjectID)
	}
	if err != nil {
		return domain.Exam{}, fmt.Errorf("load exam: %w", err)
	}
	return exam, nil
}

// LoadAll returns every exam in insertion order.
func (l *ExamLoader) LoadAll(ctx context.Context) ([]domain.Exam, error) {
	rows, err := l.pool.Query(ctx, `SELECT `+examColumns+` FROM exams ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load exams: %w", err)
	}
	defer rows.Close()

	var exams []domain.Exam
	for rows.Next() {
		exam, err := scanExam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exam: %w", err)
		}
		exams = append(exams, exam)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load exams: %w", err)
	}
	return exams, nil
}

// Insert stores an exam definition.
func (l *ExamLoader) Insert(ctx context.Context, exam domain.Exam) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO exams (`+examColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		exam.SubjectID, exam.LecturerID, exam.Duration, exam.Questions, exam.Answers)
	if err != nil {
		return fmt.Errorf("insert exam: %w", err)
	}
	return nil
}

func scanExam(row pgx.Row) (domain.Exam, error) {
	var exam domain.Exam
	err := row.Scan(&exam.SubjectID, &exam.LecturerID, &exam.Duration, &exam.Questions, &exam.Answers)
	return exam, err
}
