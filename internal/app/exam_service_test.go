package app_test

import (
	"context"
	"errors"
	"testing"

	"college-exam-system/internal/app"
	"college-exam-system/internal/domain"
	"college-exam-system/internal/infra/memory"
	"college-exam-system/internal/store"
)

func TestTakeExamRecordsScore(t *testing.T) {
	ctx := context.Background()
	service, st := newTestService(t)

	attempt, err := service.Start(ctx, "S1", "GEO")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if attempt.Question != "Capital of France?" || attempt.Total != 3 {
		t.Fatalf("unexpected attempt %+v", attempt)
	}

	if _, err := service.Advance(ctx, attempt.ID, "paris"); err != nil {
		t.Fatalf("advance: %v", err)
	}
	next, err := service.Advance(ctx, attempt.ID, "4")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if !next.Last || next.State != domain.StateAwaitingSubmit {
		t.Fatalf("expected last question, got %+v", next)
	}

	done, err := service.Submit(ctx, attempt.ID, "red")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if done.Score != 2 || done.State != domain.StateCompleted {
		t.Fatalf("unexpected result %+v", done)
	}
	rec, err := st.Score("S1", "GEO")
	if err != nil || rec.Score != 2 {
		t.Fatalf("expected recorded score 2, got %+v %v", rec, err)
	}
	if _, err := service.Attempt(ctx, attempt.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("completed session should be dropped, got %v", err)
	}
}

func TestRetakeOverwritesScore(t *testing.T) {
	ctx := context.Background()
	service, st := newTestService(t)

	take := func(answers ...string) {
		t.Helper()
		attempt, err := service.Start(ctx, "S1", "GEO")
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		for _, a := range answers[:len(answers)-1] {
			if _, err := service.Advance(ctx, attempt.ID, a); err != nil {
				t.Fatalf("advance: %v", err)
			}
		}
		if _, err := service.Submit(ctx, attempt.ID, answers[len(answers)-1]); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	take("Paris", "4", "Blue")
	take("Rome", "5", "Blue")

	scores := st.ScoresFor("S1")
	if len(scores) != 1 || scores[0].Score != 1 {
		t.Fatalf("expected only the second score (1), got %+v", scores)
	}
}

func TestStartRequiresStudentAndExam(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	if _, err := service.Start(ctx, "S9", "GEO"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected unknown student, got %v", err)
	}
	if _, err := service.Start(ctx, "L1", "GEO"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected lecturer to be refused, got %v", err)
	}
	if _, err := service.Start(ctx, "S1", "ART"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected missing exam, got %v", err)
	}
}

func TestInvalidTransitionIsReported(t *testing.T) {
	ctx := context.Background()
	service, st := newTestService(t)

	attempt, err := service.Start(ctx, "S1", "GEO")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	view, err := service.Submit(ctx, attempt.ID, "too early")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if view.State != domain.StatePresenting || view.Index != 0 {
		t.Fatalf("session changed after rejected submit: %+v", view)
	}
	if len(st.Scores()) != 0 {
		t.Fatalf("no score should be recorded")
	}
	if _, err := service.Advance(ctx, "missing", "x"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}

	service.Abandon(ctx, attempt.ID)
	if _, err := service.Attempt(ctx, attempt.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected abandoned session gone, got %v", err)
	}
}

func newTestService(t *testing.T) (*app.ExamService, *store.Store) {
	t.Helper()
	st := store.New()
	seed := []error{
		st.AddAccount(domain.Account{ID: "S1", Name: "Alice", Username: "alice", Password: "pw", Role: domain.RoleStudent}),
		st.AddAccount(domain.Account{ID: "L1", Name: "Dr Smith", Username: "smith", Password: "pw", Role: domain.RoleLecturer}),
		st.AddSubject(domain.Subject{ID: "GEO", Name: "Geography"}),
		st.AddExam(domain.Exam{
			SubjectID:  "GEO",
			LecturerID: "L1",
			Duration:   30,
			Questions:  []string{"Capital of France?", "2+2?", "Sky colour?"},
			Answers:    []string{"Paris", "4", "Blue"},
		}),
	}
	for _, err := range seed {
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	exams := memory.NewExamRepository(memory.NewStoreExamLoader(st), 0)
	return app.NewExamService(memory.NewSessionStore(), exams, st), st
}
