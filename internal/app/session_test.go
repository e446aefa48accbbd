package app

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"college-exam-system/internal/domain"
)

func threeQuestionExam() domain.Exam {
	return domain.Exam{
		SubjectID:  "GEO",
		LecturerID: "L1",
		Duration:   30,
		Questions:  []string{"Capital of France?", "2+2?", "Sky colour?"},
		Answers:    []string{"Paris", "4", "Blue"},
	}
}

func TestSessionWalkThrough(t *testing.T) {
	s := NewSession("S1")
	if s.State() != domain.StateNotStarted {
		t.Fatalf("expected not started, got %s", s.State())
	}
	if err := s.Start(threeQuestionExam()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if q, ok := s.CurrentQuestion(); !ok || q != "Capital of France?" {
		t.Fatalf("unexpected first question %q", q)
	}

	if err := s.Advance("paris"); err != nil {
		t.Fatalf("advance 1: %v", err)
	}
	if s.State() != domain.StatePresenting || s.Index() != 1 {
		t.Fatalf("expected presenting(1), got %s(%d)", s.State(), s.Index())
	}
	if err := s.Advance("4"); err != nil {
		t.Fatalf("advance 2: %v", err)
	}
	if !s.IsLastQuestion() || s.State() != domain.StateAwaitingSubmit {
		t.Fatalf("expected awaiting submit, got %s", s.State())
	}
	if q, _ := s.CurrentQuestion(); q != "Sky colour?" {
		t.Fatalf("expected last question, got %q", q)
	}
	if n := len(s.Answers()); n != 2 {
		t.Fatalf("last answer must not be recorded before submit, got %d answers", n)
	}

	score, err := s.Submit("red")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if score != 2 || s.Score() != 2 {
		t.Fatalf("expected score 2, got %d", score)
	}
	if s.State() != domain.StateCompleted {
		t.Fatalf("expected completed, got %s", s.State())
	}
	if !reflect.DeepEqual(s.Answers(), []string{"paris", "4", "red"}) {
		t.Fatalf("unexpected answers %v", s.Answers())
	}
	if _, ok := s.CurrentQuestion(); ok {
		t.Fatalf("completed session should have no current question")
	}
}

func TestSessionSingleQuestionGoesStraightToSubmit(t *testing.T) {
	s := NewSession("S1")
	err := s.Start(domain.Exam{SubjectID: "CS", Questions: []string{"Go?"}, Answers: []string{"yes"}})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.State() != domain.StateAwaitingSubmit {
		t.Fatalf("expected awaiting submit, got %s", s.State())
	}
	if score, err := s.Submit("YES"); err != nil || score != 1 {
		t.Fatalf("expected score 1, got %d %v", score, err)
	}
}

func TestSessionRejectsEmptyExam(t *testing.T) {
	s := NewSession("S1")
	if err := s.Start(domain.Exam{SubjectID: "CS"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if s.State() != domain.StateNotStarted {
		t.Fatalf("failed start changed state to %s", s.State())
	}
}

func TestSessionInvalidTransitionsDoNotMutate(t *testing.T) {
	s := NewSession("S1")

	if err := s.Advance("x"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("advance before start: expected invalid transition, got %v", err)
	}
	if _, err := s.Submit("x"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("submit before start: expected invalid transition, got %v", err)
	}
	if s.State() != domain.StateNotStarted || len(s.Answers()) != 0 {
		t.Fatalf("session mutated before start")
	}

	_ = s.Start(threeQuestionExam())
	if _, err := s.Submit("early"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("submit while presenting: expected invalid transition, got %v", err)
	}
	before := s.Attempt()
	if err := s.Start(threeQuestionExam()); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("second start: expected invalid transition, got %v", err)
	}
	if s.Attempt() != before || len(s.Answers()) != 0 {
		t.Fatalf("session mutated by rejected transitions")
	}

	_ = s.Advance("a")
	_ = s.Advance("b")
	before = s.Attempt()
	if err := s.Advance("c"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("advance while awaiting submit: expected invalid transition, got %v", err)
	}
	if s.Attempt() != before || len(s.Answers()) != 2 {
		t.Fatalf("session mutated by rejected advance")
	}

	_, _ = s.Submit("c")
	before = s.Attempt()
	if _, err := s.Submit("again"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("second submit: expected invalid transition, got %v", err)
	}
	if s.Attempt() != before || len(s.Answers()) != 3 {
		t.Fatalf("session mutated by rejected submit")
	}
}

func TestSessionElapsedUsesClock(t *testing.T) {
	base := time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)
	now := base
	s := NewSessionWithClock("S1", func() time.Time { return now })
	if s.Elapsed() != 0 {
		t.Fatalf("expected zero elapsed before start")
	}
	_ = s.Start(domain.Exam{SubjectID: "CS", Questions: []string{"q"}, Answers: []string{"a"}})
	now = base.Add(90 * time.Minute)
	if _, err := s.Submit("a"); err != nil {
		t.Fatalf("submit past the nominal duration must still succeed: %v", err)
	}
	now = base.Add(3 * time.Hour)
	if got := s.Elapsed(); got != 90*time.Minute {
		t.Fatalf("expected 90m elapsed, got %s", got)
	}
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name      string
		correct   []string
		submitted []string
		want      int
	}{
		{"case insensitive", []string{"Paris", "4", "Blue"}, []string{"paris", "4", "red"}, 2},
		{"missing answers", []string{"A", "B", "C"}, []string{"A"}, 1},
		{"extra answers ignored", []string{"A"}, []string{"a", "b", "c"}, 1},
		{"whitespace is significant", []string{"Paris"}, []string{" Paris"}, 0},
		{"nothing submitted", []string{"A", "B"}, nil, 0},
		{"all correct", []string{"x", "Y"}, []string{"X", "y"}, 2},
	}
	for _, c := range cases {
		if got := Evaluate(c.correct, c.submitted); got != c.want {
			t.Fatalf("%s: expected %d, got %d", c.name, c.want, got)
		}
	}
}
