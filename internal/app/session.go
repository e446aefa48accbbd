package app

import (
	"fmt"
	"sync"
	"time"

	"college-exam-system/internal/domain"
	"github.com/google/uuid"
)

// Session is one student's attempt at an exam. It moves through
// NotStarted -> Presenting(i) -> AwaitingSubmit -> Completed; AwaitingSubmit
// presents the last question, whose answer arrives with Submit.
type Session struct {
	id        string
	studentID string
	now       func() time.Time

	mu          sync.RWMutex
	exam        domain.Exam
	state       domain.SessionState
	index       int
	answers     []string
	score       int
	startedAt   time.Time
	completedAt time.Time
}

// NewSession creates a session in the NotStarted state.
func NewSession(studentID string) *Session {
	return NewSessionWithClock(studentID, time.Now)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(studentID string, now func() time.Time) *Session {
	return &Session{
		id:        uuid.NewString(),
		studentID: studentID,
		now:       now,
		state:     domain.StateNotStarted,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) StudentID() string {
	return s.studentID
}

// Start presents the first question of exam.
func (s *Session) Start(exam domain.Exam) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateNotStarted {
		return transitionError("start", s.state)
	}
	if len(exam.Questions) == 0 {
		return domain.Invalid("questions", "are required to start an exam")
	}
	s.exam = exam
	s.index = 0
	s.answers = make([]string, 0, len(exam.Questions))
	s.startedAt = s.now()
	s.state = domain.StatePresenting
	if len(exam.Questions) == 1 {
		s.state = domain.StateAwaitingSubmit
	}
	return nil
}

// Advance records the answer to the current question and moves to the next.
// Reaching the last question switches the session to AwaitingSubmit.
func (s *Session) Advance(answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StatePresenting {
		return transitionError("advance", s.state)
	}
	s.answers = append(s.answers, answer)
	s.index++
	if s.index == len(s.exam.Questions)-1 {
		s.state = domain.StateAwaitingSubmit
	}
	return nil
}

// Submit records the last answer, scores the attempt and completes it.
func (s *Session) Submit(lastAnswer string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateAwaitingSubmit {
		return 0, transitionError("submit", s.state)
	}
	s.answers = append(s.answers, lastAnswer)
	s.score = Evaluate(s.exam.Answers, s.answers)
	s.completedAt = s.now()
	s.state = domain.StateCompleted
	return s.score, nil
}

func (s *Session) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Index is the position of the question being presented.
func (s *Session) Index() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// CurrentQuestion returns the question awaiting an answer, if any.
func (s *Session) CurrentQuestion() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentLocked()
}

// IsLastQuestion reports whether the next answer is the one to submit.
func (s *Session) IsLastQuestion() bool {
	return s.State() == domain.StateAwaitingSubmit
}

// Answers returns a copy of the answers given so far.
func (s *Session) Answers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.answers...)
}

func (s *Session) Score() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.score
}

// Exam returns the exam being taken.
func (s *Session) Exam() domain.Exam {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exam
}

// Elapsed is informational; exam durations are never enforced.
func (s *Session) Elapsed() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.startedAt.IsZero():
		return 0
	case s.completedAt.IsZero():
		return s.now().Sub(s.startedAt)
	default:
		return s.completedAt.Sub(s.startedAt)
	}
}

// Attempt returns a snapshot of the session.
func (s *Session) Attempt() domain.Attempt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	question, _ := s.currentLocked()
	return domain.Attempt{
		ID:        s.id,
		StudentID: s.studentID,
		SubjectID: s.exam.SubjectID,
		State:     s.state,
		Index:     s.index,
		Total:     len(s.exam.Questions),
		Question:  question,
		Last:      s.state == domain.StateAwaitingSubmit,
		Score:     s.score,
	}
}

func (s *Session) currentLocked() (string, bool) {
	switch s.state {
	case domain.StatePresenting, domain.StateAwaitingSubmit:
		return s.exam.Questions[s.index], true
	}
	return "", false
}

func transitionError(op string, state domain.SessionState) error {
	return fmt.Errorf("%w: %s while %s", domain.ErrInvalidTransition, op, state)
}
