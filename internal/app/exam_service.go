package app

import (
	"context"
	"log"

	"college-exam-system/internal/domain"
)

// SessionRepository abstracts where in-progress exam sessions live (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// ExamRepository resolves the exam a student takes for a subject.
type ExamRepository interface {
	GetExam(ctx context.Context, subjectID string) (domain.Exam, error)
}

// Directory is the part of the entity store the exam engine needs.
type Directory interface {
	Account(id string) (domain.Account, error)
	RecordScore(rec domain.ScoreRecord) error
}

// ExamService contains the exam-taking use cases.
type ExamService struct {
	sessions  SessionRepository
	exams     ExamRepository
	directory Directory
}

func NewExamService(sessions SessionRepository, exams ExamRepository, directory Directory) *ExamService {
	return &ExamService{sessions: sessions, exams: exams, directory: directory}
}

// Start opens a new attempt for a student at the subject's exam.
func (s *ExamService) Start(ctx context.Context, studentID, subjectID string) (domain.Attempt, error) {
	student, err := s.directory.Account(studentID)
	if err != nil {
		return domain.Attempt{}, err
	}
	if student.Role != domain.RoleStudent {
		return domain.Attempt{}, domain.Invalid("account", studentID+" is not a student")
	}
	exam, err := s.exams.GetExam(ctx, subjectID)
	if err != nil {
		return domain.Attempt{}, err
	}

	session := NewSession(studentID)
	if err := session.Start(exam); err != nil {
		return domain.Attempt{}, err
	}
	s.sessions.Put(session)
	return session.Attempt(), nil
}

// Advance answers the current question of an attempt.
func (s *ExamService) Advance(_ context.Context, sessionID, answer string) (domain.Attempt, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Attempt{}, domain.ErrSessionNotFound
	}
	if err := session.Advance(answer); err != nil {
		return session.Attempt(), err
	}
	return session.Attempt(), nil
}

// Submit answers the last question, scores the attempt and records the score
// for the (student, subject) pair, replacing any earlier score.
func (s *ExamService) Submit(_ context.Context, sessionID, lastAnswer string) (domain.Attempt, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Attempt{}, domain.ErrSessionNotFound
	}
	score, err := session.Submit(lastAnswer)
	if err != nil {
		return session.Attempt(), err
	}

	attempt := session.Attempt()
	rec := domain.ScoreRecord{StudentID: attempt.StudentID, SubjectID: attempt.SubjectID, Score: score}
	if err := s.directory.RecordScore(rec); err != nil {
		return attempt, err
	}
	s.sessions.Delete(sessionID)
	log.Printf("recorded score %d/%d for %s in %s", score, attempt.Total, rec.StudentID, rec.SubjectID)
	return attempt, nil
}

// Attempt returns the current view of a session.
func (s *ExamService) Attempt(_ context.Context, sessionID string) (domain.Attempt, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Attempt{}, domain.ErrSessionNotFound
	}
	return session.Attempt(), nil
}

// Abandon drops an unfinished attempt without recording anything.
func (s *ExamService) Abandon(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}
