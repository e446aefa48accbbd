// Package store holds the authoritative in-memory collections of accounts,
// subjects, exams and score records.
//
// Account ids are unique across every role. Subject and exam ids are not; for
// those every lookup, update and removal acts on the first match in insertion
// order.
package store

import (
	"fmt"
	"sync"

	"college-exam-system/internal/domain"
)

// Snapshot is a deep copy of every collection, in insertion order.
type Snapshot struct {
	Accounts []domain.Account
	Subjects []domain.Subject
	Exams    []domain.Exam
	Scores   []domain.ScoreRecord
}

// AccountUpdate carries the mutable account fields.
type AccountUpdate struct {
	Name     string
	Username string
	Password string
}

// ExamUpdate carries the mutable exam fields.
type ExamUpdate struct {
	Duration  int
	Questions []string
	Answers   []string
}

// Store is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	accounts []domain.Account
	subjects []domain.Subject
	exams    []domain.Exam
	scores   []domain.ScoreRecord
}

func New() *Store {
	return &Store{}
}

// AddAccount appends an account. The id must not belong to any other account,
// whatever its role.
func (s *Store) AddAccount(a domain.Account) error {
	if err := validateAccount(a); err != nil {
		return err
	}
	a.Subjects = cloneStrings(a.Subjects)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accountIndex(a.ID) >= 0 {
		return fmt.Errorf("account %q: %w", a.ID, domain.ErrDuplicateID)
	}
	s.accounts = append(s.accounts, a)
	return nil
}

// Account returns the account with id.
func (s *Store) Account(id string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.accountIndex(id)
	if i < 0 {
		return domain.Account{}, domain.Missing("account", id)
	}
	return cloneAccount(s.accounts[i]), nil
}

// UpdateAccount replaces the name and credentials of the account with id.
func (s *Store) UpdateAccount(id string, upd AccountUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.accountIndex(id)
	if i < 0 {
		return domain.Missing("account", id)
	}
	next := s.accounts[i]
	next.Name, next.Username, next.Password = upd.Name, upd.Username, upd.Password
	if err := validateAccount(next); err != nil {
		return err
	}
	s.accounts[i] = next
	return nil
}

// RemoveAccount deletes the account with id.
func (s *Store) RemoveAccount(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.accountIndex(id)
	if i < 0 {
		return domain.Missing("account", id)
	}
	s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
	return nil
}

// Accounts lists accounts in insertion order, limited to roles when any are given.
func (s *Store) Accounts(roles ...domain.Role) []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		if len(roles) > 0 && !hasRole(roles, a.Role) {
			continue
		}
		out = append(out, cloneAccount(a))
	}
	return out
}

// FindByUsername returns every account whose username matches exactly.
func (s *Store) FindByUsername(username string) []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Account
	for _, a := range s.accounts {
		if a.Username == username {
			out = append(out, cloneAccount(a))
		}
	}
	return out
}

// AssignSubject appends subjectID to the account's subject list. Repeated
// assignments of the same subject produce repeated entries.
func (s *Store) AssignSubject(accountID, subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.accountIndex(accountID)
	if i < 0 {
		return domain.Missing("account", accountID)
	}
	if s.subjectIndex(subjectID) < 0 {
		return domain.Missing("subject", subjectID)
	}
	if !s.accounts[i].Role.CanHoldSubjects() {
		return domain.Invalid("role", "cannot hold subjects: "+string(s.accounts[i].Role))
	}
	s.accounts[i].Subjects = append(s.accounts[i].Subjects, subjectID)
	return nil
}

// Login reports whether some account has exactly this username and password.
func (s *Store) Login(username, password string) bool {
	_, err := s.Authenticate(username, password)
	return err == nil
}

// Authenticate returns the first account whose credentials match exactly.
func (s *Store) Authenticate(username, password string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.Username == username && a.Password == password {
			return cloneAccount(a), nil
		}
	}
	return domain.Account{}, domain.ErrInvalidCredentials
}

func (s *Store) AddSubject(sub domain.Subject) error {
	if err := validateSubject(sub); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects = append(s.subjects, sub)
	return nil
}

func (s *Store) Subject(id string) (domain.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.subjectIndex(id)
	if i < 0 {
		return domain.Subject{}, domain.Missing("subject", id)
	}
	return s.subjects[i], nil
}

func (s *Store) UpdateSubject(id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.subjectIndex(id)
	if i < 0 {
		return domain.Missing("subject", id)
	}
	next := domain.Subject{ID: id, Name: name}
	if err := validateSubject(next); err != nil {
		return err
	}
	s.subjects[i] = next
	return nil
}

func (s *Store) RemoveSubject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.subjectIndex(id)
	if i < 0 {
		return domain.Missing("subject", id)
	}
	s.subjects = append(s.subjects[:i], s.subjects[i+1:]...)
	return nil
}

func (s *Store) Subjects() []domain.Subject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Subject(nil), s.subjects...)
}

// AddExam appends an exam definition. Subject and lecturer ids are not checked.
func (s *Store) AddExam(e domain.Exam) error {
	if err := validateExam(e); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exams = append(s.exams, cloneExam(e))
	return nil
}

// Exam returns the first exam defined for subjectID.
func (s *Store) Exam(subjectID string) (domain.Exam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.exams {
		if e.SubjectID == subjectID {
			return cloneExam(e), nil
		}
	}
	return domain.Exam{}, domain.Missing("exam for subject", subjectID)
}

// ExamFor returns the first exam lecturerID defined for subjectID.
func (s *Store) ExamFor(subjectID, lecturerID string) (domain.Exam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.examIndex(subjectID, lecturerID)
	if i < 0 {
		return domain.Exam{}, domain.Missing("exam for subject", subjectID)
	}
	return cloneExam(s.exams[i]), nil
}

func (s *Store) UpdateExam(subjectID, lecturerID string, upd ExamUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.examIndex(subjectID, lecturerID)
	if i < 0 {
		return domain.Missing("exam for subject", subjectID)
	}
	next := domain.Exam{
		SubjectID:  subjectID,
		LecturerID: lecturerID,
		Duration:   upd.Duration,
		Questions:  upd.Questions,
		Answers:    upd.Answers,
	}
	if err := validateExam(next); err != nil {
		return err
	}
	s.exams[i] = cloneExam(next)
	return nil
}

// RemoveExam deletes the first exam lecturerID defined for subjectID.
func (s *Store) RemoveExam(subjectID, lecturerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.examIndex(subjectID, lecturerID)
	if i < 0 {
		return domain.Missing("exam for subject", subjectID)
	}
	s.exams = append(s.exams[:i], s.exams[i+1:]...)
	return nil
}

func (s *Store) Exams() []domain.Exam {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Exam, 0, len(s.exams))
	for _, e := range s.exams {
		out = append(out, cloneExam(e))
	}
	return out
}

func (s *Store) ExamsByLecturer(lecturerID string) []domain.Exam {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Exam
	for _, e := range s.exams {
		if e.LecturerID == lecturerID {
			out = append(out, cloneExam(e))
		}
	}
	return out
}

// RecordScore inserts or overwrites the score for (StudentID, SubjectID).
func (s *Store) RecordScore(rec domain.ScoreRecord) error {
	if err := validateScore(rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.scores {
		if s.scores[i].StudentID == rec.StudentID && s.scores[i].SubjectID == rec.SubjectID {
			s.scores[i].Score = rec.Score
			return nil
		}
	}
	s.scores = append(s.scores, rec)
	return nil
}

func (s *Store) Score(studentID, subjectID string) (domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.scores {
		if r.StudentID == studentID && r.SubjectID == subjectID {
			return r, nil
		}
	}
	return domain.ScoreRecord{}, domain.Missing("score for student", studentID)
}

// ScoresFor returns the student's scores in recording order.
func (s *Store) ScoresFor(studentID string) []domain.ScoreRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ScoreRecord
	for _, r := range s.scores {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) Scores() []domain.ScoreRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ScoreRecord(nil), s.scores...)
}

// Snapshot returns a deep copy of every collection, taken under one read lock
// so that no write lands between the collections.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Accounts: make([]domain.Account, 0, len(s.accounts)),
		Subjects: append([]domain.Subject(nil), s.subjects...),
		Exams:    make([]domain.Exam, 0, len(s.exams)),
		Scores:   append([]domain.ScoreRecord(nil), s.scores...),
	}
	for _, a := range s.accounts {
		snap.Accounts = append(snap.Accounts, cloneAccount(a))
	}
	for _, e := range s.exams {
		snap.Exams = append(snap.Exams, cloneExam(e))
	}
	return snap
}

// Restore replaces every collection with the snapshot contents. Records are
// taken as-is; they were validated when first added or decoded.
func (s *Store) Restore(snap Snapshot) {
	accounts := make([]domain.Account, 0, len(snap.Accounts))
	for _, a := range snap.Accounts {
		accounts = append(accounts, cloneAccount(a))
	}
	exams := make([]domain.Exam, 0, len(snap.Exams))
	for _, e := range snap.Exams {
		exams = append(exams, cloneExam(e))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = accounts
	s.subjects = append([]domain.Subject(nil), snap.Subjects...)
	s.exams = exams
	s.scores = append([]domain.ScoreRecord(nil), snap.Scores...)
}

func (s *Store) accountIndex(id string) int {
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) subjectIndex(id string) int {
	for i := range s.subjects {
		if s.subjects[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) examIndex(subjectID, lecturerID string) int {
	for i := range s.exams {
		if s.exams[i].SubjectID == subjectID && s.exams[i].LecturerID == lecturerID {
			return i
		}
	}
	return -1
}

func hasRole(roles []domain.Role, r domain.Role) bool {
	for _, role := range roles {
		if role == r {
			return true
		}
	}
	return false
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneAccount(a domain.Account) domain.Account {
	a.Subjects = cloneStrings(a.Subjects)
	return a
}

func cloneExam(e domain.Exam) domain.Exam {
	e.Questions = cloneStrings(e.Questions)
	e.Answers = cloneStrings(e.Answers)
	return e
}
