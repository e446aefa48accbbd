package domain

// Role tags an account with the operations and fields that apply to it.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleLecturer Role = "lecturer"
	RoleStudent  Role = "student"
)

// Roles lists every known role in persistence order.
var Roles = []Role{RoleAdmin, RoleLecturer, RoleStudent}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLecturer, RoleStudent:
		return true
	}
	return false
}

// CanHoldSubjects reports whether subjects may be assigned to accounts of this role.
func (r Role) CanHoldSubjects() bool {
	return r == RoleLecturer || r == RoleStudent
}

// Account is an administrator, lecturer or student.
type Account struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Password string   `json:"-"`
	Role     Role     `json:"role"`
	Subjects []string `json:"subjects,omitempty"` // assigned subject ids, duplicates allowed
}

// Subject is a course that exams and accounts refer to by id.
type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Exam holds free-text questions with a parallel list of expected answers.
// Duration is informational and never enforced as a deadline.
type Exam struct {
	SubjectID  string   `json:"subjectId"`
	LecturerID string   `json:"lecturerId"`
	Duration   int      `json:"duration"`
	Questions  []string `json:"questions"`
	Answers    []string `json:"answers"`
}

// ScoreRecord is the latest score a student obtained for a subject.
type ScoreRecord struct {
	StudentID string `json:"studentId"`
	SubjectID string `json:"subjectId"`
	Score     int    `json:"score"`
}

// SessionState is the phase of an exam attempt.
type SessionState string

const (
	StateNotStarted     SessionState = "not_started"
	StatePresenting     SessionState = "presenting"
	StateAwaitingSubmit SessionState = "awaiting_submit"
	StateCompleted      SessionState = "completed"
)

// Attempt is a snapshot-friendly view of an exam session.
type Attempt struct {
	ID        string       `json:"id"`
	StudentID string       `json:"studentId"`
	SubjectID string       `json:"subjectId"`
	State     SessionState `json:"state"`
	Index     int          `json:"index"`
	Total     int          `json:"total"`
	Question  string       `json:"question,omitempty"`
	Last      bool         `json:"last"`
	Score     int          `json:"score"`
}
