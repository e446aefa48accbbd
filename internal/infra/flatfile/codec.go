// Package flatfile persists the entity store as one line-oriented text
// resource per entity type.
//
// Fields are not escaped. The store refuses values that contain a separator,
// which is what keeps every saved line decodable.
package flatfile

import (
	"fmt"
	"strconv"
	"strings"

	"college-exam-system/internal/domain"
)

const (
	fieldSep = ","
	examSep  = "|"
	itemSep  = ";"
)

// RecordError reports a line that could not be decoded.
type RecordError struct {
	Resource string
	Line     int
	Reason   string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %s", e.Resource, e.Line, domain.ErrMalformedRecord, e.Reason)
}

func (e *RecordError) Unwrap() error {
	return domain.ErrMalformedRecord
}

// malformed is returned by the line decoders; the resource reader fills in
// the resource name and line number.
type malformed string

func (m malformed) Error() string { return string(m) }

func EncodeAccount(a domain.Account) string {
	return strings.Join([]string{a.ID, a.Name, a.Username, a.Password}, fieldSep)
}

// DecodeAccount parses id,name,username,password for the given role.
func DecodeAccount(line string, role domain.Role) (domain.Account, error) {
	f := strings.Split(line, fieldSep)
	if len(f) != 4 {
		return domain.Account{}, fieldCount(4, len(f))
	}
	return domain.Account{ID: f[0], Name: f[1], Username: f[2], Password: f[3], Role: role}, nil
}

func EncodeSubject(s domain.Subject) string {
	return s.ID + fieldSep + s.Name
}

func DecodeSubject(line string) (domain.Subject, error) {
	f := strings.Split(line, fieldSep)
	if len(f) != 2 {
		return domain.Subject{}, fieldCount(2, len(f))
	}
	return domain.Subject{ID: f[0], Name: f[1]}, nil
}

// EncodeExam renders subjectId|lecturerId|duration|q1;q2;...|a1;a2;...
func EncodeExam(e domain.Exam) string {
	return strings.Join([]string{
		e.SubjectID,
		e.LecturerID,
		strconv.Itoa(e.Duration),
		strings.Join(e.Questions, itemSep),
		strings.Join(e.Answers, itemSep),
	}, examSep)
}

func DecodeExam(line string) (domain.Exam, error) {
	f := strings.Split(line, examSep)
	if len(f) != 5 {
		return domain.Exam{}, fieldCount(5, len(f))
	}
	duration, err := strconv.Atoi(f[2])
	if err != nil {
		return domain.Exam{}, malformed("duration " + strconv.Quote(f[2]) + " is not a number")
	}
	questions := strings.Split(f[3], itemSep)
	answers := strings.Split(f[4], itemSep)
	if len(questions) != len(answers) {
		return domain.Exam{}, malformed(fmt.Sprintf("%d questions but %d answers", len(questions), len(answers)))
	}
	for i := range questions {
		if questions[i] == "" {
			return domain.Exam{}, malformed(fmt.Sprintf("question %d is empty", i+1))
		}
		if answers[i] == "" {
			return domain.Exam{}, malformed(fmt.Sprintf("answer %d is empty", i+1))
		}
	}
	return domain.Exam{
		SubjectID:  f[0],
		LecturerID: f[1],
		Duration:   duration,
		Questions:  questions,
		Answers:    answers,
	}, nil
}

func EncodeScore(r domain.ScoreRecord) string {
	return strings.Join([]string{r.StudentID, r.SubjectID, strconv.Itoa(r.Score)}, fieldSep)
}

func DecodeScore(line string) (domain.ScoreRecord, error) {
	f := strings.Split(line, fieldSep)
	if len(f) != 3 {
		return domain.ScoreRecord{}, fieldCount(3, len(f))
	}
	score, err := strconv.Atoi(f[2])
	if err != nil {
		return domain.ScoreRecord{}, malformed("score " + strconv.Quote(f[2]) + " is not a number")
	}
	return domain.ScoreRecord{StudentID: f[0], SubjectID: f[1], Score: score}, nil
}

// Assignment links an account to one assigned subject.
type Assignment struct {
	AccountID string
	SubjectID string
}

func EncodeAssignment(a Assignment) string {
	return a.AccountID + fieldSep + a.SubjectID
}

func DecodeAssignment(line string) (Assignment, error) {
	f := strings.Split(line, fieldSep)
	if len(f) != 2 {
		return Assignment{}, fieldCount(2, len(f))
	}
	return Assignment{AccountID: f[0], SubjectID: f[1]}, nil
}

func fieldCount(want, got int) error {
	return malformed(fmt.Sprintf("expected %d fields, got %d", want, got))
}
