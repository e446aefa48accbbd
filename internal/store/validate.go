package store

import (
	"strconv"
	"strings"

	"college-exam-system/internal/domain"
)

// Characters the flat-file format uses as separators. Values carrying them
// would not survive a save/load cycle, so they are rejected on input.
const (
	lineBreaks     = "\r\n"
	recordReserved = "," + lineBreaks
	examReserved   = ",|" + lineBreaks
	itemReserved   = "|;" + lineBreaks
)

func validateAccount(a domain.Account) error {
	if !a.Role.Valid() {
		return domain.Invalid("role", "is unknown: "+strconv.Quote(string(a.Role)))
	}
	fields := []struct{ name, value string }{
		{"id", a.ID},
		{"name", a.Name},
		{"username", a.Username},
		{"password", a.Password},
	}
	for _, f := range fields {
		if err := requireClean(f.name, f.value, recordReserved); err != nil {
			return err
		}
	}
	for _, sub := range a.Subjects {
		if err := requireClean("subject id", sub, recordReserved); err != nil {
			return err
		}
	}
	return nil
}

func validateSubject(sub domain.Subject) error {
	if err := requireClean("id", sub.ID, recordReserved); err != nil {
		return err
	}
	return requireClean("name", sub.Name, recordReserved)
}

func validateExam(e domain.Exam) error {
	if err := requireClean("subject id", e.SubjectID, examReserved); err != nil {
		return err
	}
	if err := requireClean("lecturer id", e.LecturerID, examReserved); err != nil {
		return err
	}
	if e.Duration < 0 {
		return domain.Invalid("duration", "must not be negative")
	}
	if len(e.Questions) == 0 {
		return domain.Invalid("questions", "are required")
	}
	if len(e.Questions) != len(e.Answers) {
		return domain.Invalid("answers", "must match the number of questions")
	}
	for i := range e.Questions {
		if err := requireClean("question "+strconv.Itoa(i+1), e.Questions[i], itemReserved); err != nil {
			return err
		}
		if err := requireClean("answer "+strconv.Itoa(i+1), e.Answers[i], itemReserved); err != nil {
			return err
		}
	}
	return nil
}

func validateScore(rec domain.ScoreRecord) error {
	if err := requireClean("student id", rec.StudentID, recordReserved); err != nil {
		return err
	}
	if err := requireClean("subject id", rec.SubjectID, recordReserved); err != nil {
		return err
	}
	if rec.Score < 0 {
		return domain.Invalid("score", "must not be negative")
	}
	return nil
}

func requireClean(field, value, reserved string) error {
	if value == "" {
		return domain.Invalid(field, "is required")
	}
	if strings.ContainsAny(value, reserved) {
		return domain.Invalid(field, "must not contain any of "+strconv.Quote(reserved))
	}
	return nil
}
