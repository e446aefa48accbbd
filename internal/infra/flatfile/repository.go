package flatfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"college-exam-system/internal/domain"
	"college-exam-system/internal/store"
)

// Resource file names inside the data directory.
const (
	AdminsFile      = "admin.txt"
	LecturersFile   = "lecturers.txt"
	StudentsFile    = "students.txt"
	SubjectsFile    = "subjects.txt"
	ExamsFile       = "exams.txt"
	ScoresFile      = "scores.txt"
	AssignmentsFile = "assignments.txt"
)

var accountFiles = map[domain.Role]string{
	domain.RoleAdmin:    AdminsFile,
	domain.RoleLecturer: LecturersFile,
	domain.RoleStudent:  StudentsFile,
}

// Repository loads and saves a store from a data directory.
type Repository struct {
	dir string
}

func NewRepository(dir string) *Repository {
	if dir == "" {
		dir = "."
	}
	return &Repository{dir: dir}
}

// Dir returns the data directory.
func (r *Repository) Dir() string {
	return r.dir
}

// Load replaces the store contents with what is on disk. A missing resource
// counts as empty. Each resource is decoded on its own: failures are joined
// into the returned error while every resource that decoded is still restored.
func (r *Repository) Load(st *store.Store) error {
	var (
		snap store.Snapshot
		errs []error
	)

	// Account ids are unique across the three account files; a repeated id
	// fails the file it appears in.
	taken := make(map[string]domain.Role)
	for _, role := range domain.Roles {
		role := role
		seen := make(map[string]bool)
		accounts, err := readResource(r.path(accountFiles[role]), func(line string) (domain.Account, error) {
			a, err := DecodeAccount(line, role)
			if err != nil {
				return a, err
			}
			if other, ok := taken[a.ID]; ok {
				return a, malformed(fmt.Sprintf("account id %q is already used by a %s", a.ID, other))
			}
			if seen[a.ID] {
				return a, malformed(fmt.Sprintf("account id %q appears twice", a.ID))
			}
			seen[a.ID] = true
			return a, nil
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, a := range accounts {
			taken[a.ID] = role
		}
		snap.Accounts = append(snap.Accounts, accounts...)
	}

	subjects, err := readResource(r.path(SubjectsFile), DecodeSubject)
	if err != nil {
		errs = append(errs, err)
	}
	snap.Subjects = subjects

	exams, err := readResource(r.path(ExamsFile), DecodeExam)
	if err != nil {
		errs = append(errs, err)
	}
	snap.Exams = exams

	scores, err := readResource(r.path(ScoresFile), DecodeScore)
	if err != nil {
		errs = append(errs, err)
	}
	snap.Scores = dedupeScores(scores)

	assignments, err := readResource(r.path(AssignmentsFile), DecodeAssignment)
	if err != nil {
		errs = append(errs, err)
	}
	applyAssignments(snap.Accounts, assignments)

	st.Restore(snap)
	return errors.Join(errs...)
}

// Save rewrites every resource from the current store contents.
func (r *Repository) Save(st *store.Store) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create data dir: %w", domain.ErrPersistence, err)
	}
	snap := st.Snapshot()

	files := make(map[string]*bytes.Buffer, len(accountFiles)+5)
	for _, name := range accountFiles {
		files[name] = &bytes.Buffer{}
	}
	for _, name := range []string{SubjectsFile, ExamsFile, ScoresFile, AssignmentsFile} {
		files[name] = &bytes.Buffer{}
	}

	for _, a := range snap.Accounts {
		writeLine(files[accountFiles[a.Role]], EncodeAccount(a))
		for _, sub := range a.Subjects {
			writeLine(files[AssignmentsFile], EncodeAssignment(Assignment{AccountID: a.ID, SubjectID: sub}))
		}
	}
	for _, s := range snap.Subjects {
		writeLine(files[SubjectsFile], EncodeSubject(s))
	}
	for _, e := range snap.Exams {
		writeLine(files[ExamsFile], EncodeExam(e))
	}
	for _, rec := range snap.Scores {
		writeLine(files[ScoresFile], EncodeScore(rec))
	}

	var errs []error
	for _, name := range []string{AdminsFile, LecturersFile, StudentsFile, SubjectsFile, ExamsFile, ScoresFile, AssignmentsFile} {
		if err := writeAtomic(r.path(name), files[name].Bytes()); err != nil {
			errs = append(errs, fmt.Errorf("%w: write %s: %w", domain.ErrPersistence, name, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Repository) path(name string) string {
	return filepath.Join(r.dir, name)
}

func readResource[T any](path string, decode func(string) (T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrPersistence, filepath.Base(path), err)
	}
	defer f.Close()
	return decodeLines(f, filepath.Base(path), decode)
}

func decodeLines[T any](rd io.Reader, resource string, decode func(string) (T, error)) ([]T, error) {
	var out []T
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		item, err := decode(line)
		if err != nil {
			return nil, &RecordError{Resource: resource, Line: lineNo, Reason: err.Error()}
		}
		out = append(out, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrPersistence, resource, err)
	}
	return out, nil
}

// dedupeScores keeps one record per (student, subject); a later line wins.
func dedupeScores(in []domain.ScoreRecord) []domain.ScoreRecord {
	type key struct{ student, subject string }
	pos := make(map[key]int, len(in))
	out := make([]domain.ScoreRecord, 0, len(in))
	for _, rec := range in {
		k := key{rec.StudentID, rec.SubjectID}
		if i, ok := pos[k]; ok {
			out[i].Score = rec.Score
			continue
		}
		pos[k] = len(out)
		out = append(out, rec)
	}
	return out
}

// applyAssignments attaches each assignment to the account with its id.
// Account ids are unique, so the match is unambiguous.
func applyAssignments(accounts []domain.Account, assignments []Assignment) {
	index := make(map[string]int, len(accounts))
	for i, a := range accounts {
		index[a.ID] = i
	}
	for _, as := range assignments {
		i, ok := index[as.AccountID]
		if !ok || !accounts[i].Role.CanHoldSubjects() {
			log.Printf("skipping assignment of %s to unknown account %s", as.SubjectID, as.AccountID)
			continue
		}
		accounts[i].Subjects = append(accounts[i].Subjects, as.SubjectID)
	}
}

func writeLine(buf *bytes.Buffer, line string) {
	buf.WriteString(line)
	buf.WriteByte('\n')
}

// writeAtomic replaces path with data through a temp file in the same
// directory, so a failed write never truncates the previous contents.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
