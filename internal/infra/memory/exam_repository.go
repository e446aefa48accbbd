package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"college-exam-system/internal/domain"
	"golang.org/x/sync/singleflight"
)

// ExamLoader fetches an exam definition from a backing source (entity store, Postgres).
type ExamLoader interface {
	LoadExam(ctx context.Context, subjectID string) (domain.Exam, error)
}

// ExamRepository caches exams per subject with a TTL. A zero TTL disables
// caching, which is what the entity-store loader wants since exams can be
// edited in place.
type ExamRepository struct {
	loader ExamLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedExam
}

type cachedExam struct {
	exam      domain.Exam
	expiresAt time.Time
}

func NewExamRepository(loader ExamLoader, ttl time.Duration) *ExamRepository {
	return &ExamRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedExam),
	}
}

func (r *ExamRepository) GetExam(ctx context.Context, subjectID string) (domain.Exam, error) {
	if exam, ok := r.cached(subjectID, r.clock()); ok {
		return exam, nil
	}

	result, err, _ := r.sf.Do(subjectID, func() (interface{}, error) {
		now := r.clock()
		if exam, ok := r.cached(subjectID, now); ok {
			return exam, nil
		}

		exam, err := r.loader.LoadExam(ctx, subjectID)
		if err != nil {
			return domain.Exam{}, err
		}
		if r.ttl <= 0 {
			return exam, nil
		}

		r.mu.Lock()
		r.cache[subjectID] = cachedExam{
			exam:      exam,
			expiresAt: now.Add(r.ttlWithJitterLocked()),
		}
		r.mu.Unlock()
		return exam, nil
	})
	if err != nil {
		return domain.Exam{}, err
	}
	return result.(domain.Exam), nil
}

// Invalidate drops a cached exam so the next lookup reloads it.
func (r *ExamRepository) Invalidate(subjectID string) {
	r.mu.Lock()
	delete(r.cache, subjectID)
	r.mu.Unlock()
}

func (r *ExamRepository) cached(subjectID string, now time.Time) (domain.Exam, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[subjectID]; ok && entry.expiresAt.After(now) {
		return entry.exam, true
	}
	return domain.Exam{}, false
}

func (r *ExamRepository) ttlWithJitterLocked() time.Duration {
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// ExamSource is the entity-store lookup StoreExamLoader reads from.
type ExamSource interface {
	Exam(subjectID string) (domain.Exam, error)
}

// StoreExamLoader serves exams straight from the entity store.
type StoreExamLoader struct {
	source ExamSource
}

func NewStoreExamLoader(source ExamSource) *StoreExamLoader {
	return &StoreExamLoader{source: source}
}

func (l *StoreExamLoader) LoadExam(_ context.Context, subjectID string) (domain.Exam, error) {
	return l.source.Exam(subjectID)
}

// StaticExamLoader is a simple loader backed by a map (useful for tests/demos).
type StaticExamLoader struct {
	exams map[string]domain.Exam
}

func NewStaticExamLoader(exams map[string]domain.Exam) *StaticExamLoader {
	return &StaticExamLoader{exams: exams}
}

func (l *StaticExamLoader) LoadExam(_ context.Context, subjectID string) (domain.Exam, error) {
	if exam, ok := l.exams[subjectID]; ok {
		return exam, nil
	}
	return domain.Exam{}, domain.Missing("exam for subject", subjectID)
}
