package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"college-exam-system/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ExamLoader fetches an exam definition from a backing source.
type ExamLoader interface {
	LoadExam(ctx context.Context, subjectID string) (domain.Exam, error)
}

// ExamRepository caches exams in Redis and falls back to a loader on cache miss.
// Exams are stored as JSON, so question text from any source survives the cache:
//
//	SET exam:{subjectID} {"subjectId":...,"questions":[...],"answers":[...]}
type ExamRepository struct {
	client *redis.Client
	loader ExamLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewExamRepository(client *redis.Client, loader ExamLoader, ttl time.Duration) *ExamRepository {
	return &ExamRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *ExamRepository) GetExam(ctx context.Context, subjectID string) (domain.Exam, error) {
	if exam, ok := r.fromCache(ctx, subjectID); ok {
		return exam, nil
	}

	result, err, _ := r.sf.Do(subjectID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if exam, ok := r.fromCache(ctx, subjectID); ok {
			return exam, nil
		}

		exam, err := r.loader.LoadExam(ctx, subjectID)
		if err != nil {
			return domain.Exam{}, err
		}
		payload, err := json.Marshal(exam)
		if err != nil {
			log.Printf("encode exam %s: %v", subjectID, err)
			return exam, nil
		}
		if err := r.client.Set(ctx, r.key(subjectID), payload, r.ttlWithJitter()).Err(); err != nil {
			log.Printf("cache exam %s: %v", subjectID, err)
		}
		return exam, nil
	})
	if err != nil {
		return domain.Exam{}, err
	}
	return result.(domain.Exam), nil
}

// Invalidate removes the cached copy of a subject's exam.
func (r *ExamRepository) Invalidate(ctx context.Context, subjectID string) error {
	return r.client.Del(ctx, r.key(subjectID)).Err()
}

func (r *ExamRepository) fromCache(ctx context.Context, subjectID string) (domain.Exam, bool) {
	raw, err := r.client.Get(ctx, r.key(subjectID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("read cached exam %s: %v", subjectID, err)
		}
		return domain.Exam{}, false
	}
	var exam domain.Exam
	if err := json.Unmarshal(raw, &exam); err != nil || len(exam.Questions) == 0 || len(exam.Questions) != len(exam.Answers) {
		log.Printf("discarding cached exam %s: %v", subjectID, err)
		return domain.Exam{}, false
	}
	return exam, true
}

func (r *ExamRepository) key(subjectID string) string {
	return "exam:" + subjectID
}

func (r *ExamRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
