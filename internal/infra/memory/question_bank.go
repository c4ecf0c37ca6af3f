package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"cppquiz-service/internal/domain"
	"cppquiz-service/internal/quiz"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches question pools from a backing store (e.g., Postgres).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
	LoadBonusQuestions(ctx context.Context) ([]domain.Question, error)
}

const (
	regularPoolKey = "regular"
	bonusPoolKey   = "bonus"
)

// QuestionBank serves random quiz draws from cached question pools, reloading
// from the backing store when the TTL lapses.
type QuestionBank struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.Mutex
	rnd   *rand.Rand
	cache map[string]cachedPool
}

type cachedPool struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionBank(loader QuestionLoader, ttl time.Duration) *QuestionBank {
	return &QuestionBank{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedPool),
	}
}

// RandomQuestions draws a quiz instance from the regular pool.
func (b *QuestionBank) RandomQuestions(ctx context.Context, settings domain.Settings) ([]domain.Question, error) {
	pool, err := b.pool(ctx, regularPoolKey)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return quiz.Draw(b.rnd, pool, settings), nil
}

// RandomBonusQuestion picks one question from the bonus pool.
func (b *QuestionBank) RandomBonusQuestion(ctx context.Context) (domain.Question, error) {
	pool, err := b.pool(ctx, bonusPoolKey)
	if err != nil {
		return domain.Question{}, err
	}
	if len(pool) == 0 {
		return domain.Question{}, domain.ErrNoBonusQuestion
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return pool[b.rnd.Intn(len(pool))], nil
}

func (b *QuestionBank) pool(ctx context.Context, key string) ([]domain.Question, error) {
	now := b.clock()

	b.mu.Lock()
	if entry, ok := b.cache[key]; ok && entry.expiresAt.After(now) {
		b.mu.Unlock()
		return entry.questions, nil
	}
	b.mu.Unlock()

	result, err, _ := b.sf.Do(key, func() (interface{}, error) {
		now := b.clock()
		b.mu.Lock()
		if entry, ok := b.cache[key]; ok && entry.expiresAt.After(now) {
			b.mu.Unlock()
			return entry.questions, nil
		}
		b.mu.Unlock()

		var (
			questions []domain.Question
			err       error
		)
		if key == bonusPoolKey {
			questions, err = b.loader.LoadBonusQuestions(ctx)
		} else {
			questions, err = b.loader.LoadQuestions(ctx)
		}
		if err != nil {
			return nil, err
		}

		expiresAt := now.Add(b.ttlWithJitter())
		b.mu.Lock()
		b.cache[key] = cachedPool{
			questions: questions,
			expiresAt: expiresAt,
		}
		b.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (b *QuestionBank) ttlWithJitter() time.Duration {
	if b.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(b.ttl) / 10
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ttl + time.Duration(b.rnd.Int63n(jitterMax+1))
}

// StaticQuestionLoader is a loader backed by in-memory slices (useful for
// tests/demos and for running without a database).
type StaticQuestionLoader struct {
	questions []domain.Question
	bonus     []domain.Question
}

func NewStaticQuestionLoader(questions, bonus []domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{questions: questions, bonus: bonus}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	return l.questions, nil
}

func (l *StaticQuestionLoader) LoadBonusQuestions(_ context.Context) ([]domain.Question, error) {
	return l.bonus, nil
}
