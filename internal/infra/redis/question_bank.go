package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"cppquiz-service/internal/domain"
	"cppquiz-service/internal/infra/memory"
	"cppquiz-service/internal/quiz"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	regularPoolKey = "cppquiz:questions:regular"
	bonusPoolKey   = "cppquiz:questions:bonus"
)

// QuestionBank serves random quiz draws from question pools cached in Redis,
// falling back to a loader on cache miss. Pools are stored as JSON blobs:
// SET cppquiz:questions:{pool} {json} EX {ttl+jitter}
type QuestionBank struct {
	client *redis.Client
	loader memory.QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionBank(client *redis.Client, loader memory.QuestionLoader, ttl time.Duration) *QuestionBank {
	return &QuestionBank{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
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
	if cached, ok := b.cachedPool(ctx, key); ok {
		return cached, nil
	}

	result, err, _ := b.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if cached, ok := b.cachedPool(ctx, key); ok {
			return cached, nil
		}

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

		if blob, err := json.Marshal(questions); err == nil {
			_ = b.client.Set(ctx, key, blob, b.ttlWithJitter()).Err()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (b *QuestionBank) cachedPool(ctx context.Context, key string) ([]domain.Question, bool) {
	blob, err := b.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(blob, &questions); err != nil {
		return nil, false
	}
	return questions, true
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
