package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"cppquiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionLoader loads question JSONB from Postgres. Rows may carry any of the
// historical question shapes; decoding normalizes them.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	return l.load(ctx, false)
}

func (l *QuestionLoader) LoadBonusQuestions(ctx context.Context) ([]domain.Question, error) {
	return l.load(ctx, true)
}

func (l *QuestionLoader) load(ctx context.Context, bonus bool) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM questions WHERE is_bonus=$1`, bonus)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		var q domain.Question
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, fmt.Errorf("unmarshal question: %w", err)
		}
		q.Bonus = bonus
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// SaveQuestion upserts a question row, keyed by question ID.
func (l *QuestionLoader) SaveQuestion(ctx context.Context, q domain.Question) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO questions (id, is_bonus, data) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET is_bonus=EXCLUDED.is_bonus, data=EXCLUDED.data`,
		q.ID, q.Bonus, data)
	if err != nil {
		return fmt.Errorf("save question: %w", err)
	}
	return nil
}
