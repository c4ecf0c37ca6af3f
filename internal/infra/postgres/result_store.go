package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"cppquiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ResultStore persists quiz results as JSONB plus a few indexed columns for
// leaderboard and per-student queries.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) SaveResult(ctx context.Context, result domain.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO quiz_results (reg_number, name, score, submitted_at, data)
		 VALUES ($1, $2, $3, $4, $5)`,
		result.RegNumber, result.Name, result.TotalScore, result.Timestamp, data)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (s *ResultStore) Results(ctx context.Context) ([]domain.Result, error) {
	return s.query(ctx, `SELECT data FROM quiz_results ORDER BY submitted_at DESC`)
}

func (s *ResultStore) StudentResults(ctx context.Context, regNumber string) ([]domain.Result, error) {
	return s.query(ctx,
		`SELECT data FROM quiz_results WHERE reg_number=$1 ORDER BY submitted_at DESC`,
		regNumber)
}

func (s *ResultStore) query(ctx context.Context, sql string, args ...interface{}) ([]domain.Result, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	defer rows.Close()

	var results []domain.Result
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		var r domain.Result
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *ResultStore) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT reg_number, name, score, submitted_at FROM quiz_results
		 ORDER BY score DESC, submitted_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.RegNumber, &e.Name, &e.Score, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *ResultStore) ClearResults(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM quiz_results`)
	if err != nil {
		return fmt.Errorf("clear results: %w", err)
	}
	return nil
}
