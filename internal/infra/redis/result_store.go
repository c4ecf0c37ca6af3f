package redis

import (
	"context"
	"encoding/json"

	"cppquiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	resultsKey      = "cppquiz:results"
	studentSetKey   = "cppquiz:results:students"
	leaderboardKey  = "cppquiz:leaderboard"
	studentPrefix   = "cppquiz:results:student:"
	scoreMultiplier = 1e12
)

// ResultStore persists quiz results in Redis:
//   - LPUSH cppquiz:results {json}                  global log, newest first
//   - LPUSH cppquiz:results:student:{reg} {json}    per-student log
//   - ZADD  cppquiz:leaderboard {rank} {entry json} ranked by score, earlier
//     finish wins ties (rank = score*1e12 - unix seconds)
type ResultStore struct {
	client *redis.Client
}

func NewResultStore(client *redis.Client) *ResultStore {
	return &ResultStore{client: client}
}

func (s *ResultStore) SaveResult(ctx context.Context, result domain.Result) error {
	blob, err := json.Marshal(result)
	if err != nil {
		return err
	}
	entry, err := json.Marshal(domain.LeaderboardEntry{
		RegNumber: result.RegNumber,
		Name:      result.Name,
		Score:     result.TotalScore,
		Timestamp: result.Timestamp,
	})
	if err != nil {
		return err
	}

	rank := float64(result.TotalScore)*scoreMultiplier - float64(result.Timestamp.Unix())

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, resultsKey, blob)
	pipe.LPush(ctx, studentPrefix+result.RegNumber, blob)
	pipe.SAdd(ctx, studentSetKey, result.RegNumber)
	pipe.ZAdd(ctx, leaderboardKey, redis.Z{Score: rank, Member: string(entry)})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *ResultStore) Results(ctx context.Context) ([]domain.Result, error) {
	return s.resultList(ctx, resultsKey)
}

func (s *ResultStore) StudentResults(ctx context.Context, regNumber string) ([]domain.Result, error) {
	return s.resultList(ctx, studentPrefix+regNumber)
}

func (s *ResultStore) resultList(ctx context.Context, key string) ([]domain.Result, error) {
	blobs, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	results := make([]domain.Result, 0, len(blobs))
	for _, blob := range blobs {
		var r domain.Result
		if err := json.Unmarshal([]byte(blob), &r); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *ResultStore) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	members, err := s.client.ZRevRange(ctx, leaderboardKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]domain.LeaderboardEntry, 0, len(members))
	for _, m := range members {
		var e domain.LeaderboardEntry
		if err := json.Unmarshal([]byte(m), &e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *ResultStore) ClearResults(ctx context.Context) error {
	students, err := s.client.SMembers(ctx, studentSetKey).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	keys := []string{resultsKey, leaderboardKey, studentSetKey}
	for _, reg := range students {
		keys = append(keys, studentPrefix+reg)
	}
	return s.client.Del(ctx, keys...).Err()
}
