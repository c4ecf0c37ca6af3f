package quiz

import (
	"math/rand"
	"testing"

	"cppquiz-service/internal/domain"
)

func drawPool() []domain.Question {
	pool := make([]domain.Question, 0, 12)
	add := func(id string, diff domain.Difficulty, strict bool) {
		pool = append(pool, domain.Question{
			ID:           id,
			Text:         id,
			Options:      []string{"a", "b"},
			CorrectIndex: 0,
			Difficulty:   diff,
			TimeLimit:    20,
			Strict:       strict,
		})
	}
	add("e1", domain.Easy, false)
	add("e2", domain.Easy, false)
	add("e3", domain.Easy, false)
	add("e4", domain.Easy, true)
	add("m1", domain.Medium, false)
	add("m2", domain.Medium, false)
	add("m3", domain.Medium, false)
	add("h1", domain.Hard, false)
	add("h2", domain.Hard, false)
	add("h3", domain.Hard, false)
	return pool
}

func TestDrawHonorsTotalAndStrict(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for seed := int64(0); seed < 20; seed++ {
		rnd.Seed(seed)
		picked := Draw(rnd, drawPool(), domain.Settings{TotalQuestions: 5})
		if len(picked) != 5 {
			t.Fatalf("seed %d: drew %d questions, want 5", seed, len(picked))
		}
		seen := make(map[string]bool)
		strictIncluded := false
		for _, q := range picked {
			if seen[q.ID] {
				t.Fatalf("seed %d: duplicate question %s", seed, q.ID)
			}
			seen[q.ID] = true
			if q.ID == "e4" {
				strictIncluded = true
			}
		}
		if !strictIncluded {
			t.Fatalf("seed %d: strict question omitted", seed)
		}
	}
}

func TestDrawHonorsDifficultyMix(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	settings := domain.Settings{TotalQuestions: 6, EasyCount: 3, MediumCount: 2, HardCount: 1}

	for seed := int64(0); seed < 20; seed++ {
		rnd.Seed(seed)
		picked := Draw(rnd, drawPool(), settings)
		if len(picked) != 6 {
			t.Fatalf("seed %d: drew %d, want 6", seed, len(picked))
		}
		counts := map[domain.Difficulty]int{}
		for _, q := range picked {
			counts[q.Difficulty]++
		}
		if counts[domain.Easy] != 3 || counts[domain.Medium] != 2 || counts[domain.Hard] != 1 {
			t.Fatalf("seed %d: mix %v, want 3/2/1", seed, counts)
		}
	}
}

func TestDrawCapsAtPoolSize(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	picked := Draw(rnd, drawPool(), domain.Settings{TotalQuestions: 50})
	if len(picked) != 10 {
		t.Fatalf("drew %d, want the whole pool of 10", len(picked))
	}
}

func TestDrawAppliesTimeLimitOverrides(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	settings := domain.Settings{TotalQuestions: 10, EasyTime: 15, HardTime: 40}

	for _, q := range Draw(rnd, drawPool(), settings) {
		switch q.Difficulty {
		case domain.Easy:
			if q.TimeLimit != 15 {
				t.Fatalf("easy question %s kept limit %d", q.ID, q.TimeLimit)
			}
		case domain.Medium:
			// No override configured; the question's own limit survives.
			if q.TimeLimit != 20 {
				t.Fatalf("medium question %s lost its limit: %d", q.ID, q.TimeLimit)
			}
		case domain.Hard:
			if q.TimeLimit != 40 {
				t.Fatalf("hard question %s kept limit %d", q.ID, q.TimeLimit)
			}
		}
	}
}
