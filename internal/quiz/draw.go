package quiz

import (
	"math/rand"

	"cppquiz-service/internal/domain"
)

// Draw assembles a quiz instance from the full regular-question pool.
// Strict questions are always included; the remainder is filled with a random
// shuffle of the rest. When the settings request a per-difficulty mix, each
// level is filled up to its count before topping up to the total.
func Draw(rnd *rand.Rand, pool []domain.Question, settings domain.Settings) []domain.Question {
	total := settings.TotalQuestions
	if total <= 0 {
		total = domain.DefaultSettings().TotalQuestions
	}
	if total > len(pool) {
		total = len(pool)
	}

	picked := make([]domain.Question, 0, total)
	used := make(map[string]bool, total)

	for _, q := range pool {
		if q.Strict && len(picked) < total {
			picked = append(picked, q)
			used[q.ID] = true
		}
	}

	shuffled := make([]domain.Question, len(pool))
	copy(shuffled, pool)
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if settings.EasyCount+settings.MediumCount+settings.HardCount > 0 {
		quota := map[domain.Difficulty]int{
			domain.Easy:   settings.EasyCount,
			domain.Medium: settings.MediumCount,
			domain.Hard:   settings.HardCount,
		}
		for _, q := range picked {
			quota[q.Difficulty]--
		}
		for _, q := range shuffled {
			if len(picked) >= total || used[q.ID] || quota[q.Difficulty] <= 0 {
				continue
			}
			quota[q.Difficulty]--
			picked = append(picked, q)
			used[q.ID] = true
		}
	}

	for _, q := range shuffled {
		if len(picked) >= total {
			break
		}
		if used[q.ID] {
			continue
		}
		picked = append(picked, q)
		used[q.ID] = true
	}

	// Present in a fresh random order so strict questions are not front-loaded.
	rnd.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	for i := range picked {
		if limit := settings.TimeLimitFor(picked[i].Difficulty); limit > 0 {
			picked[i].TimeLimit = limit
		}
	}
	return picked
}
