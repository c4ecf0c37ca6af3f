// Package analytics aggregates persisted quiz results for the admin
// dashboard and the class leaderboard.
package analytics

import (
	"math"
	"sort"
	"time"

	"cppquiz-service/internal/domain"
)

// topPerformerLimit caps the performers list on the dashboard.
const topPerformerLimit = 10

// Distribution is the percentage split of correct answers by difficulty.
type Distribution struct {
	Easy      int `json:"easy"`
	Medium    int `json:"medium"`
	Difficult int `json:"difficult"`
}

// Summary is the aggregate view over all persisted results.
type Summary struct {
	TotalAttempts          int             `json:"totalAttempts"`
	AverageScore           float64         `json:"averageScore"`
	HighestScore           int             `json:"highestScore"`
	ParticipantsToday      int             `json:"participantsToday"`
	AverageScoreToday      float64         `json:"averageScoreToday"`
	ParticipantsThisWeek   int             `json:"participantsThisWeek"`
	AverageScoreThisWeek   float64         `json:"averageScoreThisWeek"`
	ParticipantsThisMonth  int             `json:"participantsThisMonth"`
	AverageScoreThisMonth  float64         `json:"averageScoreThisMonth"`
	DifficultyDistribution Distribution    `json:"difficultyDistribution"`
	TopPerformers          []domain.Result `json:"topPerformers"`
}

// Calculate builds the dashboard summary from raw results. now anchors the
// today/week/month windows.
func Calculate(results []domain.Result, now time.Time) Summary {
	s := Summary{TotalAttempts: len(results)}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	var today, week, month []domain.Result
	for _, r := range results {
		if !r.Timestamp.Before(dayStart) {
			today = append(today, r)
		}
		if !r.Timestamp.Before(weekAgo) {
			week = append(week, r)
		}
		if !r.Timestamp.Before(monthAgo) {
			month = append(month, r)
		}
		if r.TotalScore > s.HighestScore {
			s.HighestScore = r.TotalScore
		}
	}

	s.AverageScore = averageScore(results)
	s.ParticipantsToday = len(today)
	s.AverageScoreToday = averageScore(today)
	s.ParticipantsThisWeek = len(week)
	s.AverageScoreThisWeek = averageScore(week)
	s.ParticipantsThisMonth = len(month)
	s.AverageScoreThisMonth = averageScore(month)
	s.DifficultyDistribution = difficultyDistribution(results)
	s.TopPerformers = topPerformers(results)
	return s
}

func averageScore(results []domain.Result) float64 {
	if len(results) == 0 {
		return 0
	}
	sum := 0
	for _, r := range results {
		sum += r.TotalScore
	}
	return float64(sum) / float64(len(results))
}

func difficultyDistribution(results []domain.Result) Distribution {
	var totals domain.DifficultyScores
	for _, r := range results {
		totals.Easy += r.DifficultyScores.Easy
		totals.Medium += r.DifficultyScores.Medium
		totals.Difficult += r.DifficultyScores.Difficult
	}

	correct := totals.Easy + totals.Medium + totals.Difficult
	if correct == 0 {
		return Distribution{}
	}
	pct := func(n int) int {
		return int(math.Round(float64(n) / float64(correct) * 100))
	}
	return Distribution{
		Easy:      pct(totals.Easy),
		Medium:    pct(totals.Medium),
		Difficult: pct(totals.Difficult),
	}
}

func topPerformers(results []domain.Result) []domain.Result {
	top := make([]domain.Result, len(results))
	copy(top, results)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].TotalScore > top[j].TotalScore
	})
	if len(top) > topPerformerLimit {
		top = top[:topPerformerLimit]
	}
	return top
}
