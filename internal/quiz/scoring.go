package quiz

import "cppquiz-service/internal/domain"

const (
	// pointsPerCorrect is the value of a regular question.
	pointsPerCorrect = 1
	// penaltyPerEpisode is deducted from the regular score for each
	// loss-of-attention episode.
	penaltyPerEpisode = 2
	// bonusReward / bonusForfeit are the stakes of the optional bonus question.
	bonusReward  = 10
	bonusForfeit = -8
)

// Summary breaks a finished session's score into its components.
type Summary struct {
	RegularCorrect int
	PenaltyPoints  int
	RegularScore   int
	BonusScore     int
	RawScore       int
	TotalScore     int
	BonusTaken     bool
}

// Score computes the final score from the answer log and penalty counter.
// Penalties reduce only the regular score and never drive it negative; the
// bonus forfeit can eat into the regular score but the total is clamped at
// zero. RawScore keeps the unclamped pre-penalty sum for reporting.
func Score(answers []domain.Answer, penaltyCount int) Summary {
	var s Summary
	for _, a := range answers {
		if a.Bonus {
			s.BonusTaken = true
			if a.Correct {
				s.BonusScore = bonusReward
			} else {
				s.BonusScore = bonusForfeit
			}
			continue
		}
		if a.Correct {
			s.RegularCorrect += pointsPerCorrect
		}
	}

	s.PenaltyPoints = penaltyCount * penaltyPerEpisode
	s.RegularScore = s.RegularCorrect - s.PenaltyPoints
	if s.RegularScore < 0 {
		s.RegularScore = 0
	}

	s.RawScore = s.RegularCorrect + s.BonusScore

	s.TotalScore = s.RegularScore + s.BonusScore
	if s.TotalScore < 0 {
		s.TotalScore = 0
	}
	return s
}

// difficultyScores counts correct regular answers per difficulty level.
func difficultyScores(questions []domain.Question, answers []domain.Answer) domain.DifficultyScores {
	byID := make(map[string]domain.Difficulty, len(questions))
	for _, q := range questions {
		byID[q.ID] = q.Difficulty
	}

	var ds domain.DifficultyScores
	for _, a := range answers {
		if a.Bonus || !a.Correct {
			continue
		}
		switch byID[a.QuestionID] {
		case domain.Easy:
			ds.Easy++
		case domain.Medium:
			ds.Medium++
		case domain.Hard:
			ds.Difficult++
		}
	}
	return ds
}
