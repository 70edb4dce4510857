package game

import "trackparty/backend/internal/models"

// roundResult is one scored answer, used for the round-ended broadcast.
type roundResult struct {
	UserID           uint `json:"user_id"`
	IsCorrect        bool `json:"is_correct"`
	IsPartialCorrect bool `json:"is_partial_correct"`
	Score            int  `json:"score"`
	Streak           int  `json:"streak"`
}

// scoreRound classifies and scores every submitted answer against the round's
// snapshotted answer key and updates the streak map in place. Players who
// never answered are absent: no penalty, streak untouched.
//
// Base score is 5 per correct pick minus 5 per wrong pick, doubled on
// lightning rounds. An updated streak of 3 or more adds a flat +10 which is
// never doubled. Negative scores are allowed.
func scoreRound(round *models.Round, answers []models.Answer, streaks map[uint]int) []roundResult {
	correct := make(map[uint]bool, len(round.CorrectListeners))
	for _, id := range round.CorrectListeners {
		correct[id] = true
	}

	results := make([]roundResult, 0, len(answers))
	for i := range answers {
		answer := &answers[i]

		correctCount, wrongCount := 0, 0
		for _, picked := range answer.Selected {
			if correct[picked] {
				correctCount++
			} else {
				wrongCount++
			}
		}

		answer.IsCorrect = correctCount == len(correct) && wrongCount == 0
		answer.IsPartialCorrect = !answer.IsCorrect && correctCount > 0

		score := pointsPerPick*correctCount - pointsPerPick*wrongCount
		if round.Lightning {
			score *= 2
		}

		if answer.IsCorrect || answer.IsPartialCorrect {
			streaks[answer.UserID]++
			if streaks[answer.UserID] >= streakThreshold {
				score += streakBonus
			}
		} else {
			streaks[answer.UserID] = 0
		}

		answer.Score = score
		answer.Scored = true

		results = append(results, roundResult{
			UserID:           answer.UserID,
			IsCorrect:        answer.IsCorrect,
			IsPartialCorrect: answer.IsPartialCorrect,
			Score:            answer.Score,
			Streak:           streaks[answer.UserID],
		})
	}
	return results
}
