package gamification

import (
	"github.com/okubot/bookclub/bookclub/database/models"
)

// GraceMultiplier is applied to every goal threshold while a user's grace
// period is active: one day to read double and keep the streak.
const GraceMultiplier = 2

// EvaluateGoal maps a club's goal configuration and a day's accumulated page
// counts to a verdict. Pure function, no error conditions: one of achieved,
// read_not_enough or not_read always comes back.
func EvaluateGoal(club *models.Club, totalPRL, totalRNK, multiplier int) models.LogStatus {
	if multiplier < 1 {
		multiplier = 1
	}

	if club.GoalType == models.GoalTypeOverall {
		total := totalPRL + totalRNK
		switch {
		case total >= club.DailyMinTotal*multiplier:
			return models.StatusAchieved
		case total > 0:
			return models.StatusReadNotEnough
		default:
			return models.StatusNotRead
		}
	}

	// SEPARATE: both category minimums must be met.
	switch {
	case totalPRL >= club.DailyMinPRL*multiplier && totalRNK >= club.DailyMinRNK*multiplier:
		return models.StatusAchieved
	case totalPRL > 0 || totalRNK > 0:
		return models.StatusReadNotEnough
	default:
		return models.StatusNotRead
	}
}

// MultiplierFor returns the threshold multiplier in effect for a user's
// current day: doubled under an active grace period, normal otherwise.
func MultiplierFor(user *models.User) int {
	if user.GracePeriodActive {
		return GraceMultiplier
	}
	return 1
}
