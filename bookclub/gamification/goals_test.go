package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/okubot/bookclub/bookclub/database/models"
)

func TestEvaluateGoalOverall(t *testing.T) {
	club := &models.Club{
		GoalType:      models.GoalTypeOverall,
		DailyMinTotal: 10,
	}

	tests := []struct {
		name       string
		prl, rnk   int
		multiplier int
		want       models.LogStatus
	}{
		{"nothing read", 0, 0, 1, models.StatusNotRead},
		{"below minimum", 3, 0, 1, models.StatusReadNotEnough},
		{"exactly at minimum", 10, 0, 1, models.StatusAchieved},
		{"split across categories", 5, 5, 1, models.StatusAchieved},
		{"above minimum", 8, 7, 1, models.StatusAchieved},
		{"doubled threshold under grace", 10, 0, 2, models.StatusReadNotEnough},
		{"doubled threshold met", 12, 8, 2, models.StatusAchieved},
		{"multiplier below one clamps", 10, 0, 0, models.StatusAchieved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateGoal(club, tt.prl, tt.rnk, tt.multiplier)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateGoalSeparate(t *testing.T) {
	club := &models.Club{
		GoalType:    models.GoalTypeSeparate,
		DailyMinPRL: 20,
		DailyMinRNK: 20,
	}

	tests := []struct {
		name       string
		prl, rnk   int
		multiplier int
		want       models.LogStatus
	}{
		{"nothing read", 0, 0, 1, models.StatusNotRead},
		{"one category short", 20, 15, 1, models.StatusReadNotEnough},
		{"other category short", 15, 20, 1, models.StatusReadNotEnough},
		{"both met", 20, 20, 1, models.StatusAchieved},
		{"excess does not compensate", 100, 0, 1, models.StatusReadNotEnough},
		{"grace halves achieved day", 20, 20, 2, models.StatusReadNotEnough},
		{"grace met in both", 40, 40, 2, models.StatusAchieved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateGoal(club, tt.prl, tt.rnk, tt.multiplier)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateGoalSeparateZeroMinimums(t *testing.T) {
	club := &models.Club{GoalType: models.GoalTypeSeparate}
	// Zero minimums mean any day, even an empty one, counts as achieved.
	assert.Equal(t, models.StatusAchieved, EvaluateGoal(club, 0, 0, 1))
}

func TestMultiplierFor(t *testing.T) {
	assert.Equal(t, 1, MultiplierFor(&models.User{}))
	assert.Equal(t, GraceMultiplier, MultiplierFor(&models.User{GracePeriodActive: true}))
}
