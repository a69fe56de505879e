package gamification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okubot/bookclub/bookclub/database/models"
)

func TestOnReportFinalizedExtendsOnFirstAchievement(t *testing.T) {
	users := &memUserStore{}
	engine := NewStreakEngine(users, &memLogStore{})
	user := &models.User{ID: 1, Streak: 4, BestStreak: 4}

	res, err := engine.OnReportFinalized(context.Background(), user, models.StatusAchieved, models.StatusPending)
	require.NoError(t, err)
	assert.True(t, res.StreakExtended)
	assert.Equal(t, 5, user.Streak)
	assert.Equal(t, 5, user.BestStreak)
	assert.Equal(t, 1, users.updates)
}

func TestOnReportFinalizedEdgeTriggered(t *testing.T) {
	users := &memUserStore{}
	engine := NewStreakEngine(users, &memLogStore{})
	user := &models.User{ID: 1, Streak: 5}

	// Second report of an already-achieved day changes nothing.
	res, err := engine.OnReportFinalized(context.Background(), user, models.StatusAchieved, models.StatusAchieved)
	require.NoError(t, err)
	assert.False(t, res.StreakExtended)
	assert.Equal(t, 5, user.Streak)
	assert.Zero(t, users.updates)
}

func TestOnReportFinalizedNonAchievingVerdicts(t *testing.T) {
	users := &memUserStore{}
	engine := NewStreakEngine(users, &memLogStore{})
	user := &models.User{ID: 1, Streak: 5}

	for _, v := range []models.LogStatus{models.StatusReadNotEnough, models.StatusNotRead} {
		res, err := engine.OnReportFinalized(context.Background(), user, v, models.StatusPending)
		require.NoError(t, err)
		assert.False(t, res.StreakExtended)
	}
	assert.Equal(t, 5, user.Streak, "insufficient reads never touch the streak")
}

func TestOnReportFinalizedConsumesGrace(t *testing.T) {
	users := &memUserStore{}
	engine := NewStreakEngine(users, &memLogStore{})
	user := &models.User{ID: 1, Streak: 3, BestStreak: 6, GracePeriodActive: true}

	res, err := engine.OnReportFinalized(context.Background(), user, models.StatusAchieved, models.StatusReadNotEnough)
	require.NoError(t, err)
	assert.True(t, res.StreakExtended)
	assert.True(t, res.GraceUsed)
	assert.False(t, user.GracePeriodActive)
	assert.Equal(t, 4, user.Streak)
	assert.Equal(t, 6, user.BestStreak, "best streak is a high-water mark")
}

func TestOnDayCloseAchievedIsNoChange(t *testing.T) {
	users := &memUserStore{}
	engine := NewStreakEngine(users, &memLogStore{})
	user := &models.User{ID: 1, Streak: 3}
	log := &models.DailyLog{UserID: 1, Status: models.StatusAchieved}

	outcome, err := engine.OnDayClose(context.Background(), user, log)
	require.NoError(t, err)
	assert.Equal(t, CloseNoChange, outcome)
	assert.Equal(t, 3, user.Streak)
	assert.Zero(t, users.updates)
}

func TestOnDayCloseAchievedClearsStaleGrace(t *testing.T) {
	users := &memUserStore{}
	engine := NewStreakEngine(users, &memLogStore{})
	user := &models.User{ID: 1, Streak: 3, GracePeriodActive: true}
	log := &models.DailyLog{UserID: 1, Status: models.StatusAchieved}

	outcome, err := engine.OnDayClose(context.Background(), user, log)
	require.NoError(t, err)
	assert.Equal(t, CloseGraceCleared, outcome)
	assert.False(t, user.GracePeriodActive)
	assert.Equal(t, 3, user.Streak)
}

func TestOnDayCloseFirstMissActivatesGrace(t *testing.T) {
	users := &memUserStore{}
	logs := &memLogStore{}
	engine := NewStreakEngine(users, logs)
	user := &models.User{ID: 1, Streak: 9}
	log := &models.DailyLog{UserID: 1, Status: models.StatusPending}

	outcome, err := engine.OnDayClose(context.Background(), user, log)
	require.NoError(t, err)
	assert.Equal(t, CloseGraceActivated, outcome)
	assert.True(t, user.GracePeriodActive)
	assert.Equal(t, 9, user.Streak, "streak survives the first miss")
	assert.Equal(t, models.StatusMissed, log.Status)
}

func TestOnDayCloseNoLogActivatesGrace(t *testing.T) {
	users := &memUserStore{}
	engine := NewStreakEngine(users, &memLogStore{})
	user := &models.User{ID: 1, Streak: 2}

	outcome, err := engine.OnDayClose(context.Background(), user, nil)
	require.NoError(t, err)
	assert.Equal(t, CloseGraceActivated, outcome)
	assert.True(t, user.GracePeriodActive)
}

func TestOnDayCloseMissUnderGraceZeroesStreak(t *testing.T) {
	users := &memUserStore{}
	engine := NewStreakEngine(users, &memLogStore{})
	user := &models.User{ID: 1, Streak: 9, BestStreak: 9, GracePeriodActive: true}
	log := &models.DailyLog{UserID: 1, Status: models.StatusNotRead}

	outcome, err := engine.OnDayClose(context.Background(), user, log)
	require.NoError(t, err)
	assert.Equal(t, CloseStreakLost, outcome)
	assert.Equal(t, 0, user.Streak)
	assert.False(t, user.GracePeriodActive)
	assert.Equal(t, 9, user.BestStreak)
}

// Four consecutive closes walk the full grace cycle: a 5-day streak
// survives one missed day, extends through the doubled make-up day, then
// dies after two unanswered misses.
func TestGraceCycleAcrossDays(t *testing.T) {
	users := &memUserStore{}
	logs := &memLogStore{}
	engine := NewStreakEngine(users, logs)
	user := &models.User{ID: 1, Streak: 5, BestStreak: 5}

	// Day D: missed. Grace arms, streak holds at 5.
	outcome, err := engine.OnDayClose(context.Background(), user, &models.DailyLog{Status: models.StatusNotRead})
	require.NoError(t, err)
	assert.Equal(t, CloseGraceActivated, outcome)
	assert.Equal(t, 5, user.Streak)

	// Day D+1: the doubled goal is met; the report consumes the grace.
	res, err := engine.OnReportFinalized(context.Background(), user, models.StatusAchieved, models.StatusPending)
	require.NoError(t, err)
	assert.True(t, res.GraceUsed)
	assert.Equal(t, 6, user.Streak)
	assert.Equal(t, 6, user.BestStreak)

	// Day D+1 close: achieved, nothing more to do.
	outcome, err = engine.OnDayClose(context.Background(), user, &models.DailyLog{Status: models.StatusAchieved})
	require.NoError(t, err)
	assert.Equal(t, CloseNoChange, outcome)

	// Day D+2: missed again. A fresh grace arms.
	outcome, err = engine.OnDayClose(context.Background(), user, nil)
	require.NoError(t, err)
	assert.Equal(t, CloseGraceActivated, outcome)
	assert.Equal(t, 6, user.Streak)

	// Day D+3: missed inside the window. Streak gone.
	outcome, err = engine.OnDayClose(context.Background(), user, nil)
	require.NoError(t, err)
	assert.Equal(t, CloseStreakLost, outcome)
	assert.Equal(t, 0, user.Streak)
	assert.Equal(t, 6, user.BestStreak)
}
