package gamification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okubot/bookclub/bookclub/clock"
	"github.com/okubot/bookclub/bookclub/database/models"
)

func newTestProgression(t *testing.T) (*Progression, *memUserStore, *memLogStore, *memShelfStore, *memBadgeStore) {
	t.Helper()
	users := &memUserStore{}
	logs := &memLogStore{}
	shelves := &memShelfStore{}
	badges := &memBadgeStore{}
	clk := clock.Fixed{T: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	p := NewProgression(users, logs, shelves, badges, clk)
	require.NoError(t, p.SeedBadges(context.Background()))
	return p, users, logs, shelves, badges
}

func TestAwardXP(t *testing.T) {
	p, users, _, _, _ := newTestProgression(t)
	user := &models.User{ID: 1, Level: 1}

	leveled, err := p.AwardXP(context.Background(), user, 50)
	require.NoError(t, err)
	assert.False(t, leveled)
	assert.Equal(t, int64(50), user.XP)
	assert.Equal(t, 1, user.Level)

	leveled, err = p.AwardXP(context.Background(), user, 50)
	require.NoError(t, err)
	assert.True(t, leveled, "crossing 100 XP reaches level 2")
	assert.Equal(t, 2, user.Level)
	assert.Equal(t, 2, users.updates)
}

func TestAwardXPZeroIsNoOp(t *testing.T) {
	p, users, _, _, _ := newTestProgression(t)
	user := &models.User{ID: 1, Level: 1}

	leveled, err := p.AwardXP(context.Background(), user, 0)
	require.NoError(t, err)
	assert.False(t, leveled)
	assert.Zero(t, users.updates)
}

func TestAwardXPRejectsNegative(t *testing.T) {
	p, _, _, _, _ := newTestProgression(t)
	_, err := p.AwardXP(context.Background(), &models.User{ID: 1}, -10)
	assert.Error(t, err)
}

func TestSeedBadgesIdempotent(t *testing.T) {
	p, _, _, _, badges := newTestProgression(t)
	before := len(badges.badges)
	require.NoError(t, p.SeedBadges(context.Background()))
	assert.Equal(t, before, len(badges.badges))
}

func badgeNames(badges []*models.Badge) []string {
	names := make([]string, 0, len(badges))
	for _, b := range badges {
		names = append(names, b.Name)
	}
	return names
}

func TestCheckBadgesStreak(t *testing.T) {
	p, _, _, _, _ := newTestProgression(t)
	user := &models.User{ID: 1, Streak: 7, Level: 1}

	awarded, err := p.CheckBadges(context.Background(), user)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{BadgeStreak3, BadgeStreak7}, badgeNames(awarded))
}

func TestCheckBadgesPages(t *testing.T) {
	p, _, logs, _, _ := newTestProgression(t)
	logs.logs = []*models.DailyLog{
		{UserID: 1, PagesReadPRL: 300, PagesReadRNK: 250},
	}
	user := &models.User{ID: 1, Level: 1}

	awarded, err := p.CheckBadges(context.Background(), user)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{BadgePages100, BadgePages500}, badgeNames(awarded))
}

func TestCheckBadgesBooks(t *testing.T) {
	p, _, _, shelves, _ := newTestProgression(t)
	shelves.readings = []*models.UserBook{
		{UserID: 1, Finished: true},
		{UserID: 1, Finished: true},
	}
	shelves.categories = []models.BookCategory{models.CategoryPRL, models.CategoryRNK}
	user := &models.User{ID: 1, Level: 1}

	awarded, err := p.CheckBadges(context.Background(), user)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{BadgeFirstBook, BadgeDiverseReader}, badgeNames(awarded))
}

func TestCheckBadgesComeback(t *testing.T) {
	p, _, _, _, _ := newTestProgression(t)

	tests := []struct {
		name               string
		streak, bestStreak int
		want               bool
	}{
		{"rebuilding after a loss", 3, 10, true},
		{"still below the recovery bar", 2, 10, false},
		{"never lost a streak", 3, 3, false},
		{"fresh user", 0, 0, false},
		{"surpassed the old best", 11, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &models.User{ID: int64(100 + len(tt.name)), Streak: tt.streak, BestStreak: tt.bestStreak, Level: 1}
			awarded, err := p.CheckBadges(context.Background(), user)
			require.NoError(t, err)
			if tt.want {
				assert.Contains(t, badgeNames(awarded), BadgeComebackKing)
			} else {
				assert.NotContains(t, badgeNames(awarded), BadgeComebackKing)
			}
		})
	}
}

func TestCheckBadgesIdempotent(t *testing.T) {
	p, _, _, _, badges := newTestProgression(t)
	user := &models.User{ID: 1, Streak: 30, Level: 10}

	first, err := p.CheckBadges(context.Background(), user)
	require.NoError(t, err)
	assert.NotEmpty(t, first)
	grants := len(badges.awarded)

	second, err := p.CheckBadges(context.Background(), user)
	require.NoError(t, err)
	assert.Empty(t, second, "back-to-back check awards nothing new")
	assert.Equal(t, grants, len(badges.awarded))
}

func TestCheckBadgesComebackAwardOnce(t *testing.T) {
	p, _, _, _, _ := newTestProgression(t)
	user := &models.User{ID: 1, Streak: 3, BestStreak: 10, Level: 1}

	first, err := p.CheckBadges(context.Background(), user)
	require.NoError(t, err)
	assert.Contains(t, badgeNames(first), BadgeComebackKing)

	// The predicate stays true on the next day of the rebuilt streak;
	// the award does not repeat.
	user.Streak = 4
	second, err := p.CheckBadges(context.Background(), user)
	require.NoError(t, err)
	assert.NotContains(t, badgeNames(second), BadgeComebackKing)
}

func TestGoalProgress(t *testing.T) {
	user := &models.User{Streak: 3, Level: 5}
	progress := GoalProgress(user, 250, 1, 1)

	assert.Equal(t, 1.0, progress[BadgeStreak3])
	assert.InDelta(t, 3.0/7.0, progress[BadgeStreak7], 1e-9)
	assert.InDelta(t, 0.1, progress[BadgeStreak30], 1e-9)
	assert.Equal(t, 1.0, progress[BadgePages100])
	assert.InDelta(t, 0.5, progress[BadgePages500], 1e-9)
	assert.Equal(t, 1.0, progress[BadgeLevel5])
	assert.Equal(t, 0.5, progress[BadgeLevel10])
	assert.Equal(t, 1.0, progress[BadgeFirstBook])
	assert.Equal(t, 0.5, progress[BadgeDiverseReader])

	// No broken streak, no comeback progress.
	assert.Equal(t, 0.0, progress[BadgeComebackKing])
}

func TestGoalProgressComeback(t *testing.T) {
	user := &models.User{Streak: 2, BestStreak: 10}
	progress := GoalProgress(user, 0, 0, 0)
	assert.InDelta(t, 2.0/3.0, progress[BadgeComebackKing], 1e-9)

	user.Streak = 0
	assert.Equal(t, 0.0, GoalProgress(user, 0, 0, 0)[BadgeComebackKing])
}
