package gamification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/okubot/bookclub/bookclub/clock"
	"github.com/okubot/bookclub/bookclub/database/models"
)

// Badge catalog names. Predicates in CheckBadges key off these.
const (
	BadgeStreak3        = "3 Day Streak"
	BadgeStreak7        = "7 Day Streak"
	BadgeStreak30       = "30 Day Streak"
	BadgePages100       = "100 Pages"
	BadgePages500       = "500 Pages"
	BadgePages1000      = "1000 Pages"
	BadgeLevel5         = "Level 5"
	BadgeLevel10        = "Level 10"
	BadgeFirstBook      = "First Book"
	BadgeDiverseReader  = "Diverse Reader"
	BadgeComebackKing   = "Comeback King"
)

type badgeSeed struct {
	name        string
	description string
	icon        string
}

var badgeCatalog = []badgeSeed{
	{BadgeStreak3, "Maintained a 3-day reading streak", "🔥"},
	{BadgeStreak7, "Maintained a 7-day reading streak", "🔥🔥"},
	{BadgeStreak30, "Maintained a 30-day reading streak", "🔥🔥🔥"},
	{BadgePages100, "Read 100 pages total", "📖"},
	{BadgePages500, "Read 500 pages total", "📚"},
	{BadgePages1000, "Read 1000 pages total", "🧙"},
	{BadgeLevel5, "Reached Level 5", "⭐"},
	{BadgeLevel10, "Reached Level 10", "🌟"},
	{BadgeFirstBook, "Finished a first book", "🏁"},
	{BadgeDiverseReader, "Finished books in both categories", "🎭"},
	{BadgeComebackKing, "Rebuilt a streak after losing one", "👑"},
}

// Progression derives XP from activity, recomputes level from XP, and
// evaluates badge-unlock predicates against cumulative stats.
type Progression struct {
	users   UserStore
	logs    DailyLogStore
	shelves BookshelfStore
	badges  BadgeStore
	clock   clock.Clock
}

func NewProgression(users UserStore, logs DailyLogStore, shelves BookshelfStore, badges BadgeStore, clk clock.Clock) *Progression {
	return &Progression{users: users, logs: logs, shelves: shelves, badges: badges, clock: clk}
}

// AwardXP adds a non-negative amount to the user's XP, recomputes the level
// and reports whether a level-up occurred. XP never decreases here.
func (p *Progression) AwardXP(ctx context.Context, user *models.User, amount int64) (leveledUp bool, err error) {
	if amount < 0 {
		return false, fmt.Errorf("negative xp award %d", amount)
	}
	if amount == 0 {
		return false, nil
	}

	user.XP += amount
	if newLevel := Level(user.XP); newLevel > user.Level {
		user.Level = newLevel
		leveledUp = true
	}
	if err := p.users.Update(ctx, user); err != nil {
		return false, fmt.Errorf("failed to persist xp: %w", err)
	}

	slog.Debug("XP awarded",
		slog.String("type", "progression"),
		slog.Int64("user_id", user.ID),
		slog.Int64("amount", amount),
		slog.Int64("xp", user.XP),
		slog.Bool("leveled_up", leveledUp))

	return leveledUp, nil
}

// CheckBadges evaluates every unlock predicate and awards what is newly
// earned. Idempotent: the UserBadge existence check guards re-awarding, so
// the second of two back-to-back calls returns nothing. Earned badges are
// never revoked.
func (p *Progression) CheckBadges(ctx context.Context, user *models.User) ([]*models.Badge, error) {
	var names []string

	for i, threshold := range StreakThresholds {
		if user.Streak >= threshold {
			names = append(names, []string{BadgeStreak3, BadgeStreak7, BadgeStreak30}[i])
		}
	}

	totalPages, err := p.logs.SumPages(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum pages: %w", err)
	}
	for i, threshold := range PageThresholds {
		if totalPages >= threshold {
			names = append(names, []string{BadgePages100, BadgePages500, BadgePages1000}[i])
		}
	}

	for i, threshold := range LevelThresholds {
		if user.Level >= threshold {
			names = append(names, []string{BadgeLevel5, BadgeLevel10}[i])
		}
	}

	finished, err := p.shelves.CountFinished(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count finished books: %w", err)
	}
	if finished > 0 {
		names = append(names, BadgeFirstBook)
	}

	categories, err := p.shelves.FinishedCategories(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list finished categories: %w", err)
	}
	if len(categories) >= 2 {
		names = append(names, BadgeDiverseReader)
	}

	// Comeback: a streak was lost (best > current) and rebuilt to the
	// recovery bar. The predicate stays true afterwards; the existence
	// guard makes it award-once.
	if user.BestStreak > 0 && user.Streak >= ComebackMinStreak && user.Streak < user.BestStreak {
		names = append(names, BadgeComebackKing)
	}

	var awarded []*models.Badge
	for _, name := range names {
		badge, err := p.award(ctx, user, name)
		if err != nil {
			return nil, err
		}
		if badge != nil {
			awarded = append(awarded, badge)
		}
	}
	return awarded, nil
}

func (p *Progression) award(ctx context.Context, user *models.User, name string) (*models.Badge, error) {
	badge, err := p.badges.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up badge %q: %w", name, err)
	}
	if badge == nil {
		return nil, nil
	}
	has, err := p.badges.HasUserBadge(ctx, user.ID, badge.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check badge ownership: %w", err)
	}
	if has {
		return nil, nil
	}
	ub := &models.UserBadge{
		UserID:    user.ID,
		BadgeID:   badge.ID,
		AwardedAt: p.clock.Now(),
	}
	if err := p.badges.AwardUserBadge(ctx, ub); err != nil {
		return nil, fmt.Errorf("failed to award badge %q: %w", name, err)
	}
	slog.Info("Badge awarded",
		slog.String("type", "progression"),
		slog.Int64("user_id", user.ID),
		slog.String("badge", name))
	return badge, nil
}

// GoalProgress reports fractional progress toward every catalog badge,
// keyed by badge name and clamped to [0, 1]. Display-only; awarding stays
// with CheckBadges.
func GoalProgress(user *models.User, totalPages, finishedBooks, finishedCategories int) map[string]float64 {
	frac := func(have, want int) float64 {
		if want <= 0 || have >= want {
			return 1
		}
		if have <= 0 {
			return 0
		}
		return float64(have) / float64(want)
	}

	progress := map[string]float64{
		BadgeStreak3:       frac(user.Streak, StreakThresholds[0]),
		BadgeStreak7:       frac(user.Streak, StreakThresholds[1]),
		BadgeStreak30:      frac(user.Streak, StreakThresholds[2]),
		BadgePages100:      frac(totalPages, PageThresholds[0]),
		BadgePages500:      frac(totalPages, PageThresholds[1]),
		BadgePages1000:     frac(totalPages, PageThresholds[2]),
		BadgeLevel5:        frac(user.Level, LevelThresholds[0]),
		BadgeLevel10:       frac(user.Level, LevelThresholds[1]),
		BadgeFirstBook:     frac(finishedBooks, 1),
		BadgeDiverseReader: frac(finishedCategories, 2),
		BadgeComebackKing:  0,
	}
	if user.BestStreak > 0 && user.Streak < user.BestStreak {
		progress[BadgeComebackKing] = frac(user.Streak, ComebackMinStreak)
	}
	return progress
}

// SeedBadges inserts any catalog badges missing from the store. Run at
// startup; safe to run every time.
func (p *Progression) SeedBadges(ctx context.Context) error {
	for _, seed := range badgeCatalog {
		existing, err := p.badges.FindByName(ctx, seed.name)
		if err != nil {
			return fmt.Errorf("failed to look up badge %q: %w", seed.name, err)
		}
		if existing != nil {
			continue
		}
		badge := &models.Badge{
			Name:        seed.name,
			Description: seed.description,
			Icon:        seed.icon,
		}
		if err := p.badges.Create(ctx, badge); err != nil {
			return fmt.Errorf("failed to seed badge %q: %w", seed.name, err)
		}
	}
	return nil
}
