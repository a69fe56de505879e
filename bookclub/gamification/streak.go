package gamification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/okubot/bookclub/bookclub/database/models"
)

// CloseOutcome describes what the day-close transition did to a user.
type CloseOutcome int

const (
	// CloseNoChange: the day was achieved (or grace simply stayed off).
	CloseNoChange CloseOutcome = iota
	// CloseGraceCleared: the day was achieved while grace was pending.
	CloseGraceCleared
	// CloseGraceActivated: goal missed, grace window opens for tomorrow.
	CloseGraceActivated
	// CloseStreakLost: goal missed inside the grace window; streak zeroed.
	CloseStreakLost
)

// ReportResult describes what a finalized report did to streak state.
type ReportResult struct {
	StreakExtended bool
	GraceUsed      bool
}

// StreakEngine owns the streak counter and grace flag. It consumes two
// events: report finalization (same-day, possibly repeated) and the
// scheduled day close (once per date, retrospective).
type StreakEngine struct {
	users UserStore
	logs  DailyLogStore
}

func NewStreakEngine(users UserStore, logs DailyLogStore) *StreakEngine {
	return &StreakEngine{users: users, logs: logs}
}

// OnReportFinalized applies the streak transition for a report finalized
// today with verdict v, previous verdict prev. Streak changes are
// edge-triggered on the first achievement of the day: re-finalizing an
// already-achieved day is a no-op.
func (e *StreakEngine) OnReportFinalized(ctx context.Context, user *models.User, v, prev models.LogStatus) (ReportResult, error) {
	var res ReportResult
	if v != models.StatusAchieved || prev == models.StatusAchieved {
		return res, nil
	}

	user.Streak++
	res.StreakExtended = true
	if user.GracePeriodActive {
		user.GracePeriodActive = false
		res.GraceUsed = true
	}
	if user.Streak > user.BestStreak {
		user.BestStreak = user.Streak
	}

	if err := e.users.Update(ctx, user); err != nil {
		return ReportResult{}, fmt.Errorf("failed to persist streak: %w", err)
	}

	slog.Debug("Streak extended",
		slog.String("type", "streak"),
		slog.Int64("user_id", user.ID),
		slog.Int("streak", user.Streak),
		slog.Bool("grace_used", res.GraceUsed))

	return res, nil
}

// OnDayClose applies the scheduled close transition for date. The two-state
// grace machine: NORMAL -(missed close)-> GRACE -(achieved close)-> NORMAL,
// or GRACE -(missed close)-> NORMAL with the streak zeroed. A pending log
// on a missed day is rewritten to missed.
func (e *StreakEngine) OnDayClose(ctx context.Context, user *models.User, log *models.DailyLog) (CloseOutcome, error) {
	if log != nil && log.Status == models.StatusAchieved {
		if !user.GracePeriodActive {
			return CloseNoChange, nil
		}
		user.GracePeriodActive = false
		if err := e.users.Update(ctx, user); err != nil {
			return CloseNoChange, fmt.Errorf("failed to clear grace period: %w", err)
		}
		return CloseGraceCleared, nil
	}

	if user.GracePeriodActive {
		// The one-day make-up window was not used. Terminal for this
		// grace cycle.
		user.Streak = 0
		user.GracePeriodActive = false
		if err := e.users.Update(ctx, user); err != nil {
			return CloseNoChange, fmt.Errorf("failed to reset streak: %w", err)
		}
		slog.Info("Streak lost after unused grace period",
			slog.String("type", "streak"),
			slog.Int64("user_id", user.ID))
		return CloseStreakLost, nil
	}

	// First miss: arm the grace window for tomorrow. The streak stays,
	// at risk pending the make-up.
	user.GracePeriodActive = true
	if err := e.users.Update(ctx, user); err != nil {
		return CloseNoChange, fmt.Errorf("failed to activate grace period: %w", err)
	}
	if log != nil && log.Status == models.StatusPending {
		log.Status = models.StatusMissed
		if err := e.logs.Update(ctx, log); err != nil {
			return CloseNoChange, fmt.Errorf("failed to mark log missed: %w", err)
		}
	}
	return CloseGraceActivated, nil
}
