package gamification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/okubot/bookclub/bookclub/database/models"
)

// ErrNoClubAssigned is returned by Finalize for users without a club: there
// is no goal configuration to evaluate against. Callers should keep such
// users out of the report flow entirely.
var ErrNoClubAssigned = errors.New("user has no club assigned")

// Ledger owns the per-user-per-day record: find-or-create accumulation of
// page counts and goal finalization.
type Ledger struct {
	logs DailyLogStore
}

func NewLedger(logs DailyLogStore) *Ledger {
	return &Ledger{logs: logs}
}

// Accumulate adds pages to the running per-category total of the user's log
// for the given date, creating the log lazily on the first report of the
// day. Totals only ever grow; calling once per book in a reporting session
// is the expected pattern.
func (l *Ledger) Accumulate(ctx context.Context, userID int64, date time.Time, category models.BookCategory, pages int) (*models.DailyLog, error) {
	if pages < 0 {
		return nil, fmt.Errorf("negative page count %d", pages)
	}

	log, err := l.logs.FindByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily log: %w", err)
	}
	if log == nil {
		log = &models.DailyLog{
			UserID: userID,
			Date:   date,
			Status: models.StatusPending,
		}
		if err := l.logs.Create(ctx, log); err != nil {
			return nil, fmt.Errorf("failed to create daily log: %w", err)
		}
	}

	switch category {
	case models.CategoryPRL:
		log.PagesReadPRL += pages
	case models.CategoryRNK:
		log.PagesReadRNK += pages
	default:
		return nil, fmt.Errorf("unknown book category %q", category)
	}

	if err := l.logs.Update(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to update daily log: %w", err)
	}
	return log, nil
}

// Finalize evaluates the day's running totals against the user's club goal
// and grace state and writes the resulting status. It returns the new and
// previous status so the streak engine can act edge-triggered. The user's
// Club relation must be loaded.
func (l *Ledger) Finalize(ctx context.Context, user *models.User, date time.Time) (status, previous models.LogStatus, err error) {
	if user.ClubID == nil || user.Club == nil {
		return "", "", ErrNoClubAssigned
	}

	log, err := l.logs.FindByUserAndDate(ctx, user.ID, date)
	if err != nil {
		return "", "", fmt.Errorf("failed to load daily log: %w", err)
	}
	if log == nil {
		log = &models.DailyLog{
			UserID: user.ID,
			Date:   date,
			Status: models.StatusPending,
		}
		if err := l.logs.Create(ctx, log); err != nil {
			return "", "", fmt.Errorf("failed to create daily log: %w", err)
		}
	}

	previous = log.Status
	status = EvaluateGoal(user.Club, log.PagesReadPRL, log.PagesReadRNK, MultiplierFor(user))
	log.Status = status
	if err := l.logs.Update(ctx, log); err != nil {
		return "", "", fmt.Errorf("failed to write daily log status: %w", err)
	}

	slog.Debug("Daily log finalized",
		slog.String("type", "ledger"),
		slog.Int64("user_id", user.ID),
		slog.String("date", date.Format("2006-01-02")),
		slog.String("status", string(status)),
		slog.String("previous", string(previous)))

	return status, previous, nil
}
