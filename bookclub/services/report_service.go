package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/okubot/bookclub/bookclub/clock"
	"github.com/okubot/bookclub/bookclub/database/models"
	"github.com/okubot/bookclub/bookclub/database/repositories"
	"github.com/okubot/bookclub/bookclub/gamification"
)

// ReportLine is what one entry did to its book.
type ReportLine struct {
	Title    string
	Claimed  int
	Accepted int
	Capped   bool
	Finished bool
}

// ReportOutcome is everything the /report command needs to render after a
// submitted session.
type ReportOutcome struct {
	Lines          []ReportLine
	Status         models.LogStatus
	Streak         int
	StreakExtended bool
	GraceUsed      bool
	XPAwarded      int64
	LeveledUp      bool
	Level          int
	NewBadges      []*models.Badge
}

// ReportService runs a submitted reporting session through the ledger, the
// streak engine and progression, in that order.
type ReportService struct {
	users       repositories.UserRepository
	userBooks   repositories.UserBookRepository
	ledger      *gamification.Ledger
	streaks     *gamification.StreakEngine
	progression *gamification.Progression
	clock       clock.Clock
}

func NewReportService(
	users repositories.UserRepository,
	userBooks repositories.UserBookRepository,
	ledger *gamification.Ledger,
	streaks *gamification.StreakEngine,
	progression *gamification.Progression,
	clk clock.Clock,
) *ReportService {
	return &ReportService{
		users:       users,
		userBooks:   userBooks,
		ledger:      ledger,
		streaks:     streaks,
		progression: progression,
		clock:       clk,
	}
}

// Submit applies the session's entries for today. The user's Club relation
// must be loaded; users without a club get gamification.ErrNoClubAssigned
// before anything is written.
func (s *ReportService) Submit(ctx context.Context, user *models.User, entries []ReportEntry) (*ReportOutcome, error) {
	if user.ClubID == nil || user.Club == nil {
		return nil, gamification.ErrNoClubAssigned
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("empty report")
	}

	today := s.clock.Today()
	outcome := &ReportOutcome{}
	var xp int64

	for _, entry := range entries {
		ub, err := s.userBooks.GetByID(ctx, entry.UserBookID)
		if err != nil {
			return nil, fmt.Errorf("failed to load reading %d: %w", entry.UserBookID, err)
		}
		if ub.UserID != user.ID {
			return nil, fmt.Errorf("reading %d does not belong to user %d", entry.UserBookID, user.ID)
		}
		if ub.Book == nil {
			return nil, fmt.Errorf("reading %d has no book loaded", entry.UserBookID)
		}

		res := gamification.ReportPages(ub, entry.Pages, today)
		line := ReportLine{
			Title:    ub.Book.Title,
			Claimed:  entry.Pages,
			Accepted: res.PagesAccepted,
			Capped:   res.Capped,
			Finished: res.Finished,
		}
		outcome.Lines = append(outcome.Lines, line)

		if res.PagesAccepted > 0 {
			if _, err := s.ledger.Accumulate(ctx, user.ID, today, ub.Book.Category, res.PagesAccepted); err != nil {
				return nil, err
			}
			xp += int64(res.PagesAccepted) * gamification.XPPerPage
		}
		if res.Finished {
			xp += gamification.CompletionXP(ub)
		}
		if err := s.userBooks.Update(ctx, ub); err != nil {
			return nil, fmt.Errorf("failed to persist reading: %w", err)
		}
	}

	status, previous, err := s.ledger.Finalize(ctx, user, today)
	if err != nil {
		return nil, err
	}
	outcome.Status = status

	streakRes, err := s.streaks.OnReportFinalized(ctx, user, status, previous)
	if err != nil {
		return nil, err
	}
	outcome.StreakExtended = streakRes.StreakExtended
	outcome.GraceUsed = streakRes.GraceUsed
	outcome.Streak = user.Streak

	if streakRes.StreakExtended {
		xp += gamification.XPStreakBonus
	}

	leveledUp, err := s.progression.AwardXP(ctx, user, xp)
	if err != nil {
		return nil, err
	}
	outcome.XPAwarded = xp
	outcome.LeveledUp = leveledUp
	outcome.Level = user.Level

	badges, err := s.progression.CheckBadges(ctx, user)
	if err != nil {
		return nil, err
	}
	outcome.NewBadges = badges

	slog.Info("Report submitted",
		slog.String("type", "ledger"),
		slog.Int64("user_id", user.ID),
		slog.Int("books", len(entries)),
		slog.String("status", string(status)),
		slog.Int64("xp", xp),
		slog.Int("new_badges", len(badges)))

	return outcome, nil
}
