package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/okubot/bookclub/bookclub/clock"
	"github.com/okubot/bookclub/bookclub/database/models"
	"github.com/okubot/bookclub/bookclub/database/repositories"
	"github.com/okubot/bookclub/bookclub/gamification"
	"github.com/okubot/bookclub/bookclub/services"
)

const (
	colorGreen  = 0x2D7D46
	colorYellow = 0xB8860B
	colorRed    = 0xA12D2F
	colorBlue   = 0x5865F2
)

// Jobs owns the scheduled sweeps. Every sweep is continue-on-error per
// user: a single bad row or closed DM never aborts the rest of the batch.
type Jobs struct {
	users           repositories.UserRepository
	logs            repositories.DailyLogRepository
	clubs           repositories.ClubRepository
	ledger          *gamification.Ledger
	streaks         *gamification.StreakEngine
	stats           *services.StatsService
	notifier        *services.Notifier
	clock           clock.Clock
	reportChannelID snowflake.ID
}

func NewJobs(
	users repositories.UserRepository,
	logs repositories.DailyLogRepository,
	clubs repositories.ClubRepository,
	ledger *gamification.Ledger,
	streaks *gamification.StreakEngine,
	stats *services.StatsService,
	notifier *services.Notifier,
	clk clock.Clock,
	reportChannelID snowflake.ID,
) *Jobs {
	return &Jobs{
		users:           users,
		logs:            logs,
		clubs:           clubs,
		ledger:          ledger,
		streaks:         streaks,
		stats:           stats,
		notifier:        notifier,
		clock:           clk,
		reportChannelID: reportChannelID,
	}
}

// Register wires the five sweeps onto the scheduler with the configured
// hours. Close and report run just after midnight against the day that
// ended.
func (j *Jobs) Register(s *Scheduler, checkInHour, firstReminder, secondReminder int, weeklyDay time.Weekday, weeklyHour int) {
	s.Add(Job{Name: "check-in", Next: DailyAt(j.clock, checkInHour, 0), Run: j.CheckInSweep})
	s.Add(Job{Name: "first-reminder", Next: DailyAt(j.clock, firstReminder, 0), Run: j.ReminderSweep})
	s.Add(Job{Name: "second-reminder", Next: DailyAt(j.clock, secondReminder, 0), Run: j.ReminderSweep})
	s.Add(Job{Name: "day-close", Next: DailyAt(j.clock, 0, 0), Run: j.DayCloseSweep})
	s.Add(Job{Name: "daily-report", Next: DailyAt(j.clock, 0, 1), Run: j.DailyReportSweep})
	s.Add(Job{Name: "weekly-summary", Next: WeeklyAt(j.clock, weeklyDay, weeklyHour, 0), Run: j.WeeklySweep})
}

// CheckInSweep opens today's log for every club member and asks them to
// report. Members who already reported keep their log untouched.
func (j *Jobs) CheckInSweep(ctx context.Context, fired time.Time) error {
	today := clock.Midnight(fired)
	users, err := j.users.GetAllWithClub(ctx)
	if err != nil {
		return fmt.Errorf("failed to list club members: %w", err)
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("📚 Evening check-in").
		SetDescription("How did today's reading go? Use **/report** to log your pages.").
		SetColor(colorBlue).
		Build()

	var notified int
	for _, user := range users {
		log, err := j.logs.FindByUserAndDate(ctx, user.ID, today)
		if err != nil {
			slog.Error("Check-in sweep failed for user",
				slog.String("type", "sched"),
				slog.Int64("user_id", user.ID),
				slog.Any("error", err))
			continue
		}
		if log == nil {
			log = &models.DailyLog{UserID: user.ID, Date: today, Status: models.StatusPending}
			if err := j.logs.Create(ctx, log); err != nil {
				slog.Error("Failed to open daily log",
					slog.String("type", "sched"),
					slog.Int64("user_id", user.ID),
					slog.Any("error", err))
				continue
			}
		}
		if j.notifier.SendDM(ctx, user.DiscordID, embed) {
			notified++
		}
	}

	slog.Info("Check-in sweep done",
		slog.String("type", "sched"),
		slog.Int("members", len(users)),
		slog.Int("notified", notified))
	return nil
}

// ReminderSweep nudges everyone who has not achieved today's goal yet.
func (j *Jobs) ReminderSweep(ctx context.Context, fired time.Time) error {
	today := clock.Midnight(fired)
	users, err := j.users.GetAllWithClub(ctx)
	if err != nil {
		return fmt.Errorf("failed to list club members: %w", err)
	}

	for _, user := range users {
		log, err := j.logs.FindByUserAndDate(ctx, user.ID, today)
		if err != nil {
			slog.Error("Reminder sweep failed for user",
				slog.String("type", "sched"),
				slog.Int64("user_id", user.ID),
				slog.Any("error", err))
			continue
		}
		if log != nil && log.Status == models.StatusAchieved {
			continue
		}

		desc := "The day is almost over and today's goal is still open. **/report** your pages before midnight!"
		if user.GracePeriodActive {
			desc = "Grace day! Hit **double** today's goal before midnight to keep your streak alive."
		}
		embed := discord.NewEmbedBuilder().
			SetTitle("⏰ Reading reminder").
			SetDescription(desc).
			SetColor(colorYellow).
			Build()
		j.notifier.SendDM(ctx, user.DiscordID, embed)
	}
	return nil
}

// DayCloseSweep settles the day that just ended: grace activation and
// expiry, streak loss, pending logs rewritten to missed.
func (j *Jobs) DayCloseSweep(ctx context.Context, fired time.Time) error {
	closed := clock.Midnight(fired).AddDate(0, 0, -1)
	users, err := j.users.GetAllWithClub(ctx)
	if err != nil {
		return fmt.Errorf("failed to list club members: %w", err)
	}

	var lost, graced int
	for _, user := range users {
		log, err := j.logs.FindByUserAndDate(ctx, user.ID, closed)
		if err != nil {
			slog.Error("Day-close sweep failed for user",
				slog.String("type", "sched"),
				slog.Int64("user_id", user.ID),
				slog.Any("error", err))
			continue
		}

		outcome, err := j.streaks.OnDayClose(ctx, user, log)
		if err != nil {
			slog.Error("Day-close transition failed",
				slog.String("type", "sched"),
				slog.Int64("user_id", user.ID),
				slog.Any("error", err))
			continue
		}

		switch outcome {
		case gamification.CloseGraceActivated:
			graced++
			embed := discord.NewEmbedBuilder().
				SetTitle("🛟 Streak at risk").
				SetDescription(fmt.Sprintf("You missed yesterday's goal. Read **double** today to keep your %d-day streak.", user.Streak)).
				SetColor(colorYellow).
				Build()
			j.notifier.SendDM(ctx, user.DiscordID, embed)
		case gamification.CloseStreakLost:
			lost++
			embed := discord.NewEmbedBuilder().
				SetTitle("💔 Streak lost").
				SetDescription("The grace day passed unanswered and the streak is back to zero. Today is a fresh start.").
				SetColor(colorRed).
				Build()
			j.notifier.SendDM(ctx, user.DiscordID, embed)
		}
	}

	slog.Info("Day-close sweep done",
		slog.String("type", "sched"),
		slog.String("date", closed.Format("2006-01-02")),
		slog.Int("members", len(users)),
		slog.Int("grace_activated", graced),
		slog.Int("streaks_lost", lost))
	return nil
}

// DailyReportSweep posts each club's ranked summary of the closed day.
func (j *Jobs) DailyReportSweep(ctx context.Context, fired time.Time) error {
	if j.reportChannelID == 0 {
		return nil
	}
	closed := clock.Midnight(fired).AddDate(0, 0, -1)

	clubs, err := j.clubs.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clubs: %w", err)
	}

	for _, club := range clubs {
		days, err := j.stats.ClubDay(ctx, club.ID, closed)
		if err != nil {
			slog.Error("Daily report failed for club",
				slog.String("type", "sched"),
				slog.Int64("club_id", club.ID),
				slog.Any("error", err))
			continue
		}
		if len(days) == 0 {
			continue
		}

		var sb strings.Builder
		for rank, day := range days {
			fmt.Fprintf(&sb, "%d. **%s** — %d pages %s\n",
				rank+1, day.User.Username, pagesOf(day.Log), statusEmoji(day.Log))
		}
		embed := discord.NewEmbedBuilder().
			SetTitle(fmt.Sprintf("📖 %s — %s", club.Name, closed.Format("Jan 2"))).
			SetDescription(sb.String()).
			SetColor(colorGreen).
			Build()
		if err := j.notifier.SendChannel(ctx, j.reportChannelID, embed); err != nil {
			slog.Error("Failed to post daily report",
				slog.String("type", "sched"),
				slog.Int64("club_id", club.ID),
				slog.Any("error", err))
		}
	}
	return nil
}

// WeeklySweep DMs every member their week in numbers.
func (j *Jobs) WeeklySweep(ctx context.Context, fired time.Time) error {
	weekStart := clock.Midnight(fired).AddDate(0, 0, -6)
	users, err := j.users.GetAllWithClub(ctx)
	if err != nil {
		return fmt.Errorf("failed to list club members: %w", err)
	}

	for _, user := range users {
		summary, err := j.stats.Weekly(ctx, user.ID, weekStart)
		if err != nil {
			slog.Error("Weekly sweep failed for user",
				slog.String("type", "sched"),
				slog.Int64("user_id", user.ID),
				slog.Any("error", err))
			continue
		}

		desc := fmt.Sprintf("Pages read: **%d**\nGoals achieved: **%d/7**\nCurrent streak: **%d**",
			summary.Pages, summary.DaysAchieved, user.Streak)
		if len(summary.BooksFinished) > 0 {
			desc += "\nFinished: " + strings.Join(summary.BooksFinished, ", ")
		}
		embed := discord.NewEmbedBuilder().
			SetTitle("🗓️ Your reading week").
			SetDescription(desc).
			SetColor(colorBlue).
			Build()
		j.notifier.SendDM(ctx, user.DiscordID, embed)
	}
	return nil
}

func pagesOf(log *models.DailyLog) int {
	if log == nil {
		return 0
	}
	return log.TotalPages()
}

func statusEmoji(log *models.DailyLog) string {
	if log == nil {
		return "⬜"
	}
	switch log.Status {
	case models.StatusAchieved:
		return "✅"
	case models.StatusReadNotEnough:
		return "🟨"
	case models.StatusMissed, models.StatusNotRead:
		return "❌"
	default:
		return "⬜"
	}
}
