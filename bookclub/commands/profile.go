package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/okubot/bookclub/bookclub"
	"github.com/okubot/bookclub/bookclub/gamification"
	"github.com/okubot/bookclub/bookclub/utils"
)

// ProfileHandler renders level, XP progress, streak and lifetime stats,
// with this month's reading calendar attached as an image when the
// rendering pipeline is available.
func ProfileHandler(b *bookclub.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()

		user, err := b.UserRepository.GetByDiscordIDWithClub(ctx, e.User().ID.String())
		if err != nil {
			return utils.EH.CreateError(e, "Error", "Could not load your account.")
		}
		if user == nil {
			return utils.EH.CreateError(e, "No account", "Join a club first with **/join**.")
		}

		if err := e.DeferCreateMessage(false); err != nil {
			return fmt.Errorf("failed to defer message: %w", err)
		}

		stats, err := b.Stats.Profile(ctx, user.ID)
		if err != nil {
			_, err = e.UpdateInteractionResponse(discord.MessageUpdate{
				Content: ptr("❌ Could not load your stats."),
			})
			return err
		}

		clubName := "No club"
		if user.Club != nil {
			clubName = user.Club.Name
		}

		nextLevelXP := gamification.XPThreshold(user.Level)
		progress := gamification.LevelProgress(user.XP, user.Level)

		grace := ""
		if user.GracePeriodActive {
			grace = " 🛟 grace day!"
		}

		embed := discord.NewEmbedBuilder().
			SetTitle(fmt.Sprintf("⭐ %s", user.Username)).
			SetColor(utils.InfoColor).
			AddField("Club", clubName, true).
			AddField("Level", fmt.Sprintf("%d", user.Level), true).
			AddField("XP", fmt.Sprintf("%d / %d\n`%s`", user.XP, nextLevelXP, utils.ProgressBar(progress, 12)), true).
			AddField("Streak", fmt.Sprintf("🔥 %d (best %d)%s", user.Streak, user.BestStreak, grace), true).
			AddField("Pages read", fmt.Sprintf("%d", stats.TotalPages), true).
			AddField("Books finished", fmt.Sprintf("%d", stats.BooksFinished), true).
			AddField("Goals achieved", fmt.Sprintf("%d days", stats.DaysAchieved), true).
			AddField("Badges", fmt.Sprintf("%d", stats.BadgeCount), true)

		if reading, err := b.Stats.Reading(ctx, user, b.Clock.Today()); err == nil {
			var sb strings.Builder
			fmt.Fprintf(&sb, "Week **%.1f** · month **%.1f** · all-time **%.1f** pages/day",
				reading.WeeklyAvg, reading.MonthlyAvg, reading.AllTimeAvg)
			if reading.HasBestWeekday {
				fmt.Fprintf(&sb, "\nBest day: **%s**", reading.BestWeekday)
			}
			if reading.DaysToFinish > 0 {
				fmt.Fprintf(&sb, "\nCurrent shelf done in about **%d** days at this pace", reading.DaysToFinish)
			}
			embed.AddField("Reading pace", sb.String(), false)
		} else {
			slog.Warn("Failed to load reading stats", slog.Any("error", err))
		}

		// The calendar is best-effort: a missing Chrome or Spaces outage
		// degrades to a text-only profile.
		if url := monthCalendarURL(ctx, b, user.DiscordID, user.Username, user.ID); url != "" {
			embed.SetImage(url)
		}

		_, err = e.UpdateInteractionResponse(discord.MessageUpdate{
			Embeds: &[]discord.Embed{embed.Build()},
		})
		return err
	}
}

func monthCalendarURL(ctx context.Context, b *bookclub.Bot, discordID, username string, userID int64) string {
	if b.CalendarImages == nil || b.SpacesService == nil {
		return ""
	}

	monthStart := b.Clock.Today().AddDate(0, 0, 1-b.Clock.Today().Day())
	statuses, err := b.Stats.MonthStatuses(ctx, userID, monthStart)
	if err != nil {
		slog.Warn("Failed to load month statuses", slog.Any("error", err))
		return ""
	}

	title := fmt.Sprintf("%s — %s", username, monthStart.Format("January 2006"))
	image, err := b.CalendarImages.Generate(ctx, title, monthStart, statuses)
	if err != nil {
		slog.Warn("Failed to render calendar image", slog.Any("error", err))
		return ""
	}

	url, err := b.SpacesService.UploadCalendarImage(ctx, discordID, monthStart.Format("2006-01"), image)
	if err != nil {
		slog.Warn("Failed to upload calendar image", slog.Any("error", err))
		return ""
	}
	return url
}

func ptr[T any](v T) *T {
	return &v
}
