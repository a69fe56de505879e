package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/okubot/bookclub/bookclub"
	"github.com/okubot/bookclub/bookclub/database/models"
	"github.com/okubot/bookclub/bookclub/gamification"
	"github.com/okubot/bookclub/bookclub/services"
	"github.com/okubot/bookclub/bookclub/utils"
)

// ReportHandler opens a reporting session: pick a book, enter pages,
// repeat or submit. All intermediate messages are ephemeral.
func ReportHandler(b *bookclub.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := b.UserRepository.GetByDiscordIDWithClub(ctx, e.User().ID.String())
		if err != nil {
			return utils.EH.CreateError(e, "Error", "Could not load your account.")
		}
		if user == nil || user.ClubID == nil {
			return utils.EH.CreateError(e, "No club", "Join a club first with **/join**.")
		}

		readings, err := b.UserBookRepository.GetActive(ctx, user.ID)
		if err != nil {
			return utils.EH.CreateError(e, "Error", "Could not load your bookshelf.")
		}
		if len(readings) == 0 {
			return utils.EH.CreateError(e, "Empty shelf", "Nothing to report: add a book with **/mybooks add** or **/readingnow**.")
		}

		if _, ok := b.ReportSessions.Begin(e.User().ID.String()); !ok {
			return utils.EH.CreateError(e, "Session open", "Finish or cancel your current report first.")
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "📖 Report your reading",
				Description: "Which book did you read today?",
				Color:       utils.InfoColor,
			}},
			Components: []discord.ContainerComponent{bookSelectRow(readings)},
			Flags:      discord.MessageFlagEphemeral,
		})
	}
}

func bookSelectRow(readings []*models.UserBook) discord.ContainerComponent {
	options := make([]discord.StringSelectMenuOption, 0, len(readings))
	for _, ub := range readings {
		options = append(options, discord.StringSelectMenuOption{
			Label:       utils.Truncate(ub.Book.Title, 100),
			Value:       strconv.FormatInt(ub.ID, 10),
			Description: utils.FormatPages(ub.CurrentPage, ub.TotalPages),
			Emoji:       &discord.ComponentEmoji{Name: "📕"},
		})
	}
	return discord.NewActionRow(
		discord.NewStringSelectMenu("/report/book", "Select a book", options...).
			WithMinValues(1).
			WithMaxValues(1),
	)
}

func confirmRow() discord.ContainerComponent {
	return discord.NewActionRow(
		discord.NewSecondaryButton("➕ Another book", "/report/add"),
		discord.NewPrimaryButton("✅ Submit", "/report/submit"),
		discord.NewDangerButton("Cancel", "/report/cancel"),
	)
}

// ReportComponentHandler routes every /report/* button and select.
func ReportComponentHandler(b *bookclub.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		userID := e.User().ID.String()
		action := strings.TrimPrefix(e.Data.CustomID(), "/report/")

		switch action {
		case "book":
			data, ok := e.Data.(discord.StringSelectMenuInteractionData)
			if !ok || len(data.Values) != 1 {
				return utils.EH.CreateEphemeralError(e, "Pick exactly one book.")
			}
			ubID, err := strconv.ParseInt(data.Values[0], 10, 64)
			if err != nil {
				return utils.EH.CreateEphemeralError(e, "Invalid selection.")
			}
			if !b.ReportSessions.SelectBook(userID, ubID) {
				return utils.EH.CreateEphemeralError(e, "The report session expired. Run **/report** again.")
			}
			return e.Modal(discord.ModalCreate{
				CustomID: "/report-pages",
				Title:    "Pages read today",
				Components: []discord.ContainerComponent{
					discord.NewActionRow(
						discord.NewShortTextInput("pages", "Pages").
							WithRequired(true).
							WithPlaceholder("e.g. 25"),
					),
				},
			})

		case "add":
			if !b.ReportSessions.AddAnother(userID) {
				return utils.EH.CreateEphemeralError(e, "The report session expired. Run **/report** again.")
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			user, err := b.UserRepository.GetByDiscordID(ctx, userID)
			if err != nil || user == nil {
				return utils.EH.CreateEphemeralError(e, "Could not load your account.")
			}
			readings, err := b.UserBookRepository.GetActive(ctx, user.ID)
			if err != nil {
				return utils.EH.CreateEphemeralError(e, "Could not load your bookshelf.")
			}
			if len(readings) == 0 {
				return utils.EH.CreateEphemeralError(e, "No unfinished book left to report.")
			}
			return e.UpdateMessage(discord.MessageUpdate{
				Embeds: &[]discord.Embed{{
					Title:       "📖 Report your reading",
					Description: "Which book did you read today?",
					Color:       utils.InfoColor,
				}},
				Components: &[]discord.ContainerComponent{bookSelectRow(readings)},
			})

		case "submit":
			entries, ok := b.ReportSessions.Take(userID)
			if !ok {
				return utils.EH.CreateEphemeralError(e, "The report session expired. Run **/report** again.")
			}
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			user, err := b.UserRepository.GetByDiscordIDWithClub(ctx, userID)
			if err != nil || user == nil {
				return utils.EH.CreateEphemeralError(e, "Could not load your account.")
			}
			outcome, err := b.ReportService.Submit(ctx, user, entries)
			if err != nil {
				if errors.Is(err, gamification.ErrNoClubAssigned) {
					return utils.EH.CreateEphemeralError(e, "Join a club first with **/join**.")
				}
				return utils.EH.CreateEphemeralError(e, "Could not save the report. Try again.")
			}
			// The club block is garnish; a failure here never hides the
			// saved report.
			pulse, err := b.Stats.Pulse(ctx, *user.ClubID, b.Clock.Today(), user.ID)
			if err != nil {
				pulse = nil
			}
			return e.UpdateMessage(discord.MessageUpdate{
				Embeds:     &[]discord.Embed{outcomeEmbed(outcome, pulse)},
				Components: &[]discord.ContainerComponent{},
			})

		case "cancel":
			b.ReportSessions.Cancel(userID)
			return e.UpdateMessage(discord.MessageUpdate{
				Embeds: &[]discord.Embed{{
					Description: "Report cancelled. Nothing was saved.",
					Color:       utils.WarningColor,
				}},
				Components: &[]discord.ContainerComponent{},
			})

		default:
			return utils.EH.CreateEphemeralError(e, "Unknown action.")
		}
	}
}

// ReportPagesModalHandler records the entered page count and shows the
// running summary.
func ReportPagesModalHandler(b *bookclub.Bot) handler.ModalHandler {
	return func(e *handler.ModalEvent) error {
		userID := e.User().ID.String()

		pages, err := strconv.Atoi(strings.TrimSpace(e.Data.Text("pages")))
		if err != nil || pages <= 0 {
			b.ReportSessions.Cancel(userID)
			return e.CreateMessage(discord.MessageCreate{
				Content: "❌ Page count must be a positive number. Run **/report** again.",
				Flags:   discord.MessageFlagEphemeral,
			})
		}

		if !b.ReportSessions.RecordPages(userID, pages) {
			return e.CreateMessage(discord.MessageCreate{
				Content: "❌ The report session expired. Run **/report** again.",
				Flags:   discord.MessageFlagEphemeral,
			})
		}

		session := b.ReportSessions.Get(userID)
		var sb strings.Builder
		for _, entry := range session.Entries {
			fmt.Fprintf(&sb, "• %d pages\n", entry.Pages)
		}
		sb.WriteString("\nAdd another book or submit?")

		return e.UpdateMessage(discord.MessageUpdate{
			Embeds: &[]discord.Embed{{
				Title:       "📖 Report so far",
				Description: sb.String(),
				Color:       utils.InfoColor,
			}},
			Components: &[]discord.ContainerComponent{confirmRow()},
		})
	}
}

func outcomeEmbed(outcome *services.ReportOutcome, pulse *services.ClubPulse) discord.Embed {
	var sb strings.Builder
	for _, line := range outcome.Lines {
		switch {
		case line.Finished:
			fmt.Fprintf(&sb, "🏁 **%s** — finished! (+%d pages)\n", line.Title, line.Accepted)
		case line.Capped:
			fmt.Fprintf(&sb, "📗 **%s** — %d of %d claimed pages counted\n", line.Title, line.Accepted, line.Claimed)
		default:
			fmt.Fprintf(&sb, "📗 **%s** — %d pages\n", line.Title, line.Accepted)
		}
	}

	sb.WriteString("\n")
	switch outcome.Status {
	case models.StatusAchieved:
		fmt.Fprintf(&sb, "✅ Daily goal achieved! Streak: **%d**\n", outcome.Streak)
	case models.StatusReadNotEnough:
		sb.WriteString("🟨 Progress logged, the daily goal is still open.\n")
	default:
		sb.WriteString("Progress logged.\n")
	}
	if outcome.GraceUsed {
		sb.WriteString("🛟 Grace day survived, the streak lives on!\n")
	}

	fmt.Fprintf(&sb, "\n+**%d** XP", outcome.XPAwarded)
	if outcome.LeveledUp {
		fmt.Fprintf(&sb, " — leveled up to **%d**! 🎉", outcome.Level)
	}
	for _, badge := range outcome.NewBadges {
		fmt.Fprintf(&sb, "\n%s New badge: **%s**", badge.Icon, badge.Name)
	}

	if pulse != nil && pulse.Members > 0 {
		pct := func(n int) int { return n * 100 / pulse.Members }
		fmt.Fprintf(&sb, "\n\n📊 Club today: ✅ %d%% · 🟨 %d%% · ❌ %d%% · ⏳ %d%%",
			pct(pulse.Achieved), pct(pulse.Partial), pct(pulse.NotRead), pct(pulse.Pending))
		if pulse.Rank > 0 {
			fmt.Fprintf(&sb, "\nYou are **#%d** by pages today.", pulse.Rank)
		}
	}

	color := utils.InfoColor
	if outcome.Status == models.StatusAchieved {
		color = utils.SuccessColor
	}
	return discord.Embed{
		Title:       "📖 Report saved",
		Description: sb.String(),
		Color:       color,
	}
}
