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

// ReadingNowHandler shows what the club is currently reading and proposes
// the next book in the chosen category. Accepting it pays the selection
// bonus.
func ReadingNowHandler(b *bookclub.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := b.UserRepository.GetByDiscordID(ctx, e.User().ID.String())
		if err != nil {
			return utils.EH.CreateError(e, "Error", "Could not load your account.")
		}
		if user == nil || user.ClubID == nil {
			return utils.EH.CreateError(e, "No club", "Join a club first with **/join**.")
		}

		embed := discord.NewEmbedBuilder().
			SetColor(utils.InfoColor)

		if most, err := b.UserBookRepository.MostRead(ctx, *user.ClubID, 5); err == nil && len(most) > 0 {
			var sb strings.Builder
			for _, entry := range most {
				fmt.Fprintf(&sb, "📖 **%s** — %d reading\n", entry.Book.Title, entry.Readers)
			}
			embed.AddField("The club is reading", sb.String(), false)
		}

		category := models.BookCategory(e.SlashCommandInteractionData().String("category"))
		book, err := b.Recommendations.Recommend(ctx, user, category)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrAlreadyReading):
				embed.SetTitle("📚 Reading now").
					SetDescription("You already have a recommended book in progress. Finish it first!")
			case errors.Is(err, services.ErrNothingToRecommend):
				embed.SetTitle("📚 Reading now").
					SetDescription("You have read everything on that shelf. 🎉")
			case errors.Is(err, gamification.ErrNoClubAssigned):
				return utils.EH.CreateError(e, "No club", "Join a club first with **/join**.")
			default:
				return utils.EH.CreateError(e, "Error", "Could not pick a recommendation.")
			}
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{embed.Build()},
				Flags:  discord.MessageFlagEphemeral,
			})
		}

		embed.SetTitle("✨ Your next read").
			SetDescription(fmt.Sprintf("**%s**\n%d pages", book.Title, book.TotalPages)).
			SetFooterText(fmt.Sprintf("Accepting pays +%d XP", gamification.XPSelectionBonus))

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{embed.Build()},
			Components: []discord.ContainerComponent{
				discord.NewActionRow(
					discord.NewPrimaryButton("📚 Start reading", fmt.Sprintf("/readingnow/accept/%d", book.ID)),
				),
			},
			Flags: discord.MessageFlagEphemeral,
		})
	}
}

// ReadingNowComponentHandler handles the accept button.
func ReadingNowComponentHandler(b *bookclub.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		action := strings.TrimPrefix(e.Data.CustomID(), "/readingnow/")
		if !strings.HasPrefix(action, "accept/") {
			return utils.EH.CreateEphemeralError(e, "Unknown action.")
		}
		bookID, err := strconv.ParseInt(strings.TrimPrefix(action, "accept/"), 10, 64)
		if err != nil {
			return utils.EH.CreateEphemeralError(e, "Invalid book.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := b.UserRepository.GetByDiscordID(ctx, e.User().ID.String())
		if err != nil || user == nil {
			return utils.EH.CreateEphemeralError(e, "Could not load your account.")
		}
		book, err := b.BookRepository.GetByID(ctx, bookID)
		if err != nil {
			return utils.EH.CreateEphemeralError(e, "That book is gone from the catalog.")
		}

		_, leveledUp, err := b.Recommendations.Accept(ctx, user, book, 0)
		if err != nil {
			return utils.EH.CreateEphemeralError(e, err.Error())
		}

		desc := fmt.Sprintf("**%s** is on your shelf. +%d XP!", book.Title, gamification.XPSelectionBonus)
		if leveledUp {
			desc += fmt.Sprintf("\n🎉 Leveled up to **%d**!", user.Level)
		}
		return e.UpdateMessage(discord.MessageUpdate{
			Embeds: &[]discord.Embed{{
				Title:       "📚 Happy reading!",
				Description: desc,
				Color:       utils.SuccessColor,
			}},
			Components: &[]discord.ContainerComponent{},
		})
	}
}
