package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/handler"

	"github.com/okubot/bookclub/bookclub"
	"github.com/okubot/bookclub/bookclub/database/models"
	"github.com/okubot/bookclub/bookclub/utils"
)

// JoinHandler registers the caller into the club behind the key, or
// switches their club. Switching never touches XP, streaks, badges or
// reading history.
func JoinHandler(b *bookclub.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		key := e.SlashCommandInteractionData().String("key")
		club, err := b.ClubCache.GetByKey(ctx, key)
		if err != nil {
			return utils.EH.CreateError(e, "Error", "Could not look up the club. Try again later.")
		}
		if club == nil {
			return utils.EH.CreateError(e, "Unknown key", "No club uses that invite key.")
		}

		discordID := e.User().ID.String()
		user, err := b.UserRepository.GetByDiscordID(ctx, discordID)
		if err != nil {
			return utils.EH.CreateError(e, "Error", "Could not load your account.")
		}

		if user == nil {
			user = &models.User{
				DiscordID: discordID,
				Username:  e.User().Username,
				ClubID:    &club.ID,
			}
			if err := b.UserRepository.Create(ctx, user); err != nil {
				return utils.EH.CreateError(e, "Error", "Could not create your account.")
			}
			slog.Info("User joined club",
				slog.String("type", "cmd"),
				slog.String("user_name", user.Username),
				slog.String("club", club.Name))
			return utils.EH.CreateSuccess(e, fmt.Sprintf("Welcome to **%s**! Use **/readingnow** to pick your first book.", club.Name))
		}

		if user.ClubID != nil && *user.ClubID == club.ID {
			return utils.EH.CreateInfo(e, fmt.Sprintf("You are already a member of **%s**.", club.Name))
		}

		// Club switch: only the membership pointer moves.
		user.ClubID = &club.ID
		user.Username = e.User().Username
		if err := b.UserRepository.Update(ctx, user); err != nil {
			return utils.EH.CreateError(e, "Error", "Could not switch your club.")
		}
		return utils.EH.CreateSuccess(e, fmt.Sprintf("Switched to **%s**. Your streak, XP and badges came with you.", club.Name))
	}
}
