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
	"github.com/okubot/bookclub/bookclub/database/models"
	"github.com/okubot/bookclub/bookclub/utils"
)

// AdminHandler dispatches /admin subcommands. Every call is checked
// against the configured admin list; there is no honor system.
func AdminHandler(b *bookclub.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !b.Cfg.IsAdmin(e.User().ID) {
			slog.Warn("Admin command denied",
				slog.String("type", "cmd"),
				slog.String("user_name", e.User().Username))
			return utils.EH.CreateError(e, "Not allowed", "This command is restricted to club administrators.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		data := e.SlashCommandInteractionData()
		switch *data.SubCommandName {
		case "createclub":
			return adminCreateClub(ctx, b, e)
		case "addbook":
			return adminAddBook(ctx, b, e)
		case "removebook":
			return adminRemoveBook(ctx, b, e)
		case "deleteclub":
			return adminDeleteClub(ctx, b, e)
		case "clubstats":
			return adminClubStats(ctx, b, e)
		case "users":
			return adminUsers(ctx, b, e)
		case "broadcast":
			return adminBroadcast(ctx, b, e)
		case "resetuser":
			return adminResetUser(ctx, b, e)
		case "kickuser":
			return adminKickUser(ctx, b, e)
		default:
			return utils.EH.CreateError(e, "Unknown subcommand", *data.SubCommandName)
		}
	}
}

func adminCreateClub(ctx context.Context, b *bookclub.Bot, e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()
	key := data.String("key")

	existing, err := b.ClubRepository.GetByKey(ctx, key)
	if err != nil {
		return utils.EH.CreateError(e, "Error", "Could not check the key.")
	}
	if existing != nil {
		return utils.EH.CreateError(e, "Key taken", fmt.Sprintf("A club already uses the key **%s**.", key))
	}

	club := &models.Club{
		Name:     data.String("name"),
		Key:      key,
		GoalType: models.GoalType(data.String("goal")),
	}
	if v, ok := data.OptInt("min_prl"); ok {
		club.DailyMinPRL = v
	}
	if v, ok := data.OptInt("min_rnk"); ok {
		club.DailyMinRNK = v
	}
	if v, ok := data.OptInt("min_total"); ok {
		club.DailyMinTotal = v
	}

	if err := b.ClubRepository.Create(ctx, club); err != nil {
		return utils.EH.CreateError(e, "Error", "Could not create the club.")
	}
	return utils.EH.CreateSuccess(e, fmt.Sprintf("Club **%s** created. Members join with `/join key:%s`.", club.Name, club.Key))
}

func adminAddBook(ctx context.Context, b *bookclub.Bot, e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()

	club, err := b.ClubCache.GetByKey(ctx, data.String("club_key"))
	if err != nil || club == nil {
		return utils.EH.CreateError(e, "Unknown club", "No club uses that invite key.")
	}

	category := data.String("category")
	if !models.ValidCategory(category) {
		return utils.EH.CreateError(e, "Bad category", category)
	}

	book := &models.Book{
		ClubID:     club.ID,
		Title:      data.String("title"),
		Category:   models.BookCategory(category),
		TotalPages: data.Int("pages"),
	}
	if tier, ok := data.OptInt("tier"); ok {
		book.PriorityTier = tier
	}

	if err := b.BookRepository.Create(ctx, book); err != nil {
		return utils.EH.CreateError(e, "Error", "Could not add the book.")
	}
	return utils.EH.CreateSuccess(e, fmt.Sprintf("**%s** added to %s's %s shelf (tier %d).",
		book.Title, club.Name, book.Category, book.PriorityTier))
}

func adminRemoveBook(ctx context.Context, b *bookclub.Bot, e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()

	club, err := b.ClubCache.GetByKey(ctx, data.String("club_key"))
	if err != nil || club == nil {
		return utils.EH.CreateError(e, "Unknown club", "No club uses that invite key.")
	}

	title := data.String("title")
	matches, err := b.BookSearch.Find(ctx, club.ID, title, 1)
	if err != nil || len(matches) == 0 {
		return utils.EH.CreateError(e, "Not found", fmt.Sprintf("No catalog book matches **%s**.", title))
	}

	if err := b.BookRepository.Delete(ctx, matches[0].ID); err != nil {
		return utils.EH.CreateError(e, "Error", "Could not remove the book.")
	}
	return utils.EH.CreateSuccess(e, fmt.Sprintf("**%s** removed from the catalog, along with every reading of it.", matches[0].Title))
}

func adminDeleteClub(ctx context.Context, b *bookclub.Bot, e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()
	key := data.String("club_key")

	club, err := b.ClubCache.GetByKey(ctx, key)
	if err != nil || club == nil {
		return utils.EH.CreateError(e, "Unknown club", "No club uses that invite key.")
	}

	// Members fall back to clubless; their xp, streaks, badges and logs
	// stay. The catalog and its readings go with the club.
	if err := b.ClubRepository.Delete(ctx, club.ID); err != nil {
		return utils.EH.CreateError(e, "Error", "Could not delete the club.")
	}
	b.ClubCache.Invalidate(key)

	slog.Info("Club deleted by admin",
		slog.String("type", "cmd"),
		slog.String("club", club.Name),
		slog.String("admin", e.User().Username))
	return utils.EH.CreateSuccess(e, fmt.Sprintf("Club **%s** deleted. Its members keep their progress.", club.Name))
}

func adminUsers(ctx context.Context, b *bookclub.Bot, e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()

	club, err := b.ClubCache.GetByKey(ctx, data.String("club_key"))
	if err != nil || club == nil {
		return utils.EH.CreateError(e, "Unknown club", "No club uses that invite key.")
	}

	members, err := b.UserRepository.GetByClub(ctx, club.ID)
	if err != nil {
		return utils.EH.CreateError(e, "Error", "Could not load the member list.")
	}
	if len(members) == 0 {
		return utils.EH.CreateInfo(e, fmt.Sprintf("**%s** has no members yet.", club.Name))
	}

	var sb strings.Builder
	for _, member := range members {
		grace := ""
		if member.GracePeriodActive {
			grace = " 🛟"
		}
		fmt.Fprintf(&sb, "**%s** — lvl %d, %d XP, 🔥 %d%s\n",
			member.Username, member.Level, member.XP, member.Streak, grace)
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("👥 %s (%d members)", club.Name, len(members))).
		SetDescription(utils.Truncate(sb.String(), 4000)).
		SetColor(utils.InfoColor).
		Build()
	return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed}})
}

func adminBroadcast(ctx context.Context, b *bookclub.Bot, e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()

	club, err := b.ClubCache.GetByKey(ctx, data.String("club_key"))
	if err != nil || club == nil {
		return utils.EH.CreateError(e, "Unknown club", "No club uses that invite key.")
	}

	members, err := b.UserRepository.GetByClub(ctx, club.ID)
	if err != nil {
		return utils.EH.CreateError(e, "Error", "Could not load the member list.")
	}

	ids := make([]string, 0, len(members))
	for _, member := range members {
		ids = append(ids, member.DiscordID)
	}
	embed := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("📣 %s", club.Name)).
		SetDescription(data.String("message")).
		SetColor(utils.InfoColor).
		Build()
	b.Notifier.Broadcast(ctx, ids, embed)

	slog.Info("Broadcast sent by admin",
		slog.String("type", "cmd"),
		slog.String("club", club.Name),
		slog.Int("recipients", len(ids)),
		slog.String("admin", e.User().Username))
	return utils.EH.CreateSuccess(e, fmt.Sprintf("Announcement sent to **%d** members of %s.", len(ids), club.Name))
}

func adminClubStats(ctx context.Context, b *bookclub.Bot, e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()

	club, err := b.ClubCache.GetByKey(ctx, data.String("club_key"))
	if err != nil || club == nil {
		return utils.EH.CreateError(e, "Unknown club", "No club uses that invite key.")
	}

	days, err := b.Stats.ClubDay(ctx, club.ID, b.Clock.Today())
	if err != nil {
		return utils.EH.CreateError(e, "Error", "Could not load club stats.")
	}

	var achieved, reading int
	var sb strings.Builder
	for _, day := range days {
		if day.Log == nil {
			continue
		}
		if day.Log.TotalPages() > 0 {
			reading++
		}
		if day.Log.Status == models.StatusAchieved {
			achieved++
		}
	}
	fmt.Fprintf(&sb, "Members: **%d**\nReported today: **%d**\nGoal achieved today: **%d**", len(days), reading, achieved)

	goal := fmt.Sprintf("%s, PRL %d / RNK %d", club.GoalType, club.DailyMinPRL, club.DailyMinRNK)
	if club.GoalType == models.GoalTypeOverall {
		goal = fmt.Sprintf("%s, %d pages", club.GoalType, club.DailyMinTotal)
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("📊 %s", club.Name)).
		SetDescription(sb.String()).
		AddField("Daily goal", goal, false).
		SetColor(utils.InfoColor).
		Build()
	return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed}})
}

func adminResetUser(ctx context.Context, b *bookclub.Bot, e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()
	memberID := data.Snowflake("member")

	user, err := b.UserRepository.GetByDiscordID(ctx, memberID.String())
	if err != nil || user == nil {
		return utils.EH.CreateError(e, "Not found", "That member is not registered.")
	}

	// Logs, badges and best streak survive a reset.
	user.XP = 0
	user.Level = 1
	user.Streak = 0
	user.GracePeriodActive = false
	if err := b.UserRepository.Update(ctx, user); err != nil {
		return utils.EH.CreateError(e, "Error", "Could not reset the member.")
	}

	slog.Info("User progress reset by admin",
		slog.String("type", "cmd"),
		slog.String("user_name", user.Username),
		slog.String("admin", e.User().Username))
	return utils.EH.CreateSuccess(e, fmt.Sprintf("**%s**'s XP, level and streak were reset.", user.Username))
}

func adminKickUser(ctx context.Context, b *bookclub.Bot, e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()
	memberID := data.Snowflake("member")

	user, err := b.UserRepository.GetByDiscordID(ctx, memberID.String())
	if err != nil || user == nil {
		return utils.EH.CreateError(e, "Not found", "That member is not registered.")
	}

	// Cascades take the readings, logs and badge grants with the row.
	if err := b.UserRepository.Delete(ctx, user.ID); err != nil {
		return utils.EH.CreateError(e, "Error", "Could not remove the member.")
	}

	slog.Info("User removed by admin",
		slog.String("type", "cmd"),
		slog.String("user_name", user.Username),
		slog.String("admin", e.User().Username))
	return utils.EH.CreateSuccess(e, fmt.Sprintf("**%s** and all their data were removed.", user.Username))
}

// AdminRemoveBookAutocompleteHandler suggests catalog titles for removebook.
func AdminRemoveBookAutocompleteHandler(b *bookclub.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		club, err := b.ClubCache.GetByKey(ctx, e.Data.String("club_key"))
		if err != nil || club == nil {
			return e.AutocompleteResult(nil)
		}

		matches, err := b.BookSearch.Find(ctx, club.ID, e.Data.String("title"), 10)
		if err != nil {
			return e.AutocompleteResult(nil)
		}

		choices := make([]discord.AutocompleteChoice, 0, len(matches))
		for _, book := range matches {
			choices = append(choices, discord.AutocompleteChoiceString{
				Name:  utils.Truncate(book.Title, 100),
				Value: book.Title,
			})
		}
		return e.AutocompleteResult(choices)
	}
}
