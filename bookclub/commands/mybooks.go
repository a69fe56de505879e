package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/okubot/bookclub/bookclub"
	"github.com/okubot/bookclub/bookclub/utils"
)

// MyBooksHandler serves both subcommands: list the shelf, or add a catalog
// book to it.
func MyBooksHandler(b *bookclub.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		switch *data.SubCommandName {
		case "add":
			return myBooksAdd(b, e)
		default:
			return myBooksList(b, e)
		}
	}
}

func myBooksList(b *bookclub.Bot, e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := b.UserRepository.GetByDiscordID(ctx, e.User().ID.String())
	if err != nil {
		return utils.EH.CreateError(e, "Error", "Could not load your account.")
	}
	if user == nil {
		return utils.EH.CreateError(e, "No account", "Join a club first with **/join**.")
	}

	readings, err := b.UserBookRepository.GetAllByUser(ctx, user.ID)
	if err != nil {
		return utils.EH.CreateError(e, "Error", "Could not load your bookshelf.")
	}
	if len(readings) == 0 {
		return utils.EH.CreateInfo(e, "Your shelf is empty. Add a book with **/mybooks add** or **/readingnow**.")
	}

	var reading, finished strings.Builder
	for _, ub := range readings {
		if ub.Book == nil {
			continue
		}
		if ub.Finished {
			date := ""
			if ub.FinishedDate != nil {
				date = " — " + ub.FinishedDate.Format("Jan 2")
			}
			fmt.Fprintf(&finished, "🏁 **%s**%s\n", ub.Book.Title, date)
			continue
		}
		marker := ""
		if ub.IsRecommended {
			marker = " ✨"
		}
		fraction := 0.0
		if ub.TotalPages > 0 {
			fraction = float64(ub.CurrentPage) / float64(ub.TotalPages)
		}
		fmt.Fprintf(&reading, "📕 **%s**%s\n`%s` %s\n",
			ub.Book.Title, marker, utils.ProgressBar(fraction, 12), utils.FormatPages(ub.CurrentPage, ub.TotalPages))
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("📚 Your bookshelf").
		SetColor(utils.InfoColor)
	if reading.Len() > 0 {
		embed.AddField("Reading", reading.String(), false)
	}
	if finished.Len() > 0 {
		embed.AddField("Finished", finished.String(), false)
	}

	return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed.Build()}})
}

func myBooksAdd(b *bookclub.Bot, e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := b.UserRepository.GetByDiscordID(ctx, e.User().ID.String())
	if err != nil {
		return utils.EH.CreateError(e, "Error", "Could not load your account.")
	}
	if user == nil || user.ClubID == nil {
		return utils.EH.CreateError(e, "No club", "Join a club first with **/join**.")
	}

	data := e.SlashCommandInteractionData()
	title := data.String("title")
	pages, _ := data.OptInt("pages")

	matches, err := b.BookSearch.Find(ctx, *user.ClubID, title, 1)
	if err != nil {
		return utils.EH.CreateError(e, "Error", "Could not search the catalog.")
	}
	if len(matches) == 0 {
		return utils.EH.CreateError(e, "Not found", fmt.Sprintf("No catalog book matches **%s**.", title))
	}
	book := matches[0]

	ub, err := b.Recommendations.AddManual(ctx, user, book, pages)
	if err != nil {
		return utils.EH.CreateError(e, "Error", err.Error())
	}
	return utils.EH.CreateSuccess(e, fmt.Sprintf("**%s** (%d pages) is on your shelf. Report progress with **/report**.", book.Title, ub.TotalPages))
}

// MyBooksAutocompleteHandler suggests catalog titles for the add
// subcommand.
func MyBooksAutocompleteHandler(b *bookclub.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		user, err := b.UserRepository.GetByDiscordID(ctx, e.User().ID.String())
		if err != nil || user == nil || user.ClubID == nil {
			return e.AutocompleteResult(nil)
		}

		query := e.Data.String("title")
		matches, err := b.BookSearch.Find(ctx, *user.ClubID, query, 10)
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
