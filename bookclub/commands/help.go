package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/okubot/bookclub/bookclub"
	"github.com/okubot/bookclub/bookclub/utils"
)

func HelpHandler(b *bookclub.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		embed := discord.NewEmbedBuilder().
			SetTitle("❓ Book club, in short").
			SetDescription("Read every day, report your pages, keep the streak alive.").
			AddField("Getting started",
				"**/join** a club with its invite key, then **/readingnow** or **/mybooks add** to pick a book.", false).
			AddField("Every day",
				"**/report** your pages before midnight. Meet the club's daily goal to extend your 🔥 streak. "+
					"Miss a day and you get one grace day: hit **double** the goal to keep the streak.", false).
			AddField("Progress",
				"**/profile** for level and calendar, **/badges** for achievements, **/leaderboard** for the club ranking.", false).
			SetColor(utils.InfoColor).
			Build()

		return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed}})
	}
}
