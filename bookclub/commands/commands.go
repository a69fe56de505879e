package commands

import (
	"github.com/disgoorg/disgo/discord"
)

// Commands is the full slash command set synced to Discord.
var Commands = []discord.ApplicationCommandCreate{
	Join,
	Report,
	MyBooks,
	Profile,
	Badges,
	Leaderboard,
	ReadingNow,
	Help,
	Version,
	Admin,
}

var Join = discord.SlashCommandCreate{
	Name:        "join",
	Description: "📚 Join a book club with its invite key",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "key",
			Description: "The club's invite key",
			Required:    true,
		},
	},
}

var Report = discord.SlashCommandCreate{
	Name:        "report",
	Description: "📖 Report today's reading, book by book",
}

var MyBooks = discord.SlashCommandCreate{
	Name:        "mybooks",
	Description: "📚 Your bookshelf",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "Show your current and finished readings",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "add",
			Description: "Add a club book to your shelf",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:         "title",
					Description:  "Book title from the club catalog",
					Required:     true,
					Autocomplete: true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "pages",
					Description: "Page count of your edition (defaults to the catalog's)",
					Required:    false,
				},
			},
		},
	},
}

var Profile = discord.SlashCommandCreate{
	Name:        "profile",
	Description: "⭐ Your level, streak and reading calendar",
}

var Badges = discord.SlashCommandCreate{
	Name:        "badges",
	Description: "🏅 The badges you have earned",
}

var Leaderboard = discord.SlashCommandCreate{
	Name:        "leaderboard",
	Description: "🏆 Your club's XP ranking",
}

var ReadingNow = discord.SlashCommandCreate{
	Name:        "readingnow",
	Description: "✨ Get the club's next book recommendation",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "category",
			Description: "Which shelf to pick from",
			Required:    true,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "Personal reading list", Value: "PRL"},
				{Name: "Ranked", Value: "RNK"},
			},
		},
	},
}

var Help = discord.SlashCommandCreate{
	Name:        "help",
	Description: "❓ How the book club bot works",
}

var Version = discord.SlashCommandCreate{
	Name:        "version",
	Description: "🤖 Bot version",
}

var Admin = discord.SlashCommandCreate{
	Name:        "admin",
	Description: "🔧 Club administration",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "createclub",
			Description: "Create a club",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{Name: "name", Description: "Display name", Required: true},
				discord.ApplicationCommandOptionString{Name: "key", Description: "Invite key", Required: true},
				discord.ApplicationCommandOptionString{
					Name: "goal", Description: "Goal type", Required: true,
					Choices: []discord.ApplicationCommandOptionChoiceString{
						{Name: "Separate per category", Value: "SEPARATE"},
						{Name: "Overall total", Value: "OVERALL"},
					},
				},
				discord.ApplicationCommandOptionInt{Name: "min_prl", Description: "Daily minimum, personal list", Required: false},
				discord.ApplicationCommandOptionInt{Name: "min_rnk", Description: "Daily minimum, ranked", Required: false},
				discord.ApplicationCommandOptionInt{Name: "min_total", Description: "Daily minimum, overall", Required: false},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "addbook",
			Description: "Add a book to the club catalog",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{Name: "club_key", Description: "Club invite key", Required: true},
				discord.ApplicationCommandOptionString{Name: "title", Description: "Book title", Required: true},
				discord.ApplicationCommandOptionString{
					Name: "category", Description: "Catalog shelf", Required: true,
					Choices: []discord.ApplicationCommandOptionChoiceString{
						{Name: "Personal reading list", Value: "PRL"},
						{Name: "Ranked", Value: "RNK"},
					},
				},
				discord.ApplicationCommandOptionInt{Name: "pages", Description: "Page count", Required: true},
				discord.ApplicationCommandOptionInt{
					Name: "tier", Description: "Recommendation priority, 1 first", Required: false,
					MinValue: intPtr(1), MaxValue: intPtr(8),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "removebook",
			Description: "Remove a book from the catalog",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{Name: "club_key", Description: "Club invite key", Required: true},
				discord.ApplicationCommandOptionString{Name: "title", Description: "Book title", Required: true, Autocomplete: true},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "deleteclub",
			Description: "Delete a club (members keep their data, catalog goes)",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{Name: "club_key", Description: "Club invite key", Required: true},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "clubstats",
			Description: "Today's numbers for a club",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{Name: "club_key", Description: "Club invite key", Required: true},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "users",
			Description: "List a club's members with their stats",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{Name: "club_key", Description: "Club invite key", Required: true},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "broadcast",
			Description: "DM an announcement to every member of a club",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{Name: "club_key", Description: "Club invite key", Required: true},
				discord.ApplicationCommandOptionString{Name: "message", Description: "Announcement text", Required: true},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "resetuser",
			Description: "Reset a member's XP, level and streak (logs and badges stay)",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{Name: "member", Description: "Member to reset", Required: true},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "kickuser",
			Description: "Remove a member and all their data",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{Name: "member", Description: "Member to remove", Required: true},
			},
		},
	},
}

func intPtr(v int) *int {
	return &v
}
