package commands

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/okubot/bookclub/bookclub"
	"github.com/okubot/bookclub/bookclub/utils"
)

const (
	leaderboardLimit  = 50
	membersPerPage    = 10
	leaderboardMedals = "🥇🥈🥉"
)

// LeaderboardHandler pages through the club's XP ranking.
func LeaderboardHandler(b *bookclub.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := b.UserRepository.GetByDiscordIDWithClub(ctx, e.User().ID.String())
		if err != nil {
			return utils.EH.CreateError(e, "Error", "Could not load your account.")
		}
		if user == nil || user.ClubID == nil || user.Club == nil {
			return utils.EH.CreateError(e, "No club", "Join a club first with **/join**.")
		}

		ranking, err := b.UserRepository.GetLeaderboard(ctx, *user.ClubID, leaderboardLimit)
		if err != nil {
			return utils.EH.CreateError(e, "Error", "Could not load the leaderboard.")
		}
		if len(ranking) == 0 {
			return utils.EH.CreateInfo(e, "The club has no members yet.")
		}

		clubName := user.Club.Name
		totalPages := int(math.Ceil(float64(len(ranking)) / float64(membersPerPage)))
		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				start := page * membersPerPage
				end := start + membersPerPage
				if end > len(ranking) {
					end = len(ranking)
				}

				var sb strings.Builder
				for i, member := range ranking[start:end] {
					rank := start + i
					prefix := fmt.Sprintf("%d.", rank+1)
					if rank < 3 {
						prefix = string([]rune(leaderboardMedals)[rank])
					}
					fmt.Fprintf(&sb, "%s **%s** — Level %d, %d XP, 🔥 %d\n",
						prefix, member.Username, member.Level, member.XP, member.Streak)
				}
				embed.
					SetTitle(fmt.Sprintf("🏆 %s leaderboard", clubName)).
					SetDescription(sb.String()).
					SetColor(utils.InfoColor).
					SetFooter(fmt.Sprintf("Page %d/%d", page+1, totalPages), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}
