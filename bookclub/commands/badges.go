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
	"github.com/okubot/bookclub/bookclub/gamification"
	"github.com/okubot/bookclub/bookclub/utils"
)

const badgesPerPage = 6

// BadgesHandler pages through the caller's badges: earned ones first, then
// the locked remainder with progress bars.
func BadgesHandler(b *bookclub.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := b.UserRepository.GetByDiscordID(ctx, e.User().ID.String())
		if err != nil {
			return utils.EH.CreateError(e, "Error", "Could not load your account.")
		}
		if user == nil {
			return utils.EH.CreateError(e, "No account", "Join a club first with **/join**.")
		}

		grants, err := b.BadgeRepository.GetUserBadges(ctx, user.ID)
		if err != nil {
			return utils.EH.CreateError(e, "Error", "Could not load your badges.")
		}
		catalog, err := b.BadgeRepository.GetAll(ctx)
		if err != nil {
			return utils.EH.CreateError(e, "Error", "Could not load the badge catalog.")
		}

		earned := make(map[int64]bool, len(grants))
		lines := make([]string, 0, len(catalog))
		for _, grant := range grants {
			if grant.Badge == nil {
				continue
			}
			earned[grant.BadgeID] = true
			lines = append(lines, fmt.Sprintf("%s **%s**\n%s — earned %s\n",
				grant.Badge.Icon, grant.Badge.Name,
				grant.Badge.Description, grant.AwardedAt.Format("Jan 2, 2006")))
		}

		totalPagesRead, err := b.DailyLogRepository.SumPages(ctx, user.ID)
		if err != nil {
			return utils.EH.CreateError(e, "Error", "Could not load your stats.")
		}
		finished, err := b.UserBookRepository.CountFinished(ctx, user.ID)
		if err != nil {
			return utils.EH.CreateError(e, "Error", "Could not load your stats.")
		}
		categories, err := b.UserBookRepository.FinishedCategories(ctx, user.ID)
		if err != nil {
			return utils.EH.CreateError(e, "Error", "Could not load your stats.")
		}

		progress := gamification.GoalProgress(user, totalPagesRead, finished, len(categories))
		for _, badge := range catalog {
			if earned[badge.ID] {
				continue
			}
			lines = append(lines, fmt.Sprintf("🔒 **%s**\n%s\n`%s`\n",
				badge.Name, badge.Description,
				utils.ProgressBar(progress[badge.Name], 12)))
		}

		if len(lines) == 0 {
			return utils.EH.CreateInfo(e, "No badges yet. Keep reading!")
		}

		totalPages := int(math.Ceil(float64(len(lines)) / float64(badgesPerPage)))
		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				start := page * badgesPerPage
				end := start + badgesPerPage
				if end > len(lines) {
					end = len(lines)
				}
				embed.
					SetTitle("🏅 Your badges").
					SetDescription(strings.Join(lines[start:end], "\n")).
					SetColor(utils.InfoColor).
					SetFooter(fmt.Sprintf("Page %d/%d • Earned: %d/%d", page+1, totalPages, len(grants), len(catalog)), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}
