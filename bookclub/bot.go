package bookclub

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"

	"github.com/okubot/bookclub/bookclub/clock"
	"github.com/okubot/bookclub/bookclub/database"
	"github.com/okubot/bookclub/bookclub/database/repositories"
	"github.com/okubot/bookclub/bookclub/gamification"
	"github.com/okubot/bookclub/bookclub/services"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
	}
}

type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string
	Commit    string
	Clock     clock.Clock

	DB                 *database.DB
	ClubRepository     repositories.ClubRepository
	BookRepository     repositories.BookRepository
	UserRepository     repositories.UserRepository
	UserBookRepository repositories.UserBookRepository
	DailyLogRepository repositories.DailyLogRepository
	BadgeRepository    repositories.BadgeRepository

	Ledger      *gamification.Ledger
	Streaks     *gamification.StreakEngine
	Progression *gamification.Progression

	ReportSessions  *services.ReportSessionManager
	ReportService   *services.ReportService
	Recommendations *services.RecommendationService
	Stats           *services.StatsService
	ClubCache       *services.ClubCache
	BookSearch      *services.BookSearch
	Notifier        *services.Notifier
	CalendarImages  *services.CalendarImageService
	SpacesService   *services.SpacesService
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds, gateway.IntentGuildMessages)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("BookClub bot is now ready",
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithListeningActivity("pages turning"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}
}
