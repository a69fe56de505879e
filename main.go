package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"

	"github.com/okubot/bookclub/bookclub"
	"github.com/okubot/bookclub/bookclub/clock"
	"github.com/okubot/bookclub/bookclub/commands"
	"github.com/okubot/bookclub/bookclub/database"
	"github.com/okubot/bookclub/bookclub/database/repositories"
	"github.com/okubot/bookclub/bookclub/gamification"
	"github.com/okubot/bookclub/bookclub/handlers"
	"github.com/okubot/bookclub/bookclub/logger"
	"github.com/okubot/bookclub/bookclub/migration"
	"github.com/okubot/bookclub/bookclub/scheduler"
	"github.com/okubot/bookclub/bookclub/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	shouldImportLegacy := flag.Bool("import-legacy", false, "Import data from the legacy MongoDB deployment, then continue startup")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := bookclub.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))
	slog.Info("Starting BookClub Discord Bot",
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dbStartTime := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema", slog.String("error", err.Error()))
		os.Exit(-1)
	}
	slog.Info("Database ready",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	clk, err := clock.New(cfg.Schedule.Timezone)
	if err != nil {
		slog.Error("Bad timezone in schedule config",
			slog.String("timezone", cfg.Schedule.Timezone),
			slog.Any("error", err))
		os.Exit(-1)
	}

	if *shouldImportLegacy {
		if err := runLegacyImport(ctx, cfg, db); err != nil {
			slog.Error("Legacy import failed", slog.Any("error", err))
			os.Exit(-1)
		}
	}

	b := bookclub.New(*cfg, version, commit)
	b.DB = db
	b.Clock = clk

	b.ClubRepository = repositories.NewClubRepository(db.BunDB())
	b.BookRepository = repositories.NewBookRepository(db.BunDB())
	b.UserRepository = repositories.NewUserRepository(db.BunDB())
	b.UserBookRepository = repositories.NewUserBookRepository(db.BunDB())
	b.DailyLogRepository = repositories.NewDailyLogRepository(db.BunDB())
	b.BadgeRepository = repositories.NewBadgeRepository(db.BunDB())

	b.Ledger = gamification.NewLedger(b.DailyLogRepository)
	b.Streaks = gamification.NewStreakEngine(b.UserRepository, b.DailyLogRepository)
	b.Progression = gamification.NewProgression(b.UserRepository, b.DailyLogRepository, b.UserBookRepository, b.BadgeRepository, clk)

	if err := b.Progression.SeedBadges(ctx); err != nil {
		slog.Error("Failed to seed badge catalog", slog.Any("error", err))
		os.Exit(-1)
	}

	b.ClubCache, err = services.NewClubCache(b.ClubRepository, 64)
	if err != nil {
		slog.Error("Failed to build club cache", slog.Any("error", err))
		os.Exit(-1)
	}
	b.BookSearch = services.NewBookSearch(b.BookRepository)
	b.Stats = services.NewStatsService(b.UserRepository, b.DailyLogRepository, b.UserBookRepository, b.BadgeRepository)
	b.ReportSessions = services.NewReportSessionManager(5 * time.Minute)
	b.ReportService = services.NewReportService(b.UserRepository, b.UserBookRepository, b.Ledger, b.Streaks, b.Progression, clk)
	b.Recommendations = services.NewRecommendationService(b.BookRepository, b.UserBookRepository, b.Progression)
	b.CalendarImages = services.NewCalendarImageService()

	if cfg.Spaces.Key != "" {
		b.SpacesService, err = services.NewSpacesService(
			cfg.Spaces.Key, cfg.Spaces.Secret, cfg.Spaces.Region,
			cfg.Spaces.Bucket, cfg.Spaces.Endpoint, cfg.Spaces.ImageRoot)
		if err != nil {
			slog.Error("Failed to set up Spaces", slog.Any("error", err))
			os.Exit(-1)
		}
	} else {
		slog.Warn("Spaces not configured, calendar images disabled")
	}

	b.ReportSessions.StartCleanupRoutine(context.Background())

	h := handler.New()

	h.Command("/join", handlers.WrapWithLogging("join", commands.JoinHandler(b)))
	h.Command("/report", handlers.WrapWithLogging("report", commands.ReportHandler(b)))
	h.Component("/report/", handlers.WrapComponentWithLogging("report", commands.ReportComponentHandler(b)))
	h.Modal("/report-pages", handlers.WrapModalWithLogging("report-pages", commands.ReportPagesModalHandler(b)))
	h.Command("/mybooks", handlers.WrapWithLogging("mybooks", commands.MyBooksHandler(b)))
	h.Autocomplete("/mybooks", commands.MyBooksAutocompleteHandler(b))
	h.Command("/profile", handlers.WrapWithLogging("profile", commands.ProfileHandler(b)))
	h.Command("/badges", handlers.WrapWithLogging("badges", commands.BadgesHandler(b)))
	h.Command("/leaderboard", handlers.WrapWithLogging("leaderboard", commands.LeaderboardHandler(b)))
	h.Command("/readingnow", handlers.WrapWithLogging("readingnow", commands.ReadingNowHandler(b)))
	h.Component("/readingnow/", handlers.WrapComponentWithLogging("readingnow", commands.ReadingNowComponentHandler(b)))
	h.Command("/help", handlers.WrapWithLogging("help", commands.HelpHandler(b)))
	h.Command("/version", commands.VersionHandler(b))
	h.Command("/admin", handlers.WrapWithLogging("admin", commands.AdminHandler(b)))
	h.Autocomplete("/admin", commands.AdminRemoveBookAutocompleteHandler(b))

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		slog.Error("Failed to setup bot", slog.Any("error", err))
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	b.Notifier = services.NewNotifier(b.Client)

	jobs := scheduler.NewJobs(
		b.UserRepository, b.DailyLogRepository, b.ClubRepository,
		b.Ledger, b.Streaks, b.Stats, b.Notifier, clk,
		cfg.Bot.ReportChannelID)
	sched := scheduler.New(clk)
	jobs.Register(sched,
		cfg.Schedule.CheckInHour,
		cfg.Schedule.FirstReminder,
		cfg.Schedule.SecondReminder,
		time.Weekday(cfg.Schedule.WeeklyDay),
		cfg.Schedule.WeeklyHour)

	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()
	sched.Start(schedCtx)

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err))
		}
	}

	gwCtx, gwCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gwCancel()
	if err = b.Client.OpenGateway(gwCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}

func runLegacyImport(ctx context.Context, cfg *bookclub.Config, db *database.DB) error {
	slog.Info("Starting legacy import",
		slog.String("type", "db"),
		slog.String("database", cfg.Mongo.Database))

	client, err := migration.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	return migration.NewImporter(db.BunDB(), client, cfg.Mongo.Database).ImportAll(ctx)
}
