package services

import (
	"context"
	"log/slog"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const maxConcurrentDMs = 4

// Notifier delivers DMs and channel posts. Delivery failures are logged
// and swallowed: a closed-DM user must never break a sweep.
type Notifier struct {
	client bot.Client
	sem    *semaphore.Weighted
}

func NewNotifier(client bot.Client) *Notifier {
	return &Notifier{
		client: client,
		sem:    semaphore.NewWeighted(maxConcurrentDMs),
	}
}

// SendDM delivers one embed to a user's DM channel. Returns false when the
// message could not be delivered.
func (n *Notifier) SendDM(ctx context.Context, discordID string, embed discord.Embed) bool {
	id, err := snowflake.Parse(discordID)
	if err != nil {
		slog.Error("Invalid Discord ID for DM",
			slog.String("user_id", discordID),
			slog.Any("error", err))
		return false
	}

	dmChannel, err := n.client.Rest().CreateDMChannel(id)
	if err != nil {
		slog.Warn("Failed to create DM channel",
			slog.String("user_id", discordID),
			slog.Any("error", err))
		return false
	}

	_, err = n.client.Rest().CreateMessage(dmChannel.ID(), discord.MessageCreate{
		Embeds: []discord.Embed{embed},
	})
	if err != nil {
		slog.Debug("Failed to send DM (user may have DMs disabled)",
			slog.String("user_id", discordID),
			slog.Any("error", err))
		return false
	}
	return true
}

// Broadcast fans one embed out to many users with bounded concurrency.
// Individual failures are already swallowed by SendDM, so the group only
// stops on context cancellation.
func (n *Notifier) Broadcast(ctx context.Context, discordIDs []string, embed discord.Embed) {
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range discordIDs {
		id := id
		if err := n.sem.Acquire(ctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer n.sem.Release(1)
			n.SendDM(ctx, id, embed)
			return nil
		})
	}
	_ = g.Wait()
}

// SendChannel posts an embed, optionally with file attachments, to a guild
// channel. Used by the nightly and weekly reports.
func (n *Notifier) SendChannel(ctx context.Context, channelID snowflake.ID, embed discord.Embed, files ...*discord.File) error {
	_, err := n.client.Rest().CreateMessage(channelID, discord.MessageCreate{
		Embeds: []discord.Embed{embed},
		Files:  files,
	})
	return err
}
