package clients

import (
	"context"
	"time"

	"guildcloner/models"
)

// GuildClient is the remote client facade the replication engine drives.
// Implementations classify remote failures onto the core error sentinels
// (forbidden, not found) and return everything else as a generic request
// failure; the engine's policy for all three is log-and-skip.
type GuildClient interface {
	// Connect opens the gateway connection (required for live relay and latency)
	Connect(ctx context.Context) error
	Close() error
	// Latency is the current gateway heartbeat latency, used for ETA estimates
	Latency() time.Duration

	Guild(ctx context.Context, guildID string) (*models.Guild, error)
	CreateGuild(ctx context.Context, name string) (*models.Guild, error)
	EditGuildName(ctx context.Context, guildID, name string) error
	SetGuildIcon(ctx context.Context, guildID string, image []byte) error
	SetGuildBanner(ctx context.Context, guildID string, image []byte) error
	// ClearGuildProfile removes the destination's icon, banner and description
	ClearGuildProfile(ctx context.Context, guildID string) error
	EditCommunity(ctx context.Context, guildID string, settings models.CommunitySettings) error

	Roles(ctx context.Context, guildID string) ([]models.Role, error)
	Channels(ctx context.Context, guildID string) ([]models.Channel, error)
	Emojis(ctx context.Context, guildID string) ([]models.Emoji, error)
	Stickers(ctx context.Context, guildID string) ([]models.Sticker, error)

	CreateRole(ctx context.Context, guildID string, params models.RoleParams) (*models.Role, error)
	// EditEveryoneRole edits the implicit default role in place; it cannot be recreated
	EditEveryoneRole(ctx context.Context, guildID string, params models.RoleParams) error
	// CreateChannel creates a channel of any subtype, dispatching on params.Kind
	CreateChannel(ctx context.Context, guildID string, params models.ChannelParams) (*models.Channel, error)
	CreateEmoji(ctx context.Context, guildID, name string, image []byte) (*models.Emoji, error)
	CreateSticker(
		ctx context.Context,
		guildID string,
		params models.StickerParams,
		file []byte,
	) (*models.Sticker, error)

	DeleteRole(ctx context.Context, guildID, roleID string) error
	DeleteChannel(ctx context.Context, channelID string) error
	DeleteEmoji(ctx context.Context, guildID, emojiID string) error
	DeleteSticker(ctx context.Context, guildID, stickerID string) error

	// ChannelMessages pages through a channel's history up to limit messages
	// in the requested order
	ChannelMessages(ctx context.Context, channelID string, limit int, oldestFirst bool) ([]models.Message, error)

	CreateWebhook(ctx context.Context, channelID, name string) (*models.Webhook, error)
	SendWebhookMessage(ctx context.Context, webhook *models.Webhook, params models.WebhookMessageParams) error
	DeleteWebhook(ctx context.Context, webhook *models.Webhook) error

	// DownloadAsset fetches an image or attachment blob by URL
	DownloadAsset(ctx context.Context, url string) ([]byte, error)

	// OnMessageCreate registers a handler for newly observed messages and
	// returns a function that removes it
	OnMessageCreate(handler func(models.Message)) func()
}
