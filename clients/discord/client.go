package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/bwmarrin/discordgo"

	"guildcloner/clients"
	"guildcloner/core"
	"guildcloner/models"
)

const historyPageSize = 100

// DiscordClient implements the clients.GuildClient interface on top of a
// single discordgo session (REST + gateway).
type DiscordClient struct {
	session *discordgo.Session
	// httpClient is used for CDN asset downloads and the sticker upload,
	// which discordgo has no endpoint wrappers for
	httpClient *http.Client
}

var _ clients.GuildClient = (*DiscordClient)(nil)

// NewDiscordClient creates a new Discord client bound to the given token.
// A nil httpClient falls back to a default client for asset downloads.
func NewDiscordClient(token string, httpClient *http.Client) (*DiscordClient, error) {
	session, err := discordgo.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentMessageContent
	session.StateEnabled = false

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &DiscordClient{
		session:    session,
		httpClient: httpClient,
	}, nil
}

func (c *DiscordClient) Connect(ctx context.Context) error {
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", asRemoteError(err))
	}
	return nil
}

func (c *DiscordClient) Close() error {
	return c.session.Close()
}

func (c *DiscordClient) Latency() time.Duration {
	return c.session.HeartbeatLatency()
}

func (c *DiscordClient) Guild(ctx context.Context, guildID string) (*models.Guild, error) {
	guild, err := c.session.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild %s: %w", guildID, asRemoteError(err))
	}
	return convertGuild(guild), nil
}

func (c *DiscordClient) CreateGuild(ctx context.Context, name string) (*models.Guild, error) {
	guild, err := c.session.GuildCreate(name, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create guild %q: %w", name, asRemoteError(err))
	}
	return convertGuild(guild), nil
}

func (c *DiscordClient) EditGuildName(ctx context.Context, guildID, name string) error {
	_, err := c.session.GuildEdit(guildID, &discordgo.GuildParams{Name: name}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to rename guild %s: %w", guildID, asRemoteError(err))
	}
	return nil
}

func (c *DiscordClient) SetGuildIcon(ctx context.Context, guildID string, image []byte) error {
	_, err := c.session.GuildEdit(guildID, &discordgo.GuildParams{
		Icon: imageDataURI(image),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to set guild icon: %w", asRemoteError(err))
	}
	return nil
}

func (c *DiscordClient) SetGuildBanner(ctx context.Context, guildID string, image []byte) error {
	_, err := c.session.GuildEdit(guildID, &discordgo.GuildParams{
		Banner: imageDataURI(image),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to set guild banner: %w", asRemoteError(err))
	}
	return nil
}

func (c *DiscordClient) ClearGuildProfile(ctx context.Context, guildID string) error {
	// GuildParams omits empty fields, so clearing goes through a raw body
	// where nulls survive serialization
	body := map[string]any{"icon": nil, "banner": nil, "description": nil}
	endpoint := discordgo.EndpointGuild(guildID)
	_, err := c.session.RequestWithBucketID("PATCH", endpoint, body, endpoint, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to clear guild profile: %w", asRemoteError(err))
	}
	return nil
}

func (c *DiscordClient) EditCommunity(
	ctx context.Context,
	guildID string,
	settings models.CommunitySettings,
) error {
	verification := discordgo.VerificationLevel(settings.VerificationLevel)
	_, err := c.session.GuildEdit(guildID, &discordgo.GuildParams{
		Features:                    []discordgo.GuildFeature{discordgo.GuildFeatureCommunity},
		VerificationLevel:           &verification,
		DefaultMessageNotifications: settings.DefaultNotifications,
		ExplicitContentFilter:       settings.ExplicitContentFilter,
		PreferredLocale:             discordgo.Locale(settings.PreferredLocale),
		AfkChannelID:                settings.AFKChannelID,
		AfkTimeout:                  settings.AFKTimeout,
		SystemChannelID:             settings.SystemChannelID,
		SystemChannelFlags:          discordgo.SystemChannelFlag(settings.SystemChannelFlags),
		RulesChannelID:              settings.RulesChannelID,
		PublicUpdatesChannelID:      settings.PublicUpdatesChannelID,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to apply community settings: %w", asRemoteError(err))
	}
	return nil
}

func (c *DiscordClient) Roles(ctx context.Context, guildID string) ([]models.Role, error) {
	roles, err := c.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", asRemoteError(err))
	}
	result := make([]models.Role, 0, len(roles))
	for _, role := range roles {
		result = append(result, models.Role{
			ID:          role.ID,
			Name:        role.Name,
			Color:       role.Color,
			Hoist:       role.Hoist,
			Mentionable: role.Mentionable,
			Permissions: role.Permissions,
			Position:    role.Position,
			IsEveryone:  role.ID == guildID,
		})
	}
	// Discord returns roles in arbitrary order; position order is what the
	// engine's reverse-creation pass relies on
	sort.SliceStable(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

func (c *DiscordClient) Channels(ctx context.Context, guildID string) ([]models.Channel, error) {
	channels, err := c.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channels: %w", asRemoteError(err))
	}
	result := make([]models.Channel, 0, len(channels))
	for _, ch := range channels {
		converted, ok := convertChannel(ch)
		if !ok {
			continue
		}
		result = append(result, converted)
	}
	return result, nil
}

func (c *DiscordClient) Emojis(ctx context.Context, guildID string) ([]models.Emoji, error) {
	emojis, err := c.session.GuildEmojis(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch emojis: %w", asRemoteError(err))
	}
	result := make([]models.Emoji, 0, len(emojis))
	for _, emoji := range emojis {
		result = append(result, models.Emoji{
			ID:       emoji.ID,
			Name:     emoji.Name,
			Animated: emoji.Animated,
			URL:      emojiURL(emoji.ID, emoji.Animated),
		})
	}
	return result, nil
}

func (c *DiscordClient) Stickers(ctx context.Context, guildID string) ([]models.Sticker, error) {
	// discordgo has no guild sticker wrappers, so this goes through the
	// session's raw request path
	endpoint := discordgo.EndpointGuild(guildID) + "/stickers"
	body, err := c.session.RequestWithBucketID("GET", endpoint, nil, endpoint, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stickers: %w", asRemoteError(err))
	}
	var stickers []*discordgo.Sticker
	if err := json.Unmarshal(body, &stickers); err != nil {
		return nil, fmt.Errorf("failed to decode stickers response: %w", err)
	}
	result := make([]models.Sticker, 0, len(stickers))
	for _, sticker := range stickers {
		result = append(result, models.Sticker{
			ID:          sticker.ID,
			Name:        sticker.Name,
			Description: sticker.Description,
			Emoji:       sticker.Tags,
			URL:         stickerURL(sticker.ID, sticker.FormatType),
		})
	}
	return result, nil
}

func (c *DiscordClient) CreateRole(
	ctx context.Context,
	guildID string,
	params models.RoleParams,
) (*models.Role, error) {
	role, err := c.session.GuildRoleCreate(guildID, roleParams(params), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create role %q: %w", params.Name, asRemoteError(err))
	}
	return &models.Role{
		ID:          role.ID,
		Name:        role.Name,
		Color:       role.Color,
		Hoist:       role.Hoist,
		Mentionable: role.Mentionable,
		Permissions: role.Permissions,
		Position:    role.Position,
	}, nil
}

func (c *DiscordClient) EditEveryoneRole(ctx context.Context, guildID string, params models.RoleParams) error {
	// The default role's id always equals the guild id
	_, err := c.session.GuildRoleEdit(guildID, guildID, roleParams(params), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to edit default role: %w", asRemoteError(err))
	}
	return nil
}

func (c *DiscordClient) CreateChannel(
	ctx context.Context,
	guildID string,
	params models.ChannelParams,
) (*models.Channel, error) {
	overwrites := make([]*discordgo.PermissionOverwrite, 0, len(params.Overwrites))
	for _, ow := range params.Overwrites {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    ow.TargetID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: ow.Allow,
			Deny:  ow.Deny,
		})
	}

	created, err := c.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 params.Name,
		Type:                 channelType(params.Kind),
		Topic:                params.Topic,
		Bitrate:              params.Bitrate,
		UserLimit:            params.UserLimit,
		RateLimitPerUser:     params.SlowmodeDelay,
		Position:             params.Position,
		PermissionOverwrites: overwrites,
		ParentID:             params.ParentID,
		NSFW:                 params.NSFW,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s channel %q: %w", params.Kind, params.Name, asRemoteError(err))
	}

	// Forum tags and thread defaults are not part of the create payload
	if params.Kind == models.ChannelKindForum {
		if err := c.applyForumSettings(ctx, created.ID, params); err != nil {
			return nil, err
		}
	}

	converted, _ := convertChannel(created)
	return &converted, nil
}

func (c *DiscordClient) applyForumSettings(ctx context.Context, channelID string, params models.ChannelParams) error {
	tags := make([]discordgo.ForumTag, 0, len(params.AvailableTags))
	for _, tag := range params.AvailableTags {
		tags = append(tags, discordgo.ForumTag{
			Name:      tag.Name,
			Moderated: tag.Moderated,
			EmojiID:   tag.EmojiID,
			EmojiName: tag.EmojiName,
		})
	}
	layout := discordgo.ForumLayout(params.DefaultForumLayout)
	slowmode := params.DefaultThreadSlowmode
	_, err := c.session.ChannelEdit(channelID, &discordgo.ChannelEdit{
		AvailableTags:                 &tags,
		DefaultForumLayout:            &layout,
		DefaultThreadRateLimitPerUser: &slowmode,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to apply forum settings to channel %s: %w", channelID, asRemoteError(err))
	}
	return nil
}

func (c *DiscordClient) CreateEmoji(
	ctx context.Context,
	guildID, name string,
	image []byte,
) (*models.Emoji, error) {
	emoji, err := c.session.GuildEmojiCreate(guildID, &discordgo.EmojiParams{
		Name:  name,
		Image: imageDataURI(image),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create emoji %q: %w", name, asRemoteError(err))
	}
	return &models.Emoji{
		ID:       emoji.ID,
		Name:     emoji.Name,
		Animated: emoji.Animated,
		URL:      emojiURL(emoji.ID, emoji.Animated),
	}, nil
}

func (c *DiscordClient) DeleteRole(ctx context.Context, guildID, roleID string) error {
	if err := c.session.GuildRoleDelete(guildID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete role %s: %w", roleID, asRemoteError(err))
	}
	return nil
}

func (c *DiscordClient) DeleteChannel(ctx context.Context, channelID string) error {
	if _, err := c.session.ChannelDelete(channelID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete channel %s: %w", channelID, asRemoteError(err))
	}
	return nil
}

func (c *DiscordClient) DeleteEmoji(ctx context.Context, guildID, emojiID string) error {
	if err := c.session.GuildEmojiDelete(guildID, emojiID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete emoji %s: %w", emojiID, asRemoteError(err))
	}
	return nil
}

func (c *DiscordClient) DeleteSticker(ctx context.Context, guildID, stickerID string) error {
	endpoint := discordgo.EndpointGuild(guildID) + "/stickers/" + stickerID
	bucket := discordgo.EndpointGuild(guildID) + "/stickers/"
	if _, err := c.session.RequestWithBucketID("DELETE", endpoint, nil, bucket, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete sticker %s: %w", stickerID, asRemoteError(err))
	}
	return nil
}

func (c *DiscordClient) ChannelMessages(
	ctx context.Context,
	channelID string,
	limit int,
	oldestFirst bool,
) ([]models.Message, error) {
	var collected []models.Message
	var beforeID, afterID string
	if oldestFirst {
		afterID = "0"
	}

	for len(collected) < limit {
		pageSize := historyPageSize
		if remaining := limit - len(collected); remaining < pageSize {
			pageSize = remaining
		}

		page, err := c.session.ChannelMessages(
			channelID,
			pageSize,
			beforeID,
			afterID,
			"",
			discordgo.WithContext(ctx),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch history for channel %s: %w", channelID, asRemoteError(err))
		}
		if len(page) == 0 {
			break
		}

		// The API always returns pages newest-first
		if oldestFirst {
			for i := len(page) - 1; i >= 0; i-- {
				collected = append(collected, convertMessage(page[i]))
			}
			afterID = collected[len(collected)-1].ID
		} else {
			for _, msg := range page {
				collected = append(collected, convertMessage(msg))
			}
			beforeID = collected[len(collected)-1].ID
		}

		if len(page) < pageSize {
			break
		}
	}

	return collected, nil
}

func (c *DiscordClient) CreateWebhook(ctx context.Context, channelID, name string) (*models.Webhook, error) {
	webhook, err := c.session.WebhookCreate(channelID, name, "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook in channel %s: %w", channelID, asRemoteError(err))
	}
	return &models.Webhook{
		ID:        webhook.ID,
		Token:     webhook.Token,
		ChannelID: webhook.ChannelID,
		Name:      webhook.Name,
	}, nil
}

func (c *DiscordClient) SendWebhookMessage(
	ctx context.Context,
	webhook *models.Webhook,
	params models.WebhookMessageParams,
) error {
	files := make([]*discordgo.File, 0, len(params.Files))
	for _, file := range params.Files {
		files = append(files, &discordgo.File{
			Name:        file.Name,
			ContentType: file.ContentType,
			Reader:      bytes.NewReader(file.Data),
		})
	}

	_, err := c.session.WebhookExecute(webhook.ID, webhook.Token, false, &discordgo.WebhookParams{
		Content:   params.Content,
		Username:  params.Username,
		AvatarURL: params.AvatarURL,
		Embeds:    params.Embeds,
		Files:     files,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to execute webhook %s: %w", webhook.ID, asRemoteError(err))
	}
	return nil
}

func (c *DiscordClient) DeleteWebhook(ctx context.Context, webhook *models.Webhook) error {
	if err := c.session.WebhookDelete(webhook.ID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete webhook %s: %w", webhook.ID, asRemoteError(err))
	}
	return nil
}

func (c *DiscordClient) DownloadAsset(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download asset %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("asset %s: %w", url, core.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("asset %s returned status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset body: %w", err)
	}
	return data, nil
}

func (c *DiscordClient) OnMessageCreate(handler func(models.Message)) func() {
	return c.session.AddHandler(func(_ *discordgo.Session, event *discordgo.MessageCreate) {
		if event.Author == nil {
			return
		}
		handler(convertMessage(event.Message))
	})
}

// asRemoteError maps discordgo REST failures onto the core error taxonomy.
// Anything that is not a clean 403/404 stays a generic request failure,
// including rate limits - the engine skips those without retrying.
func asRemoteError(err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", core.ErrForbidden, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", core.ErrNotFound, err)
		}
	}
	return err
}
