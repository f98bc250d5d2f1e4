package clients

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"guildcloner/models"
)

// MockGuildClient is a mock implementation of the GuildClient interface
type MockGuildClient struct {
	mock.Mock
}

func (m *MockGuildClient) Connect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGuildClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockGuildClient) Latency() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

func (m *MockGuildClient) Guild(ctx context.Context, guildID string) (*models.Guild, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Guild), args.Error(1)
}

func (m *MockGuildClient) CreateGuild(ctx context.Context, name string) (*models.Guild, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Guild), args.Error(1)
}

func (m *MockGuildClient) EditGuildName(ctx context.Context, guildID, name string) error {
	args := m.Called(ctx, guildID, name)
	return args.Error(0)
}

func (m *MockGuildClient) SetGuildIcon(ctx context.Context, guildID string, image []byte) error {
	args := m.Called(ctx, guildID, image)
	return args.Error(0)
}

func (m *MockGuildClient) SetGuildBanner(ctx context.Context, guildID string, image []byte) error {
	args := m.Called(ctx, guildID, image)
	return args.Error(0)
}

func (m *MockGuildClient) ClearGuildProfile(ctx context.Context, guildID string) error {
	args := m.Called(ctx, guildID)
	return args.Error(0)
}

func (m *MockGuildClient) EditCommunity(
	ctx context.Context,
	guildID string,
	settings models.CommunitySettings,
) error {
	args := m.Called(ctx, guildID, settings)
	return args.Error(0)
}

func (m *MockGuildClient) Roles(ctx context.Context, guildID string) ([]models.Role, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Role), args.Error(1)
}

func (m *MockGuildClient) Channels(ctx context.Context, guildID string) ([]models.Channel, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Channel), args.Error(1)
}

func (m *MockGuildClient) Emojis(ctx context.Context, guildID string) ([]models.Emoji, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Emoji), args.Error(1)
}

func (m *MockGuildClient) Stickers(ctx context.Context, guildID string) ([]models.Sticker, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Sticker), args.Error(1)
}

func (m *MockGuildClient) CreateRole(
	ctx context.Context,
	guildID string,
	params models.RoleParams,
) (*models.Role, error) {
	args := m.Called(ctx, guildID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Role), args.Error(1)
}

func (m *MockGuildClient) EditEveryoneRole(ctx context.Context, guildID string, params models.RoleParams) error {
	args := m.Called(ctx, guildID, params)
	return args.Error(0)
}

func (m *MockGuildClient) CreateChannel(
	ctx context.Context,
	guildID string,
	params models.ChannelParams,
) (*models.Channel, error) {
	args := m.Called(ctx, guildID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Channel), args.Error(1)
}

func (m *MockGuildClient) CreateEmoji(
	ctx context.Context,
	guildID, name string,
	image []byte,
) (*models.Emoji, error) {
	args := m.Called(ctx, guildID, name, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Emoji), args.Error(1)
}

func (m *MockGuildClient) CreateSticker(
	ctx context.Context,
	guildID string,
	params models.StickerParams,
	file []byte,
) (*models.Sticker, error) {
	args := m.Called(ctx, guildID, params, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sticker), args.Error(1)
}

func (m *MockGuildClient) DeleteRole(ctx context.Context, guildID, roleID string) error {
	args := m.Called(ctx, guildID, roleID)
	return args.Error(0)
}

func (m *MockGuildClient) DeleteChannel(ctx context.Context, channelID string) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

func (m *MockGuildClient) DeleteEmoji(ctx context.Context, guildID, emojiID string) error {
	args := m.Called(ctx, guildID, emojiID)
	return args.Error(0)
}

func (m *MockGuildClient) DeleteSticker(ctx context.Context, guildID, stickerID string) error {
	args := m.Called(ctx, guildID, stickerID)
	return args.Error(0)
}

func (m *MockGuildClient) ChannelMessages(
	ctx context.Context,
	channelID string,
	limit int,
	oldestFirst bool,
) ([]models.Message, error) {
	args := m.Called(ctx, channelID, limit, oldestFirst)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockGuildClient) CreateWebhook(ctx context.Context, channelID, name string) (*models.Webhook, error) {
	args := m.Called(ctx, channelID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Webhook), args.Error(1)
}

func (m *MockGuildClient) SendWebhookMessage(
	ctx context.Context,
	webhook *models.Webhook,
	params models.WebhookMessageParams,
) error {
	args := m.Called(ctx, webhook, params)
	return args.Error(0)
}

func (m *MockGuildClient) DeleteWebhook(ctx context.Context, webhook *models.Webhook) error {
	args := m.Called(ctx, webhook)
	return args.Error(0)
}

func (m *MockGuildClient) DownloadAsset(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockGuildClient) OnMessageCreate(handler func(models.Message)) func() {
	args := m.Called(handler)
	if args.Get(0) == nil {
		return func() {}
	}
	return args.Get(0).(func())
}
