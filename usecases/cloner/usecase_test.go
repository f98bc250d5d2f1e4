package cloner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"guildcloner/clients"
	"guildcloner/config"
	"guildcloner/models"
	"guildcloner/services/mappings"
)

// Test helper functions
func testConfig() config.CloneConfig {
	return config.CloneConfig{
		BotToken:  "token_test123",
		StateFile: "clone_state.json",
		CloneSettings: config.CloneSettings{
			NameSyntax: "%original%-copy",
			Delay:      time.Millisecond,

			ClearGuild:     false,
			Icon:           true,
			Banner:         true,
			Roles:          true,
			Channels:       true,
			Overwrites:     true,
			Emojis:         true,
			Stickers:       true,
			CommunitySetup: true,
		},
		MessageSettings: config.MessageSettings{
			Enabled:        true,
			Limit:          100,
			OldestFirst:    true,
			WebhookDelay:   time.Millisecond,
			DeleteWebhooks: true,

			ChannelFetchConcurrency: 2,
			SendConcurrency:         2,
		},
		LiveSettings: config.LiveSettings{
			Enabled:            true,
			ProcessNewMessages: true,
		},
	}
}

func testSourceGuild() *models.Guild {
	return &models.Guild{
		ID:           "guild_src",
		Name:         "Source",
		EmojiLimit:   50,
		StickerLimit: 5,
	}
}

func testDestGuild() *models.Guild {
	return &models.Guild{
		ID:           "guild_dst",
		Name:         "Source-copy",
		EmojiLimit:   50,
		StickerLimit: 5,
	}
}

func newTestEngine(client clients.GuildClient, cfg config.CloneConfig) *ClonerUseCase {
	engine := NewClonerUseCase(client, cfg, mappings.NewStore(), nil)
	engine.source = testSourceGuild()
	engine.dest = testDestGuild()
	return engine
}

func TestNewClonerUseCase(t *testing.T) {
	t.Run("Valid initialization", func(t *testing.T) {
		mockClient := &clients.MockGuildClient{}

		engine := NewClonerUseCase(mockClient, testConfig(), mappings.NewStore(), nil)

		assert.NotNil(t, engine)
		assert.NotEmpty(t, engine.RunID())
		assert.Contains(t, engine.RunID(), "run_")
	})
}

func TestAcquireGuilds(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates destination guild with templated name", func(t *testing.T) {
		mockClient := &clients.MockGuildClient{}
		mockClient.On("Guild", ctx, "guild_src").Return(testSourceGuild(), nil)
		mockClient.On("CreateGuild", ctx, "Source-copy").Return(testDestGuild(), nil)

		engine := NewClonerUseCase(mockClient, testConfig(), mappings.NewStore(), nil)
		err := engine.AcquireGuilds(ctx, "guild_src", "")

		require.NoError(t, err)
		assert.Equal(t, "guild_dst", engine.dest.ID)
		mockClient.AssertExpectations(t)
	})

	t.Run("Uses existing destination and renames it", func(t *testing.T) {
		mockClient := &clients.MockGuildClient{}
		existing := &models.Guild{ID: "guild_dst", Name: "old-name"}
		mockClient.On("Guild", ctx, "guild_src").Return(testSourceGuild(), nil)
		mockClient.On("Guild", ctx, "guild_dst").Return(existing, nil)
		mockClient.On("EditGuildName", ctx, "guild_dst", "Source-copy").Return(nil)

		engine := NewClonerUseCase(mockClient, testConfig(), mappings.NewStore(), nil)
		err := engine.AcquireGuilds(ctx, "guild_src", "guild_dst")

		require.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Fails when destination creation fails", func(t *testing.T) {
		mockClient := &clients.MockGuildClient{}
		mockClient.On("Guild", ctx, "guild_src").Return(testSourceGuild(), nil)
		mockClient.On("CreateGuild", ctx, "Source-copy").Return(nil, assert.AnError)

		engine := NewClonerUseCase(mockClient, testConfig(), mappings.NewStore(), nil)
		err := engine.AcquireGuilds(ctx, "guild_src", "")

		assert.Error(t, err)
	})
}

func TestFetchRequiredData(t *testing.T) {
	ctx := context.Background()

	t.Run("Snapshots all entity classes and detects community", func(t *testing.T) {
		mockClient := &clients.MockGuildClient{}
		roles := []models.Role{{ID: "role_1", Name: "mods"}}
		channels := []models.Channel{{ID: "chan_1", Name: "general", Kind: models.ChannelKindText}}
		emojis := []models.Emoji{{ID: "emoji_1", Name: "wave"}}
		stickers := []models.Sticker{{ID: "sticker_1", Name: "hi"}}

		mockClient.On("Roles", ctx, "guild_src").Return(roles, nil)
		mockClient.On("Channels", ctx, "guild_src").Return(channels, nil)
		mockClient.On("Emojis", ctx, "guild_src").Return(emojis, nil)
		mockClient.On("Stickers", ctx, "guild_src").Return(stickers, nil)

		engine := newTestEngine(mockClient, testConfig())
		engine.source.Community = true

		err := engine.FetchRequiredData(ctx)

		require.NoError(t, err)
		assert.Equal(t, roles, engine.fetched.Roles)
		assert.Equal(t, channels, engine.fetched.Channels)
		assert.Equal(t, emojis, engine.fetched.Emojis)
		assert.Equal(t, stickers, engine.fetched.Stickers)
		assert.True(t, engine.communityEnabled)
		mockClient.AssertExpectations(t)
	})

	t.Run("Fails when any entity class cannot be fetched", func(t *testing.T) {
		mockClient := &clients.MockGuildClient{}
		mockClient.On("Roles", ctx, "guild_src").Return(nil, assert.AnError)

		engine := newTestEngine(mockClient, testConfig())
		err := engine.FetchRequiredData(ctx)

		assert.Error(t, err)
	})
}

func TestRunResume(t *testing.T) {
	ctx := context.Background()

	t.Run("Resumed run refetches but skips completed phases", func(t *testing.T) {
		cfg := testConfig()
		cfg.CloneSettings.Icon = false
		cfg.CloneSettings.Banner = false
		cfg.CloneSettings.Channels = false
		cfg.CloneSettings.Emojis = false
		cfg.CloneSettings.Stickers = false
		cfg.MessageSettings.Enabled = false
		cfg.LiveSettings.Enabled = false

		mockClient := &clients.MockGuildClient{}
		mockClient.On("Roles", ctx, "guild_src").Return([]models.Role{
			{ID: "role_1", Name: "mods"},
		}, nil)
		mockClient.On("Channels", ctx, "guild_src").Return([]models.Channel{}, nil)
		mockClient.On("Emojis", ctx, "guild_src").Return([]models.Emoji{}, nil)
		mockClient.On("Stickers", ctx, "guild_src").Return([]models.Sticker{}, nil)

		engine := newTestEngine(mockClient, cfg)
		engine.markPhaseComplete(PhaseRoles)

		err := engine.Run(ctx)

		// The roles phase was already completed, so no role creation happens
		require.NoError(t, err)
		mockClient.AssertNotCalled(t, "CreateRole", mock.Anything, mock.Anything, mock.Anything)
		mockClient.AssertExpectations(t)
	})
}

func TestPhaseCompletionTracking(t *testing.T) {
	t.Run("Marked phase becomes the resume point", func(t *testing.T) {
		engine := newTestEngine(&clients.MockGuildClient{}, testConfig())

		assert.Empty(t, engine.resumePoint())
		engine.markPhaseComplete(PhaseRoles)
		assert.Equal(t, PhaseRoles, engine.resumePoint())
	})
}
