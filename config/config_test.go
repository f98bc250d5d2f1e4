package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "Bot test-token")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "Bot test-token", cfg.BotToken)
	assert.Equal(t, "%original%-copy", cfg.CloneSettings.NameSyntax)
	assert.Equal(t, 850*time.Millisecond, cfg.CloneSettings.Delay)
	assert.Equal(t, 650*time.Millisecond, cfg.MessageSettings.WebhookDelay)
	assert.Equal(t, 8196, cfg.MessageSettings.Limit)
	assert.True(t, cfg.MessageSettings.OldestFirst)
	assert.Equal(t, 6, cfg.MessageSettings.ChannelFetchConcurrency)
	assert.Equal(t, 12, cfg.MessageSettings.SendConcurrency)
	assert.True(t, cfg.CloneSettings.Roles)
	assert.False(t, cfg.MessageSettings.Enabled)
	assert.False(t, cfg.LiveSettings.Enabled)
}

func TestLoadConfig_MissingToken(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestApplyConsistencyRules(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(*CloneConfig)
		validate func(*testing.T, *CloneConfig)
	}{
		{
			name: "overwrites force roles on",
			mutate: func(c *CloneConfig) {
				c.CloneSettings.Channels = true
				c.CloneSettings.Overwrites = true
				c.CloneSettings.Roles = false
			},
			validate: func(t *testing.T, c *CloneConfig) {
				assert.True(t, c.CloneSettings.Roles)
			},
		},
		{
			name: "live update forced off without channels",
			mutate: func(c *CloneConfig) {
				c.CloneSettings.Channels = false
				c.LiveSettings.Enabled = true
			},
			validate: func(t *testing.T, c *CloneConfig) {
				assert.False(t, c.LiveSettings.Enabled)
			},
		},
		{
			name: "message cloning forced off without channels",
			mutate: func(c *CloneConfig) {
				c.CloneSettings.Channels = false
				c.MessageSettings.Enabled = true
			},
			validate: func(t *testing.T, c *CloneConfig) {
				assert.False(t, c.MessageSettings.Enabled)
			},
		},
		{
			name: "concurrency floors at one",
			mutate: func(c *CloneConfig) {
				c.MessageSettings.ChannelFetchConcurrency = 0
				c.MessageSettings.SendConcurrency = -3
			},
			validate: func(t *testing.T, c *CloneConfig) {
				assert.Equal(t, 1, c.MessageSettings.ChannelFetchConcurrency)
				assert.Equal(t, 1, c.MessageSettings.SendConcurrency)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &CloneConfig{}
			tc.mutate(cfg)
			cfg.ApplyConsistencyRules()
			tc.validate(t, cfg)
		})
	}
}
