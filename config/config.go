package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// CloneSettings groups the per-phase toggles for a replication run.
type CloneSettings struct {
	NameSyntax string
	Delay      time.Duration

	ClearGuild     bool
	Icon           bool
	Banner         bool
	Roles          bool
	Channels       bool
	Overwrites     bool
	Emojis         bool
	Stickers       bool
	CommunitySetup bool
}

// MessageSettings groups the historical message replication options.
type MessageSettings struct {
	Enabled        bool
	Limit          int
	OldestFirst    bool
	WebhookDelay   time.Duration
	DeleteWebhooks bool

	// Concurrency ceilings for the pipeline
	ChannelFetchConcurrency int
	SendConcurrency         int
}

// LiveSettings groups the live relay options.
type LiveSettings struct {
	Enabled            bool
	ProcessNewMessages bool
}

// CloneConfig is the full run-scoped configuration, passed by value into
// the engine constructor. The engine never reads ambient global state.
type CloneConfig struct {
	BotToken  string
	StateFile string

	CloneSettings   CloneSettings
	MessageSettings MessageSettings
	LiveSettings    LiveSettings
}

func LoadConfig() (*CloneConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	botToken := os.Getenv("DISCORD_BOT_TOKEN")
	if botToken == "" {
		return nil, fmt.Errorf("DISCORD_BOT_TOKEN is required but not set")
	}

	config := &CloneConfig{
		BotToken:  botToken,
		StateFile: getEnvWithDefault("CLONE_STATE_FILE", "clone_state.json"),

		CloneSettings: CloneSettings{
			NameSyntax: getEnvWithDefault("CLONE_NAME_SYNTAX", "%original%-copy"),
			Delay:      getEnvDuration("CLONE_DELAY", 850*time.Millisecond),

			ClearGuild:     getEnvBool("CLONE_CLEAR_GUILD", false),
			Icon:           getEnvBool("CLONE_ICON", true),
			Banner:         getEnvBool("CLONE_BANNER", true),
			Roles:          getEnvBool("CLONE_ROLES", true),
			Channels:       getEnvBool("CLONE_CHANNELS", true),
			Overwrites:     getEnvBool("CLONE_OVERWRITES", true),
			Emojis:         getEnvBool("CLONE_EMOJIS", true),
			Stickers:       getEnvBool("CLONE_STICKERS", true),
			CommunitySetup: getEnvBool("CLONE_COMMUNITY", true),
		},

		MessageSettings: MessageSettings{
			Enabled:        getEnvBool("CLONE_MESSAGES", false),
			Limit:          getEnvInt("CLONE_MESSAGES_LIMIT", 8196),
			OldestFirst:    getEnvBool("CLONE_MESSAGES_OLDEST_FIRST", true),
			WebhookDelay:   getEnvDuration("CLONE_WEBHOOK_DELAY", 650*time.Millisecond),
			DeleteWebhooks: getEnvBool("CLONE_WEBHOOKS_CLEAR", true),

			ChannelFetchConcurrency: getEnvInt("CLONE_CHANNEL_CONCURRENCY", 6),
			SendConcurrency:         getEnvInt("CLONE_SEND_CONCURRENCY", 12),
		},

		LiveSettings: LiveSettings{
			Enabled:            getEnvBool("LIVE_UPDATE", false),
			ProcessNewMessages: getEnvBool("LIVE_PROCESS_NEW_MESSAGES", true),
		},
	}

	config.ApplyConsistencyRules()
	return config, nil
}

// ApplyConsistencyRules force-resolves dependent toggles instead of failing
// startup: overwrites need roles, and anything message-related needs channels.
func (c *CloneConfig) ApplyConsistencyRules() {
	s := &c.CloneSettings
	if s.Channels && s.Overwrites && !s.Roles {
		log.Printf("⚠️ Roles cloning enabled automatically: overwrites cannot be cloned without roles")
		s.Roles = true
	}
	if c.LiveSettings.Enabled && !s.Channels {
		log.Printf("⚠️ Live update disabled: channels cloning is disabled")
		c.LiveSettings.Enabled = false
	}
	if c.MessageSettings.Enabled && !s.Channels {
		log.Printf("⚠️ Message cloning disabled: channels cloning is disabled")
		c.MessageSettings.Enabled = false
	}
	if c.MessageSettings.ChannelFetchConcurrency < 1 {
		c.MessageSettings.ChannelFetchConcurrency = 1
	}
	if c.MessageSettings.SendConcurrency < 1 {
		c.MessageSettings.SendConcurrency = 1
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("⚠️ Invalid boolean for %s: %q, using default %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️ Invalid integer for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("⚠️ Invalid duration for %s: %q, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
