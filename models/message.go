package models

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// Attachment references an uploaded file on a source message. The blob is
// re-downloaded and re-uploaded at send time, never cached.
type Attachment struct {
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

// Message is a source message read once from history or observed live. It
// is transformed (mentions rewritten) and handed to a webhook, then
// discarded - never persisted beyond the pipeline queues.
type Message struct {
	ID        string    `json:"id"`
	GuildID   string    `json:"guild_id"`
	ChannelID string    `json:"channel_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	AuthorName          string `json:"author_name"`
	AuthorDiscriminator string `json:"author_discriminator"`
	AuthorAvatarURL     string `json:"author_avatar_url"`

	Attachments []Attachment `json:"attachments,omitempty"`
	// Embeds pass through to the destination unmodified
	Embeds []*discordgo.MessageEmbed `json:"embeds,omitempty"`
}

// QueuedMessage is a pending send: a source message paired with the
// destination channel it maps to.
type QueuedMessage struct {
	DestChannelID string  `json:"dest_channel_id"`
	Message       Message `json:"message"`
}

// Webhook is a per-destination-channel proxy send handle.
type Webhook struct {
	ID        string `json:"id"`
	Token     string `json:"token"`
	ChannelID string `json:"channel_id"`
	Name      string `json:"name"`
}

// WebhookMessageParams is the payload for one proxied message send.
type WebhookMessageParams struct {
	Content   string
	Username  string
	AvatarURL string
	Embeds    []*discordgo.MessageEmbed
	Files     []WebhookFile
}

// WebhookFile is a fresh byte blob re-uploaded alongside a proxied message.
type WebhookFile struct {
	Name        string
	ContentType string
	Data        []byte
}
