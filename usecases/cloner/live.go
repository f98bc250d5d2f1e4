package cloner

import (
	"context"
	"log"

	"guildcloner/models"
)

// attachLiveRelay registers the gateway handler that mirrors new source
// messages into the destination for the lifetime of the engine instance.
func (u *ClonerUseCase) attachLiveRelay() {
	u.removeHandler = u.client.OnMessageCreate(func(message models.Message) {
		u.HandleLiveMessage(context.Background(), message)
	})
	log.Printf("📋 Live relay attached")
}

// Detach removes the live relay handler. Idempotent; called on shutdown.
func (u *ClonerUseCase) Detach() {
	if u.removeHandler == nil {
		return
	}
	u.removeHandler()
	u.removeHandler = nil
	log.Printf("📋 Live relay detached")
}

// HandleLiveMessage mirrors one live source message. While the pipeline is
// still draining a channel, its live messages are buffered (when configured)
// instead of sent, so they land after the history and order is preserved;
// everything else relays immediately through the channel's webhook.
func (u *ClonerUseCase) HandleLiveMessage(ctx context.Context, message models.Message) {
	if u.source == nil || message.GuildID != u.source.ID {
		return
	}
	ref, ok := u.mappings.Channel(message.ChannelID).Get()
	if !ok {
		return
	}

	if u.shouldBuffer(ref.ID, message) {
		return
	}

	webhook, err := u.ensureWebhook(ctx, ref.ID)
	if err != nil {
		log.Printf("⚠️ Can't relay message to channel %s: %v", ref.ID, err)
		return
	}
	u.sendProxyMessage(ctx, webhook, message)
	u.wait(ctx, u.cfg.MessageSettings.WebhookDelay)
}

// shouldBuffer reports whether the message belongs in the buffered-new
// queue, and appends it there when it does. Buffering applies only while
// the pipeline is processing and the channel hasn't drained yet.
func (u *ClonerUseCase) shouldBuffer(destChannelID string, message models.Message) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.processingMessages || u.processedChannels[destChannelID] {
		return false
	}
	if u.cfg.LiveSettings.ProcessNewMessages {
		u.newMessages = append(u.newMessages, models.QueuedMessage{
			DestChannelID: destChannelID,
			Message:       message,
		})
	}
	return true
}
