package cloner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gammazero/workerpool"

	"guildcloner/core"
	"guildcloner/models"
	"guildcloner/utils"
)

// CloneMessages runs the full message pipeline: fan in channel histories
// into one pending queue, partition it by destination channel, drain every
// channel under the send concurrency ceiling, then flush anything the live
// relay buffered while the drain was running. Webhooks are deleted at the
// end when configured.
func (u *ClonerUseCase) CloneMessages(ctx context.Context) error {
	u.setProcessing(true)
	defer u.setProcessing(false)

	if err := u.populateQueue(ctx); err != nil {
		return err
	}

	queue := u.takeMessageQueue()
	eta := time.Duration(len(queue)) * (u.cfg.MessageSettings.WebhookDelay + u.client.Latency())
	log.Printf("📋 Sending %d messages, this will take around %s", len(queue), utils.FormatDuration(eta))

	u.drain(ctx, queue)

	// Messages that arrived live while draining were buffered instead of
	// relayed; flush them in one extra pass.
	buffered := u.takeNewMessages()
	if len(buffered) > 0 {
		log.Printf("📋 Processing %d messages buffered during replication", len(buffered))
		u.wait(ctx, u.cfg.MessageSettings.WebhookDelay)
		u.drain(ctx, buffered)
	}

	return u.cleanupWebhooks(ctx)
}

// populateQueue reads up to the configured limit of history from every
// mapped channel that carries history, concurrently under the fetch
// ceiling, and accumulates (destination channel, message) pairs.
func (u *ClonerUseCase) populateQueue(ctx context.Context) error {
	settings := u.cfg.MessageSettings
	channelPairs := u.mappings.ChannelPairs()

	withHistory := make(map[string]bool, len(u.fetched.Channels))
	for _, channel := range u.fetched.Channels {
		if channel.Kind.HasHistory() {
			withHistory[channel.ID] = true
		}
	}

	pool := workerpool.New(settings.ChannelFetchConcurrency)

	for sourceID, ref := range channelPairs {
		if !withHistory[sourceID] {
			continue
		}
		sourceID, destID := sourceID, ref.ID
		pool.Submit(func() {
			messages, err := u.client.ChannelMessages(ctx, sourceID, settings.Limit, settings.OldestFirst)
			if err != nil {
				if core.IsForbiddenError(err) {
					log.Printf("⚠️ Can't fetch message history for channel %s (no permissions)", sourceID)
				} else {
					log.Printf("⚠️ Failed to fetch message history for channel %s: %v", sourceID, err)
				}
				return
			}
			queued := make([]models.QueuedMessage, 0, len(messages))
			for _, message := range messages {
				queued = append(queued, models.QueuedMessage{DestChannelID: destID, Message: message})
			}
			u.appendToMessageQueue(queued)
		})
	}
	pool.StopWait()
	return nil
}

// groupByChannel partitions a queue into per-channel ordered lists,
// preserving first-seen channel order and relative message order within
// each channel. Pure grouping, no network calls.
func groupByChannel(queue []models.QueuedMessage) ([]string, map[string][]models.Message) {
	order := make([]string, 0)
	grouped := make(map[string][]models.Message)
	for _, item := range queue {
		if _, seen := grouped[item.DestChannelID]; !seen {
			order = append(order, item.DestChannelID)
		}
		grouped[item.DestChannelID] = append(grouped[item.DestChannelID], item.Message)
	}
	return order, grouped
}

// drain sends every channel's list concurrently under the send ceiling.
// Each channel is one sequential task, so per-channel order is preserved
// no matter how the pool schedules.
func (u *ClonerUseCase) drain(ctx context.Context, queue []models.QueuedMessage) {
	order, grouped := groupByChannel(queue)

	pool := workerpool.New(u.cfg.MessageSettings.SendConcurrency)
	for _, destChannelID := range order {
		destChannelID := destChannelID
		messages := grouped[destChannelID]
		pool.Submit(func() {
			u.drainChannel(ctx, destChannelID, messages)
		})
	}
	pool.StopWait()
}

// drainChannel sends one channel's messages strictly in order with the
// configured inter-message delay, then marks the channel drained so the
// live relay switches from buffering to immediate relay for it.
func (u *ClonerUseCase) drainChannel(ctx context.Context, destChannelID string, messages []models.Message) {
	defer u.markDrained(destChannelID)

	webhook, err := u.ensureWebhook(ctx, destChannelID)
	if err != nil {
		log.Printf("⚠️ Can't create webhook in channel %s: %v", destChannelID, err)
		return
	}

	for _, message := range messages {
		select {
		case <-ctx.Done():
			return
		default:
		}
		u.sendProxyMessage(ctx, webhook, message)
		u.wait(ctx, u.cfg.MessageSettings.WebhookDelay)
	}
}

// ensureWebhook returns the channel's cached proxy sender, creating it on
// first use. At most one webhook exists per destination channel.
func (u *ClonerUseCase) ensureWebhook(ctx context.Context, destChannelID string) (*models.Webhook, error) {
	if webhook, ok := u.mappings.Webhook(destChannelID).Get(); ok {
		return webhook, nil
	}

	webhook, err := u.client.CreateWebhook(ctx, destChannelID, "guildcloner "+u.runID)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook: %w", err)
	}
	u.mappings.AddWebhook(destChannelID, webhook)
	u.wait(ctx, u.cfg.MessageSettings.WebhookDelay)
	return webhook, nil
}

// sendProxyMessage relays one source message through a webhook,
// impersonating the original author and re-uploading attachments. Send
// failures are logged and the message is skipped.
func (u *ClonerUseCase) sendProxyMessage(ctx context.Context, webhook *models.Webhook, message models.Message) {
	var files []models.WebhookFile
	for _, attachment := range message.Attachments {
		data, err := u.client.DownloadAsset(ctx, attachment.URL)
		if err != nil {
			log.Printf("⚠️ Failed to download attachment %s: %v", attachment.Filename, err)
			continue
		}
		files = append(files, models.WebhookFile{
			Name:        attachment.Filename,
			ContentType: attachment.ContentType,
			Data:        data,
		})
	}

	params := models.WebhookMessageParams{
		Content:   u.rewriteContent(message.Content),
		Username:  proxyUsername(message),
		AvatarURL: message.AuthorAvatarURL,
		Embeds:    message.Embeds,
		Files:     files,
	}
	if params.Content == "" && len(params.Embeds) == 0 && len(params.Files) == 0 {
		return
	}

	if err := u.client.SendWebhookMessage(ctx, webhook, params); err != nil {
		log.Printf("⚠️ Can't send message to channel %s: %v", webhook.ChannelID, err)
		return
	}
	log.Printf("🤖 Sent message: %s", utils.TruncateString(message.Content, 32, " "))
}

// proxyUsername synthesizes the webhook display name, carrying the original
// author and send time since webhooks cannot truly impersonate.
func proxyUsername(message models.Message) string {
	return fmt.Sprintf("%s#%s at %s",
		message.AuthorName,
		message.AuthorDiscriminator,
		message.Timestamp.Format("02/01/2006 15:04"))
}

// cleanupWebhooks deletes every proxy sender created during the run and
// clears the cache, when configured.
func (u *ClonerUseCase) cleanupWebhooks(ctx context.Context) error {
	if !u.cfg.MessageSettings.DeleteWebhooks {
		return nil
	}

	for _, webhook := range u.mappings.Webhooks() {
		if err := u.client.DeleteWebhook(ctx, webhook); err != nil {
			log.Printf("⚠️ Failed to delete webhook %s: %v", webhook.ID, err)
		}
		u.wait(ctx, u.cfg.MessageSettings.WebhookDelay)
	}
	u.mappings.ClearWebhooks()
	log.Printf("🧹 Deleted replication webhooks")
	return nil
}

func (u *ClonerUseCase) setProcessing(processing bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.processingMessages = processing
}

func (u *ClonerUseCase) appendToMessageQueue(items []models.QueuedMessage) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.messageQueue = append(u.messageQueue, items...)
}

func (u *ClonerUseCase) takeMessageQueue() []models.QueuedMessage {
	u.mu.Lock()
	defer u.mu.Unlock()
	queue := u.messageQueue
	u.messageQueue = nil
	return queue
}

func (u *ClonerUseCase) takeNewMessages() []models.QueuedMessage {
	u.mu.Lock()
	defer u.mu.Unlock()
	buffered := u.newMessages
	u.newMessages = nil
	return buffered
}

func (u *ClonerUseCase) markDrained(destChannelID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.processedChannels[destChannelID] = true
}

func (u *ClonerUseCase) isDrained(destChannelID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.processedChannels[destChannelID]
}
