package cloner

import (
	"context"
	"fmt"
	"log"
	"path"
	"strings"

	"guildcloner/core"
	"guildcloner/models"
)

// emojiSafetyMargin is the number of destination emoji slots left free;
// the platform reserves some slots and filling every one makes later
// creations flaky.
const emojiSafetyMargin = 5

// CloneEmojis recreates source emojis up to the destination's capacity
// minus the safety margin. The ceiling counts the destination's live emoji
// total, so pre-existing emojis reduce how many transfer.
func (u *ClonerUseCase) CloneEmojis(ctx context.Context) error {
	delay := u.cfg.CloneSettings.Delay

	existing, err := u.client.Emojis(ctx, u.dest.ID)
	if err != nil {
		return fmt.Errorf("failed to list destination emojis: %w", err)
	}

	ceiling := u.dest.EmojiLimit - emojiSafetyMargin
	if ceiling < 0 {
		ceiling = 0
	}
	live := len(existing)

	for _, emoji := range u.fetched.Emojis {
		if live >= ceiling {
			log.Printf("⚠️ Emoji limit reached (%d/%d). Skipping remaining emojis", live, ceiling)
			break
		}

		data, err := u.client.DownloadAsset(ctx, emoji.URL)
		if err != nil {
			log.Printf("⚠️ Failed to download emoji %s: %v", emoji.Name, err)
			u.wait(ctx, delay)
			continue
		}
		created, err := u.client.CreateEmoji(ctx, u.dest.ID, emoji.Name, data)
		if err != nil {
			log.Printf("⚠️ Failed to create emoji %s: %v", emoji.Name, err)
			u.wait(ctx, delay)
			continue
		}
		live++
		u.mappings.AddEmoji(emoji.ID, models.EntityRef{ID: created.ID, Name: created.Name})
		log.Printf("✅ Created emoji: %s", created.Name)
		u.wait(ctx, delay)
	}
	return nil
}

// CloneStickers recreates source stickers up to the destination's sticker
// capacity. A sticker whose source asset no longer resolves is logged and
// skipped.
func (u *ClonerUseCase) CloneStickers(ctx context.Context) error {
	delay := u.cfg.CloneSettings.Delay

	created := 0
	for _, sticker := range u.fetched.Stickers {
		if created >= u.dest.StickerLimit {
			log.Printf("⚠️ Sticker limit reached (%d). Skipping remaining stickers", u.dest.StickerLimit)
			break
		}

		data, err := u.client.DownloadAsset(ctx, sticker.URL)
		if err != nil {
			if core.IsNotFoundError(err) {
				log.Printf("⚠️ Sticker asset for %s no longer exists, skipping", sticker.Name)
			} else {
				log.Printf("⚠️ Failed to download sticker %s: %v", sticker.Name, err)
			}
			u.wait(ctx, delay)
			continue
		}

		params := models.StickerParams{
			Name:        sticker.Name,
			Description: sticker.Description,
			Emoji:       sticker.Emoji,
			FileName:    stickerFileName(sticker),
		}
		if _, err := u.client.CreateSticker(ctx, u.dest.ID, params, data); err != nil {
			if core.IsNotFoundError(err) {
				log.Printf("⚠️ Sticker %s could not be created (asset gone), skipping", sticker.Name)
			} else {
				log.Printf("⚠️ Failed to create sticker %s: %v", sticker.Name, err)
			}
			u.wait(ctx, delay)
			continue
		}
		created++
		log.Printf("✅ Created sticker: %s", sticker.Name)
		u.wait(ctx, delay)
	}
	return nil
}

// stickerFileName derives the upload filename from the asset URL extension,
// falling back to png.
func stickerFileName(sticker models.Sticker) string {
	ext := strings.TrimPrefix(path.Ext(sticker.URL), ".")
	if ext == "" {
		ext = "png"
	}
	return sticker.Name + "." + ext
}
