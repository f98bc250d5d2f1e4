package cloner

import (
	"context"
	"fmt"
	"log"

	"guildcloner/models"
	"guildcloner/utils"
)

// PrepareGuild strips the destination down to a blank slate: every role,
// channel, emoji and sticker is deleted, then the guild profile (icon,
// banner, description) is cleared. The implicit default role survives.
func (u *ClonerUseCase) PrepareGuild(ctx context.Context) error {
	delay := u.cfg.CloneSettings.Delay

	roles, err := u.client.Roles(ctx, u.dest.ID)
	if err != nil {
		return fmt.Errorf("failed to list destination roles: %w", err)
	}
	for _, role := range roles {
		if role.IsEveryone {
			continue
		}
		if err := u.client.DeleteRole(ctx, u.dest.ID, role.ID); err != nil {
			log.Printf("⚠️ Failed to delete role %s: %v", role.Name, err)
		} else {
			log.Printf("🗑️ Deleted role: %s", role.Name)
		}
		u.wait(ctx, delay)
	}

	channels, err := u.client.Channels(ctx, u.dest.ID)
	if err != nil {
		return fmt.Errorf("failed to list destination channels: %w", err)
	}
	for _, channel := range channels {
		if err := u.client.DeleteChannel(ctx, channel.ID); err != nil {
			log.Printf("⚠️ Failed to delete channel %s: %v", channel.Name, err)
		} else {
			log.Printf("🗑️ Deleted channel: %s", channel.Name)
		}
		u.wait(ctx, delay)
	}

	emojis, err := u.client.Emojis(ctx, u.dest.ID)
	if err != nil {
		return fmt.Errorf("failed to list destination emojis: %w", err)
	}
	for _, emoji := range emojis {
		if err := u.client.DeleteEmoji(ctx, u.dest.ID, emoji.ID); err != nil {
			log.Printf("⚠️ Failed to delete emoji %s: %v", emoji.Name, err)
		} else {
			log.Printf("🗑️ Deleted emoji: %s", emoji.Name)
		}
		u.wait(ctx, delay)
	}

	stickers, err := u.client.Stickers(ctx, u.dest.ID)
	if err != nil {
		return fmt.Errorf("failed to list destination stickers: %w", err)
	}
	for _, sticker := range stickers {
		if err := u.client.DeleteSticker(ctx, u.dest.ID, sticker.ID); err != nil {
			log.Printf("⚠️ Failed to delete sticker %s: %v", sticker.Name, err)
		} else {
			log.Printf("🗑️ Deleted sticker: %s", sticker.Name)
		}
		u.wait(ctx, delay)
	}

	if err := u.client.ClearGuildProfile(ctx, u.dest.ID); err != nil {
		log.Printf("⚠️ Failed to clear guild profile: %v", err)
	} else {
		log.Printf("🧹 Cleared guild icon, banner and description")
	}
	return nil
}

// CloneIcon copies the source guild icon. Animated icons are flattened to
// their first frame because the destination cannot be assumed to have the
// boost level animated icons require.
func (u *ClonerUseCase) CloneIcon(ctx context.Context) error {
	if u.source.IconURL == "" {
		log.Printf("📋 Source guild has no icon, skipping")
		return nil
	}

	data, err := u.client.DownloadAsset(ctx, u.source.IconURL)
	if err != nil {
		return fmt.Errorf("failed to download icon: %w", err)
	}
	frame, err := utils.FirstFrame(data)
	if err != nil {
		return fmt.Errorf("failed to extract icon frame: %w", err)
	}
	if err := u.client.SetGuildIcon(ctx, u.dest.ID, frame); err != nil {
		return fmt.Errorf("failed to set guild icon: %w", err)
	}
	log.Printf("✅ Guild icon cloned")
	u.wait(ctx, u.cfg.CloneSettings.Delay)
	return nil
}

// CloneBanner copies the source guild banner. The animated original is kept
// only when the source advertises animated-banner support; otherwise the
// first frame is uploaded as a static banner.
func (u *ClonerUseCase) CloneBanner(ctx context.Context) error {
	if !u.source.HasBanner && !u.source.HasAnimatedBanner {
		log.Printf("📋 Source guild has no banner, skipping")
		return nil
	}
	if u.source.BannerURL == "" {
		log.Printf("📋 Source guild has no banner, skipping")
		return nil
	}

	data, err := u.client.DownloadAsset(ctx, u.source.BannerURL)
	if err != nil {
		return fmt.Errorf("failed to download banner: %w", err)
	}
	if !(u.source.BannerAnimated && u.source.HasAnimatedBanner) {
		data, err = utils.FirstFrame(data)
		if err != nil {
			return fmt.Errorf("failed to extract banner frame: %w", err)
		}
	}
	if err := u.client.SetGuildBanner(ctx, u.dest.ID, data); err != nil {
		return fmt.Errorf("failed to set guild banner: %w", err)
	}
	log.Printf("✅ Guild banner cloned")
	u.wait(ctx, u.cfg.CloneSettings.Delay)
	return nil
}

// ProcessCommunity applies the source's community settings to the
// destination. The public-updates channel is mandatory for community mode,
// so a missing mapping for it aborts this phase; the other special channels
// degrade to unset.
func (u *ClonerUseCase) ProcessCommunity(ctx context.Context) error {
	if !u.communityEnabled {
		return nil
	}

	publicUpdates := u.mappings.Channel(u.source.PublicUpdatesChannelID)
	if publicUpdates.IsAbsent() {
		log.Printf("❌ Can't create community: missing access to public updates channel")
		return nil
	}

	settings := models.CommunitySettings{
		VerificationLevel:      u.source.VerificationLevel,
		DefaultNotifications:   u.source.DefaultNotifications,
		ExplicitContentFilter:  u.source.ExplicitContentFilter,
		PreferredLocale:        u.source.PreferredLocale,
		AFKTimeout:             u.source.AFKTimeout,
		SystemChannelFlags:     u.source.SystemChannelFlags,
		PublicUpdatesChannelID: publicUpdates.MustGet().ID,
	}
	if ref, ok := u.mappings.Channel(u.source.AFKChannelID).Get(); ok {
		settings.AFKChannelID = ref.ID
	}
	if ref, ok := u.mappings.Channel(u.source.SystemChannelID).Get(); ok {
		settings.SystemChannelID = ref.ID
	}
	if ref, ok := u.mappings.Channel(u.source.RulesChannelID).Get(); ok {
		settings.RulesChannelID = ref.ID
	}

	if err := u.client.EditCommunity(ctx, u.dest.ID, settings); err != nil {
		return fmt.Errorf("failed to enable community mode: %w", err)
	}
	log.Printf("✅ Community settings processed")
	u.wait(ctx, u.cfg.CloneSettings.Delay)
	return nil
}
