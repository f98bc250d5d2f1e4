package discord

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"guildcloner/models"
)

// Emoji slots per premium tier, sticker slots per premium tier. The API does
// not expose these limits directly.
var (
	emojiLimits   = map[discordgo.PremiumTier]int{0: 50, 1: 100, 2: 150, 3: 250}
	stickerLimits = map[discordgo.PremiumTier]int{0: 5, 1: 15, 2: 30, 3: 60}
)

func convertGuild(guild *discordgo.Guild) *models.Guild {
	hasFeature := func(feature discordgo.GuildFeature) bool {
		for _, f := range guild.Features {
			if f == feature {
				return true
			}
		}
		return false
	}

	converted := &models.Guild{
		ID:          guild.ID,
		Name:        guild.Name,
		Description: guild.Description,

		IconAnimated:   strings.HasPrefix(guild.Icon, "a_"),
		BannerAnimated: strings.HasPrefix(guild.Banner, "a_"),

		Community:         hasFeature(discordgo.GuildFeatureCommunity),
		HasBanner:         hasFeature(discordgo.GuildFeatureBanner),
		HasAnimatedBanner: hasFeature(discordgo.GuildFeatureAnimatedBanner),

		EmojiLimit:   emojiLimits[guild.PremiumTier],
		StickerLimit: stickerLimits[guild.PremiumTier],

		VerificationLevel:     int(guild.VerificationLevel),
		DefaultNotifications:  int(guild.DefaultMessageNotifications),
		ExplicitContentFilter: int(guild.ExplicitContentFilter),
		PreferredLocale:       guild.PreferredLocale,
		AFKTimeout:            guild.AfkTimeout,
		SystemChannelFlags:    int(guild.SystemChannelFlags),

		AFKChannelID:           guild.AfkChannelID,
		SystemChannelID:        guild.SystemChannelID,
		RulesChannelID:         guild.RulesChannelID,
		PublicUpdatesChannelID: guild.PublicUpdatesChannelID,
	}
	if guild.Icon != "" {
		converted.IconURL = guild.IconURL("1024")
	}
	if guild.Banner != "" {
		converted.BannerURL = guild.BannerURL("1024")
	}
	return converted
}

// convertChannel maps a guild channel onto the snapshot model. Subtypes the
// engine does not replicate (threads, announcement variants beyond plain
// news) report ok=false and are dropped from the snapshot.
func convertChannel(ch *discordgo.Channel) (models.Channel, bool) {
	var kind models.ChannelKind
	switch ch.Type {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		kind = models.ChannelKindText
	case discordgo.ChannelTypeGuildVoice:
		kind = models.ChannelKindVoice
	case discordgo.ChannelTypeGuildCategory:
		kind = models.ChannelKindCategory
	case discordgo.ChannelTypeGuildStageVoice:
		kind = models.ChannelKindStage
	case discordgo.ChannelTypeGuildForum:
		kind = models.ChannelKindForum
	default:
		return models.Channel{}, false
	}

	overwrites := make([]models.PermissionOverwrite, 0, len(ch.PermissionOverwrites))
	for _, ow := range ch.PermissionOverwrites {
		owType := models.OverwriteTypeMember
		if ow.Type == discordgo.PermissionOverwriteTypeRole {
			owType = models.OverwriteTypeRole
		}
		overwrites = append(overwrites, models.PermissionOverwrite{
			TargetID: ow.ID,
			Type:     owType,
			Allow:    ow.Allow,
			Deny:     ow.Deny,
		})
	}

	tags := make([]models.ForumTag, 0, len(ch.AvailableTags))
	for _, tag := range ch.AvailableTags {
		tags = append(tags, models.ForumTag{
			ID:        tag.ID,
			Name:      tag.Name,
			Moderated: tag.Moderated,
			EmojiID:   tag.EmojiID,
			EmojiName: tag.EmojiName,
		})
	}

	return models.Channel{
		ID:         ch.ID,
		Name:       ch.Name,
		Kind:       kind,
		Position:   ch.Position,
		ParentID:   ch.ParentID,
		Overwrites: overwrites,

		Topic:                 ch.Topic,
		NSFW:                  ch.NSFW,
		SlowmodeDelay:         ch.RateLimitPerUser,
		DefaultThreadSlowmode: ch.DefaultThreadRateLimitPerUser,
		DefaultForumLayout:    int(ch.DefaultForumLayout),
		AvailableTags:         tags,

		Bitrate:   ch.Bitrate,
		UserLimit: ch.UserLimit,
	}, true
}

func convertMessage(msg *discordgo.Message) models.Message {
	converted := models.Message{
		ID:        msg.ID,
		GuildID:   msg.GuildID,
		ChannelID: msg.ChannelID,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
		Embeds:    msg.Embeds,
	}
	if msg.Author != nil {
		converted.AuthorName = msg.Author.Username
		converted.AuthorDiscriminator = msg.Author.Discriminator
		converted.AuthorAvatarURL = msg.Author.AvatarURL("")
	}
	for _, attachment := range msg.Attachments {
		converted.Attachments = append(converted.Attachments, models.Attachment{
			Filename:    attachment.Filename,
			URL:         attachment.URL,
			ContentType: attachment.ContentType,
		})
	}
	return converted
}

func channelType(kind models.ChannelKind) discordgo.ChannelType {
	switch kind {
	case models.ChannelKindVoice:
		return discordgo.ChannelTypeGuildVoice
	case models.ChannelKindCategory:
		return discordgo.ChannelTypeGuildCategory
	case models.ChannelKindStage:
		return discordgo.ChannelTypeGuildStageVoice
	case models.ChannelKindForum:
		return discordgo.ChannelTypeGuildForum
	default:
		return discordgo.ChannelTypeGuildText
	}
}

func roleParams(params models.RoleParams) *discordgo.RoleParams {
	color := params.Color
	hoist := params.Hoist
	mentionable := params.Mentionable
	permissions := params.Permissions
	return &discordgo.RoleParams{
		Name:        params.Name,
		Color:       &color,
		Hoist:       &hoist,
		Permissions: &permissions,
		Mentionable: &mentionable,
	}
}

// imageDataURI encodes raw image bytes as the data URI form guild and emoji
// edit endpoints expect. The exact media subtype is not validated by the API.
func imageDataURI(image []byte) string {
	contentType := "image/png"
	if len(image) > 3 && string(image[:3]) == "GIF" {
		contentType = "image/gif"
	}
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(image))
}

func emojiURL(emojiID string, animated bool) string {
	if animated {
		return discordgo.EndpointCDN + "emojis/" + emojiID + ".gif"
	}
	return discordgo.EndpointCDN + "emojis/" + emojiID + ".png"
}

func stickerURL(stickerID string, format discordgo.StickerFormat) string {
	ext := ".png"
	switch format {
	case discordgo.StickerFormatTypeLottie:
		ext = ".json"
	case discordgo.StickerFormatTypeGIF:
		ext = ".gif"
	}
	return discordgo.EndpointCDN + "stickers/" + stickerID + ext
}
