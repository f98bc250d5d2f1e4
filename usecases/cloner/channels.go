package cloner

import (
	"context"
	"log"

	"guildcloner/models"
	"guildcloner/utils"
)

// translateOverwrites rewrites permission overwrites onto destination role
// ids. Member overwrites never transfer (members don't exist on the
// destination), and role overwrites whose role wasn't created are dropped.
func (u *ClonerUseCase) translateOverwrites(overwrites []models.PermissionOverwrite) []models.PermissionOverwrite {
	if !u.cfg.CloneSettings.Overwrites {
		return nil
	}

	translated := make([]models.PermissionOverwrite, 0, len(overwrites))
	for _, overwrite := range overwrites {
		if overwrite.Type != models.OverwriteTypeRole {
			continue
		}
		ref, ok := u.mappings.Role(overwrite.TargetID).Get()
		if !ok {
			continue
		}
		translated = append(translated, models.PermissionOverwrite{
			TargetID: ref.ID,
			Type:     models.OverwriteTypeRole,
			Allow:    overwrite.Allow,
			Deny:     overwrite.Deny,
		})
	}
	return translated
}

// destParentID resolves a source channel's parent category to its
// destination id. The second return is false when the channel has a parent
// that was never mapped, which means the channel must be skipped.
func (u *ClonerUseCase) destParentID(sourceParentID string) (string, bool) {
	if sourceParentID == "" {
		return "", true
	}
	ref, ok := u.mappings.Category(sourceParentID).Get()
	if !ok {
		return "", false
	}
	return ref.ID, true
}

// CloneCategories recreates every source category. Categories go first so
// channel creation can resolve parents through the mapping.
func (u *ClonerUseCase) CloneCategories(ctx context.Context) error {
	delay := u.cfg.CloneSettings.Delay

	for _, channel := range u.fetched.Channels {
		if channel.Kind != models.ChannelKindCategory {
			continue
		}

		created, err := u.client.CreateChannel(ctx, u.dest.ID, models.ChannelParams{
			Name:       channel.Name,
			Kind:       models.ChannelKindCategory,
			Position:   channel.Position,
			Overwrites: u.translateOverwrites(channel.Overwrites),
		})
		if err != nil {
			log.Printf("⚠️ Failed to create category %s: %v", channel.Name, err)
			u.wait(ctx, delay)
			continue
		}
		u.mappings.AddCategory(channel.ID, models.EntityRef{ID: created.ID, Name: created.Name})
		log.Printf("✅ Created category: %s", created.Name)
		u.wait(ctx, delay)
	}
	return nil
}

// CloneChannels recreates the source's text and voice channels. Community
// subtypes (stage, forum) wait until AddCommunityChannels because they
// require community mode to be active on the destination first.
func (u *ClonerUseCase) CloneChannels(ctx context.Context) error {
	delay := u.cfg.CloneSettings.Delay

	for _, channel := range u.fetched.Channels {
		if channel.Kind != models.ChannelKindText && channel.Kind != models.ChannelKindVoice {
			continue
		}

		parentID, ok := u.destParentID(channel.ParentID)
		if !ok {
			log.Printf("⚠️ Skipping %s channel %s: parent category was not created", channel.Kind, channel.Name)
			continue
		}

		params := models.ChannelParams{
			Name:       channel.Name,
			Kind:       channel.Kind,
			Position:   channel.Position,
			ParentID:   parentID,
			Overwrites: u.translateOverwrites(channel.Overwrites),
		}
		switch channel.Kind {
		case models.ChannelKindText:
			params.Topic = channel.Topic
			params.NSFW = channel.NSFW
			params.SlowmodeDelay = channel.SlowmodeDelay
			params.DefaultThreadSlowmode = channel.DefaultThreadSlowmode
		case models.ChannelKindVoice:
			params.Bitrate = utils.ClampBitrate(channel.Bitrate)
			params.UserLimit = channel.UserLimit
		}

		created, err := u.client.CreateChannel(ctx, u.dest.ID, params)
		if err != nil {
			log.Printf("⚠️ Failed to create %s channel %s: %v", channel.Kind, channel.Name, err)
			u.wait(ctx, delay)
			continue
		}
		u.mappings.AddChannel(channel.ID, models.EntityRef{ID: created.ID, Name: created.Name})
		log.Printf("✅ Created %s channel: %s", channel.Kind, created.Name)
		u.wait(ctx, delay)
	}
	return nil
}

// AddCommunityChannels recreates the stage and forum channels, which only
// exist once community mode is active. Forum tag emojis resolve through the
// emoji mapping; a tag whose emoji has no mapping keeps its name without
// the emoji.
func (u *ClonerUseCase) AddCommunityChannels(ctx context.Context) error {
	if !u.communityEnabled {
		return nil
	}
	delay := u.cfg.CloneSettings.Delay

	for _, channel := range u.fetched.Channels {
		if !channel.Kind.IsCommunityOnly() {
			continue
		}

		parentID, ok := u.destParentID(channel.ParentID)
		if !ok {
			log.Printf("⚠️ Skipping %s channel %s: parent category was not created", channel.Kind, channel.Name)
			continue
		}

		params := models.ChannelParams{
			Name:       channel.Name,
			Kind:       channel.Kind,
			Position:   channel.Position,
			ParentID:   parentID,
			Overwrites: u.translateOverwrites(channel.Overwrites),
		}
		switch channel.Kind {
		case models.ChannelKindStage:
			params.Bitrate = utils.ClampBitrate(channel.Bitrate)
			params.UserLimit = channel.UserLimit
		case models.ChannelKindForum:
			params.Topic = channel.Topic
			params.NSFW = channel.NSFW
			params.SlowmodeDelay = channel.SlowmodeDelay
			params.DefaultThreadSlowmode = channel.DefaultThreadSlowmode
			params.DefaultForumLayout = channel.DefaultForumLayout
			params.AvailableTags = u.translateForumTags(channel.AvailableTags)
		}

		created, err := u.client.CreateChannel(ctx, u.dest.ID, params)
		if err != nil {
			log.Printf("⚠️ Failed to create %s channel %s: %v", channel.Kind, channel.Name, err)
			u.wait(ctx, delay)
			continue
		}
		u.mappings.AddChannel(channel.ID, models.EntityRef{ID: created.ID, Name: created.Name})
		log.Printf("✅ Created %s channel: %s", channel.Kind, created.Name)
		u.wait(ctx, delay)
	}
	return nil
}

func (u *ClonerUseCase) translateForumTags(tags []models.ForumTag) []models.ForumTag {
	translated := make([]models.ForumTag, 0, len(tags))
	for _, tag := range tags {
		out := models.ForumTag{
			Name:      tag.Name,
			Moderated: tag.Moderated,
			EmojiName: tag.EmojiName,
		}
		if tag.EmojiID != "" {
			if ref, ok := u.mappings.Emoji(tag.EmojiID).Get(); ok {
				out.EmojiID = ref.ID
			}
		}
		translated = append(translated, out)
	}
	return translated
}
