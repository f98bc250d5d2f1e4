package cloner

import (
	"fmt"
	"log"

	"guildcloner/models"
)

// buildRunState captures everything except the mutable pipeline fields,
// which the caller copies under u.mu.
func (u *ClonerUseCase) buildRunState() *models.RunState {
	s := u.cfg.CloneSettings
	return &models.RunState{
		RunID:         u.runID,
		SourceGuildID: u.source.ID,
		DestGuildID:   u.dest.ID,

		ClearGuild:         s.ClearGuild,
		CloneIcon:          s.Icon,
		CloneBanner:        s.Banner,
		CloneRoles:         s.Roles,
		CloneChannels:      s.Channels,
		CloneOverwrites:    s.Overwrites,
		CloneEmojis:        s.Emojis,
		CloneStickers:      s.Stickers,
		CloneMessages:      u.cfg.MessageSettings.Enabled,
		LiveUpdate:         u.cfg.LiveSettings.Enabled,
		ProcessNewMessages: u.cfg.LiveSettings.ProcessNewMessages,
		OldestFirst:        u.cfg.MessageSettings.OldestFirst,

		CommunityEnabled: u.communityEnabled,

		Mappings: u.mappings.Snapshot(),
	}
}

// ResetResumePoint clears the recorded phase progress so a loaded run
// re-executes every enabled phase against its restored mappings.
func (u *ClonerUseCase) ResetResumePoint() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.lastCompletedPhase = ""
}

// SaveState serializes the full run into the configured state file so an
// interrupted run can resume. Safe to call from a signal handler while
// phases are running.
func (u *ClonerUseCase) SaveState() error {
	if u.stateStore == nil {
		return fmt.Errorf("no state store configured")
	}
	if u.source == nil || u.dest == nil {
		return fmt.Errorf("nothing to save: guilds not acquired")
	}

	u.mu.Lock()
	processed := make([]string, 0, len(u.processedChannels))
	for channelID := range u.processedChannels {
		processed = append(processed, channelID)
	}
	state := u.buildRunState()
	state.ProcessingMessages = u.processingMessages
	state.MessageQueue = append(state.MessageQueue, u.messageQueue...)
	state.NewMessagesQueue = append(state.NewMessagesQueue, u.newMessages...)
	state.ProcessedChannels = processed
	state.LastCompletedPhase = u.lastCompletedPhase
	u.mu.Unlock()

	if err := u.stateStore.Save(state); err != nil {
		return fmt.Errorf("failed to save run state: %w", err)
	}
	log.Printf("💾 Run state saved (last completed phase: %s)", state.LastCompletedPhase)
	return nil
}

// LoadState restores a previously saved run: identity mappings, pending
// queues, processed-channel set and the resume point. The caller still
// invokes AcquireGuilds with the ids recorded in the state.
func (u *ClonerUseCase) LoadState() (sourceGuildID, destGuildID string, err error) {
	if u.stateStore == nil {
		return "", "", fmt.Errorf("no state store configured")
	}

	state, err := u.stateStore.Load()
	if err != nil {
		return "", "", fmt.Errorf("failed to load run state: %w", err)
	}

	u.mappings.Restore(state.Mappings)

	u.mu.Lock()
	u.runID = state.RunID
	u.communityEnabled = state.CommunityEnabled
	u.processingMessages = state.ProcessingMessages
	u.messageQueue = append(u.messageQueue, state.MessageQueue...)
	u.newMessages = append(u.newMessages, state.NewMessagesQueue...)
	for _, channelID := range state.ProcessedChannels {
		u.processedChannels[channelID] = true
	}
	u.lastCompletedPhase = state.LastCompletedPhase
	u.mu.Unlock()

	log.Printf("📋 Run state loaded: %s (last completed phase: %s)", state.RunID, state.LastCompletedPhase)
	return state.SourceGuildID, state.DestGuildID, nil
}
