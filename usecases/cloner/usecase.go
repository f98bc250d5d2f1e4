package cloner

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"guildcloner/clients"
	"guildcloner/config"
	"guildcloner/core"
	"guildcloner/models"
	"guildcloner/services/mappings"
	"guildcloner/services/statestore"
	"guildcloner/utils"
)

// Phase names, in required execution order. Later phases depend on the
// identity mappings earlier ones fill in.
const (
	PhaseFetch             = "fetch"
	PhasePrepare           = "prepare"
	PhaseIcon              = "icon"
	PhaseBanner            = "banner"
	PhaseRoles             = "roles"
	PhaseCategories        = "categories"
	PhaseChannels          = "channels"
	PhaseCommunity         = "community"
	PhaseCommunityChannels = "community_channels"
	PhaseEmojis            = "emojis"
	PhaseStickers          = "stickers"
	PhaseMessages          = "messages"
)

// ClonerUseCase replicates one guild's structure and messages onto another.
// A single instance owns one replication run: the entity snapshot, the
// identity mappings, the message pipeline and the live relay.
type ClonerUseCase struct {
	client     clients.GuildClient
	cfg        config.CloneConfig
	mappings   *mappings.Store
	stateStore *statestore.Store

	runID  string
	source *models.Guild
	dest   *models.Guild

	fetched          models.FetchedData
	communityEnabled bool

	// mu guards the pipeline state shared with the live relay handler
	mu                 sync.Mutex
	processingMessages bool
	processedChannels  map[string]bool
	messageQueue       []models.QueuedMessage
	newMessages        []models.QueuedMessage
	lastCompletedPhase string

	removeHandler func()
}

// NewClonerUseCase creates a new instance of ClonerUseCase
func NewClonerUseCase(
	client clients.GuildClient,
	cfg config.CloneConfig,
	mappingStore *mappings.Store,
	stateStore *statestore.Store,
) *ClonerUseCase {
	return &ClonerUseCase{
		client:            client,
		cfg:               cfg,
		mappings:          mappingStore,
		stateStore:        stateStore,
		runID:             core.NewID("run"),
		processedChannels: make(map[string]bool),
	}
}

// RunID identifies this replication run in logs and webhook names
func (u *ClonerUseCase) RunID() string {
	return u.runID
}

// formatGuildName renders the configured name template against the source
// guild name.
func (u *ClonerUseCase) formatGuildName() string {
	return strings.ReplaceAll(u.cfg.CloneSettings.NameSyntax, "%original%", u.source.Name)
}

// AcquireGuilds binds the run to its source guild and an existing or newly
// created destination guild. This is the only run-fatal step: without a
// destination no phase can proceed.
func (u *ClonerUseCase) AcquireGuilds(ctx context.Context, sourceGuildID, destGuildID string) error {
	source, err := u.client.Guild(ctx, sourceGuildID)
	if err != nil {
		return fmt.Errorf("failed to fetch source guild: %w", err)
	}
	u.source = source
	log.Printf("📋 Bound to source guild %s (%s)", source.Name, source.ID)

	targetName := u.formatGuildName()

	if destGuildID != "" {
		dest, err := u.client.Guild(ctx, destGuildID)
		if err != nil {
			return fmt.Errorf("failed to fetch destination guild %s: %w", destGuildID, err)
		}
		u.dest = dest
		if dest.Name != targetName {
			if err := u.client.EditGuildName(ctx, dest.ID, targetName); err != nil {
				log.Printf("⚠️ Failed to rename destination guild: %v", err)
			}
		}
		log.Printf("📋 Using existing destination guild %s", dest.ID)
		return nil
	}

	log.Printf("🆕 Creating destination guild %q", targetName)
	dest, err := u.client.CreateGuild(ctx, targetName)
	if err != nil {
		log.Printf("❌ Unable to create destination guild automatically")
		log.Printf("❌ Create it yourself and re-run with the new=id argument")
		return fmt.Errorf("failed to create destination guild: %w", err)
	}
	u.dest = dest
	return nil
}

type phase struct {
	name    string
	enabled bool
	run     func(context.Context) error
}

// Run executes every enabled phase in dependency order. Per-item failures
// inside a phase are logged and skipped; a phase failure is logged and the
// run continues, because partial completion is routine under rate limits
// and permission gaps. Only the fetch snapshot is load-bearing enough to
// abort on.
func (u *ClonerUseCase) Run(ctx context.Context) error {
	if u.source == nil || u.dest == nil {
		return fmt.Errorf("guilds not acquired: call AcquireGuilds first")
	}

	startTime := time.Now()
	settings := u.cfg.CloneSettings
	communityPhases := settings.Channels && settings.CommunitySetup

	phases := []phase{
		{PhaseFetch, true, u.FetchRequiredData},
		{PhasePrepare, settings.ClearGuild, u.PrepareGuild},
		{PhaseIcon, settings.Icon, u.CloneIcon},
		{PhaseBanner, settings.Banner, u.CloneBanner},
		{PhaseRoles, settings.Roles, u.CloneRoles},
		{PhaseCategories, settings.Channels, u.CloneCategories},
		{PhaseChannels, settings.Channels, u.CloneChannels},
		{PhaseCommunity, communityPhases, u.ProcessCommunity},
		{PhaseCommunityChannels, communityPhases, u.AddCommunityChannels},
		{PhaseEmojis, settings.Emojis, u.CloneEmojis},
		{PhaseStickers, settings.Stickers, u.CloneStickers},
		{PhaseMessages, u.cfg.MessageSettings.Enabled, u.CloneMessages},
	}

	if u.cfg.LiveSettings.Enabled && u.removeHandler == nil {
		u.attachLiveRelay()
	}

	// Phases up to and including the resume point are already done; the
	// fetch snapshot always reruns because it only lives in memory.
	resumeIdx := -1
	for i, p := range phases {
		if p.name == u.resumePoint() {
			resumeIdx = i
			break
		}
	}

	for i, p := range phases {
		if i <= resumeIdx && p.name != PhaseFetch {
			if p.enabled {
				log.Printf("⏭️ Skipping already completed phase: %s", p.name)
			}
			continue
		}
		if !p.enabled {
			continue
		}

		log.Printf("📋 Processing phase: %s", p.name)
		if err := p.run(ctx); err != nil {
			if p.name == PhaseFetch {
				return fmt.Errorf("failed to snapshot source guild: %w", err)
			}
			log.Printf("❌ Phase %s failed: %v", p.name, err)
			continue
		}
		u.markPhaseComplete(p.name)
	}

	log.Printf("✅ Done in %s", utils.FormatDuration(time.Since(startTime)))
	return nil
}

func (u *ClonerUseCase) markPhaseComplete(name string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.lastCompletedPhase = name
}

func (u *ClonerUseCase) resumePoint() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastCompletedPhase
}

// FetchRequiredData snapshots all source entities once, so the rest of the
// run sees a consistent view even if the source changes mid-run, and no
// phase re-issues rate-limited list calls.
func (u *ClonerUseCase) FetchRequiredData(ctx context.Context) error {
	log.Printf("📋 Fetching all required data (this can take a few minutes)")

	roles, err := u.client.Roles(ctx, u.source.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch roles: %w", err)
	}
	channels, err := u.client.Channels(ctx, u.source.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch channels: %w", err)
	}
	emojis, err := u.client.Emojis(ctx, u.source.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch emojis: %w", err)
	}
	stickers, err := u.client.Stickers(ctx, u.source.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch stickers: %w", err)
	}

	u.fetched = models.FetchedData{
		Roles:    roles,
		Channels: channels,
		Emojis:   emojis,
		Stickers: stickers,
	}

	if u.source.Community {
		u.communityEnabled = true
		log.Printf("⚠️ Community mode is toggled. Will be set up after channel processing (if enabled).")
	}
	return nil
}

// wait sleeps for the given delay, returning early on context cancellation.
// Every remote-mutating call is followed by one of these; the delay is a
// configuration constant, not adaptive backoff.
func (u *ClonerUseCase) wait(ctx context.Context, delay time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}
