package models

// MappingState is the serialized identity mapping: source id -> destination
// ref per entity class, plus the webhook cache keyed by destination channel id.
type MappingState struct {
	Roles      map[string]EntityRef `json:"roles"`
	Categories map[string]EntityRef `json:"categories"`
	Channels   map[string]EntityRef `json:"channels"`
	Emojis     map[string]EntityRef `json:"emojis"`
	Webhooks   map[string]*Webhook  `json:"webhooks"`
}

// RunState is the persisted form of an in-progress replication run. It is
// written as a single JSON document and loaded back into identical shape so
// an interrupted run can resume from the last completed phase.
type RunState struct {
	RunID         string `json:"run_id"`
	SourceGuildID string `json:"source_guild_id"`
	DestGuildID   string `json:"dest_guild_id"`

	ClearGuild         bool `json:"clear_guild"`
	CloneIcon          bool `json:"clone_icon"`
	CloneBanner        bool `json:"clone_banner"`
	CloneRoles         bool `json:"clone_roles"`
	CloneChannels      bool `json:"clone_channels"`
	CloneOverwrites    bool `json:"clone_overwrites"`
	CloneEmojis        bool `json:"clone_emojis"`
	CloneStickers      bool `json:"clone_stickers"`
	CloneMessages      bool `json:"clone_messages"`
	LiveUpdate         bool `json:"live_update"`
	ProcessNewMessages bool `json:"process_new_messages"`
	OldestFirst        bool `json:"oldest_first"`

	CommunityEnabled   bool `json:"community_enabled"`
	ProcessingMessages bool `json:"processing_messages"`

	MessageQueue     []QueuedMessage `json:"message_queue"`
	NewMessagesQueue []QueuedMessage `json:"new_messages_queue"`

	Mappings          MappingState `json:"mappings"`
	ProcessedChannels []string     `json:"processed_channels"`

	LastCompletedPhase string `json:"last_completed_phase"`
}
