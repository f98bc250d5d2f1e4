package models

// Role is a snapshot of a guild role from the source guild.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       int    `json:"color"`
	Hoist       bool   `json:"hoist"`
	Mentionable bool   `json:"mentionable"`
	Permissions int64  `json:"permissions"`
	Position    int    `json:"position"`
	// IsEveryone marks the implicit default role, which every guild has
	// exactly one of and which cannot be deleted or recreated.
	IsEveryone bool `json:"is_everyone"`
}

// RoleParams carries the attributes needed to create or edit a role.
type RoleParams struct {
	Name        string
	Color       int
	Hoist       bool
	Mentionable bool
	Permissions int64
}

// ChannelKind is the tagged variant over the channel subtypes the engine
// knows how to recreate.
type ChannelKind int

const (
	ChannelKindText ChannelKind = iota
	ChannelKindVoice
	ChannelKindCategory
	ChannelKindStage
	ChannelKindForum
)

// String returns the lowercase subtype name used in logs.
func (k ChannelKind) String() string {
	switch k {
	case ChannelKindText:
		return "text"
	case ChannelKindVoice:
		return "voice"
	case ChannelKindCategory:
		return "category"
	case ChannelKindStage:
		return "stage"
	case ChannelKindForum:
		return "forum"
	default:
		return "unknown"
	}
}

// IsCommunityOnly reports whether the subtype requires community features.
func (k ChannelKind) IsCommunityOnly() bool {
	return k == ChannelKindStage || k == ChannelKindForum
}

// HasHistory reports whether the subtype carries a readable message history.
func (k ChannelKind) HasHistory() bool {
	return k == ChannelKindText || k == ChannelKindVoice
}

// OverwriteType distinguishes role-keyed from member-keyed permission
// overwrites. Only role overwrites are portable between guilds.
type OverwriteType int

const (
	OverwriteTypeRole OverwriteType = iota
	OverwriteTypeMember
)

// PermissionOverwrite is a per-role (or per-member) permission delta
// attached to a category or channel.
type PermissionOverwrite struct {
	TargetID string        `json:"target_id"`
	Type     OverwriteType `json:"type"`
	Allow    int64         `json:"allow"`
	Deny     int64         `json:"deny"`
}

// ForumTag is a post tag configured on a forum channel.
type ForumTag struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Moderated bool   `json:"moderated"`
	EmojiID   string `json:"emoji_id"`
	EmojiName string `json:"emoji_name"`
}

// Channel is a snapshot of a guild channel (any subtype) from the source guild.
type Channel struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Kind     ChannelKind `json:"kind"`
	Position int         `json:"position"`
	ParentID string      `json:"parent_id"`

	Overwrites []PermissionOverwrite `json:"overwrites"`

	// Text / forum fields
	Topic                 string     `json:"topic"`
	NSFW                  bool       `json:"nsfw"`
	SlowmodeDelay         int        `json:"slowmode_delay"`
	DefaultThreadSlowmode int        `json:"default_thread_slowmode"`
	DefaultForumLayout    int        `json:"default_forum_layout"`
	AvailableTags         []ForumTag `json:"available_tags,omitempty"`

	// Voice / stage fields
	Bitrate   int `json:"bitrate"`
	UserLimit int `json:"user_limit"`
}

// ChannelParams carries the attributes needed to create a channel of any
// subtype in the destination guild. ParentID and overwrite targets are
// destination ids, already resolved through the identity mapping.
type ChannelParams struct {
	Name     string
	Kind     ChannelKind
	Position int
	ParentID string

	Overwrites []PermissionOverwrite

	Topic                 string
	NSFW                  bool
	SlowmodeDelay         int
	DefaultThreadSlowmode int
	DefaultForumLayout    int
	AvailableTags         []ForumTag

	Bitrate   int
	UserLimit int
}

// Emoji is a snapshot of a custom emoji from the source guild.
type Emoji struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Animated bool   `json:"animated"`
	URL      string `json:"url"`
}

// Sticker is a snapshot of a guild sticker from the source guild.
type Sticker struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Emoji is the unicode emoji tag the sticker is indexed under
	Emoji string `json:"emoji"`
	URL   string `json:"url"`
}

// StickerParams carries the attributes needed to create a sticker.
type StickerParams struct {
	Name        string
	Description string
	Emoji       string
	FileName    string
}

// FetchedData is the one-time snapshot of all source guild entities, taken
// at the start of a run so later phases see a consistent view even if the
// source changes mid-run.
type FetchedData struct {
	Roles    []Role    `json:"roles"`
	Channels []Channel `json:"channels"`
	Emojis   []Emoji   `json:"emojis"`
	Stickers []Sticker `json:"stickers"`
}
