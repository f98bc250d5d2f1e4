package models

// Guild is an immutable snapshot of a guild, taken once per replication run.
type Guild struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	IconURL        string `json:"icon_url"`
	BannerURL      string `json:"banner_url"`
	IconAnimated   bool   `json:"icon_animated"`
	BannerAnimated bool   `json:"banner_animated"`

	// Feature flags relevant to replication
	Community         bool `json:"community"`
	HasBanner         bool `json:"has_banner"`
	HasAnimatedBanner bool `json:"has_animated_banner"`

	EmojiLimit   int `json:"emoji_limit"`
	StickerLimit int `json:"sticker_limit"`

	VerificationLevel     int    `json:"verification_level"`
	DefaultNotifications  int    `json:"default_notifications"`
	ExplicitContentFilter int    `json:"explicit_content_filter"`
	PreferredLocale       string `json:"preferred_locale"`
	AFKTimeout            int    `json:"afk_timeout"`
	SystemChannelFlags    int    `json:"system_channel_flags"`

	AFKChannelID           string `json:"afk_channel_id"`
	SystemChannelID        string `json:"system_channel_id"`
	RulesChannelID         string `json:"rules_channel_id"`
	PublicUpdatesChannelID string `json:"public_updates_channel_id"`
}

// CommunitySettings is the bundle of guild-level options applied when the
// source guild has community features enabled. Channel ids are destination
// ids, already resolved through the identity mapping.
type CommunitySettings struct {
	VerificationLevel     int    `json:"verification_level"`
	DefaultNotifications  int    `json:"default_notifications"`
	ExplicitContentFilter int    `json:"explicit_content_filter"`
	PreferredLocale       string `json:"preferred_locale"`
	AFKTimeout            int    `json:"afk_timeout"`
	SystemChannelFlags    int    `json:"system_channel_flags"`

	AFKChannelID           string `json:"afk_channel_id"`
	SystemChannelID        string `json:"system_channel_id"`
	RulesChannelID         string `json:"rules_channel_id"`
	PublicUpdatesChannelID string `json:"public_updates_channel_id"`
}

// EntityRef is the lightweight destination handle stored in the identity
// mapping: enough to reference the created entity and log it by name.
type EntityRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
