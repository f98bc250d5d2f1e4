package mappings

import (
	"sync"

	"github.com/samber/mo"

	"guildcloner/models"
)

// classMap is a bijection between source ids and destination refs for one
// entity class, with O(1) lookups in both directions.
type classMap struct {
	mu      sync.RWMutex
	forward map[string]models.EntityRef
	reverse map[string]string
}

func newClassMap() *classMap {
	return &classMap{
		forward: make(map[string]models.EntityRef),
		reverse: make(map[string]string),
	}
}

func (m *classMap) insert(sourceID string, ref models.EntityRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forward[sourceID] = ref
	m.reverse[ref.ID] = sourceID
}

func (m *classMap) get(sourceID string) mo.Option[models.EntityRef] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ref, ok := m.forward[sourceID]
	if !ok {
		return mo.None[models.EntityRef]()
	}
	return mo.Some(ref)
}

func (m *classMap) sourceID(destID string) mo.Option[string] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sourceID, ok := m.reverse[destID]
	if !ok {
		return mo.None[string]()
	}
	return mo.Some(sourceID)
}

func (m *classMap) snapshot() map[string]models.EntityRef {
	m.mu.RLock()
	defer m.mu.RUnlock()
	copied := make(map[string]models.EntityRef, len(m.forward))
	for sourceID, ref := range m.forward {
		copied[sourceID] = ref
	}
	return copied
}

func (m *classMap) restore(entries map[string]models.EntityRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for sourceID, ref := range entries {
		m.forward[sourceID] = ref
		m.reverse[ref.ID] = sourceID
	}
}

func (m *classMap) size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.forward)
}

// Store is the identity mapping between source entities and the destination
// entities created for them, keyed per entity class, plus the webhook cache
// keyed by destination channel id. An entry is inserted exactly once,
// immediately after successful creation; an absent lookup means the
// dependency is not yet satisfied.
type Store struct {
	roles      *classMap
	categories *classMap
	channels   *classMap
	emojis     *classMap

	webhookMu sync.RWMutex
	webhooks  map[string]*models.Webhook
}

// NewStore creates an empty identity mapping store
func NewStore() *Store {
	return &Store{
		roles:      newClassMap(),
		categories: newClassMap(),
		channels:   newClassMap(),
		emojis:     newClassMap(),
		webhooks:   make(map[string]*models.Webhook),
	}
}

func (s *Store) AddRole(sourceID string, ref models.EntityRef)     { s.roles.insert(sourceID, ref) }
func (s *Store) AddCategory(sourceID string, ref models.EntityRef) { s.categories.insert(sourceID, ref) }
func (s *Store) AddChannel(sourceID string, ref models.EntityRef)  { s.channels.insert(sourceID, ref) }
func (s *Store) AddEmoji(sourceID string, ref models.EntityRef)    { s.emojis.insert(sourceID, ref) }

func (s *Store) Role(sourceID string) mo.Option[models.EntityRef]     { return s.roles.get(sourceID) }
func (s *Store) Category(sourceID string) mo.Option[models.EntityRef] { return s.categories.get(sourceID) }
func (s *Store) Channel(sourceID string) mo.Option[models.EntityRef]  { return s.channels.get(sourceID) }
func (s *Store) Emoji(sourceID string) mo.Option[models.EntityRef]    { return s.emojis.get(sourceID) }

// SourceChannelID resolves a destination channel id back to its source id
func (s *Store) SourceChannelID(destID string) mo.Option[string] { return s.channels.sourceID(destID) }

func (s *Store) RoleCount() int    { return s.roles.size() }
func (s *Store) ChannelCount() int { return s.channels.size() }

// RolePairs returns a copy of the role mapping for content rewriting
func (s *Store) RolePairs() map[string]models.EntityRef { return s.roles.snapshot() }

// ChannelPairs returns a copy of the channel mapping for content rewriting
// and queue population
func (s *Store) ChannelPairs() map[string]models.EntityRef { return s.channels.snapshot() }

// Webhook returns the cached proxy sender for a destination channel, if any
func (s *Store) Webhook(destChannelID string) mo.Option[*models.Webhook] {
	s.webhookMu.RLock()
	defer s.webhookMu.RUnlock()
	webhook, ok := s.webhooks[destChannelID]
	if !ok {
		return mo.None[*models.Webhook]()
	}
	return mo.Some(webhook)
}

// AddWebhook caches the proxy sender for a destination channel. At most one
// webhook is active per destination channel; callers create lazily and
// reuse the cached one.
func (s *Store) AddWebhook(destChannelID string, webhook *models.Webhook) {
	s.webhookMu.Lock()
	defer s.webhookMu.Unlock()
	s.webhooks[destChannelID] = webhook
}

// Webhooks returns a copy of the webhook cache
func (s *Store) Webhooks() map[string]*models.Webhook {
	s.webhookMu.RLock()
	defer s.webhookMu.RUnlock()
	copied := make(map[string]*models.Webhook, len(s.webhooks))
	for channelID, webhook := range s.webhooks {
		copied[channelID] = webhook
	}
	return copied
}

// ClearWebhooks empties the webhook cache after cleanup
func (s *Store) ClearWebhooks() {
	s.webhookMu.Lock()
	defer s.webhookMu.Unlock()
	s.webhooks = make(map[string]*models.Webhook)
}

// Snapshot serializes the full mapping state for run-state persistence
func (s *Store) Snapshot() models.MappingState {
	return models.MappingState{
		Roles:      s.roles.snapshot(),
		Categories: s.categories.snapshot(),
		Channels:   s.channels.snapshot(),
		Emojis:     s.emojis.snapshot(),
		Webhooks:   s.Webhooks(),
	}
}

// Restore loads a previously serialized mapping state
func (s *Store) Restore(state models.MappingState) {
	s.roles.restore(state.Roles)
	s.categories.restore(state.Categories)
	s.channels.restore(state.Channels)
	s.emojis.restore(state.Emojis)

	s.webhookMu.Lock()
	defer s.webhookMu.Unlock()
	for channelID, webhook := range state.Webhooks {
		s.webhooks[channelID] = webhook
	}
}
