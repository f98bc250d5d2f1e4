package mappings

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildcloner/models"
)

func TestStore_ForwardAndReverseLookup(t *testing.T) {
	store := NewStore()
	store.AddChannel("src-1", models.EntityRef{ID: "dest-1", Name: "general"})

	maybeRef := store.Channel("src-1")
	require.True(t, maybeRef.IsPresent())
	assert.Equal(t, "dest-1", maybeRef.MustGet().ID)
	assert.Equal(t, "general", maybeRef.MustGet().Name)

	maybeSource := store.SourceChannelID("dest-1")
	require.True(t, maybeSource.IsPresent())
	assert.Equal(t, "src-1", maybeSource.MustGet())
}

func TestStore_UnmappedLookupIsAbsent(t *testing.T) {
	store := NewStore()

	assert.False(t, store.Role("missing").IsPresent())
	assert.False(t, store.Category("missing").IsPresent())
	assert.False(t, store.Channel("missing").IsPresent())
	assert.False(t, store.Emoji("missing").IsPresent())
	assert.False(t, store.Webhook("missing").IsPresent())
}

func TestStore_IdempotentLookup(t *testing.T) {
	store := NewStore()
	store.AddRole("src-role", models.EntityRef{ID: "dest-role", Name: "admin"})

	first := store.Role("src-role")
	second := store.Role("src-role")
	require.True(t, first.IsPresent())
	require.True(t, second.IsPresent())
	assert.Equal(t, first.MustGet(), second.MustGet())
}

func TestStore_ClassesAreIndependent(t *testing.T) {
	store := NewStore()
	store.AddRole("id-1", models.EntityRef{ID: "dest-role"})

	// Same source id in a different class must not resolve
	assert.False(t, store.Channel("id-1").IsPresent())
	assert.False(t, store.Category("id-1").IsPresent())
}

func TestStore_WebhookCache(t *testing.T) {
	store := NewStore()
	webhook := &models.Webhook{ID: "wh-1", Token: "tok", ChannelID: "dest-1"}
	store.AddWebhook("dest-1", webhook)

	maybeWebhook := store.Webhook("dest-1")
	require.True(t, maybeWebhook.IsPresent())
	assert.Same(t, webhook, maybeWebhook.MustGet())

	store.ClearWebhooks()
	assert.False(t, store.Webhook("dest-1").IsPresent())
	assert.Empty(t, store.Webhooks())
}

func TestStore_SnapshotRestoreRoundTrip(t *testing.T) {
	store := NewStore()
	store.AddRole("r1", models.EntityRef{ID: "nr1", Name: "mod"})
	store.AddCategory("cat1", models.EntityRef{ID: "ncat1", Name: "info"})
	store.AddChannel("c1", models.EntityRef{ID: "nc1", Name: "general"})
	store.AddEmoji("e1", models.EntityRef{ID: "ne1", Name: "kek"})
	store.AddWebhook("nc1", &models.Webhook{ID: "wh-1", Token: "tok", ChannelID: "nc1"})

	restored := NewStore()
	restored.Restore(store.Snapshot())

	require.True(t, restored.Role("r1").IsPresent())
	require.True(t, restored.Category("cat1").IsPresent())
	require.True(t, restored.Channel("c1").IsPresent())
	require.True(t, restored.Emoji("e1").IsPresent())
	require.True(t, restored.Webhook("nc1").IsPresent())

	// Reverse index must be rebuilt too
	maybeSource := restored.SourceChannelID("nc1")
	require.True(t, maybeSource.IsPresent())
	assert.Equal(t, "c1", maybeSource.MustGet())
}

func TestStore_ConcurrentChannelPartitionedAccess(t *testing.T) {
	// Concurrent per-channel tasks each touch only their own channel's
	// entries; the store must tolerate that access pattern.
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sourceID := fmt.Sprintf("src-%d", i)
			destID := fmt.Sprintf("dest-%d", i)
			store.AddChannel(sourceID, models.EntityRef{ID: destID})
			store.AddWebhook(destID, &models.Webhook{ID: fmt.Sprintf("wh-%d", i), ChannelID: destID})
			assert.True(t, store.Channel(sourceID).IsPresent())
			assert.True(t, store.Webhook(destID).IsPresent())
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 32, store.ChannelCount())
	assert.Len(t, store.Webhooks(), 32)
}
