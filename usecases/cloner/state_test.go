package cloner

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildcloner/clients"
	"guildcloner/models"
	"guildcloner/services/mappings"
	"guildcloner/services/statestore"
)

func TestSaveAndLoadState(t *testing.T) {
	t.Run("Round trip restores mappings, queues and resume point", func(t *testing.T) {
		stateFile := filepath.Join(t.TempDir(), "clone_state.json")
		store := statestore.NewStore(stateFile)

		engine := NewClonerUseCase(&clients.MockGuildClient{}, testConfig(), mappings.NewStore(), store)
		engine.source = testSourceGuild()
		engine.dest = testDestGuild()
		engine.communityEnabled = true
		engine.mappings.AddRole("role_src", models.EntityRef{ID: "role_dst", Name: "mods"})
		engine.mappings.AddChannel("chan_src", models.EntityRef{ID: "chan_dst", Name: "chat"})
		engine.markDrained("chan_dst")
		engine.markPhaseComplete(PhaseChannels)
		engine.mu.Lock()
		engine.newMessages = []models.QueuedMessage{
			{DestChannelID: "chan_dst", Message: models.Message{ID: "msg_1", Content: "pending"}},
		}
		engine.mu.Unlock()

		require.NoError(t, engine.SaveState())

		restored := NewClonerUseCase(&clients.MockGuildClient{}, testConfig(), mappings.NewStore(), store)
		sourceID, destID, err := restored.LoadState()

		require.NoError(t, err)
		assert.Equal(t, "guild_src", sourceID)
		assert.Equal(t, "guild_dst", destID)
		assert.Equal(t, engine.RunID(), restored.RunID())
		assert.Equal(t, PhaseChannels, restored.resumePoint())
		assert.True(t, restored.communityEnabled)
		assert.True(t, restored.isDrained("chan_dst"))

		ref, ok := restored.mappings.Role("role_src").Get()
		require.True(t, ok)
		assert.Equal(t, "role_dst", ref.ID)

		buffered := restored.takeNewMessages()
		require.Len(t, buffered, 1)
		assert.Equal(t, "pending", buffered[0].Message.Content)
	})

	t.Run("Save fails before guilds are acquired", func(t *testing.T) {
		store := statestore.NewStore(filepath.Join(t.TempDir(), "clone_state.json"))
		engine := NewClonerUseCase(&clients.MockGuildClient{}, testConfig(), mappings.NewStore(), store)

		assert.Error(t, engine.SaveState())
	})

	t.Run("Load fails when no state file exists", func(t *testing.T) {
		store := statestore.NewStore(filepath.Join(t.TempDir(), "missing.json"))
		engine := NewClonerUseCase(&clients.MockGuildClient{}, testConfig(), mappings.NewStore(), store)

		_, _, err := engine.LoadState()
		assert.Error(t, err)
	})
}
