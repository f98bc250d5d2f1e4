package cloner

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"guildcloner/clients"
	"guildcloner/core"
	"guildcloner/models"
)

func testMessage(id, channelID, content string) models.Message {
	return models.Message{
		ID:                  id,
		GuildID:             "guild_src",
		ChannelID:           channelID,
		Content:             content,
		Timestamp:           time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		AuthorName:          "alice",
		AuthorDiscriminator: "0420",
	}
}

// sentRecorder captures webhook sends per channel, in call order.
type sentRecorder struct {
	mu   sync.Mutex
	sent map[string][]string
}

func newSentRecorder() *sentRecorder {
	return &sentRecorder{sent: make(map[string][]string)}
}

func (r *sentRecorder) record(webhook *models.Webhook, params models.WebhookMessageParams) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent[webhook.ChannelID] = append(r.sent[webhook.ChannelID], params.Content)
}

func setupPipelineMocks(mockClient *clients.MockGuildClient, recorder *sentRecorder) {
	mockClient.On("Latency").Return(50 * time.Millisecond)
	mockClient.On("SendWebhookMessage", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			recorder.record(args.Get(1).(*models.Webhook), args.Get(2).(models.WebhookMessageParams))
		}).
		Return(nil)
	mockClient.On("DeleteWebhook", mock.Anything, mock.Anything).Return(nil)
}

func expectWebhook(mockClient *clients.MockGuildClient, channelID string) {
	mockClient.On("CreateWebhook", mock.Anything, channelID, mock.AnythingOfType("string")).
		Return(&models.Webhook{ID: "wh_" + channelID, Token: "tok", ChannelID: channelID}, nil)
}

func TestCloneMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("Per-channel order is preserved under concurrency", func(t *testing.T) {
		mockClient := &clients.MockGuildClient{}
		recorder := newSentRecorder()
		setupPipelineMocks(mockClient, recorder)

		engine := newTestEngine(mockClient, testConfig())
		for i := 1; i <= 2; i++ {
			src, dst := fmt.Sprintf("chan_src_%d", i), fmt.Sprintf("chan_dst_%d", i)
			engine.fetched.Channels = append(engine.fetched.Channels,
				models.Channel{ID: src, Kind: models.ChannelKindText})
			engine.mappings.AddChannel(src, models.EntityRef{ID: dst})
			expectWebhook(mockClient, dst)

			var history []models.Message
			for j := 1; j <= 5; j++ {
				history = append(history, testMessage(
					fmt.Sprintf("msg_%d_%d", i, j), src, fmt.Sprintf("message %d", j)))
			}
			mockClient.On("ChannelMessages", mock.Anything, src, 100, true).Return(history, nil)
		}

		err := engine.CloneMessages(ctx)

		require.NoError(t, err)
		for i := 1; i <= 2; i++ {
			dst := fmt.Sprintf("chan_dst_%d", i)
			assert.Equal(t,
				[]string{"message 1", "message 2", "message 3", "message 4", "message 5"},
				recorder.sent[dst])
		}
	})

	t.Run("Forbidden history skips that channel, others still replicate", func(t *testing.T) {
		mockClient := &clients.MockGuildClient{}
		recorder := newSentRecorder()
		setupPipelineMocks(mockClient, recorder)

		engine := newTestEngine(mockClient, testConfig())
		for i := 1; i <= 3; i++ {
			src, dst := fmt.Sprintf("chan_src_%d", i), fmt.Sprintf("chan_dst_%d", i)
			engine.fetched.Channels = append(engine.fetched.Channels,
				models.Channel{ID: src, Kind: models.ChannelKindText})
			engine.mappings.AddChannel(src, models.EntityRef{ID: dst})
			expectWebhook(mockClient, dst)
		}
		mockClient.On("ChannelMessages", mock.Anything, "chan_src_1", 100, true).
			Return(nil, core.ErrForbidden)
		mockClient.On("ChannelMessages", mock.Anything, "chan_src_2", 100, true).
			Return([]models.Message{testMessage("msg_2", "chan_src_2", "hello")}, nil)
		mockClient.On("ChannelMessages", mock.Anything, "chan_src_3", 100, true).
			Return([]models.Message{testMessage("msg_3", "chan_src_3", "world")}, nil)

		err := engine.CloneMessages(ctx)

		require.NoError(t, err)
		assert.Empty(t, recorder.sent["chan_dst_1"])
		assert.Equal(t, []string{"hello"}, recorder.sent["chan_dst_2"])
		assert.Equal(t, []string{"world"}, recorder.sent["chan_dst_3"])
	})

	t.Run("Webhooks are deleted and processing flag cleared at the end", func(t *testing.T) {
		mockClient := &clients.MockGuildClient{}
		recorder := newSentRecorder()
		setupPipelineMocks(mockClient, recorder)

		engine := newTestEngine(mockClient, testConfig())
		engine.fetched.Channels = []models.Channel{{ID: "chan_src", Kind: models.ChannelKindText}}
		engine.mappings.AddChannel("chan_src", models.EntityRef{ID: "chan_dst"})
		expectWebhook(mockClient, "chan_dst")
		mockClient.On("ChannelMessages", mock.Anything, "chan_src", 100, true).
			Return([]models.Message{testMessage("msg_1", "chan_src", "hi")}, nil)

		err := engine.CloneMessages(ctx)

		require.NoError(t, err)
		mockClient.AssertNumberOfCalls(t, "DeleteWebhook", 1)
		assert.True(t, engine.mappings.Webhook("chan_dst").IsAbsent())
		engine.mu.Lock()
		assert.False(t, engine.processingMessages)
		engine.mu.Unlock()
		assert.True(t, engine.isDrained("chan_dst"))
	})

	t.Run("Buffered live messages are flushed after the drain", func(t *testing.T) {
		mockClient := &clients.MockGuildClient{}
		recorder := newSentRecorder()
		setupPipelineMocks(mockClient, recorder)

		engine := newTestEngine(mockClient, testConfig())
		engine.fetched.Channels = []models.Channel{{ID: "chan_src", Kind: models.ChannelKindText}}
		engine.mappings.AddChannel("chan_src", models.EntityRef{ID: "chan_dst"})
		expectWebhook(mockClient, "chan_dst")
		mockClient.On("ChannelMessages", mock.Anything, "chan_src", 100, true).
			Run(func(args mock.Arguments) {
				// A message arrives live while the pipeline is processing
				engine.HandleLiveMessage(ctx, testMessage("msg_live", "chan_src", "live one"))
			}).
			Return([]models.Message{testMessage("msg_1", "chan_src", "from history")}, nil)

		err := engine.CloneMessages(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{"from history", "live one"}, recorder.sent["chan_dst"])
	})
}

func TestGroupByChannel(t *testing.T) {
	t.Run("Preserves first-seen channel order and message order", func(t *testing.T) {
		queue := []models.QueuedMessage{
			{DestChannelID: "chan_b", Message: models.Message{ID: "1"}},
			{DestChannelID: "chan_a", Message: models.Message{ID: "2"}},
			{DestChannelID: "chan_b", Message: models.Message{ID: "3"}},
		}

		order, grouped := groupByChannel(queue)

		assert.Equal(t, []string{"chan_b", "chan_a"}, order)
		require.Len(t, grouped["chan_b"], 2)
		assert.Equal(t, "1", grouped["chan_b"][0].ID)
		assert.Equal(t, "3", grouped["chan_b"][1].ID)
	})
}

func TestEnsureWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("Cached webhook is reused, not recreated", func(t *testing.T) {
		mockClient := &clients.MockGuildClient{}
		cached := &models.Webhook{ID: "wh_1", ChannelID: "chan_dst"}

		engine := newTestEngine(mockClient, testConfig())
		engine.mappings.AddWebhook("chan_dst", cached)

		webhook, err := engine.ensureWebhook(ctx, "chan_dst")

		require.NoError(t, err)
		assert.Same(t, cached, webhook)
		mockClient.AssertNotCalled(t, "CreateWebhook", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProxyUsername(t *testing.T) {
	message := testMessage("msg_1", "chan_src", "hi")
	assert.Equal(t, "alice#0420 at 01/03/2024 12:00", proxyUsername(message))
}
