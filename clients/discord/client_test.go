package discord

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildcloner/core"
	"guildcloner/models"
)

func restError(statusCode int) error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: statusCode},
	}
}

func TestAsRemoteError(t *testing.T) {
	testCases := []struct {
		name      string
		err       error
		forbidden bool
		notFound  bool
	}{
		{
			name:      "403 maps to forbidden",
			err:       restError(http.StatusForbidden),
			forbidden: true,
		},
		{
			name:     "404 maps to not found",
			err:      restError(http.StatusNotFound),
			notFound: true,
		},
		{
			name: "429 stays a generic request failure",
			err:  restError(http.StatusTooManyRequests),
		},
		{
			name: "500 stays a generic request failure",
			err:  restError(http.StatusInternalServerError),
		},
		{
			name: "non-REST error passes through",
			err:  errors.New("connection reset"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := asRemoteError(tc.err)
			assert.Equal(t, tc.forbidden, core.IsForbiddenError(mapped))
			assert.Equal(t, tc.notFound, core.IsNotFoundError(mapped))
		})
	}
}

func TestImageDataURI(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	assert.True(t, strings.HasPrefix(imageDataURI(png), "data:image/png;base64,"))

	gif := []byte("GIF89a....")
	assert.True(t, strings.HasPrefix(imageDataURI(gif), "data:image/gif;base64,"))
}

func TestConvertChannel(t *testing.T) {
	testCases := []struct {
		name         string
		channelType  discordgo.ChannelType
		expectedKind models.ChannelKind
		expectedOK   bool
	}{
		{"text channel", discordgo.ChannelTypeGuildText, models.ChannelKindText, true},
		{"news channel maps to text", discordgo.ChannelTypeGuildNews, models.ChannelKindText, true},
		{"voice channel", discordgo.ChannelTypeGuildVoice, models.ChannelKindVoice, true},
		{"category", discordgo.ChannelTypeGuildCategory, models.ChannelKindCategory, true},
		{"stage channel", discordgo.ChannelTypeGuildStageVoice, models.ChannelKindStage, true},
		{"forum channel", discordgo.ChannelTypeGuildForum, models.ChannelKindForum, true},
		{"thread is dropped", discordgo.ChannelTypeGuildPublicThread, 0, false},
		{"DM is dropped", discordgo.ChannelTypeDM, 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			converted, ok := convertChannel(&discordgo.Channel{ID: "c1", Name: "general", Type: tc.channelType})
			assert.Equal(t, tc.expectedOK, ok)
			if ok {
				assert.Equal(t, tc.expectedKind, converted.Kind)
			}
		})
	}
}

func TestConvertChannel_Overwrites(t *testing.T) {
	converted, ok := convertChannel(&discordgo.Channel{
		ID:   "c1",
		Type: discordgo.ChannelTypeGuildText,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{ID: "r1", Type: discordgo.PermissionOverwriteTypeRole, Allow: 1024, Deny: 2048},
			{ID: "m1", Type: discordgo.PermissionOverwriteTypeMember, Allow: 1},
		},
	})
	require.True(t, ok)
	require.Len(t, converted.Overwrites, 2)
	assert.Equal(t, models.OverwriteTypeRole, converted.Overwrites[0].Type)
	assert.Equal(t, int64(1024), converted.Overwrites[0].Allow)
	assert.Equal(t, int64(2048), converted.Overwrites[0].Deny)
	assert.Equal(t, models.OverwriteTypeMember, converted.Overwrites[1].Type)
}

func TestConvertMessage(t *testing.T) {
	ts := time.Date(2024, 5, 12, 9, 30, 0, 0, time.UTC)
	converted := convertMessage(&discordgo.Message{
		ID:        "m1",
		GuildID:   "g1",
		ChannelID: "c1",
		Content:   "hello <#123>",
		Timestamp: ts,
		Author:    &discordgo.User{Username: "alice", Discriminator: "0420"},
		Attachments: []*discordgo.MessageAttachment{
			{Filename: "pic.png", URL: "https://cdn.example/pic.png", ContentType: "image/png"},
		},
	})

	assert.Equal(t, "m1", converted.ID)
	assert.Equal(t, "g1", converted.GuildID)
	assert.Equal(t, "alice", converted.AuthorName)
	assert.Equal(t, "0420", converted.AuthorDiscriminator)
	assert.Equal(t, ts, converted.Timestamp)
	require.Len(t, converted.Attachments, 1)
	assert.Equal(t, "pic.png", converted.Attachments[0].Filename)
}

func TestStickerURL(t *testing.T) {
	assert.Equal(t, discordgo.EndpointCDN+"stickers/s1.png", stickerURL("s1", discordgo.StickerFormatTypePNG))
	assert.Equal(t, discordgo.EndpointCDN+"stickers/s2.json", stickerURL("s2", discordgo.StickerFormatTypeLottie))
	assert.Equal(t, discordgo.EndpointCDN+"stickers/s3.gif", stickerURL("s3", discordgo.StickerFormatTypeGIF))
}
