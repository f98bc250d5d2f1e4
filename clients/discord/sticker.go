package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"guildcloner/core"
	"guildcloner/models"
)

// CreateSticker uploads a guild sticker. This uses HTTP directly as
// discordgo doesn't support sticker creation (the endpoint takes a
// multipart form, not JSON).
func (c *DiscordClient) CreateSticker(
	ctx context.Context,
	guildID string,
	params models.StickerParams,
	file []byte,
) (*models.Sticker, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	fields := map[string]string{
		"name":        params.Name,
		"description": params.Description,
		"tags":        params.Emoji,
	}
	for field, value := range fields {
		if err := form.WriteField(field, value); err != nil {
			return nil, fmt.Errorf("failed to write sticker form field %s: %w", field, err)
		}
	}

	part, err := form.CreateFormFile("file", params.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sticker form file: %w", err)
	}
	if _, err := part.Write(file); err != nil {
		return nil, fmt.Errorf("failed to write sticker file: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize sticker form: %w", err)
	}

	endpoint := discordgo.EndpointGuild(guildID) + "/stickers"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create sticker request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", c.session.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute sticker request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read sticker response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusForbidden:
		return nil, fmt.Errorf("sticker %q: %w", params.Name, core.ErrForbidden)
	case http.StatusNotFound:
		return nil, fmt.Errorf("sticker %q: %w", params.Name, core.ErrNotFound)
	default:
		return nil, fmt.Errorf("sticker request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var sticker discordgo.Sticker
	if err := json.Unmarshal(respBody, &sticker); err != nil {
		return nil, fmt.Errorf("failed to decode sticker response: %w", err)
	}
	return &models.Sticker{
		ID:          sticker.ID,
		Name:        sticker.Name,
		Description: sticker.Description,
		Emoji:       sticker.Tags,
		URL:         stickerURL(sticker.ID, sticker.FormatType),
	}, nil
}
