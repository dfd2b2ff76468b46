// Copyright 2024-2026 Aiku AI

package channelbot

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/rs/zerolog"

	"github.com/aiku/channel-publisher/pkg/channelbot/mattermostfmt"
)

// Mirror receives a copy of every accepted channel post.
type Mirror interface {
	MirrorPost(ctx context.Context, markup string) error
}

// MattermostMirror posts channel content to a Mattermost channel as
// markdown.
type MattermostMirror struct {
	client    *model.Client4
	channelID string
	log       zerolog.Logger
}

var _ Mirror = (*MattermostMirror)(nil)

// NewMattermostMirror creates a mirror from its config. httpClient may be
// nil to use the Mattermost client's default.
func NewMattermostMirror(cfg MirrorConfig, httpClient *http.Client, log zerolog.Logger) *MattermostMirror {
	client := model.NewAPIv4Client(cfg.ServerURL)
	client.SetToken(cfg.Token)
	if httpClient != nil {
		client.HTTPClient = httpClient
	}
	return &MattermostMirror{
		client:    client,
		channelID: cfg.ChannelID,
		log:       log.With().Str("component", "mm_mirror").Logger(),
	}
}

// MirrorPost converts Telegram HTML to markdown and creates a post.
func (m *MattermostMirror) MirrorPost(ctx context.Context, markup string) error {
	message := mattermostfmt.Parse(markup)
	if message == "" {
		return nil
	}
	post, _, err := m.client.CreatePost(ctx, &model.Post{
		ChannelId: m.channelID,
		Message:   message,
	})
	if err != nil {
		return fmt.Errorf("failed to create mirror post: %w", err)
	}
	m.log.Debug().
		Str("post_id", post.Id).
		Str("channel_id", m.channelID).
		Msg("Mirrored post to Mattermost")
	return nil
}
