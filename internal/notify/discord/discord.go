// Package discord implements the notify.Notifier for Discord.
package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/staffyard/staffyard/internal/notify"
)

// session abstracts the discordgo.Session methods we use, enabling test mocks.
type session interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	Close() error
}

// realSession wraps *discordgo.Session to implement the session interface.
type realSession struct {
	s *discordgo.Session
}

func (r *realSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	return r.s.ChannelMessageSendEmbed(channelID, embed, options...)
}

func (r *realSession) Close() error { return r.s.Close() }

// Adapter posts events to a Discord channel via the REST API.
type Adapter struct {
	sess      session
	channelID string
}

// AdapterOpts holds parameters for creating a Discord Adapter.
type AdapterOpts struct {
	Token     string // Discord bot token
	ChannelID string // channel to post to
	// For testing: inject a mock session instead of the real API.
	Session session
}

// New creates a Discord Adapter.
func New(opts AdapterOpts) (*Adapter, error) {
	if opts.Session == nil && opts.Token == "" {
		return nil, fmt.Errorf("discord: bot token is required")
	}
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("discord: channel is required")
	}
	a := &Adapter{sess: opts.Session, channelID: opts.ChannelID}
	if a.sess == nil {
		s, err := discordgo.New("Bot " + opts.Token)
		if err != nil {
			return nil, fmt.Errorf("discord: create session: %w", err)
		}
		a.sess = &realSession{s: s}
	}
	return a, nil
}

// Send posts the event as an embed with a severity color bar.
func (a *Adapter) Send(ctx context.Context, ev notify.Event) error {
	fields := make([]*discordgo.MessageEmbedField, len(ev.Fields))
	for i, f := range ev.Fields {
		fields[i] = &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Short}
	}
	embed := &discordgo.MessageEmbed{
		Title:       ev.Title,
		Description: ev.Body,
		Color:       colorInt(notify.SeverityColor(ev.Severity)),
		Fields:      fields,
	}
	if _, err := a.sess.ChannelMessageSendEmbed(a.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: send embed: %w", err)
	}
	return nil
}

// Close shuts down the underlying session.
func (a *Adapter) Close() error { return a.sess.Close() }

// colorInt converts a #rrggbb hint to the integer Discord expects.
func colorInt(hex string) int {
	n, err := strconv.ParseInt(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return 0
	}
	return int(n)
}
