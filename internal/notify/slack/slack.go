// Package slack implements the notify.Notifier for Slack.
package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"

	"github.com/staffyard/staffyard/internal/notify"
)

// slackClient abstracts the Slack API methods we use, enabling test mocks.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Adapter posts events to a Slack channel.
type Adapter struct {
	client    slackClient
	channelID string
}

// AdapterOpts holds parameters for creating a Slack Adapter.
type AdapterOpts struct {
	Token     string // xoxb-... Slack bot token
	ChannelID string // channel to post to
	// For testing: inject a mock client instead of the real Slack API.
	Client slackClient
}

// New creates a Slack Adapter.
func New(opts AdapterOpts) (*Adapter, error) {
	if opts.Client == nil && opts.Token == "" {
		return nil, fmt.Errorf("slack: bot token is required")
	}
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("slack: channel is required")
	}
	a := &Adapter{client: opts.Client, channelID: opts.ChannelID}
	if a.client == nil {
		a.client = slackapi.New(opts.Token)
	}
	return a, nil
}

// Send posts the event as an attachment with a severity color bar.
func (a *Adapter) Send(ctx context.Context, ev notify.Event) error {
	fields := make([]slackapi.AttachmentField, len(ev.Fields))
	for i, f := range ev.Fields {
		fields[i] = slackapi.AttachmentField{Title: f.Name, Value: f.Value, Short: f.Short}
	}
	attachment := slackapi.Attachment{
		Color:  notify.SeverityColor(ev.Severity),
		Title:  ev.Title,
		Text:   ev.Body,
		Fields: fields,
	}
	_, _, err := a.client.PostMessageContext(ctx, a.channelID,
		slackapi.MsgOptionAttachments(attachment))
	if err != nil {
		return fmt.Errorf("slack: post message: %w", err)
	}
	return nil
}

// Close is a no-op; the Slack web API client holds no connection.
func (a *Adapter) Close() error { return nil }
