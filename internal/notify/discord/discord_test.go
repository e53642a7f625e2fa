package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/staffyard/staffyard/internal/notify"
)

type mockSession struct {
	channelID string
	embed     *discordgo.MessageEmbed
	err       error
	closed    bool
}

func (m *mockSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.channelID = channelID
	m.embed = embed
	return &discordgo.Message{}, m.err
}

func (m *mockSession) Close() error {
	m.closed = true
	return nil
}

func TestNewValidation(t *testing.T) {
	if _, err := New(AdapterOpts{ChannelID: "123"}); err == nil {
		t.Error("New accepted missing token")
	}
	if _, err := New(AdapterOpts{Token: "abc"}); err == nil {
		t.Error("New accepted missing channel")
	}
	if _, err := New(AdapterOpts{Session: &mockSession{}, ChannelID: "123"}); err != nil {
		t.Errorf("New with injected session: %v", err)
	}
}

func TestSendEmbed(t *testing.T) {
	mock := &mockSession{}
	a, err := New(AdapterOpts{Session: mock, ChannelID: "123"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ev := notify.Event{
		Title:    "Daily planning digest",
		Body:     "3 transaction(s) created",
		Severity: notify.SeverityInfo,
		Fields:   []notify.Field{{Name: "Board 2026", Value: "5 lanes", Short: true}},
	}
	if err := a.Send(context.Background(), ev); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if mock.channelID != "123" {
		t.Errorf("channelID = %q, want 123", mock.channelID)
	}
	if mock.embed == nil {
		t.Fatal("no embed sent")
	}
	if mock.embed.Title != ev.Title || mock.embed.Description != ev.Body {
		t.Errorf("embed = %q / %q, want event title and body", mock.embed.Title, mock.embed.Description)
	}
	if len(mock.embed.Fields) != 1 || !mock.embed.Fields[0].Inline {
		t.Errorf("embed fields = %+v, want one inline field", mock.embed.Fields)
	}
	if mock.embed.Color != 0x439fe0 {
		t.Errorf("embed color = %#x, want info color", mock.embed.Color)
	}
}

func TestSendError(t *testing.T) {
	mock := &mockSession{err: errors.New("missing access")}
	a, err := New(AdapterOpts{Session: mock, ChannelID: "123"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Send(context.Background(), notify.Event{Title: "test"}); err == nil {
		t.Error("Send swallowed the API error")
	}
}

func TestCloseClosesSession(t *testing.T) {
	mock := &mockSession{}
	a, err := New(AdapterOpts{Session: mock, ChannelID: "123"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if !mock.closed {
		t.Error("Close did not reach the session")
	}
}

func TestColorInt(t *testing.T) {
	tests := []struct {
		hex  string
		want int
	}{
		{"#36a64f", 0x36a64f},
		{"#d00000", 0xd00000},
		{"not-a-color", 0},
	}
	for _, tt := range tests {
		if got := colorInt(tt.hex); got != tt.want {
			t.Errorf("colorInt(%q) = %#x, want %#x", tt.hex, got, tt.want)
		}
	}
}
