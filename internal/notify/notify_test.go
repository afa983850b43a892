package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"ventures/internal/game"
)

type fakeSender struct {
	channel string
	embeds  []*discordgo.MessageEmbed
	err     error
}

func (f *fakeSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channel = channelID
	f.embeds = append(f.embeds, embed)
	return &discordgo.Message{}, f.err
}

func dashboard(t *testing.T) game.Dashboard {
	t.Helper()
	v, err := game.NewVenture("Pager", game.StartupSaaS, game.PathAngel)
	if err != nil {
		t.Fatal(err)
	}
	return game.Dashboard{Venture: v, Metrics: game.Summarize(v)}
}

func TestEmbedColorAndFields(t *testing.T) {
	d := dashboard(t)

	quiet := Embed(d, nil)
	if quiet.Color != colorBlue || quiet.Description != "A quiet day." {
		t.Fatalf("unexpected quiet embed: %+v", quiet)
	}
	if quiet.Title != "Pager · Day 1" || quiet.Fields[0].Value != "$100,000" {
		t.Fatalf("title=%q cash=%q", quiet.Title, quiet.Fields[0].Value)
	}

	mixed := Embed(d, []game.Event{
		{Message: "Feature Launched: Authentication", Severity: game.SeveritySuccess},
		{Message: "CRISIS: Missed payroll!", Severity: game.SeverityError},
	})
	if mixed.Color != colorRed || !strings.Contains(mixed.Description, "CRISIS") {
		t.Fatalf("unexpected mixed embed: %+v", mixed)
	}
}

func TestDiscordNotifier(t *testing.T) {
	f := &fakeSender{}
	n := &DiscordNotifier{sender: f, channelID: "chan"}
	if err := n.Notify(context.Background(), dashboard(t), []game.Event{{Message: "hello", Severity: game.SeverityInfo}}); err != nil {
		t.Fatal(err)
	}
	if f.channel != "chan" || len(f.embeds) != 1 {
		t.Fatalf("channel=%q embeds=%d", f.channel, len(f.embeds))
	}

	f.err = errors.New("rate limited")
	if err := n.Notify(context.Background(), dashboard(t), nil); err == nil || !strings.Contains(err.Error(), "discord send") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))
	err := n.Notify(context.Background(), dashboard(t), []game.Event{
		{Message: "Market shifted to Bear", Severity: game.SeverityInfo},
		{Message: "Sam quit due to unpaid salary", Severity: game.SeverityError},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `"msg":"Sam quit due to unpaid salary"`) || !strings.Contains(out, `"level":"WARN"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
	if !strings.Contains(out, `"msg":"tick summary"`) {
		t.Fatalf("missing summary: %s", out)
	}
}
