// Package notify forwards the events of autopilot ticks to a channel players watch.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"

	"ventures/internal/game"
)

type Notifier interface {
	Notify(ctx context.Context, d game.Dashboard, events []game.Event) error
}

// LogNotifier writes each event as a structured log line.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{log: logger}
}

func (n *LogNotifier) Notify(_ context.Context, d game.Dashboard, events []game.Event) error {
	for _, e := range events {
		level := slog.LevelInfo
		if e.Severity == game.SeverityError {
			level = slog.LevelWarn
		}
		n.log.Log(context.Background(), level, e.Message, "venture", d.Venture.CompanyName, "day", d.Venture.Day, "severity", e.Severity)
	}
	n.log.Info("tick summary",
		"venture", d.Venture.CompanyName,
		"day", d.Venture.Day,
		"cash", d.Venture.Cash,
		"users", d.Venture.Users,
		"net_flow", d.Metrics.NetFlow,
	)
	return nil
}

// embedSender is the slice of *discordgo.Session the notifier uses.
type embedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordNotifier struct {
	sender    embedSender
	channelID string
}

// NewDiscordNotifier posts through the REST API only; no gateway connection is opened.
func NewDiscordNotifier(botToken, channelID string) (*DiscordNotifier, error) {
	s, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return &DiscordNotifier{sender: s, channelID: channelID}, nil
}

const (
	colorGreen = 0x2ecc71
	colorRed   = 0xe74c3c
	colorBlue  = 0x3498db

	maxEmbedDescription = 4000
)

func (n *DiscordNotifier) Notify(ctx context.Context, d game.Dashboard, events []game.Event) error {
	_, err := n.sender.ChannelMessageSendEmbed(n.channelID, Embed(d, events), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord send: %w", err)
	}
	return nil
}

// Embed renders one tick as a Discord embed, colored by the worst event severity.
func Embed(d game.Dashboard, events []game.Event) *discordgo.MessageEmbed {
	v := d.Venture
	color := colorBlue
	var lines []string
	for _, e := range events {
		switch e.Severity {
		case game.SeverityError:
			color = colorRed
			lines = append(lines, "🔴 "+e.Message)
		case game.SeveritySuccess:
			if color != colorRed {
				color = colorGreen
			}
			lines = append(lines, "🟢 "+e.Message)
		default:
			lines = append(lines, "🔵 "+e.Message)
		}
	}
	desc := strings.Join(lines, "\n")
	if desc == "" {
		desc = "A quiet day."
	}
	if len(desc) > maxEmbedDescription {
		desc = desc[:maxEmbedDescription] + "…"
	}

	runway := "∞"
	if !d.Metrics.RunwayInfinite {
		runway = fmt.Sprintf("%d days", d.Metrics.RunwayDays)
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s · Day %d", v.CompanyName, v.Day),
		Description: desc,
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Cash", Value: game.FormatMoney(v.Cash), Inline: true},
			{Name: "Users", Value: humanize.Comma(v.Users), Inline: true},
			{Name: "Runway", Value: runway, Inline: true},
			{Name: "Market", Value: string(v.MarketCondition), Inline: true},
			{Name: "Team", Value: humanize.Comma(int64(len(v.Team))), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%s · %s", v.StartupType, v.StartingPath)},
	}
}
