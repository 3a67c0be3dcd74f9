// Package discord binds the leaderboard, roster and schedule services
// to chat commands. The binding splits off the command word and
// subcommand only, raw spec strings pass through to the services
// unparsed.
package discord

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"hiddengems-bot/services/leaderboard"
	"hiddengems-bot/services/roster"
	"hiddengems-bot/services/schedule"

	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("internal/discord")

type Config struct {
	Token string `json:"token"`
	// command prefix, defaults to "!"
	Prefix string `json:"prefix"`
	// user ids allowed to run the admin commands
	AdminIds []string `json:"admin_ids"`
}

type Bot struct {
	session *discordgo.Session
	prefix  string
	admins  map[string]bool

	fetcher leaderboard.Fetcher
	board   *leaderboard.Service
	roster  *roster.Store
	targets *schedule.Store

	// requested by the stopbot command, shuts the process down
	stop context.CancelFunc
}

func NewBot(
	cfg Config,
	board *leaderboard.Service,
	fetcher leaderboard.Fetcher,
	rosterStore *roster.Store,
	targets *schedule.Store,
	stop context.CancelFunc,
) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "!"
	}
	admins := map[string]bool{}
	for _, id := range cfg.AdminIds {
		admins[id] = true
	}

	bot := &Bot{
		session: session,
		prefix:  prefix,
		admins:  admins,
		fetcher: fetcher,
		board:   board,
		roster:  rosterStore,
		targets: targets,
		stop:    stop,
	}
	session.AddHandler(bot.onMessage)
	return bot, nil
}

func (b *Bot) Open() error {
	return b.session.Open()
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// Destination returns the delivery boundary for a channel, used by the
// daily daemon.
func (b *Bot) Destination(channelID string) leaderboard.Destination {
	return channelDestination{session: b.session, channelID: channelID}
}

// scope keys rosters to the guild; direct messages fall back to the
// author so personal rosters work without a guild.
func messageScope(m *discordgo.MessageCreate) string {
	if m.GuildID != "" {
		return m.GuildID
	}
	return m.Author.ID
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}
	if !strings.HasPrefix(m.Content, b.prefix) {
		return
	}

	command, rest := splitWord(strings.TrimPrefix(m.Content, b.prefix))
	if command == "" {
		return
	}

	ctx, span := tracer.Start(context.Background(), "onMessage")
	defer span.End()
	span.SetAttributes(
		attribute.String("command", command),
		attribute.String("scope", messageScope(m)),
	)

	dest := channelDestination{session: s, channelID: m.ChannelID}

	var err error
	switch strings.ToLower(command) {
	case "leaderboard", "lb", "top":
		topX, mode := parseBoardArgs(rest)
		err = b.board.Post(ctx, messageScope(m), dest, topX, mode)
	case "track", "t":
		err = b.handleTrack(ctx, m, dest, rest)
	case "schedule", "s":
		err = b.handleSchedule(ctx, s, m, dest, rest)
	case "ping":
		err = dest.SendText(ctx, "Pong!")
	case "stopbot":
		err = b.handleStop(ctx, m, dest)
	default:
		return
	}
	if err != nil {
		span.RecordError(err)
		slog.ErrorContext(
			ctx, "command failed",
			"command", command,
			"channel_id", m.ChannelID,
			"err", err,
		)
	}
}

func splitWord(s string) (word, rest string) {
	s = strings.TrimSpace(s)
	word, rest, _ = strings.Cut(s, " ")
	return word, strings.TrimSpace(rest)
}

// parseBoardArgs reads the optional row limit and output mode. Images
// are the default, a trailing "text" switches to the table rendering.
func parseBoardArgs(rest string) (int, leaderboard.Mode) {
	topX := 0
	mode := leaderboard.ModeImage
	for _, field := range strings.Fields(rest) {
		if strings.EqualFold(field, "text") {
			mode = leaderboard.ModeText
			continue
		}
		if !isDigits(field) {
			continue
		}
		if n, err := strconv.Atoi(field); err == nil && n > 0 {
			topX = n
		}
	}
	return topX, mode
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
