package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hiddengems-bot/lib/scrapers/hiddengems"
	"hiddengems-bot/services/roster"
	"hiddengems-bot/services/schedule"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleTrack(ctx context.Context, m *discordgo.MessageCreate, dest channelDestination, rest string) error {
	sub, args := splitWord(rest)
	scope := messageScope(m)

	switch strings.ToLower(sub) {
	case "", "list":
		entries, err := b.roster.List(ctx, scope)
		if err != nil {
			return err
		}
		return dest.SendText(ctx, formatRosterList(entries))
	case "add":
		if args == "" {
			return dest.SendText(ctx, "Bitte gib mindestens einen Bot-Namen an, z.B. `"+b.prefix+"track add Alpha, Beta 2`.")
		}
		snapshot, err := b.fetcher.Fetch(ctx)
		var fetchErr hiddengems.FetchError
		if errors.As(err, &fetchErr) {
			return dest.SendText(ctx, "Das Leaderboard konnte nicht abgerufen werden. Bitte versuch es später noch einmal.")
		}
		if err != nil {
			return err
		}
		report, err := b.roster.Add(ctx, scope, args, snapshot)
		if err != nil {
			return err
		}
		return dest.SendText(ctx, formatAddReport(report))
	case "remove":
		if args == "" {
			return dest.SendText(ctx, "Bitte gib an, welche Einträge entfernt werden sollen, z.B. `"+b.prefix+"track remove 1, 3-5`.")
		}
		report, err := b.roster.Remove(ctx, scope, args)
		if err != nil {
			return err
		}
		return dest.SendText(ctx, formatRemoveReport(report))
	default:
		return dest.SendText(ctx, "Unbekannter Unterbefehl. Verfügbar: `list`, `add`, `remove`.")
	}
}

func (b *Bot) handleSchedule(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, dest channelDestination, rest string) error {
	sub, _ := splitWord(rest)

	switch strings.ToLower(sub) {
	case "start":
		err := b.targets.Set(ctx, m.ChannelID, channelLabel(s, m.ChannelID))
		if err != nil {
			return err
		}
		return dest.SendText(ctx, "Das tägliche Leaderboard wird ab jetzt in diesem Kanal gepostet.")
	case "stop":
		existed, err := b.targets.Delete(ctx, m.ChannelID)
		if err != nil {
			return err
		}
		if !existed {
			return dest.SendText(ctx, "In diesem Kanal war kein tägliches Leaderboard eingerichtet.")
		}
		return dest.SendText(ctx, "Das tägliche Leaderboard wurde für diesen Kanal gestoppt.")
	case "list":
		if !b.admins[m.Author.ID] {
			return dest.SendText(ctx, "Dieser Befehl ist Admins vorbehalten.")
		}
		targets, err := b.targets.List(ctx)
		if err != nil {
			return err
		}
		return dest.SendText(ctx, formatTargetList(targets))
	default:
		return dest.SendText(ctx, "Unbekannter Unterbefehl. Verfügbar: `start`, `stop`, `list`.")
	}
}

func (b *Bot) handleStop(ctx context.Context, m *discordgo.MessageCreate, dest channelDestination) error {
	if !b.admins[m.Author.ID] {
		return dest.SendText(ctx, "Dieser Befehl ist Admins vorbehalten.")
	}
	err := dest.SendText(ctx, "Bot wird beendet. Bis bald!")
	if err != nil {
		return err
	}
	b.stop()
	return nil
}

func channelLabel(s *discordgo.Session, channelID string) string {
	if s.State != nil {
		channel, err := s.State.Channel(channelID)
		if err == nil && channel.Name != "" {
			return "#" + channel.Name
		}
	}
	channel, err := s.Channel(channelID)
	if err == nil && channel.Name != "" {
		return "#" + channel.Name
	}
	return channelID
}

func formatRosterList(entries []roster.TrackedEntity) string {
	if len(entries) == 0 {
		return "Es werden gerade keine Bots getrackt."
	}
	var sb strings.Builder
	sb.WriteString("**Getrackte Bots**\n")
	for i, entity := range entries {
		fmt.Fprintf(&sb, "%d. %s", i+1, entity.Name)
		if entity.Marker != "" {
			fmt.Fprintf(&sb, " %s", entity.Marker)
		}
		fmt.Fprintf(&sb, " — %s\n", entity.Owner)
	}
	return sb.String()
}

func formatAddReport(report roster.AddReport) string {
	var lines []string
	for _, entity := range report.Added {
		lines = append(lines, fmt.Sprintf("✅ **%s** (%s) wird jetzt getrackt.", entity.Name, entity.Owner))
	}
	for _, entity := range report.AlreadyTracked {
		lines = append(lines, fmt.Sprintf("**%s** (%s) wird bereits getrackt.", entity.Name, entity.Owner))
	}
	for _, ambiguity := range report.NeedsChoice {
		var choices []string
		for i, candidate := range ambiguity.Candidates {
			choices = append(choices, fmt.Sprintf("%d: %s (%s)", i+1, candidate.Name, candidate.Owner))
		}
		lines = append(lines, fmt.Sprintf(
			"Mehrere Treffer für **%s** — wähle mit einer Nummer hinter dem Namen: %s",
			ambiguity.Spec, strings.Join(choices, ", "),
		))
	}
	for _, notFound := range report.NotFound {
		line := fmt.Sprintf("**%s** steht nicht auf dem Leaderboard.", notFound.Spec)
		if len(notFound.Suggestions) > 0 {
			line += " Meintest du: " + strings.Join(notFound.Suggestions, ", ") + "?"
		}
		lines = append(lines, line)
	}
	for _, spec := range report.LimitReached {
		lines = append(lines, fmt.Sprintf(
			"**%s** wurde nicht hinzugefügt, das Limit von %d Bots ist erreicht.",
			spec, roster.Capacity,
		))
	}
	if len(lines) == 0 {
		return "Nichts zu tun."
	}
	return strings.Join(lines, "\n")
}

func formatRemoveReport(report roster.RemoveReport) string {
	var lines []string
	for _, removed := range report.Removed {
		lines = append(lines, fmt.Sprintf("%d. **%s** (%s) wird nicht mehr getrackt.",
			removed.Index, removed.Entity.Name, removed.Entity.Owner))
	}
	for _, token := range report.Invalid {
		lines = append(lines, fmt.Sprintf("`%s` ist keine gültige Nummer.", token))
	}
	if len(lines) == 0 {
		return "Nichts zu tun."
	}
	return strings.Join(lines, "\n")
}

func formatTargetList(targets []schedule.Target) string {
	if len(targets) == 0 {
		return "Es sind keine Kanäle für das tägliche Leaderboard eingerichtet."
	}
	var sb strings.Builder
	sb.WriteString("**Tägliche Leaderboard-Kanäle**\n")
	for _, target := range targets {
		fmt.Fprintf(&sb, "- %s (`%s`)\n", target.DisplayLabel, target.ChannelID)
	}
	return sb.String()
}
