package discord

import (
	"bytes"
	"context"

	"github.com/bwmarrin/discordgo"
)

// channelDestination delivers output blocks to one channel. Calls are
// synchronous so blocks arrive in the order they were produced.
type channelDestination struct {
	session   *discordgo.Session
	channelID string
}

func (d channelDestination) SendText(ctx context.Context, body string) error {
	_, err := d.session.ChannelMessageSend(d.channelID, body, discordgo.WithContext(ctx))
	return err
}

func (d channelDestination) SendImage(ctx context.Context, filename string, png []byte) error {
	_, err := d.session.ChannelMessageSendComplex(d.channelID, &discordgo.MessageSend{
		Files: []*discordgo.File{{
			Name:        filename,
			ContentType: "image/png",
			Reader:      bytes.NewReader(png),
		}},
	}, discordgo.WithContext(ctx))
	return err
}
