package commands

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/core"
	"github.com/keshon/dispatchkit/internal/discord"
	"github.com/keshon/dispatchkit/internal/interaction"
)

func pingCommand() *core.Command {
	return &core.Command{
		Name:        "ping",
		Description: "Check that the bot is alive",
		Category:    Utilities,
		Execute: func(c *core.Context) (any, error) {
			_, err := c.Session.ChannelMessageSend(c.ChannelID, "Pong!")
			return nil, err
		},
	}
}

func registerPingSlash(b *discord.Bot) {
	b.RegisterSlash(&discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Check that the bot is alive",
	}, func(ctx context.Context, ic *interaction.Interaction) error {
		return ic.Reply(ctx, "Pong!")
	})
}
