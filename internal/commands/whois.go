package commands

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/discord"
	"github.com/keshon/dispatchkit/internal/interaction"
)

func registerWhoisSlash(b *discord.Bot) {
	b.RegisterSlash(&discordgo.ApplicationCommand{
		Name:        "whois",
		Description: "Show basic info about a user",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "target",
				Description: "Who to look up",
				Required:    true,
			},
		},
	}, func(ctx context.Context, ic *interaction.Interaction) error {
		user, err := ic.Option("target").UserValue()
		if err != nil {
			return err
		}
		if user == nil {
			return ic.Reply(ctx, "That user could not be resolved.", &interaction.Response{Ephemeral: true})
		}

		desc := fmt.Sprintf("**%s**\nID: `%s`", user.Username, user.ID)
		if member, _ := ic.Option("target").MemberValue(); member != nil && len(member.Roles) > 0 {
			desc += fmt.Sprintf("\nRoles: %d", len(member.Roles))
		}
		return ic.Respond(ctx, &interaction.Response{
			Embeds: []*discordgo.MessageEmbed{{Description: desc, Color: embedColor}},
		})
	})
}
