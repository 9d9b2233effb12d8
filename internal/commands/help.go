package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/core"
)

const embedColor = 0x5865f2

func helpCommand(reg *core.Registry) *core.Command {
	return &core.Command{
		Name:        "help",
		Aliases:     []string{"commands"},
		Description: "List available commands",
		Category:    Utilities,
		Execute: func(c *core.Context) (any, error) {
			var lines []string
			for _, cmd := range reg.All() {
				line := fmt.Sprintf("`%s%s` — %s", c.Prefix, cmd.Name, cmd.Description)
				if len(cmd.Aliases) > 0 {
					line += fmt.Sprintf(" (aliases: %s)", strings.Join(cmd.Aliases, ", "))
				}
				lines = append(lines, line)
			}
			_, err := c.Session.ChannelMessageSendEmbed(c.ChannelID, &discordgo.MessageEmbed{
				Title:       "Commands",
				Description: strings.Join(lines, "\n"),
				Color:       embedColor,
			})
			return nil, err
		},
	}
}
