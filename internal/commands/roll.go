package commands

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/core"
	"github.com/keshon/dispatchkit/internal/discord"
	"github.com/keshon/dispatchkit/internal/interaction"
)

func rollDice(count, sides int) (int, []int) {
	total := 0
	rolls := make([]int, count)
	for i := range rolls {
		rolls[i] = rand.Intn(sides) + 1
		total += rolls[i]
	}
	return total, rolls
}

// parseDice reads classic NdM notation, e.g. 2d6.
func parseDice(arg string) (count, sides int, err error) {
	parts := strings.SplitN(strings.ToLower(arg), "d", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected NdM notation, got %q", arg)
	}
	count, err = strconv.Atoi(parts[0])
	if err != nil || count < 1 || count > 100 {
		return 0, 0, fmt.Errorf("bad dice count %q", parts[0])
	}
	sides, err = strconv.Atoi(parts[1])
	if err != nil || sides < 2 || sides > 1000 {
		return 0, 0, fmt.Errorf("bad dice sides %q", parts[1])
	}
	return count, sides, nil
}

func rollCommand() *core.Command {
	return &core.Command{
		Name:        "roll",
		Aliases:     []string{"dice"},
		Description: "Roll dice in NdM notation",
		RequireArgs: true,
		Category:    Utilities,
		Execute: func(c *core.Context) (any, error) {
			if len(c.Args) == 0 {
				_, err := c.Session.ChannelMessageSend(c.ChannelID, "Usage: roll NdM, e.g. roll 2d6")
				return nil, err
			}
			count, sides, err := parseDice(c.Args[0])
			if err != nil {
				_, serr := c.Session.ChannelMessageSend(c.ChannelID, err.Error())
				return nil, serr
			}
			total, rolls := rollDice(count, sides)
			msg := fmt.Sprintf("🎲 %d (%s)", total, joinInts(rolls))
			_, err = c.Session.ChannelMessageSend(c.ChannelID, msg)
			return total, err
		},
	}
}

func registerRollSlash(b *discord.Bot) {
	b.RegisterSlash(&discordgo.ApplicationCommand{
		Name:        "roll",
		Description: "Roll dice",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "count",
				Description: "How many dice",
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "sides",
				Description: "Sides per die",
			},
		},
	}, func(ctx context.Context, ic *interaction.Interaction) error {
		count := optionInt(ic, "count", 1)
		sides := optionInt(ic, "sides", 6)
		if count < 1 || count > 100 || sides < 2 || sides > 1000 {
			return ic.Reply(ctx, "Keep it reasonable: 1-100 dice with 2-1000 sides.", &interaction.Response{Ephemeral: true})
		}
		total, rolls := rollDice(count, sides)
		return ic.Reply(ctx, fmt.Sprintf("🎲 %d (%s)", total, joinInts(rolls)))
	})
}

func optionInt(ic *interaction.Interaction, name string, fallback int) int {
	v := ic.Option(name)
	if v.Missing() {
		return fallback
	}
	n, err := v.IntValue()
	if err != nil {
		return fallback
	}
	return int(n)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
