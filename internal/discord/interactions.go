package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/interaction"
)

// buildInteraction converts a gateway interaction-created event into the
// interaction model: it walks into subcommand groups so Options holds the
// flattened option list of the invoked leaf, and Path its full name.
func buildInteraction(t interaction.Transport, ev *discordgo.InteractionCreate) *interaction.Interaction {
	ic := &interaction.Interaction{
		ID:        ev.ID,
		Token:     ev.Token,
		AppID:     ev.AppID,
		Type:      ev.Type,
		GuildID:   ev.GuildID,
		ChannelID: ev.ChannelID,
		Member:    ev.Member,
		User:      ev.User,
		Transport: t,
	}

	if ev.Type != discordgo.InteractionApplicationCommand {
		return ic
	}

	data := ev.ApplicationCommandData()
	ic.Name = data.Name
	ic.Path = data.Name

	opts := data.Options
	for len(opts) == 1 && (opts[0].Type == discordgo.ApplicationCommandOptionSubCommand ||
		opts[0].Type == discordgo.ApplicationCommandOptionSubCommandGroup) {
		ic.Path += "/" + opts[0].Name
		opts = opts[0].Options
	}
	for _, o := range opts {
		ic.Options = append(ic.Options, interaction.Option{
			Name:  o.Name,
			Kind:  interaction.OptionKind(o.Type),
			Value: o.Value,
		})
	}

	if data.Resolved != nil {
		ic.Resolved = interaction.Resolved{
			Users:    data.Resolved.Users,
			Members:  resolvedMembers(data.Resolved),
			Channels: data.Resolved.Channels,
			Roles:    data.Resolved.Roles,
		}
	}
	return ic
}

// resolvedMembers backfills the User field the platform omits from resolved
// member objects.
func resolvedMembers(r *discordgo.ApplicationCommandInteractionDataResolved) map[string]*discordgo.Member {
	if len(r.Members) == 0 {
		return nil
	}
	members := make(map[string]*discordgo.Member, len(r.Members))
	for id, m := range r.Members {
		if m.User == nil {
			m.User = r.Users[id]
		}
		members[id] = m
	}
	return members
}
