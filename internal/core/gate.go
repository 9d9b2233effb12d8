package core

import (
	"context"
	"slices"

	"github.com/rs/zerolog"
)

// Predicate answers a yes/no question about one id. Predicates may do I/O;
// the gate awaits them one at a time in a fixed order.
type Predicate func(ctx context.Context, id string) (bool, error)

// PermissionSource computes effective permissions and channel attributes for
// the gate. The discordgo-backed implementation lives in internal/discord;
// tests supply fakes.
type PermissionSource interface {
	// BotPermissions returns the bot's computed permission bits in a channel.
	BotPermissions(guildID, channelID string) (int64, error)
	// MemberPermissions returns a member's computed permission bits in a channel.
	MemberPermissions(guildID, channelID, userID string) (int64, error)
	// ChannelNSFW reports whether a channel is marked nsfw.
	ChannelNSFW(channelID string) (bool, error)
}

// Gate is the ordered, short-circuiting admission pipeline every resolved
// command invocation passes through. Stages either pass, drop silently
// (blacklisted parties must not be able to detect the bot), or drop with a
// named diagnostic event on the bus.
type Gate struct {
	// IgnoreBots silently drops messages authored by bots.
	IgnoreBots bool

	// Owners are the ids allowed to run owner-only commands.
	Owners []string

	// Blacklist predicates, queried in user, channel, guild order. Nil
	// predicates are skipped. A predicate error is logged and treated as
	// "not blacklisted" so a flaky lookup does not silence the bot.
	UserBlacklist    Predicate
	ChannelBlacklist Predicate
	GuildBlacklist   Predicate

	// Permission bits merged into a declared command/category requirement
	// before comparison. Commands that declare no requirement skip the
	// permission stages entirely, gate-wide bits included.
	BotPermissionsAll  []int64
	UserPermissionsAll []int64

	Perms PermissionSource
	Bus   *Bus
	Log   zerolog.Logger
}

// Admit runs all stages for one invocation and reports whether the command
// may execute. It never returns an error; observable rejections go to the
// bus.
func (g *Gate) Admit(ctx context.Context, c *Context) bool {
	cmd := c.Command

	if g.IgnoreBots && c.Author != nil && c.Author.Bot {
		return false
	}

	if g.blacklisted(ctx, g.UserBlacklist, c.Author.ID) ||
		g.blacklisted(ctx, g.ChannelBlacklist, c.ChannelID) ||
		g.blacklisted(ctx, g.GuildBlacklist, c.GuildID) {
		return false
	}

	if !whitelisted(cmd.whitelist(cmd.GuildWhitelist, func(cat *Category) []string { return cat.GuildWhitelist }), c.GuildID) ||
		!whitelisted(cmd.whitelist(cmd.ChannelWhitelist, func(cat *Category) []string { return cat.ChannelWhitelist }), c.ChannelID) ||
		!whitelisted(cmd.whitelist(cmd.UserWhitelist, func(cat *Category) []string { return cat.UserWhitelist }), c.Author.ID) {
		return false
	}

	if cmd.ownerOnly() && !slices.Contains(g.Owners, c.Author.ID) {
		g.Bus.Publish(Event{Type: EventCommandOwnerOnly, Ctx: c})
		return false
	}
	if cmd.guildOnly() && c.GuildID == "" {
		g.Bus.Publish(Event{Type: EventCommandGuildOnly, Ctx: c})
		return false
	}
	if cmd.dmOnly() && c.GuildID != "" {
		g.Bus.Publish(Event{Type: EventCommandDMOnly, Ctx: c})
		return false
	}
	if cmd.nsfw() && c.GuildID != "" {
		nsfw, err := g.Perms.ChannelNSFW(c.ChannelID)
		if err != nil {
			g.Log.Warn().Err(err).Str("channel", c.ChannelID).Msg("nsfw lookup failed")
		}
		if !nsfw {
			g.Bus.Publish(Event{Type: EventCommandNSFW, Ctx: c})
			return false
		}
	}

	if c.GuildID != "" {
		// Permission stages run only for commands that declare a requirement
		// themselves or through their category; the gate-wide lists refine a
		// declared requirement, they never create one.
		if declared := cmd.requiredPerms(cmd.BotPermissions, func(cat *Category) []int64 { return cat.BotPermissions }); len(declared) > 0 {
			required := mergePerms(declared, g.BotPermissionsAll)
			have, err := g.Perms.BotPermissions(c.GuildID, c.ChannelID)
			if err != nil {
				g.Log.Warn().Err(err).Str("guild", c.GuildID).Msg("bot permission lookup failed")
				return false
			}
			if missing := missingPermissions(required, have); len(missing) > 0 {
				g.Bus.Publish(Event{Type: EventCommandBotMissingPermissions, Ctx: c, Missing: missing})
				return false
			}
		}

		if declared := cmd.requiredPerms(cmd.UserPermissions, func(cat *Category) []int64 { return cat.UserPermissions }); len(declared) > 0 {
			required := mergePerms(declared, g.UserPermissionsAll)
			have, err := g.Perms.MemberPermissions(c.GuildID, c.ChannelID, c.Author.ID)
			if err != nil {
				g.Log.Warn().Err(err).Str("guild", c.GuildID).Msg("member permission lookup failed")
				return false
			}
			if missing := missingPermissions(required, have); len(missing) > 0 {
				g.Bus.Publish(Event{Type: EventCommandUserMissingPermissions, Ctx: c, Missing: missing})
				return false
			}
		}
	}

	// Arity violations are observable but do not block the command.
	if (cmd.RequireArgs && len(c.Args) == 0) || (cmd.MinArgs > 0 && len(c.Args) < cmd.MinArgs) {
		g.Bus.Publish(Event{Type: EventCommandMissingArgs, Ctx: c})
	}

	return true
}

func (g *Gate) blacklisted(ctx context.Context, pred Predicate, id string) bool {
	if pred == nil || id == "" {
		return false
	}
	hit, err := pred(ctx, id)
	if err != nil {
		g.Log.Warn().Err(err).Str("id", id).Msg("blacklist lookup failed")
		return false
	}
	return hit
}

func whitelisted(list []string, id string) bool {
	if len(list) == 0 {
		return true
	}
	return slices.Contains(list, id)
}

func mergePerms(required, all []int64) []int64 {
	if len(all) == 0 {
		return required
	}
	merged := slices.Clone(required)
	for _, bit := range all {
		if !slices.Contains(merged, bit) {
			merged = append(merged, bit)
		}
	}
	return merged
}
