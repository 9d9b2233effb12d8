package core

import (
	"github.com/bwmarrin/discordgo"
)

// Command describes one registered text command: identity, access
// requirements and the three lifecycle hooks. Scope flags are tri-state
// pointers: nil means "inherit from the category", a non-nil value fully
// overrides the category's setting.
type Command struct {
	Name        string
	Aliases     []string
	Description string

	// RequireArgs demands at least one parsed argument; MinArgs demands a
	// minimum count. Violations are reported on the event bus but do not
	// stop execution.
	RequireArgs bool
	MinArgs     int

	OwnerOnly *bool
	GuildOnly *bool
	DMOnly    *bool
	NSFW      *bool

	// Permission bits (discordgo.Permission*) the bot / the invoking member
	// must hold in the guild. Empty means "use the category's requirement".
	BotPermissions  []int64
	UserPermissions []int64

	// ID whitelists. An empty list at both command and category level means
	// no restriction. A non-empty command-level list is authoritative
	// regardless of the category.
	GuildWhitelist   []string
	ChannelWhitelist []string
	UserWhitelist    []string

	Category *Category

	// Before runs first; returning false aborts the invocation without any
	// observable event. Execute does the work; its result is handed to
	// After together with the context.
	Before  func(*Context) (bool, error)
	Execute func(*Context) (any, error)
	After   func(*Context, any) error
}

// Category groups commands and provides defaults for the same flag,
// permission and whitelist shape a Command carries.
type Category struct {
	Name string

	OwnerOnly *bool
	GuildOnly *bool
	DMOnly    *bool
	NSFW      *bool

	BotPermissions  []int64
	UserPermissions []int64

	GuildWhitelist   []string
	ChannelWhitelist []string
	UserWhitelist    []string
}

// Context is the per-invocation dispatch context handed to the hooks.
// It is created by the dispatcher and discarded after the lifecycle
// completes.
type Context struct {
	Command *Command
	Prefix  string
	Args    []string

	Session   *discordgo.Session
	Message   *discordgo.Message
	Author    *discordgo.User
	Member    *discordgo.Member
	ChannelID string
	GuildID   string
}

// flag resolves a tri-state command flag against the category default.
func (c *Command) flag(own *bool, cat func(*Category) *bool) bool {
	if own != nil {
		return *own
	}
	if c.Category != nil {
		if v := cat(c.Category); v != nil {
			return *v
		}
	}
	return false
}

func (c *Command) ownerOnly() bool {
	return c.flag(c.OwnerOnly, func(cat *Category) *bool { return cat.OwnerOnly })
}

func (c *Command) guildOnly() bool {
	return c.flag(c.GuildOnly, func(cat *Category) *bool { return cat.GuildOnly })
}

func (c *Command) dmOnly() bool {
	return c.flag(c.DMOnly, func(cat *Category) *bool { return cat.DMOnly })
}

func (c *Command) nsfw() bool {
	return c.flag(c.NSFW, func(cat *Category) *bool { return cat.NSFW })
}

// whitelist resolves one whitelist kind: the command's own list when present,
// else the category's.
func (c *Command) whitelist(own []string, cat func(*Category) []string) []string {
	if len(own) > 0 {
		return own
	}
	if c.Category != nil {
		return cat(c.Category)
	}
	return nil
}

// requiredPerms resolves a permission requirement the same way: command
// declaration wins, category is the fallback.
func (c *Command) requiredPerms(own []int64, cat func(*Category) []int64) []int64 {
	if len(own) > 0 {
		return own
	}
	if c.Category != nil {
		return cat(c.Category)
	}
	return nil
}
