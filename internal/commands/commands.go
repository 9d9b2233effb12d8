// Package commands holds the reference commands shipped with the bot. Each
// command registers a text form with the registry and, where it makes
// sense, a slash form with the bot.
package commands

import (
	"github.com/keshon/dispatchkit/internal/core"
	"github.com/keshon/dispatchkit/internal/discord"
)

// Utilities is the category the reference commands share.
var Utilities = &core.Category{Name: "Utilities"}

// RegisterText adds the reference prefix commands to the registry.
func RegisterText(reg *core.Registry) error {
	for _, c := range []*core.Command{
		pingCommand(),
		rollCommand(),
		helpCommand(reg),
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RegisterSlash adds the slash counterparts to the bot.
func RegisterSlash(b *discord.Bot) {
	registerPingSlash(b)
	registerRollSlash(b)
	registerWhoisSlash(b)
}
