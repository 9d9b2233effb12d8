package core

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Dispatcher stitches the message pipeline together: prefix resolution,
// command lookup, the authorization gate and the execution lifecycle.
// Distinct messages may be handled from concurrent goroutines; within one
// call the stages run strictly in order.
type Dispatcher struct {
	Registry  *Registry
	Prefixes  *PrefixResolver
	Gate      *Gate
	Lifecycle *Lifecycle

	// SpaceAfterPrefix allows one space between prefix and command name.
	SpaceAfterPrefix bool

	// BotID is the bot's own user id, needed for mention prefixes. Set once
	// after the gateway ready event, before dispatch starts.
	BotID string

	Log zerolog.Logger
}

// HandleMessage runs the full pipeline for one message-created event. It
// never returns an error: a message that is not a command is dropped
// silently, and every other failure surfaces on the event bus only, so one
// bad invocation cannot halt processing of later events.
func (d *Dispatcher) HandleMessage(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}

	prefix, ok, err := d.Prefixes.Resolve(ctx, m.Content, m.Author.ID, m.GuildID, m.ChannelID, d.BotID)
	if err != nil {
		d.Log.Warn().Err(err).Msg("prefix provider failed")
		return
	}
	if !ok {
		return
	}

	cmd, args, ok := d.Registry.Resolve(m.Content, prefix, d.SpaceAfterPrefix)
	if !ok {
		return
	}

	c := &Context{
		Command:   cmd,
		Prefix:    prefix,
		Args:      args,
		Session:   s,
		Message:   m.Message,
		Author:    m.Author,
		Member:    m.Member,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
	}

	if !d.Gate.Admit(ctx, c) {
		return
	}

	state := d.Lifecycle.Run(c)
	d.Log.Debug().Str("command", cmd.Name).Stringer("state", state).Msg("command dispatched")
}
