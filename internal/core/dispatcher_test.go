package core

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispatcher(bus *Bus, reg *Registry) *Dispatcher {
	return &Dispatcher{
		Registry:  reg,
		Prefixes:  &PrefixResolver{Global: []string{"!", "!!"}},
		Gate:      newGate(bus),
		Lifecycle: &Lifecycle{Bus: bus, Log: zerolog.Nop()},
		Log:       zerolog.Nop(),
	}
}

func message(content, userID, guildID string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		Content:   content,
		Author:    &discordgo.User{ID: userID},
		ChannelID: "chan",
		GuildID:   guildID,
	}}
}

func TestDispatcherRunsCommand(t *testing.T) {
	bus := NewBus(16)
	reg := NewRegistry(false)

	var gotArgs []string
	require.NoError(t, reg.Register(&Command{
		Name: "ping",
		Execute: func(c *Context) (any, error) {
			gotArgs = c.Args
			return nil, nil
		},
	}))

	d := newDispatcher(bus, reg)
	d.HandleMessage(context.Background(), nil, message("!!ping now", "u1", "g1"))

	assert.Equal(t, []string{"now"}, gotArgs)
	events := drain(bus)
	require.Len(t, events, 1)
	assert.Equal(t, EventCommandUsed, events[0].Type)
	assert.Equal(t, "!!", events[0].Ctx.Prefix)
}

func TestDispatcherLongestPrefixWins(t *testing.T) {
	bus := NewBus(16)
	reg := NewRegistry(false)

	ran := false
	require.NoError(t, reg.Register(&Command{
		Name: "ping",
		Execute: func(c *Context) (any, error) {
			ran = true
			assert.Equal(t, "!!", c.Prefix)
			return nil, nil
		},
	}))

	d := newDispatcher(bus, reg)
	d.HandleMessage(context.Background(), nil, message("!!ping", "u1", ""))
	assert.True(t, ran)
}

func TestDispatcherIgnoresNonCommands(t *testing.T) {
	bus := NewBus(16)
	reg := NewRegistry(false)
	require.NoError(t, reg.Register(testCommand("ping")))

	d := newDispatcher(bus, reg)
	d.HandleMessage(context.Background(), nil, message("just chatting", "u1", "g1"))
	d.HandleMessage(context.Background(), nil, message("!unknown", "u1", "g1"))

	assert.Empty(t, drain(bus), "non-commands and unknown names drop silently")
}

func TestDispatcherBlacklistedUserSeesNothing(t *testing.T) {
	bus := NewBus(16)
	reg := NewRegistry(false)

	ran := false
	require.NoError(t, reg.Register(&Command{
		Name: "ping",
		Execute: func(*Context) (any, error) {
			ran = true
			return nil, nil
		},
	}))

	d := newDispatcher(bus, reg)
	d.Gate.UserBlacklist = func(_ context.Context, id string) (bool, error) { return id == "banned", nil }

	d.HandleMessage(context.Background(), nil, message("!ping", "banned", "g1"))

	assert.False(t, ran)
	assert.Empty(t, drain(bus), "zero observable events of any kind")
}

func TestDispatcherOwnerOnlySkipsExecute(t *testing.T) {
	bus := NewBus(16)
	reg := NewRegistry(false)

	ran := false
	require.NoError(t, reg.Register(&Command{
		Name:      "shutdown",
		OwnerOnly: boolPtr(true),
		Execute: func(*Context) (any, error) {
			ran = true
			return nil, nil
		},
	}))

	d := newDispatcher(bus, reg)
	d.HandleMessage(context.Background(), nil, message("!shutdown", "someone", "g1"))

	assert.False(t, ran)
	events := drain(bus)
	require.Len(t, events, 1)
	assert.Equal(t, EventCommandOwnerOnly, events[0].Type)
}

func TestDispatcherSurvivesFailingCommand(t *testing.T) {
	bus := NewBus(16)
	reg := NewRegistry(false)

	require.NoError(t, reg.Register(&Command{
		Name:    "bad",
		Execute: func(*Context) (any, error) { panic("handler bug") },
	}))
	pings := 0
	require.NoError(t, reg.Register(&Command{
		Name: "ping",
		Execute: func(*Context) (any, error) {
			pings++
			return nil, nil
		},
	}))

	d := newDispatcher(bus, reg)
	d.HandleMessage(context.Background(), nil, message("!bad", "u1", "g1"))
	d.HandleMessage(context.Background(), nil, message("!ping", "u1", "g1"))

	assert.Equal(t, 1, pings, "a failing invocation must not halt later events")

	var errorEvents int
	for _, evt := range drain(bus) {
		if evt.Type == EventCommandError {
			errorEvents++
		}
	}
	assert.Equal(t, 1, errorEvents)
}

func TestDispatcherMentionPrefix(t *testing.T) {
	bus := NewBus(16)
	reg := NewRegistry(false)

	ran := false
	require.NoError(t, reg.Register(&Command{
		Name: "ping",
		Execute: func(*Context) (any, error) {
			ran = true
			return nil, nil
		},
	}))

	d := newDispatcher(bus, reg)
	d.Prefixes = &PrefixResolver{MentionPrefix: true}
	d.SpaceAfterPrefix = true
	d.BotID = "bot42"

	d.HandleMessage(context.Background(), nil, message("<@bot42> ping", "u1", "g1"))
	assert.True(t, ran)
}
