package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/keshon/dispatchkit/internal/config"
	"github.com/keshon/dispatchkit/internal/core"
	"github.com/keshon/dispatchkit/internal/interaction"
)

// InteractionHandler handles one inbound interaction. A returned error is
// logged and answered with an ephemeral notice; it never stops the gateway.
type InteractionHandler func(ctx context.Context, ic *interaction.Interaction) error

// Bot owns the gateway session and fans events out: message-created events
// go to the dispatcher, interaction-created events to registered handlers.
// Each event is processed in its own goroutine.
type Bot struct {
	dg         *discordgo.Session
	cfg        *config.Config
	dispatcher *core.Dispatcher
	transport  interaction.Transport
	handlers   map[string]InteractionHandler
	slashDefs  []*discordgo.ApplicationCommand
	log        zerolog.Logger
}

// New builds a bot around a fresh session. Handlers and slash definitions
// are registered before Run; the maps are not safe for mutation afterwards.
func New(cfg *config.Config, d *core.Dispatcher, log zerolog.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	b := &Bot{
		dg:         dg,
		cfg:        cfg,
		dispatcher: d,
		transport:  NewTransport(dg),
		handlers:   make(map[string]InteractionHandler),
		log:        log,
	}

	dg.Identify.Intents = discordgo.IntentsAllWithoutPrivileged | discordgo.IntentsMessageContent
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)
	return b, nil
}

// Session exposes the underlying session for wiring (transport, permission
// source, reference commands).
func (b *Bot) Session() *discordgo.Session { return b.dg }

// Handle registers an interaction handler under a command name or a
// name/group/sub path. Path registrations win over plain-name ones.
func (b *Bot) Handle(path string, h InteractionHandler) {
	b.handlers[path] = h
}

// RegisterSlash registers a slash command definition for sync together with
// its handler.
func (b *Bot) RegisterSlash(def *discordgo.ApplicationCommand, h InteractionHandler) {
	b.slashDefs = append(b.slashDefs, def)
	b.Handle(def.Name, h)
}

// Run opens the gateway connection and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open gateway session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received, closing session")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.dispatcher.BotID = r.User.ID

	if b.cfg.InitSlashCommands {
		for _, g := range r.Guilds {
			if err := b.syncCommands(g.ID); err != nil {
				b.log.Error().Err(err).Str("guild", g.ID).Msg("slash command sync failed")
			}
		}
	} else {
		b.log.Info().Msg("slash command sync skipped")
	}

	b.log.Info().Str("user", r.User.Username).Msg("bot is running")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}
	go b.dispatcher.HandleMessage(context.Background(), s, m)
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, ev *discordgo.InteractionCreate) {
	if ev.Type != discordgo.InteractionApplicationCommand {
		return
	}

	ic := buildInteraction(b.transport, ev)
	h, ok := b.handlers[ic.Path]
	if !ok {
		h, ok = b.handlers[ic.Name]
	}
	if !ok {
		b.log.Warn().Str("command", ic.Path).Msg("no handler for interaction")
		return
	}

	go b.runHandler(ic, h)
}

// runHandler contains handler failures: errors and panics are logged and
// answered, never propagated to the gateway goroutine.
func (b *Bot) runHandler(ic *interaction.Interaction, h InteractionHandler) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Str("command", ic.Path).Msg("interaction handler panicked")
		}
	}()

	ctx := context.Background()
	if err := h(ctx, ic); err != nil {
		b.log.Error().Err(err).Str("command", ic.Path).Msg("interaction handler failed")
		notice := fmt.Sprintf("Error running command: %v", err)
		if !ic.Responded() {
			_ = ic.Respond(ctx, &interaction.Response{Content: notice, Ephemeral: true})
			return
		}
		_, _ = ic.Send(ctx, &interaction.FollowupParams{Content: notice, Ephemeral: true})
	}
}
