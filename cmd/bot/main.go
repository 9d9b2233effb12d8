package main

import (
	"context"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/keshon/dispatchkit/internal/commands"
	"github.com/keshon/dispatchkit/internal/config"
	"github.com/keshon/dispatchkit/internal/core"
	"github.com/keshon/dispatchkit/internal/discord"
	"github.com/keshon/dispatchkit/internal/history"
	"github.com/keshon/dispatchkit/internal/logger"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fallback := logger.New("info", "")
		fallback.Fatal().Err(err).Msg("configuration error")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFile)
	log.Info().Msg("starting bot")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recorder, err := history.New(cfg.HistoryPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open history store")
	}
	defer recorder.Close()

	registry := core.NewRegistry(cfg.CaseSensitive)
	if err := commands.RegisterText(registry); err != nil {
		log.Fatal().Err(err).Msg("command registration failed")
	}

	bus := core.NewBus(64)
	gate := &core.Gate{
		IgnoreBots:       cfg.IgnoreBots,
		Owners:           cfg.Owners,
		UserBlacklist:    listPredicate(cfg.UserBlacklist),
		ChannelBlacklist: listPredicate(cfg.ChannelBlacklist),
		GuildBlacklist:   listPredicate(cfg.GuildBlacklist),
		Bus:              bus,
		Log:              log,
	}
	dispatcher := &core.Dispatcher{
		Registry: registry,
		Prefixes: &core.PrefixResolver{
			Global:        cfg.Prefixes,
			MentionPrefix: cfg.MentionPrefix,
		},
		Gate:             gate,
		Lifecycle:        &core.Lifecycle{Bus: bus, Log: log},
		SpaceAfterPrefix: cfg.SpaceAfterPrefix,
		Log:              log,
	}

	bot, err := discord.New(cfg, dispatcher, log)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create bot")
	}
	gate.Perms = discord.NewPermissionSource(bot.Session())
	commands.RegisterSlash(bot)

	go drainEvents(ctx, bus, recorder, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- bot.Run(ctx)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("bot exited with error")
		}
		cancel()
	}

	log.Info().Msg("bot exited cleanly")
}

// drainEvents logs diagnostic events for operators and feeds command usage
// into the history recorder.
func drainEvents(ctx context.Context, bus *core.Bus, recorder *history.Recorder, log zerolog.Logger) {
	for {
		select {
		case evt := <-bus.Events():
			logEvent(log, evt)
			if evt.Type == core.EventCommandUsed {
				recorder.Record(evt.Ctx)
			}
		case <-ctx.Done():
			return
		}
	}
}

func logEvent(log zerolog.Logger, evt core.Event) {
	e := log.Info()
	switch evt.Type {
	case core.EventCommandError:
		e = log.Error().Err(evt.Err)
	case core.EventCommandBotMissingPermissions, core.EventCommandUserMissingPermissions:
		e = log.Warn().Strs("missing", evt.Missing)
	}
	if evt.Ctx != nil && evt.Ctx.Command != nil {
		e = e.Str("command", evt.Ctx.Command.Name)
	}
	if evt.Ctx != nil && evt.Ctx.Author != nil {
		e = e.Str("user", evt.Ctx.Author.ID)
	}
	e.Str("event", string(evt.Type)).Msg("dispatch event")
}

// listPredicate turns a static id list into a gate predicate; empty lists
// mean no check at all.
func listPredicate(ids []string) core.Predicate {
	if len(ids) == 0 {
		return nil
	}
	return func(_ context.Context, id string) (bool, error) {
		return slices.Contains(ids, id), nil
	}
}
