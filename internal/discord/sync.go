package discord

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/keshon/dispatchkit/pkg/retrylimit"
)

// registration stays well under Discord's application-command rate limit
// and backs off when the API pushes back.
var syncLimiter = retrylimit.NewLimiter(20, 1, 40)

// syncCommands reconciles a guild's slash commands with the registered
// definitions: obsolete commands are deleted, commands whose definition hash
// changed are created or updated. Hashes are cached on disk so unchanged
// commands cost no API calls across restarts.
func (b *Bot) syncCommands(guildID string) error {
	appID := b.dg.State.User.ID

	remote, err := b.dg.ApplicationCommands(appID, guildID)
	if err != nil {
		return err
	}

	localNames := make(map[string]string, len(b.slashDefs))
	for _, def := range b.slashDefs {
		localNames[def.Name] = hashCommand(def)
	}
	cached := b.loadCommandHashes(guildID)

	for _, rc := range remote {
		if _, keep := localNames[rc.Name]; keep {
			continue
		}
		b.log.Info().Str("guild", guildID).Str("command", rc.Name).Msg("deleting obsolete command")
		if err := b.dg.ApplicationCommandDelete(appID, guildID, rc.ID); err != nil {
			b.log.Error().Err(err).Str("command", rc.Name).Msg("delete failed")
			continue
		}
		delete(cached, rc.Name)
	}

	changed := 0
	for _, def := range b.slashDefs {
		h := localNames[def.Name]
		if cached[def.Name] == h {
			continue
		}
		changed++
		err := retrylimit.Do(context.Background(), syncLimiter, retrylimit.Config{
			MaxAttempts:  5,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     10 * time.Second,
		}, func() error {
			_, err := b.dg.ApplicationCommandCreate(appID, guildID, def)
			return err
		})
		if err != nil {
			b.log.Error().Err(err).Str("command", def.Name).Msg("register failed")
			continue
		}
		b.log.Info().Str("guild", guildID).Str("command", def.Name).Msg("command registered")
		cached[def.Name] = h
	}

	if changed > 0 {
		b.log.Info().Str("guild", guildID).Int("changed", changed).Msg("slash commands updated")
	}
	b.saveCommandHashes(guildID, cached)
	return nil
}

func (b *Bot) cachePath(guildID string) string {
	return filepath.Join(b.cfg.CommandCacheDir, guildID+".json")
}

func (b *Bot) loadCommandHashes(guildID string) map[string]string {
	hashes := make(map[string]string)
	if data, err := os.ReadFile(b.cachePath(guildID)); err == nil {
		_ = json.Unmarshal(data, &hashes)
	}
	return hashes
}

func (b *Bot) saveCommandHashes(guildID string, hashes map[string]string) {
	path := b.cachePath(guildID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		b.log.Warn().Err(err).Msg("cannot create command cache dir")
		return
	}
	data, _ := json.MarshalIndent(hashes, "", "  ")
	if err := os.WriteFile(path, data, 0644); err != nil {
		b.log.Warn().Err(err).Msg("cannot write command cache")
	}
}
