// Package history records command usage to a JSON datastore, one capped
// list per guild. It consumes command-used events from the diagnostic bus.
package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/keshon/datastore"

	"github.com/keshon/dispatchkit/internal/core"
)

const perGuildLimit = 50

// dmKey groups direct-message invocations, which carry no guild id.
const dmKey = "dm"

// Entry is one recorded invocation.
type Entry struct {
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Command   string    `json:"command"`
	Args      string    `json:"args,omitempty"`
	Datetime  time.Time `json:"datetime"`
}

// Recorder persists entries through a file-backed datastore.
type Recorder struct {
	mu sync.Mutex
	ds *datastore.DataStore
}

// New opens (or creates) the datastore file at path.
func New(path string) (*Recorder, error) {
	ds, err := datastore.New(path)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return &Recorder{ds: ds}, nil
}

// Close flushes and closes the underlying store.
func (r *Recorder) Close() error {
	return r.ds.Close()
}

// Record appends one invocation, trimming the guild's list to the cap.
func (r *Recorder) Record(c *core.Context) {
	if c == nil || c.Command == nil || c.Author == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := c.GuildID
	if key == "" {
		key = dmKey
	}

	entries := r.load(key)
	entries = append(entries, Entry{
		ChannelID: c.ChannelID,
		UserID:    c.Author.ID,
		Username:  c.Author.Username,
		Command:   c.Command.Name,
		Args:      strings.Join(c.Args, " "),
		Datetime:  time.Now(),
	})
	if len(entries) > perGuildLimit {
		entries = entries[len(entries)-perGuildLimit:]
	}
	r.ds.Add(key, entries)
}

// Guild returns the recorded entries for one guild, oldest first.
func (r *Recorder) Guild(guildID string) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if guildID == "" {
		guildID = dmKey
	}
	return r.load(guildID)
}

// load decodes the stored value through a JSON round trip; the datastore
// returns plain maps for data read back from disk.
func (r *Recorder) load(key string) []Entry {
	raw, ok := r.ds.Get(key)
	if !ok {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return entries
}
