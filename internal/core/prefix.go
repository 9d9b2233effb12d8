package core

import (
	"context"
	"sort"
	"strings"
)

// PrefixProvider returns additional prefixes scoped to one id (user, guild
// or channel). Providers may do I/O; they are queried one at a time, never
// concurrently.
type PrefixProvider func(ctx context.Context, id string) ([]string, error)

// PrefixResolver computes which literal prefix, if any, begins a message.
type PrefixResolver struct {
	// Global is the static prefix set.
	Global []string

	// Scoped providers, queried strictly in this order. Any of them may be
	// nil. GuildPrefixes and ChannelPrefixes are skipped outside a guild /
	// without a channel id.
	UserPrefixes    PrefixProvider
	GuildPrefixes   PrefixProvider
	ChannelPrefixes PrefixProvider

	// MentionPrefix accepts a leading bot mention as a prefix when no
	// literal prefix matches.
	MentionPrefix bool
}

// Resolve returns the matched prefix for content. When several candidates
// match, the longest wins so a short prefix never masks a longer one; equal
// input always yields the same choice. A false second return means the
// message is not a command.
func (p *PrefixResolver) Resolve(ctx context.Context, content, userID, guildID, channelID, botID string) (string, bool, error) {
	candidates := make([]string, 0, len(p.Global))
	seen := make(map[string]bool)
	add := func(list []string) {
		for _, pre := range list {
			if pre == "" || seen[pre] {
				continue
			}
			seen[pre] = true
			candidates = append(candidates, pre)
		}
	}

	add(p.Global)
	if p.UserPrefixes != nil {
		list, err := p.UserPrefixes(ctx, userID)
		if err != nil {
			return "", false, err
		}
		add(list)
	}
	if p.GuildPrefixes != nil && guildID != "" {
		list, err := p.GuildPrefixes(ctx, guildID)
		if err != nil {
			return "", false, err
		}
		add(list)
	}
	if p.ChannelPrefixes != nil && channelID != "" {
		list, err := p.ChannelPrefixes(ctx, channelID)
		if err != nil {
			return "", false, err
		}
		add(list)
	}

	var matched []string
	for _, pre := range candidates {
		if strings.HasPrefix(content, pre) {
			matched = append(matched, pre)
		}
	}
	if len(matched) > 0 {
		sort.Slice(matched, func(i, j int) bool {
			if len(matched[i]) != len(matched[j]) {
				return len(matched[i]) > len(matched[j])
			}
			return matched[i] < matched[j]
		})
		return matched[0], true, nil
	}

	if p.MentionPrefix && botID != "" {
		for _, mention := range []string{"<@" + botID + ">", "<@!" + botID + ">"} {
			if strings.HasPrefix(content, mention) {
				return mention, true, nil
			}
		}
	}

	return "", false, nil
}
