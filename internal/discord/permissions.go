package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/core"
)

// sessionPermissions implements core.PermissionSource using the session's
// state cache, falling back to REST where the cache is cold.
type sessionPermissions struct {
	dg *discordgo.Session
}

// NewPermissionSource wraps a session as the gate's permission source.
func NewPermissionSource(dg *discordgo.Session) core.PermissionSource {
	return &sessionPermissions{dg: dg}
}

func (p *sessionPermissions) BotPermissions(guildID, channelID string) (int64, error) {
	return p.dg.UserChannelPermissions(p.dg.State.User.ID, channelID)
}

func (p *sessionPermissions) MemberPermissions(guildID, channelID, userID string) (int64, error) {
	return p.dg.UserChannelPermissions(userID, channelID)
}

func (p *sessionPermissions) ChannelNSFW(channelID string) (bool, error) {
	channel, err := p.dg.State.Channel(channelID)
	if err != nil {
		channel, err = p.dg.Channel(channelID)
		if err != nil {
			return false, err
		}
	}
	return channel.NSFW, nil
}
