// Package interaction models Discord interactions and the platform's
// one-initial-response-plus-follow-ups protocol. Outbound calls go through
// the narrow Transport interface; the discordgo-backed implementation lives
// in internal/discord.
package interaction

import (
	"context"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
)

// OriginalResponse is the follow-up address the platform reserves for the
// initial interaction response.
const OriginalResponse = "@original"

// Transport is the REST surface the responder needs: the interaction
// callback endpoint keyed by id+token, and the follow-up message endpoint
// keyed by application id, token and message id (or OriginalResponse).
type Transport interface {
	CreateInteractionResponse(ctx context.Context, interactionID, token string, payload *ResponsePayload) error
	CreateFollowupMessage(ctx context.Context, appID, token string, params *FollowupParams) (*discordgo.Message, error)
	EditFollowupMessage(ctx context.Context, appID, token, messageID string, edit *FollowupEdit) (*discordgo.Message, error)
	DeleteFollowupMessage(ctx context.Context, appID, token, messageID string) error
}

// Resolved is the per-interaction table of entities the platform hydrated
// alongside raw option values. Read-only for the life of the interaction.
type Resolved struct {
	Users    map[string]*discordgo.User
	Members  map[string]*discordgo.Member
	Channels map[string]*discordgo.Channel
	Roles    map[string]*discordgo.Role
}

// Interaction is one inbound slash-command (or component) invocation. It is
// owned by the handler invocation for its entire lifetime; the responded
// flag is the only state with race sensitivity and is guarded atomically.
type Interaction struct {
	ID    string
	Token string
	AppID string
	Type  discordgo.InteractionType

	// Name is the invoked command name; Path includes the subcommand group
	// and subcommand, slash-separated, for nested commands.
	Name string
	Path string

	// Options is the flattened top-level option list of the invoked
	// (sub)command.
	Options []Option

	Resolved Resolved

	GuildID   string
	ChannelID string
	Member    *discordgo.Member
	User      *discordgo.User

	Transport Transport

	responded atomic.Bool
}

// Responded reports whether the initial response has been sent.
func (i *Interaction) Responded() bool {
	return i.responded.Load()
}

// Sender returns the invoking user, whichever of member/user the platform
// populated for this context.
func (i *Interaction) Sender() *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
