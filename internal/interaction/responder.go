package interaction

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
)

// ResponseType is the interaction callback type enum.
type ResponseType int

const (
	ResponsePong                             ResponseType = 1
	ResponseChannelMessage                   ResponseType = 3
	ResponseChannelMessageWithSource         ResponseType = 4
	ResponseDeferredChannelMessageWithSource ResponseType = 5
	ResponseDeferredMessageUpdate            ResponseType = 6
	ResponseUpdateMessage                    ResponseType = 7
	ResponseModal                            ResponseType = 9
)

// Contract violations the responder reports synchronously to its caller.
// Everything else is a transport error.
var (
	ErrAlreadyResponded = errors.New("interaction: already responded")
	ErrNoContent        = errors.New("interaction: follow-up needs content or embeds")
	ErrTooManyEmbeds    = errors.New("interaction: at most 10 embeds per message")
)

// maxEmbeds is the platform limit per follow-up message.
const maxEmbeds = 10

// ResponsePayload is the wire shape of an interaction callback.
type ResponsePayload struct {
	Type ResponseType  `json:"type"`
	Data *ResponseData `json:"data,omitempty"`
}

// ResponseData is the message body of a callback.
type ResponseData struct {
	Content         string                            `json:"content,omitempty"`
	Embeds          []*discordgo.MessageEmbed         `json:"embeds,omitempty"`
	TTS             bool                              `json:"tts,omitempty"`
	Flags           int                               `json:"flags,omitempty"`
	AllowedMentions *discordgo.MessageAllowedMentions `json:"allowed_mentions,omitempty"`
}

// Response describes the initial response a handler wants to send.
type Response struct {
	// Type forces the callback type. When zero, the type is chosen from
	// WithSource: explicitly false selects the plain channel-message type,
	// anything else defaults to channel-message-with-source.
	Type       ResponseType
	WithSource *bool

	Content         string
	Embeds          []*discordgo.MessageEmbed
	TTS             bool
	AllowedMentions *discordgo.MessageAllowedMentions

	// Ephemeral makes the response visible only to the invoking user.
	Ephemeral bool
	// Temp is an alias kept for callers of the old field name.
	//
	// Deprecated: set Ephemeral instead.
	Temp bool

	// Flags are OR-ed into the outbound bitmask, element-wise from Flags
	// and directly from RawFlags.
	Flags    []int
	RawFlags int
}

// FollowupParams describes one follow-up message. Username and AvatarURL
// override the displayed identity for that message only.
type FollowupParams struct {
	Content         string
	Embeds          []*discordgo.MessageEmbed
	TTS             bool
	Ephemeral       bool
	AllowedMentions *discordgo.MessageAllowedMentions
	Username        string
	AvatarURL       string
}

// FollowupEdit carries the fields of a follow-up edit; nil fields are left
// untouched.
type FollowupEdit struct {
	Content         *string
	Embeds          *[]*discordgo.MessageEmbed
	AllowedMentions *discordgo.MessageAllowedMentions
}

// Respond sends the initial response. It is the sole transition of the
// responded flag: the first call claims it atomically, any later call fails
// with ErrAlreadyResponded and performs no outbound call.
func (i *Interaction) Respond(ctx context.Context, r *Response) error {
	if !i.responded.CompareAndSwap(false, true) {
		return ErrAlreadyResponded
	}

	typ := r.Type
	if typ == 0 {
		if r.WithSource != nil && !*r.WithSource {
			typ = ResponseChannelMessage
		} else {
			typ = ResponseChannelMessageWithSource
		}
	}

	flags := r.RawFlags
	for _, f := range r.Flags {
		flags |= f
	}
	if r.Ephemeral || r.Temp {
		flags |= int(discordgo.MessageFlagsEphemeral)
	}

	payload := &ResponsePayload{Type: typ}
	if typ != ResponsePong {
		payload.Data = &ResponseData{
			Content:         r.Content,
			Embeds:          r.Embeds,
			TTS:             r.TTS,
			Flags:           flags,
			AllowedMentions: r.AllowedMentions,
		}
	}

	if err := i.Transport.CreateInteractionResponse(ctx, i.ID, i.Token, payload); err != nil {
		// The claim is rolled back so the handler may retry.
		i.responded.Store(false)
		return err
	}
	return nil
}

// Acknowledge defers the response, buying the handler time before an edit.
func (i *Interaction) Acknowledge(ctx context.Context) error {
	return i.Respond(ctx, &Response{Type: ResponseDeferredChannelMessageWithSource})
}

// Reply is sugar over Respond for plain text. A trailing options argument
// may refine the response; its empty Content is filled from text.
func (i *Interaction) Reply(ctx context.Context, text string, opts ...*Response) error {
	r := &Response{}
	if len(opts) > 0 && opts[len(opts)-1] != nil {
		r = opts[len(opts)-1]
	}
	if r.Content == "" {
		r.Content = text
	}
	return i.Respond(ctx, r)
}

// Send creates a new follow-up message. It is independent of the responded
// flag and callable any number of times. Validation happens before any
// outbound call.
func (i *Interaction) Send(ctx context.Context, p *FollowupParams) (*discordgo.Message, error) {
	if p == nil || (p.Content == "" && len(p.Embeds) == 0) {
		return nil, ErrNoContent
	}
	if len(p.Embeds) > maxEmbeds {
		return nil, ErrTooManyEmbeds
	}
	return i.Transport.CreateFollowupMessage(ctx, i.AppID, i.Token, p)
}

// EditResponse edits the initial response through the reserved original
// follow-up address, independent of any follow-ups sent since.
func (i *Interaction) EditResponse(ctx context.Context, edit *FollowupEdit) (*discordgo.Message, error) {
	return i.EditMessage(ctx, OriginalResponse, edit)
}

// DeleteResponse deletes the initial response.
func (i *Interaction) DeleteResponse(ctx context.Context) error {
	return i.DeleteMessage(ctx, OriginalResponse)
}

// EditMessage edits a follow-up by id, or the initial response when id is
// OriginalResponse. It does not consult or mutate the responded flag.
func (i *Interaction) EditMessage(ctx context.Context, messageID string, edit *FollowupEdit) (*discordgo.Message, error) {
	return i.Transport.EditFollowupMessage(ctx, i.AppID, i.Token, messageID, edit)
}

// DeleteMessage deletes a follow-up by id, or the initial response when id
// is OriginalResponse.
func (i *Interaction) DeleteMessage(ctx context.Context, messageID string) error {
	return i.Transport.DeleteFollowupMessage(ctx, i.AppID, i.Token, messageID)
}
