package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dispatchkit/internal/interaction"
)

// sessionTransport implements interaction.Transport over a discordgo
// session. The "@original" sentinel maps to the interaction-response
// endpoints, everything else to the follow-up message endpoints.
type sessionTransport struct {
	dg *discordgo.Session
}

// NewTransport wraps a session as an interaction transport.
func NewTransport(dg *discordgo.Session) interaction.Transport {
	return &sessionTransport{dg: dg}
}

func (t *sessionTransport) CreateInteractionResponse(ctx context.Context, interactionID, token string, payload *interaction.ResponsePayload) error {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseType(payload.Type),
	}
	if payload.Data != nil {
		resp.Data = &discordgo.InteractionResponseData{
			Content:         payload.Data.Content,
			Embeds:          payload.Data.Embeds,
			TTS:             payload.Data.TTS,
			Flags:           discordgo.MessageFlags(payload.Data.Flags),
			AllowedMentions: payload.Data.AllowedMentions,
		}
	}
	ref := &discordgo.Interaction{ID: interactionID, Token: token}
	return t.dg.InteractionRespond(ref, resp, discordgo.WithContext(ctx))
}

func (t *sessionTransport) CreateFollowupMessage(ctx context.Context, appID, token string, params *interaction.FollowupParams) (*discordgo.Message, error) {
	wh := &discordgo.WebhookParams{
		Content:         params.Content,
		Embeds:          params.Embeds,
		TTS:             params.TTS,
		AllowedMentions: params.AllowedMentions,
		Username:        params.Username,
		AvatarURL:       params.AvatarURL,
	}
	if params.Ephemeral {
		wh.Flags = discordgo.MessageFlagsEphemeral
	}
	ref := &discordgo.Interaction{AppID: appID, Token: token}
	return t.dg.FollowupMessageCreate(ref, true, wh, discordgo.WithContext(ctx))
}

func (t *sessionTransport) EditFollowupMessage(ctx context.Context, appID, token, messageID string, edit *interaction.FollowupEdit) (*discordgo.Message, error) {
	wh := &discordgo.WebhookEdit{
		Content:         edit.Content,
		Embeds:          edit.Embeds,
		AllowedMentions: edit.AllowedMentions,
	}
	ref := &discordgo.Interaction{AppID: appID, Token: token}
	if messageID == interaction.OriginalResponse {
		return t.dg.InteractionResponseEdit(ref, wh, discordgo.WithContext(ctx))
	}
	return t.dg.FollowupMessageEdit(ref, messageID, wh, discordgo.WithContext(ctx))
}

func (t *sessionTransport) DeleteFollowupMessage(ctx context.Context, appID, token, messageID string) error {
	ref := &discordgo.Interaction{AppID: appID, Token: token}
	if messageID == interaction.OriginalResponse {
		return t.dg.InteractionResponseDelete(ref, discordgo.WithContext(ctx))
	}
	return t.dg.FollowupMessageDelete(ref, messageID, discordgo.WithContext(ctx))
}
