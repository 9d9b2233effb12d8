package interaction

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	kind      string
	messageID string
	payload   *ResponsePayload
	params    *FollowupParams
}

type fakeTransport struct {
	calls   []call
	fail    error
	nextMsg *discordgo.Message
}

func (f *fakeTransport) CreateInteractionResponse(_ context.Context, _, _ string, payload *ResponsePayload) error {
	if f.fail != nil {
		return f.fail
	}
	f.calls = append(f.calls, call{kind: "respond", payload: payload})
	return nil
}

func (f *fakeTransport) CreateFollowupMessage(_ context.Context, _, _ string, params *FollowupParams) (*discordgo.Message, error) {
	f.calls = append(f.calls, call{kind: "send", params: params})
	return f.nextMsg, nil
}

func (f *fakeTransport) EditFollowupMessage(_ context.Context, _, _, messageID string, _ *FollowupEdit) (*discordgo.Message, error) {
	f.calls = append(f.calls, call{kind: "edit", messageID: messageID})
	return f.nextMsg, nil
}

func (f *fakeTransport) DeleteFollowupMessage(_ context.Context, _, _, messageID string) error {
	f.calls = append(f.calls, call{kind: "delete", messageID: messageID})
	return nil
}

func newInteraction(t *fakeTransport) *Interaction {
	return &Interaction{
		ID:        "i1",
		Token:     "tok",
		AppID:     "app",
		Transport: t,
	}
}

func TestRespondExactlyOnce(t *testing.T) {
	ft := &fakeTransport{}
	ic := newInteraction(ft)

	require.NoError(t, ic.Respond(context.Background(), &Response{Content: "hi"}))
	assert.True(t, ic.Responded())

	err := ic.Respond(context.Background(), &Response{Content: "again"})
	assert.ErrorIs(t, err, ErrAlreadyResponded)
	assert.Len(t, ft.calls, 1, "a rejected respond makes no outbound call")
}

func TestRespondDefaultsToWithSource(t *testing.T) {
	ft := &fakeTransport{}
	ic := newInteraction(ft)

	require.NoError(t, ic.Respond(context.Background(), &Response{Content: "hi"}))
	assert.Equal(t, ResponseChannelMessageWithSource, ft.calls[0].payload.Type)
}

func TestRespondWithSourceOptOut(t *testing.T) {
	ft := &fakeTransport{}
	ic := newInteraction(ft)

	withSource := false
	require.NoError(t, ic.Respond(context.Background(), &Response{Content: "hi", WithSource: &withSource}))
	assert.Equal(t, ResponseChannelMessage, ft.calls[0].payload.Type)
}

func TestRespondExplicitTypeWins(t *testing.T) {
	ft := &fakeTransport{}
	ic := newInteraction(ft)

	withSource := false
	require.NoError(t, ic.Respond(context.Background(), &Response{
		Type:       ResponseUpdateMessage,
		WithSource: &withSource,
	}))
	assert.Equal(t, ResponseUpdateMessage, ft.calls[0].payload.Type)
}

func TestRespondFlagBitmask(t *testing.T) {
	ft := &fakeTransport{}
	ic := newInteraction(ft)

	require.NoError(t, ic.Respond(context.Background(), &Response{
		Content:   "hi",
		Ephemeral: true,
		Flags:     []int{1 << 2, 1 << 12},
		RawFlags:  1 << 3,
	}))

	want := int(discordgo.MessageFlagsEphemeral) | 1<<2 | 1<<12 | 1<<3
	assert.Equal(t, want, ft.calls[0].payload.Data.Flags)
}

func TestRespondTempAlias(t *testing.T) {
	ft := &fakeTransport{}
	ic := newInteraction(ft)

	require.NoError(t, ic.Respond(context.Background(), &Response{Content: "hi", Temp: true}))
	assert.Equal(t, int(discordgo.MessageFlagsEphemeral), ft.calls[0].payload.Data.Flags)
}

func TestRespondTransportFailureAllowsRetry(t *testing.T) {
	ft := &fakeTransport{fail: errors.New("rest down")}
	ic := newInteraction(ft)

	err := ic.Respond(context.Background(), &Response{Content: "hi"})
	require.Error(t, err)
	assert.False(t, ic.Responded(), "a failed call releases the claim")

	ft.fail = nil
	require.NoError(t, ic.Respond(context.Background(), &Response{Content: "hi"}))
	assert.True(t, ic.Responded())
}

func TestAcknowledge(t *testing.T) {
	ft := &fakeTransport{}
	ic := newInteraction(ft)

	require.NoError(t, ic.Acknowledge(context.Background()))
	assert.Equal(t, ResponseDeferredChannelMessageWithSource, ft.calls[0].payload.Type)
	assert.True(t, ic.Responded())
}

func TestReplyMergesTextIntoOptions(t *testing.T) {
	ft := &fakeTransport{}
	ic := newInteraction(ft)

	require.NoError(t, ic.Reply(context.Background(), "hello", &Response{Ephemeral: true}))
	data := ft.calls[0].payload.Data
	assert.Equal(t, "hello", data.Content)
	assert.Equal(t, int(discordgo.MessageFlagsEphemeral), data.Flags)
}

func TestReplyOptionsContentWins(t *testing.T) {
	ft := &fakeTransport{}
	ic := newInteraction(ft)

	require.NoError(t, ic.Reply(context.Background(), "ignored", &Response{Content: "kept"}))
	assert.Equal(t, "kept", ft.calls[0].payload.Data.Content)
}

func TestSendRequiresContent(t *testing.T) {
	ft := &fakeTransport{}
	ic := newInteraction(ft)

	_, err := ic.Send(context.Background(), &FollowupParams{})
	assert.ErrorIs(t, err, ErrNoContent)
	_, err = ic.Send(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoContent)
	assert.Empty(t, ft.calls, "validation failures never reach the transport")
}

func TestSendRejectsElevenEmbeds(t *testing.T) {
	ft := &fakeTransport{}
	ic := newInteraction(ft)

	embeds := make([]*discordgo.MessageEmbed, 11)
	for i := range embeds {
		embeds[i] = &discordgo.MessageEmbed{Title: "e"}
	}

	_, err := ic.Send(context.Background(), &FollowupParams{Embeds: embeds})
	assert.ErrorIs(t, err, ErrTooManyEmbeds)
	assert.Empty(t, ft.calls)

	_, err = ic.Send(context.Background(), &FollowupParams{Embeds: embeds[:10]})
	assert.NoError(t, err)
	assert.Len(t, ft.calls, 1)
}

func TestSendIndependentOfResponded(t *testing.T) {
	ft := &fakeTransport{nextMsg: &discordgo.Message{ID: "m1"}}
	ic := newInteraction(ft)

	msg, err := ic.Send(context.Background(), &FollowupParams{Content: "before response"})
	require.NoError(t, err)
	assert.Equal(t, "m1", msg.ID)
	assert.False(t, ic.Responded(), "follow-ups never touch the responded flag")

	require.NoError(t, ic.Respond(context.Background(), &Response{Content: "hi"}))
	_, err = ic.Send(context.Background(), &FollowupParams{Content: "after response"})
	assert.NoError(t, err)
}

func TestSendIdentityOverride(t *testing.T) {
	ft := &fakeTransport{}
	ic := newInteraction(ft)

	_, err := ic.Send(context.Background(), &FollowupParams{
		Content:  "hi",
		Username: "Announcer",
	})
	require.NoError(t, err)
	assert.Equal(t, "Announcer", ft.calls[0].params.Username)
}

func TestEditAndDeleteResponseTargetOriginal(t *testing.T) {
	ft := &fakeTransport{}
	ic := newInteraction(ft)

	content := "edited"
	_, err := ic.EditResponse(context.Background(), &FollowupEdit{Content: &content})
	require.NoError(t, err)
	require.NoError(t, ic.DeleteResponse(context.Background()))

	assert.Equal(t, OriginalResponse, ft.calls[0].messageID)
	assert.Equal(t, OriginalResponse, ft.calls[1].messageID)
	assert.False(t, ic.Responded(), "edits and deletes never consult the responded flag")
}

func TestEditMessageExplicitID(t *testing.T) {
	ft := &fakeTransport{}
	ic := newInteraction(ft)

	content := "edited"
	_, err := ic.EditMessage(context.Background(), "m7", &FollowupEdit{Content: &content})
	require.NoError(t, err)
	require.NoError(t, ic.DeleteMessage(context.Background(), "m7"))

	assert.Equal(t, "m7", ft.calls[0].messageID)
	assert.Equal(t, "m7", ft.calls[1].messageID)
}
