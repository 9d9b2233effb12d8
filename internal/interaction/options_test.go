package interaction

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionMissingNeverFails(t *testing.T) {
	ic := &Interaction{}

	v := ic.Option("absent")
	assert.True(t, v.Missing())
	assert.Equal(t, KindNone, v.Kind())
	assert.Nil(t, v.Raw())
}

func TestOptionValuelessIsMissing(t *testing.T) {
	ic := &Interaction{Options: []Option{{Name: "flag", Kind: KindBoolean, Value: nil}}}

	assert.True(t, ic.Option("flag").Missing())
}

func TestOptionFirstMatchWins(t *testing.T) {
	ic := &Interaction{Options: []Option{
		{Name: "word", Kind: KindString, Value: "first"},
		{Name: "word", Kind: KindString, Value: "second"},
	}}

	s, err := ic.Option("word").StringValue()
	require.NoError(t, err)
	assert.Equal(t, "first", s)
}

func TestOptionScalars(t *testing.T) {
	ic := &Interaction{Options: []Option{
		{Name: "word", Kind: KindString, Value: "hello"},
		{Name: "count", Kind: KindInteger, Value: float64(6)},
		{Name: "exact", Kind: KindInteger, Value: int64(42)},
		{Name: "ratio", Kind: KindNumber, Value: 0.5},
		{Name: "loud", Kind: KindBoolean, Value: true},
	}}

	s, err := ic.Option("word").StringValue()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	n, err := ic.Option("count").IntValue()
	require.NoError(t, err)
	assert.Equal(t, int64(6), n, "json numbers arrive as float64")

	n, err = ic.Option("exact").IntValue()
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	f, err := ic.Option("ratio").FloatValue()
	require.NoError(t, err)
	assert.Equal(t, 0.5, f)

	b, err := ic.Option("loud").BoolValue()
	require.NoError(t, err)
	assert.True(t, b)
}

func TestOptionKindMismatch(t *testing.T) {
	ic := &Interaction{Options: []Option{{Name: "word", Kind: KindString, Value: "hello"}}}

	v := ic.Option("word")
	_, err := v.IntValue()
	assert.ErrorContains(t, err, "option is string, not integer")
	_, err = v.UserValue()
	assert.ErrorContains(t, err, "not user")

	// Raw access still works regardless of kind.
	assert.Equal(t, "hello", v.Raw())
}

func TestOptionUserHydration(t *testing.T) {
	user := &discordgo.User{ID: "123", Username: "kesha"}
	member := &discordgo.Member{User: user, Nick: "boss"}
	ic := &Interaction{
		Options: []Option{{Name: "target", Kind: KindUser, Value: "123"}},
		Resolved: Resolved{
			Users:   map[string]*discordgo.User{"123": user},
			Members: map[string]*discordgo.Member{"123": member},
		},
	}

	v := ic.Option("target")
	u, err := v.UserValue()
	require.NoError(t, err)
	assert.Same(t, user, u, "the accessor returns the resolved entity, not the id")

	m, err := v.MemberValue()
	require.NoError(t, err)
	assert.Same(t, member, m)
}

func TestOptionUserNotInResolvedTable(t *testing.T) {
	ic := &Interaction{Options: []Option{{Name: "target", Kind: KindUser, Value: "999"}}}

	u, err := ic.Option("target").UserValue()
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestOptionRoleAndChannelHydration(t *testing.T) {
	role := &discordgo.Role{ID: "r1", Name: "mods"}
	channel := &discordgo.Channel{ID: "c1", Name: "general"}
	ic := &Interaction{
		Options: []Option{
			{Name: "role", Kind: KindRole, Value: "r1"},
			{Name: "where", Kind: KindChannel, Value: "c1"},
		},
		Resolved: Resolved{
			Roles:    map[string]*discordgo.Role{"r1": role},
			Channels: map[string]*discordgo.Channel{"c1": channel},
		},
	}

	r, err := ic.Option("role").RoleValue()
	require.NoError(t, err)
	assert.Same(t, role, r)

	c, err := ic.Option("where").ChannelValue()
	require.NoError(t, err)
	assert.Same(t, channel, c)
}
