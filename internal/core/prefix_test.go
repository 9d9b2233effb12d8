package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixResolverPicksLongestMatch(t *testing.T) {
	p := &PrefixResolver{Global: []string{"!", "!!"}}

	prefix, ok, err := p.Resolve(context.Background(), "!!ping", "u1", "", "", "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "!!", prefix)
}

func TestPrefixResolverDeterministicTieBreak(t *testing.T) {
	p := &PrefixResolver{Global: []string{"!p", "!pi"}}
	for i := 0; i < 20; i++ {
		prefix, ok, err := p.Resolve(context.Background(), "!ping", "u1", "", "", "")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "!pi", prefix)
	}
}

func TestPrefixResolverNoMatchIsSilent(t *testing.T) {
	p := &PrefixResolver{Global: []string{"!"}}

	prefix, ok, err := p.Resolve(context.Background(), "hello there", "u1", "", "", "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, prefix)
}

func TestPrefixResolverProviderUnion(t *testing.T) {
	var order []string
	p := &PrefixResolver{
		Global: []string{"!"},
		UserPrefixes: func(_ context.Context, id string) ([]string, error) {
			order = append(order, "user:"+id)
			return []string{"$$"}, nil
		},
		GuildPrefixes: func(_ context.Context, id string) ([]string, error) {
			order = append(order, "guild:"+id)
			return []string{"$"}, nil
		},
		ChannelPrefixes: func(_ context.Context, id string) ([]string, error) {
			order = append(order, "channel:"+id)
			return []string{"!", "$"}, nil // duplicates are dropped
		},
	}

	prefix, ok, err := p.Resolve(context.Background(), "$$roll 2d6", "u1", "g1", "c1", "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "$$", prefix, "longer user prefix must not be masked by the guild one")
	assert.Equal(t, []string{"user:u1", "guild:g1", "channel:c1"}, order)
}

func TestPrefixResolverSkipsGuildProviderInDM(t *testing.T) {
	p := &PrefixResolver{
		Global: []string{"!"},
		GuildPrefixes: func(_ context.Context, _ string) ([]string, error) {
			t.Fatal("guild provider must not run without a guild")
			return nil, nil
		},
	}

	_, ok, err := p.Resolve(context.Background(), "!ping", "u1", "", "c1", "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPrefixResolverProviderError(t *testing.T) {
	p := &PrefixResolver{
		UserPrefixes: func(_ context.Context, _ string) ([]string, error) {
			return nil, errors.New("store down")
		},
	}

	_, ok, err := p.Resolve(context.Background(), "!ping", "u1", "", "", "")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestPrefixResolverMentionForms(t *testing.T) {
	p := &PrefixResolver{MentionPrefix: true}

	prefix, ok, err := p.Resolve(context.Background(), "<@42> ping", "u1", "", "", "42")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "<@42>", prefix)

	prefix, ok, err = p.Resolve(context.Background(), "<@!42> ping", "u1", "", "", "42")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "<@!42>", prefix)

	_, ok, err = p.Resolve(context.Background(), "<@43> ping", "u1", "", "", "42")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPrefixResolverMentionDisabled(t *testing.T) {
	p := &PrefixResolver{}

	_, ok, err := p.Resolve(context.Background(), "<@42> ping", "u1", "", "", "42")
	require.NoError(t, err)
	assert.False(t, ok)
}
