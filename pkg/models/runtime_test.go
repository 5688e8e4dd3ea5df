package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRuntimeVersion(t *testing.T) {
	t.Parallel()

	for text, want := range map[string]string{"soldier": "soldier", "Sniper": "sniper", "1": "scout", "2": "soldier", "3": "sniper"} {
		rv, err := ParseRuntimeVersion(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, rv.String())
	}

	_, err := ParseRuntimeVersion("heavy")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUsage))
}

func TestRuntimeFromDirectoryName(t *testing.T) {
	t.Parallel()

	rv, ok := RuntimeFromDirectoryName("SteamLinuxRuntime_soldier")
	require.True(t, ok)
	assert.Equal(t, "soldier", rv.String())

	rv, ok = RuntimeFromDirectoryName("SteamLinuxRuntime")
	require.True(t, ok)
	assert.Equal(t, "scout", rv.String())

	for _, name := range []string{"SteamLinuxRuntime_scout", "SteamLinuxRuntime_", "Proton 6.3", "SteamLinuxRuntime_heavy"} {
		_, ok := RuntimeFromDirectoryName(name)
		assert.False(t, ok, name)
	}
}

func TestRuntimeCompare(t *testing.T) {
	t.Parallel()

	soldier, _ := ParseRuntimeVersion("soldier")
	sniper, _ := ParseRuntimeVersion("sniper")

	c, ok := soldier.Compare(sniper)
	require.True(t, ok)
	assert.Equal(t, -1, c)

	_, ok = RuntimeVersion{}.Compare(sniper)
	assert.False(t, ok)
	assert.True(t, RuntimeVersion{}.IsDefault())
}
