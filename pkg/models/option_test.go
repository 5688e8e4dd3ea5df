package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionsKeepsOrderAndDeduplicates(t *testing.T) {
	t.Parallel()

	opts, err := ParseOptions([]string{"wined3d", "LOG", "wined3d", "nvapi"})
	require.NoError(t, err)
	assert.Equal(t, []Option{OptionWineD3D, OptionLog, OptionNvapi}, opts)
}

func TestParseOptionsTrimsWhitespace(t *testing.T) {
	t.Parallel()

	opts, err := ParseOptions([]string{"nvapi", " log", "NoEsync "})
	require.NoError(t, err)
	assert.Equal(t, []Option{OptionNvapi, OptionLog, OptionNoEsync}, opts)
}

func TestParseOptionsRejectsUnknownToken(t *testing.T) {
	t.Parallel()

	_, err := ParseOptions([]string{"log", "turbo"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUsage))
	assert.Contains(t, err.Error(), "turbo")
}

func TestOptionEnv(t *testing.T) {
	t.Parallel()

	for _, name := range KnownOptions() {
		opt, err := ParseOption(name)
		require.NoError(t, err)
		key, value := opt.Env()
		assert.NotEmpty(t, key, name)
		assert.Equal(t, "1", value)
	}

	key, _ := OptionLog.Env()
	assert.Equal(t, "PROTON_LOG", key)
}
