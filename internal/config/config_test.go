package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs([]string{"--links", "links.yaml"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"links.yaml"}, cfg.App.LinkFiles)
	assert.Equal(t, "tmux", cfg.App.Navigator)
	assert.Equal(t, []string{"w3m"}, cfg.App.Viewer)
	assert.Equal(t, "contains", cfg.App.Match)
	assert.Equal(t, 30*time.Second, cfg.App.NavigateTimeout)
	assert.True(t, cfg.App.Watch)
	assert.False(t, cfg.App.Stay)
	require.NoError(t, Validate(cfg))
}

func TestLoadArgsRepeatedAndPositionalLinks(t *testing.T) {
	cfg, err := LoadArgs([]string{"--links", "a.yaml,b.toml", "--links=c.jsonc", "d.json"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yaml", "b.toml", "c.jsonc", "d.json"}, cfg.App.LinkFiles)
	assert.Equal(t, "a.yaml,b.toml,c.jsonc,d.json", cfg.Flags["links"])
}

func TestEnvironmentLayering(t *testing.T) {
	env := []string{
		"TMUX_POPUP_LINKS_LINKS=env.yaml, other.yaml",
		"TMUX_POPUP_LINKS_NAVIGATOR=open",
		"TMUX_POPUP_LINKS_WIDTH=90",
		"TMUX_POPUP_LINKS_STAY=true",
		"TMUX_POPUP_LINKS_TIMEOUT=5s",
		"TMUX_POPUP_LINKS_VIEWER=lynx -accept_all_cookies",
		"TMUX_POPUP_LINKS_HEIGHT=not-a-number",
	}
	cfg, err := LoadArgs([]string{"--width", "70"}, env)
	require.NoError(t, err)
	assert.Equal(t, []string{"env.yaml", "other.yaml"}, cfg.App.LinkFiles)
	assert.Equal(t, "open", cfg.App.Navigator)
	assert.Equal(t, 70, cfg.App.Width, "flag must win over env")
	assert.Equal(t, 0, cfg.App.Height, "malformed env falls back to default")
	assert.True(t, cfg.App.Stay)
	assert.Equal(t, 5*time.Second, cfg.App.NavigateTimeout)
	assert.Equal(t, []string{"lynx", "-accept_all_cookies"}, cfg.App.Viewer)
}

func TestLoadArgsRejectsNegativeSizes(t *testing.T) {
	_, err := LoadArgs([]string{"--width", "-1"}, nil)
	assert.Error(t, err)
	_, err = LoadArgs([]string{"--height", "-3"}, nil)
	assert.Error(t, err)
}

func TestLoadArgsUnknownFlag(t *testing.T) {
	_, err := LoadArgs([]string{"--verbose"}, nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	require.NoError(t, err)
	assert.ErrorContains(t, Validate(cfg), "links file is required")

	cfg, err = LoadArgs([]string{"--links", "l.yaml", "--navigator", "lynx"}, nil)
	require.NoError(t, err)
	assert.ErrorContains(t, Validate(cfg), "navigator must be")

	cfg, err = LoadArgs([]string{"--links", "l.yaml", "--match", "exact"}, nil)
	require.NoError(t, err)
	assert.ErrorContains(t, Validate(cfg), "match must be")

	cfg, err = LoadArgs([]string{"--links", "l.yaml", "--viewer", ""}, nil)
	require.NoError(t, err)
	assert.ErrorContains(t, Validate(cfg), "--viewer is required")

	cfg, err = LoadArgs([]string{"--links", "l.yaml", "--navigator", "open", "--match", "fuzzy"}, nil)
	require.NoError(t, err)
	assert.NoError(t, Validate(cfg))
}

func TestLoadArgsHelpReturnsUsage(t *testing.T) {
	for _, arg := range []string{"--help", "-h"} {
		_, err := LoadArgs([]string{arg}, nil)
		require.Error(t, err, arg)
		assert.ErrorIs(t, err, pflag.ErrHelp)

		var help *HelpRequested
		require.ErrorAs(t, err, &help)
		assert.Contains(t, help.Usage, "Usage: tmux-popup-links")
		assert.Contains(t, help.Usage, "--links")
		assert.Contains(t, help.Usage, "--navigator")
	}
}
