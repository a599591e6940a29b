package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmora/uci"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ucictl.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Full(t *testing.T) {
	path := writeConfig(t, `
[engine]
path = "/usr/games/stockfish"
args = ["--bench-off"]
env = ["SF_NNUE=1"]
handshake_timeout = "20s"
command_timeout = "2s"
search_timeout = "1m"
grace_period = "500ms"

[options]
Threads = 2
Hash = "64"
Ponder = false
"Skill Level" = 10

[search]
movetime = "250ms"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/usr/games/stockfish", cfg.Engine.Path)
	assert.Equal(t, []string{"--bench-off"}, cfg.Engine.Args)
	assert.Equal(t, 20*time.Second, cfg.Engine.HandshakeTimeout.Duration)
	assert.Equal(t, 500*time.Millisecond, cfg.Engine.GracePeriod.Duration)
	assert.Equal(t, OptionValue("2"), cfg.Options["Threads"])
	assert.Equal(t, OptionValue("64"), cfg.Options["Hash"])
	assert.Equal(t, OptionValue("false"), cfg.Options["Ponder"])
	assert.Equal(t, []string{"Hash", "Ponder", "Skill Level", "Threads"}, cfg.OptionNames())
	assert.Equal(t, 250*time.Millisecond, cfg.Search.MoveTimeOrDefault())

	o := uci.ResolveOptions(cfg.EngineOptions(zerolog.Nop())...)
	assert.Equal(t, 20*time.Second, o.HandshakeTimeout)
	assert.Equal(t, 2*time.Second, o.CommandTimeout)
	assert.Equal(t, time.Minute, o.SearchTimeout)
	assert.Equal(t, []string{"SF_NNUE=1"}, o.Env)
}

func TestLoad_EmptyKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultMoveTime, cfg.Search.MoveTimeOrDefault())

	got := uci.ResolveOptions(cfg.EngineOptions(zerolog.Nop())...)
	want := uci.ResolveOptions()
	assert.Equal(t, want.HandshakeTimeout, got.HandshakeTimeout)
	assert.Equal(t, want.GracePeriod, got.GracePeriod)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "[engine]\npth = \"x\"\n", "unknown keys: engine.pth"},
		{"unknown table", "[network]\nport = 1\n", "unknown keys"},
		{"bad duration", "[engine]\ncommand_timeout = \"soon\"\n", "parse failed"},
		{"negative duration", "[engine]\ncommand_timeout = \"-1s\"\n", "engine.command_timeout must not be negative"},
		{"negative depth", "[search]\ndepth = -2\n", "search.depth"},
		{"blank path", "[engine]\npath = \"  \"\n", "engine.path is blank"},
		{"array option", "[options]\nThreads = [1, 2]\n", "unsupported option value"},
		{"syntax", "[engine\n", "parse failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate_OptionLineBreak(t *testing.T) {
	err := Validate(Config{Options: map[string]OptionValue{"Hash": "1\nquit"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line break")
}
