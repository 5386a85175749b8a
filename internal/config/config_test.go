package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Listen: ListenConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			Path:         "/ws",
			ReadTimeout:  5 * time.Minute,
			WriteTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Game: GameConfig{
			Tick:           time.Second,
			IdleWait:       5 * time.Second,
			CombatCapacity: 2,
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestListenAddr(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "0.0.0.0:8080", cfg.Listen.Addr())
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "/ws", cfg.Listen.Path)
	assert.Equal(t, 2, cfg.Game.CombatCapacity)
	assert.Equal(t, time.Second, cfg.Game.Tick)
	assert.Equal(t, 5*time.Second, cfg.Game.IdleWait,
		"idle skeleton polls at five ticks out of the box")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
listen:
  host: 127.0.0.1
  port: 9090
  path: /chat
  read_timeout: 1m
  write_timeout: 10s
logging:
  level: debug
  format: console
game:
  tick: 500ms
  idle_wait: 2s
  combat_capacity: 4
  content_dir: content/creatures
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Listen.Host)
	assert.Equal(t, 9090, cfg.Listen.Port)
	assert.Equal(t, "/chat", cfg.Listen.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 500*time.Millisecond, cfg.Game.Tick)
	assert.Equal(t, 4, cfg.Game.CombatCapacity)
	assert.Equal(t, "content/creatures", cfg.Game.ContentDir)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestValidateListenPort(t *testing.T) {
	cfg := validConfig()
	cfg.Listen.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Listen.Port = 65536
	assert.Error(t, cfg.Validate())
}

func TestValidateListenPath(t *testing.T) {
	cfg := validConfig()
	cfg.Listen.Path = "ws"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateGame(t *testing.T) {
	cfg := validConfig()
	cfg.Game.Tick = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Game.IdleWait = -time.Second
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Game.CombatCapacity = 0
	assert.Error(t, cfg.Validate())
}

// Property-based tests

func TestPropertyValidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.IntRange(1, 65535).Draw(t, "port")
		cfg := validConfig()
		cfg.Listen.Port = port
		err := cfg.Validate()
		if err != nil {
			t.Fatalf("valid port %d rejected: %v", port, err)
		}
	})
}

func TestPropertyInvalidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		// Generate ports outside valid range
		port := rapid.OneOf(
			rapid.IntRange(-1000, 0),
			rapid.IntRange(65536, 100000),
		).Draw(t, "port")
		cfg := validConfig()
		cfg.Listen.Port = port
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("invalid port %d accepted", port)
		}
	})
}

func TestPropertyCapacityAlwaysPositive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 1000).Draw(t, "capacity")
		cfg := validConfig()
		cfg.Game.CombatCapacity = capacity
		err := cfg.Validate()
		if err != nil {
			t.Fatalf("valid capacity %d rejected: %v", capacity, err)
		}
	})
}

func TestPropertyAddrContainsHostAndPort(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		host := rapid.StringMatching(`[a-z]{3,10}`).Draw(t, "host")
		port := rapid.IntRange(1, 65535).Draw(t, "port")

		l := ListenConfig{Host: host, Port: port, Path: "/ws"}
		assert.Contains(t, l.Addr(), host)
		assert.Contains(t, l.Addr(), ":")
	})
}
