package httpcraft_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stealthrocket/httpcraft/internal/assert"
	"github.com/stealthrocket/httpcraft/internal/http1"
	"github.com/stealthrocket/httpcraft/internal/httpcraft"
	"github.com/stealthrocket/httpcraft/internal/human"
	"gopkg.in/yaml.v3"
)

func TestReadConfigDefaults(t *testing.T) {
	c, err := httpcraft.ReadConfig(strings.NewReader(""))
	assert.OK(t, err)
	assert.Equal(t, c.Listen, "127.0.0.1:4221")
	assert.Equal(t, c.Directory, human.Path("/tmp/"))
	assert.False(t, c.ReusePort)
	assert.Equal(t, c.AcceptBurst, 1)
	assert.Equal(t, c.Log.Level, "info")
	assert.Equal(t, c.Log.Format, "console")
	assert.False(t, c.Trace)

	_, ok := c.ReadTimeout.Value()
	assert.False(t, ok)
	assert.True(t, c.NewAcceptLimiter() == nil)
	assert.Equal(t, c.NewCompressor().Level(), http1.DefaultCompression)
}

func TestReadConfig(t *testing.T) {
	c, err := httpcraft.ReadConfig(strings.NewReader(`
listen: 0.0.0.0:8080
directory: ~/files
reuse_port: true
read_timeout: 30s
accept_rate: 100
accept_burst: 10
compression:
  level: 9
log:
  level: debug
  format: json
trace: true
`))
	assert.OK(t, err)
	assert.Equal(t, c.Listen, "0.0.0.0:8080")
	assert.Equal(t, c.Directory, human.Path("~/files"))
	assert.True(t, c.ReusePort)
	assert.True(t, c.Trace)
	assert.Equal(t, c.AcceptBurst, 10)
	assert.Equal(t, c.Log.Level, "debug")
	assert.Equal(t, c.Log.Format, "json")

	timeout, ok := c.ReadTimeout.Value()
	assert.True(t, ok)
	assert.Equal(t, time.Duration(timeout), 30*time.Second)

	limiter := c.NewAcceptLimiter()
	assert.True(t, limiter != nil)
	assert.Equal(t, float64(limiter.Limit()), 100)
	assert.Equal(t, limiter.Burst(), 10)

	assert.Equal(t, c.NewCompressor().Level(), 9)
}

func TestReadConfigNull(t *testing.T) {
	c, err := httpcraft.ReadConfig(strings.NewReader("read_timeout: null\ncompression:\n  level: ~\n"))
	assert.OK(t, err)
	_, ok := c.ReadTimeout.Value()
	assert.False(t, ok)
	_, ok = c.Compression.Level.Value()
	assert.False(t, ok)
}

func TestReadConfigErrors(t *testing.T) {
	tests := []struct {
		scenario string
		config   string
	}{
		{scenario: "unknown field", config: "listen_address: :80\n"},
		{scenario: "empty listen address", config: "listen: ''\n"},
		{scenario: "empty directory", config: "directory: ''\n"},
		{scenario: "negative read timeout", config: "read_timeout: -1s\n"},
		{scenario: "zero accept rate", config: "accept_rate: 0\n"},
		{scenario: "zero accept burst", config: "accept_burst: 0\n"},
		{scenario: "compression level too high", config: "compression:\n  level: 10\n"},
		{scenario: "compression level too low", config: "compression:\n  level: -3\n"},
		{scenario: "invalid log level", config: "log:\n  level: loud\n"},
		{scenario: "invalid log format", config: "log:\n  format: xml\n"},
		{scenario: "invalid duration", config: "read_timeout: soon\n"},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			_, err := httpcraft.ReadConfig(strings.NewReader(test.config))
			assert.True(t, err != nil)
		})
	}
}

func TestConfigRoundTrip(t *testing.T) {
	c := httpcraft.DefaultConfig()
	c.ReadTimeout = httpcraft.NullableValue(human.Duration(5 * time.Second))

	b, err := yaml.Marshal(c)
	assert.OK(t, err)

	r, err := httpcraft.ReadConfig(bytes.NewReader(b))
	assert.OK(t, err)
	assert.DeepEqual(t, r, c)
}

func TestConfigJSON(t *testing.T) {
	c := httpcraft.DefaultConfig()
	b, err := json.Marshal(c)
	assert.OK(t, err)

	var m map[string]any
	assert.OK(t, json.Unmarshal(b, &m))
	assert.Equal(t, m["listen"], any("127.0.0.1:4221"))
	assert.Equal(t, m["read_timeout"], nil)
	assert.Equal(t, m["accept_rate"], nil)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	saved := httpcraft.ConfigPath
	httpcraft.ConfigPath = human.Path(path)
	defer func() { httpcraft.ConfigPath = saved }()

	c, err := httpcraft.LoadConfig()
	assert.OK(t, err)
	assert.DeepEqual(t, c, httpcraft.DefaultConfig())

	assert.OK(t, os.WriteFile(path, []byte("listen: :9999\n"), 0666))
	c, err = httpcraft.LoadConfig()
	assert.OK(t, err)
	assert.Equal(t, c.Listen, ":9999")
}

func TestNewLogger(t *testing.T) {
	c := httpcraft.DefaultConfig()
	c.Log.Level = "warn"
	c.Log.Format = "json"

	buf := new(bytes.Buffer)
	logger, err := c.NewLogger(buf)
	assert.OK(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Str("conn", "1").Msg("shown")

	var entry map[string]any
	assert.OK(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, entry["level"], any("warn"))
	assert.Equal(t, entry["message"], any("shown"))
	assert.Equal(t, entry["conn"], any("1"))
}

func TestNewLoggerConsole(t *testing.T) {
	c := httpcraft.DefaultConfig()
	buf := new(bytes.Buffer)
	logger, err := c.NewLogger(buf)
	assert.OK(t, err)

	logger.Info().Msg("listening")
	assert.True(t, strings.Contains(buf.String(), "listening"))
	assert.True(t, strings.Contains(buf.String(), "INF"))
}
