// Package httpcraft contains the configuration of the httpcraft server and
// the construction of the components it is made of.
package httpcraft

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/klauspost/compress/flate"
	"github.com/rs/zerolog"
	"github.com/stealthrocket/httpcraft/internal/http1"
	"github.com/stealthrocket/httpcraft/internal/human"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath = "~/.httpcraft/config.yaml"
	defaultListen     = "127.0.0.1:4221"
	defaultDirectory  = "/tmp/"
)

// ConfigPath is the path to the httpcraft configuration.
var ConfigPath human.Path = defaultConfigPath

func init() {
	if path := os.Getenv("HTTPCRAFTCONFIG"); path != "" {
		ConfigPath = human.Path(path)
	}
}

// LoadConfig opens and reads the configuration file.
func LoadConfig() (*Config, error) {
	r, _, err := OpenConfig()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ReadConfig(r)
}

// OpenConfig opens the configuration file. When the file does not exist, the
// returned reader produces the default configuration.
func OpenConfig() (io.ReadCloser, string, error) {
	path, err := ConfigPath.Resolve()
	if err != nil {
		return nil, path, err
	}
	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, path, err
		}
		c := DefaultConfig()
		b, _ := yaml.Marshal(c)
		return io.NopCloser(bytes.NewReader(b)), path, nil
	}
	return f, path, nil
}

// ReadConfig reads and parses configuration. Fields absent from the input
// keep their default values.
func ReadConfig(r io.Reader) (*Config, error) {
	c := DefaultConfig()
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return c, nil // empty file
		}
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultConfig is the default configuration.
func DefaultConfig() *Config {
	c := new(Config)
	c.Listen = defaultListen
	c.Directory = defaultDirectory
	c.AcceptBurst = 1
	c.Log.Level = "info"
	c.Log.Format = "console"
	return c
}

// Config is httpcraft configuration.
type Config struct {
	Listen      string                   `json:"listen"       yaml:"listen"`
	Directory   human.Path               `json:"directory"    yaml:"directory"`
	ReusePort   bool                     `json:"reuse_port"   yaml:"reuse_port"`
	ReadTimeout Nullable[human.Duration] `json:"read_timeout" yaml:"read_timeout"`
	AcceptRate  Nullable[float64]        `json:"accept_rate"  yaml:"accept_rate"`
	AcceptBurst int                      `json:"accept_burst" yaml:"accept_burst"`
	Compression struct {
		Level Nullable[int] `json:"level" yaml:"level"`
	} `json:"compression" yaml:"compression"`
	Log struct {
		Level  string `json:"level"  yaml:"level"`
		Format string `json:"format" yaml:"format"`
	} `json:"log" yaml:"log"`
	Trace bool `json:"trace" yaml:"trace"`
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return errors.New("invalid configuration: listen address is empty")
	}
	if c.Directory == "" {
		return errors.New("invalid configuration: directory is empty")
	}
	if d, ok := c.ReadTimeout.Value(); ok && d < 0 {
		return fmt.Errorf("invalid configuration: negative read timeout: %s", d)
	}
	if r, ok := c.AcceptRate.Value(); ok && r <= 0 {
		return fmt.Errorf("invalid configuration: accept rate must be positive: %g", r)
	}
	if c.AcceptBurst < 1 {
		return fmt.Errorf("invalid configuration: accept burst must be at least 1: %d", c.AcceptBurst)
	}
	if l, ok := c.Compression.Level.Value(); ok && (l < flate.HuffmanOnly || l > flate.BestCompression) {
		return fmt.Errorf("invalid configuration: compression level out of range [%d, %d]: %d", flate.HuffmanOnly, flate.BestCompression, l)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid configuration: unsupported log format: %q (not one of console, json)", c.Log.Format)
	}
	return nil
}

// NewCompressor constructs the compressor of response contents configured by
// c.
func (c *Config) NewCompressor() *http1.Compressor {
	return http1.NewCompressor(c.Compression.Level.Or(http1.DefaultCompression))
}

// NewAcceptLimiter returns the rate limiter of accepted connections, or nil
// if the rate of connections is not limited.
func (c *Config) NewAcceptLimiter() *rate.Limiter {
	r, ok := c.AcceptRate.Value()
	if !ok {
		return nil
	}
	return rate.NewLimiter(rate.Limit(r), c.AcceptBurst)
}

// ResolveDirectory returns the destination directory of the file handlers
// with the home directory prefix expanded.
func (c *Config) ResolveDirectory() (string, error) {
	path, err := c.Directory.Resolve()
	if err != nil {
		return "", fmt.Errorf("failed to resolve httpcraft directory: %w", err)
	}
	return path, nil
}
