package httpcraft

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger constructs the logger configured by c, writing to w.
//
// The console format is meant for terminals, the json format emits one
// object per line.
func (c *Config) NewLogger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if c.Log.Format == "console" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
