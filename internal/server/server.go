// Package server accepts connections and runs the request loop of each of
// them: read a request, route it, pass the response through the middleware
// pipeline and write it back, until the connection stops being persistent.
package server

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
	"github.com/stealthrocket/httpcraft/internal/http1"
	"github.com/stealthrocket/httpcraft/internal/middleware"
	"github.com/stealthrocket/httpcraft/internal/route"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = 1 * time.Second
)

// Server serves HTTP/1.x connections.
//
// The zero value is not usable, the Handler must be set. Connections are
// served concurrently, each one by its own goroutine, and requests of a
// connection are processed sequentially in the order they are received.
type Server struct {
	// Handler produces the responses to requests.
	Handler route.Handler

	// Pipeline transforms the responses of the handler before they are
	// written. A nil pipeline writes responses as produced by the handler.
	Pipeline middleware.Pipeline

	// Logger receives the events of the server. The zero value discards
	// them.
	Logger zerolog.Logger

	// ReadTimeout bounds the time spent waiting for each read on a
	// connection. Zero means no timeout.
	ReadTimeout time.Duration

	// AcceptLimiter limits the rate of accepted connections when not nil.
	AcceptLimiter *rate.Limiter

	// Trace enables logging the full content of requests and responses.
	Trace bool

	once  sync.Once
	conns *xsync.MapOf[uuid.UUID, net.Conn]
}

func (s *Server) init() {
	s.once.Do(func() {
		s.conns = xsync.NewMapOf[uuid.UUID, net.Conn]()
	})
}

// Serve accepts connections on l until ctx is canceled or accepting fails.
//
// When Serve returns, the listener and every connection it accepted are
// closed and all the connection goroutines have exited. The method returns
// nil if it stopped because ctx was canceled.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.init()

	group, ctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	group.Go(func() error {
		select {
		case <-ctx.Done():
		case <-done:
		}
		l.Close()
		s.conns.Range(func(_ uuid.UUID, conn net.Conn) bool {
			conn.Close()
			return true
		})
		return nil
	})

	s.Logger.Info().Stringer("addr", l.Addr()).Msg("listening")

	err := s.accept(ctx, group, l)
	close(done)

	if waitErr := group.Wait(); err == nil {
		err = waitErr
	}
	s.Logger.Info().Stringer("addr", l.Addr()).Msg("stopped")
	return err
}

func (s *Server) accept(ctx context.Context, group *errgroup.Group, l net.Listener) error {
	var delay time.Duration

	for {
		if s.AcceptLimiter != nil {
			if err := s.AcceptLimiter.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}

		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !isTemporary(err) {
				return err
			}
			if delay == 0 {
				delay = minAcceptDelay
			} else if delay *= 2; delay > maxAcceptDelay {
				delay = maxAcceptDelay
			}
			s.Logger.Warn().Err(err).Dur("retry", delay).Msg("accept error")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			continue
		}
		delay = 0

		id := uuid.New()
		s.conns.Store(id, conn)
		// The shutdown goroutine may already have closed the registered
		// connections when ctx was canceled.
		if ctx.Err() != nil {
			s.conns.Delete(id)
			conn.Close()
			return nil
		}

		group.Go(func() error {
			defer s.conns.Delete(id)
			s.serveConn(id, conn)
			return nil
		})
	}
}

// serveConn runs the request loop of a connection:
//
//	AwaitingRequest -> Processing -> Writing -> AwaitingRequest | Closing
//
// The loop goes to Closing after writing the response to a request which
// was not persistent, or as soon as reading a request fails, in which case
// no response is written.
func (s *Server) serveConn(id uuid.UUID, conn net.Conn) {
	defer conn.Close()

	logger := s.Logger.With().
		Stringer("conn", id).
		Stringer("remote", conn.RemoteAddr()).
		Logger()
	logger.Debug().Msg("connection accepted")

	r := http1.NewReader(conn)
	for {
		if s.ReadTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
				logger.Debug().Err(err).Msg("connection closed")
				return
			}
		}

		req, ok, err := r.ReadRequest()
		if err != nil {
			logReadError(&logger, err)
			return
		}
		if !ok {
			continue
		}

		logger.Debug().
			Str("method", req.Method).
			Str("path", req.Path).
			Str("version", req.Version).
			Bool("persistent", req.Persistent).
			Msg("request")
		if s.Trace {
			logger.Info().Msgf("request:\n%+v", req)
		}

		res := s.Pipeline.Apply(req, s.Handler.Handle(req))

		if s.Trace {
			logger.Info().Msgf("response:\n%+v", res)
		}
		if _, err := res.WriteTo(conn); err != nil {
			logger.Warn().Err(err).Msg("writing response")
			return
		}
		logger.Debug().
			Int("status", res.Status.Code()).
			Int("length", len(res.Content)).
			Msg("response")

		if !req.Persistent {
			logger.Debug().Msg("connection closed")
			return
		}
	}
}

func logReadError(logger *zerolog.Logger, err error) {
	switch {
	case errors.Is(err, http1.ErrConnectionClosed):
		logger.Debug().Msg("connection closed by the client")
	case errors.Is(err, net.ErrClosed):
		logger.Debug().Msg("connection closed")
	case errors.Is(err, os.ErrDeadlineExceeded):
		logger.Debug().Msg("read timeout")
	default:
		logger.Warn().Err(err).Msg("reading request")
	}
}

func isTemporary(err error) bool {
	var e interface{ Temporary() bool }
	return errors.As(err, &e) && e.Temporary()
}
