package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stealthrocket/httpcraft/internal/httpcraft"
	"github.com/stealthrocket/httpcraft/internal/human"
	"github.com/stealthrocket/httpcraft/internal/middleware"
	"github.com/stealthrocket/httpcraft/internal/route"
	"github.com/stealthrocket/httpcraft/internal/server"
)

const serveUsage = `
Usage:	httpcraft serve [options]

   The serve command accepts connections on the listen address and serves the
   requests it receives until it is interrupted.

   Endpoints:

      /                 empty response
      /user-agent       echo of the User-Agent header
      /echo/<text>      echo of <text>
      GET /files/<name>   content of the file <name> in the directory
      POST /files/<name>  request body written to the file <name>

Example:

   $ httpcraft serve --directory ~/shared --listen :4221

Options:
   -c, --config path       Path to the httpcraft configuration file (overrides HTTPCRAFTCONFIG)
   -d, --directory path    Directory of the files endpoints (default to /tmp/)
   -h, --help              Show this usage information
   -l, --listen addr       Address to listen on (default to 127.0.0.1:4221)
       --log-level level   Minimum level of log messages, one of: trace, debug, info, warn, error, disabled
       --read-timeout dur  Maximum time to wait for each read on a connection (default to none)
       --reuse-port        Allow multiple processes to listen on the same address
       --trace             Log the content of requests and responses
`

func serve(ctx context.Context, args []string) error {
	var (
		listen      string
		directory   human.Path
		level       logLevel
		readTimeout = human.Duration(-1)
		reusePort   bool
		trace       bool
	)

	flagSet := newFlagSet("httpcraft serve", serveUsage)
	stringVar(flagSet, &listen, "l", "listen")
	customVar(flagSet, &directory, "d", "directory")
	customVar(flagSet, &level, "log-level")
	customVar(flagSet, &readTimeout, "read-timeout")
	boolVar(flagSet, &reusePort, "reuse-port")
	boolVar(flagSet, &trace, "trace")

	args, err := parseFlags(flagSet, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return usageError("httpcraft serve: unexpected arguments: %q", args)
	}

	config, err := httpcraft.LoadConfig()
	if err != nil {
		return err
	}
	if listen != "" {
		config.Listen = listen
	}
	if directory != "" {
		config.Directory = directory
	}
	if level != "" {
		config.Log.Level = string(level)
	}
	if readTimeout >= 0 {
		config.ReadTimeout = httpcraft.NullableValue(readTimeout)
	}
	config.ReusePort = config.ReusePort || reusePort
	config.Trace = config.Trace || trace
	if err := config.Validate(); err != nil {
		return err
	}

	dir, err := config.ResolveDirectory()
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	l, err := server.Listen(ctx, "tcp", config.Listen, config.ReusePort)
	if err != nil {
		return err
	}

	timeout, _ := config.ReadTimeout.Value()
	s := &server.Server{
		Handler:       route.New(dir),
		Pipeline:      middleware.Default(config.NewCompressor()),
		Logger:        logger,
		ReadTimeout:   time.Duration(timeout),
		AcceptLimiter: config.NewAcceptLimiter(),
		Trace:         config.Trace,
	}

	logger.Info().Str("directory", dir).Msg("serving files")
	return s.Serve(ctx, l)
}
