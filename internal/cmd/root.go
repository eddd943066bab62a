package cmd

// Notes on program structure
// --------------------------
//
// httpcraft uses subcommands to invoke specific functionalities of the
// program. Each subcommand is implemented by a function named after the
// command, in a file of the same name (e.g. the "serve" command is implemented
// by the serve function in serve.go).
//
// The usage message for each command is declared by a constant starting with
// the command name and followed by the suffix "Usage". For example, the usage
// message for the "help" command is declared by the constant helpUsage.
//
// The usage message contains a "Usage:	httpcraft <command>" section
// presenting the structure of the command. Note the tabulation separating
// "Usage:" and "httpcraft".

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/stealthrocket/httpcraft/internal/httpcraft"
	"golang.org/x/exp/slices"
)

const rootUsage = `httpcraft - HTTP/1.1 server

   httpcraft serves a small set of endpoints over HTTP/1.1: echoing the
   request path or user agent, and reading or writing files of a directory.
   Connections are kept alive between requests, and responses are compressed
   when clients accept it.

Example:

   $ httpcraft serve --directory /tmp/
   ...

   $ curl -H 'Accept-Encoding: gzip' http://127.0.0.1:4221/echo/hello
   ...

For a list of commands available, run 'httpcraft help'.`

// Root is the httpcraft entrypoint, it returns the exit code of the program.
func Root(ctx context.Context, args ...string) int {
	flagSet := newFlagSet("httpcraft", helpUsage)
	err := flagSet.Parse(args)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return 0
	case err != nil:
		fmt.Fprintf(os.Stderr, "httpcraft: %s\n", err)
		return 2
	}

	if args = flagSet.Args(); len(args) == 0 {
		fmt.Println(rootUsage)
		return 0
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "config":
		err = config(ctx, args)
	case "help":
		err = help(ctx, args)
	case "serve":
		err = serve(ctx, args)
	case "version":
		err = version(ctx, args)
	default:
		err = unknown(ctx, cmd)
	}

	switch e := err.(type) {
	case nil:
		return 0
	case exitCode:
		return int(e)
	case usage:
		fmt.Fprintf(os.Stderr, "%s\n", e)
		return 2
	default:
		fmt.Fprintf(os.Stderr, "ERR: httpcraft %s: %s\n", cmd, err)
		return 1
	}
}

// exitCode is an error type returned from command functions to indicate the
// exit code that should be returned by the program.
type exitCode int

func (e exitCode) Error() string {
	return fmt.Sprintf("exit: %d", e)
}

// usage is an error type returned from command functions to indicate a usage
// error.
//
// Usage errors cause the program to exit with status code 2.
type usage string

func usageError(msg string, args ...any) error {
	return usage(fmt.Sprintf(msg, args...))
}

func (e usage) Error() string {
	return string(e)
}

func setEnum[T ~string](enum *T, typ string, value string, options ...string) error {
	for _, option := range options {
		if option == value {
			*enum = T(option)
			return nil
		}
	}
	return fmt.Errorf("unsupported %s: %q (not one of %s)", typ, value, strings.Join(options, ", "))
}

type outputFormat string

func (o outputFormat) String() string {
	return string(o)
}

func (o *outputFormat) Set(value string) error {
	return setEnum(o, "output format", value, "text", "json", "yaml")
}

type logLevel string

func (l logLevel) String() string {
	return string(l)
}

func (l *logLevel) Set(value string) error {
	return setEnum(l, "log level", value, "trace", "debug", "info", "warn", "error", "disabled")
}

func printUsage(usage string) {
	fmt.Println(strings.TrimSpace(usage))
}

func newFlagSet(cmd, usage string) *flag.FlagSet {
	flagSet := flag.NewFlagSet(cmd, flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.Usage = func() { printUsage(usage) }
	customVar(flagSet, &httpcraft.ConfigPath, "c", "config")
	return flagSet
}

// parseFlags is a greedy parser which consumes all options known to f and
// returns the remaining arguments.
//
// When the arguments contain -h or --help, the usage message is printed and
// exitCode(0) is returned.
func parseFlags(f *flag.FlagSet, args []string) ([]string, error) {
	var unknownArgs []string
	for {
		if err := f.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, exitCode(0)
			}
			return nil, usageError("%s: %s", f.Name(), err)
		}
		if args = f.Args(); len(args) == 0 {
			return unknownArgs, nil
		}
		i := slices.IndexFunc(args, func(s string) bool {
			return strings.HasPrefix(s, "-")
		})
		if i < 0 {
			i = len(args)
		} else if args[i] == "-" {
			i++
		}
		if i == 0 {
			// Options were terminated by "--".
			return append(unknownArgs, args...), nil
		}
		unknownArgs = append(unknownArgs, args[:i]...)
		args = args[i:]
	}
}

func boolVar(f *flag.FlagSet, dst *bool, name string, alias ...string) {
	f.BoolVar(dst, name, *dst, "")
	for _, name := range alias {
		f.BoolVar(dst, name, *dst, "")
	}
}

func stringVar(f *flag.FlagSet, dst *string, name string, alias ...string) {
	f.StringVar(dst, name, *dst, "")
	for _, name := range alias {
		f.StringVar(dst, name, *dst, "")
	}
}

func customVar(f *flag.FlagSet, dst flag.Value, name string, alias ...string) {
	f.Var(dst, name, "")
	for _, name := range alias {
		f.Var(dst, name, "")
	}
}
