package cmd

import (
	"context"
)

const helpUsage = `
Usage:	httpcraft <command> [options]

Server Commands:
   serve    Accept connections and serve HTTP requests

Other Commands:
   config   View or edit the httpcraft configuration
   help     Show usage information about httpcraft commands
   version  Show the httpcraft version information

Global Options:
   -c, --config  Path to the httpcraft configuration file (overrides HTTPCRAFTCONFIG)
   -h, --help    Show usage information

For a description of each command, run 'httpcraft help <command>'.`

func help(ctx context.Context, args []string) error {
	flagSet := newFlagSet("httpcraft help", helpUsage)
	args, err := parseFlags(flagSet, args)
	if err != nil {
		return err
	}

	var cmd string
	var msg string

	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "config":
		msg = configUsage
	case "help", "":
		msg = helpUsage
	case "serve":
		msg = serveUsage
	case "version":
		msg = versionUsage
	default:
		return usageError("httpcraft help %s: unknown command", cmd)
	}

	printUsage(msg)
	return nil
}
