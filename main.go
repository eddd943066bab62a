package main

import (
	"context"
	"os"

	"github.com/stealthrocket/httpcraft/internal/cmd"
)

func main() {
	os.Exit(cmd.Root(context.Background(), os.Args[1:]...))
}
