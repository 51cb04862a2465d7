package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"biokeeper/internal/client/cmd"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, cleanup := cmd.NewRootCmd(version, buildDate)
	err := root.ExecuteContext(ctx)
	if cerr := cleanup(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, cmd.Banner(err))
		stop()
		os.Exit(1)
	}
}
