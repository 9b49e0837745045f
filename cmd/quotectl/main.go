package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fieldquote/backend/internal/cli"
)

// Set during build.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx,
		cli.BuildInfo{Version: Version, Commit: Commit, Date: BuildTime},
		cli.IOStreams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr},
		os.Args[1:],
	)
	stop()
	os.Exit(code)
}
