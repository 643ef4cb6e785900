package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gonuts/commander"
)

var cmd = &commander.Command{
	UsageLine: os.Args[0] + " parse|batch|counts|serve",
	Short:     "parse, tag and count toki pona sentences",
	Subcommands: []*commander.Command{
		parseCmd(),
		batchCmd(),
		countsCmd(),
		serveCmd(),
	},
}

func exit(err error) {
	fmt.Printf("**error**: %v\n", err)
	os.Exit(1)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = ctx

	if err := cmd.Dispatch(ctx, os.Args[1:]); err != nil {
		stop()
		exit(err)
	}
}
