package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/tdewolff/wfdl"
	"github.com/tdewolff/wfdl/bundle"
)

var Error *log.Logger

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	Error = log.New(stderr, wfdl.Prefix+"Error: ", 0)
	wfdl.Info = log.New(stdout, wfdl.Prefix, 0)
	wfdl.Warning = log.New(stderr, wfdl.Prefix, 0)
	bundle.Info = log.New(stdout, "", 0)
	bundle.Warning = log.New(stderr, "WARNING: ", 0)

	cli, help, err := parseArgs(args, func(arg string) {
		wfdl.Warning.Printf("Unknown argument: %v", arg)
	})
	if err != nil {
		wfdl.Warning.Println(err)
		return 1
	} else if help {
		fmt.Fprint(stdout, usage)
		return 0
	}

	cfg, err := wfdl.LoadConfig(cli.ConfigFile)
	if err != nil {
		Error.Println(err)
		return 1
	}

	opts := wfdl.Merge(cfg, cli)
	if err := opts.Validate(); err != nil {
		wfdl.Warning.Println("No fonts specified. Add --font <url> or define fonts[] in wfdl.config.json")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := wfdl.Run(ctx, opts); err != nil {
		Error.Println(err)
		return 1
	}
	return 0
}
