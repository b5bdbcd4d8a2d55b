package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-action-board/internal/app"
	"github.com/johnquangdev/meeting-action-board/internal/cli"
	"github.com/johnquangdev/meeting-action-board/pkg/config"
)

var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	load := func(ctx context.Context) (*cli.Runtime, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		logger := zap.NewNop()
		if os.Getenv("BOARDCTL_DEBUG") != "" {
			if logger, err = zap.NewDevelopment(); err != nil {
				return nil, err
			}
		}
		a, err := app.Build(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return &cli.Runtime{Controller: a.Controller, Close: a.Close}, nil
	}

	if err := cli.NewRootCommand(load, Version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
