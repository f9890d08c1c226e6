package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/df-mc/sower/editor/console"
)

func main() {
	uc, err := readConfig("config.toml")
	if err != nil {
		slog.Default().Error("Could not read config.", "err", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: uc.LogLevel()}))
	slog.SetDefault(log)

	e, err := uc.open(log)
	if err != nil {
		log.Error("Could not start editor.", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := e.Close(); err != nil {
			log.Error("Could not close editor.", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e.sower.Resume()
	log.Info("Sowing started.", "rules", e.sower.Rules(), "trinkets", e.m.Count())

	done := make(chan struct{})
	go func() {
		console.New(e.sower, log).Run(ctx)
		close(done)
	}()
	select {
	case <-ctx.Done():
	case <-done:
	}
	log.Info("Sowing finished.", "ticks", e.sower.Ticks(), "trinkets", e.m.Count())
}
