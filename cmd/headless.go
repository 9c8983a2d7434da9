package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"boxingday/internal/cli"
	"boxingday/internal/core/countdown"
	"boxingday/internal/logx"
)

func (session *session) runList(out io.Writer) error {
	engine := session.newEngine(countdown.Config{})
	defer engine.Close()
	if err := session.applyTarget(engine); err != nil {
		return err
	}
	cli.NewPrinter(out).Occurrences(engine.Occurrences(), engine.Target().Year)
	return nil
}

// runHeadless prints every tick until interrupted.
func (session *session) runHeadless(out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := session.newEngine(countdown.Config{})
	defer engine.Close()
	if err := session.applyTarget(engine); err != nil {
		return err
	}

	events := engine.Subscribe(16)
	engine.Start()
	defer engine.Stop()
	session.log.Info("headless countdown started",
		logx.String("target", engine.Target().Label),
		logx.Time("at", engine.Target().At),
	)

	cli.Follow(ctx, events, cli.NewPrinter(out))
	return nil
}
