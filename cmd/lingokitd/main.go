package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"lingokit/internal/config"
	"lingokit/internal/daemon"
	"lingokit/internal/jobs"
	"lingokit/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		log.Fatalf("lingokitd: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, _, _, err := config.Load("")
	if err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	store, err := jobs.Open(cfg)
	if err != nil {
		return err
	}

	d, err := daemon.New(cfg, store, logger)
	if err != nil {
		store.Close()
		return err
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		return err
	}
	logger.Info("lingokitd running", logging.String("address", d.Addr()))

	<-ctx.Done()
	logger.Info("lingokitd shutting down")
	return nil
}
