package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"outlay/internal/cli"
	"outlay/internal/events"
	"outlay/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting outlay-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	feed, err := worker.NewFeedWriter(cfg.FeedPath)
	if err != nil {
		logger.Error("Failed to open event feed", "error", err, "path", cfg.FeedPath)
		os.Exit(1)
	}
	defer func() {
		if err := feed.Close(); err != nil {
			logger.Error("Feed close error", "error", err)
		}
	}()

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Keep consuming until shutdown; transient broker errors back off
		// and retry rather than killing the worker.
		for {
			err := client.Consume(gctx, feed.HandleEvent)
			if gctx.Err() != nil {
				return gctx.Err()
			}
			logger.Error("Message consumption failed, retrying", "error", err, "wait", cfg.ConsumeWait)

			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-time.After(cfg.ConsumeWait):
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
