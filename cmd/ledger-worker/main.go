package main

import (
	"context"
	"os"
	"time"

	"ledger/internal/backend"
	"ledger/internal/cli"
	"ledger/internal/log"
	"ledger/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting ledger-worker", log.FieldOperation, log.OpStartup)
	if !cfg.EventsEnabled() {
		logger.Warn("AMQP_URL not set, mirror is only refreshed by periodic resync")
	}

	startCtx := context.Background()
	res := cli.InitBackend(startCtx, logger, cfg)

	mirror, err := backend.NewFactory(logger.Logger).CreateMirror(startCtx, backend.MirrorFromAppConfig(cfg))
	if err != nil {
		logger.Error("Failed to initialize mirror", log.FieldError, err.Error())
		_ = res.Cleanup()
		os.Exit(1)
	}

	var source worker.EventSource
	if res.Events != nil {
		source = res.Events
	}
	w := worker.NewSyncWorker(res.Store, mirror, source, cfg.SyncInterval)

	stopped := make(chan struct{})
	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(sctx context.Context) {
		select {
		case <-stopped:
		case <-sctx.Done():
		}
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err.Error())
		}
	})

	err = w.Run(ctx)
	close(stopped)
	if err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err.Error())
		_ = res.Cleanup()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
