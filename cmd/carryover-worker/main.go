package main

import (
	"time"

	"finledger/internal/cache"
	"finledger/internal/cli"
	"finledger/internal/config"
	"finledger/internal/ledger"
	"finledger/internal/log"
	"finledger/internal/repository"
	"finledger/internal/storage"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(config.Load().LogLevel)
	logger.Info("Starting carryover-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)
	res := cli.OpenBackend(ctx, logger, cfg)
	defer res.Cleanup()

	caches := cache.NewManager(logger)
	if res.Cache != nil {
		caches.Register(res.Cache)
		caches.StartCleanup(cfg.CacheTTL)
	}
	defer caches.Stop()

	repos := repository.New(storage.NewAdapter(res.Store, logger), repository.WithLogger(logger))
	carry := ledger.NewCarryOver(repos, logger)

	logger.Info("Carry-over worker configured",
		"interval", cfg.CarryOverInterval,
		log.FieldBackendType, cfg.DataBackend)

	ticker := time.NewTicker(cfg.CarryOverInterval)
	defer ticker.Stop()

	// Run once on startup
	runOnce := func(now time.Time) {
		ran, err := carry.Run(ctx, now)
		if err != nil {
			logger.Error("Carry-over failed", log.FieldError, err)
			return
		}
		logger.Info("Carry-over check complete",
			"reset", ran,
			"next_check", now.Add(cfg.CarryOverInterval).Format("15:04:05"))
	}
	runOnce(time.Now())

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				runOnce(now)
			}
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Carryover-worker shutdown complete")
}
