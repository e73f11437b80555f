// main.go
// Purpose: Application entry point. Loads configuration, builds the elevator
// system and starts the tick, control and keyboard threads. Handles shutdown
// on interrupt (Ctrl+C).
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"liftdispatch/common"
	"liftdispatch/elevassigner"
	"liftdispatch/elevsystem"
	"liftdispatch/logger"
)

func main() {
	configPath := flag.String("config", "lifts.yaml", "YAML config file (optional)")
	envPath := flag.String("env", ".env", "env override file (optional)")
	flag.Parse()

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		logger.GetLogger().Fatal().Err(err).Msg("loading config")
	}
	if err := cfg.ApplyEnvFile(*envPath); err != nil {
		logger.GetLogger().Fatal().Err(err).Msg("loading env overrides")
	}
	if err := cfg.Validate(); err != nil {
		logger.GetLogger().Fatal().Err(err).Msg("invalid config")
	}

	log := logger.GetLoggerConfigured(logger.ParseLevel(cfg.LogLevel))

	cost, err := elevassigner.ByName(cfg.Policy)
	if err != nil {
		log.Fatal().Err(err).Msg("assignment policy")
	}
	sys := elevsystem.New(
		elevsystem.WithCapacity(cfg.Capacity),
		elevsystem.WithCost(cost),
		elevsystem.WithLogger(log),
	)
	if err := sys.Init(cfg.Floors, cfg.Lifts); err != nil {
		log.Fatal().Err(err).Msg("init elevator system")
	}

	// ctrl + c handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		cancel()
	}()

	if cfg.Interactive {
		go keyboardThread(ctx, cancel, sys)
	} else if cfg.TickInterval > 0 {
		go tickThread(ctx, cfg, sys)
	}
	if cfg.ControlAddr != "" {
		go controlThread(ctx, cfg, sys)
	}

	<-ctx.Done()
	log.Info().Msg("Shutting down")
}
