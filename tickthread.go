package main

import (
	"context"
	"time"

	"liftdispatch/common"
	"liftdispatch/elevsystem"
	"liftdispatch/logger"
)

// tickThread drives the simulation clock and logs the fleet after each tick.
func tickThread(ctx context.Context, cfg common.Config, sys *elevsystem.System) {
	log := logger.GetLogger()
	log.Info().Dur("interval", cfg.TickInterval).Msg("tickThread started")

	ticker := time.NewTicker(cfg.TickInterval)
	defer ticker.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if err := sys.Tick(); err != nil {
				log.Error().Err(err).Msg("tickThread: tick failed")
				continue
			}
			tick++
			logStates(sys, tick)
		}
	}
}

func logStates(sys *elevsystem.System, tick uint64) {
	log := logger.GetLogger()
	states, err := sys.GetLiftStates()
	if err != nil {
		log.Error().Err(err).Msg("reading lift states")
		return
	}
	codes := make([]string, len(states))
	for i, st := range states {
		codes[i] = st.String()
	}
	log.Info().Uint64("tick", tick).Strs("lifts", codes).Msg("fleet")
}
