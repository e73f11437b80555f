package main

import (
	"context"

	"github.com/eiannone/keyboard"

	"liftdispatch/elevsystem"
	"liftdispatch/logger"
)

// keyboardThread steps the simulation by hand: t ticks, s prints the fleet,
// q or Ctrl+C quits.
func keyboardThread(ctx context.Context, cancel context.CancelFunc, sys *elevsystem.System) {
	log := logger.GetLogger()
	log.Info().Msg("interactive mode: [t] tick  [s] states  [q] quit")

	var tick uint64
	for ctx.Err() == nil {
		char, key, err := keyboard.GetSingleKey()
		if err != nil {
			log.Error().Err(err).Msg("keyboardThread: reading key")
			cancel()
			return
		}
		if key == keyboard.KeyCtrlC || char == 'q' {
			cancel()
			return
		}

		switch char {
		case 't':
			if err := sys.Tick(); err != nil {
				log.Error().Err(err).Msg("tick failed")
				continue
			}
			tick++
			logStates(sys, tick)
		case 's':
			logStates(sys, tick)
		}
	}
}
