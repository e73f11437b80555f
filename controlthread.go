package main

import (
	"context"

	"liftdispatch/common"
	"liftdispatch/elevnetwork"
	"liftdispatch/elevsystem"
	"liftdispatch/logger"
)

func controlThread(ctx context.Context, cfg common.Config, sys *elevsystem.System) {
	server := elevnetwork.NewControlServer(sys)
	if err := server.Serve(ctx, cfg.ControlAddr); err != nil {
		logger.GetLogger().Error().Err(err).Msg("controlThread: control server stopped")
	}
}
