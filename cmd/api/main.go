package main

import (
	"waranalyzer-backend/internal/shared/config"
	"waranalyzer-backend/internal/shared/server"
	"waranalyzer-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	r := server.NewRouter(cfg)

	addr := server.Addr(cfg.Port)
	telemetry.Info("server.start", map[string]any{
		"addr": addr,
		"env":  cfg.Env,
	})
	if err := r.Run(addr); err != nil {
		telemetry.Error("server.exit", map[string]any{"err": err.Error()})
	}
}
