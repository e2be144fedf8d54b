package main

import (
	"context"
	"log/slog"

	"gradharvest/cmd/gradharvest/commands"
	"gradharvest/lib/telemetry"
	"gradharvest/lib/util/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(false)
	err := telemetry.SetupFromEnv(ctx, "gradharvest")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer func() {
		err := telemetry.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	}()
	telemetry.InstrumentPerfStats(ctx)

	commands.ExecuteContext(ctx)
}
