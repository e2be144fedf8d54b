package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

const perfSampleInterval = time.Second * 15

var meter = otel.Meter("gradharvest.perf_stats")
var cpuGauge, _ = meter.Float64Gauge("cpu_usage")
var memoryGauge, _ = meter.Int64Gauge("allocated_mb")
var liveObjectsGauge, _ = meter.Int64Gauge("live_objects")
var goroutineGauge, _ = meter.Int64Gauge("goroutine_count")

// InstrumentPerfStats samples process cpu and memory on a ticker until the
// context ends.
func InstrumentPerfStats(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(perfSampleInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				samplePerfStats(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func samplePerfStats(ctx context.Context) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	// usage since the previous sample, the zero interval keeps this from
	// blocking the ticker
	cpuUsage, err := cpu.Percent(0, false)
	if err != nil {
		slog.Warn("failed to read cpu usage", "err", err)
	} else if len(cpuUsage) > 0 {
		cpuGauge.Record(ctx, cpuUsage[0])
	}

	memoryGauge.Record(ctx, int64(memStats.Alloc/1_000_000))
	liveObjectsGauge.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees))
	goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))
}
