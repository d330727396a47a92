package rslimiter

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"entradalert/internal/config"
)

// Watchdog keeps an eye on process and system resources. A long-lived
// headless Chrome accumulates memory over days of polling; when a threshold
// trips, the watchdog calls the shutdown callback so the process exits
// cleanly and the supervisor restarts it, instead of waiting for the OOM
// killer.
type Watchdog struct {
	cfg              config.ResourceConfig
	logger           zerolog.Logger
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	mu               sync.RWMutex
	isRunning        bool
	shutdownCallback func(reason string)
}

// NewWatchdog creates a new resource watchdog
func NewWatchdog(cfg config.ResourceConfig, logger zerolog.Logger) *Watchdog {
	return &Watchdog{
		cfg:    cfg,
		logger: logger.With().Str("component", "ResourceWatchdog").Logger(),
	}
}

// SetShutdownCallback sets the function called when a limit trips.
func (w *Watchdog) SetShutdownCallback(callback func(reason string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shutdownCallback = callback
}

// Start begins the periodic checks.
func (w *Watchdog) Start() {
	w.mu.Lock()
	if w.isRunning || !w.cfg.Enabled {
		w.mu.Unlock()
		return
	}
	w.isRunning = true
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop(ctx)

	w.logger.Info().
		Int64("max_memory_mb", w.cfg.MaxMemoryMB).
		Float64("system_mem_threshold", w.cfg.SystemMemThreshold).
		Float64("cpu_threshold", w.cfg.CPUThreshold).
		Int("check_interval_secs", w.cfg.CheckIntervalSecs).
		Msg("Resource watchdog started")
}

// Stop halts the checks.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return
	}
	w.isRunning = false
	cancel := w.cancel
	w.mu.Unlock()

	cancel()
	w.wg.Wait()
	w.logger.Info().Msg("Resource watchdog stopped")
}

func (w *Watchdog) loop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(time.Duration(w.cfg.CheckIntervalSecs) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.checkOnce()
		}
	}
}

func (w *Watchdog) checkOnce() {
	usage := w.snapshot()

	if exceeded, reason := w.checkLimits(usage); exceeded {
		w.logger.Error().
			Str("reason", reason).
			Int64("alloc_mb", usage.AllocMB).
			Float64("system_mem_percent", usage.SystemMemUsedPercent).
			Float64("cpu_percent", usage.CPUUsagePercent).
			Msg("Resource limits exceeded, triggering graceful shutdown")
		w.triggerShutdown(reason)
		return
	}

	w.logger.Debug().
		Int64("alloc_mb", usage.AllocMB).
		Int("goroutines", usage.Goroutines).
		Float64("system_mem_percent", usage.SystemMemUsedPercent).
		Float64("cpu_percent", usage.CPUUsagePercent).
		Msg("Current resource usage")
}

// Usage is one snapshot of resource consumption.
type Usage struct {
	AllocMB              int64
	Goroutines           int
	SystemMemUsedPercent float64
	CPUUsagePercent      float64
}

func (w *Watchdog) snapshot() Usage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage := Usage{
		AllocMB:    int64(m.Alloc / 1024 / 1024),
		Goroutines: runtime.NumGoroutine(),
	}

	if vmStat, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemUsedPercent = vmStat.UsedPercent
	} else {
		w.logger.Debug().Err(err).Msg("Failed to read system memory stats")
	}

	if cpuPercents, err := cpu.Percent(time.Second, false); err == nil && len(cpuPercents) > 0 {
		usage.CPUUsagePercent = cpuPercents[0]
	} else if err != nil {
		w.logger.Debug().Err(err).Msg("Failed to read CPU usage")
	}

	return usage
}

func (w *Watchdog) checkLimits(usage Usage) (bool, string) {
	if w.cfg.MaxMemoryMB > 0 && usage.AllocMB > w.cfg.MaxMemoryMB {
		return true, fmt.Sprintf("process memory %dMB exceeds limit %dMB", usage.AllocMB, w.cfg.MaxMemoryMB)
	}
	if w.cfg.SystemMemThreshold > 0 && usage.SystemMemUsedPercent/100.0 > w.cfg.SystemMemThreshold {
		return true, "system memory threshold exceeded"
	}
	if w.cfg.CPUThreshold > 0 && usage.CPUUsagePercent/100.0 > w.cfg.CPUThreshold {
		return true, "cpu usage threshold exceeded"
	}
	return false, ""
}

func (w *Watchdog) triggerShutdown(reason string) {
	w.mu.RLock()
	callback := w.shutdownCallback
	w.mu.RUnlock()

	if callback == nil {
		w.logger.Warn().Msg("No shutdown callback set, cannot trigger graceful shutdown")
		return
	}
	callback(reason)
}
