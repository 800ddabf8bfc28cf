package brain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Power and session control: the boot/sleep/wake cycle around the tick loop.
//
// Sleep is in-process: the loop returns ErrSleepRequested, the sequence
// below winds the device down, and the goroutine blocks on the armed wake
// source. Waking increments the boot counter and re-runs the boot sequence
// with a fresh session state (mode starts in Detection on every boot).
//
// The boot counter lives in a file under /run: it survives sleep/wake
// cycles and daemon restarts, but not host power loss.

const (
	amberHoldMS     = 600 // How long the amber fill holds before the decay
	bootFlashCount  = 2
	errorFlashCount = 3
)

// RunDevice owns the boot/sleep/wake cycle. It returns nil on clean
// shutdown (ctx canceled or events channel closed) and an error only on
// unrecoverable failures.
func RunDevice(
	ctx context.Context,
	events <-chan Event,
	ports Ports,
	cfg *Config,
	snap *atomic.Pointer[Snapshot],
	logger *slog.Logger,
) error {
	bootCount := loadBootCount(cfg.Power.BootCountPath, logger)

	for {
		bootSequence(ctx, ports.Lights, cfg)
		logger.Info("boot sequence complete", "boot_count", bootCount)

		state := NewDeviceState(cfg, ports.Player.Tracks(), bootCount)

		// Seed the engine gain from the initial level so the first asset
		// plays at the configured volume.
		db, silent := LevelToDB(state.Volume, cfg)
		ports.Player.SetVolume(db, silent)

		err := RunLoop(ctx, events, ports, cfg, state, snap, logger)
		if err == nil {
			windDown(ports)
			return nil
		}
		if !errors.Is(err, ErrSleepRequested) {
			return fmt.Errorf("session loop: %w", err)
		}

		sleepSequence(ctx, ports, cfg, logger)
		if ctx.Err() != nil {
			return nil
		}

		logger.Info("asleep, wake source armed")
		if err := ports.Wake.Await(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("wake source: %w", err)
		}

		bootCount++
		saveBootCount(cfg.Power.BootCountPath, bootCount, logger)
		logger.Info("wake", "boot_count", bootCount)
	}
}

// bootSequence ramps the ring from dark to the configured brightness and
// double-flashes. Runs on cold boot and on every wake.
func bootSequence(ctx context.Context, lights LightPort, cfg *Config) {
	stepDelay := time.Duration(cfg.Power.RampStepMS) * time.Millisecond

	lights.SetBrightness(0)
	lights.Fill(colorBootFlash)
	for i := 1; i <= cfg.Power.RampSteps; i++ {
		if ctx.Err() != nil {
			return
		}
		lights.SetBrightness(cfg.Lights.Brightness * float64(i) / float64(cfg.Power.RampSteps))
		lights.Fill(colorBootFlash)
		time.Sleep(stepDelay)
	}

	flashBlocking(ctx, lights, colorBootFlash, bootFlashCount)
	lights.Off()
}

// sleepSequence winds the device down: settle after the button release, a
// warm amber hold, brightness decay to dark, then silence everything.
func sleepSequence(ctx context.Context, ports Ports, cfg *Config, logger *slog.Logger) {
	time.Sleep(time.Duration(cfg.Timing.ReleaseSettleMS) * time.Millisecond)

	ports.Lights.SetBrightness(cfg.Lights.Brightness)
	ports.Lights.Fill(colorSleepAmber)
	time.Sleep(amberHoldMS * time.Millisecond)

	stepDelay := time.Duration(cfg.Power.RampStepMS) * time.Millisecond
	for i := cfg.Power.RampSteps - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			break
		}
		ports.Lights.SetBrightness(cfg.Lights.Brightness * float64(i) / float64(cfg.Power.RampSteps))
		ports.Lights.Fill(colorSleepAmber)
		time.Sleep(stepDelay)
	}

	windDown(ports)
	if err := ports.Sensor.SetActive(false); err != nil {
		logger.Warn("sensor power-down failed", "error", err)
	}
}

// windDown silences playback and blanks the ring. Shared by sleep entry and
// clean shutdown.
func windDown(ports Ports) {
	ports.Player.Stop()
	ports.Lights.Off()
}

// ErrorFlash signals a degraded boot (assets or speaker unavailable) with
// red flashes before the normal boot ramp runs.
func ErrorFlash(ctx context.Context, lights LightPort, cfg *Config) {
	lights.SetBrightness(cfg.Lights.Brightness)
	flashBlocking(ctx, lights, colorErrorRed, errorFlashCount)
	lights.Off()
}

// flashBlocking is the blocking flash used by the boot/sleep sequences.
// Reducer-driven flashes go through VisualState instead.
func flashBlocking(ctx context.Context, lights LightPort, c RGB, count int) {
	for i := 0; i < count; i++ {
		if ctx.Err() != nil {
			return
		}
		lights.Fill(c)
		time.Sleep(flashOnMS * time.Millisecond)
		lights.Off()
		time.Sleep(flashOffMS * time.Millisecond)
	}
}

// loadBootCount reads the persisted boot counter. A missing or unreadable
// file means a cold boot: count zero.
func loadBootCount(path string, logger *slog.Logger) int {
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("boot counter unreadable, assuming cold boot", "path", path, "error", err)
		}
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || n < 0 {
		logger.Warn("boot counter corrupt, assuming cold boot", "path", path)
		return 0
	}
	return n
}

// saveBootCount persists the boot counter. Failures are logged and
// swallowed: a toy that cannot count its boots still has to wake up.
func saveBootCount(path string, count int, logger *slog.Logger) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Warn("boot counter dir", "path", path, "error", err)
		return
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(count)+"\n"), 0644); err != nil {
		logger.Warn("boot counter write failed", "path", path, "error", err)
	}
}
