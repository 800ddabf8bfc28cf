package brain

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"
)

// ============================================================================
// Session Loop - Reducer-driven "Device Brain"
// ============================================================================
//
// Design rules enforced here:
//   - The reducer performs no I/O and computes: next state + commands.
//   - The loop is the only place that executes side effects (port calls).
//   - Port observations are turned into Events and fed back into the reducer.
//
// Per tick, strictly ordered:
//   1. Reduce the InputSample (line levels merged with injected state).
//   2. If sensing is active (or a final pass is owed), perform one sensor
//      integration and reduce the ColorObserved.
//   3. Reduce a PlaybackServiced liveness event (continuation policy).
//   4. Publish a state snapshot for IPC readers.
//
// The integration wait in step 2 is one of the two sanctioned blocking
// waits; everything else must return promptly.
//
// ============================================================================

// ErrSleepRequested is returned by RunLoop when the reducer emitted
// CmdSleep. The session controller runs the sleep sequence and decides
// whether a new session follows.
var ErrSleepRequested = errors.New("sleep requested")

// RunLoop drives one awake session until sleep is requested or ctx is
// canceled (clean shutdown, returns nil).
//
// events carries injected events from the IPC surface. snap, when non-nil,
// receives a fresh state snapshot every tick.
func RunLoop(
	ctx context.Context,
	events <-chan Event,
	ports Ports,
	cfg *Config,
	state *DeviceState,
	snap *atomic.Pointer[Snapshot],
	logger *slog.Logger,
) error {
	if state == nil {
		logger.Error("session state is nil")
		return errors.New("session state is nil")
	}

	updateInterval := time.Second / time.Duration(cfg.Timing.UpdateHz)
	ticker := time.NewTicker(updateInterval)
	defer ticker.Stop()

	// Explicit queues:
	// - eventQueue holds events awaiting reduction
	// - cmdQueue holds commands awaiting execution
	var eventQueue []Event
	var cmdQueue []Command
	sleepRequested := false

	enqueueEvent := func(ev Event) {
		eventQueue = append(eventQueue, ev)
	}
	enqueueCommands := func(cmds []Command) {
		if len(cmds) == 0 {
			return
		}
		cmdQueue = append(cmdQueue, cmds...)
	}

	// Reduce all queued events, enqueuing any resulting commands.
	flushEvents := func() {
		for len(eventQueue) > 0 {
			ev := eventQueue[0]
			eventQueue = eventQueue[1:]

			rr := Reduce(state, ev, cfg)
			if rr.State != nil {
				state = rr.State
			}
			enqueueCommands(rr.Commands)
		}
	}

	// Execute all queued commands, reducing observations promptly so the
	// reducer can emit follow-up commands.
	flushCommands := func() {
		for len(cmdQueue) > 0 {
			cmd := cmdQueue[0]
			cmdQueue = cmdQueue[1:]

			if _, ok := cmd.(CmdSleep); ok {
				sleepRequested = true
				continue
			}

			runEffect(ports, cmd, cfg, logger, func(obs Event) {
				enqueueEvent(obs)
			})
			flushEvents()
		}
	}

	publish := func(now time.Time) {
		if snap != nil {
			snap.Store(state.Snapshot(now))
		}
	}

	logger.Info("session loop started",
		"update_hz", cfg.Timing.UpdateHz,
		"mode", state.Mode.String(),
		"boot_count", state.BootCount)

	for {
		select {
		case <-ctx.Done():
			logger.Info("session loop stopping (context canceled)")
			return nil

		case ev, ok := <-events:
			if !ok {
				logger.Info("session loop stopping (events channel closed)")
				return nil
			}
			enqueueEvent(ev)
			flushEvents()
			flushCommands()
			if sleepRequested {
				return ErrSleepRequested
			}

		case now := <-ticker.C:
			a, b, pressed := ports.Input.Sample()
			enqueueEvent(InputSample{At: now, PhaseA: a, PhaseB: b, Pressed: pressed})
			flushEvents()
			flushCommands()
			if sleepRequested {
				return ErrSleepRequested
			}

			if state.Sensing || state.FinalPassPending {
				sample, err := ports.Sensor.Sense(ctx)
				if err != nil {
					if ctx.Err() != nil {
						logger.Info("session loop stopping (context canceled)")
						return nil
					}
					logger.Warn("sensor read failed", "error", err)
				} else {
					enqueueEvent(ColorObserved{Sample: sample, At: time.Now()})
					flushEvents()
					flushCommands()
					if sleepRequested {
						return ErrSleepRequested
					}
				}
			}

			enqueueEvent(PlaybackServiced{Active: ports.Player.Active(), At: time.Now()})
			flushEvents()
			flushCommands()
			if sleepRequested {
				return ErrSleepRequested
			}

			publish(now)
		}
	}
}

// runEffect executes a single reducer-emitted Command against the ports and
// emits observation Events via onEvent.
//
// Design rules:
//   - This function is allowed to perform I/O.
//   - It must never call Reduce() directly; it only emits Events to be
//     reduced by the loop.
func runEffect(ports Ports, cmd Command, cfg *Config, logger *slog.Logger, onEvent func(Event)) {
	if onEvent == nil {
		return
	}

	switch c := cmd.(type) {
	case CmdPlay:
		if err := ports.Player.Play(c.Asset, c.Loop); err != nil {
			logger.Warn("playback failed", "asset", c.Asset, "error", err)
			onEvent(PlaybackFailed{Asset: c.Asset, Err: err, At: time.Now()})
			return
		}
		logger.Debug("playback started", "asset", c.Asset, "loop", c.Loop)

	case CmdStopPlayback:
		ports.Player.Stop()

	case CmdSetVolume:
		db, silent := LevelToDB(c.Level, cfg)
		ports.Player.SetVolume(db, silent)
		logger.Debug("volume applied", "level", c.Level, "db", db, "silent", silent)

	case CmdLights:
		ports.Lights.Fill(c.Color)

	case CmdLightsOff:
		ports.Lights.Off()

	case CmdSensorActive:
		if err := ports.Sensor.SetActive(c.On); err != nil {
			logger.Warn("sensor power toggle failed", "on", c.On, "error", err)
		}

	default:
		logger.Warn("unknown command type", "command", cmd.String())
	}
}
