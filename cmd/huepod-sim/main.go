// huepod-sim runs the real device loop against simulated hardware in a
// terminal. The keyboard stands in for the encoder, button and color
// sensor, the LED ring renders as a circle of cells, and playback is
// timed but silent. The IPC socket is live, so huectl works against the
// simulator exactly as it does against the device.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"huepod/brain"
)

const frameInterval = 33 * time.Millisecond

func main() {
	var (
		flagSocket   = flag.String("socket", "/tmp/huepod-sim.sock", "IPC socket path")
		flagUpdateHz = flag.Int("update-hz", 0, "override device loop rate")
		flagLogFile  = flag.String("log", "", "append daemon logs to this file (default: discard)")
	)
	flag.Parse()

	if err := run(*flagSocket, *flagUpdateHz, *flagLogFile); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(socketPath string, updateHz int, logFile string) error {
	cfg := brain.DefaultConfig()
	cfg.IPC.SocketPath = socketPath
	cfg.Power.BootCountPath = filepath.Join(os.TempDir(), "huepod-sim-bootcount")
	// Real integration windows make a keyboard-driven session feel
	// sluggish; the simulated sensor answers fast.
	cfg.Sensor.IntegrationMS = 60
	if updateHz > 0 {
		cfg.Timing.UpdateHz = updateHz
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var logW io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logW = f
	}
	logger := slog.New(slog.NewTextHandler(logW, &slog.HandlerOptions{Level: slog.LevelDebug}))

	input := newSimInput()
	sense := &simSensor{wait: time.Duration(cfg.Sensor.IntegrationMS) * time.Millisecond}
	ring := &simLights{brightness: cfg.Lights.Brightness}
	player := newSimPlayer()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan brain.Event, 32)
	snap := &atomic.Pointer[brain.Snapshot]{}

	go func() {
		if err := brain.RunIPCServer(ctx, cfg.IPC.SocketPath, events, snap, logger); err != nil {
			logger.Error("ipc server stopped", "error", err)
		}
	}()

	var loopErr error
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loopErr = brain.RunDevice(ctx, events, brain.Ports{
			Input:  input,
			Sensor: sense,
			Lights: ring,
			Player: player,
			Wake:   input,
		}, &cfg, snap, logger)
	}()

	u := &ui{
		screen:   screen,
		input:    input,
		sensor:   sense,
		lights:   ring,
		player:   player,
		snap:     snap,
		socket:   cfg.IPC.SocketPath,
		ledCount: cfg.Lights.Count,
		volMax:   cfg.Volume.Max,
	}
	u.run(loopDone)

	cancel()
	<-loopDone
	return loopErr
}
