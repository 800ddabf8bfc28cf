package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"
	"periph.io/x/host/v3"

	"huepod/brain"
	"huepod/inputdev"
	"huepod/lights"
	"huepod/playback"
	"huepod/sensor"
)

var (
	flagInputBackend string
	flagAssetDir     string
	flagUpdateHz     int
	flagSocket       string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the device daemon",
	Long: `Run opens the encoder, color sensor, LED ring and audio device,
then enters the device loop. The daemon keeps running across sleep/wake
cycles until it receives SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	runCmd.Flags().StringVar(&flagInputBackend, "input-backend", "", "override input backend: gpio or evdev")
	runCmd.Flags().StringVar(&flagAssetDir, "asset-dir", "", "override audio asset directory")
	runCmd.Flags().IntVar(&flagUpdateHz, "update-hz", 0, "override device loop rate")
	runCmd.Flags().StringVar(&flagSocket, "socket", "", "override IPC socket path")
}

// loadConfig layers defaults, the optional config file and any flags the
// user actually set, then validates the result.
func loadConfig(cmd *cobra.Command) (brain.Config, error) {
	cfg := brain.DefaultConfig()
	if flagConfig != "" {
		var err error
		cfg, err = brain.LoadConfigFile(flagConfig)
		if err != nil {
			return brain.Config{}, err
		}
	}

	var o brain.FlagOverrides
	if cmd.Flags().Changed("input-backend") {
		o.InputBackend = &flagInputBackend
	}
	if cmd.Flags().Changed("asset-dir") {
		o.AssetDir = &flagAssetDir
	}
	if cmd.Flags().Changed("update-hz") {
		o.UpdateHz = &flagUpdateHz
	}
	if cmd.Flags().Changed("socket") {
		o.SocketPath = &flagSocket
	}
	if cmd.Root().PersistentFlags().Changed("log-level") {
		o.LogLevel = &flagLogLevel
	}
	o.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return brain.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	level, err := brain.ParseLogLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logger := brain.SetupLogger(level)

	logger.Info("starting huepod",
		"version", version,
		"input_backend", cfg.Input.Backend,
		"update_hz", cfg.Timing.UpdateHz,
		"asset_dir", cfg.Audio.AssetDir,
		"socket", cfg.IPC.SocketPath)

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("init peripheral host: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The device is a color toy; without the sensor there is nothing to
	// run. Same for the ring, which carries all user feedback.
	dev, err := sensor.Open(cfg.Sensor.Bus, sensor.Opts{
		Addr:          uint16(cfg.Sensor.Address),
		IntegrationMS: cfg.Sensor.IntegrationMS,
		Gain:          cfg.Sensor.Gain,
	}, logger)
	if err != nil {
		logger.Error("color sensor unavailable", "error", err,
			"tip", "check the I2C overlay and the sensor wiring")
		return err
	}
	defer dev.Close()

	ring, err := lights.Open(cfg.Lights.Port, cfg.Lights.Count, cfg.Lights.Brightness, logger)
	if err != nil {
		logger.Error("led ring unavailable", "error", err,
			"tip", "check the SPI overlay and lights.port")
		return err
	}
	defer ring.Close()

	input, wake, inputErrs, closeInput, err := openInput(&cfg, logger)
	if err != nil {
		logger.Error("input unavailable", "error", err,
			"tip", "check input.backend and the pin or device configuration")
		return err
	}
	defer closeInput()

	player, closePlayer := openPlayback(ctx, &cfg, ring, logger)
	defer closePlayer()

	events := make(chan brain.Event, eventQueueDepth)
	snap := &atomic.Pointer[brain.Snapshot]{}

	go func() {
		if err := brain.RunIPCServer(ctx, cfg.IPC.SocketPath, events, snap, logger); err != nil {
			logger.Error("ipc server stopped", "error", err)
		}
	}()

	if inputErrs != nil {
		go func() {
			for err := range inputErrs {
				logger.Warn("input reader", "error", err)
			}
		}()
	}

	return brain.RunDevice(ctx, events, brain.Ports{
		Input:  input,
		Sensor: dev,
		Lights: ring,
		Player: player,
		Wake:   wake,
	}, &cfg, snap, logger)
}

// eventQueueDepth buffers injected IPC events so a chatty bench client
// cannot stall the loop.
const eventQueueDepth = 32

// openInput builds the configured input backend. Both backends double as
// the wake source, since the wake gesture is a button press.
func openInput(cfg *brain.Config, logger *slog.Logger) (brain.InputPort, brain.WakeSource, <-chan error, func(), error) {
	switch cfg.Input.Backend {
	case "gpio":
		g, err := inputdev.OpenGPIO(cfg.Input.EncoderAPin, cfg.Input.EncoderBPin, cfg.Input.ButtonPin, logger)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return g, g, nil, func() {}, nil
	case "evdev":
		e, err := inputdev.OpenEvdev(cfg.Input.Devices, logger)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		return e, e, e.Err(), func() { e.Close() }, nil
	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown input backend %q", cfg.Input.Backend)
	}
}

// openPlayback loads the asset registry and starts the audio engine.
// Audio failures are not fatal: the device keeps sensing and lighting,
// signals the problem with a red flash, and plays nothing.
func openPlayback(ctx context.Context, cfg *brain.Config, ring *lights.Ring, logger *slog.Logger) (brain.PlayerPort, func()) {
	reg, err := playback.LoadRegistry(cfg.Audio.AssetDir, logger)
	if err != nil {
		logger.Error("audio assets unavailable, running silent", "error", err,
			"tip", "place WAV files in audio.asset_dir")
		brain.ErrorFlash(ctx, ring, cfg)
		return nullPlayer{}, func() {}
	}

	eng := playback.NewEngine(reg, logger)
	if err := eng.Start(); err != nil {
		logger.Error("audio engine unavailable, running silent", "error", err)
		brain.ErrorFlash(ctx, ring, cfg)
		return nullPlayer{}, func() {}
	}
	if eng.Silent() {
		// The engine already logged why; the user gets the red flash.
		brain.ErrorFlash(ctx, ring, cfg)
	}
	return eng, eng.Close
}

// nullPlayer stands in when audio is degraded: every request succeeds
// and nothing ever plays.
type nullPlayer struct{}

func (nullPlayer) Play(asset string, loop bool) error { return nil }
func (nullPlayer) Stop()                              {}
func (nullPlayer) Active() bool                       { return false }
func (nullPlayer) SetVolume(db float64, silent bool)  {}
func (nullPlayer) Tracks() []string                   { return nil }
