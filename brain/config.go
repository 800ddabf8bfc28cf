package brain

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML configuration for the huepod daemon.
//
// This is intentionally user-facing and stable-ish. Keep defaults and
// validation centralized so the rest of the code can assume a well-formed
// config.
//
// Design goals:
//   - Make the config file the primary configuration surface.
//   - Keep flags for small overrides and for environments where a file is
//     awkward.
type Config struct {
	// Input device configuration
	Input InputConfig `yaml:"input"`

	// Color sensor configuration
	Sensor SensorConfig `yaml:"sensor"`

	// Light ring configuration
	Lights LightsConfig `yaml:"lights"`

	// Audio asset configuration
	Audio AudioConfig `yaml:"audio"`

	// Volume level bounds
	Volume VolumeConfig `yaml:"volume"`

	// Rotary fast-spin scaling
	Rotary RotaryConfig `yaml:"rotary"`

	// Hold thresholds and loop cadence
	Timing TimingConfig `yaml:"timing"`

	// Sleep/wake sequencing and boot counter
	Power PowerConfig `yaml:"power"`

	// IPC configuration
	IPC IPCConfig `yaml:"ipc"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

type InputConfig struct {
	// Backend selects how the input lines are read: "gpio" samples the
	// pins directly, "evdev" consumes kernel input devices (gpio-keys and
	// rotary-encoder overlays).
	Backend string `yaml:"backend"`

	// GPIO pin names (periph.io names, e.g. "GPIO17").
	ButtonPin   string `yaml:"button_pin"`
	EncoderAPin string `yaml:"encoder_a_pin"`
	EncoderBPin string `yaml:"encoder_b_pin"`

	// Evdev device paths, used when backend is "evdev".
	Devices []string `yaml:"devices,omitempty"`
}

type SensorConfig struct {
	// Bus is the periph.io I2C bus name; empty selects the first bus.
	Bus     string `yaml:"bus,omitempty"`
	Address int    `yaml:"address"`

	// IntegrationMS is how long one reading integrates. This is the
	// blocking wait the sensing tick performs.
	IntegrationMS int `yaml:"integration_ms"`
	Gain          int `yaml:"gain"`
}

type LightsConfig struct {
	// Port is the periph.io SPI port name; empty selects the first port.
	Port       string  `yaml:"port,omitempty"`
	Count      int     `yaml:"count"`
	Brightness float64 `yaml:"brightness"`
}

type AudioConfig struct {
	// AssetDir holds the WAV assets, addressed by bare name.
	AssetDir string `yaml:"asset_dir"`

	// FloorDB is the playback gain at the lowest audible volume level.
	FloorDB float64 `yaml:"floor_db"`
}

type VolumeConfig struct {
	Min     int `yaml:"min"`
	Max     int `yaml:"max"`
	Initial int `yaml:"initial"`
}

type RotaryConfig struct {
	FastWindowMS   int `yaml:"fast_window_ms"`
	FastThreshold  int `yaml:"fast_threshold"`
	FastMultiplier int `yaml:"fast_multiplier"`
}

type TimingConfig struct {
	UpdateHz         int `yaml:"update_hz"`
	ModeSwitchHoldMS int `yaml:"mode_switch_hold_ms"`
	SleepHoldMS      int `yaml:"sleep_hold_ms"`
	ReleaseSettleMS  int `yaml:"release_settle_ms"`
}

type PowerConfig struct {
	BootCountPath string `yaml:"boot_count_path"`
	RampSteps     int    `yaml:"ramp_steps"`
	RampStepMS    int    `yaml:"ramp_step_ms"`
}

type IPCConfig struct {
	SocketPath string `yaml:"socket_path"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a fully-populated Config with defaults.
// Keep this aligned with constants.go.
func DefaultConfig() Config {
	return Config{
		Input: InputConfig{
			Backend:     "gpio",
			ButtonPin:   "GPIO17",
			EncoderAPin: "GPIO22",
			EncoderBPin: "GPIO23",
		},
		Sensor: SensorConfig{
			Address:       defaultSensorAddr,
			IntegrationMS: defaultIntegrationMS,
			Gain:          defaultSensorGain,
		},
		Lights: LightsConfig{
			Count:      defaultLightCount,
			Brightness: defaultLightBrightness,
		},
		Audio: AudioConfig{
			AssetDir: defaultAssetDir,
			FloorDB:  defaultVolumeFloorDB,
		},
		Volume: VolumeConfig{
			Min:     defaultVolumeMin,
			Max:     defaultVolumeMax,
			Initial: defaultVolumeInitial,
		},
		Rotary: RotaryConfig{
			FastWindowMS:   defaultRotaryWindowMS,
			FastThreshold:  defaultRotaryThreshold,
			FastMultiplier: defaultRotaryMultiplier,
		},
		Timing: TimingConfig{
			UpdateHz:         defaultUpdateHz,
			ModeSwitchHoldMS: defaultModeSwitchHoldMS,
			SleepHoldMS:      defaultSleepHoldMS,
			ReleaseSettleMS:  defaultReleaseSettleMS,
		},
		Power: PowerConfig{
			BootCountPath: defaultBootCountPath,
			RampSteps:     defaultRampSteps,
			RampStepMS:    defaultRampStepMS,
		},
		IPC: IPCConfig{
			SocketPath: defaultSocketPath,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfigFile reads and parses a YAML config file.
//
// Notes:
//   - The file must be valid YAML.
//   - Unknown fields are rejected (helps catch typos) via KnownFields(true).
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	// Ensure there's no trailing garbage (only whitespace/comments are
	// allowed after the document).
	if err := dec.Decode(&struct{}{}); err == nil {
		return Config{}, fmt.Errorf("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// FlagOverrides applies overrides from flags on top of a loaded config.
//
// Flags should pass pointers; each override is only applied if the pointer
// is non-nil. This keeps the config file the primary configuration source
// while still allowing ad-hoc overrides for debugging/systemd drop-ins.
type FlagOverrides struct {
	InputBackend *string
	AssetDir     *string
	UpdateHz     *int
	SocketPath   *string
	LogLevel     *string
}

// Apply merges the overrides into cfg. If an override pointer is nil, it is
// ignored.
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.InputBackend != nil {
		cfg.Input.Backend = *o.InputBackend
	}
	if o.AssetDir != nil {
		cfg.Audio.AssetDir = *o.AssetDir
	}
	if o.UpdateHz != nil {
		cfg.Timing.UpdateHz = *o.UpdateHz
	}
	if o.SocketPath != nil {
		cfg.IPC.SocketPath = *o.SocketPath
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
}

// Validate checks config invariants and returns a user-friendly error.
// This is intended to be called after defaults + file + overrides are
// applied.
func (c *Config) Validate() error {
	// Input
	switch c.Input.Backend {
	case "gpio":
		if c.Input.ButtonPin == "" || c.Input.EncoderAPin == "" || c.Input.EncoderBPin == "" {
			return errors.New("input backend gpio requires button_pin, encoder_a_pin and encoder_b_pin")
		}
	case "evdev":
		if len(c.Input.Devices) == 0 {
			return errors.New("input backend evdev requires input.devices")
		}
		for i, dev := range c.Input.Devices {
			if dev == "" {
				return fmt.Errorf("input.devices[%d] is empty", i)
			}
		}
	default:
		return fmt.Errorf("input.backend must be %q or %q", "gpio", "evdev")
	}

	// Sensor
	if c.Sensor.Address <= 0 || c.Sensor.Address > 0x7f {
		return errors.New("sensor.address must be a 7-bit I2C address")
	}
	if c.Sensor.IntegrationMS <= 0 {
		return errors.New("sensor.integration_ms must be > 0")
	}
	if c.Sensor.Gain != 1 && c.Sensor.Gain != 4 && c.Sensor.Gain != 16 && c.Sensor.Gain != 60 {
		return errors.New("sensor.gain must be 1, 4, 16 or 60")
	}

	// Lights
	if c.Lights.Count <= 0 {
		return errors.New("lights.count must be > 0")
	}
	if c.Lights.Brightness < 0 || c.Lights.Brightness > 1 {
		return errors.New("lights.brightness must be between 0 and 1")
	}

	// Audio
	if c.Audio.AssetDir == "" {
		return errors.New("audio.asset_dir must not be empty")
	}
	if c.Audio.FloorDB >= 0 {
		return errors.New("audio.floor_db must be < 0")
	}

	// Volume
	if c.Volume.Min >= c.Volume.Max {
		return errors.New("volume.min must be < volume.max")
	}
	if c.Volume.Initial < c.Volume.Min || c.Volume.Initial > c.Volume.Max {
		return errors.New("volume.initial must be within [volume.min, volume.max]")
	}

	// Rotary
	if c.Rotary.FastWindowMS <= 0 {
		return errors.New("rotary.fast_window_ms must be > 0")
	}
	if c.Rotary.FastThreshold < 2 {
		return errors.New("rotary.fast_threshold must be >= 2")
	}
	if c.Rotary.FastMultiplier < 1 {
		return errors.New("rotary.fast_multiplier must be >= 1")
	}

	// Timing
	if c.Timing.UpdateHz <= 0 || c.Timing.UpdateHz > 1000 {
		return errors.New("timing.update_hz must be between 1 and 1000")
	}
	if c.Timing.ModeSwitchHoldMS <= 0 {
		return errors.New("timing.mode_switch_hold_ms must be > 0")
	}
	if c.Timing.SleepHoldMS <= c.Timing.ModeSwitchHoldMS {
		return errors.New("timing.sleep_hold_ms must be > timing.mode_switch_hold_ms")
	}
	if c.Timing.ReleaseSettleMS < 0 {
		return errors.New("timing.release_settle_ms must be >= 0")
	}

	// Power
	if c.Power.BootCountPath == "" {
		return errors.New("power.boot_count_path must not be empty")
	}
	if c.Power.RampSteps <= 0 {
		return errors.New("power.ramp_steps must be > 0")
	}
	if c.Power.RampStepMS <= 0 {
		return errors.New("power.ramp_step_ms must be > 0")
	}

	// IPC
	if c.IPC.SocketPath == "" {
		return errors.New("ipc.socket_path must not be empty")
	}

	// Logging
	if c.Logging.Level == "" {
		return errors.New("logging.level must not be empty")
	}

	return nil
}

// ExpandPath expands a leading "~" in a path using $HOME.
// This is handy for config values like audio.asset_dir.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	if p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
