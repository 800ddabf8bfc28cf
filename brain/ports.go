package brain

import "context"

// Peripheral ports. The loop talks to hardware only through these
// interfaces; the drivers under sensor/, lights/, playback/ and inputdev/
// implement them directly, and the simulator and the tests provide fakes.

// InputPort samples the raw input line levels. Sample must be cheap and
// non-blocking; it is called once per tick.
type InputPort interface {
	// Sample returns the two encoder phase levels and the button level
	// (true = pressed).
	Sample() (phaseA, phaseB, pressed bool)
}

// ColorSensor produces normalized readings.
type ColorSensor interface {
	// Sense performs one reading. It blocks for the sensor's integration
	// time; this is one of the two sanctioned waits in the tick loop.
	Sense(ctx context.Context) (ColorSample, error)

	// SetActive powers the measurement engine up or down between uses.
	SetActive(on bool) error
}

// LightPort drives the LED ring.
type LightPort interface {
	Fill(c RGB)
	Off()

	// SetBrightness scales subsequent fills (0..1). Used by the boot and
	// sleep ramps.
	SetBrightness(level float64)
}

// PlayerPort is the playback engine.
type PlayerPort interface {
	// Play stops whatever is sounding and starts the named asset. The
	// loop flag is advisory; re-issue on drain is the reducer's job.
	Play(asset string, loop bool) error

	// Stop silences playback.
	Stop()

	// Active reports whether anything is currently producing sound.
	Active() bool

	// SetVolume applies a gain in dB; silent requests a hard mute.
	SetVolume(db float64, silent bool)

	// Tracks lists the bundled music assets (trackAssetPrefix names),
	// sorted.
	Tracks() []string
}

// WakeSource blocks until the external wake line fires. Armed only
// immediately before sleep entry.
type WakeSource interface {
	Await(ctx context.Context) error
}

// Ports bundles the peripherals a session runs against.
type Ports struct {
	Input  InputPort
	Sensor ColorSensor
	Lights LightPort
	Player PlayerPort
	Wake   WakeSource
}
