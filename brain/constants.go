package brain

// Tick loop and input timing defaults
const (
	defaultUpdateHz = 200 // Update loop frequency (Hz)

	defaultModeSwitchHoldMS = 1500 // Hold duration to switch Detection/Collection (ms)
	defaultSleepHoldMS      = 5000 // Hold duration to enter sleep (ms)
	defaultReleaseSettleMS  = 200  // Settle delay after release before sleep entry (ms)
)

// Color sensing defaults
const (
	defaultIntegrationMS = 500  // Sensor integration wait per reading (ms)
	defaultSensorGain    = 16   // Sensor analog gain
	defaultSensorAddr    = 0x29 // I2C address of the TCS3472 family

	// RepeatTripThreshold is the number of accumulated same-family matches
	// that upgrades the next response to the family's special asset.
	RepeatTripThreshold = 5
)

// Volume defaults
const (
	defaultVolumeMin     = 0
	defaultVolumeMax     = 10
	defaultVolumeInitial = 5

	// defaultVolumeFloorDB is the playback gain at volume 1.
	// Volume 0 is hard silence, volume max is 0 dB.
	defaultVolumeFloorDB = -40.0
)

// Rotary fast-spin defaults
const (
	defaultRotaryWindowMS    = 200 // Time window for fast-spin detection (ms)
	defaultRotaryThreshold   = 4   // Steps in window to trigger fast-spin scaling
	defaultRotaryMultiplier  = 2   // Volume steps per detent when spinning fast
	rotaryRecentStepCapacity = 16
)

// Light defaults
const (
	defaultLightCount      = 12
	defaultLightBrightness = 0.6

	defaultRampSteps  = 20 // Brightness ramp resolution for boot/sleep sequences
	defaultRampStepMS = 40 // Delay between ramp steps (ms)

	// Flash pattern cadence for tick-driven visual signals.
	flashOnMS  = 120
	flashOffMS = 100

	completionFlashCount = 3
)

// Paths
const (
	defaultBootCountPath = "/run/huepod/boot_count"
	defaultSocketPath    = "/tmp/huepod.sock"
	defaultAssetDir      = "/usr/share/huepod/sounds"
)

// Asset naming. Assets are WAV files addressed by symbolic name; the
// playback layer resolves names to files.
const (
	specialAssetSuffix  = "-special"
	completeAssetSuffix = "-complete"
	trackAssetPrefix    = "track-"
)

// Fixed colors used by sequences and signals.
var (
	colorSleepAmber = RGB{R: 255, G: 120, B: 20}
	colorBootFlash  = RGB{R: 255, G: 180, B: 90}
	colorErrorRed   = RGB{R: 200, G: 0, B: 0}
	colorComplete   = RGB{R: 255, G: 255, B: 255}
)
