package brain

import "time"

// DeviceState is the top-level, loop-owned state container.
//
// Goals:
//   - Keep all reducer-owned state in one place (pure reducer, no external
//     mutation).
//   - Make the interaction model inspectable: every behavior the device
//     exhibits is a function of this struct plus the event stream.
//   - Make it easy to publish a coherent snapshot to the IPC surface.
//
// The state is owned by the loop goroutine; nothing else may touch it.
// Cross-goroutine readers get immutable Snapshot copies.
type DeviceState struct {
	// Mode is the current interaction mode. Boot always starts in
	// Detection, including boots that are wakes from sleep.
	Mode Mode

	// Sensing is the orthogonal sub-state: when true, the loop performs a
	// sensor integration every tick and feeds the reading back as a
	// ColorObserved event.
	Sensing bool

	// FinalPassPending is set when sensing is toggled off in Detection
	// mode: the loop owes one last classification pass so the last-seen
	// color still answers before the device goes idle.
	FinalPassPending bool

	// Encoder is the quadrature decoder state.
	Encoder EncoderState

	// Button is the current button session (press timing, fired flags).
	Button ButtonState

	// VirtualButton is the injected button level from the IPC surface.
	// It is OR-merged with the physical line on every InputSample.
	VirtualButton bool

	// PendingVolumeAdjusted carries a volume gesture that arrived after an
	// injected press but before the tick that opened the session; the flag
	// transfers into the session on its press edge.
	PendingVolumeAdjusted bool

	// Volume is the integer volume level, always within the configured
	// inclusive bounds.
	Volume int

	// Rotary tracks recent confirmed steps for fast-spin scaling.
	Rotary RotaryState

	// Counters holds the per-family repeat counters used in Detection
	// mode. Reset only on threshold trip (that family) or mode switch
	// (all families).
	Counters map[string]int

	// Grid is the collection progress, one row per theme.
	Grid CollectionGrid

	// Playing is the current playback intent: what should be sounding and
	// whether it should be re-issued when it drains.
	Playing PlayingState

	// Tracks is the bundled music track list (sorted asset names) cycled
	// by idle rotation. TrackIndex is the last selected entry.
	Tracks     []string
	TrackIndex int

	// Visual is the tick-driven light signal state.
	Visual VisualState

	// BootCount is the boot counter read at session start. Informational;
	// the session controller owns persistence.
	BootCount int
}

// Mode is the interaction mode.
type Mode uint8

const (
	ModeDetection Mode = iota
	ModeCollection
)

func (m Mode) String() string {
	switch m {
	case ModeDetection:
		return "detection"
	case ModeCollection:
		return "collection"
	default:
		return "unknown"
	}
}

// ButtonState is one button session: created on the press edge, cleared on
// release. The press stamps the current time twice as two independently
// expiring deadlines; each threshold fires at most once per session.
type ButtonState struct {
	Pressed   bool
	PressedAt time.Time

	ModeSwitchAt time.Time // deadline for the mode-switch hold
	SleepAt      time.Time // deadline for the sleep hold

	ModeSwitchFired bool
	SleepFired      bool

	// VolumeAdjusted is set when any rotation is routed to volume during
	// this session. It suppresses both the mode switch and the release
	// toggle: a press that adjusted volume means nothing else.
	VolumeAdjusted bool
}

// RotaryState tracks recent confirmed encoder steps for fast-spin detection.
// The reducer applies the scaling policy; input sources only report steps.
type RotaryState struct {
	RecentSteps []RotaryStep
}

// RotaryStep is one confirmed step at a given time. Direction is -1 or +1.
type RotaryStep struct {
	At        time.Time
	Direction int
}

// PlayingState is the reducer's playback intent. Asset is empty when nothing
// should be sounding. Alive mirrors the engine's liveness as of the last
// PlaybackServiced event.
type PlayingState struct {
	Asset string
	Loop  bool
	Alive bool
}

// VisualKind enumerates the light signal patterns.
type VisualKind uint8

const (
	VisualOff VisualKind = iota
	VisualSolid
	VisualFlash
)

// VisualState is the tick-driven light signal. Solid holds a color; Flash
// alternates the color with off for FlashesLeft cycles, advancing on the
// wall-clock timestamps carried by InputSample events.
type VisualState struct {
	Kind  VisualKind
	Color RGB

	FlashesLeft int
	PhaseOn     bool
	NextPhaseAt time.Time
}

// NewDeviceState builds the state for a fresh session. Tracks is the sorted
// bundled track list from the playback registry.
func NewDeviceState(cfg *Config, tracks []string, bootCount int) *DeviceState {
	return &DeviceState{
		Mode:       ModeDetection,
		Volume:     cfg.Volume.Initial,
		Rotary:     RotaryState{RecentSteps: make([]RotaryStep, 0, rotaryRecentStepCapacity)},
		Counters:   make(map[string]int),
		Tracks:     tracks,
		TrackIndex: -1,
		BootCount:  bootCount,
	}
}

// ResetCounters clears every repeat counter. Single-owner: loop goroutine
// only.
func (s *DeviceState) ResetCounters() {
	for k := range s.Counters {
		delete(s.Counters, k)
	}
}

// Snapshot is an immutable copy of the interesting state, safe to hand to
// other goroutines and to serialize over IPC.
type Snapshot struct {
	At        time.Time                          `json:"at"`
	Mode      string                             `json:"mode"`
	Sensing   bool                               `json:"sensing"`
	Volume    int                                `json:"volume"`
	BootCount int                                `json:"boot_count"`
	Playing   string                             `json:"playing,omitempty"`
	Track     string                             `json:"track,omitempty"`
	Counters  map[string]int                     `json:"counters,omitempty"`
	Grid      [ThemeCount][ElementsPerTheme]bool `json:"grid"`
}

// Snapshot copies the state for cross-goroutine readers. Single-owner: loop
// goroutine only.
func (s *DeviceState) Snapshot(now time.Time) *Snapshot {
	snap := &Snapshot{
		At:        now,
		Mode:      s.Mode.String(),
		Sensing:   s.Sensing,
		Volume:    s.Volume,
		BootCount: s.BootCount,
		Playing:   s.Playing.Asset,
		Grid:      s.Grid.Rows,
	}
	if s.TrackIndex >= 0 && s.TrackIndex < len(s.Tracks) {
		snap.Track = s.Tracks[s.TrackIndex]
	}
	if len(s.Counters) > 0 {
		snap.Counters = make(map[string]int, len(s.Counters))
		for k, v := range s.Counters {
			snap.Counters[k] = v
		}
	}
	return snap
}
