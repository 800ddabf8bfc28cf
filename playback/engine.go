package playback

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// Engine plays registry assets through the default audio device.
//
// One asset sounds at a time: a new Play replaces whatever was sounding.
// The engine always plays a single pass of the asset and reports liveness
// through Active(); the control loop owns the continuation policy and
// re-requests looping assets when they drain. The loop flag on Play is that
// caller-side intent and does not change what the engine streams.
//
// A machine without a usable audio device is not fatal: Start falls back to
// silent mode, where liveness is simulated from asset durations so the
// interaction model behaves identically, just mute.

// speakerBuffer is the device buffer length. Short enough that a detection
// answer feels immediate.
const speakerBuffer = 50 * time.Millisecond

// dbPerOctave converts between dB and the doubling exponent used by the
// volume effect (20 * log10(2)).
const dbPerOctave = 6.020599913279624

type Engine struct {
	reg    *Registry
	logger *slog.Logger

	mixer *beep.Mixer
	vol   *effects.Volume

	// playGen invalidates the drain callbacks of replaced streams. The
	// callbacks run on the speaker goroutine and must only touch atomics.
	playGen atomic.Int64
	live    atomic.Bool

	mu          sync.Mutex
	started     bool
	silent      bool
	current     *beep.Ctrl
	silentUntil time.Time
}

// NewEngine wraps a loaded registry. Call Start before Play.
func NewEngine(reg *Registry, logger *slog.Logger) *Engine {
	mixer := &beep.Mixer{}
	return &Engine{
		reg:    reg,
		logger: logger,
		mixer:  mixer,
		vol:    &effects.Volume{Streamer: mixer, Base: 2},
	}
}

// Start opens the default audio device and begins streaming the mixer.
// Device failures degrade to silent mode rather than erroring.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return errors.New("playback engine already started")
	}

	if err := speaker.Init(engineRate, engineRate.N(speakerBuffer)); err != nil {
		e.logger.Warn("audio device unavailable, running silent", "error", err)
		e.silent = true
		e.started = true
		return nil
	}

	speaker.Play(e.vol)
	e.started = true
	return nil
}

// StartSilent forces silent mode without touching the audio device. Used by
// the terminal rig and by tests.
func (e *Engine) StartSilent() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.silent = true
	e.started = true
}

// Silent reports whether the engine ended up in silent mode. The daemon
// checks it after Start to signal a degraded boot.
func (e *Engine) Silent() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.silent
}

// Close stops playback and detaches everything from the speaker. The device
// itself stays open (the underlying context cannot be reopened in-process).
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return
	}
	e.playGen.Add(1)
	e.live.Store(false)
	if !e.silent {
		speaker.Lock()
		e.mixer.Clear()
		speaker.Unlock()
	}
	e.current = nil
	e.started = false
}

// Play starts a single pass of the named asset, replacing any current
// playback.
func (e *Engine) Play(name string, loop bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return errors.New("playback engine not started")
	}
	buf, ok := e.reg.buffer(name)
	if !ok {
		return fmt.Errorf("unknown asset %q", name)
	}

	gen := e.playGen.Add(1)

	if e.silent {
		e.live.Store(true)
		e.silentUntil = time.Now().Add(e.reg.Duration(name))
		return nil
	}

	drained := beep.Callback(func() {
		// Runs on the speaker goroutine: atomics only.
		if e.playGen.Load() == gen {
			e.live.Store(false)
		}
	})
	ctrl := &beep.Ctrl{Streamer: beep.Seq(buf.Streamer(0, buf.Len()), drained)}

	e.live.Store(true)
	speaker.Lock()
	if e.current != nil {
		e.current.Streamer = nil
	}
	e.current = ctrl
	e.mixer.Add(ctrl)
	speaker.Unlock()

	e.logger.Debug("asset playing", "asset", name, "loop", loop)
	return nil
}

// Stop halts the current playback, if any.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.playGen.Add(1)
	e.live.Store(false)
	e.silentUntil = time.Time{}

	if e.silent || e.current == nil {
		e.current = nil
		return
	}
	speaker.Lock()
	e.current.Streamer = nil
	speaker.Unlock()
	e.current = nil
}

// Active reports whether an asset is still sounding (or, in silent mode,
// would still be sounding).
func (e *Engine) Active() bool {
	e.mu.Lock()
	silent := e.silent
	until := e.silentUntil
	e.mu.Unlock()

	if silent {
		return time.Now().Before(until)
	}
	return e.live.Load()
}

// SetVolume applies the playback gain. silent means hard mute regardless of
// the dB value.
func (e *Engine) SetVolume(db float64, silent bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.silent {
		return
	}
	speaker.Lock()
	e.vol.Volume = db / dbPerOctave
	e.vol.Silent = silent
	speaker.Unlock()
}

// Tracks exposes the registry's music tracks for the control loop.
func (e *Engine) Tracks() []string {
	return e.reg.Tracks()
}
