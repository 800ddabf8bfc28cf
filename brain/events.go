package brain

import (
	"encoding/json"
	"fmt"
	"time"
)

// This file defines the inputs to the reducer:
//
//   - InputSample: one per-tick observation of the raw input lines
//   - Injected events: button/rotation/color injections from the IPC surface
//   - Peripheral observations: playback liveness and failures
//
// The reducer never reads clocks or hardware; everything it needs to know
// about the outside world arrives as one of these events, stamped by the
// loop (or by the IPC layer) with the time it was observed.

// Event is the input to the reducer.
type Event interface {
	eventMarker()
}

// InputSample carries the state of the three input lines as sampled at the
// top of a tick: the two quadrature phases of the encoder and the button
// level (true = pressed). The loop emits exactly one per tick.
type InputSample struct {
	At      time.Time
	PhaseA  bool
	PhaseB  bool
	Pressed bool
}

func (InputSample) eventMarker() {}

// ButtonInjected sets the virtual button level. It is merged with the
// physical line on the next InputSample, so injected presses go through the
// same arbitration as real ones.
type ButtonInjected struct {
	Down bool
	At   time.Time
}

func (ButtonInjected) eventMarker() {}

// RotateInjected carries pre-decoded rotation steps (positive = clockwise).
// Injected steps skip the quadrature decoder but follow the same routing as
// confirmed rotations: volume while the button is held, track navigation
// otherwise.
type RotateInjected struct {
	Steps int
	At    time.Time
}

func (RotateInjected) eventMarker() {}

// ColorObserved carries one normalized sensor reading. The loop emits it
// after a sensor integration completes; the IPC surface can inject one
// directly for bench testing.
type ColorObserved struct {
	Sample ColorSample
	At     time.Time
}

func (ColorObserved) eventMarker() {}

// PlaybackServiced reports whether the playback engine is actively producing
// sound. The loop emits one per tick so the reducer can re-issue looping
// assets that drained naturally and forget assets that finished.
type PlaybackServiced struct {
	Active bool
	At     time.Time
}

func (PlaybackServiced) eventMarker() {}

// PlaybackFailed is emitted when executing a play command fails (asset
// missing, decode error). The reducer drops the playing intent so a dead
// asset is not re-requested forever.
type PlaybackFailed struct {
	Asset string
	Err   error
	At    time.Time
}

func (PlaybackFailed) eventMarker() {}

// ==============================
// Event JSON envelope (IPC)
// ==============================
//
// Injected events travel over the IPC socket as line-delimited JSON:
//
//   {"type": "press"}
//   {"type": "rotate", "data": {"steps": -2}}
//   {"type": "sense", "data": {"r": 140, "g": 60, "b": 50, "ambient": 900}}
//
// Only injectable event types have wire representations; loop-internal
// events (InputSample, PlaybackServiced, ...) are never marshaled.

type eventEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type rotatePayload struct {
	Steps int `json:"steps"`
}

type sensePayload struct {
	R       int `json:"r"`
	G       int `json:"g"`
	B       int `json:"b"`
	Ambient int `json:"ambient"`
}

// UnmarshalEvent parses an injected event from its JSON envelope.
// Timestamps are assigned here; clients do not send them.
func UnmarshalEvent(data []byte) (Event, error) {
	var env eventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse event envelope: %w", err)
	}

	now := time.Now()

	switch env.Type {
	case "press":
		return ButtonInjected{Down: true, At: now}, nil

	case "release":
		return ButtonInjected{Down: false, At: now}, nil

	case "rotate":
		var p rotatePayload
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &p); err != nil {
				return nil, fmt.Errorf("parse rotate payload: %w", err)
			}
		}
		if p.Steps == 0 {
			return nil, fmt.Errorf("rotate event requires non-zero steps")
		}
		return RotateInjected{Steps: p.Steps, At: now}, nil

	case "sense":
		var p sensePayload
		if len(env.Data) == 0 {
			return nil, fmt.Errorf("sense event requires a payload")
		}
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("parse sense payload: %w", err)
		}
		return ColorObserved{
			Sample: ColorSample{R: p.R, G: p.G, B: p.B, Ambient: p.Ambient},
			At:     now,
		}, nil

	default:
		return nil, fmt.Errorf("unknown event type: %q", env.Type)
	}
}

// MarshalEvent encodes an injectable event into its JSON envelope.
// Used by IPC clients (huectl) and tests.
func MarshalEvent(ev Event) ([]byte, error) {
	switch e := ev.(type) {
	case ButtonInjected:
		if e.Down {
			return json.Marshal(eventEnvelope{Type: "press"})
		}
		return json.Marshal(eventEnvelope{Type: "release"})

	case RotateInjected:
		data, err := json.Marshal(rotatePayload{Steps: e.Steps})
		if err != nil {
			return nil, err
		}
		return json.Marshal(eventEnvelope{Type: "rotate", Data: data})

	case ColorObserved:
		data, err := json.Marshal(sensePayload{
			R:       e.Sample.R,
			G:       e.Sample.G,
			B:       e.Sample.B,
			Ambient: e.Sample.Ambient,
		})
		if err != nil {
			return nil, err
		}
		return json.Marshal(eventEnvelope{Type: "sense", Data: data})

	default:
		return nil, fmt.Errorf("event type %T has no wire representation", ev)
	}
}
