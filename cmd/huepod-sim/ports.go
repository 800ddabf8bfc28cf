package main

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"huepod/brain"
	"huepod/inputdev"
)

// simInput feeds the loop from the keyboard. Rotation goes through the
// same quadrature synthesizer the evdev backend uses, so the decoder
// sees realistic phase transitions instead of pre-cooked steps.
type simInput struct {
	synth   inputdev.QuadSynth
	pressed atomic.Bool
	wakec   chan struct{}
}

func newSimInput() *simInput {
	return &simInput{wakec: make(chan struct{}, 1)}
}

func (s *simInput) Sample() (bool, bool, bool) {
	a, b := s.synth.Phases()
	return a, b, s.pressed.Load()
}

func (s *simInput) setPressed(down bool) {
	s.pressed.Store(down)
	if down {
		select {
		case s.wakec <- struct{}{}:
		default:
		}
	}
}

func (s *simInput) rotate(steps int) {
	s.synth.Queue(steps)
}

func (s *simInput) Await(ctx context.Context) error {
	select {
	case <-s.wakec:
	default:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.wakec:
		return nil
	}
}

// simSensor returns whatever surface the keyboard selected last. The
// wait stands in for the hardware integration window.
type simSensor struct {
	wait time.Duration

	mu     sync.Mutex
	sample brain.ColorSample
}

func (s *simSensor) set(sample brain.ColorSample) {
	s.mu.Lock()
	s.sample = sample
	s.mu.Unlock()
}

func (s *simSensor) Sense(ctx context.Context) (brain.ColorSample, error) {
	t := time.NewTimer(s.wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return brain.ColorSample{}, ctx.Err()
	case <-t.C:
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sample, nil
}

func (s *simSensor) SetActive(on bool) error { return nil }

// simLights remembers the last frame so the UI can render the ring.
type simLights struct {
	mu         sync.Mutex
	color      brain.RGB
	brightness float64
}

func (l *simLights) Fill(c brain.RGB) {
	l.mu.Lock()
	l.color = c
	l.mu.Unlock()
}

func (l *simLights) Off() {
	l.Fill(brain.RGB{})
}

func (l *simLights) SetBrightness(b float64) {
	if b < 0 {
		b = 0
	} else if b > 1 {
		b = 1
	}
	l.mu.Lock()
	l.brightness = b
	l.mu.Unlock()
}

func (l *simLights) state() (brain.RGB, float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color, l.brightness
}

// simAssetDuration is how long one pass of an asset counts as playing.
const simAssetDuration = 1200 * time.Millisecond

// simPlayer mimics the audio engine's liveness contract without a sound
// device. Like the engine it plays a single pass per request and drains;
// looping is the control loop's business, not the player's.
type simPlayer struct {
	mu      sync.Mutex
	asset   string
	loop    bool
	until   time.Time
	gainDB  float64
	history []string
}

func newSimPlayer() *simPlayer {
	return &simPlayer{}
}

func (p *simPlayer) Play(asset string, loop bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.asset = asset
	p.loop = loop
	p.until = time.Now().Add(simAssetDuration)
	if n := len(p.history); n == 0 || p.history[n-1] != asset {
		p.history = append(p.history, asset)
		if len(p.history) > 5 {
			p.history = p.history[1:]
		}
	}
	return nil
}

func (p *simPlayer) Stop() {
	p.mu.Lock()
	p.asset = ""
	p.loop = false
	p.until = time.Time{}
	p.mu.Unlock()
}

func (p *simPlayer) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.asset != "" && time.Now().Before(p.until)
}

func (p *simPlayer) SetVolume(db float64, silent bool) {
	p.mu.Lock()
	p.gainDB = db
	p.mu.Unlock()
}

func (p *simPlayer) Tracks() []string {
	return []string{"track-01", "track-02", "track-03"}
}

func (p *simPlayer) state() (asset string, gainDB float64, recent []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	recent = make([]string, len(p.history))
	copy(recent, p.history)
	return p.asset, p.gainDB, recent
}
