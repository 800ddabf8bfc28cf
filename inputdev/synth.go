// Package inputdev provides the input backends behind the session loop's
// per-tick line sampling: direct GPIO reads, kernel input devices (evdev),
// and a quadrature synthesizer that turns pre-counted steps back into phase
// transitions.
package inputdev

import "sync"

// quadCycle is the Gray sequence the phase pair walks through clockwise.
var quadCycle = [4][2]bool{
	{false, false},
	{false, true},
	{true, true},
	{true, false},
}

// QuadSynth converts step counts into quadrature phase transitions.
//
// Some input sources (rotary-encoder overlays, the bench simulator's
// keyboard) deliver rotation already counted in steps. Feeding those through
// the synth keeps the core decoder the single rotation authority: every
// backend looks like two phase lines.
//
// The decoder confirms a new direction only after two consecutive agreeing
// transitions, so the first step of a direction queues two transitions and
// every continuation queues one. Zero value is ready to use; safe for one
// producer and one consumer.
type QuadSynth struct {
	mu      sync.Mutex
	idx     int
	lastDir int
	queue   [][2]bool
}

// Queue appends the transitions for steps detents (negative for
// counter-clockwise).
func (q *QuadSynth) Queue(steps int) {
	if steps == 0 {
		return
	}
	dir := 1
	if steps < 0 {
		dir, steps = -1, -steps
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	for i := 0; i < steps; i++ {
		n := 1
		if dir != q.lastDir {
			n = 2
			q.lastDir = dir
		}
		for j := 0; j < n; j++ {
			q.idx = (q.idx + dir + len(quadCycle)) % len(quadCycle)
			q.queue = append(q.queue, quadCycle[q.idx])
		}
	}
}

// Phases returns the next queued phase pair, or repeats the resting pair
// when no transitions are pending. Called once per tick.
func (q *QuadSynth) Phases() (a, b bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.queue) > 0 {
		p := q.queue[0]
		q.queue = q.queue[1:]
		return p[0], p[1]
	}
	rest := quadCycle[q.idx]
	return rest[0], rest[1]
}
