package brain

import "testing"

// cwCycle is one full clockwise Gray cycle of (A, B) phase pairs starting
// from the rest position.
var cwCycle = [][2]bool{
	{false, true},
	{true, true},
	{true, false},
	{false, false},
}

// TestDecoder_FirstSampleSeedsOnly verifies the first sample never decodes.
func TestDecoder_FirstSampleSeedsOnly(t *testing.T) {
	var e EncoderState

	e, dir := e.Step(true, true)
	if dir != DirNone {
		t.Errorf("expected DirNone on seed sample, got %d", dir)
	}
	if !e.HavePrev {
		t.Errorf("expected HavePrev after seed sample")
	}
}

// TestDecoder_TwoTickConfirmation verifies a rotation only surfaces after
// two consecutive same-direction transitions.
func TestDecoder_TwoTickConfirmation(t *testing.T) {
	var e EncoderState
	e, _ = e.Step(false, false) // seed

	e, dir := e.Step(false, true)
	if dir != DirNone {
		t.Fatalf("expected DirNone on first CW transition, got %d", dir)
	}

	e, dir = e.Step(true, true)
	if dir != DirCW {
		t.Fatalf("expected DirCW on second consecutive CW transition, got %d", dir)
	}

	// Confirmed: every further CW transition is a step.
	e, dir = e.Step(true, false)
	if dir != DirCW {
		t.Errorf("expected DirCW on third transition, got %d", dir)
	}
	_, dir = e.Step(false, false)
	if dir != DirCW {
		t.Errorf("expected DirCW on fourth transition, got %d", dir)
	}
}

// TestDecoder_DirectionChangeReconfirms verifies a direction reversal is
// swallowed once and accepted after one more consistent reading.
func TestDecoder_DirectionChangeReconfirms(t *testing.T) {
	var e EncoderState
	e, _ = e.Step(false, false)
	for _, p := range cwCycle {
		e, _ = e.Step(p[0], p[1])
	}

	// Reverse: first CCW transition must not surface.
	e, dir := e.Step(true, false)
	if dir != DirNone {
		t.Fatalf("expected DirNone on first CCW transition after CW run, got %d", dir)
	}

	_, dir = e.Step(true, true)
	if dir != DirCCW {
		t.Fatalf("expected DirCCW on second consecutive CCW transition, got %d", dir)
	}
}

// TestDecoder_IdleKeepsStreak verifies an unchanged sample between two
// same-direction transitions does not restart confirmation.
func TestDecoder_IdleKeepsStreak(t *testing.T) {
	var e EncoderState
	e, _ = e.Step(false, false)

	e, _ = e.Step(false, true) // CW, streak 1
	e, dir := e.Step(false, true)
	if dir != DirNone {
		t.Fatalf("expected DirNone on idle sample, got %d", dir)
	}

	_, dir = e.Step(true, true) // CW, streak 2
	if dir != DirCW {
		t.Errorf("expected DirCW after idle gap, got %d", dir)
	}
}

// TestDecoder_IllegalTransitionIgnored verifies a double transition (both
// phases flipping between samples) decodes to nothing.
func TestDecoder_IllegalTransitionIgnored(t *testing.T) {
	var e EncoderState
	e, _ = e.Step(false, false)

	_, dir := e.Step(true, true)
	if dir != DirNone {
		t.Errorf("expected DirNone on illegal double transition, got %d", dir)
	}
}

// TestDecoder_FullCycleStepCount verifies a steady clockwise cycle yields
// steps on every transition after confirmation.
func TestDecoder_FullCycleStepCount(t *testing.T) {
	var e EncoderState
	e, _ = e.Step(false, false)

	steps := 0
	for cycle := 0; cycle < 3; cycle++ {
		for _, p := range cwCycle {
			var dir int8
			e, dir = e.Step(p[0], p[1])
			if dir == DirCW {
				steps++
			} else if dir == DirCCW {
				t.Fatalf("unexpected CCW step during CW run")
			}
		}
	}

	// 12 transitions, the first swallowed by confirmation.
	if steps != 11 {
		t.Errorf("expected 11 confirmed steps over 3 cycles, got %d", steps)
	}
}
