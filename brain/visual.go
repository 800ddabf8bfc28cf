package brain

import "time"

// Tick-driven light signals.
//
// The reducer never blocks, so multi-phase signals (flashes) are modeled as
// state advanced by the wall-clock timestamps on InputSample events. Helpers
// emit light commands only when the physical output actually changes.

// setVisualSolid holds a color on the ring.
func setVisualSolid(s *DeviceState, c RGB) []Command {
	if s.Visual.Kind == VisualSolid && s.Visual.Color == c {
		return nil
	}
	s.Visual = VisualState{Kind: VisualSolid, Color: c}
	return []Command{CmdLights{Color: c}}
}

// setVisualOff blanks the ring.
func setVisualOff(s *DeviceState) []Command {
	if s.Visual.Kind == VisualOff {
		return nil
	}
	s.Visual = VisualState{}
	return []Command{CmdLightsOff{}}
}

// setVisualFlash starts a flash pattern: count on/off cycles of the color,
// beginning with an on phase right now.
func setVisualFlash(s *DeviceState, c RGB, count int, now time.Time) []Command {
	s.Visual = VisualState{
		Kind:        VisualFlash,
		Color:       c,
		FlashesLeft: count,
		PhaseOn:     true,
		NextPhaseAt: now.Add(flashOnMS * time.Millisecond),
	}
	return []Command{CmdLights{Color: c}}
}

// stepVisual advances a running flash pattern. Solid and off states are
// stable and never produce commands here.
func stepVisual(s *DeviceState, now time.Time) []Command {
	if s.Visual.Kind != VisualFlash || now.Before(s.Visual.NextPhaseAt) {
		return nil
	}

	if s.Visual.PhaseOn {
		s.Visual.PhaseOn = false
		s.Visual.FlashesLeft--
		if s.Visual.FlashesLeft <= 0 {
			s.Visual = VisualState{}
			return []Command{CmdLightsOff{}}
		}
		s.Visual.NextPhaseAt = now.Add(flashOffMS * time.Millisecond)
		return []Command{CmdLightsOff{}}
	}

	s.Visual.PhaseOn = true
	s.Visual.NextPhaseAt = now.Add(flashOnMS * time.Millisecond)
	return []Command{CmdLights{Color: s.Visual.Color}}
}
