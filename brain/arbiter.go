package brain

import "time"

// Button arbitration.
//
// The button is one physical control with four meanings, disambiguated by
// hold duration and by whether the encoder moved during the hold:
//
//   - short press, no rotation        -> toggle sensing
//   - hold past mode-switch deadline  -> switch mode (fires mid-hold)
//   - hold past sleep deadline        -> sleep (terminal)
//   - any press during which rotation
//     was routed to volume           -> nothing else; the press was a
//                                      volume gesture
//
// stepButton advances one tick of that disambiguation. It is pure: the
// caller owns the state and applies the returned intents.

type intentKind uint8

const (
	intentToggleSensing intentKind = iota
	intentModeSwitch
	intentSleep
)

// intent is one arbitrated button outcome for this tick.
type intent struct {
	kind intentKind
}

// stepButton advances the button session with the effective pressed level
// for this tick and returns any intents that fired.
func stepButton(bs ButtonState, pressed bool, now time.Time, cfg *Config) (ButtonState, []intent) {
	var intents []intent

	switch {
	case pressed && !bs.Pressed:
		// Press edge: open a session, stamp both deadlines.
		bs = ButtonState{
			Pressed:      true,
			PressedAt:    now,
			ModeSwitchAt: now.Add(time.Duration(cfg.Timing.ModeSwitchHoldMS) * time.Millisecond),
			SleepAt:      now.Add(time.Duration(cfg.Timing.SleepHoldMS) * time.Millisecond),
		}

	case pressed && bs.Pressed:
		// Mid-hold: check deadlines. Sleep dominates and is terminal;
		// checking it first means a tick that crosses both deadlines at
		// once (stalled loop) still sleeps rather than switching mode.
		if !bs.SleepFired && !now.Before(bs.SleepAt) {
			bs.SleepFired = true
			intents = append(intents, intent{kind: intentSleep})
			break
		}
		if !bs.ModeSwitchFired && !bs.VolumeAdjusted && !bs.SleepFired && !now.Before(bs.ModeSwitchAt) {
			bs.ModeSwitchFired = true
			intents = append(intents, intent{kind: intentModeSwitch})
		}

	case !pressed && bs.Pressed:
		// Release edge. A short press that adjusted nothing toggles
		// sensing; everything else already had its effect mid-hold.
		if !bs.SleepFired && !bs.ModeSwitchFired && !bs.VolumeAdjusted && now.Before(bs.ModeSwitchAt) {
			intents = append(intents, intent{kind: intentToggleSensing})
		}
		bs = ButtonState{}
	}

	return bs, intents
}
