package brain

import "time"

// The pure reducer: computes next state + commands, without performing I/O.
//
// Rules:
//   - Must not perform I/O
//   - Must not block
//   - Must not read clocks (time arrives inside events)
//   - Must not mutate anything outside the returned state
//
// The loop is responsible for executing Commands against the peripheral
// ports and feeding observations back as Events.

// ReduceResult is the output of Reduce(): next state plus commands to
// execute, in order.
type ReduceResult struct {
	State    *DeviceState
	Commands []Command
}

// Reduce applies one event to the device state.
func Reduce(s *DeviceState, e Event, cfg *Config) ReduceResult {
	if s == nil {
		s = &DeviceState{Counters: make(map[string]int), TrackIndex: -1}
	}

	var cmds []Command

	switch ev := e.(type) {
	case InputSample:
		// Advance any tick-driven light pattern first so a flash keeps
		// its cadence regardless of what else this tick does.
		cmds = append(cmds, stepVisual(s, ev.At)...)

		var dir int8
		s.Encoder, dir = s.Encoder.Step(ev.PhaseA, ev.PhaseB)

		// Button arbitration on the merged physical+virtual level.
		effPressed := ev.Pressed || s.VirtualButton
		prevPressed := s.Button.Pressed

		var intents []intent
		s.Button, intents = stepButton(s.Button, effPressed, ev.At, cfg)

		// A volume adjustment injected between the IPC press and the tick
		// that opened the session belongs to that session.
		if s.Button.Pressed && !prevPressed && s.PendingVolumeAdjusted {
			s.Button.VolumeAdjusted = true
		}
		if s.Button.Pressed != prevPressed {
			s.PendingVolumeAdjusted = false
		}
		if prevPressed && !s.Button.Pressed {
			s.Rotary.Reset()
		}

		for _, it := range intents {
			switch it.kind {
			case intentToggleSensing:
				cmds = append(cmds, applyToggleSensing(s)...)
			case intentModeSwitch:
				cmds = append(cmds, applyModeSwitch(s)...)
			case intentSleep:
				cmds = append(cmds, CmdSleep{})
			}
		}

		if dir != DirNone {
			cmds = append(cmds, routeRotation(s, int(dir), ev.At, true, cfg)...)
		}

	case ButtonInjected:
		s.VirtualButton = ev.Down

	case RotateInjected:
		// Injected steps are already aggregated; no fast-spin scaling.
		cmds = append(cmds, routeRotation(s, ev.Steps, ev.At, false, cfg)...)

	case ColorObserved:
		cmds = append(cmds, classifyObservation(s, ev)...)

	case PlaybackServiced:
		if s.Playing.Asset != "" {
			s.Playing.Alive = ev.Active
			if !ev.Active {
				if s.Playing.Loop {
					// Looping asset drained naturally: re-issue.
					s.Playing.Alive = true
					cmds = append(cmds, CmdPlay{Asset: s.Playing.Asset, Loop: true})
				} else {
					s.Playing = PlayingState{}
				}
			}
		}

	case PlaybackFailed:
		if ev.Asset == s.Playing.Asset {
			s.Playing = PlayingState{}
		}

	default:
		// Unknown event type: no-op.
	}

	return ReduceResult{
		State:    s,
		Commands: cmds,
	}
}

// applyToggleSensing flips the sensing sub-state.
func applyToggleSensing(s *DeviceState) []Command {
	var cmds []Command

	if s.Sensing {
		s.Sensing = false
		if s.Mode == ModeDetection {
			// One goodbye pass: the loop senses once more and the
			// sensor powers down after that observation is reduced.
			s.FinalPassPending = true
		} else {
			cmds = append(cmds, CmdSensorActive{On: false})
			cmds = append(cmds, setVisualOff(s)...)
		}
		return cmds
	}

	s.Sensing = true
	s.FinalPassPending = false
	if s.Mode == ModeCollection {
		// Re-arming sensing in Collection starts the hunt over.
		s.Grid.Reset()
	}
	cmds = append(cmds, CmdSensorActive{On: true})
	return cmds
}

// applyModeSwitch toggles Detection/Collection and clears everything the
// modes accumulate: repeat counters, collection progress, playback, lights.
func applyModeSwitch(s *DeviceState) []Command {
	var cmds []Command

	if s.Mode == ModeDetection {
		s.Mode = ModeCollection
	} else {
		s.Mode = ModeDetection
	}

	s.ResetCounters()
	s.Grid.Reset()

	wasSensing := s.Sensing || s.FinalPassPending
	s.Sensing = false
	s.FinalPassPending = false

	s.Playing = PlayingState{}
	cmds = append(cmds, CmdStopPlayback{})

	if wasSensing {
		cmds = append(cmds, CmdSensorActive{On: false})
	}
	cmds = append(cmds, setVisualOff(s)...)
	return cmds
}

// routeRotation directs rotation steps by button context: volume while the
// button is down (physically or virtually), track navigation otherwise.
// scaled selects the fast-spin policy, which only applies to single decoder
// steps.
func routeRotation(s *DeviceState, steps int, at time.Time, scaled bool, cfg *Config) []Command {
	if steps == 0 {
		return nil
	}

	if s.Button.Pressed || s.VirtualButton {
		// Mark the gesture even if the level saturates: the user meant
		// volume, so the press must not also toggle or switch modes.
		if s.Button.Pressed {
			s.Button.VolumeAdjusted = true
		} else {
			s.PendingVolumeAdjusted = true
		}

		delta := steps
		if scaled {
			direction := 1
			if steps < 0 {
				direction = -1
			}
			delta = scaledVolumeDelta(s, direction, at, cfg)
		}

		next := clampVolume(s.Volume+delta, cfg)
		if next == s.Volume {
			return nil
		}
		s.Volume = next
		return []Command{CmdSetVolume{Level: next}}
	}

	// Track navigation.
	n := len(s.Tracks)
	if n == 0 {
		return nil
	}
	idx := s.TrackIndex
	if idx < 0 {
		// No track selected yet: clockwise starts at the first track,
		// counter-clockwise at the last.
		if steps > 0 {
			idx = steps - 1
		} else {
			idx = steps
		}
	} else {
		idx += steps
	}
	idx = (idx%n + n) % n
	s.TrackIndex = idx
	return playAsset(s, s.Tracks[idx], true)
}

// classifyObservation runs one normalized reading through the active mode.
func classifyObservation(s *DeviceState, ev ColorObserved) []Command {
	var cmds []Command

	finalPass := s.FinalPassPending
	if finalPass {
		s.FinalPassPending = false
	}

	switch s.Mode {
	case ModeDetection:
		rule := MatchTable(DetectionTable, ev.Sample)
		if rule != nil {
			family := Family(rule.Identity)
			s.Counters[family]++

			asset := rule.Identity
			if s.Counters[family] >= RepeatTripThreshold {
				s.Counters[family] = 0
				asset = SpecialAsset(family)
			}

			cmds = append(cmds, playAsset(s, asset, false)...)
			if finalPass {
				// Goodbye answer: a self-terminating double flash
				// instead of a solid that nothing would ever clear.
				cmds = append(cmds, setVisualFlash(s, rule.Display, 2, ev.At)...)
			} else {
				cmds = append(cmds, setVisualSolid(s, rule.Display)...)
			}
		} else if finalPass {
			cmds = append(cmds, setVisualOff(s)...)
		}

	case ModeCollection:
		sensorOff := false

		for t := range CollectionTables {
			rule := MatchTable(CollectionTables[t], ev.Sample)
			if rule == nil {
				continue
			}
			if s.Grid.Mark(t, rule.Element) {
				cmds = append(cmds, playAsset(s, rule.Identity, false)...)
			}
			cmds = append(cmds, setVisualSolid(s, rule.Display)...)
		}

		// Completions resolve in theme order; each one answers, blanks
		// its row, and sends sensing back to idle.
		for t := range ThemeNames {
			if !s.Grid.RowComplete(t) {
				continue
			}
			cmds = append(cmds, playAsset(s, CompleteAsset(ThemeNames[t]), false)...)
			cmds = append(cmds, setVisualFlash(s, colorComplete, completionFlashCount, ev.At)...)
			s.Grid.ResetRow(t)
			if s.Sensing {
				s.Sensing = false
				sensorOff = true
			}
		}
		if sensorOff {
			cmds = append(cmds, CmdSensorActive{On: false})
		}
	}

	if finalPass {
		cmds = append(cmds, CmdSensorActive{On: false})
	}

	return cmds
}

// playAsset applies the newest-wins playback policy.
//
// A request for the asset that is currently and audibly playing refreshes
// the looping intent without restarting the stream (a steady color held
// across ticks sustains its note instead of stuttering). Anything else
// replaces the current playback.
func playAsset(s *DeviceState, asset string, loop bool) []Command {
	if s.Playing.Asset == asset && s.Playing.Alive {
		s.Playing.Loop = loop
		return nil
	}
	s.Playing = PlayingState{Asset: asset, Loop: loop, Alive: true}
	return []Command{CmdPlay{Asset: asset, Loop: loop}}
}
