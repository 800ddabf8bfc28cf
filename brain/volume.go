package brain

import (
	"math"
	"time"
)

// Volume handling: integer level stepping with fast-spin scaling, and the
// mapping from level to playback gain.

// AddStep records a confirmed encoder step and returns the count of recent
// steps in the same direction within the fast-spin window.
//
// The count is what the reducer uses to decide whether the user is "fast
// spinning" and the per-step delta should be scaled up.
func (r *RotaryState) AddStep(now time.Time, direction int, window time.Duration) int {
	cutoff := now.Add(-window)

	// Drop steps outside the window, reusing the underlying array.
	filtered := r.RecentSteps[:0]
	for _, s := range r.RecentSteps {
		if s.At.After(cutoff) {
			filtered = append(filtered, s)
		}
	}

	filtered = append(filtered, RotaryStep{At: now, Direction: direction})
	r.RecentSteps = filtered

	sameDir := 0
	for _, s := range filtered {
		if s.Direction == direction {
			sameDir++
		}
	}
	return sameDir
}

// Reset drops the recent-step history (used when a session ends so a stale
// burst does not scale the next adjustment).
func (r *RotaryState) Reset() {
	r.RecentSteps = r.RecentSteps[:0]
}

// scaledVolumeDelta applies the fast-spin policy to one confirmed step.
func scaledVolumeDelta(s *DeviceState, direction int, now time.Time, cfg *Config) int {
	window := time.Duration(cfg.Rotary.FastWindowMS) * time.Millisecond
	count := s.Rotary.AddStep(now, direction, window)

	delta := direction
	if count >= cfg.Rotary.FastThreshold && cfg.Rotary.FastMultiplier > 1 {
		delta *= cfg.Rotary.FastMultiplier
	}
	return delta
}

// clampVolume saturates a level into the configured inclusive bounds.
func clampVolume(level int, cfg *Config) int {
	if level < cfg.Volume.Min {
		return cfg.Volume.Min
	}
	if level > cfg.Volume.Max {
		return cfg.Volume.Max
	}
	return level
}

// LevelToDB maps an integer volume level to playback gain in dB, silent
// reporting whether the level means hard mute.
//
// Uses a logarithmic curve between the configured floor and 0 dB so each
// step sounds roughly even to the ear:
//   - level == min maps to silence
//   - level == max maps to 0 dB
func LevelToDB(level int, cfg *Config) (db float64, silent bool) {
	if level <= cfg.Volume.Min {
		return cfg.Audio.FloorDB, true
	}
	if level >= cfg.Volume.Max {
		return 0, false
	}

	span := cfg.Volume.Max - cfg.Volume.Min
	normalized := float64(level-cfg.Volume.Min) / float64(span)

	logValue := math.Log10(1.0 + 9.0*normalized)
	return cfg.Audio.FloorDB * (1.0 - logValue), false
}
