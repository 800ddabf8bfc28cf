package brain

import (
	"testing"
	"time"
)

var rotaryBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// TestRotaryState_AddStep_Basic verifies the same-direction count grows
// for a burst inside the window.
func TestRotaryState_AddStep_Basic(t *testing.T) {
	var r RotaryState
	window := 200 * time.Millisecond

	for i := 1; i <= 4; i++ {
		count := r.AddStep(rotaryBase.Add(time.Duration(i*20)*time.Millisecond), 1, window)
		if count != i {
			t.Errorf("step %d: expected count %d, got %d", i, i, count)
		}
	}
}

// TestRotaryState_AddStep_DirectionChange verifies a reversal counts only
// its own direction.
func TestRotaryState_AddStep_DirectionChange(t *testing.T) {
	var r RotaryState
	window := 200 * time.Millisecond

	r.AddStep(rotaryBase, 1, window)
	r.AddStep(rotaryBase.Add(20*time.Millisecond), 1, window)

	count := r.AddStep(rotaryBase.Add(40*time.Millisecond), -1, window)
	if count != 1 {
		t.Errorf("expected reversal to count 1, got %d", count)
	}

	count = r.AddStep(rotaryBase.Add(60*time.Millisecond), -1, window)
	if count != 2 {
		t.Errorf("expected second reversal step to count 2, got %d", count)
	}
}

// TestRotaryState_AddStep_WindowExpiry verifies old steps age out of the
// count.
func TestRotaryState_AddStep_WindowExpiry(t *testing.T) {
	var r RotaryState
	window := 200 * time.Millisecond

	r.AddStep(rotaryBase, 1, window)
	r.AddStep(rotaryBase.Add(50*time.Millisecond), 1, window)

	// 300ms later both prior steps are outside the window.
	count := r.AddStep(rotaryBase.Add(350*time.Millisecond), 1, window)
	if count != 1 {
		t.Errorf("expected stale steps dropped, got count %d", count)
	}
}

// TestRotaryState_Reset verifies a reset empties the burst history.
func TestRotaryState_Reset(t *testing.T) {
	var r RotaryState
	window := 200 * time.Millisecond

	r.AddStep(rotaryBase, 1, window)
	r.AddStep(rotaryBase.Add(10*time.Millisecond), 1, window)
	r.Reset()

	count := r.AddStep(rotaryBase.Add(20*time.Millisecond), 1, window)
	if count != 1 {
		t.Errorf("expected fresh count after reset, got %d", count)
	}
}

// TestScaledVolumeDelta_FastSpin verifies slow steps move one level and a
// burst at the threshold moves by the multiplier.
func TestScaledVolumeDelta_FastSpin(t *testing.T) {
	cfg := testConfig()
	s := newTestState(cfg)

	// Three quick steps stay unscaled.
	for i := 0; i < 3; i++ {
		d := scaledVolumeDelta(s, 1, rotaryBase.Add(time.Duration(i*20)*time.Millisecond), cfg)
		if d != 1 {
			t.Fatalf("step %d: expected unscaled delta 1, got %d", i+1, d)
		}
	}

	// Fourth step inside the window crosses the threshold.
	d := scaledVolumeDelta(s, 1, rotaryBase.Add(60*time.Millisecond), cfg)
	if d != cfg.Rotary.FastMultiplier {
		t.Errorf("expected scaled delta %d, got %d", cfg.Rotary.FastMultiplier, d)
	}

	// Downward burst scales negative.
	s.Rotary.Reset()
	for i := 0; i < 3; i++ {
		scaledVolumeDelta(s, -1, rotaryBase.Add(time.Duration(500+i*20)*time.Millisecond), cfg)
	}
	d = scaledVolumeDelta(s, -1, rotaryBase.Add(560*time.Millisecond), cfg)
	if d != -cfg.Rotary.FastMultiplier {
		t.Errorf("expected scaled delta %d, got %d", -cfg.Rotary.FastMultiplier, d)
	}
}

// TestClampVolume verifies saturation at both bounds.
func TestClampVolume(t *testing.T) {
	cfg := testConfig()

	if got := clampVolume(-2, cfg); got != cfg.Volume.Min {
		t.Errorf("expected clamp to min %d, got %d", cfg.Volume.Min, got)
	}
	if got := clampVolume(99, cfg); got != cfg.Volume.Max {
		t.Errorf("expected clamp to max %d, got %d", cfg.Volume.Max, got)
	}
	if got := clampVolume(7, cfg); got != 7 {
		t.Errorf("expected in-range level untouched, got %d", got)
	}
}

// TestLevelToDB_Endpoints verifies the min level is hard silence and the
// max level is unity gain.
func TestLevelToDB_Endpoints(t *testing.T) {
	cfg := testConfig()

	db, silent := LevelToDB(cfg.Volume.Min, cfg)
	if !silent {
		t.Errorf("expected min level silent")
	}
	if db != cfg.Audio.FloorDB {
		t.Errorf("expected floor gain at min level, got %f", db)
	}

	db, silent = LevelToDB(cfg.Volume.Max, cfg)
	if silent {
		t.Errorf("expected max level audible")
	}
	if db != 0 {
		t.Errorf("expected 0 dB at max level, got %f", db)
	}
}

// TestLevelToDB_MonotonicAndAudible verifies intermediate levels rise
// strictly toward 0 dB and never report silence.
func TestLevelToDB_MonotonicAndAudible(t *testing.T) {
	cfg := testConfig()

	prev := cfg.Audio.FloorDB
	for level := cfg.Volume.Min + 1; level < cfg.Volume.Max; level++ {
		db, silent := LevelToDB(level, cfg)
		if silent {
			t.Errorf("level %d: expected audible", level)
		}
		if db <= prev {
			t.Errorf("level %d: expected gain above %f, got %f", level, prev, db)
		}
		if db >= 0 {
			t.Errorf("level %d: expected gain below 0 dB, got %f", level, db)
		}
		prev = db
	}
}

// TestLevelToDB_PerceptualShape verifies the log curve spends more of its
// range on the quiet low levels than a linear ramp would.
func TestLevelToDB_PerceptualShape(t *testing.T) {
	cfg := testConfig()

	mid := (cfg.Volume.Min + cfg.Volume.Max) / 2
	db, _ := LevelToDB(mid, cfg)
	linear := cfg.Audio.FloorDB / 2

	// The log curve is closer to 0 dB at the midpoint than linear.
	if db <= linear {
		t.Errorf("expected log curve above linear midpoint %f, got %f", linear, db)
	}
}
