package brain

import (
	"testing"
	"time"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	return &cfg
}

var arbiterBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// TestArbiter_ShortPressToggles verifies a press released before the
// mode-switch deadline emits exactly one toggle intent.
func TestArbiter_ShortPressToggles(t *testing.T) {
	cfg := testConfig()
	var bs ButtonState

	bs, intents := stepButton(bs, true, arbiterBase, cfg)
	if len(intents) != 0 {
		t.Fatalf("expected no intents on press edge, got %d", len(intents))
	}
	if !bs.Pressed {
		t.Fatalf("expected session open after press edge")
	}

	bs, intents = stepButton(bs, false, arbiterBase.Add(300*time.Millisecond), cfg)
	if len(intents) != 1 {
		t.Fatalf("expected 1 intent on short release, got %d", len(intents))
	}
	if intents[0].kind != intentToggleSensing {
		t.Errorf("expected toggle intent, got %d", intents[0].kind)
	}
	if bs.Pressed {
		t.Errorf("expected session closed after release")
	}
}

// TestArbiter_ModeSwitchFiresMidHold verifies the mode-switch intent fires
// while the button is still down, exactly once.
func TestArbiter_ModeSwitchFiresMidHold(t *testing.T) {
	cfg := testConfig()
	var bs ButtonState

	bs, _ = stepButton(bs, true, arbiterBase, cfg)

	// Just before the deadline: nothing.
	bs, intents := stepButton(bs, true, arbiterBase.Add(1400*time.Millisecond), cfg)
	if len(intents) != 0 {
		t.Fatalf("expected no intents before deadline, got %d", len(intents))
	}

	// Crossing the deadline: one mode-switch intent.
	bs, intents = stepButton(bs, true, arbiterBase.Add(1600*time.Millisecond), cfg)
	if len(intents) != 1 || intents[0].kind != intentModeSwitch {
		t.Fatalf("expected mode-switch intent at deadline, got %v", intents)
	}

	// Continuing to hold must not repeat it.
	bs, intents = stepButton(bs, true, arbiterBase.Add(2*time.Second), cfg)
	if len(intents) != 0 {
		t.Fatalf("expected mode-switch to fire once, got %d extra", len(intents))
	}

	// Release after a fired mode switch emits nothing.
	_, intents = stepButton(bs, false, arbiterBase.Add(3*time.Second), cfg)
	if len(intents) != 0 {
		t.Errorf("expected silent release after mode switch, got %v", intents)
	}
}

// TestArbiter_SleepFiresAfterModeSwitch verifies a hold long enough for
// sleep emits the sleep intent after the earlier mode switch.
func TestArbiter_SleepFiresAfterModeSwitch(t *testing.T) {
	cfg := testConfig()
	var bs ButtonState

	bs, _ = stepButton(bs, true, arbiterBase, cfg)
	bs, intents := stepButton(bs, true, arbiterBase.Add(2*time.Second), cfg)
	if len(intents) != 1 || intents[0].kind != intentModeSwitch {
		t.Fatalf("expected mode-switch first, got %v", intents)
	}

	bs, intents = stepButton(bs, true, arbiterBase.Add(5100*time.Millisecond), cfg)
	if len(intents) != 1 || intents[0].kind != intentSleep {
		t.Fatalf("expected sleep intent past sleep deadline, got %v", intents)
	}

	// Held further: no repeats, and release stays silent.
	bs, intents = stepButton(bs, true, arbiterBase.Add(6*time.Second), cfg)
	if len(intents) != 0 {
		t.Fatalf("expected sleep to fire once, got %v", intents)
	}
	_, intents = stepButton(bs, false, arbiterBase.Add(7*time.Second), cfg)
	if len(intents) != 0 {
		t.Errorf("expected silent release after sleep, got %v", intents)
	}
}

// TestArbiter_SleepWinsWhenBothDeadlinesCross verifies that a single
// sample landing past both deadlines resolves to sleep alone.
func TestArbiter_SleepWinsWhenBothDeadlinesCross(t *testing.T) {
	cfg := testConfig()
	var bs ButtonState

	bs, _ = stepButton(bs, true, arbiterBase, cfg)
	_, intents := stepButton(bs, true, arbiterBase.Add(10*time.Second), cfg)
	if len(intents) != 1 {
		t.Fatalf("expected exactly 1 intent, got %d", len(intents))
	}
	if intents[0].kind != intentSleep {
		t.Errorf("expected sleep to win over mode switch, got %d", intents[0].kind)
	}
}

// TestArbiter_VolumeAdjustSuppresses verifies a volume gesture during the
// hold cancels both the mode switch and the release toggle.
func TestArbiter_VolumeAdjustSuppresses(t *testing.T) {
	cfg := testConfig()
	var bs ButtonState

	bs, _ = stepButton(bs, true, arbiterBase, cfg)
	bs.VolumeAdjusted = true

	bs, intents := stepButton(bs, true, arbiterBase.Add(2*time.Second), cfg)
	if len(intents) != 0 {
		t.Fatalf("expected volume adjust to suppress mode switch, got %v", intents)
	}

	_, intents = stepButton(bs, false, arbiterBase.Add(2500*time.Millisecond), cfg)
	if len(intents) != 0 {
		t.Errorf("expected volume adjust to suppress release toggle, got %v", intents)
	}
}

// TestArbiter_VolumeAdjustDoesNotBlockSleep verifies sleep still fires
// after a volume gesture.
func TestArbiter_VolumeAdjustDoesNotBlockSleep(t *testing.T) {
	cfg := testConfig()
	var bs ButtonState

	bs, _ = stepButton(bs, true, arbiterBase, cfg)
	bs.VolumeAdjusted = true

	_, intents := stepButton(bs, true, arbiterBase.Add(6*time.Second), cfg)
	if len(intents) != 1 || intents[0].kind != intentSleep {
		t.Fatalf("expected sleep despite volume adjust, got %v", intents)
	}
}

// TestArbiter_LateReleaseWithoutFiredIntentsStaysSilent verifies a release
// past the mode-switch deadline never toggles, even if the deadline sample
// itself was missed.
func TestArbiter_LateReleaseWithoutFiredIntentsStaysSilent(t *testing.T) {
	cfg := testConfig()
	var bs ButtonState

	bs, _ = stepButton(bs, true, arbiterBase, cfg)

	// Release arrives late with no intermediate samples. The arbiter only
	// sees the release, after the mode-switch deadline.
	_, intents := stepButton(bs, false, arbiterBase.Add(2*time.Second), cfg)
	if len(intents) != 0 {
		t.Errorf("expected no toggle on late release, got %v", intents)
	}
}
