package playback

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// newSilentEngine builds an engine over a throwaway registry and starts it
// in silent mode so tests never touch the audio device.
func newSilentEngine(t *testing.T, frames int) *Engine {
	t.Helper()

	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "blip.wav"), 44100, frames)
	writeWAV(t, filepath.Join(dir, "track-01.wav"), 44100, frames)

	reg, err := LoadRegistry(dir, discardLogger())
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	eng := NewEngine(reg, discardLogger())
	eng.StartSilent()
	return eng
}

func waitInactive(t *testing.T, eng *Engine) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !eng.Active() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("playback never drained")
}

func TestEngine_PlayBeforeStartRejected(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "blip.wav"), 44100, 441)
	reg, err := LoadRegistry(dir, discardLogger())
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	eng := NewEngine(reg, discardLogger())

	if err := eng.Play("blip", false); err == nil {
		t.Fatal("expected error playing before Start")
	}
}

func TestEngine_SilentPlaybackDrains(t *testing.T) {
	eng := newSilentEngine(t, 1764) // 40ms

	if !eng.Silent() {
		t.Fatal("Silent() = false after StartSilent")
	}
	if err := eng.Play("blip", false); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !eng.Active() {
		t.Fatal("Active() = false right after Play")
	}
	waitInactive(t, eng)
}

func TestEngine_UnknownAssetRejected(t *testing.T) {
	eng := newSilentEngine(t, 441)

	err := eng.Play("does-not-exist", false)
	if err == nil {
		t.Fatal("expected error for unknown asset")
	}
}

func TestEngine_StopSilencesImmediately(t *testing.T) {
	eng := newSilentEngine(t, 44100) // 1s, long enough that it cannot self-drain

	if err := eng.Play("blip", false); err != nil {
		t.Fatalf("Play: %v", err)
	}
	eng.Stop()
	if eng.Active() {
		t.Error("Active() = true after Stop")
	}
}

func TestEngine_CloseShutsDown(t *testing.T) {
	eng := newSilentEngine(t, 44100)

	if err := eng.Play("blip", false); err != nil {
		t.Fatalf("Play: %v", err)
	}
	eng.Close()

	if eng.Active() {
		t.Error("Active() = true after Close")
	}
	if err := eng.Play("blip", false); err == nil {
		t.Error("expected error playing after Close")
	}
}

func TestEngine_StartTwiceRejected(t *testing.T) {
	eng := newSilentEngine(t, 441)

	if err := eng.Start(); err == nil {
		t.Fatal("expected error starting an already started engine")
	}
}

func TestEngine_SetVolumeSilentModeIsNoOp(t *testing.T) {
	eng := newSilentEngine(t, 441)

	// Silent mode has no volume chain; the calls must still be safe.
	eng.SetVolume(-12.5, false)
	eng.SetVolume(0, true)
}

func TestEngine_TracksDelegate(t *testing.T) {
	eng := newSilentEngine(t, 441)

	if got := eng.Tracks(); !reflect.DeepEqual(got, []string{"track-01"}) {
		t.Errorf("Tracks() = %v, want [track-01]", got)
	}
}
