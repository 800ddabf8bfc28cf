package lights

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"

	"huepod/brain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRing(t *testing.T, count int, brightness float64) (*Ring, *spitest.Record) {
	t.Helper()
	rec := &spitest.Record{}
	conn, err := rec.Connect(symbolRate, spi.Mode0, 8)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return New(conn, count, brightness, discardLogger()), rec
}

// lastFrame returns the most recent SPI write.
func lastFrame(t *testing.T, rec *spitest.Record) []byte {
	t.Helper()
	if len(rec.Ops) == 0 {
		t.Fatal("no SPI writes recorded")
	}
	return rec.Ops[len(rec.Ops)-1].W
}

func TestSymbols(t *testing.T) {
	tests := []struct {
		in   byte
		want [symbolBytes]byte
	}{
		{0x00, [symbolBytes]byte{0x92, 0x49, 0x24}},
		{0xFF, [symbolBytes]byte{0xDB, 0x6D, 0xB6}},
		{0xA5, [symbolBytes]byte{0xD3, 0x49, 0xA6}},
	}
	for _, tt := range tests {
		if got := symbols[tt.in]; got != tt.want {
			t.Errorf("symbols[0x%02X] = %X, want %X", tt.in, got, tt.want)
		}
	}
}

func TestGammaTable(t *testing.T) {
	if gammaTable[0] != 0 {
		t.Errorf("gammaTable[0] = %d, want 0", gammaTable[0])
	}
	if gammaTable[255] != 255 {
		t.Errorf("gammaTable[255] = %d, want 255", gammaTable[255])
	}
	for i := 1; i < 256; i++ {
		if gammaTable[i] < gammaTable[i-1] {
			t.Fatalf("gammaTable not monotonic at %d: %d < %d", i, gammaTable[i], gammaTable[i-1])
		}
	}
	// The curve must push mid values down, that is the point of it.
	if gammaTable[128] >= 128 {
		t.Errorf("gammaTable[128] = %d, want below 128", gammaTable[128])
	}
}

func TestRing_FillEncodesGRBFrame(t *testing.T) {
	ring, rec := newTestRing(t, 2, 1.0)

	ring.Fill(brain.RGB{R: 255, G: 0, B: 0})

	frame := lastFrame(t, rec)
	if len(frame) != 2*ledBytes+latchBytes {
		t.Fatalf("frame length = %d, want %d", len(frame), 2*ledBytes+latchBytes)
	}

	led := append(append(append([]byte{}, symbols[0x00][:]...), symbols[0xFF][:]...), symbols[0x00][:]...)
	if !bytes.Equal(frame[:ledBytes], led) {
		t.Errorf("led 0 = %X, want %X (green byte first)", frame[:ledBytes], led)
	}
	if !bytes.Equal(frame[ledBytes:2*ledBytes], led) {
		t.Errorf("led 1 = %X, want %X", frame[ledBytes:2*ledBytes], led)
	}
	for i, b := range frame[2*ledBytes:] {
		if b != 0 {
			t.Fatalf("latch byte %d = 0x%02X, want 0x00", i, b)
		}
	}
}

func TestRing_BrightnessScalesBeforeGamma(t *testing.T) {
	ring, rec := newTestRing(t, 1, 0.5)

	ring.Fill(brain.RGB{R: 255, G: 255, B: 255})

	want := symbols[gammaTable[128]]
	frame := lastFrame(t, rec)
	for i := 0; i < 3; i++ {
		got := frame[i*symbolBytes : (i+1)*symbolBytes]
		if !bytes.Equal(got, want[:]) {
			t.Errorf("color byte %d = %X, want %X", i, got, want)
		}
	}
}

func TestRing_SetBrightnessClamps(t *testing.T) {
	ring, rec := newTestRing(t, 1, 1.0)

	ring.SetBrightness(1.5)
	ring.Fill(brain.RGB{R: 255, G: 255, B: 255})
	if got := lastFrame(t, rec)[:symbolBytes]; !bytes.Equal(got, symbols[0xFF][:]) {
		t.Errorf("over-range brightness: got %X, want full on", got)
	}

	ring.SetBrightness(-0.2)
	ring.Fill(brain.RGB{R: 255, G: 255, B: 255})
	if got := lastFrame(t, rec)[:symbolBytes]; !bytes.Equal(got, symbols[0x00][:]) {
		t.Errorf("negative brightness: got %X, want black", got)
	}
}

func TestRing_OffSendsBlackFrame(t *testing.T) {
	ring, rec := newTestRing(t, 3, 1.0)

	ring.Off()

	frame := lastFrame(t, rec)
	for i := 0; i < 3*3; i++ {
		got := frame[i*symbolBytes : (i+1)*symbolBytes]
		if !bytes.Equal(got, symbols[0x00][:]) {
			t.Fatalf("color byte %d = %X, want black symbol", i, got)
		}
	}
}

func TestRing_CloseBlanks(t *testing.T) {
	ring, rec := newTestRing(t, 1, 1.0)

	ring.Fill(brain.RGB{R: 10, G: 20, B: 30})
	if err := ring.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if len(rec.Ops) != 2 {
		t.Fatalf("writes = %d, want fill + blank", len(rec.Ops))
	}
	if got := lastFrame(t, rec)[:symbolBytes]; !bytes.Equal(got, symbols[0x00][:]) {
		t.Errorf("final frame starts %X, want black symbol", got)
	}
}
