// Package lights drives a WS2812 LED ring through an SPI port.
//
// The WS2812 wire protocol is a self-clocked 800 kHz bitstream. Running the
// SPI clock at three times that rate lets every data bit be expressed as a
// 3-bit symbol (110 for one, 100 for zero) so the MOSI line reproduces the
// timing the LEDs expect without bit-banging.
package lights

import (
	"fmt"
	"log/slog"
	"math"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"huepod/brain"
)

// symbolRate makes each 3-bit symbol span one WS2812 bit period.
const symbolRate = 2400 * physic.KiloHertz

// symbolBytes per color byte: 8 data bits expand to 24 SPI bits.
const symbolBytes = 3

// ledBytes per LED: three color bytes, GRB order.
const ledBytes = 3 * symbolBytes

// latchBytes of line-low after a frame latch the shifted colors. The parts
// want at least 50us; 24 zero bytes at the symbol rate is 80us.
const latchBytes = 24

// symbols maps a data byte to its SPI representation.
var symbols = buildSymbols()

func buildSymbols() [256][symbolBytes]byte {
	var tbl [256][symbolBytes]byte
	for v := 0; v < 256; v++ {
		var bits uint32
		for i := 7; i >= 0; i-- {
			bits <<= 3
			if v&(1<<i) != 0 {
				bits |= 0b110
			} else {
				bits |= 0b100
			}
		}
		tbl[v] = [symbolBytes]byte{byte(bits >> 16), byte(bits >> 8), byte(bits)}
	}
	return tbl
}

// gammaTable linearizes perceived brightness on the ring.
var gammaTable = buildGamma()

func buildGamma() [256]byte {
	var tbl [256]byte
	for v := 0; v < 256; v++ {
		tbl[v] = byte(math.Round(255 * math.Pow(float64(v)/255, 2.2)))
	}
	return tbl
}

// Ring is one LED ring. It is owned by the session loop; methods are not
// safe for concurrent use. Writes are best-effort: a failed frame is logged
// and dropped, the next frame repaints everything anyway.
type Ring struct {
	conn   spi.Conn
	port   spi.PortCloser
	count  int
	logger *slog.Logger

	brightness float64
	frame      []byte
}

// Open opens the named SPI port (empty selects the first one) and prepares
// a ring of count LEDs on it. The returned ring owns the port.
func Open(portName string, count int, brightness float64, logger *slog.Logger) (*Ring, error) {
	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", portName, err)
	}
	conn, err := port.Connect(symbolRate, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("connect led ring: %w", err)
	}
	r := New(conn, count, brightness, logger)
	r.port = port
	return r, nil
}

// New prepares a ring on an already-connected SPI conn. The caller keeps
// ownership of the underlying port.
func New(conn spi.Conn, count int, brightness float64, logger *slog.Logger) *Ring {
	return &Ring{
		conn:       conn,
		count:      count,
		logger:     logger,
		brightness: clampLevel(brightness),
		frame:      make([]byte, count*ledBytes+latchBytes),
	}
}

// Fill paints every LED with the same color at the current brightness.
func (r *Ring) Fill(c brain.RGB) {
	g := symbols[r.level(c.G)]
	red := symbols[r.level(c.R)]
	b := symbols[r.level(c.B)]

	n := 0
	for i := 0; i < r.count; i++ {
		n += copy(r.frame[n:], g[:])
		n += copy(r.frame[n:], red[:])
		n += copy(r.frame[n:], b[:])
	}
	r.send()
}

// Off blanks the ring. A black frame is still a full data frame; the LEDs
// latch zero, they are not left floating.
func (r *Ring) Off() {
	r.Fill(brain.RGB{})
}

// SetBrightness scales subsequent fills. Levels outside 0..1 are clamped.
func (r *Ring) SetBrightness(level float64) {
	r.brightness = clampLevel(level)
}

// Close blanks the ring and releases the port if this ring opened it.
func (r *Ring) Close() error {
	r.Off()
	if r.port != nil {
		return r.port.Close()
	}
	return nil
}

func (r *Ring) level(v uint8) byte {
	scaled := float64(v) * r.brightness
	return gammaTable[int(scaled+0.5)]
}

func (r *Ring) send() {
	if err := r.conn.Tx(r.frame, nil); err != nil {
		r.logger.Warn("led ring write failed", "error", err)
	}
}

func clampLevel(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
