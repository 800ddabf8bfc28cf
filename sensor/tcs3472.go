// Package sensor drives a TCS3472-family RGBC color sensor over I2C.
//
// The chip integrates light over a configurable window and exposes four
// 16-bit channels (clear, red, green, blue). Readings are normalized against
// the clear channel so the same surface classifies the same under different
// illumination.
package sensor

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"

	"huepod/brain"
)

// DefaultAddr is the fixed I2C address of the TCS3472 family.
const DefaultAddr = 0x29

// Register protocol: every access goes through the command register. The
// auto-increment mode reads the four channel words in one transaction.
const (
	cmdBit  = 0x80
	cmdAuto = 0xA0

	regEnable  = 0x00
	regATime   = 0x01
	regControl = 0x0F
	regID      = 0x12
	regCData   = 0x14

	enablePON = 0x01
	enableAEN = 0x02
)

// atimeStep is the integration time granularity of the chip.
const atimeStep = 2400 * time.Microsecond

// ponWarmup is the oscillator settle time required between PON and AEN.
const ponWarmup = 3 * time.Millisecond

var gainCodes = map[int]byte{
	1:  0x00,
	4:  0x01,
	16: 0x02,
	60: 0x03,
}

var partNames = map[byte]string{
	0x44: "TCS34721/TCS34725",
	0x4D: "TCS34723/TCS34727",
}

// Opts configures the device.
type Opts struct {
	// Addr overrides the I2C address; zero means DefaultAddr.
	Addr uint16

	// IntegrationMS is rounded to the chip's 2.4 ms granularity.
	IntegrationMS int

	// Gain must be one of 1, 4, 16, 60.
	Gain int
}

// Device is one sensor. It is owned by the session loop; methods are not
// safe for concurrent use.
type Device struct {
	dev    *i2c.Dev
	bus    i2c.BusCloser
	logger *slog.Logger

	integration time.Duration
}

// Open opens the named I2C bus (empty selects the first one) and probes the
// sensor on it. The returned device owns the bus.
func Open(busName string, opts Opts, logger *slog.Logger) (*Device, error) {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	d, err := New(bus, opts, logger)
	if err != nil {
		bus.Close()
		return nil, err
	}
	d.bus = bus
	return d, nil
}

// New probes and configures a sensor on an already-open bus. The caller
// keeps ownership of the bus.
func New(bus i2c.Bus, opts Opts, logger *slog.Logger) (*Device, error) {
	gainCode, ok := gainCodes[opts.Gain]
	if !ok {
		return nil, fmt.Errorf("unsupported sensor gain %dx (want 1, 4, 16 or 60)", opts.Gain)
	}
	addr := opts.Addr
	if addr == 0 {
		addr = DefaultAddr
	}
	d := &Device{
		dev:    &i2c.Dev{Bus: bus, Addr: addr},
		logger: logger,
	}

	id, err := d.readReg(regID)
	if err != nil {
		return nil, fmt.Errorf("probe sensor id: %w", err)
	}
	part, ok := partNames[id]
	if !ok {
		return nil, fmt.Errorf("unexpected sensor id 0x%02x at address 0x%02x", id, addr)
	}

	atime, actual := atimeFor(opts.IntegrationMS)
	d.integration = actual
	if err := d.writeReg(regATime, atime); err != nil {
		return nil, fmt.Errorf("set integration time: %w", err)
	}
	if err := d.writeReg(regControl, gainCode); err != nil {
		return nil, fmt.Errorf("set gain: %w", err)
	}
	if err := d.writeReg(regEnable, enablePON); err != nil {
		return nil, fmt.Errorf("power on: %w", err)
	}

	logger.Info("color sensor ready",
		"part", part, "integration", actual, "gain", opts.Gain)
	return d, nil
}

// atimeFor converts a millisecond request to the ATIME register value and
// the actual integration window the chip will use.
func atimeFor(ms int) (byte, time.Duration) {
	cycles := (ms*1000 + 1200) / 2400
	if cycles < 1 {
		cycles = 1
	}
	if cycles > 256 {
		cycles = 256
	}
	return byte(256 - cycles), time.Duration(cycles) * atimeStep
}

// Sense waits one integration window, then reads and normalizes the four
// channels. This is the blocking wait of the sensing tick.
func (d *Device) Sense(ctx context.Context) (brain.ColorSample, error) {
	t := time.NewTimer(d.integration)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return brain.ColorSample{}, ctx.Err()
	case <-t.C:
	}

	var raw [8]byte
	if err := d.dev.Tx([]byte{cmdAuto | regCData}, raw[:]); err != nil {
		return brain.ColorSample{}, fmt.Errorf("read channels: %w", err)
	}
	clear := binary.LittleEndian.Uint16(raw[0:2])
	red := binary.LittleEndian.Uint16(raw[2:4])
	green := binary.LittleEndian.Uint16(raw[4:6])
	blue := binary.LittleEndian.Uint16(raw[6:8])
	return normalize(red, green, blue, clear), nil
}

// normalize scales the channels to 0..255 against the clear magnitude. A
// zero clear reading (complete darkness) yields the zero sample, which no
// rule matches.
func normalize(r, g, b, c uint16) brain.ColorSample {
	if c == 0 {
		return brain.ColorSample{}
	}
	scale := func(v uint16) int {
		n := int(uint32(v) * 255 / uint32(c))
		if n > 255 {
			n = 255
		}
		return n
	}
	return brain.ColorSample{
		R:       scale(r),
		G:       scale(g),
		B:       scale(b),
		Ambient: int(c >> 8),
	}
}

// SetActive powers the measurement engine up or down between uses. The chip
// core stays on so reactivation is fast.
func (d *Device) SetActive(on bool) error {
	if !on {
		if err := d.writeReg(regEnable, enablePON); err != nil {
			return fmt.Errorf("suspend measurement: %w", err)
		}
		return nil
	}
	if err := d.writeReg(regEnable, enablePON); err != nil {
		return fmt.Errorf("power on: %w", err)
	}
	time.Sleep(ponWarmup)
	if err := d.writeReg(regEnable, enablePON|enableAEN); err != nil {
		return fmt.Errorf("enable measurement: %w", err)
	}
	return nil
}

// Close powers the chip fully down and releases the bus if this device
// opened it.
func (d *Device) Close() error {
	err := d.writeReg(regEnable, 0x00)
	if d.bus != nil {
		if cerr := d.bus.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (d *Device) readReg(reg byte) (byte, error) {
	var b [1]byte
	if err := d.dev.Tx([]byte{cmdBit | reg}, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Device) writeReg(reg, val byte) error {
	return d.dev.Tx([]byte{cmdBit | reg, val}, nil)
}
