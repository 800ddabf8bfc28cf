package inputdev

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// edgePollInterval bounds how long Await overshoots a context cancel while
// parked on the edge wait.
const edgePollInterval = 100 * time.Millisecond

// GPIO samples the encoder and button lines directly. All three lines are
// pulled up; the button shorts its line to ground, so pressed reads Low.
type GPIO struct {
	a, b, button gpio.PinIO
	logger       *slog.Logger
}

// OpenGPIO resolves the configured pin names and configures the lines.
func OpenGPIO(aName, bName, buttonName string, logger *slog.Logger) (*GPIO, error) {
	a := gpioreg.ByName(aName)
	if a == nil {
		return nil, fmt.Errorf("no such pin %q", aName)
	}
	b := gpioreg.ByName(bName)
	if b == nil {
		return nil, fmt.Errorf("no such pin %q", bName)
	}
	button := gpioreg.ByName(buttonName)
	if button == nil {
		return nil, fmt.Errorf("no such pin %q", buttonName)
	}
	return NewGPIO(a, b, button, logger)
}

// NewGPIO configures already-resolved pins as pulled-up inputs.
func NewGPIO(a, b, button gpio.PinIO, logger *slog.Logger) (*GPIO, error) {
	for _, p := range []gpio.PinIO{a, b, button} {
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("configure pin %s: %w", p, err)
		}
	}
	logger.Info("input lines configured",
		"encoder_a", a, "encoder_b", b, "button", button, "backend", "gpio")
	return &GPIO{a: a, b: b, button: button, logger: logger}, nil
}

// Sample implements the per-tick line read.
func (g *GPIO) Sample() (a, b, pressed bool) {
	return bool(g.a.Read()), bool(g.b.Read()), g.button.Read() == gpio.Low
}

// Await re-arms the button line for falling edges and blocks until one
// fires. Armed only immediately before sleep.
func (g *GPIO) Await(ctx context.Context) error {
	if err := g.button.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return fmt.Errorf("arm wake edge: %w", err)
	}
	defer g.button.In(gpio.PullUp, gpio.NoEdge)

	for {
		if g.button.WaitForEdge(edgePollInterval) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}
