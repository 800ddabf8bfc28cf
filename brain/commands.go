package brain

import "fmt"

// Commands are the side effects requested by the reducer. The loop is the
// only place that executes them (against the peripheral ports) and it feeds
// any observations back in as events.

// Command represents an external side effect to be executed by the loop.
type Command interface {
	commandMarker()
	String() string
}

// CmdPlay requests playback of a named asset, stopping whatever was playing
// first (newest request wins). Loop marks the asset for re-issue when it
// drains naturally.
type CmdPlay struct {
	Asset string
	Loop  bool
}

func (CmdPlay) commandMarker() {}
func (c CmdPlay) String() string {
	return fmt.Sprintf("CmdPlay(asset=%s loop=%v)", c.Asset, c.Loop)
}

// CmdStopPlayback stops any active playback.
type CmdStopPlayback struct{}

func (CmdStopPlayback) commandMarker() {}
func (CmdStopPlayback) String() string { return "CmdStopPlayback()" }

// CmdSetVolume applies a volume level to the playback engine. The effects
// layer maps the integer level onto the perceptual gain curve.
type CmdSetVolume struct {
	Level int
}

func (CmdSetVolume) commandMarker() {}
func (c CmdSetVolume) String() string {
	return fmt.Sprintf("CmdSetVolume(level=%d)", c.Level)
}

// CmdLights fills the ring with a single color.
type CmdLights struct {
	Color RGB
}

func (CmdLights) commandMarker() {}
func (c CmdLights) String() string {
	return fmt.Sprintf("CmdLights(color=#%02x%02x%02x)", c.Color.R, c.Color.G, c.Color.B)
}

// CmdLightsOff blanks the ring.
type CmdLightsOff struct{}

func (CmdLightsOff) commandMarker() {}
func (CmdLightsOff) String() string { return "CmdLightsOff()" }

// CmdSensorActive powers the color sensor up or down. Emitted when sensing
// toggles so the sensor does not integrate (and burn battery) while idle.
type CmdSensorActive struct {
	On bool
}

func (CmdSensorActive) commandMarker() {}
func (c CmdSensorActive) String() string {
	return fmt.Sprintf("CmdSensorActive(on=%v)", c.On)
}

// CmdSleep asks the loop to exit with ErrSleepRequested so the session
// controller can run the sleep sequence. Terminal for the current session.
type CmdSleep struct{}

func (CmdSleep) commandMarker() {}
func (CmdSleep) String() string { return "CmdSleep()" }
