package main

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"huepod/brain"
)

// swatch is a keyboard-selectable surface for the simulated sensor.
type swatch struct {
	name    string
	sample  brain.ColorSample
	display tcell.Color
}

// palette maps digit keys to surfaces whose normalized channels land
// inside the classification tables. "dark" deliberately lands in none.
var palette = map[rune]swatch{
	'1': {"red", brain.ColorSample{R: 140, G: 50, B: 40, Ambient: 600}, tcell.NewRGBColor(255, 0, 0)},
	'2': {"orange", brain.ColorSample{R: 130, G: 100, B: 25, Ambient: 600}, tcell.NewRGBColor(255, 120, 0)},
	'3': {"yellow", brain.ColorSample{R: 120, G: 120, B: 20, Ambient: 600}, tcell.NewRGBColor(255, 220, 0)},
	'4': {"green", brain.ColorSample{R: 40, G: 160, B: 50, Ambient: 600}, tcell.NewRGBColor(0, 255, 0)},
	'5': {"cyan", brain.ColorSample{R: 40, G: 120, B: 120, Ambient: 600}, tcell.NewRGBColor(0, 220, 220)},
	'6': {"blue", brain.ColorSample{R: 40, G: 60, B: 150, Ambient: 600}, tcell.NewRGBColor(0, 70, 255)},
	'7': {"purple", brain.ColorSample{R: 100, G: 40, B: 90, Ambient: 600}, tcell.NewRGBColor(170, 0, 255)},
	'8': {"pink", brain.ColorSample{R: 140, G: 80, B: 100, Ambient: 600}, tcell.NewRGBColor(255, 105, 180)},
	'9': {"white", brain.ColorSample{R: 90, G: 90, B: 90, Ambient: 600}, tcell.NewRGBColor(255, 255, 255)},
	'0': {"dark", brain.ColorSample{R: 10, G: 10, B: 10, Ambient: 4}, tcell.NewRGBColor(60, 60, 60)},
}

type ui struct {
	screen   tcell.Screen
	input    *simInput
	sensor   *simSensor
	lights   *simLights
	player   *simPlayer
	snap     *atomic.Pointer[brain.Snapshot]
	socket   string
	ledCount int
	volMax   int

	down    bool
	surface swatch
}

// run owns the terminal until the user quits or the device loop exits.
func (u *ui) run(loopDone <-chan struct{}) {
	eventc := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				return
			}
			eventc <- ev
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	u.draw()
	for {
		select {
		case <-loopDone:
			return
		case ev := <-eventc:
			if !u.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			u.draw()
		}
	}
}

func (u *ui) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyUp || ev.Key() == tcell.KeyRight:
			u.input.rotate(1)
		case ev.Key() == tcell.KeyDown || ev.Key() == tcell.KeyLeft:
			u.input.rotate(-1)
		case ev.Key() == tcell.KeyRune:
			return u.handleRune(ev.Rune())
		}
	case *tcell.EventResize:
		u.screen.Sync()
	}
	return true
}

func (u *ui) handleRune(r rune) bool {
	switch r {
	case 'q', 'Q':
		return false
	case ' ':
		u.down = !u.down
		u.input.setPressed(u.down)
	case '+', '=':
		u.input.rotate(1)
	case '-', '_':
		u.input.rotate(-1)
	default:
		if sw, ok := palette[r]; ok {
			u.surface = sw
			u.sensor.set(sw.sample)
		}
	}
	return true
}

const (
	ringCX = 11
	ringCY = 7
	ringRX = 7.5
	ringRY = 4.0
)

func (u *ui) draw() {
	s := u.screen
	s.Clear()

	title := tcell.StyleDefault.Bold(true)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	label := tcell.StyleDefault.Foreground(tcell.ColorTeal)

	drawText(s, 1, 0, title, "huepod-sim")
	drawText(s, 13, 0, dim, "socket "+u.socket)

	u.drawRing()

	snap := u.snap.Load()
	col := 26
	row := 2
	put := func(name, value string) {
		drawText(s, col, row, label, name)
		drawText(s, col+10, row, tcell.StyleDefault, value)
		row++
	}

	if snap == nil {
		drawText(s, col, row, dim, "booting...")
	} else {
		put("mode", snap.Mode)
		put("sensing", onOff(snap.Sensing))
		put("volume", volumeBar(snap.Volume, u.volMax))
		if snap.Track != "" {
			put("track", snap.Track)
		}
		if snap.Playing != "" {
			put("playing", snap.Playing)
		}
		put("boot", fmt.Sprintf("#%d", snap.BootCount))
		put("button", buttonState(u.down))
		if line := counterLine(snap.Counters); line != "" {
			put("repeats", line)
		}
		_, gainDB, recent := u.player.state()
		if len(recent) > 0 {
			put("sounded", strings.Join(recent, ", "))
		}
		put("gain", fmt.Sprintf("%.1f dB", gainDB))

		u.drawGrid(2, 15, snap.Grid)
	}

	if u.surface.name != "" {
		drawText(s, 2, 13, label, "surface")
		drawText(s, 12, 13, tcell.StyleDefault.Foreground(u.surface.display), "■ "+u.surface.name)
	} else {
		drawText(s, 2, 13, dim, "surface   none (press 1-9)")
	}

	_, h := s.Size()
	drawText(s, 1, h-1, dim, "[space] button  [arrows] rotate  [1-9] colors  [0] dark  [q] quit")

	s.Show()
}

// drawRing renders the LED ring as an ellipse of cells. The loop drives
// every LED to the same color, so one fill paints them all.
func (u *ui) drawRing() {
	c, brightness := u.lights.state()
	lit := c.R > 0 || c.G > 0 || c.B > 0

	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(
		int32(float64(c.R)*brightness),
		int32(float64(c.G)*brightness),
		int32(float64(c.B)*brightness)))
	glyph := '●'
	if !lit {
		style = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
		glyph = '·'
	}

	for i := 0; i < u.ledCount; i++ {
		theta := 2*math.Pi*float64(i)/float64(u.ledCount) - math.Pi/2
		x := ringCX + int(math.Round(ringRX*math.Cos(theta)))
		y := ringCY + int(math.Round(ringRY*math.Sin(theta)))
		u.screen.SetContent(x, y, glyph, nil, style)
	}
}

// drawGrid renders the collection grid, one row per theme.
func (u *ui) drawGrid(x, y int, grid [brain.ThemeCount][brain.ElementsPerTheme]bool) {
	label := tcell.StyleDefault.Foreground(tcell.ColorTeal)
	done := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	todo := tcell.StyleDefault.Foreground(tcell.ColorGray)

	for t := 0; t < brain.ThemeCount; t++ {
		drawText(u.screen, x, y+t, label, brain.ThemeNames[t])
		for e := 0; e < brain.ElementsPerTheme; e++ {
			cx := x + 10 + e*2
			if grid[t][e] {
				u.screen.SetContent(cx, y+t, '■', nil, done)
			} else {
				u.screen.SetContent(cx, y+t, '·', nil, todo)
			}
		}
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func buttonState(down bool) string {
	if down {
		return "DOWN"
	}
	return "up"
}

func volumeBar(v, max int) string {
	if max <= 0 {
		max = 10
	}
	if v < 0 {
		v = 0
	}
	if v > max {
		v = max
	}
	return fmt.Sprintf("[%s%s] %d/%d",
		strings.Repeat("█", v), strings.Repeat("·", max-v), v, max)
}

func counterLine(counters map[string]int) string {
	if len(counters) == 0 {
		return ""
	}
	keys := make([]string, 0, len(counters))
	for k := range counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%d", k, counters[k]))
	}
	return strings.Join(parts, " ")
}
