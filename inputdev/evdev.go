package inputdev

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

// inputEvent mirrors struct input_event on 64-bit linux:
// struct input_event { struct timeval time; __u16 type; __u16 code; __s32 value; };
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

var eventSize = binary.Size(inputEvent{})

// Event types and key values as defined by the kernel input subsystem. The
// rotary-encoder overlay reports detents as EV_REL; the gpio-keys overlay
// reports the push button as EV_KEY.
const (
	evKey = 0x01
	evRel = 0x02

	evValueRelease = 0
	evValuePress   = 1
	evValueRepeat  = 2
)

// parseEvent decodes one kernel event record.
func parseEvent(buf []byte) (inputEvent, error) {
	var ev inputEvent
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &ev); err != nil {
		return inputEvent{}, err
	}
	return ev, nil
}

// Evdev aggregates kernel input devices into the per-tick line sample the
// loop expects. Key events track the button level; relative events are
// synthesized back into quadrature transitions.
type Evdev struct {
	logger *slog.Logger
	files  []*os.File
	synth  QuadSynth

	pressed atomic.Bool
	wakec   chan struct{}
	errc    chan error
	done    chan struct{}
}

// OpenEvdev opens every configured device and starts the readers.
func OpenEvdev(paths []string, logger *slog.Logger) (*Evdev, error) {
	if len(paths) == 0 {
		return nil, errors.New("no input devices configured")
	}
	var files []*os.File
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			for _, o := range files {
				o.Close()
			}
			return nil, fmt.Errorf("open input device %s: %w", p, err)
		}
		files = append(files, f)
	}

	e := &Evdev{
		logger: logger,
		files:  files,
		wakec:  make(chan struct{}, 1),
		errc:   make(chan error, len(files)+1),
		done:   make(chan struct{}),
	}
	events := make(chan inputEvent, 64)
	startReaders(files, events, e.errc)
	go e.consume(events)

	logger.Info("input devices open", "count", len(files), "backend", "evdev")
	return e, nil
}

func (e *Evdev) consume(events <-chan inputEvent) {
	for {
		select {
		case <-e.done:
			return
		case ev := <-events:
			switch ev.Type {
			case evKey:
				switch ev.Value {
				case evValuePress:
					e.pressed.Store(true)
					select {
					case e.wakec <- struct{}{}:
					default:
					}
				case evValueRelease:
					e.pressed.Store(false)
				}
				// evValueRepeat does not change the level.
			case evRel:
				e.synth.Queue(int(ev.Value))
			}
		}
	}
}

// Sample implements the per-tick line read.
func (e *Evdev) Sample() (a, b, pressed bool) {
	a, b = e.synth.Phases()
	return a, b, e.pressed.Load()
}

// Await blocks until a fresh button press arrives. Presses recorded before
// arming are discarded.
func (e *Evdev) Await(ctx context.Context) error {
	select {
	case <-e.wakec:
	default:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.wakec:
		return nil
	}
}

// Err surfaces reader failures (device unplugged, permission revoked). At
// most one error per device.
func (e *Evdev) Err() <-chan error {
	return e.errc
}

// Close stops the consumer and closes the devices, which unblocks the
// readers.
func (e *Evdev) Close() error {
	close(e.done)
	var err error
	for _, f := range e.files {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}
	return err
}
