//go:build !linux

package inputdev

import (
	"fmt"
	"io"
	"os"
)

// startReaders spawns one blocking reader per device. Portable fallback for
// bench work off the device; the linux build multiplexes with epoll.
func startReaders(files []*os.File, events chan<- inputEvent, readErr chan<- error) {
	for _, f := range files {
		go func(f *os.File) {
			buf := make([]byte, eventSize)
			for {
				if _, err := io.ReadFull(f, buf); err != nil {
					readErr <- fmt.Errorf("read %s: %w", f.Name(), err)
					return
				}
				ev, err := parseEvent(buf)
				if err != nil {
					// Skip malformed records.
					continue
				}
				events <- ev
			}
		}(f)
	}
}
