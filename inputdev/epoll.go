//go:build linux

package inputdev

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// startReaders multiplexes every device through a single epoll poller: one
// goroutine total, woken by the kernel only when a device has data.
func startReaders(files []*os.File, events chan<- inputEvent, readErr chan<- error) {
	go func() {
		epfd, err := unix.EpollCreate1(0)
		if err != nil {
			readErr <- fmt.Errorf("epoll_create1: %w", err)
			return
		}
		defer unix.Close(epfd)

		fdToFile := make(map[int]*os.File, len(files))
		for _, f := range files {
			fd := int(f.Fd())
			fdToFile[fd] = f
			ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
			if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
				readErr <- fmt.Errorf("epoll_ctl add %s: %w", f.Name(), err)
				return
			}
		}

		ready := make([]unix.EpollEvent, 8)
		buf := make([]byte, eventSize)
		for {
			n, err := unix.EpollWait(epfd, ready, -1)
			if err != nil {
				if err == syscall.EINTR {
					continue
				}
				readErr <- fmt.Errorf("epoll_wait: %w", err)
				return
			}
			for i := 0; i < n; i++ {
				fd := int(ready[i].Fd)
				f := fdToFile[fd]
				if ready[i].Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
					readErr <- fmt.Errorf("input device gone: %s", f.Name())
					return
				}
				if _, err := f.Read(buf); err != nil {
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
		}
	}()
}
