package brain

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync/atomic"
)

// ============================================================================
// IPC Server - Unix Domain Socket Interface
// ============================================================================
// The IPC server lets external clients inject events into the session and
// read state snapshots. This enables:
//   - Bench exercising of the full interaction model without hardware
//   - Remote control via huectl
//   - Scripting and automation
//
// Protocol: Line-delimited JSON
//   - Client sends: {"type": "event_name", "data": {...}}
//   - Server responds: {"status": "ok"} or {"status": "error", "error": "msg"}
//   - The "snapshot" request answers with the state inline:
//     {"status": "ok", "snapshot": {...}}
// ============================================================================

// IPCResponse represents the response sent back to IPC clients.
type IPCResponse struct {
	Status   string    `json:"status"`             // "ok" or "error"
	Error    string    `json:"error,omitempty"`    // error message if status == "error"
	Snapshot *Snapshot `json:"snapshot,omitempty"` // present for snapshot requests
}

// RunIPCServer starts the Unix domain socket server. It runs until ctx is
// canceled, at which point it closes the listener and exits.
func RunIPCServer(
	ctx context.Context,
	socketPath string,
	events chan<- Event,
	snap *atomic.Pointer[Snapshot],
	logger *slog.Logger,
) error {
	// Remove existing socket file if it exists
	if err := os.RemoveAll(socketPath); err != nil {
		return fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", socketPath, err)
	}
	defer listener.Close()
	defer os.Remove(socketPath)

	if err := os.Chmod(socketPath, 0666); err != nil {
		return fmt.Errorf("chmod socket: %w", err)
	}

	logger.Info("IPC listening", "socket", socketPath)

	// Close the listener on shutdown. This unblocks Accept().
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				logger.Debug("IPC listener closed (shutdown)")
				return nil
			}
			if errors.Is(err, net.ErrClosed) || strings.Contains(err.Error(), "use of closed network connection") {
				logger.Debug("IPC listener closed")
				return nil
			}
			logger.Error("IPC accept error", "error", err)
			continue
		}

		go handleIPCConnection(conn, events, snap, logger)
	}
}

// handleIPCConnection handles a single IPC connection.
func handleIPCConnection(conn net.Conn, events chan<- Event, snap *atomic.Pointer[Snapshot], logger *slog.Logger) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	encoder := json.NewEncoder(conn)

	respond := func(resp IPCResponse) {
		if err := encoder.Encode(resp); err != nil {
			logger.Error("IPC failed to send response", "error", err)
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		logger.Debug("IPC received", "line", line)

		// Snapshot requests are answered inline; they never touch the
		// session loop.
		var env eventEnvelope
		if err := json.Unmarshal([]byte(line), &env); err != nil {
			respond(IPCResponse{Status: "error", Error: fmt.Sprintf("parse event: %v", err)})
			continue
		}
		if env.Type == "snapshot" {
			var s *Snapshot
			if snap != nil {
				s = snap.Load()
			}
			if s == nil {
				respond(IPCResponse{Status: "error", Error: "no snapshot published yet"})
				continue
			}
			respond(IPCResponse{Status: "ok", Snapshot: s})
			continue
		}

		ev, err := UnmarshalEvent([]byte(line))
		if err != nil {
			respond(IPCResponse{Status: "error", Error: fmt.Sprintf("parse event: %v", err)})
			continue
		}

		select {
		case events <- ev:
			respond(IPCResponse{Status: "ok"})
		default:
			respond(IPCResponse{Status: "error", Error: "event queue full"})
		}
	}

	logger.Debug("IPC connection closed")
}

// ============================================================================
// IPC Client Utility Functions
// ============================================================================
// Used by huectl and by tests to talk to a running daemon.
// ============================================================================

// SendIPCEvent sends an injectable event to the daemon and checks the reply.
func SendIPCEvent(socketPath string, ev Event) error {
	data, err := MarshalEvent(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	resp, err := ipcRoundTrip(socketPath, data)
	if err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("ipc error: %s", resp.Error)
	}
	return nil
}

// RequestSnapshot asks the daemon for its latest state snapshot.
func RequestSnapshot(socketPath string) (*Snapshot, error) {
	data, err := json.Marshal(eventEnvelope{Type: "snapshot"})
	if err != nil {
		return nil, err
	}
	resp, err := ipcRoundTrip(socketPath, data)
	if err != nil {
		return nil, err
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("ipc error: %s", resp.Error)
	}
	if resp.Snapshot == nil {
		return nil, errors.New("ipc response missing snapshot")
	}
	return resp.Snapshot, nil
}

func ipcRoundTrip(socketPath string, line []byte) (IPCResponse, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return IPCResponse{}, fmt.Errorf("connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	if _, err := fmt.Fprintf(conn, "%s\n", strings.TrimSpace(string(line))); err != nil {
		return IPCResponse{}, fmt.Errorf("send event: %w", err)
	}

	decoder := json.NewDecoder(conn)
	var resp IPCResponse
	if err := decoder.Decode(&resp); err != nil {
		return IPCResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}
