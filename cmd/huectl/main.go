// huectl is a bench client for the huepod daemon. It injects synthetic
// input over the IPC socket so the interaction model can be exercised
// without touching the hardware, and it can dump the daemon's state
// snapshot for scripts and debugging.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"huepod/brain"
)

func printUsage() {
	fmt.Println("huectl - bench client for the huepod daemon")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  huectl [-socket PATH] COMMAND [ARGS]")
	fmt.Println()
	fmt.Println("COMMANDS:")
	fmt.Println("  press                  hold the virtual button down")
	fmt.Println("  release                release the virtual button")
	fmt.Println("  tap [MS]               press, wait MS (default 120), release")
	fmt.Println("  rotate STEPS           rotate the virtual encoder (negative = counter-clockwise)")
	fmt.Println("  sense R G B [AMBIENT]  inject a normalized color reading (channels 0-255)")
	fmt.Println("  snapshot               print the daemon state as JSON")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Printf("  -socket PATH           IPC socket path (default %s)\n", brain.DefaultConfig().IPC.SocketPath)
}

func main() {
	socketPath := brain.DefaultConfig().IPC.SocketPath

	args := os.Args[1:]
	if len(args) >= 1 && (args[0] == "-socket" || args[0] == "--socket") {
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "error: -socket requires a path")
			os.Exit(1)
		}
		socketPath = args[1]
		args = args[2:]
	}

	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "press":
		err = brain.SendIPCEvent(socketPath, brain.ButtonInjected{Down: true, At: time.Now()})
	case "release":
		err = brain.SendIPCEvent(socketPath, brain.ButtonInjected{Down: false, At: time.Now()})
	case "tap":
		err = tap(socketPath, args[1:])
	case "rotate":
		err = rotate(socketPath, args[1:])
	case "sense":
		err = sense(socketPath, args[1:])
	case "snapshot":
		err = snapshot(socketPath)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n\n", args[0])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if args[0] != "snapshot" {
		fmt.Println("ok")
	}
}

// tap sends a press, holds it for the requested duration and releases.
// The default is short enough to register as a tap, not a mode hold.
func tap(socketPath string, args []string) error {
	hold := 120 * time.Millisecond
	if len(args) >= 1 {
		ms, err := strconv.Atoi(args[0])
		if err != nil || ms < 0 {
			return fmt.Errorf("tap duration must be a non-negative number of milliseconds, got %q", args[0])
		}
		hold = time.Duration(ms) * time.Millisecond
	}

	if err := brain.SendIPCEvent(socketPath, brain.ButtonInjected{Down: true, At: time.Now()}); err != nil {
		return err
	}
	time.Sleep(hold)
	return brain.SendIPCEvent(socketPath, brain.ButtonInjected{Down: false, At: time.Now()})
}

func rotate(socketPath string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("rotate requires exactly one STEPS argument")
	}
	steps, err := strconv.Atoi(args[0])
	if err != nil || steps == 0 {
		return fmt.Errorf("rotate steps must be a non-zero number, got %q", args[0])
	}
	return brain.SendIPCEvent(socketPath, brain.RotateInjected{Steps: steps, At: time.Now()})
}

func sense(socketPath string, args []string) error {
	if len(args) != 3 && len(args) != 4 {
		return fmt.Errorf("sense requires R G B and an optional AMBIENT")
	}
	vals := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("sense values must be numbers, got %q", a)
		}
		vals[i] = v
	}
	for i := 0; i < 3; i++ {
		if vals[i] < 0 || vals[i] > 255 {
			return fmt.Errorf("sense channels must be within 0-255, got %d", vals[i])
		}
	}

	sample := brain.ColorSample{R: vals[0], G: vals[1], B: vals[2], Ambient: 600}
	if len(vals) == 4 {
		if vals[3] < 0 {
			return fmt.Errorf("sense ambient must be >= 0, got %d", vals[3])
		}
		sample.Ambient = vals[3]
	}
	return brain.SendIPCEvent(socketPath, brain.ColorObserved{Sample: sample, At: time.Now()})
}

func snapshot(socketPath string) error {
	snap, err := brain.RequestSnapshot(socketPath)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
