// Package audiomon watches PulseAudio/PipeWire source-outputs to tell
// when a specific application starts or stops capturing the
// microphone. It is the audio-session capability behind push-based
// detection rules.
package audiomon

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os/exec"
	"time"

	"github.com/callwatch/callwatch/pkg/source"
)

// Monitor tails `pactl subscribe` and re-lists source-outputs on each
// change, emitting a transition whenever the watched app gains or
// loses a capture stream.
type Monitor struct{}

func NewMonitor() *Monitor {
	return &Monitor{}
}

// Available reports whether pactl is installed.
func Available() bool {
	_, err := exec.LookPath("pactl")
	return err == nil
}

func (m *Monitor) Subscribe(ctx context.Context, app string) (<-chan source.SessionChange, error) {
	cmd := exec.CommandContext(ctx, "pactl", "subscribe")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("pactl subscribe pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting pactl subscribe: %w", err)
	}

	changes := make(chan source.SessionChange, 4)

	go func() {
		defer close(changes)
		defer func() { _ = cmd.Wait() }()

		active := m.appCapturing(app)
		if active {
			changes <- source.SessionChange{Active: true, At: time.Now()}
		}

		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			if !IsSourceOutputEvent(scanner.Text()) {
				continue
			}
			now := m.appCapturing(app)
			if now != active {
				active = now
				select {
				case changes <- source.SessionChange{Active: now, At: time.Now()}:
				case <-ctx.Done():
					return
				}
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			log.Printf("audiomon: subscribe stream ended: %v", err)
		}
	}()

	return changes, nil
}

// appCapturing lists current source-outputs and checks whether app owns
// one.
func (m *Monitor) appCapturing(app string) bool {
	out, err := exec.Command("pactl", "list", "source-outputs").Output()
	if err != nil {
		return false
	}
	for _, name := range ParseSourceOutputApps(string(out)) {
		if name == app {
			return true
		}
	}
	return false
}
