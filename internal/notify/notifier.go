// Package notify delivers dismissible, time-limited user notifications
// with an optional primary action.
package notify

import (
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"
)

// Notification is one user-facing notice. OnAction runs if the user
// invokes the primary action before the notification expires.
type Notification struct {
	Summary     string
	Body        string
	Timeout     time.Duration
	ActionLabel string
	OnAction    func()
}

type Notifier interface {
	Notify(n Notification) error
}

// LogNotifier writes notifications to the log. Used headless and in
// tests.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) error {
	log.Printf("notify: %s: %s", n.Summary, n.Body)
	return nil
}

// DesktopNotifier shells out to notify-send. The primary action uses
// notify-send's -A flag, which blocks until the user reacts or the
// notification expires, so the wait happens in a goroutine.
type DesktopNotifier struct{}

// Available reports whether notify-send is installed.
func (DesktopNotifier) Available() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

func (d DesktopNotifier) Notify(n Notification) error {
	args := []string{
		"--app-name", "callwatch",
		"--expire-time", fmt.Sprintf("%d", n.Timeout.Milliseconds()),
	}
	if n.ActionLabel != "" {
		args = append(args, "-A", "default="+n.ActionLabel)
	}
	args = append(args, n.Summary, n.Body)

	cmd := exec.Command("notify-send", args...)

	if n.ActionLabel == "" {
		return cmd.Run()
	}

	go func() {
		out, err := cmd.Output()
		if err != nil {
			log.Printf("notify: notify-send failed: %v", err)
			return
		}
		if strings.TrimSpace(string(out)) == "default" && n.OnAction != nil {
			n.OnAction()
		}
	}()
	return nil
}
