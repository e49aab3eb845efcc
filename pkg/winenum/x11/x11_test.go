package x11

import (
	"os"
	"testing"

	"github.com/callwatch/callwatch/pkg/winenum"
)

var (
	_ winenum.Enumerator  = (*Client)(nil)
	_ winenum.FocusReader = (*Client)(nil)
)

func TestClientAgainstLiveDisplay(t *testing.T) {
	if !Available() {
		t.Skip("no X display available")
	}

	client, err := NewClient()
	if err != nil {
		t.Skipf("cannot connect to X server: %v", err)
	}
	defer client.Close()

	if !client.Granted() {
		t.Error("X client should report Granted() == true")
	}

	// Titles for our own pid: usually empty in a test run, but the
	// query itself must not fail.
	if _, err := client.WindowTitles(os.Getpid()); err != nil {
		t.Errorf("WindowTitles() error: %v", err)
	}
}
