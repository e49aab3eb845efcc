package winenum

// ProcessInfo describes one running process as seen by an Enumerator.
type ProcessInfo struct {
	PID     int
	Name    string
	Cmdline string
}

// FocusedWindow is the accessibility-style focused window read. Title
// may be empty when the backend can identify the focused process but
// cannot read titles.
type FocusedWindow struct {
	Title string
	PID   int
}

// Enumerator lists processes and their window titles. WindowTitles is
// best-effort and may legitimately return nothing (sandboxed apps,
// no display server).
type Enumerator interface {
	Processes() ([]ProcessInfo, error)

	WindowTitles(pid int) ([]string, error)

	Close() error
}

// FocusReader reads the focused window when full enumeration is
// unavailable. Granted reports whether the backend can actually read
// titles; an ungranted reader may still identify the frontmost process.
type FocusReader interface {
	Granted() bool
	Focused() (*FocusedWindow, error)
}
