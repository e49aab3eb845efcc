package source

import (
	"errors"
	"testing"

	"github.com/callwatch/callwatch/pkg/winenum"
)

type fakeEnumerator struct {
	procs    []winenum.ProcessInfo
	titles   map[int][]string
	procsErr error
}

func (f *fakeEnumerator) Processes() ([]winenum.ProcessInfo, error) {
	return f.procs, f.procsErr
}

func (f *fakeEnumerator) WindowTitles(pid int) ([]string, error) {
	return f.titles[pid], nil
}

func (f *fakeEnumerator) Close() error { return nil }

type fakeFocus struct {
	granted bool
	window  *winenum.FocusedWindow
	err     error
}

func (f *fakeFocus) Granted() bool { return f.granted }

func (f *fakeFocus) Focused() (*winenum.FocusedWindow, error) {
	return f.window, f.err
}

var zoomSpec = AppSpec{
	Name:      "Zoom",
	Processes: []string{"zoom"},
	Active:    []string{"zoom meeting"},
	Ended:     []string{"you left the meeting"},
}

func TestNativeAppSourceMatch(t *testing.T) {
	enum := &fakeEnumerator{
		procs:  []winenum.ProcessInfo{{PID: 100, Name: "zoom"}},
		titles: map[int][]string{100: {"Weekly Sync - Zoom Meeting"}},
	}
	src := NewNativeAppSource(KindZoomApp, zoomSpec, enum, nil)

	sess, err := src.Probe()
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}
	if sess == nil {
		t.Fatal("Probe() = nil, want session")
	}
	if sess.SourceKind != KindZoomApp {
		t.Errorf("SourceKind = %s, want %s", sess.SourceKind, KindZoomApp)
	}
	if sess.DisplayTitle != "Weekly Sync" {
		t.Errorf("DisplayTitle = %q, want %q", sess.DisplayTitle, "Weekly Sync")
	}
	if sess.Pushed {
		t.Error("native app session should not be marked pushed")
	}
}

func TestNativeAppSourceNoProcess(t *testing.T) {
	enum := &fakeEnumerator{
		procs: []winenum.ProcessInfo{{PID: 1, Name: "systemd"}},
	}
	src := NewNativeAppSource(KindZoomApp, zoomSpec, enum, nil)

	sess, err := src.Probe()
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}
	if sess != nil {
		t.Errorf("Probe() = %+v, want nil without a matching process", sess)
	}
}

func TestNativeAppSourceEndedPrecedence(t *testing.T) {
	// A stale post-call screen still carrying the positive keyword
	// must never classify as active.
	enum := &fakeEnumerator{
		procs:  []winenum.ProcessInfo{{PID: 100, Name: "zoom"}},
		titles: map[int][]string{100: {"You left the meeting - Zoom Meeting"}},
	}
	src := NewNativeAppSource(KindZoomApp, zoomSpec, enum, nil)

	sess, err := src.Probe()
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}
	if sess != nil {
		t.Errorf("Probe() = %+v, want nil for ended title", sess)
	}
}

func TestNativeAppSourceHomeScreenNoMatch(t *testing.T) {
	enum := &fakeEnumerator{
		procs:  []winenum.ProcessInfo{{PID: 100, Name: "zoom"}},
		titles: map[int][]string{100: {"Zoom - Home"}},
	}
	src := NewNativeAppSource(KindZoomApp, zoomSpec, enum, nil)

	sess, err := src.Probe()
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}
	if sess != nil {
		t.Errorf("Probe() = %+v, want nil for home screen", sess)
	}
}

func TestNativeAppSourceGrantedFallback(t *testing.T) {
	// No titles from enumeration but the granted focus reader sees an
	// in-meeting window for the app's pid.
	enum := &fakeEnumerator{
		procs: []winenum.ProcessInfo{{PID: 100, Name: "zoom"}},
	}
	focus := &fakeFocus{
		granted: true,
		window:  &winenum.FocusedWindow{Title: "Standup - Zoom Meeting", PID: 100},
	}
	src := NewNativeAppSource(KindZoomApp, zoomSpec, enum, focus)

	sess, err := src.Probe()
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}
	if sess == nil {
		t.Fatal("Probe() = nil, want session via focus fallback")
	}
	if sess.DisplayTitle != "Standup" {
		t.Errorf("DisplayTitle = %q, want %q", sess.DisplayTitle, "Standup")
	}
}

func TestNativeAppSourceFrontmostHeuristic(t *testing.T) {
	// Ungranted reader: the app being frontmost is taken as active,
	// with a generic title.
	enum := &fakeEnumerator{
		procs: []winenum.ProcessInfo{{PID: 100, Name: "zoom"}},
	}
	focus := &fakeFocus{
		granted: false,
		window:  &winenum.FocusedWindow{PID: 100},
	}
	src := NewNativeAppSource(KindZoomApp, zoomSpec, enum, focus)

	sess, err := src.Probe()
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}
	if sess == nil {
		t.Fatal("Probe() = nil, want heuristic session")
	}
	if sess.DisplayTitle != "Meeting in Zoom" {
		t.Errorf("DisplayTitle = %q, want %q", sess.DisplayTitle, "Meeting in Zoom")
	}
}

func TestNativeAppSourceFrontmostOtherApp(t *testing.T) {
	enum := &fakeEnumerator{
		procs: []winenum.ProcessInfo{{PID: 100, Name: "zoom"}},
	}
	focus := &fakeFocus{
		granted: false,
		window:  &winenum.FocusedWindow{PID: 200},
	}
	src := NewNativeAppSource(KindZoomApp, zoomSpec, enum, focus)

	sess, err := src.Probe()
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}
	if sess != nil {
		t.Errorf("Probe() = %+v, want nil when another app is frontmost", sess)
	}
}

func TestNativeAppSourceFocusErrorDegrades(t *testing.T) {
	enum := &fakeEnumerator{
		procs: []winenum.ProcessInfo{{PID: 100, Name: "zoom"}},
	}
	focus := &fakeFocus{granted: false, err: errors.New("no focus")}
	src := NewNativeAppSource(KindZoomApp, zoomSpec, enum, focus)

	sess, err := src.Probe()
	if err != nil {
		t.Fatalf("Probe() should not propagate focus errors, got: %v", err)
	}
	if sess != nil {
		t.Errorf("Probe() = %+v, want nil when focus read fails", sess)
	}
}

func TestNativeAppSourceSameTitleSameSession(t *testing.T) {
	enum := &fakeEnumerator{
		procs:  []winenum.ProcessInfo{{PID: 100, Name: "zoom"}},
		titles: map[int][]string{100: {"Weekly Sync - Zoom Meeting"}},
	}
	src := NewNativeAppSource(KindZoomApp, zoomSpec, enum, nil)

	first, _ := src.Probe()
	second, _ := src.Probe()
	if first == nil || second == nil {
		t.Fatal("expected sessions from both probes")
	}
	if !first.Same(*second) {
		t.Error("same title should yield the same session identity")
	}
}

func TestSourceInterfaces(t *testing.T) {
	var _ Source = (*NativeAppSource)(nil)
	var _ Source = (*BrowserTabSource)(nil)
	var _ PushSource = (*AudioSource)(nil)
}
