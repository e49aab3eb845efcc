package source

import (
	"strings"
	"time"

	"github.com/callwatch/callwatch/pkg/winenum"
)

// AppSpec describes how to recognize one native app's in-call state.
type AppSpec struct {
	// Name is the human-readable app name ("Zoom").
	Name string

	// Processes are process names identifying the app, matched
	// case-insensitively against name and command line.
	Processes []string

	// Active are title markers of an in-call window.
	Active []string

	// Ended are title markers of lobby/home/post-call screens. They
	// take precedence over Active.
	Ended []string
}

// NativeAppSource detects a call inside a native app by matching its
// processes and classifying their window titles. When titles are
// unreadable it falls back to the focus reader; when that permission is
// ungranted it degrades to a loose frontmost-process-implies-active
// heuristic, kept isolated here so it can be tightened without
// touching the orchestrator.
type NativeAppSource struct {
	kind  Kind
	spec  AppSpec
	enum  winenum.Enumerator
	focus winenum.FocusReader
}

func NewNativeAppSource(kind Kind, spec AppSpec, enum winenum.Enumerator, focus winenum.FocusReader) *NativeAppSource {
	return &NativeAppSource{kind: kind, spec: spec, enum: enum, focus: focus}
}

func (s *NativeAppSource) Kind() Kind    { return s.kind }
func (s *NativeAppSource) Label() string { return s.spec.Name }

func (s *NativeAppSource) Probe() (*Session, error) {
	procs, err := s.enum.Processes()
	if err != nil {
		return nil, err
	}

	pids := matchProcesses(procs, s.spec.Processes)
	if len(pids) == 0 {
		return nil, nil
	}

	sawTitle := false
	for _, pid := range pids {
		titles, err := s.enum.WindowTitles(pid)
		if err != nil {
			continue
		}
		for _, title := range titles {
			sawTitle = true
			if MatchTitle(title, s.spec.Active, s.spec.Ended) {
				return s.session(title), nil
			}
		}
	}
	if sawTitle || s.focus == nil {
		return nil, nil
	}

	// No titles at all: try the focused window.
	fw, err := s.focus.Focused()
	if err != nil || fw == nil {
		return nil, nil
	}
	if !containsPID(pids, fw.PID) {
		return nil, nil
	}
	if s.focus.Granted() && fw.Title != "" {
		if MatchTitle(fw.Title, s.spec.Active, s.spec.Ended) {
			return s.session(fw.Title), nil
		}
		return nil, nil
	}

	// Ungranted: the app being frontmost is the best signal left.
	sess := s.session("")
	sess.CorrelationKey = correlationKey(s.kind, "frontmost")
	return sess, nil
}

func (s *NativeAppSource) session(title string) *Session {
	normalized := NormalizeTitle(title, s.spec.Name)
	return &Session{
		SourceKind:     s.kind,
		DisplayTitle:   normalized,
		StartedAt:      time.Now(),
		CorrelationKey: correlationKey(s.kind, normalized),
	}
}

func matchProcesses(procs []winenum.ProcessInfo, names []string) []int {
	var pids []int
	for _, p := range procs {
		for _, name := range names {
			if strings.EqualFold(p.Name, name) ||
				strings.Contains(strings.ToLower(p.Cmdline), strings.ToLower(name)) {
				pids = append(pids, p.PID)
				break
			}
		}
	}
	return pids
}

func containsPID(pids []int, pid int) bool {
	for _, p := range pids {
		if p == pid {
			return true
		}
	}
	return false
}
