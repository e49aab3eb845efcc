package source

import (
	"time"

	"github.com/callwatch/callwatch/pkg/winenum"
)

// KnownBrowsers are the browser process names BrowserTabSource is
// restricted to.
var KnownBrowsers = []string{
	"chrome", "google-chrome", "chromium", "chromium-browser",
	"firefox", "firefox-bin",
	"brave", "brave-browser",
	"msedge", "microsoft-edge",
	"vivaldi", "vivaldi-bin",
	"opera",
}

// TabSpec describes the title markers of one browser-hosted meeting
// service.
type TabSpec struct {
	// Service is the human-readable service name ("Google Meet").
	Service string

	Active []string
	Ended  []string
}

// BrowserTabSource detects a call hosted in a browser tab. Same
// matching discipline as NativeAppSource, restricted to known browser
// processes. Browser titles persist stale after a call ends, so the
// ended-marker precedence does the heavy lifting here and there is
// deliberately no frontmost fallback.
type BrowserTabSource struct {
	kind     Kind
	spec     TabSpec
	browsers []string
	enum     winenum.Enumerator
}

func NewBrowserTabSource(kind Kind, spec TabSpec, enum winenum.Enumerator) *BrowserTabSource {
	return &BrowserTabSource{kind: kind, spec: spec, browsers: KnownBrowsers, enum: enum}
}

func (s *BrowserTabSource) Kind() Kind    { return s.kind }
func (s *BrowserTabSource) Label() string { return s.spec.Service }

func (s *BrowserTabSource) Probe() (*Session, error) {
	procs, err := s.enum.Processes()
	if err != nil {
		return nil, err
	}

	for _, pid := range matchProcesses(procs, s.browsers) {
		titles, err := s.enum.WindowTitles(pid)
		if err != nil {
			continue
		}
		for _, title := range titles {
			if !MatchTitle(title, s.spec.Active, s.spec.Ended) {
				continue
			}
			normalized := NormalizeTitle(title, s.spec.Service)
			return &Session{
				SourceKind:     s.kind,
				DisplayTitle:   normalized,
				StartedAt:      time.Now(),
				CorrelationKey: correlationKey(s.kind, normalized),
			}, nil
		}
	}
	return nil, nil
}
