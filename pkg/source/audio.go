package source

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// SessionChange is one transition of a watched app's audio capture
// state, as reported by an audio monitor.
type SessionChange struct {
	Active bool
	At     time.Time
}

// AudioMonitor delivers audio-session changes for one application.
type AudioMonitor interface {
	Subscribe(ctx context.Context, app string) (<-chan SessionChange, error)
}

// AudioSource is the push-based detection rule for apps that expose no
// inspectable window state. It subscribes once to the audio monitor
// and translates capture transitions into call start/end events.
type AudioSource struct {
	kind  Kind
	label string
	app   string // audio-backend application name to watch
	mon   AudioMonitor

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewAudioSource(kind Kind, label, app string, mon AudioMonitor) *AudioSource {
	return &AudioSource{kind: kind, label: label, app: app, mon: mon}
}

func (s *AudioSource) Kind() Kind    { return s.kind }
func (s *AudioSource) Label() string { return s.label }

func (s *AudioSource) Start(ctx context.Context) (<-chan Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil, fmt.Errorf("audio source %s already started", s.kind)
	}

	ctx, cancel := context.WithCancel(ctx)
	changes, err := s.mon.Subscribe(ctx, s.app)
	if err != nil {
		cancel()
		return nil, err
	}
	s.cancel = cancel

	events := make(chan Event, 4)
	go func() {
		defer close(events)
		for change := range changes {
			events <- s.translate(change)
		}
	}()
	return events, nil
}

func (s *AudioSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return nil
}

func (s *AudioSource) translate(change SessionChange) Event {
	if !change.Active {
		return Event{Kind: s.kind}
	}

	at := change.At
	if at.IsZero() {
		at = time.Now()
	}
	title := NormalizeTitle("", s.label)
	return Event{
		Kind:    s.kind,
		Started: true,
		Session: &Session{
			SourceKind:     s.kind,
			DisplayTitle:   title,
			StartedAt:      at,
			CorrelationKey: correlationKey(s.kind, "audio"),
			Pushed:         true,
		},
	}
}
