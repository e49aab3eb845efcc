package source

import (
	"context"
	"time"
)

// Kind identifies one detection rule (e.g. "zoom-app", "meet-tab").
// Stats and enable flags are keyed by Kind.
type Kind string

const (
	KindZoomApp      Kind = "zoom-app"
	KindTeamsApp     Kind = "teams-app"
	KindZoomTab      Kind = "zoom-tab"
	KindMeetTab      Kind = "meet-tab"
	KindTeamsTab     Kind = "teams-tab"
	KindDiscordAudio Kind = "discord-audio"
)

// Session is one detected meeting. Two sessions are the same meeting
// continuing when kind and correlation key match.
type Session struct {
	SourceKind     Kind
	DisplayTitle   string
	StartedAt      time.Time
	CorrelationKey string

	// Pushed marks sessions from push-based sources. They are never
	// ended by poll absence, only by their own end event.
	Pushed bool
}

// Same reports whether other is the same meeting continuing.
func (s Session) Same(other Session) bool {
	return s.SourceKind == other.SourceKind && s.CorrelationKey == other.CorrelationKey
}

// Source is a pull-based detection rule. Probe is a pure observation:
// it inspects the system and reports the meeting it sees, or nil. The
// caller controls polling frequency.
type Source interface {
	Kind() Kind
	Label() string
	Probe() (*Session, error)
}

// Event is a call-started or call-ended signal from a push source.
type Event struct {
	Kind    Kind
	Started bool
	Session *Session // set when Started
}

// PushSource emits start/end events on its own instead of being polled.
// Used for apps with no inspectable window state.
type PushSource interface {
	Kind() Kind
	Label() string

	// Start subscribes and returns the event stream. The stream is
	// closed when ctx is cancelled or Stop is called.
	Start(ctx context.Context) (<-chan Event, error)

	Stop() error
}
