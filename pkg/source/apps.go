package source

import "github.com/callwatch/callwatch/pkg/winenum"

// Built-in detection rules. Native app rules come before browser rules:
// the orchestrator polls in slice order and native matches are cheaper
// and more authoritative than tab titles.

// ZoomApp matches the Zoom desktop client. The home window titles
// ("Zoom Workplace", "Zoom Cloud Meetings") carry no active marker and
// so never match.
var ZoomApp = AppSpec{
	Name:      "Zoom",
	Processes: []string{"zoom", "zoom.us", "ZoomWorkplace"},
	Active:    []string{"zoom meeting", "zoom webinar"},
	Ended: []string{
		"you left the meeting",
		"this meeting has been ended",
		"waiting for the host",
	},
}

// TeamsApp matches the Microsoft Teams desktop client (including the
// unofficial teams-for-linux wrapper).
var TeamsApp = AppSpec{
	Name:      "Microsoft Teams",
	Processes: []string{"teams", "ms-teams", "teams-for-linux"},
	Active:    []string{"meeting in progress", "call in progress", "| meeting", "meeting with"},
	Ended: []string{
		"call ended",
		"you left",
		"meeting ended",
	},
}

var tabEnded = []string{
	"you left the meeting",
	"meeting ended",
	"the meeting has ended",
	"thanks for joining",
	"you've been removed",
	"return to home screen",
}

// MeetTab matches a Google Meet tab. In-call tabs are titled
// "Meet - <code or name>"; the landing page is just "Google Meet" and
// stays unmatched.
var MeetTab = TabSpec{
	Service: "Google Meet",
	Active:  []string{"meet - ", "meet – ", "- google meet"},
	Ended:   tabEnded,
}

// ZoomTab matches the Zoom web client.
var ZoomTab = TabSpec{
	Service: "Zoom",
	Active:  []string{"zoom meeting", "zoom webinar"},
	Ended:   tabEnded,
}

// TeamsTab matches Teams running in a browser.
var TeamsTab = TabSpec{
	Service: "Microsoft Teams",
	Active:  []string{"meeting in progress", "call in progress", "meeting | microsoft teams"},
	Ended:   tabEnded,
}

// DiscordPulseApp is the application.name Discord registers with
// PulseAudio/PipeWire while capturing the microphone.
const DiscordPulseApp = "WEBRTC VoiceEngine"

// DefaultPullSources builds the built-in pull rules in priority order.
func DefaultPullSources(enum winenum.Enumerator, focus winenum.FocusReader) []Source {
	return []Source{
		NewNativeAppSource(KindZoomApp, ZoomApp, enum, focus),
		NewNativeAppSource(KindTeamsApp, TeamsApp, enum, focus),
		NewBrowserTabSource(KindMeetTab, MeetTab, enum),
		NewBrowserTabSource(KindZoomTab, ZoomTab, enum),
		NewBrowserTabSource(KindTeamsTab, TeamsTab, enum),
	}
}

// DefaultPushSources builds the built-in push rules.
func DefaultPushSources(mon AudioMonitor) []PushSource {
	return []PushSource{
		NewAudioSource(KindDiscordAudio, "Discord", DiscordPulseApp, mon),
	}
}
