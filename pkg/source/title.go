package source

import (
	"strings"
)

// maxTitleLen bounds display titles so a runaway tab title cannot blow
// up notifications or file names.
const maxTitleLen = 80

// chromeSuffixes are app/browser decorations commonly appended to
// window titles, stripped during normalization. Longer entries first so
// "Zoom Meeting" is removed before "Zoom".
var chromeSuffixes = []string{
	"Zoom Meeting",
	"Zoom Workplace",
	"Zoom",
	"Microsoft Teams",
	"Google Meet",
	"Google Chrome",
	"Mozilla Firefox",
	"Chromium",
	"Brave",
	"Microsoft Edge",
	"Vivaldi",
	"Opera",
	"Webex",
	"Discord",
}

var suffixSeparators = []string{" - ", " | "}

// NormalizeTitle turns a raw window title into a non-empty,
// display-safe meeting title. Known chrome suffixes are stripped, the
// result is truncated, and an empty remainder falls back to
// "Meeting in <app>".
func NormalizeTitle(title, app string) string {
	t := strings.TrimSpace(title)

	for changed := true; changed; {
		changed = false
		for _, sep := range suffixSeparators {
			for _, suffix := range chromeSuffixes {
				tail := sep + suffix
				if len(t) > len(tail) && strings.EqualFold(t[len(t)-len(tail):], tail) {
					t = strings.TrimSpace(t[:len(t)-len(tail)])
					changed = true
				}
			}
		}
	}

	if runes := []rune(t); len(runes) > maxTitleLen {
		t = strings.TrimSpace(string(runes[:maxTitleLen]))
	}

	if t == "" {
		return "Meeting in " + app
	}
	return t
}

// MatchTitle classifies a window title against positive and ended
// marker lists, case-insensitively. Ended markers always win: a stale
// post-call screen must never read as an active meeting even when its
// title still carries a positive keyword.
func MatchTitle(title string, active, ended []string) bool {
	lower := strings.ToLower(title)

	for _, marker := range ended {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return false
		}
	}
	for _, marker := range active {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

// correlationKey derives the session identity from a normalized title.
// Same title while the meeting runs means the same session.
func correlationKey(kind Kind, normalizedTitle string) string {
	return string(kind) + ":" + strings.ToLower(normalizedTitle)
}
