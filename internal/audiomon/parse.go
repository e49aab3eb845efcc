package audiomon

import "strings"

// IsSourceOutputEvent reports whether a pactl subscribe line concerns a
// source-output (a capture stream appearing or disappearing). Lines
// look like:
//
//	Event 'new' on source-output #42
//	Event 'remove' on source-output #42
func IsSourceOutputEvent(line string) bool {
	return strings.Contains(line, "source-output")
}

// ParseSourceOutputApps extracts application.name values from
// `pactl list source-outputs` output.
func ParseSourceOutputApps(listing string) []string {
	var apps []string
	for _, line := range strings.Split(listing, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "application.name") {
			continue
		}
		_, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)
		if value != "" {
			apps = append(apps, value)
		}
	}
	return apps
}
