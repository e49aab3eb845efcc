package audiomon

import "testing"

func TestIsSourceOutputEvent(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Event 'new' on source-output #42", true},
		{"Event 'remove' on source-output #42", true},
		{"Event 'change' on sink #0", false},
		{"Event 'new' on client #128", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsSourceOutputEvent(tt.line); got != tt.want {
			t.Errorf("IsSourceOutputEvent(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestParseSourceOutputApps(t *testing.T) {
	listing := `Source Output #42
	Driver: protocol-native.c
	Owner Module: 9
	Client: 128
	Properties:
		media.name = "RecordStream"
		application.name = "WEBRTC VoiceEngine"
		application.process.binary = "Discord"

Source Output #43
	Properties:
		application.name = "OBS"
`

	apps := ParseSourceOutputApps(listing)
	want := []string{"WEBRTC VoiceEngine", "OBS"}
	if len(apps) != len(want) {
		t.Fatalf("ParseSourceOutputApps returned %v, want %v", apps, want)
	}
	for i := range want {
		if apps[i] != want[i] {
			t.Errorf("apps[%d] = %q, want %q", i, apps[i], want[i])
		}
	}
}

func TestParseSourceOutputAppsEmpty(t *testing.T) {
	if apps := ParseSourceOutputApps(""); len(apps) != 0 {
		t.Errorf("ParseSourceOutputApps(\"\") = %v, want none", apps)
	}
	if apps := ParseSourceOutputApps("application.name = \"\""); len(apps) != 0 {
		t.Errorf("empty name should be skipped, got %v", apps)
	}
}
