package recording

import (
	"strings"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Weekly Sync", "Weekly-Sync"},
		{"Meeting in Zoom", "Meeting-in-Zoom"},
		{"1:1 with Sam / notes?", "11-with-Sam--notes"},
		{"", "meeting"},
		{"日本語のみ", "meeting"},
		{"already-safe_name", "already-safe_name"},
	}

	for _, tt := range tests {
		if got := sanitizeName(tt.in); got != tt.want {
			t.Errorf("sanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeNameTruncates(t *testing.T) {
	got := sanitizeName(strings.Repeat("a", 100))
	if len(got) != 40 {
		t.Errorf("len = %d, want 40", len(got))
	}
}

func TestStopWithoutRecording(t *testing.T) {
	r := NewFFmpegRecorder(t.TempDir())

	if r.IsRecording() {
		t.Error("fresh recorder reports a recording in progress")
	}
	if _, err := r.Stop(); err == nil {
		t.Error("Stop without a recording should fail")
	}
	if err := r.Discard(); err == nil {
		t.Error("Discard without a recording should fail")
	}
}

func TestFFmpegRecorderIsController(t *testing.T) {
	var _ Controller = NewFFmpegRecorder("")
}
