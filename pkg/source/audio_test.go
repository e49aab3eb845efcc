package source

import (
	"context"
	"testing"
	"time"
)

type fakeMonitor struct {
	changes chan SessionChange
}

func (f *fakeMonitor) Subscribe(ctx context.Context, app string) (<-chan SessionChange, error) {
	return f.changes, nil
}

func TestAudioSourceEvents(t *testing.T) {
	mon := &fakeMonitor{changes: make(chan SessionChange, 2)}
	src := NewAudioSource(KindDiscordAudio, "Discord", DiscordPulseApp, mon)

	events, err := src.Start(context.Background())
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer src.Stop()

	started := time.Now()
	mon.changes <- SessionChange{Active: true, At: started}
	mon.changes <- SessionChange{Active: false}
	close(mon.changes)

	ev := <-events
	if !ev.Started {
		t.Fatal("first event should be a start")
	}
	if ev.Session == nil {
		t.Fatal("start event carries no session")
	}
	if !ev.Session.Pushed {
		t.Error("audio sessions must be marked pushed")
	}
	if ev.Session.DisplayTitle != "Meeting in Discord" {
		t.Errorf("DisplayTitle = %q, want %q", ev.Session.DisplayTitle, "Meeting in Discord")
	}
	if !ev.Session.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", ev.Session.StartedAt, started)
	}

	ev = <-events
	if ev.Started {
		t.Fatal("second event should be an end")
	}
	if ev.Kind != KindDiscordAudio {
		t.Errorf("end event kind = %s, want %s", ev.Kind, KindDiscordAudio)
	}

	if _, ok := <-events; ok {
		t.Error("events channel should close when the monitor stream ends")
	}
}

func TestAudioSourceDoubleStart(t *testing.T) {
	mon := &fakeMonitor{changes: make(chan SessionChange)}
	src := NewAudioSource(KindDiscordAudio, "Discord", DiscordPulseApp, mon)

	if _, err := src.Start(context.Background()); err != nil {
		t.Fatalf("first Start() error: %v", err)
	}
	defer src.Stop()

	if _, err := src.Start(context.Background()); err == nil {
		t.Error("second Start() should fail")
	}
}
