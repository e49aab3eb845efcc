package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/callwatch/callwatch/internal/models"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := Connect(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Initialize(); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	return NewRepository(db)
}

func TestSettingsDefaultEnabled(t *testing.T) {
	repo := testRepo(t)

	if !repo.DetectionEnabled() {
		t.Error("DetectionEnabled() = false with no rows, want true")
	}
	if !repo.SourceEnabled("zoom-app") {
		t.Error("SourceEnabled() = false with no rows, want true")
	}
}

func TestDisableSourceAndReenable(t *testing.T) {
	repo := testRepo(t)
	at := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

	if err := repo.DisableSource("zoom-app", at); err != nil {
		t.Fatalf("DisableSource() error: %v", err)
	}

	if repo.SourceEnabled("zoom-app") {
		t.Error("SourceEnabled() = true after DisableSource")
	}
	stat, err := repo.GetSourceStat("zoom-app")
	if err != nil {
		t.Fatalf("GetSourceStat() error: %v", err)
	}
	if stat == nil || stat.AutoDisabledAt == nil {
		t.Fatal("AutoDisabledAt not stamped by DisableSource")
	}

	// Re-enabling is the user's override: the flag flips back and the
	// auto-disable stamp is cleared.
	if err := repo.SetEnabled("zoom-app", true); err != nil {
		t.Fatalf("SetEnabled() error: %v", err)
	}
	if !repo.SourceEnabled("zoom-app") {
		t.Error("SourceEnabled() = false after re-enable")
	}
	stat, err = repo.GetSourceStat("zoom-app")
	if err != nil {
		t.Fatalf("GetSourceStat() error: %v", err)
	}
	if stat.AutoDisabledAt != nil {
		t.Errorf("AutoDisabledAt = %v after re-enable, want cleared", stat.AutoDisabledAt)
	}
}

func TestSourceStatRoundTrip(t *testing.T) {
	repo := testRepo(t)

	stat, err := repo.GetSourceStat("meet-tab")
	if err != nil {
		t.Fatalf("GetSourceStat() error: %v", err)
	}
	if stat != nil {
		t.Fatalf("GetSourceStat() = %+v for an unknown source, want nil", stat)
	}

	if err := repo.SaveSourceStat(&models.SourceStat{
		SourceKind:   "meet-tab",
		TriggerCount: 3,
		KeptCount:    2,
	}); err != nil {
		t.Fatalf("SaveSourceStat() error: %v", err)
	}

	stat, err = repo.GetSourceStat("meet-tab")
	if err != nil {
		t.Fatalf("GetSourceStat() error: %v", err)
	}
	if stat == nil || stat.TriggerCount != 3 || stat.KeptCount != 2 {
		t.Errorf("GetSourceStat() = %+v, want the saved counters", stat)
	}
}

func TestOutcomeSummarySince(t *testing.T) {
	repo := testRepo(t)
	base := time.Now().Add(-time.Hour)

	for i, outcome := range []string{
		models.OutcomeStarted, models.OutcomeKept,
		models.OutcomeStarted, models.OutcomeDiscarded,
	} {
		err := repo.RecordEvent(&models.DetectionEvent{
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			SourceKind: "zoom-app",
			Title:      "Sync",
			Outcome:    outcome,
		})
		if err != nil {
			t.Fatalf("RecordEvent() error: %v", err)
		}
	}

	summaries, err := repo.GetOutcomeSummarySince(base.Add(-time.Minute))
	if err != nil {
		t.Fatalf("GetOutcomeSummarySince() error: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("summaries = %d, want 1", len(summaries))
	}
	s := summaries[0]
	if s.SourceKind != "zoom-app" || s.Triggered != 2 || s.Kept != 1 || s.Discarded != 1 {
		t.Errorf("summary = %+v, want 2 triggered / 1 kept / 1 discarded for zoom-app", s)
	}
}
