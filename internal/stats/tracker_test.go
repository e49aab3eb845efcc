package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/callwatch/callwatch/internal/models"
	"github.com/callwatch/callwatch/pkg/source"
)

type memStore struct {
	stats   map[string]*models.SourceStat
	getErr  error
	saveErr error
	saves   int
}

func newMemStore() *memStore {
	return &memStore{stats: make(map[string]*models.SourceStat)}
}

func (m *memStore) GetSourceStat(kind string) (*models.SourceStat, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if stat, ok := m.stats[kind]; ok {
		copied := *stat
		return &copied, nil
	}
	return nil, nil
}

func (m *memStore) SaveSourceStat(stat *models.SourceStat) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	copied := *stat
	m.stats[stat.SourceKind] = &copied
	return nil
}

func TestRecordTrigger(t *testing.T) {
	store := newMemStore()
	tracker := NewTracker(store)

	at := time.Now()
	tracker.RecordTrigger(source.KindZoomApp, at)

	stat := tracker.Stat(source.KindZoomApp)
	if stat.TriggerCount != 1 {
		t.Errorf("TriggerCount = %d, want 1", stat.TriggerCount)
	}
	if stat.LastTriggeredAt == nil || !stat.LastTriggeredAt.Equal(at) {
		t.Errorf("LastTriggeredAt = %v, want %v", stat.LastTriggeredAt, at)
	}
	if store.saves != 1 {
		t.Errorf("store saves = %d, want 1", store.saves)
	}
}

func TestConsecutiveDiscardsDisable(t *testing.T) {
	tracker := NewTracker(newMemStore())

	// The threshold fires on exactly the fifth consecutive discard.
	for i := 1; i <= DisableThreshold; i++ {
		disabled, remaining := tracker.RecordDiscard(source.KindZoomApp)

		wantDisabled := i == DisableThreshold
		if disabled != wantDisabled {
			t.Errorf("discard %d: disabled = %v, want %v", i, disabled, wantDisabled)
		}
		if wantRemaining := DisableThreshold - i; remaining != wantRemaining {
			t.Errorf("discard %d: remaining = %d, want %d", i, remaining, wantRemaining)
		}
	}

	// Firing starts a fresh streak, so the next discard is discard one
	// of a new run, not a re-fire.
	disabled, remaining := tracker.RecordDiscard(source.KindZoomApp)
	if disabled {
		t.Error("discard after a fire must not disable again immediately")
	}
	if remaining != DisableThreshold-1 {
		t.Errorf("remaining = %d after a fire, want %d", remaining, DisableThreshold-1)
	}
}

func TestDisableFiresAgainAfterStreakReset(t *testing.T) {
	tracker := NewTracker(newMemStore())

	fires := 0
	// Two full rounds of consistent rejection, as after the user
	// re-enables the source and keeps discarding.
	for i := 0; i < 2*DisableThreshold; i++ {
		if disabled, _ := tracker.RecordDiscard(source.KindZoomApp); disabled {
			fires++
		}
	}
	if fires != 2 {
		t.Errorf("threshold fired %d times over two full streaks, want 2", fires)
	}
}

func TestKeptResetsStreak(t *testing.T) {
	tracker := NewTracker(newMemStore())

	// 4 discards, 1 keep, 4 discards: never disables.
	for i := 0; i < 4; i++ {
		if disabled, _ := tracker.RecordDiscard(source.KindZoomApp); disabled {
			t.Fatalf("disabled after %d discards, threshold is %d", i+1, DisableThreshold)
		}
	}

	tracker.RecordKept(source.KindZoomApp)
	if stat := tracker.Stat(source.KindZoomApp); stat.ConsecutiveDiscards != 0 {
		t.Errorf("ConsecutiveDiscards = %d after keep, want 0", stat.ConsecutiveDiscards)
	}

	for i := 0; i < 4; i++ {
		if disabled, _ := tracker.RecordDiscard(source.KindZoomApp); disabled {
			t.Fatalf("disabled on discard %d after a keep reset", i+1)
		}
	}
}

func TestDiscardCountsAreCumulative(t *testing.T) {
	tracker := NewTracker(newMemStore())

	tracker.RecordDiscard(source.KindZoomApp)
	tracker.RecordKept(source.KindZoomApp)
	tracker.RecordDiscard(source.KindZoomApp)

	stat := tracker.Stat(source.KindZoomApp)
	if stat.DiscardCount != 2 {
		t.Errorf("DiscardCount = %d, want 2", stat.DiscardCount)
	}
	if stat.KeptCount != 1 {
		t.Errorf("KeptCount = %d, want 1", stat.KeptCount)
	}
	if stat.ConsecutiveDiscards != 1 {
		t.Errorf("ConsecutiveDiscards = %d, want 1", stat.ConsecutiveDiscards)
	}
}

func TestTrackerLoadsPersistedState(t *testing.T) {
	store := newMemStore()
	store.stats["zoom-app"] = &models.SourceStat{
		SourceKind:          "zoom-app",
		ConsecutiveDiscards: DisableThreshold - 1,
	}
	tracker := NewTracker(store)

	disabled, _ := tracker.RecordDiscard(source.KindZoomApp)
	if !disabled {
		t.Error("persisted streak should count toward the threshold")
	}
}

func TestPersistenceFailureDoesNotBlock(t *testing.T) {
	store := newMemStore()
	store.saveErr = errors.New("disk full")
	store.getErr = errors.New("disk full")
	tracker := NewTracker(store)

	// Counters keep working in memory; the threshold still fires.
	for i := 1; i < DisableThreshold; i++ {
		if disabled, _ := tracker.RecordDiscard(source.KindZoomApp); disabled {
			t.Fatalf("disabled too early at discard %d", i)
		}
	}
	if disabled, _ := tracker.RecordDiscard(source.KindZoomApp); !disabled {
		t.Error("threshold should fire despite persistence failures")
	}
}

func TestSourcesAreIndependent(t *testing.T) {
	tracker := NewTracker(newMemStore())

	for i := 0; i < DisableThreshold; i++ {
		tracker.RecordDiscard(source.KindZoomApp)
	}

	if stat := tracker.Stat(source.KindMeetTab); stat.ConsecutiveDiscards != 0 {
		t.Errorf("unrelated source has ConsecutiveDiscards = %d, want 0", stat.ConsecutiveDiscards)
	}
}
