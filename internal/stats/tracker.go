// Package stats tracks per-source trigger/keep/discard outcomes and
// makes the adaptive auto-disable decision.
package stats

import (
	"log"
	"sync"
	"time"

	"github.com/callwatch/callwatch/internal/models"
	"github.com/callwatch/callwatch/pkg/source"
)

// DisableThreshold is the number of consecutive discards that disables
// a source. Deliberately consecutive, not cumulative: a source the user
// sometimes discards but often keeps must never be turned off, only one
// the user consistently rejects.
const DisableThreshold = 5

// SoftWarnRemaining is the remaining allowance at or below which a
// softer warning is emitted on each further discard.
const SoftWarnRemaining = 3

// StatStore persists stat records. Failures are tolerated: stats are
// best-effort and must never block detection.
type StatStore interface {
	GetSourceStat(kind string) (*models.SourceStat, error)
	SaveSourceStat(stat *models.SourceStat) error
}

// Tracker mutates per-source counters. Counters are cached in memory so
// the disable decision stays deterministic even when the store fails.
type Tracker struct {
	store StatStore

	mu    sync.Mutex
	cache map[source.Kind]*models.SourceStat
}

func NewTracker(store StatStore) *Tracker {
	return &Tracker{
		store: store,
		cache: make(map[source.Kind]*models.SourceStat),
	}
}

// RecordTrigger counts one auto-started recording for the source.
func (t *Tracker) RecordTrigger(kind source.Kind, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	stat := t.load(kind)
	stat.TriggerCount++
	stat.LastTriggeredAt = &at
	t.persist(stat)
}

// RecordKept counts one recording the user kept and resets the discard
// streak.
func (t *Tracker) RecordKept(kind source.Kind) {
	t.mu.Lock()
	defer t.mu.Unlock()

	stat := t.load(kind)
	stat.KeptCount++
	stat.ConsecutiveDiscards = 0
	t.persist(stat)
}

// RecordDiscard counts one discarded recording. It returns whether the
// disable threshold was crossed by exactly this discard, and how many
// more discards remain before it would be.
func (t *Tracker) RecordDiscard(kind source.Kind) (disabled bool, remaining int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	stat := t.load(kind)
	stat.DiscardCount++
	stat.ConsecutiveDiscards++

	disabled = stat.ConsecutiveDiscards >= DisableThreshold
	remaining = DisableThreshold - int(stat.ConsecutiveDiscards)
	if remaining < 0 {
		remaining = 0
	}
	if disabled {
		// Start a fresh streak so the threshold can fire again if the
		// user re-enables the source and keeps rejecting it.
		stat.ConsecutiveDiscards = 0
	}
	t.persist(stat)
	return disabled, remaining
}

// Stat returns a copy of the current counters for a source.
func (t *Tracker) Stat(kind source.Kind) models.SourceStat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return *t.load(kind)
}

// load returns the cached record, reading through to the store on first
// access. A failed read starts from zero counters; that only delays an
// auto-disable, it never fabricates one.
func (t *Tracker) load(kind source.Kind) *models.SourceStat {
	if stat, ok := t.cache[kind]; ok {
		return stat
	}

	stat, err := t.store.GetSourceStat(string(kind))
	if err != nil {
		log.Printf("stats: failed to load %s, starting fresh: %v", kind, err)
	}
	if stat == nil {
		stat = &models.SourceStat{SourceKind: string(kind)}
	}
	t.cache[kind] = stat
	return stat
}

func (t *Tracker) persist(stat *models.SourceStat) {
	if err := t.store.SaveSourceStat(stat); err != nil {
		log.Printf("stats: failed to persist %s: %v", stat.SourceKind, err)
	}
}
