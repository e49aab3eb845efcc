// Package detector drives the auto-recording lifecycle: it polls
// pull-based signal sources, funnels push events into the same loop,
// and turns matches into recording start/stop/discard requests with
// cooldown and adaptive auto-disable.
package detector

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/callwatch/callwatch/internal/config"
	"github.com/callwatch/callwatch/internal/models"
	"github.com/callwatch/callwatch/internal/notify"
	"github.com/callwatch/callwatch/internal/recording"
	"github.com/callwatch/callwatch/internal/stats"
	"github.com/callwatch/callwatch/pkg/source"
)

// State is the detector lifecycle state.
type State string

const (
	StateIdle          State = "idle"
	StateMonitoring    State = "monitoring"
	StateSessionActive State = "session_active"
)

// SettingsStore provides the enable flags. The detector only reads
// them, and writes solely through the auto-disable path.
type SettingsStore interface {
	DetectionEnabled() bool
	SourceEnabled(kind string) bool
	DisableSource(kind string, at time.Time) error
}

// EventSink records detection lifecycle events and errors, best-effort.
type EventSink interface {
	RecordEvent(event *models.DetectionEvent) error
	CreateErrorLog(errorLog *models.ErrorLog) error
}

// Detector owns the session and cooldown state. Every transition —
// poll tick, push event, discard request — is handled on one goroutine,
// so no two transitions interleave.
type Detector struct {
	cfg        *config.Config
	sources    []source.Source
	pushes     []source.PushSource
	controller recording.Controller
	tracker    *stats.Tracker
	settings   SettingsStore
	sink       EventSink
	notifier   notify.Notifier

	now func() time.Time

	// mu guards the snapshot fields below for readers outside the
	// loop goroutine; mutation still only happens inside the loop.
	mu          sync.Mutex
	running     bool
	current     *source.Session
	autoStarted bool
	// started is the session whose start we own. It can differ from
	// current when a later match supersedes the session that triggered
	// the recording; outcomes are attributed to started.
	started    *source.Session
	lastStopAt time.Time

	stopChan    chan struct{}
	discardChan chan struct{}
	events      chan source.Event
}

func New(
	cfg *config.Config,
	sources []source.Source,
	pushes []source.PushSource,
	controller recording.Controller,
	tracker *stats.Tracker,
	settings SettingsStore,
	sink EventSink,
	notifier notify.Notifier,
) *Detector {
	return &Detector{
		cfg:         cfg,
		sources:     sources,
		pushes:      pushes,
		controller:  controller,
		tracker:     tracker,
		settings:    settings,
		sink:        sink,
		notifier:    notifier,
		now:         time.Now,
		stopChan:    make(chan struct{}),
		discardChan: make(chan struct{}, 1),
		events:      make(chan source.Event, 8),
	}
}

// Run starts monitoring and blocks until ctx is cancelled or Stop is
// called. An in-progress recording is left running on exit; its
// lifecycle is independent once started.
func (d *Detector) Run(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return fmt.Errorf("detector is already running")
	}
	if !d.settings.DetectionEnabled() {
		d.mu.Unlock()
		return fmt.Errorf("meeting detection is disabled")
	}
	d.running = true
	// Fresh channel per run: the previous run's Stop left the old one
	// closed.
	d.stopChan = make(chan struct{})
	stopChan := d.stopChan
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.running = false
		d.mu.Unlock()
	}()

	pushCtx, cancelPush := context.WithCancel(ctx)
	defer cancelPush()
	d.startPushSources(pushCtx)

	log.Printf("Starting meeting detector with %v poll interval", d.cfg.Detector.PollInterval)

	ticker := time.NewTicker(d.cfg.Detector.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Detector stopped by context")
			return ctx.Err()

		case <-stopChan:
			log.Println("Detector stopped")
			return nil

		case <-ticker.C:
			d.tick()

		case ev := <-d.events:
			d.handlePushEvent(ev)

		case <-d.discardChan:
			d.handleDiscard()
		}
	}
}

// Stop exits the monitoring loop. Safe to call from any goroutine;
// idempotent.
func (d *Detector) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		select {
		case <-d.stopChan:
		default:
			close(d.stopChan)
		}
	}
}

// RequestDiscard asks the loop to discard the current auto-started
// recording. Non-blocking; duplicate requests collapse.
func (d *Detector) RequestDiscard() {
	select {
	case d.discardChan <- struct{}{}:
	default:
	}
}

// Snapshot is the externally visible detector state.
type Snapshot struct {
	Running     bool            `json:"running"`
	State       State           `json:"state"`
	Session     *source.Session `json:"session,omitempty"`
	AutoStarted bool            `json:"auto_started"`
	LastStopAt  *time.Time      `json:"last_stop_at,omitempty"`
}

func (d *Detector) Status() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := Snapshot{Running: d.running, AutoStarted: d.autoStarted}
	switch {
	case d.current != nil:
		// A held session is reported whether or not the loop is up;
		// hiding it would misreport a recording in progress.
		snap.State = StateSessionActive
		sess := *d.current
		snap.Session = &sess
	case d.running:
		snap.State = StateMonitoring
	default:
		snap.State = StateIdle
	}
	if !d.lastStopAt.IsZero() {
		t := d.lastStopAt
		snap.LastStopAt = &t
	}
	return snap
}

func (d *Detector) startPushSources(ctx context.Context) {
	for _, push := range d.pushes {
		if !d.settings.SourceEnabled(string(push.Kind())) {
			continue
		}
		events, err := push.Start(ctx)
		if err != nil {
			d.storeError(fmt.Errorf("starting push source %s: %w", push.Kind(), err))
			continue
		}
		go func(kind source.Kind, events <-chan source.Event) {
			for ev := range events {
				select {
				case d.events <- ev:
				case <-ctx.Done():
					return
				}
			}
		}(push.Kind(), events)
	}
}

// tick probes enabled pull sources in priority order; the first match
// wins.
func (d *Detector) tick() {
	var match *source.Session
	for _, src := range d.sources {
		if !d.settings.SourceEnabled(string(src.Kind())) {
			continue
		}
		sess, err := src.Probe()
		if err != nil {
			d.storeError(fmt.Errorf("probing %s: %w", src.Kind(), err))
			continue
		}
		if sess != nil {
			match = sess
			break
		}
	}

	d.mu.Lock()
	current := d.current
	d.mu.Unlock()

	switch {
	case match == nil:
		// Push sessions carry no contradicting poll signal; only
		// their own end event finishes them.
		if current != nil && !current.Pushed {
			d.endSession()
		}
	case current != nil && current.Same(*match):
		// Same session continuing.
	default:
		d.adopt(match)
	}
}

func (d *Detector) handlePushEvent(ev source.Event) {
	d.mu.Lock()
	current := d.current
	d.mu.Unlock()

	if ev.Started {
		if ev.Session == nil {
			return
		}
		// The flag can flip mid-run, including by our own
		// auto-disable, so subscription-time filtering is not enough.
		if !d.settings.SourceEnabled(string(ev.Kind)) {
			return
		}
		if current != nil && current.Same(*ev.Session) {
			return
		}
		d.adopt(ev.Session)
		return
	}

	// End events only apply to the session they belong to. A stale
	// end racing an already-superseded session is dropped.
	if current != nil && current.SourceKind == ev.Kind {
		d.endSession()
	}
}

// adopt makes sess the current session after the cooldown check, then
// requests a recording start.
func (d *Detector) adopt(sess *source.Session) {
	now := d.now()

	d.mu.Lock()
	if !d.lastStopAt.IsZero() && now.Sub(d.lastStopAt) < d.cfg.Detector.Cooldown {
		d.mu.Unlock()
		log.Printf("Ignoring %s match during cooldown", sess.SourceKind)
		return
	}
	d.current = sess
	d.mu.Unlock()

	d.requestStart(sess, now)
}

// requestStart calls the controller at most once per session: an
// already-running recording (manual, or surviving a superseded
// session) suppresses the call.
func (d *Detector) requestStart(sess *source.Session, now time.Time) {
	if d.controller.IsRecording() {
		return
	}

	label := string(sess.SourceKind)
	if err := d.controller.Start(sess.DisplayTitle, label); err != nil {
		// Surfaced once, never auto-retried: the adopted session
		// blocks re-detection until it ends naturally.
		log.Printf("Auto-start failed for %s: %v", sess.SourceKind, err)
		d.recordEvent(sess, models.OutcomeStartFailed, now)
		return
	}

	d.mu.Lock()
	d.autoStarted = true
	d.started = sess
	d.mu.Unlock()

	d.tracker.RecordTrigger(sess.SourceKind, now)
	d.recordEvent(sess, models.OutcomeStarted, now)
	log.Printf("Auto-started recording for %s: %s", sess.SourceKind, sess.DisplayTitle)

	if err := d.notifier.Notify(notify.Notification{
		Summary:     "Recording started",
		Body:        fmt.Sprintf("Detected %s - recording automatically.", sess.DisplayTitle),
		Timeout:     15 * time.Second,
		ActionLabel: "Discard",
		OnAction:    d.RequestDiscard,
	}); err != nil {
		log.Printf("Failed to show start notification: %v", err)
	}
}

// endSession handles a natural end: stop the recording if we started
// it, record the kept outcome, and open the cooldown window.
func (d *Detector) endSession() {
	now := d.now()

	d.mu.Lock()
	sess := d.current
	started := d.started
	autoStarted := d.autoStarted
	d.current = nil
	d.started = nil
	d.autoStarted = false
	d.lastStopAt = now
	d.mu.Unlock()

	if sess == nil {
		return
	}
	log.Printf("Session ended for %s: %s", sess.SourceKind, sess.DisplayTitle)

	if !autoStarted || started == nil {
		return
	}

	if _, err := d.controller.Stop(); err != nil {
		// Local state is already cleared so we cannot get stuck.
		log.Printf("Failed to stop recording for %s: %v", started.SourceKind, err)
		d.recordEvent(started, models.OutcomeStopFailed, now)
		return
	}

	d.tracker.RecordKept(started.SourceKind)
	d.recordEvent(started, models.OutcomeKept, now)
}

// handleDiscard handles a user-initiated discard of the auto-started
// recording. Cooldown starts at the discard itself, same as a natural
// stop.
func (d *Detector) handleDiscard() {
	now := d.now()

	d.mu.Lock()
	started := d.started
	if d.current == nil || !d.autoStarted || started == nil {
		d.mu.Unlock()
		return
	}
	d.current = nil
	d.started = nil
	d.autoStarted = false
	d.lastStopAt = now
	d.mu.Unlock()

	if err := d.controller.Discard(); err != nil {
		log.Printf("Failed to discard recording for %s: %v", started.SourceKind, err)
	}

	d.recordEvent(started, models.OutcomeDiscarded, now)
	disabled, remaining := d.tracker.RecordDiscard(started.SourceKind)

	switch {
	case disabled:
		if err := d.settings.DisableSource(string(started.SourceKind), now); err != nil {
			log.Printf("Failed to disable source %s: %v", started.SourceKind, err)
		}
		d.notifyOnce(notify.Notification{
			Summary: "Auto-detection disabled",
			Body: fmt.Sprintf("Detection via %s was turned off after %d discarded recordings. Re-enable it in settings.",
				started.SourceKind, stats.DisableThreshold),
			Timeout: 30 * time.Second,
		})
	case remaining <= stats.SoftWarnRemaining:
		d.notifyOnce(notify.Notification{
			Summary: "Recording discarded",
			Body: fmt.Sprintf("Detection via %s will be disabled after %d more discards.",
				started.SourceKind, remaining),
			Timeout: 10 * time.Second,
		})
	}
}

func (d *Detector) notifyOnce(n notify.Notification) {
	if err := d.notifier.Notify(n); err != nil {
		log.Printf("Failed to show notification: %v", err)
	}
}

func (d *Detector) recordEvent(sess *source.Session, outcome string, at time.Time) {
	if d.sink == nil {
		return
	}
	event := &models.DetectionEvent{
		Timestamp:      at,
		SourceKind:     string(sess.SourceKind),
		Title:          sess.DisplayTitle,
		CorrelationKey: sess.CorrelationKey,
		Outcome:        outcome,
		CreatedAt:      at,
	}
	if err := d.sink.RecordEvent(event); err != nil {
		log.Printf("Failed to record detection event: %v", err)
	}
}

func (d *Detector) storeError(err error) {
	log.Printf("Detector error: %v", err)
	if d.sink == nil {
		return
	}
	errorLog := &models.ErrorLog{
		Timestamp: d.now(),
		ErrorMsg:  err.Error(),
	}
	if dbErr := d.sink.CreateErrorLog(errorLog); dbErr != nil {
		log.Printf("Failed to store error in database: %v (original error: %v)", dbErr, err)
	}
}
