package models

import (
	"time"

	"gorm.io/gorm"
)

// Detection outcomes recorded per event.
const (
	OutcomeStarted     = "started"
	OutcomeStartFailed = "start_failed"
	OutcomeKept        = "kept"
	OutcomeStopFailed  = "stop_failed"
	OutcomeDiscarded   = "discarded"
)

// DetectionEvent is one lifecycle transition of an auto-detected
// session, kept for reporting.
type DetectionEvent struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Timestamp      time.Time      `gorm:"not null;index" json:"timestamp"`
	SourceKind     string         `gorm:"not null;index" json:"source_kind"`
	Title          string         `gorm:"not null" json:"title"`
	CorrelationKey string         `gorm:"not null" json:"correlation_key"`
	Outcome        string         `gorm:"not null" json:"outcome"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// ErrorLog stores detector errors so transient OS-introspection
// failures stay diagnosable after the fact.
type ErrorLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	ErrorMsg  string         `gorm:"not null" json:"error_msg"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// SourceSummary aggregates outcomes for one source over a report
// period.
type SourceSummary struct {
	SourceKind string  `json:"source_kind"`
	Triggered  int64   `json:"triggered"`
	Kept       int64   `json:"kept"`
	Discarded  int64   `json:"discarded"`
	KeepRate   float64 `json:"keep_rate,omitempty"`
}

// ReportPeriod bounds a report.
type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type"` // "day", "week", "month"
}

// Report is a per-source outcome summary for a period.
type Report struct {
	Period      ReportPeriod    `json:"period"`
	Sources     []SourceSummary `json:"sources"`
	Total       SourceSummary   `json:"total"`
	GeneratedAt time.Time       `json:"generated_at"`
}
