package models

import (
	"time"

	"gorm.io/gorm"
)

// SourceStat tracks trigger/keep/discard outcomes for one detection
// rule, persisted across runs. ConsecutiveDiscards drives the adaptive
// auto-disable decision; it resets on any kept outcome.
type SourceStat struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	SourceKind          string         `gorm:"not null;uniqueIndex" json:"source_kind"`
	TriggerCount        int64          `gorm:"not null;default:0" json:"trigger_count"`
	KeptCount           int64          `gorm:"not null;default:0" json:"kept_count"`
	DiscardCount        int64          `gorm:"not null;default:0" json:"discard_count"`
	ConsecutiveDiscards int64          `gorm:"not null;default:0" json:"consecutive_discards"`
	LastTriggeredAt     *time.Time     `json:"last_triggered_at,omitempty"`
	AutoDisabledAt      *time.Time     `json:"auto_disabled_at,omitempty"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

// SourceSetting is one boolean toggle: the global detection switch or a
// per-source enable flag. Absent rows read as enabled.
type SourceSetting struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Key       string         `gorm:"not null;uniqueIndex" json:"key"`
	Enabled   bool           `gorm:"not null;default:true" json:"enabled"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// GlobalDetectionKey is the SourceSetting key for the global toggle.
const GlobalDetectionKey = "detection"
