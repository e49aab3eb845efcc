package database

import (
	"time"

	"github.com/callwatch/callwatch/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository handles all database access: per-source stats, enable
// flags, the detection event log, and error logs. It implements the
// detector's SettingsStore and EventSink and the stats tracker's
// StatStore.
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// GetSourceStat returns the stat record for a source, or nil when none
// has been written yet.
func (r *Repository) GetSourceStat(kind string) (*models.SourceStat, error) {
	var stat models.SourceStat
	result := r.db.Where("source_kind = ?", kind).First(&stat)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get source stat")
	}
	return &stat, nil
}

// SaveSourceStat upserts a stat record.
func (r *Repository) SaveSourceStat(stat *models.SourceStat) error {
	result := r.db.Save(stat)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to save source stat")
	}
	return nil
}

// ListSourceStats returns all stat records.
func (r *Repository) ListSourceStats() ([]*models.SourceStat, error) {
	var stats []*models.SourceStat
	result := r.db.Order("source_kind ASC").Find(&stats)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to list source stats")
	}
	return stats, nil
}

// settingEnabled reads one toggle; absent rows default to enabled.
func (r *Repository) settingEnabled(key string) bool {
	var setting models.SourceSetting
	result := r.db.Where("key = ?", key).First(&setting)
	if result.Error != nil {
		return true
	}
	return setting.Enabled
}

// DetectionEnabled reports the global detection toggle.
func (r *Repository) DetectionEnabled() bool {
	return r.settingEnabled(models.GlobalDetectionKey)
}

// SourceEnabled reports whether one detection rule is enabled.
func (r *Repository) SourceEnabled(kind string) bool {
	return r.settingEnabled(kind)
}

// SetEnabled writes one toggle. Re-enabling a source clears its
// auto-disable stamp so the record reflects the user's override.
func (r *Repository) SetEnabled(key string, enabled bool) error {
	var setting models.SourceSetting
	result := r.db.Where("key = ?", key).First(&setting)
	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			return errors.Wrap(result.Error, "failed to read setting")
		}
		setting = models.SourceSetting{Key: key, Enabled: enabled}
		if err := r.db.Create(&setting).Error; err != nil {
			return errors.Wrap(err, "failed to create setting")
		}
	} else {
		setting.Enabled = enabled
		if err := r.db.Save(&setting).Error; err != nil {
			return errors.Wrap(err, "failed to update setting")
		}
	}

	if !enabled {
		return nil
	}
	stat, err := r.GetSourceStat(key)
	if err != nil {
		return err
	}
	if stat == nil || stat.AutoDisabledAt == nil {
		return nil
	}
	stat.AutoDisabledAt = nil
	return r.SaveSourceStat(stat)
}

// DisableSource persistently turns a detection rule off and stamps the
// auto-disable time on its stat record.
func (r *Repository) DisableSource(kind string, at time.Time) error {
	if err := r.SetEnabled(kind, false); err != nil {
		return err
	}

	stat, err := r.GetSourceStat(kind)
	if err != nil {
		return err
	}
	if stat == nil {
		stat = &models.SourceStat{SourceKind: kind}
	}
	stat.AutoDisabledAt = &at
	return r.SaveSourceStat(stat)
}

// RecordEvent inserts a detection lifecycle event.
func (r *Repository) RecordEvent(event *models.DetectionEvent) error {
	result := r.db.Create(event)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert detection event")
	}
	return nil
}

// GetEventsSince retrieves all detection events since a given time.
func (r *Repository) GetEventsSince(since time.Time) ([]*models.DetectionEvent, error) {
	var events []*models.DetectionEvent
	result := r.db.Where("timestamp >= ?", since).Order("timestamp ASC").Find(&events)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query detection events")
	}
	return events, nil
}

// GetOutcomeSummarySince aggregates per-source outcome counts since a
// given time. SQL does the counting; the reporter derives rates.
func (r *Repository) GetOutcomeSummarySince(since time.Time) ([]models.SourceSummary, error) {
	var summaries []models.SourceSummary

	result := r.db.Model(&models.DetectionEvent{}).
		Select(`source_kind,
			SUM(CASE WHEN outcome = 'started' THEN 1 ELSE 0 END) as triggered,
			SUM(CASE WHEN outcome = 'kept' THEN 1 ELSE 0 END) as kept,
			SUM(CASE WHEN outcome = 'discarded' THEN 1 ELSE 0 END) as discarded`).
		Where("timestamp >= ?", since).
		Group("source_kind").
		Order("triggered DESC").
		Scan(&summaries)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query outcome summary")
	}

	return summaries, nil
}

// DeleteOldEvents deletes events older than a specified date.
func (r *Repository) DeleteOldEvents(before time.Time) (int64, error) {
	result := r.db.Where("timestamp < ?", before).Delete(&models.DetectionEvent{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old events")
	}
	return result.RowsAffected, nil
}

// CreateErrorLog inserts a new error log into the database
func (r *Repository) CreateErrorLog(errorLog *models.ErrorLog) error {
	result := r.db.Create(errorLog)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}
