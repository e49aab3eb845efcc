// Package recording defines the recording collaborator the detector
// drives, plus an ffmpeg-based implementation.
package recording

import "time"

// Artifact identifies one finished recording.
type Artifact struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Title       string    `json:"title"`
	SourceLabel string    `json:"source_label"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
}

// Controller is the recording lifecycle collaborator. Start must not
// be called while IsRecording reports true; the detector enforces
// this. Implementations own capture and encoding entirely.
type Controller interface {
	IsRecording() bool

	Start(title, sourceLabel string) error

	// Stop ends the recording normally and returns its artifact.
	Stop() (*Artifact, error)

	// Discard ends the recording and deletes whatever was captured.
	Discard() error
}
