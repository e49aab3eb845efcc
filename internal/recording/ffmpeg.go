package recording

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// FFmpegRecorder records the default PulseAudio source to a mono WAV
// via a background ffmpeg process.
type FFmpegRecorder struct {
	outputDir string

	mu       sync.Mutex
	cmd      *exec.Cmd
	artifact *Artifact
	logFile  *os.File
}

func NewFFmpegRecorder(outputDir string) *FFmpegRecorder {
	return &FFmpegRecorder{outputDir: outputDir}
}

// CheckFFmpeg verifies ffmpeg is installed.
func (r *FFmpegRecorder) CheckFFmpeg() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found in PATH")
	}
	return nil
}

func (r *FFmpegRecorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmd != nil
}

func (r *FFmpegRecorder) Start(title, sourceLabel string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd != nil {
		return fmt.Errorf("a recording is already in progress")
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	id := uuid.New().String()
	now := time.Now()
	name := fmt.Sprintf("%s_%s_%s.wav",
		now.Format("2006-01-02_15-04-05"), sanitizeName(title), id[:8])
	path := filepath.Join(r.outputDir, name)

	cmd := exec.Command("ffmpeg",
		"-f", "pulse",
		"-i", "default",
		"-ac", "1",
		"-ar", "16000",
		"-y",
		path,
	)

	// ffmpeg chatter goes to a side log for diagnostics.
	if logFile, err := os.Create(path + ".ffmpeg.log"); err == nil {
		cmd.Stderr = logFile
		r.logFile = logFile
	}

	if err := cmd.Start(); err != nil {
		r.closeLog()
		return fmt.Errorf("starting ffmpeg: %w", err)
	}

	r.cmd = cmd
	r.artifact = &Artifact{
		ID:          id,
		Path:        path,
		Title:       title,
		SourceLabel: sourceLabel,
		StartedAt:   now,
	}
	return nil
}

func (r *FFmpegRecorder) Stop() (*Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd == nil {
		return nil, fmt.Errorf("no recording in progress")
	}

	// SIGINT lets ffmpeg finalize the WAV header.
	_ = r.cmd.Process.Signal(syscall.SIGINT)
	_ = r.cmd.Wait()

	artifact := r.artifact
	artifact.EndedAt = time.Now()
	r.reset()
	return artifact, nil
}

func (r *FFmpegRecorder) Discard() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd == nil {
		return fmt.Errorf("no recording in progress")
	}

	_ = r.cmd.Process.Signal(syscall.SIGINT)
	_ = r.cmd.Wait()

	path := r.artifact.Path
	r.reset()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing discarded recording: %w", err)
	}
	_ = os.Remove(path + ".ffmpeg.log")
	return nil
}

func (r *FFmpegRecorder) reset() {
	r.closeLog()
	r.cmd = nil
	r.artifact = nil
}

func (r *FFmpegRecorder) closeLog() {
	if r.logFile != nil {
		_ = r.logFile.Close()
		r.logFile = nil
	}
}

// sanitizeName makes a title safe for a file name.
func sanitizeName(title string) string {
	mapped := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			return c
		case c == '-' || c == '_':
			return c
		case c == ' ':
			return '-'
		default:
			return -1
		}
	}, title)

	if len(mapped) > 40 {
		mapped = mapped[:40]
	}
	if mapped == "" {
		mapped = "meeting"
	}
	return mapped
}
