package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/callwatch/callwatch/internal/audiomon"
	"github.com/callwatch/callwatch/internal/daemon"
	"github.com/callwatch/callwatch/internal/database"
	"github.com/callwatch/callwatch/internal/detector"
	"github.com/callwatch/callwatch/internal/notify"
	"github.com/callwatch/callwatch/internal/recording"
	"github.com/callwatch/callwatch/internal/stats"
	"github.com/callwatch/callwatch/internal/web"
	"github.com/callwatch/callwatch/pkg/source"
	"github.com/callwatch/callwatch/pkg/winenum/hybrid"
)

func NewStartCmd(deps *Dependencies) *cobra.Command {
	var serveWeb bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the detection daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(deps, serveWeb)
		},
	}

	cmd.Flags().BoolVar(&serveWeb, "web", false, "also serve the status API")
	return cmd
}

func runStart(deps *Dependencies, serveWeb bool) error {
	cfg := deps.Config

	pidFile := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := pidFile.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return fmt.Errorf("callwatch is already running (PID %d)", pid)
	}
	if err := pidFile.Write(); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	defer func() { _ = pidFile.Remove() }()

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	if err := db.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	repo := database.NewRepository(db)

	enum, focus, err := hybrid.New()
	if err != nil {
		return fmt.Errorf("failed to open introspection backend: %w", err)
	}
	defer enum.Close()

	pullSources := source.DefaultPullSources(enum, focus)

	var pushSources []source.PushSource
	if audiomon.Available() {
		pushSources = source.DefaultPushSources(audiomon.NewMonitor())
	} else {
		log.Println("pactl not found, audio-based detection disabled")
	}

	recorder := recording.NewFFmpegRecorder(cfg.Recording.OutputDir)
	if err := recorder.CheckFFmpeg(); err != nil {
		return fmt.Errorf("recording unavailable: %w", err)
	}

	var notifier notify.Notifier = notify.LogNotifier{}
	if desktop := (notify.DesktopNotifier{}); desktop.Available() {
		notifier = desktop
	}

	tracker := stats.NewTracker(repo)
	det := detector.New(cfg, pullSources, pushSources, recorder, tracker, repo, repo, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received %v, shutting down", sig)
		cancel()
	}()

	var webServer *web.Server
	if serveWeb {
		webServer = web.NewServer(cfg, repo, det)
		go func() {
			if err := webServer.Start(); err != nil && err != http.ErrServerClosed {
				log.Printf("Status API stopped: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = webServer.Shutdown(shutdownCtx)
		}()
	}

	if err := det.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
