package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/callwatch/callwatch/internal/config"
	"github.com/callwatch/callwatch/internal/database"
	"github.com/callwatch/callwatch/internal/detector"
)

type Server struct {
	handler *Handler
	server  *http.Server
}

func NewServer(cfg *config.Config, repo *database.Repository, det *detector.Detector) *Server {
	handler := NewHandler(repo, det)
	mux := http.NewServeMux()
	handler.SetupRoutes(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		handler: handler,
		server:  httpServer,
	}
}

func (s *Server) Start() error {
	log.Printf("Starting status API on http://%s", s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down status API...")
	return s.server.Shutdown(ctx)
}

func (s *Server) GetAddress() string {
	return s.server.Addr
}
