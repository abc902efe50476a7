package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tmoreau-sec/wifiscout/internal/adapters/reporting"
	"github.com/tmoreau-sec/wifiscout/internal/adapters/web/handlers"
	"github.com/tmoreau-sec/wifiscout/internal/adapters/web/websocket"
	"github.com/tmoreau-sec/wifiscout/internal/core/ports"
)

// Server handles HTTP and WebSocket connections.
type Server struct {
	Addr        string
	AuthService ports.AuthService
	Hub         *websocket.Hub

	AuthHandler    *handlers.AuthHandler
	ScanHandler    *handlers.ScanHandler
	HistoryHandler *handlers.HistoryHandler
	ReportHandler  *handlers.ReportHandler

	srv *http.Server
}

// NewServer wires the HTTP surface around the core services.
func NewServer(
	addr string,
	scanner ports.Scanner,
	enum ports.Enumerator,
	sessions ports.SessionStore,
	history ports.HistoryStore,
	assessor ports.Assessor,
	authService ports.AuthService,
	hub *websocket.Hub,
	exporter *reporting.PDFExporter,
) *Server {
	return &Server{
		Addr:        addr,
		AuthService: authService,
		Hub:         hub,

		AuthHandler:    handlers.NewAuthHandler(authService),
		ScanHandler:    handlers.NewScanHandler(scanner, enum, sessions, assessor),
		HistoryHandler: handlers.NewHistoryHandler(history),
		ReportHandler:  handlers.NewReportHandler(sessions, exporter),
	}
}

// Run starts the server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	handler := SetupRoutes(s)

	// Wrap the whole surface in one server span per request.
	instrumentedHandler := otelhttp.NewHandler(handler, "wifiscout-server")

	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           instrumentedHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("web server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("web server shutdown error", "error", err)
		}
	}()

	slog.Info("web server listening", "addr", s.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
