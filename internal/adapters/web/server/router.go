package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tmoreau-sec/wifiscout/internal/adapters/web/middleware"
)

// SetupRoutes builds the route table. Everything except login and
// metrics sits behind the session-token middleware.
func SetupRoutes(s *Server) http.Handler {
	r := mux.NewRouter()

	// 5 login attempts per minute per client
	loginLimiter := middleware.NewRateLimiter(5, 1*time.Minute)
	r.Handle("/api/login",
		middleware.RateLimitMiddleware(loginLimiter)(http.HandlerFunc(s.AuthHandler.HandleLogin))).
		Methods(http.MethodPost)
	r.HandleFunc("/api/logout", s.AuthHandler.HandleLogout).Methods(http.MethodPost)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(s.AuthService))

	api.HandleFunc("/scan", s.ScanHandler.HandleScan).Methods(http.MethodPost)
	api.HandleFunc("/interfaces", s.ScanHandler.HandleListInterfaces).Methods(http.MethodGet)
	api.HandleFunc("/sessions", s.ScanHandler.HandleListSessions).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", s.ScanHandler.HandleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/report", s.ReportHandler.HandleSessionReport).Methods(http.MethodGet)
	api.HandleFunc("/networks/{bssid}/assessment", s.ScanHandler.HandleAssessment).Methods(http.MethodGet)
	api.HandleFunc("/history", s.HistoryHandler.HandleQuery).Methods(http.MethodGet)

	ws := middleware.AuthMiddleware(s.AuthService)
	r.Handle("/ws", ws(http.HandlerFunc(s.Hub.HandleWebSocket)))

	return r
}
