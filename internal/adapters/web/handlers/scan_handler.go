package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
	"github.com/tmoreau-sec/wifiscout/internal/core/ports"
)

// ScanHandler handles scan triggering, interface listing and session
// retrieval.
type ScanHandler struct {
	Scanner    ports.Scanner
	Enumerator ports.Enumerator
	Sessions   ports.SessionStore
	Assessor   ports.Assessor
}

func NewScanHandler(scanner ports.Scanner, enum ports.Enumerator, sessions ports.SessionStore, assessor ports.Assessor) *ScanHandler {
	return &ScanHandler{
		Scanner:    scanner,
		Enumerator: enum,
		Sessions:   sessions,
		Assessor:   assessor,
	}
}

// HandleScan runs one scan and returns the resulting session. The scan
// is synchronous: wireless tools finish within the configured timeout.
func (h *ScanHandler) HandleScan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Interface string `json:"interface"`
	}
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	session, err := h.Scanner.Scan(r.Context(), req.Interface)
	if err != nil {
		slog.Error("scan failed", "error", err)
		http.Error(w, "Scan failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session)
}

// HandleListInterfaces returns the wireless interfaces the platform
// reports. An empty list is a valid response, not an error.
func (h *ScanHandler) HandleListInterfaces(w http.ResponseWriter, r *http.Request) {
	interfaces := h.Enumerator.ListInterfaces(r.Context())
	if interfaces == nil {
		interfaces = []domain.NetworkInterface{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"interfaces": interfaces,
	})
}

// HandleListSessions returns recent session summaries, newest first.
func (h *ScanHandler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	summaries, err := h.Sessions.Recent(limit)
	if err != nil {
		slog.Error("session listing failed", "error", err)
		http.Error(w, "Failed to list sessions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"sessions": summaries,
	})
}

// HandleGetSession returns one full session including its network list
// and the aggregate risk for the whole scan.
func (h *ScanHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	session, err := h.Sessions.Load(id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("session load failed", "id", id, "error", err)
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}

	score, level := h.Assessor.SessionRisk(session.Records)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"session":    session,
		"risk_score": score,
		"risk_level": level,
	})
}

// HandleAssessment assesses one network from a stored session, looked
// up by BSSID.
func (h *ScanHandler) HandleAssessment(w http.ResponseWriter, r *http.Request) {
	bssid := mux.Vars(r)["bssid"]
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "Missing session query parameter", http.StatusBadRequest)
		return
	}

	session, err := h.Sessions.Load(sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("session load failed", "id", sessionID, "error", err)
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}

	assessment, err := h.Assessor.AnalyzeNetwork(bssid, session.Records)
	if errors.Is(err, domain.ErrNetworkNotFound) {
		http.Error(w, "Network not found in session", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Assessment failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(assessment)
}
