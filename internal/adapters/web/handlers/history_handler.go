package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
	"github.com/tmoreau-sec/wifiscout/internal/core/ports"
)

// HistoryHandler queries the cross-session history index.
type HistoryHandler struct {
	History ports.HistoryStore
}

func NewHistoryHandler(history ports.HistoryStore) *HistoryHandler {
	return &HistoryHandler{History: history}
}

// HandleQuery returns flattened network records matching the query
// parameters: encryption, ssid, interface, min_rssi, limit.
func (h *HistoryHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.HistoryFilter{
		Encryption: domain.Encryption(q.Get("encryption")),
		SSID:       q.Get("ssid"),
		Interface:  q.Get("interface"),
	}

	if raw := q.Get("min_rssi"); raw != "" {
		rssi, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid min_rssi", http.StatusBadRequest)
			return
		}
		filter.MinRSSI = rssi
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	records, err := h.History.Query(filter)
	if err != nil {
		slog.Error("history query failed", "error", err)
		http.Error(w, "History query failed", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []domain.NetworkRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"networks": records,
	})
}
