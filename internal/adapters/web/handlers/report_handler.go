package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tmoreau-sec/wifiscout/internal/adapters/reporting"
	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
	"github.com/tmoreau-sec/wifiscout/internal/core/ports"
)

// ReportHandler renders stored sessions as downloadable PDF reports.
type ReportHandler struct {
	Sessions ports.SessionStore
	Exporter *reporting.PDFExporter
}

func NewReportHandler(sessions ports.SessionStore, exporter *reporting.PDFExporter) *ReportHandler {
	return &ReportHandler{
		Sessions: sessions,
		Exporter: exporter,
	}
}

// HandleSessionReport generates a PDF for one stored session.
func (h *ReportHandler) HandleSessionReport(w http.ResponseWriter, r *http.Request) {
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

	data, err := h.Exporter.ExportSessionReport(session)
	if err != nil {
		slog.Error("report generation failed", "id", id, "error", err)
		http.Error(w, "Report generation failed", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("wifiscout_%s_%s.pdf",
		session.Interface, session.StartedAt.Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(data)
}
