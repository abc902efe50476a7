package reporting

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
	"github.com/tmoreau-sec/wifiscout/internal/core/ports"
)

// PDFExporter renders a scan session as a PDF posture report.
type PDFExporter struct {
	assessor ports.Assessor
}

// NewPDFExporter creates a new PDF exporter instance
func NewPDFExporter(assessor ports.Assessor) *PDFExporter {
	return &PDFExporter{assessor: assessor}
}

// ExportSessionReport generates a PDF report for one scan session.
func (e *PDFExporter) ExportSessionReport(session *domain.ScanSession) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	e.addHeader(pdf, session)
	e.addRiskScore(pdf, session)
	e.addNetworkTable(pdf, session)
	e.addRecommendations(pdf, session)
	e.addFooter(pdf, session)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, session *domain.ScanSession) {
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(0, 51, 102) // Dark blue
	pdf.CellFormat(0, 15, "Wireless Security Report", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, fmt.Sprintf("Interface: %s", session.Interface), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Captured: %s", session.StartedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Networks: %d", session.RecordCount), "", 1, "L", false, 0, "")
	if session.Kind == domain.ResultCurrentAssociation {
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(0, 6, "Note: fallback scan, only the currently joined network is shown", "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}

func (e *PDFExporter) addRiskScore(pdf *gofpdf.Fpdf, session *domain.ScanSession) {
	score, level := e.assessor.SessionRisk(session.Records)
	r, g, b := riskColor(score)

	pdf.SetFillColor(r, g, b)
	pdf.Rect(20, pdf.GetY(), 170, 30, "F")

	y := pdf.GetY()

	pdf.SetFont("Arial", "B", 36)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(25, y+5)
	pdf.CellFormat(80, 20, fmt.Sprintf("%.1f/10", score), "", 0, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 18)
	pdf.SetXY(110, y+8)
	pdf.CellFormat(80, 14, fmt.Sprintf("%s Risk", level), "", 0, "L", false, 0, "")

	pdf.SetY(y + 35)
	pdf.Ln(5)
}

func riskColor(score float64) (r, g, b int) {
	switch {
	case score >= 8.0:
		return 220, 53, 69 // Red (Critical)
	case score >= 6.0:
		return 255, 149, 0 // Orange (High)
	case score >= 4.0:
		return 255, 204, 0 // Yellow (Medium)
	default:
		return 52, 199, 89 // Green (Low)
	}
}

func levelColor(level domain.SecurityLevel) (r, g, b int) {
	switch level {
	case domain.LevelVeryLow:
		return 220, 53, 69
	case domain.LevelLow:
		return 255, 149, 0
	case domain.LevelMedium:
		return 255, 204, 0
	default:
		return 52, 199, 89
	}
}

func (e *PDFExporter) addNetworkTable(pdf *gofpdf.Fpdf, session *domain.ScanSession) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Observed Networks", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(session.Records) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 7, "No networks observed", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(60, 60, 60)

	pdf.CellFormat(45, 8, "SSID", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "BSSID", "1", 0, "L", true, 0, "")
	pdf.CellFormat(12, 8, "Ch", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 8, "Signal", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Encryption", "1", 0, "C", true, 0, "")
	pdf.CellFormat(28, 8, "Posture", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, rec := range session.Records {
		if pdf.GetY() > 260 {
			pdf.AddPage()
		}
		assessment := e.assessor.Assess(rec)

		ssid := rec.SSID
		if ssid == "" {
			ssid = "<hidden>"
		}
		if len(ssid) > 24 {
			ssid = ssid[:21] + "..."
		}

		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(45, 7, ssid, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, rec.BSSID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(12, 7, fmt.Sprintf("%d", rec.Channel), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d dBm", rec.SignalDBM), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 7, string(rec.Encryption), "1", 0, "C", false, 0, "")

		r, g, b := levelColor(assessment.Level)
		pdf.SetTextColor(r, g, b)
		pdf.CellFormat(28, 7, assessment.Level.String(), "1", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
}

func (e *PDFExporter) addRecommendations(pdf *gofpdf.Fpdf, session *domain.ScanSession) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Priority Recommendations", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	type flagged struct {
		ssid       string
		assessment domain.SecurityAssessment
	}
	var weak []flagged
	for _, rec := range session.Records {
		assessment := e.assessor.Assess(rec)
		if assessment.Level <= domain.LevelMedium {
			weak = append(weak, flagged{ssid: rec.SSID, assessment: assessment})
		}
	}

	if len(weak) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 7, "No weak networks identified", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for i, f := range weak {
		if i >= 5 { // Limit to 5 networks
			break
		}
		if pdf.GetY() > 250 {
			pdf.AddPage()
		}

		r, g, b := levelColor(f.assessment.Level)
		pdf.SetFillColor(r, g, b)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(25, 6, f.assessment.Level.String(), "", 0, "C", true, 0, "")

		pdf.SetFont("Arial", "B", 11)
		pdf.SetTextColor(0, 51, 102)
		title := f.ssid
		if title == "" {
			title = f.assessment.BSSID
		}
		pdf.CellFormat(0, 6, "  "+title, "", 1, "L", false, 0, "")
		pdf.Ln(1)

		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(60, 60, 60)
		for _, action := range f.assessment.Recommendations {
			pdf.CellFormat(5, 5, "", "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 5, "- "+action, "", 1, "L", false, 0, "")
		}

		pdf.Ln(4)
	}
}

func (e *PDFExporter) addFooter(pdf *gofpdf.Fpdf, session *domain.ScanSession) {
	pdf.SetY(-20)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(3)

	id := session.ID
	if len(id) > 8 {
		id = id[:8]
	}
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated by wifiscout | Session: %s", id), "", 1, "C", false, 0, "")
}
