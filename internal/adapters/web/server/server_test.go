package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tmoreau-sec/wifiscout/internal/adapters/reporting"
	"github.com/tmoreau-sec/wifiscout/internal/adapters/web/server"
	"github.com/tmoreau-sec/wifiscout/internal/adapters/web/websocket"
	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
	"github.com/tmoreau-sec/wifiscout/internal/core/services/assessment"
	"github.com/tmoreau-sec/wifiscout/internal/core/services/auth"
)

type fakeScanner struct {
	session *domain.ScanSession
}

func (f *fakeScanner) Scan(ctx context.Context, iface string) (*domain.ScanSession, error) {
	return f.session, nil
}

type fakeEnumerator struct {
	interfaces []domain.NetworkInterface
}

func (f *fakeEnumerator) ListInterfaces(ctx context.Context) []domain.NetworkInterface {
	return f.interfaces
}

type fakeSessionStore struct {
	sessions map[string]*domain.ScanSession
}

func (f *fakeSessionStore) Save(s *domain.ScanSession) error { return nil }

func (f *fakeSessionStore) Recent(limit int) ([]domain.SessionSummary, error) {
	var summaries []domain.SessionSummary
	for _, s := range f.sessions {
		summaries = append(summaries, domain.SessionSummary{
			ID:          s.ID,
			Interface:   s.Interface,
			StartedAt:   s.StartedAt,
			Kind:        s.Kind,
			RecordCount: s.RecordCount,
		})
	}
	return summaries, nil
}

func (f *fakeSessionStore) Load(id string) (*domain.ScanSession, error) {
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, domain.ErrSessionNotFound
}

type fakeHistoryStore struct{}

func (fakeHistoryStore) IndexSession(*domain.ScanSession) error { return nil }
func (fakeHistoryStore) Query(domain.HistoryFilter) ([]domain.NetworkRecord, error) {
	return []domain.NetworkRecord{{SSID: "Archived", BSSID: "aa:bb:cc:dd:ee:99"}}, nil
}
func (fakeHistoryStore) RecentSessions(int) ([]domain.SessionSummary, error) { return nil, nil }
func (fakeHistoryStore) Close() error                                        { return nil }

func storedSession() *domain.ScanSession {
	return &domain.ScanSession{
		ID:        "sess-1",
		Interface: "wlan0",
		StartedAt: time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		Kind:      domain.ResultFullScan,
		Records: []domain.NetworkRecord{
			{SSID: "HomeNet", BSSID: "aa:bb:cc:dd:ee:ff", SignalDBM: -45, Encryption: domain.EncryptionWPA2},
			{SSID: "FreeCafe", BSSID: "aa:bb:cc:dd:ee:00", SignalDBM: -70, Encryption: domain.EncryptionOpen},
		},
		RecordCount: 2,
	}
}

func setupHandler(t *testing.T) (http.Handler, string) {
	hash, err := bcrypt.GenerateFromPassword([]byte("operator"), bcrypt.MinCost)
	require.NoError(t, err)
	authService := auth.NewService(string(hash))

	engine := assessment.NewEngine()
	session := storedSession()
	store := &fakeSessionStore{sessions: map[string]*domain.ScanSession{session.ID: session}}

	srv := server.NewServer(
		":0",
		&fakeScanner{session: session},
		&fakeEnumerator{interfaces: []domain.NetworkInterface{{Name: "wlan0", Kind: "wireless"}}},
		store,
		fakeHistoryStore{},
		engine,
		authService,
		websocket.NewHub(),
		reporting.NewPDFExporter(engine),
	)
	handler := server.SetupRoutes(srv)

	token, err := authService.Login(context.Background(), "operator")
	require.NoError(t, err)

	return handler, token
}

func doRequest(handler http.Handler, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	handler, _ := setupHandler(t)

	for _, path := range []string{"/api/interfaces", "/api/sessions", "/api/history"} {
		w := doRequest(handler, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := doRequest(handler, http.MethodPost, "/api/scan", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginFlow(t *testing.T) {
	handler, _ := setupHandler(t)

	w := doRequest(handler, http.MethodPost, "/api/login", "", []byte(`{"password":"wrong"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(handler, http.MethodPost, "/api/login", "", []byte(`{"password":"operator"}`))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])

	w = doRequest(handler, http.MethodGet, "/api/interfaces", resp["token"], nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleScan(t *testing.T) {
	handler, token := setupHandler(t)

	w := doRequest(handler, http.MethodPost, "/api/scan", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var session domain.ScanSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, 2, session.RecordCount)
	assert.Equal(t, "HomeNet", session.Records[0].SSID)
}

func TestHandleGetSession(t *testing.T) {
	handler, token := setupHandler(t)

	w := doRequest(handler, http.MethodGet, "/api/sessions/sess-1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "risk_level")
	assert.Contains(t, w.Body.String(), "HomeNet")

	w = doRequest(handler, http.MethodGet, "/api/sessions/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleAssessment(t *testing.T) {
	handler, token := setupHandler(t)

	w := doRequest(handler, http.MethodGet, "/api/networks/aa:bb:cc:dd:ee:00/assessment?session=sess-1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var assessmentResp domain.SecurityAssessment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &assessmentResp))
	assert.Equal(t, domain.EncryptionOpen, assessmentResp.Encryption)
	assert.NotEmpty(t, assessmentResp.AttackVectors)

	// Missing session parameter
	w = doRequest(handler, http.MethodGet, "/api/networks/aa:bb:cc:dd:ee:00/assessment", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// BSSID not in session
	w = doRequest(handler, http.MethodGet, "/api/networks/11:11:11:11:11:11/assessment?session=sess-1", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleSessionReport(t *testing.T) {
	handler, token := setupHandler(t)

	w := doRequest(handler, http.MethodGet, "/api/sessions/sess-1/report", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestHandleHistory(t *testing.T) {
	handler, token := setupHandler(t)

	w := doRequest(handler, http.MethodGet, "/api/history?encryption=Open", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Archived")
}

func TestMetricsUnauthenticated(t *testing.T) {
	handler, _ := setupHandler(t)

	w := doRequest(handler, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
