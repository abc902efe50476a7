package ports

import (
	"context"

	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
)

// Scanner runs one orchestrated scan. An empty session with a nil error is
// a valid outcome: enumeration and tool failures degrade, they never crash.
type Scanner interface {
	Scan(ctx context.Context, iface string) (*domain.ScanSession, error)
}

// Enumerator discovers the wireless interfaces the platform reports.
// Absence of interfaces is a reportable state, not an error.
type Enumerator interface {
	ListInterfaces(ctx context.Context) []domain.NetworkInterface
}

// Assessor produces security assessments from canonical network records.
type Assessor interface {
	Assess(rec domain.NetworkRecord) domain.SecurityAssessment
	AnalyzeNetwork(bssid string, records []domain.NetworkRecord) (domain.SecurityAssessment, error)
	SessionRisk(records []domain.NetworkRecord) (float64, string)
}

// SessionStore is the canonical per-session artifact store (one file per
// session). Write failures surface as domain.ErrPersistence but must not
// invalidate the in-memory session already held by the caller.
type SessionStore interface {
	Save(session *domain.ScanSession) error
	Recent(limit int) ([]domain.SessionSummary, error)
	Load(id string) (*domain.ScanSession, error)
}

// HistoryStore is the queryable index over persisted sessions.
type HistoryStore interface {
	IndexSession(session *domain.ScanSession) error
	Query(filter domain.HistoryFilter) ([]domain.NetworkRecord, error)
	RecentSessions(limit int) ([]domain.SessionSummary, error)
	Close() error
}

// AuthService guards the HTTP surface.
type AuthService interface {
	Login(ctx context.Context, password string) (string, error)
	Validate(token string) bool
	Logout(token string)
}

// ScanEvents receives scan lifecycle notifications (for live dashboards).
type ScanEvents interface {
	ScanStarted(iface string)
	ScanCompleted(session *domain.ScanSession)
	ScanFailed(iface string, reason string)
}
