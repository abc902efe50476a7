package storage

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
)

// SQLiteHistory is the queryable index over persisted scan sessions,
// implemented with GORM and SQLite. The file store stays the canonical
// artifact; this index exists for cross-session queries.
type SQLiteHistory struct {
	db *gorm.DB
}

// SessionModel is the GORM model for scan sessions.
type SessionModel struct {
	ID          string `gorm:"primaryKey"`
	Interface   string `gorm:"index"`
	StartedAt   time.Time
	Kind        string
	RecordCount int

	Networks []NetworkModel `gorm:"foreignKey:SessionID"`
}

// NetworkModel is one observed access point within a session.
type NetworkModel struct {
	ID             uint   `gorm:"primaryKey"`
	SessionID      string `gorm:"index"`
	SSID           string `gorm:"column:ssid"`
	BSSID          string `gorm:"column:bssid;index"`
	Channel        int
	Band           string
	SignalDBM      int
	Quality        string
	Encryption     string `gorm:"index"`
	Cipher         string
	Authentication string
	Mode           string
	CapturedAt     time.Time
	Platform       string
}

// NewSQLiteHistory opens (or creates) the history database and migrates
// the schema.
func NewSQLiteHistory(path string) (*SQLiteHistory, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("install tracing plugin: %w", err)
	}

	if err := db.AutoMigrate(&SessionModel{}, &NetworkModel{}); err != nil {
		return nil, fmt.Errorf("migrate history schema: %w", err)
	}

	db.Exec("CREATE INDEX IF NOT EXISTS idx_networks_captured_at ON network_models(captured_at)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_networks_ssid ON network_models(ssid)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON session_models(started_at)")

	return &SQLiteHistory{db: db}, nil
}

// IndexSession writes the session header and its flattened network rows
// in one transaction.
func (h *SQLiteHistory) IndexSession(session *domain.ScanSession) error {
	model := SessionModel{
		ID:          session.ID,
		Interface:   session.Interface,
		StartedAt:   session.StartedAt,
		Kind:        string(session.Kind),
		RecordCount: session.RecordCount,
	}
	for _, rec := range session.Records {
		model.Networks = append(model.Networks, NetworkModel{
			SessionID:      session.ID,
			SSID:           rec.SSID,
			BSSID:          rec.BSSID,
			Channel:        rec.Channel,
			Band:           rec.Band,
			SignalDBM:      rec.SignalDBM,
			Quality:        rec.Quality,
			Encryption:     string(rec.Encryption),
			Cipher:         rec.Cipher,
			Authentication: rec.Authentication,
			Mode:           rec.Mode,
			CapturedAt:     rec.CapturedAt,
			Platform:       string(rec.Platform),
		})
	}

	if err := h.db.Create(&model).Error; err != nil {
		return fmt.Errorf("%w: index session %s: %v", domain.ErrPersistence, session.ID, err)
	}
	return nil
}

// Query returns flattened network records matching the filter, newest
// capture first.
func (h *SQLiteHistory) Query(filter domain.HistoryFilter) ([]domain.NetworkRecord, error) {
	query := h.db.Model(&NetworkModel{}).Order("captured_at DESC")

	if filter.Encryption != "" {
		query = query.Where("encryption = ?", string(filter.Encryption))
	}
	if filter.MinRSSI != 0 {
		query = query.Where("signal_dbm >= ?", filter.MinRSSI)
	}
	if filter.SSID != "" {
		query = query.Where("ssid = ?", filter.SSID)
	}
	if filter.Interface != "" {
		query = query.Joins("JOIN session_models ON session_models.id = network_models.session_id").
			Where("session_models.interface = ?", filter.Interface)
	}
	if !filter.SeenAfter.IsZero() {
		query = query.Where("captured_at >= ?", filter.SeenAfter)
	}
	if !filter.SeenBefore.IsZero() {
		query = query.Where("captured_at <= ?", filter.SeenBefore)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var models []NetworkModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("%w: query history: %v", domain.ErrPersistence, err)
	}

	records := make([]domain.NetworkRecord, len(models))
	for i, m := range models {
		records[i] = domain.NetworkRecord{
			SSID:           m.SSID,
			BSSID:          m.BSSID,
			Channel:        m.Channel,
			Band:           m.Band,
			SignalDBM:      m.SignalDBM,
			Quality:        m.Quality,
			Encryption:     domain.Encryption(m.Encryption),
			Cipher:         m.Cipher,
			Authentication: m.Authentication,
			Mode:           m.Mode,
			CapturedAt:     m.CapturedAt,
			Platform:       domain.Platform(m.Platform),
		}
	}
	return records, nil
}

// RecentSessions lists session headers, newest first.
func (h *SQLiteHistory) RecentSessions(limit int) ([]domain.SessionSummary, error) {
	query := h.db.Model(&SessionModel{}).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []SessionModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("%w: list sessions: %v", domain.ErrPersistence, err)
	}

	summaries := make([]domain.SessionSummary, len(models))
	for i, m := range models {
		summaries[i] = domain.SessionSummary{
			ID:          m.ID,
			Interface:   m.Interface,
			StartedAt:   m.StartedAt,
			Kind:        domain.ResultKind(m.Kind),
			RecordCount: m.RecordCount,
		}
	}
	return summaries, nil
}

// Close releases the underlying connection pool.
func (h *SQLiteHistory) Close() error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
