package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
)

// setupInMemoryHistory creates a SQLiteHistory backed by :memory: for testing
func setupInMemoryHistory(t *testing.T) *SQLiteHistory {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&SessionModel{}, &NetworkModel{})
	require.NoError(t, err)

	return &SQLiteHistory{db: db}
}

func historyRecord(bssid, ssid string, enc domain.Encryption, rssi int, capturedAt time.Time) domain.NetworkRecord {
	return domain.NetworkRecord{
		SSID:       ssid,
		BSSID:      bssid,
		SignalDBM:  rssi,
		Quality:    domain.QualityTier(rssi),
		Encryption: enc,
		Mode:       "Master",
		CapturedAt: capturedAt,
		Platform:   domain.PlatformLinux,
	}
}

func TestIndexSessionAndRecentSessions(t *testing.T) {
	history := setupInMemoryHistory(t)

	base := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	s1 := testSession("s1", "wlan0", base,
		historyRecord("aa:aa:aa:aa:aa:01", "Alpha", domain.EncryptionWPA2, -40, base))
	s2 := testSession("s2", "wlan1", base.Add(time.Hour),
		historyRecord("aa:aa:aa:aa:aa:02", "Beta", domain.EncryptionOpen, -80, base.Add(time.Hour)))

	require.NoError(t, history.IndexSession(s1))
	require.NoError(t, history.IndexSession(s2))

	sessions, err := history.RecentSessions(10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "s2", sessions[0].ID)
	assert.Equal(t, "s1", sessions[1].ID)
	assert.Equal(t, 1, sessions[0].RecordCount)

	limited, err := history.RecentSessions(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "s2", limited[0].ID)
}

func TestIndexSession_DuplicateIDRejected(t *testing.T) {
	history := setupInMemoryHistory(t)

	s := testSession("dup", "wlan0", time.Now())
	require.NoError(t, history.IndexSession(s))

	err := history.IndexSession(s)
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestQueryByFilter(t *testing.T) {
	history := setupInMemoryHistory(t)

	base := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	session := testSession("s1", "wlan0", base,
		historyRecord("aa:aa:aa:aa:aa:01", "Strong", domain.EncryptionWPA2, -40, base),
		historyRecord("aa:aa:aa:aa:aa:02", "Weak", domain.EncryptionOpen, -85, base.Add(time.Minute)),
		historyRecord("aa:aa:aa:aa:aa:03", "Strong", domain.EncryptionWPA3, -55, base.Add(2*time.Minute)))
	require.NoError(t, history.IndexSession(session))

	other := testSession("s2", "wlan1", base.Add(time.Hour),
		historyRecord("bb:bb:bb:bb:bb:01", "Elsewhere", domain.EncryptionWPA2, -60, base.Add(time.Hour)))
	require.NoError(t, history.IndexSession(other))

	byEncryption, err := history.Query(domain.HistoryFilter{Encryption: domain.EncryptionOpen})
	require.NoError(t, err)
	require.Len(t, byEncryption, 1)
	assert.Equal(t, "Weak", byEncryption[0].SSID)

	byRSSI, err := history.Query(domain.HistoryFilter{MinRSSI: -60})
	require.NoError(t, err)
	assert.Len(t, byRSSI, 3)

	bySSID, err := history.Query(domain.HistoryFilter{SSID: "Strong"})
	require.NoError(t, err)
	assert.Len(t, bySSID, 2)

	byInterface, err := history.Query(domain.HistoryFilter{Interface: "wlan1"})
	require.NoError(t, err)
	require.Len(t, byInterface, 1)
	assert.Equal(t, "Elsewhere", byInterface[0].SSID)

	windowed, err := history.Query(domain.HistoryFilter{
		SeenAfter:  base.Add(30 * time.Second),
		SeenBefore: base.Add(10 * time.Minute),
	})
	require.NoError(t, err)
	assert.Len(t, windowed, 2)

	limited, err := history.Query(domain.HistoryFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	// Newest capture first.
	assert.Equal(t, "Elsewhere", limited[0].SSID)
}

func TestQuery_EmptyHistory(t *testing.T) {
	history := setupInMemoryHistory(t)

	records, err := history.Query(domain.HistoryFilter{})
	require.NoError(t, err)
	assert.Empty(t, records)
}
