package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
)

func testSession(id, iface string, startedAt time.Time, records ...domain.NetworkRecord) *domain.ScanSession {
	return &domain.ScanSession{
		ID:          id,
		Interface:   iface,
		StartedAt:   startedAt,
		Kind:        domain.ResultFullScan,
		RecordCount: len(records),
		Records:     records,
	}
}

func TestFileSessionStore_RoundTrip(t *testing.T) {
	store, err := NewFileSessionStore(t.TempDir())
	require.NoError(t, err)

	startedAt := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)
	session := testSession("s1", "wlan0", startedAt, domain.NetworkRecord{
		SSID:       "HomeNet",
		BSSID:      "aa:bb:cc:dd:ee:ff",
		SignalDBM:  -45,
		Quality:    "75%",
		Encryption: domain.EncryptionWPA2,
	})

	require.NoError(t, store.Save(session))

	summaries, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "s1", summaries[0].ID)
	assert.Equal(t, "wlan0", summaries[0].Interface)
	assert.Equal(t, 1, summaries[0].RecordCount)
	assert.True(t, summaries[0].StartedAt.Equal(startedAt))
	assert.Equal(t, "scan_wlan0_20260825_103000.json", summaries[0].Filename)

	loaded, err := store.Load("s1")
	require.NoError(t, err)
	require.Len(t, loaded.Records, 1)
	assert.Equal(t, "HomeNet", loaded.Records[0].SSID)
	assert.Equal(t, domain.EncryptionWPA2, loaded.Records[0].Encryption)
}

func TestFileSessionStore_RecentOrderingAndLimit(t *testing.T) {
	store, err := NewFileSessionStore(t.TempDir())
	require.NoError(t, err)

	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		s := testSession(fmt.Sprintf("s%d", i), "wlan0", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.Save(s))
	}

	summaries, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "s2", summaries[0].ID)
	assert.Equal(t, "s1", summaries[1].ID)
}

func TestFileSessionStore_CorruptFileSkipped(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileSessionStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(testSession("good", "wlan0", time.Now())))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scan_wlan0_19990101_000000.json"), []byte("{broken"), 0o644))

	summaries, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "good", summaries[0].ID)
}

func TestFileSessionStore_LoadMissing(t *testing.T) {
	store, err := NewFileSessionStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
