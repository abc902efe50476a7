package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
)

// FileSessionStore persists one JSON file per scan session. Files are
// named deterministically from interface and capture time, so repeated
// scans on the same interface never collide (second resolution is
// enough: a scan takes longer than a second).
type FileSessionStore struct {
	dir string
}

func NewFileSessionStore(dir string) (*FileSessionStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", domain.ErrPersistence, dir, err)
	}
	return &FileSessionStore{dir: dir}, nil
}

func sessionFilename(session *domain.ScanSession) string {
	return fmt.Sprintf("scan_%s_%s.json",
		session.Interface, session.StartedAt.Format("20060102_150405"))
}

// Save writes the session as one file. The session held by the caller
// stays valid whether or not the write succeeds.
func (s *FileSessionStore) Save(session *domain.ScanSession) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode session %s: %v", domain.ErrPersistence, session.ID, err)
	}
	path := filepath.Join(s.dir, sessionFilename(session))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrPersistence, path, err)
	}
	return nil
}

// Recent returns summaries of the limit most recent sessions, newest
// first. Only the header fields are decoded; network lists stay on disk.
func (s *FileSessionStore) Recent(limit int) ([]domain.SessionSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrPersistence, s.dir, err)
	}

	summaries := make([]domain.SessionSummary, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "scan_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		summary, err := s.readSummary(filepath.Join(s.dir, name))
		if err != nil {
			// One corrupt file must not hide the rest of the history.
			continue
		}
		summary.Filename = name
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StartedAt.After(summaries[j].StartedAt)
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// Load reads one full session back by its ID.
func (s *FileSessionStore) Load(id string) (*domain.ScanSession, error) {
	summaries, err := s.Recent(0)
	if err != nil {
		return nil, err
	}
	for _, summary := range summaries {
		if summary.ID != id {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, summary.Filename))
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", domain.ErrPersistence, summary.Filename, err)
		}
		var session domain.ScanSession
		if err := json.Unmarshal(data, &session); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrPersistence, summary.Filename, err)
		}
		return &session, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *FileSessionStore) readSummary(path string) (domain.SessionSummary, error) {
	var summary domain.SessionSummary
	data, err := os.ReadFile(path)
	if err != nil {
		return summary, err
	}
	if err := json.Unmarshal(data, &summary); err != nil {
		return summary, err
	}
	return summary, nil
}
