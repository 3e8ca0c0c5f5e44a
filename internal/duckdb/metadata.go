package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// SourceCurrent reports whether the stored graph was exported from the file
// described by fp. Only the fingerprint recorded after the latest WriteGraph
// can match.
func (s *Store) SourceCurrent(fp FileFingerprint) (bool, error) {
	var (
		size    int64
		modTime string
	)
	err := s.db.QueryRow("SELECT size, mod_time FROM sources WHERE path=?", fp.Path).Scan(&size, &modTime)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query source: %w", err)
	}
	return size == fp.Size && modTime == fp.ModTime.UTC().Format(time.RFC3339Nano), nil
}

// RecordSource stores fp as the fingerprint of the file the current graph
// was exported from. Call it after WriteGraph.
func (s *Store) RecordSource(fp FileFingerprint) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO sources (path, size, mod_time, exported_at)
		VALUES (?, ?, ?, ?)`,
		fp.Path, fp.Size,
		fp.ModTime.UTC().Format(time.RFC3339Nano),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record source: %w", err)
	}
	return nil
}
