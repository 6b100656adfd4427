// Package store provides persistence sinks for game snapshots: atomic JSON
// files for lightweight setups and a SQLite store for durable history.
// Sinks are fire-and-forget from the game's point of view; callers log and
// swallow failures.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lox/wolfgoatpig/internal/game"
)

// FileSink writes one JSON snapshot file per game under a directory,
// overwritten on every save.
type FileSink struct {
	dir string
}

// NewFileSink creates the snapshot directory if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// Save writes the snapshot atomically: a temp file in the same directory is
// renamed over the target, so readers never observe a partial snapshot.
func (fs *FileSink) Save(snap *game.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	target := filepath.Join(fs.dir, snap.GameID+".json")
	tmp, err := os.CreateTemp(fs.dir, snap.GameID+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("failed to rename snapshot: %w", err)
	}
	return nil
}

// Load reads a game snapshot back, primarily for tooling and tests.
func (fs *FileSink) Load(gameID string) (*game.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(fs.dir, gameID+".json"))
	if err != nil {
		return nil, err
	}
	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}
