package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/lox/wolfgoatpig/internal/game"
)

// SQLiteStore persists snapshots and per-hole history rows to a SQLite
// database. Safe for use as a game.Sink.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS games (
    id        TEXT PRIMARY KEY,
    hole      INTEGER NOT NULL,
    finished  INTEGER NOT NULL DEFAULT 0,
    snapshot  TEXT NOT NULL,
    taken_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS holes (
    game_id    TEXT NOT NULL REFERENCES games(id),
    hole       INTEGER NOT NULL,
    captain    TEXT NOT NULL,
    teams      TEXT NOT NULL,
    base_wager INTEGER NOT NULL,
    halved     INTEGER NOT NULL,
    conceded   INTEGER NOT NULL,
    message    TEXT NOT NULL,
    deltas     TEXT NOT NULL,
    settled_at TIMESTAMP NOT NULL,
    PRIMARY KEY (game_id, hole)
);
`

// OpenSQLite opens (or creates) the database at path and ensures the
// schema exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Save upserts the game's snapshot row and inserts any hole records not yet
// stored. Saving the same snapshot twice is a no-op, so retries are safe.
func (s *SQLiteStore) Save(snap *game.Snapshot) error {
	blob, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO games (id, hole, finished, snapshot, taken_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			hole = excluded.hole,
			finished = excluded.finished,
			snapshot = excluded.snapshot,
			taken_at = excluded.taken_at`,
		snap.GameID, snap.Hole, snap.Finished, string(blob), snap.TakenAt)
	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}

	for _, rec := range snap.History {
		deltas, err := json.Marshal(rec.Deltas)
		if err != nil {
			return fmt.Errorf("failed to encode deltas: %w", err)
		}
		_, err = tx.Exec(`
			INSERT INTO holes (game_id, hole, captain, teams, base_wager, halved, conceded, message, deltas, settled_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(game_id, hole) DO NOTHING`,
			snap.GameID, rec.Hole, rec.Captain, rec.Teams, rec.BaseWager,
			rec.Halved, rec.Conceded, rec.Message, string(deltas), rec.SettledAt)
		if err != nil {
			return fmt.Errorf("failed to insert hole %d: %w", rec.Hole, err)
		}
	}

	return tx.Commit()
}

// LoadSnapshot returns the latest stored snapshot for a game.
func (s *SQLiteStore) LoadSnapshot(gameID string) (*game.Snapshot, error) {
	var blob string
	err := s.db.QueryRow(`SELECT snapshot FROM games WHERE id = ?`, gameID).Scan(&blob)
	if err != nil {
		return nil, err
	}
	var snap game.Snapshot
	if err := json.Unmarshal([]byte(blob), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// HoleMessages returns the settlement message of every stored hole for a
// game, in hole order.
func (s *SQLiteStore) HoleMessages(gameID string) ([]string, error) {
	rows, err := s.db.Query(`SELECT message FROM holes WHERE game_id = ? ORDER BY hole`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []string
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
