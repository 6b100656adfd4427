package game

import "time"

// HoleRecord is the immutable snapshot of a completed hole, appended to the
// game history once per hole after settlement.
type HoleRecord struct {
	Hole      int                `json:"hole"`
	Captain   string             `json:"captain"`
	Order     []string           `json:"order"`
	Gross     map[string]int     `json:"gross,omitempty"`
	Net       map[string]float64 `json:"net,omitempty"`
	Deltas    map[string]int     `json:"deltas"`
	Teams     string             `json:"teams"`
	BaseWager int                `json:"base_wager"`
	Halved    bool               `json:"halved"`
	Conceded  bool               `json:"conceded"`
	Message   string             `json:"message"`
	Limbo     int                `json:"limbo,omitempty"`
	LimboWith []string           `json:"limbo_with,omitempty"`
	SettledAt time.Time          `json:"settled_at"`
}

// Snapshot is the serializable state handed to the persistence sink after
// every settlement. It is self-contained: replaying nothing, a reader can
// reconstruct standings and history from the latest snapshot alone.
type Snapshot struct {
	GameID   string       `json:"game_id"`
	Hole     int          `json:"hole"`
	Finished bool         `json:"finished"`
	Players  []Player     `json:"players"`
	Order    []string     `json:"order"`
	Teams    string       `json:"teams"`
	Wager    Wager        `json:"wager"`
	History  []HoleRecord `json:"history"`
	TakenAt  time.Time    `json:"taken_at"`
}

// Sink accepts game snapshots. Saving is fire-and-forget: the in-memory
// game remains authoritative and a failed save must never block play.
type Sink interface {
	Save(snap *Snapshot) error
}
