package store

import (
	"errors"

	"github.com/lox/wolfgoatpig/internal/game"
)

// MultiSink fans a snapshot out to several sinks. Every sink is attempted;
// failures are joined so one slow or broken sink never hides the others.
type MultiSink []game.Sink

// Save saves to every sink and joins any errors.
func (m MultiSink) Save(snap *game.Snapshot) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Save(snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
