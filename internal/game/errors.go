package game

import "errors"

// Validation errors returned by game operations. All of them are local
// failures: the operation is rejected before any state is mutated, and the
// message is safe to show to the player as-is. Callers match with errors.Is.
var (
	// ErrInvalidTransition is returned when a team-formation or lifecycle
	// operation is attempted from the wrong state or by the wrong player.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrDoubleAlreadyOpen is returned when a double is offered while a
	// previous offer is still unanswered.
	ErrDoubleAlreadyOpen = errors.New("a double is already on the table")

	// ErrNoDoubleToAccept is returned when a double is accepted or declined
	// with no offer outstanding.
	ErrNoDoubleToAccept = errors.New("no double has been offered")

	// ErrFloatAlreadyUsed is returned when a player invokes their float a
	// second time in the same game.
	ErrFloatAlreadyUsed = errors.New("float already used")

	// ErrUnknownPlayer is returned when a referenced player id is not part
	// of the current game.
	ErrUnknownPlayer = errors.New("unknown player")

	// ErrIncompleteHole is returned when settlement is attempted before
	// every score is recorded or before team formation reached a terminal
	// configuration.
	ErrIncompleteHole = errors.New("hole is not ready to settle")

	// ErrUnknownAction is returned by Dispatch for unrecognized action names.
	ErrUnknownAction = errors.New("unknown action")
)
