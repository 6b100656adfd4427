// Package game implements the rules core of Wolf Goat Pig, a four-player
// golf wagering game with rotating captaincy, ad-hoc team formation,
// escalating wagers, and best-ball settlement in quarters.
//
// The main type is Game, which sequences a hole's lifecycle: team formation
// (partner request/accept/decline or a solo declaration), wager escalation
// (double offers, floats, the option), score recording, settlement, and
// captain rotation. Formation, wager, and settlement logic live in
// standalone types (Formation, Wager, Settle) so each protocol can be
// exercised on its own.
//
// # Basic Usage
//
//	players := []*game.Player{ /* four players in hitting order */ }
//	g, err := game.NewGame("g1", players, game.Config{BaseWager: 1})
//	msg, err := g.Dispatch(game.ActionRequestPartner, game.Payload{Player: captain, Partner: friend})
//	// ... accept, record scores, settle, advance
//
// Every operation is a synchronous, atomic state transition that either
// applies fully or fails with a typed validation error and no mutation.
// The package does no locking: callers serialize actions per game (see the
// server registry), while independent games run fully in parallel.
//
// Settlement follows the Karl Marx rule for indivisible remainders: the
// winner furthest down the ledger takes the odd quarters, and a tie for
// furthest down deliberately leaves them in limbo rather than inventing a
// tie-break.
package game
