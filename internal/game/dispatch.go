package game

import "fmt"

// Action names accepted by Dispatch. These are the wire-level verbs the
// boundary layers map client input onto.
const (
	ActionRequestPartner   = "requestPartner"
	ActionAcceptPartner    = "acceptPartner"
	ActionDeclinePartner   = "declinePartner"
	ActionDeclareSolo      = "declareSolo"
	ActionOfferDouble      = "offerDouble"
	ActionAcceptDouble     = "acceptDouble"
	ActionDeclineDouble    = "declineDouble"
	ActionInvokeFloat      = "invokeFloat"
	ActionInvokeOption     = "invokeOption"
	ActionRecordGrossScore = "recordGrossScore"
	ActionRecordNetScore   = "recordNetScore"
	ActionSettleHole       = "settleHole"
	ActionAdvanceHole      = "advanceHole"
)

// Payload carries the per-action parameters. Unused fields are ignored by
// actions that do not need them.
type Payload struct {
	Player  string  `json:"player,omitempty"`
	Partner string  `json:"partner,omitempty"`
	Gross   int     `json:"gross,omitempty"`
	Net     float64 `json:"net,omitempty"`
}

// Dispatch is the single entry point the boundary consumes: it routes an
// action name to the matching game operation and returns the user-facing
// message. Unrecognized names fail with ErrUnknownAction; every other error
// is one of the typed validation failures, surfaced without mutating state.
func (g *Game) Dispatch(action string, p Payload) (string, error) {
	switch action {
	case ActionRequestPartner:
		return g.RequestPartner(p.Player, p.Partner)
	case ActionAcceptPartner:
		return g.AcceptPartner(p.Player)
	case ActionDeclinePartner:
		return g.DeclinePartner(p.Player)
	case ActionDeclareSolo:
		return g.DeclareSolo(p.Player)
	case ActionOfferDouble:
		return g.OfferDouble(p.Player)
	case ActionAcceptDouble:
		return g.AcceptDouble()
	case ActionDeclineDouble:
		return g.DeclineDouble()
	case ActionInvokeFloat:
		return g.InvokeFloat(p.Player)
	case ActionInvokeOption:
		return g.InvokeOption(p.Player)
	case ActionRecordGrossScore:
		return g.RecordGrossScore(p.Player, p.Gross)
	case ActionRecordNetScore:
		return g.RecordNetScore(p.Player, p.Net)
	case ActionSettleHole:
		return g.SettleHole()
	case ActionAdvanceHole:
		return g.AdvanceHole()
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, action)
}
