package game

import "fmt"

// Wager tracks the stake for the current hole, expressed in quarters. At
// most one double offer may be outstanding at a time; accepting or declining
// always clears it. Doubling from team formation, floats, and the option all
// land on Base through Double.
type Wager struct {
	// Base is the current stake per opponent, in quarters. Always >= 1.
	Base int `json:"base"`

	// DoubleOutstanding is set while a double offer awaits an answer.
	DoubleOutstanding bool `json:"double_outstanding"`

	// OfferedBy is the player who made the outstanding offer, used to
	// resolve the hole in their side's favour on a decline.
	OfferedBy string `json:"offered_by,omitempty"`

	// Phase is an optional late-game rule-variant label set by the
	// orchestrator ("vinnie's variation", "hoepfinger"). Informational plus stake
	// scaling at hole start; the escalation protocol is unchanged.
	Phase string `json:"phase,omitempty"`

	// OptionInvoked is set when the captain's option has doubled the stake
	// this hole.
	OptionInvoked bool `json:"option_invoked,omitempty"`
}

// NewWager returns a wager at the given base stake.
func NewWager(base int) *Wager {
	if base < 1 {
		base = 1
	}
	return &Wager{Base: base}
}

// OfferDouble puts a double on the table. The stake does not change until
// the offer is accepted.
func (w *Wager) OfferDouble(by string) error {
	if w.DoubleOutstanding {
		return fmt.Errorf("%w (offered by %s)", ErrDoubleAlreadyOpen, w.OfferedBy)
	}
	w.DoubleOutstanding = true
	w.OfferedBy = by
	return nil
}

// AcceptDouble accepts the outstanding offer, doubling the base stake.
func (w *Wager) AcceptDouble() error {
	if !w.DoubleOutstanding {
		return ErrNoDoubleToAccept
	}
	w.Base *= 2
	w.clearOffer()
	return nil
}

// DeclineDouble refuses the outstanding offer and reports who offered it.
// The wager itself only clears the offer: the caller must resolve the hole
// as won by the offering side at the pre-double stake.
func (w *Wager) DeclineDouble() (offeredBy string, err error) {
	if !w.DoubleOutstanding {
		return "", ErrNoDoubleToAccept
	}
	offeredBy = w.OfferedBy
	w.clearOffer()
	return offeredBy, nil
}

// Double applies an immediate stake double: declined partner, solo
// declaration, float, or option.
func (w *Wager) Double() {
	w.Base *= 2
}

// InvokeOption doubles the stake via the captain's option. The option can
// be exercised once per hole.
func (w *Wager) InvokeOption() error {
	if w.OptionInvoked {
		return fmt.Errorf("%w: the option has already been exercised this hole", ErrInvalidTransition)
	}
	w.OptionInvoked = true
	w.Base *= 2
	return nil
}

// ResetForHole rearms the wager at the start of a hole. A pending offer
// never survives the hole boundary. When carry is true the base stake from
// the previous (pushed) hole is kept, otherwise it returns to standard.
func (w *Wager) ResetForHole(standard int, carry bool) {
	w.clearOffer()
	w.OptionInvoked = false
	w.Phase = ""
	if !carry {
		w.Base = standard
	}
}

func (w *Wager) clearOffer() {
	w.DoubleOutstanding = false
	w.OfferedBy = ""
}
