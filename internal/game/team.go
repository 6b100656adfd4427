package game

import (
	"fmt"
	"strings"
)

// TeamConfig is the closed set of team configurations a hole can be in.
// Unformed and PendingRequest are transitional; Partners and Solo are
// terminal and fix which side every player is on for settlement.
type TeamConfig interface {
	Terminal() bool
	String() string
	teamConfig()
}

// Unformed is the initial configuration of every hole: no teams yet.
type Unformed struct{}

func (Unformed) Terminal() bool { return false }
func (Unformed) String() string { return "unformed" }
func (Unformed) teamConfig()    {}

// PendingRequest is a partnership request awaiting the asked player's answer.
type PendingRequest struct {
	Captain   string
	Requested string
}

func (PendingRequest) Terminal() bool { return false }
func (p PendingRequest) String() string {
	return fmt.Sprintf("pending %s->%s", p.Captain, p.Requested)
}
func (PendingRequest) teamConfig() {}

// Partners is the 2v2 terminal configuration. TeamA is always the captain's
// side, captain first.
type Partners struct {
	TeamA [2]string
	TeamB [2]string
}

func (Partners) Terminal() bool { return true }
func (p Partners) String() string {
	return fmt.Sprintf("%s vs %s", strings.Join(p.TeamA[:], "+"), strings.Join(p.TeamB[:], "+"))
}
func (Partners) teamConfig() {}

// Solo is the 1v3 terminal configuration.
type Solo struct {
	Solo      string
	Opponents [3]string
}

func (Solo) Terminal() bool { return true }
func (s Solo) String() string {
	return fmt.Sprintf("%s solo vs %s", s.Solo, strings.Join(s.Opponents[:], "+"))
}
func (Solo) teamConfig() {}

// Sides returns the two player-id lists of a terminal configuration, the
// captain's (or solo player's) side first. Returns false for transitional
// configurations.
func Sides(tc TeamConfig) (a, b []string, ok bool) {
	switch c := tc.(type) {
	case Partners:
		return c.TeamA[:], c.TeamB[:], true
	case Solo:
		return []string{c.Solo}, c.Opponents[:], true
	}
	return nil, nil, false
}

// FormationResult is the outcome of a formation transition. WagerDoubled
// reports the stake side effect so the caller applies it to the wager
// exactly once; the formation never reaches into the wager itself.
type FormationResult struct {
	Config       TeamConfig
	WagerDoubled bool
}

// Formation tracks how the four players split into sides for the current
// hole. The captain initiates all transitions from Unformed.
type Formation struct {
	captain string
	order   []string // hitting order, captain first
	config  TeamConfig
}

// NewFormation starts an unformed hole for the given hitting order. The
// first player in the order is the captain.
func NewFormation(order []string) *Formation {
	o := make([]string, len(order))
	copy(o, order)
	return &Formation{captain: o[0], order: o, config: Unformed{}}
}

// Config returns the current team configuration.
func (f *Formation) Config() TeamConfig { return f.config }

// Captain returns the captain's player id.
func (f *Formation) Captain() string { return f.captain }

// RequestPartner asks another player to join the captain's team. Only the
// captain may ask, and only while the hole is unformed.
func (f *Formation) RequestPartner(captain, partner string) (FormationResult, error) {
	if _, ok := f.config.(Unformed); !ok {
		return FormationResult{}, fmt.Errorf("%w: cannot request a partner from %s", ErrInvalidTransition, f.config)
	}
	if captain != f.captain {
		return FormationResult{}, fmt.Errorf("%w: only captain %s may request a partner", ErrInvalidTransition, f.captain)
	}
	if partner == captain {
		return FormationResult{}, fmt.Errorf("%w: captain cannot partner with themselves", ErrInvalidTransition)
	}
	if !f.contains(partner) {
		return FormationResult{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, partner)
	}

	f.config = PendingRequest{Captain: captain, Requested: partner}
	return FormationResult{Config: f.config}, nil
}

// AcceptPartner resolves a pending request into Partners. Only the player
// who was asked may accept.
func (f *Formation) AcceptPartner(partner string) (FormationResult, error) {
	pending, err := f.pendingFor(partner)
	if err != nil {
		return FormationResult{}, err
	}

	rest := f.others(pending.Captain, pending.Requested)
	f.config = Partners{
		TeamA: [2]string{pending.Captain, pending.Requested},
		TeamB: [2]string{rest[0], rest[1]},
	}
	return FormationResult{Config: f.config}, nil
}

// DeclinePartner refuses a pending request, sending the captain solo against
// the other three and doubling the base wager (the "on your own" rule).
func (f *Formation) DeclinePartner(partner string) (FormationResult, error) {
	pending, err := f.pendingFor(partner)
	if err != nil {
		return FormationResult{}, err
	}

	f.config = f.soloConfig(pending.Captain)
	return FormationResult{Config: f.config, WagerDoubled: true}, nil
}

// DeclareSolo puts the captain up against the other three without asking
// anyone, doubling the base wager.
func (f *Formation) DeclareSolo(captain string) (FormationResult, error) {
	if _, ok := f.config.(Unformed); !ok {
		return FormationResult{}, fmt.Errorf("%w: cannot go solo from %s", ErrInvalidTransition, f.config)
	}
	if captain != f.captain {
		return FormationResult{}, fmt.Errorf("%w: only captain %s may go solo", ErrInvalidTransition, f.captain)
	}

	f.config = f.soloConfig(captain)
	return FormationResult{Config: f.config, WagerDoubled: true}, nil
}

func (f *Formation) pendingFor(partner string) (PendingRequest, error) {
	pending, ok := f.config.(PendingRequest)
	if !ok {
		return PendingRequest{}, fmt.Errorf("%w: no partner request pending in %s", ErrInvalidTransition, f.config)
	}
	if pending.Requested != partner {
		return PendingRequest{}, fmt.Errorf("%w: the request is for %s, not %s", ErrInvalidTransition, pending.Requested, partner)
	}
	return pending, nil
}

func (f *Formation) soloConfig(soloID string) Solo {
	rest := f.others(soloID)
	return Solo{Solo: soloID, Opponents: [3]string{rest[0], rest[1], rest[2]}}
}

func (f *Formation) contains(id string) bool {
	for _, p := range f.order {
		if p == id {
			return true
		}
	}
	return false
}

// others returns the players not in exclude, preserving hitting order.
func (f *Formation) others(exclude ...string) []string {
	rest := make([]string, 0, len(f.order))
	for _, p := range f.order {
		skip := false
		for _, e := range exclude {
			if p == e {
				skip = true
				break
			}
		}
		if !skip {
			rest = append(rest, p)
		}
	}
	return rest
}
