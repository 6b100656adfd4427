package game

import "fmt"

// RequestPartner has the captain ask another player to team up.
func (g *Game) RequestPartner(captain, partner string) (string, error) {
	if err := g.holeOpen(); err != nil {
		return "", err
	}
	if err := g.knownPlayers(captain, partner); err != nil {
		return "", err
	}

	res, err := g.formation.RequestPartner(captain, partner)
	if err != nil {
		return "", err
	}
	g.publishFormation(res)
	return fmt.Sprintf("%s asks %s to be their partner", g.formatter.name(captain), g.formatter.name(partner)), nil
}

// AcceptPartner resolves the pending request into a 2v2 hole.
func (g *Game) AcceptPartner(partner string) (string, error) {
	if err := g.holeOpen(); err != nil {
		return "", err
	}
	if err := g.knownPlayers(partner); err != nil {
		return "", err
	}

	res, err := g.formation.AcceptPartner(partner)
	if err != nil {
		return "", err
	}
	g.publishFormation(res)
	return fmt.Sprintf("%s accepts; teams are set: %s", g.formatter.name(partner), res.Config), nil
}

// DeclinePartner refuses the request, sending the captain solo and doubling
// the stake.
func (g *Game) DeclinePartner(partner string) (string, error) {
	if err := g.holeOpen(); err != nil {
		return "", err
	}
	if err := g.knownPlayers(partner); err != nil {
		return "", err
	}

	res, err := g.formation.DeclinePartner(partner)
	if err != nil {
		return "", err
	}
	g.applyFormation(res)
	return fmt.Sprintf("%s declines; %s is on their own, stake doubled to %d quarters",
		g.formatter.name(partner), g.formatter.name(g.Captain()), g.wager.Base), nil
}

// DeclareSolo puts the captain up against the field, doubling the stake.
func (g *Game) DeclareSolo(captain string) (string, error) {
	if err := g.holeOpen(); err != nil {
		return "", err
	}
	if err := g.knownPlayers(captain); err != nil {
		return "", err
	}

	res, err := g.formation.DeclareSolo(captain)
	if err != nil {
		return "", err
	}
	g.applyFormation(res)
	return fmt.Sprintf("%s goes solo against the field, stake doubled to %d quarters",
		g.formatter.name(captain), g.wager.Base), nil
}

// OfferDouble puts a double on the table. Doubles are a team affair: teams
// must be settled before anyone can offer.
func (g *Game) OfferDouble(player string) (string, error) {
	if err := g.holeOpen(); err != nil {
		return "", err
	}
	if err := g.knownPlayers(player); err != nil {
		return "", err
	}
	if !g.formation.Config().Terminal() {
		return "", fmt.Errorf("%w: teams must be set before a double is offered", ErrInvalidTransition)
	}

	if err := g.wager.OfferDouble(player); err != nil {
		return "", err
	}
	g.publish(DoubleOfferedEvent{
		HoleNumber: g.holeNumber,
		OfferedBy:  player,
		BaseWager:  g.wager.Base,
		timestamp:  g.clock.Now(),
	})
	return fmt.Sprintf("%s offers a double", g.formatter.name(player)), nil
}

// AcceptDouble takes the double, doubling the stake for the hole.
func (g *Game) AcceptDouble() (string, error) {
	if err := g.holeOpen(); err != nil {
		return "", err
	}
	if err := g.wager.AcceptDouble(); err != nil {
		return "", err
	}
	g.publish(DoubleResolvedEvent{
		HoleNumber: g.holeNumber,
		Accepted:   true,
		BaseWager:  g.wager.Base,
		timestamp:  g.clock.Now(),
	})
	return fmt.Sprintf("Double accepted, stake is now %d quarters", g.wager.Base), nil
}

// DeclineDouble refuses the double and concedes the hole to the offering
// side at the pre-double stake. The hole settles immediately without
// scores.
func (g *Game) DeclineDouble() (string, error) {
	if err := g.holeOpen(); err != nil {
		return "", err
	}

	offeredBy, err := g.wager.DeclineDouble()
	if err != nil {
		return "", err
	}
	g.publish(DoubleResolvedEvent{
		HoleNumber: g.holeNumber,
		Accepted:   false,
		BaseWager:  g.wager.Base,
		timestamp:  g.clock.Now(),
	})

	sideA, sideB, _ := Sides(g.formation.Config())
	winners, losers := sideA, sideB
	if !containsID(winners, offeredBy) {
		winners, losers = sideB, sideA
	}

	settlement := SettleSides(winners, losers, g.wager.Base, g.players)
	settlement.Message = "Double declined: " + settlement.Message
	g.finishHole(settlement, true)
	return settlement.Message, nil
}

// InvokeFloat doubles the stake on the captain's once-per-game float.
func (g *Game) InvokeFloat(player string) (string, error) {
	if err := g.holeOpen(); err != nil {
		return "", err
	}

	p, err := g.Player(player)
	if err != nil {
		return "", err
	}
	if player != g.Captain() {
		return "", fmt.Errorf("%w: only captain %s may float", ErrInvalidTransition, g.formatter.name(g.Captain()))
	}
	if p.FloatUsed {
		return "", fmt.Errorf("%w: %s", ErrFloatAlreadyUsed, g.formatter.name(player))
	}

	p.FloatUsed = true
	p.FloatedHole = true
	g.wager.Double()
	g.logger.Debug("float invoked", "game", g.id, "hole", g.holeNumber, "player", player, "base", g.wager.Base)
	return fmt.Sprintf("%s floats, stake doubled to %d quarters", g.formatter.name(player), g.wager.Base), nil
}

// InvokeOption doubles the stake on the captain's option, available only
// while the captain is furthest down on the ledger.
func (g *Game) InvokeOption(player string) (string, error) {
	if err := g.holeOpen(); err != nil {
		return "", err
	}

	p, err := g.Player(player)
	if err != nil {
		return "", err
	}
	if player != g.Captain() {
		return "", fmt.Errorf("%w: only captain %s has the option", ErrInvalidTransition, g.formatter.name(g.Captain()))
	}
	for _, other := range g.players {
		if other.ID != player && other.Points < p.Points {
			return "", fmt.Errorf("%w: the option belongs to the captain only when furthest down", ErrInvalidTransition)
		}
	}

	if err := g.wager.InvokeOption(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s exercises the option, stake doubled to %d quarters", g.formatter.name(player), g.wager.Base), nil
}

// RecordNetScore records a player's net score for the current hole.
func (g *Game) RecordNetScore(player string, net float64) (string, error) {
	if err := g.holeOpen(); err != nil {
		return "", err
	}
	if _, err := g.Player(player); err != nil {
		return "", err
	}

	g.net[player] = net
	g.publish(ScoreRecordedEvent{
		HoleNumber: g.holeNumber,
		PlayerID:   player,
		Net:        net,
		timestamp:  g.clock.Now(),
	})
	return fmt.Sprintf("%s nets %s on hole %d", g.formatter.name(player), formatScore(net), g.holeNumber), nil
}

// RecordGrossScore records a gross score and derives the net from the
// player's stroke allocation on this hole.
func (g *Game) RecordGrossScore(player string, gross int) (string, error) {
	if err := g.holeOpen(); err != nil {
		return "", err
	}
	if _, err := g.Player(player); err != nil {
		return "", err
	}

	credit := g.strokes.Strokes(player, g.holeNumber)
	net := float64(gross) - credit
	g.gross[player] = gross
	g.net[player] = net
	g.publish(ScoreRecordedEvent{
		HoleNumber: g.holeNumber,
		PlayerID:   player,
		Net:        net,
		timestamp:  g.clock.Now(),
	})
	return fmt.Sprintf("%s shoots %d (net %s) on hole %d",
		g.formatter.name(player), gross, formatScore(net), g.holeNumber), nil
}

// SettleHole compares best balls and moves quarters. Fails with
// ErrIncompleteHole until teams are terminal and every score is in.
func (g *Game) SettleHole() (string, error) {
	if err := g.holeOpen(); err != nil {
		return "", err
	}
	for _, p := range g.players {
		if _, ok := g.net[p.ID]; !ok {
			return "", fmt.Errorf("%w: waiting on a score from %s", ErrIncompleteHole, g.formatter.name(p.ID))
		}
	}

	settlement, err := Settle(g.formation.Config(), g.net, g.wager.Base, g.players)
	if err != nil {
		return "", err
	}
	g.finishHole(settlement, false)
	return settlement.Message, nil
}

// finishHole applies deltas to the ledger, archives the hole record, and
// hands a snapshot to the sink. The only place the persistent point ledger
// is mutated.
func (g *Game) finishHole(settlement *Settlement, conceded bool) {
	for _, p := range g.players {
		p.Points += settlement.Deltas[p.ID]
	}
	g.settled = settlement
	g.lastHalved = settlement.Halved

	record := HoleRecord{
		Hole:      g.holeNumber,
		Captain:   g.Captain(),
		Order:     g.Order(),
		Gross:     copyMap(g.gross),
		Net:       copyMap(g.net),
		Deltas:    copyMap(settlement.Deltas),
		Teams:     g.formation.Config().String(),
		BaseWager: g.wager.Base,
		Halved:    settlement.Halved,
		Conceded:  conceded,
		Message:   settlement.Message,
		Limbo:     settlement.LimboQuarters,
		LimboWith: settlement.LimboPlayers,
		SettledAt: g.clock.Now(),
	}
	g.history = append(g.history, record)

	g.logger.Info("hole settled",
		"game", g.id, "hole", g.holeNumber,
		"teams", record.Teams, "base", record.BaseWager,
		"halved", record.Halved, "conceded", conceded)

	g.publish(HoleSettledEvent{
		HoleNumber: g.holeNumber,
		Settlement: settlement,
		Conceded:   conceded,
		timestamp:  record.SettledAt,
	})
	g.persist()
}

// holeOpen rejects operations once the hole is settled or the round over.
func (g *Game) holeOpen() error {
	if g.finished {
		return fmt.Errorf("%w: the round is over", ErrInvalidTransition)
	}
	if g.settled != nil {
		return fmt.Errorf("%w: hole %d is already settled", ErrInvalidTransition, g.holeNumber)
	}
	return nil
}

func (g *Game) knownPlayers(ids ...string) error {
	for _, id := range ids {
		if _, err := g.Player(id); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) publishFormation(res FormationResult) {
	g.publish(TeamFormedEvent{
		HoleNumber:   g.holeNumber,
		Config:       res.Config,
		WagerDoubled: res.WagerDoubled,
		BaseWager:    g.wager.Base,
		timestamp:    g.clock.Now(),
	})
}

// applyFormation applies the wager side effect of a formation result before
// publishing, so the event carries the post-double stake.
func (g *Game) applyFormation(res FormationResult) {
	if res.WagerDoubled {
		g.wager.Double()
	}
	g.publishFormation(res)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
