package game

import (
	"fmt"
	"time"
)

// EventType identifies a game event.
type EventType string

const (
	EventTypeHoleStart      EventType = "hole_start"
	EventTypeTeamFormed     EventType = "team_formed"
	EventTypeDoubleOffered  EventType = "double_offered"
	EventTypeDoubleResolved EventType = "double_resolved"
	EventTypeScoreRecorded  EventType = "score_recorded"
	EventTypeHoleSettled    EventType = "hole_settled"
)

func (et EventType) String() string { return string(et) }

// GameEvent is any event published during a round.
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// HoleStartEvent is published when a new hole begins.
type HoleStartEvent struct {
	HoleNumber int
	Captain    string
	Order      []string
	BaseWager  int
	Phase      string
	timestamp  time.Time
}

func (e HoleStartEvent) EventType() EventType { return EventTypeHoleStart }
func (e HoleStartEvent) Timestamp() time.Time { return e.timestamp }

// TeamFormedEvent is published on every formation transition, including the
// transitional pending-request step.
type TeamFormedEvent struct {
	HoleNumber   int
	Config       TeamConfig
	WagerDoubled bool
	BaseWager    int
	timestamp    time.Time
}

func (e TeamFormedEvent) EventType() EventType { return EventTypeTeamFormed }
func (e TeamFormedEvent) Timestamp() time.Time { return e.timestamp }

// DoubleOfferedEvent is published when a double goes on the table.
type DoubleOfferedEvent struct {
	HoleNumber int
	OfferedBy  string
	BaseWager  int // stake if the offer is declined
	timestamp  time.Time
}

func (e DoubleOfferedEvent) EventType() EventType { return EventTypeDoubleOffered }
func (e DoubleOfferedEvent) Timestamp() time.Time { return e.timestamp }

// DoubleResolvedEvent is published when an offer is accepted or declined.
type DoubleResolvedEvent struct {
	HoleNumber int
	Accepted   bool
	BaseWager  int // stake after resolution
	timestamp  time.Time
}

func (e DoubleResolvedEvent) EventType() EventType { return EventTypeDoubleResolved }
func (e DoubleResolvedEvent) Timestamp() time.Time { return e.timestamp }

// ScoreRecordedEvent is published when a player's net score lands.
type ScoreRecordedEvent struct {
	HoleNumber int
	PlayerID   string
	Net        float64
	timestamp  time.Time
}

func (e ScoreRecordedEvent) EventType() EventType { return EventTypeScoreRecorded }
func (e ScoreRecordedEvent) Timestamp() time.Time { return e.timestamp }

// HoleSettledEvent carries the settlement for a completed hole.
type HoleSettledEvent struct {
	HoleNumber int
	Settlement *Settlement
	Conceded   bool // hole awarded by a declined double rather than scores
	timestamp  time.Time
}

func (e HoleSettledEvent) EventType() EventType { return EventTypeHoleSettled }
func (e HoleSettledEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber receives published events.
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription.
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic synchronous in-memory event bus.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus.
func NewEventBus() EventBus {
	return &SimpleEventBus{}
}

func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

// EventFormatter renders events as user-facing lines.
type EventFormatter struct {
	names map[string]string // player id -> display name
}

// NewEventFormatter creates a formatter resolving ids through the given
// name map. Unknown ids fall back to the raw id.
func NewEventFormatter(names map[string]string) *EventFormatter {
	return &EventFormatter{names: names}
}

// Format renders any game event as a single line.
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case HoleStartEvent:
		line := fmt.Sprintf("Hole %d: %s has the honors, %d quarter%s on the line",
			e.HoleNumber, ef.name(e.Captain), e.BaseWager, plural(e.BaseWager))
		if e.Phase != "" {
			line += fmt.Sprintf(" (%s)", e.Phase)
		}
		return line
	case TeamFormedEvent:
		switch c := e.Config.(type) {
		case PendingRequest:
			return fmt.Sprintf("%s asks %s to partner up", ef.name(c.Captain), ef.name(c.Requested))
		case Partners:
			return fmt.Sprintf("Teams set: %s & %s vs %s & %s",
				ef.name(c.TeamA[0]), ef.name(c.TeamA[1]), ef.name(c.TeamB[0]), ef.name(c.TeamB[1]))
		case Solo:
			return fmt.Sprintf("%s goes it alone against the field, stake doubled to %d",
				ef.name(c.Solo), e.BaseWager)
		}
		return fmt.Sprintf("Teams now %s", e.Config)
	case DoubleOfferedEvent:
		return fmt.Sprintf("%s offers a double", ef.name(e.OfferedBy))
	case DoubleResolvedEvent:
		if e.Accepted {
			return fmt.Sprintf("Double accepted, stake is now %d quarters", e.BaseWager)
		}
		return "Double declined, hole goes to the offering side"
	case ScoreRecordedEvent:
		return fmt.Sprintf("%s posts a net %s on hole %d", ef.name(e.PlayerID), formatScore(e.Net), e.HoleNumber)
	case HoleSettledEvent:
		return e.Settlement.Message
	}
	return ""
}

func (ef *EventFormatter) name(id string) string {
	if n, ok := ef.names[id]; ok && n != "" {
		return n
	}
	return id
}
