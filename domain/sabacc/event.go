package sabacc

import "github.com/luca-patrignani/sabacc/domain/deck"

// EventKind names what happened in a hand.
type EventKind string

const (
	EventStarted   EventKind = "started"
	EventBlind     EventKind = "blind"
	EventDealt     EventKind = "dealt"
	EventPhase     EventKind = "phase"
	EventWager     EventKind = "wager"
	EventRejected  EventKind = "rejected"
	EventFallback  EventKind = "fallback"
	EventTrump     EventKind = "trump"
	EventNullified EventKind = "nullified"
	EventEffect    EventKind = "effect"
	EventDevil     EventKind = "devil"
	EventConfess   EventKind = "confess"
	EventDraw      EventKind = "draw"
	EventDiscard   EventKind = "discard"
	EventFold      EventKind = "fold"
	EventSkipped   EventKind = "skipped"
	EventReshuffle EventKind = "reshuffle"
	EventShowdown  EventKind = "showdown"
	EventAward     EventKind = "award"
	EventCarryOver EventKind = "carry_over"
	EventTransfer  EventKind = "transfer"
	EventSettled   EventKind = "settled"
)

// NoSeat fills Seat and Target when an event names no seat.
const NoSeat = -1

// Event is published to observers after every change of a hand. Cards only
// ever holds cards that are public at that moment.
type Event struct {
	HandID string      `json:"hand_id"`
	Seq    int         `json:"seq"`
	Kind   EventKind   `json:"kind"`
	Phase  Phase       `json:"phase"`
	Seat   int         `json:"seat"`
	Target int         `json:"target"`
	Cards  []deck.Card `json:"cards,omitempty"`
	Amount int         `json:"amount,omitempty"`
	Detail string      `json:"detail,omitempty"`
	// Snapshot is the public view of the hand right after the event.
	Snapshot Snapshot `json:"snapshot"`
}

// Observer receives every event of a hand, in order, on the hand's goroutine.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }
