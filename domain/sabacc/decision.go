package sabacc

import (
	"context"
	"fmt"

	"github.com/luca-patrignani/sabacc/domain/deck"
)

// RequestKind names a decision point.
type RequestKind uint8

const (
	// RequestWager expects Call, Knock, Raise, AllIn, Stake or Fold.
	RequestWager RequestKind = iota
	// RequestTrump expects PlayTrump or Pass.
	RequestTrump
	// RequestDraw expects DrawFromPile, DrawDiscardRun, DrawCommunity or Pass.
	RequestDraw
	// RequestDiscard expects Discard or Pass.
	RequestDiscard
	// RequestDevil expects GiveDevil or Pass, at the start of the holder's turn.
	RequestDevil
	// RequestNullify expects Nullify or Pass from a Hanged Man holder.
	RequestNullify
	// RequestConfess expects Confess or Fold (The Hierophant).
	RequestConfess
	// RequestChariot expects Discard or Fold (The Chariot).
	RequestChariot
	// RequestEmperor expects AnteUp, DiscardPair or Fold (The Emperor).
	RequestEmperor
	// RequestArrange expects Arrange (The Magician).
	RequestArrange
	// RequestKeep expects Keep (Wheel of Fortune).
	RequestKeep
	// RequestPeek shows cards and expects Pass (The Universe).
	RequestPeek
)

var requestNames = [...]string{
	"wager", "trump", "draw", "discard", "devil", "nullify",
	"confess", "chariot", "emperor", "arrange", "keep", "peek",
}

func (k RequestKind) String() string {
	if int(k) < len(requestNames) {
		return requestNames[k]
	}
	return fmt.Sprintf("RequestKind(%d)", k)
}

func (k RequestKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *RequestKind) UnmarshalText(text []byte) error {
	return unmarshalName(requestNames[:], text, (*uint8)(k), "request kind")
}

// onTurn reports whether the request belongs to the seat whose turn it is.
func (k RequestKind) onTurn() bool { return k <= RequestDevil }

// Request is sent to an Actor at every decision point.
type Request struct {
	Kind RequestKind `json:"kind"`
	Seat int         `json:"seat"`
	// View is the hand as the requested seat sees it.
	View Snapshot `json:"view"`
	// Owed is the amount needed to call, for wager requests.
	Owed int `json:"owed,omitempty"`
	// Cards are the private cards the request is about: the top of the draw
	// pile for arrange and peek, the cards drawn for keep.
	Cards []deck.Card `json:"cards,omitempty"`
	// Effect is the pending effect for nullify requests and the effect that
	// caused confess, chariot and emperor requests.
	Effect *EffectRecord `json:"effect,omitempty"`
}

// Actor decides for one seat. Implementations may block; the hand waits.
type Actor interface {
	Decide(ctx context.Context, req Request) (Decision, error)
}

// ActorFunc adapts a function to Actor.
type ActorFunc func(ctx context.Context, req Request) (Decision, error)

func (f ActorFunc) Decide(ctx context.Context, req Request) (Decision, error) {
	return f(ctx, req)
}

// Decision is one of the concrete decision types of this package.
type Decision interface {
	decision()
}

type (
	// Call matches the bet-to-call, all-in when the stack is short. With
	// nothing owed it behaves as a knock.
	Call struct{}
	// Knock passes without betting. Legal only when nothing is owed.
	Knock struct{}
	Fold  struct{}
	// Raise calls and then adds Amount to the bet-to-call.
	Raise struct{ Amount int }
	// AllIn commits the whole stack.
	AllIn struct{}
	// Stake pledges an item instead of calling with chips.
	Stake struct{ Item string }

	// PlayTrump plays the trump at Index of the hand. Target names the seat
	// of targeted cards and is ignored otherwise.
	PlayTrump struct {
		Index  int
		Target int
	}

	DrawFromPile struct{}
	// DrawDiscardRun takes the discard card at From (0 is the bottom) and
	// every card above it.
	DrawDiscardRun struct{ From int }
	// DrawCommunity takes community card Community and leaves hand card
	// Give in its place.
	DrawCommunity struct{ Community, Give int }

	Discard struct{ Index int }

	GiveDevil struct{ Target int }
	Nullify   struct{}
	Confess   struct{}
	// AnteUp puts one big blind into the pot to satisfy The Emperor.
	AnteUp      struct{}
	DiscardPair struct{ First, Second int }
	// Arrange lists the new order of the shown cards, new top first.
	Arrange struct{ Order []int }
	// Keep lists the shown cards to add to the hand.
	Keep struct{ Indices []int }

	Pass struct{}
)

func (Call) decision()           {}
func (Knock) decision()          {}
func (Fold) decision()           {}
func (Raise) decision()          {}
func (AllIn) decision()          {}
func (Stake) decision()          {}
func (PlayTrump) decision()      {}
func (DrawFromPile) decision()   {}
func (DrawDiscardRun) decision() {}
func (DrawCommunity) decision()  {}
func (Discard) decision()        {}
func (GiveDevil) decision()      {}
func (Nullify) decision()        {}
func (Confess) decision()        {}
func (AnteUp) decision()         {}
func (DiscardPair) decision()    {}
func (Arrange) decision()        {}
func (Keep) decision()           {}
func (Pass) decision()           {}

// fallback is applied when a seat fails to produce a valid decision.
func fallback(req Request) Decision {
	switch req.Kind {
	case RequestWager, RequestConfess, RequestChariot, RequestEmperor:
		return Fold{}
	case RequestArrange:
		order := make([]int, len(req.Cards))
		for i := range order {
			order[i] = i
		}
		return Arrange{Order: order}
	case RequestKeep:
		return Keep{}
	}
	return Pass{}
}

// Describe renders a decision for logs and event details.
func Describe(d Decision) string {
	switch d := d.(type) {
	case Call:
		return "call"
	case Knock:
		return "knock"
	case Fold:
		return "fold"
	case Raise:
		return fmt.Sprintf("raise %d", d.Amount)
	case AllIn:
		return "all-in"
	case Stake:
		return "stake " + d.Item
	case PlayTrump:
		return fmt.Sprintf("play trump #%d at seat %d", d.Index, d.Target)
	case DrawFromPile:
		return "draw from pile"
	case DrawDiscardRun:
		return fmt.Sprintf("take discards from %d", d.From)
	case DrawCommunity:
		return fmt.Sprintf("swap community %d for hand %d", d.Community, d.Give)
	case Discard:
		return fmt.Sprintf("discard #%d", d.Index)
	case GiveDevil:
		return fmt.Sprintf("give the devil to seat %d", d.Target)
	case Nullify:
		return "nullify"
	case Confess:
		return "confess"
	case AnteUp:
		return "ante up"
	case DiscardPair:
		return fmt.Sprintf("discard #%d and #%d", d.First, d.Second)
	case Arrange:
		return fmt.Sprintf("arrange %v", d.Order)
	case Keep:
		return fmt.Sprintf("keep %v", d.Indices)
	case Pass:
		return "pass"
	case nil:
		return "nothing"
	}
	return fmt.Sprintf("%T", d)
}
