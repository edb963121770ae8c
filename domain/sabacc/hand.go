package sabacc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/luca-patrignani/sabacc/domain/deck"
)

// Hand is the state machine of a single hand. It is not safe for concurrent
// use: Run drives it on the caller's goroutine, and observers and actors are
// called from there.
type Hand struct {
	ID string

	cfg       Config
	log       *slog.Logger
	deck      *deck.Deck
	shuffler  deck.Shuffler
	observers []Observer

	players []Player
	actors  []Actor
	bet     *Betting

	phase  Phase
	dealer int
	sb, bb int
	turn   int
	acted  []bool
	drawn  []bool

	// pending is the effect whose Hanged Man window is open.
	pending *EffectRecord
	effects []EffectRecord

	allFaceUp bool
	judgment  bool

	startChips int
	starts     []int
	paid       int
	seq        int
	result     *Result
}

// Option configures a Hand.
type Option func(*Hand)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(h *Hand) { h.log = l }
}

// WithShuffler sets the shuffler of the fresh deck. The default draws from
// the Ed25519 suite's random stream.
func WithShuffler(s deck.Shuffler) Option {
	return func(h *Hand) { h.shuffler = s }
}

// WithDeck replaces the fresh deck, for replays of a known deal.
func WithDeck(d *deck.Deck) Option {
	return func(h *Hand) { h.deck = d }
}

// WithObserver registers observers for the hand's events.
func WithObserver(o ...Observer) Option {
	return func(h *Hand) { h.observers = append(h.observers, o...) }
}

// WithCarry seeds the main pot with chips carried over from a previous hand.
func WithCarry(chips int) Option {
	return func(h *Hand) {
		if chips > 0 {
			h.bet.AddDead(chips)
		}
	}
}

// WithID sets the hand identifier instead of a random UUID.
func WithID(id string) Option {
	return func(h *Hand) { h.ID = id }
}

// NewHand seats players for one hand with the given dealer. Seats with an
// empty stack sit the hand out; at least two must have chips, the dealer
// among them.
func NewHand(cfg Config, seats []Seat, dealer int, opts ...Option) (*Hand, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(seats) < 2 || len(seats) > 8 {
		return nil, fmt.Errorf("a hand needs 2 to 8 seats, got %d", len(seats))
	}
	h := &Hand{
		ID:      uuid.NewString(),
		cfg:     cfg,
		log:     slog.Default(),
		players: make([]Player, len(seats)),
		actors:  make([]Actor, len(seats)),
		bet:     NewBetting(len(seats), cfg.BigBlind),
		acted:   make([]bool, len(seats)),
		starts:  make([]int, len(seats)),
		drawn:   make([]bool, len(seats)),
		dealer:  dealer,
		turn:    -1,
	}
	playing := 0
	for i, s := range seats {
		if s.Stack < 0 {
			return nil, fmt.Errorf("seat %d has a negative stack", i)
		}
		if s.Actor == nil {
			return nil, fmt.Errorf("seat %d has no actor", i)
		}
		h.players[i] = Player{Seat: i, Name: s.Name, Stack: s.Stack}
		h.starts[i] = s.Stack
		h.actors[i] = s.Actor
		if s.Stack == 0 {
			h.players[i].Status = StatusOut
		} else {
			playing++
		}
	}
	if playing < 2 {
		return nil, fmt.Errorf("a hand needs two seats with chips, got %d", playing)
	}
	if dealer < 0 || dealer >= len(seats) || h.players[dealer].Status == StatusOut {
		return nil, fmt.Errorf("dealer seat %d is not playing", dealer)
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.deck == nil {
		h.deck = deck.New(h.shuffler)
	}
	h.startChips = h.bet.Total()
	for _, p := range h.players {
		h.startChips += p.Stack
	}
	h.log = h.log.With("hand", h.ID)
	return h, nil
}

// Phase returns the current phase.
func (h *Hand) Phase() Phase { return h.phase }

// Turn returns the seat whose turn it is, or -1 outside betting.
func (h *Hand) Turn() int { return h.turn }

// Players returns a copy of the players' state.
func (h *Hand) Players() []Player {
	out := make([]Player, len(h.players))
	for i, p := range h.players {
		p.Hand = append([]deck.Card(nil), p.Hand...)
		p.Tableau = append([]deck.Card(nil), p.Tableau...)
		out[i] = p
	}
	return out
}

// Pots returns the current main pot followed by the side pots.
func (h *Hand) Pots() []Pot { return h.bet.Pots(h.players) }

// ChipsInPlay returns the stacks plus every chip still in the pots or set
// aside as carry-over. It never changes during a hand.
func (h *Hand) ChipsInPlay() int {
	total := h.bet.Total() - h.paid
	for _, p := range h.players {
		total += p.Stack
	}
	return total
}

// StartingChips returns the chip total fixed when the hand was created.
func (h *Hand) StartingChips() int { return h.startChips }

// Cards returns every card of the hand, wherever it lies: the four piles,
// the players' hands and tableaus, and a trump waiting on its window.
func (h *Hand) Cards() []deck.Card {
	var all []deck.Card
	for p := deck.DrawPile; p <= deck.RemovedPile; p++ {
		all = append(all, h.deck.Cards(p)...)
	}
	for _, p := range h.players {
		all = append(all, p.Hand...)
		all = append(all, p.Tableau...)
	}
	if h.pending != nil {
		all = append(all, h.pending.Card)
	}
	return all
}

// Run plays the hand to the end and returns its result. It can be called
// once.
func (h *Hand) Run(ctx context.Context) (Result, error) {
	if h.phase != PhaseInit {
		return Result{}, fmt.Errorf("%w: hand already started", ErrIllegalAction)
	}
	h.emit(Event{Kind: EventStarted, Seat: h.dealer, Target: NoSeat, Amount: h.startChips})
	if err := h.deal(); err != nil {
		return Result{}, err
	}

	for _, next := range []Phase{PhaseFlop, PhaseTurn, PhaseRiver} {
		if h.showdownDue() {
			break
		}
		if next != PhaseFlop {
			h.forced(h.deck.DealToDiscard, "burn")
			h.forced(h.deck.DealToCommunity, "community card")
		}
		h.setPhase(next)
		h.bettingRound(ctx)
	}
	h.turn = -1
	h.setPhase(PhaseShowdown)
	h.settle()
	h.setPhase(PhaseSettled)
	return *h.result, nil
}

// deal posts the blinds and deals the opening cards: two to each seat
// starting left of the dealer, one to the discard pile, three to the community.
func (h *Hand) deal() error {
	h.sb = h.next(h.dealer)
	h.bb = h.next(h.sb)
	h.players[h.sb].SmallBlind = true
	h.players[h.bb].BigBlind = true
	h.bet.NewRound()
	for _, seat := range []int{h.sb, h.bb} {
		p := &h.players[seat]
		if posted := h.bet.Ante(p); posted > 0 {
			h.emit(Event{Kind: EventBlind, Seat: seat, Target: NoSeat, Amount: posted})
		}
	}

	for seat := h.next(h.dealer); ; seat = h.next(seat) {
		cards, err := h.deck.DrawN(2)
		if err != nil {
			return fmt.Errorf("dealing seat %d: %w", seat, err)
		}
		h.players[seat].Hand = cards
		if seat == h.dealer {
			break
		}
	}
	h.forced(h.deck.DealToDiscard, "burn")
	for range 3 {
		h.forced(h.deck.DealToCommunity, "community card")
	}
	h.setPhase(PhaseDealt)
	h.emit(Event{Kind: EventDealt, Seat: h.dealer, Target: NoSeat, Cards: h.deck.Cards(deck.CommunityPile)})
	return nil
}

// forced runs a dealer move that needs a card from the draw pile. With the
// reshuffle house rule the discards are recycled first; without it the move
// is skipped.
func (h *Hand) forced(move func() error, what string) {
	if h.deck.Len(deck.DrawPile) == 0 {
		h.recycle()
	}
	if err := move(); err != nil {
		h.log.Warn("dealer move skipped", "move", what, "err", err)
		h.emit(Event{Kind: EventSkipped, Seat: h.dealer, Target: NoSeat, Detail: what})
	}
}

// recycle applies the reshuffle house rule if it is enabled.
func (h *Hand) recycle() bool {
	if !h.cfg.Reshuffle {
		return false
	}
	n := h.deck.RecycleDiscards()
	if n > 0 {
		h.log.Info("discards recycled", "cards", n)
		h.emit(Event{Kind: EventReshuffle, Seat: NoSeat, Target: NoSeat, Amount: n})
	}
	return n > 0
}

// canDraw reports whether n cards can be drawn, recycling if allowed.
func (h *Hand) canDraw(n int) bool {
	if h.deck.Len(deck.DrawPile) >= n {
		return true
	}
	return h.cfg.Reshuffle && h.deck.Len(deck.DrawPile)+h.deck.Len(deck.DiscardPile) >= n
}

func (h *Hand) setPhase(p Phase) {
	h.log.Debug("phase", "from", h.phase, "to", p)
	h.phase = p
	h.emit(Event{Kind: EventPhase, Seat: NoSeat, Target: NoSeat, Detail: p.String()})
}

// next returns the first seat left of seat that was dealt in.
func (h *Hand) next(seat int) int {
	for i := 1; i <= len(h.players); i++ {
		s := (seat + i) % len(h.players)
		if h.players[s].Status != StatusOut {
			return s
		}
	}
	return seat
}

// inHand counts the players who can still win a pot.
func (h *Hand) inHand() int {
	n := 0
	for _, p := range h.players {
		if p.Status.InHand() {
			n++
		}
	}
	return n
}

func (h *Hand) showdownDue() bool { return h.judgment || h.inHand() < 2 }

// bettingRound runs turns from the seat left of the dealer until every
// active player has acted and owes nothing.
func (h *Hand) bettingRound(ctx context.Context) {
	if h.phase != PhaseFlop {
		h.bet.NewRound()
	}
	clear(h.acted)
	clear(h.drawn)
	for seat := h.next(h.dealer); !h.roundClosed(); seat = h.next(seat) {
		p := &h.players[seat]
		if p.Status != StatusActive || (h.acted[seat] && h.bet.Owed(p) == 0) {
			continue
		}
		h.takeTurn(ctx, seat)
		if h.showdownDue() {
			break
		}
	}
	h.turn = -1
}

func (h *Hand) roundClosed() bool {
	if h.showdownDue() {
		return true
	}
	for i := range h.players {
		p := &h.players[i]
		if p.Status == StatusActive && (!h.acted[i] || h.bet.Owed(p) > 0) {
			return false
		}
	}
	return true
}

// ask requests a decision from seat, re-requesting invalid ones up to
// MaxAttempts times before applying the fallback.
func (h *Hand) ask(ctx context.Context, req Request) Decision {
	actor := h.actors[req.Seat]
	for attempt := 1; attempt <= h.cfg.MaxAttempts; attempt++ {
		req.View = h.Snapshot(req.Seat)
		d, err := actor.Decide(ctx, req)
		if err != nil {
			h.log.Warn("actor failed", "seat", req.Seat, "request", req.Kind, "err", err)
			break
		}
		if err := h.Validate(req, d); err != nil {
			h.log.Warn("decision rejected", "seat", req.Seat, "request", req.Kind,
				"decision", Describe(d), "attempt", attempt, "err", err)
			h.emit(Event{Kind: EventRejected, Seat: req.Seat, Target: NoSeat, Detail: err.Error()})
			continue
		}
		return d
	}
	d := fallback(req)
	h.emit(Event{Kind: EventFallback, Seat: req.Seat, Target: NoSeat, Detail: req.Kind.String() + ": " + Describe(d)})
	return d
}

// fold moves the player's hand to the removed pile.
func (h *Hand) fold(p *Player, why string) {
	h.bet.Fold(p)
	h.deck.Remove(p.Hand...)
	p.Hand = nil
	h.log.Info("fold", "seat", p.Seat, "why", why)
	h.emit(Event{Kind: EventFold, Seat: p.Seat, Target: NoSeat, Detail: why})
}

func (h *Hand) emit(e Event) {
	h.seq++
	e.HandID = h.ID
	e.Seq = h.seq
	e.Phase = h.phase
	if len(h.observers) == 0 {
		return
	}
	e.Snapshot = h.Snapshot(-1)
	for _, o := range h.observers {
		o.Observe(e)
	}
}
